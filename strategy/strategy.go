package strategy

import (
	"chessball/game"

	"golang.org/x/exp/rand"
)

// Strategy picks the move a side commits to. It returns false only when it has
// nothing to play.
type Strategy func(game.Position) (game.Move, bool)

// Invariant is a property claimed to hold throughout a strategy's games.
type Invariant func(game.Position) bool

// WinningMoves returns the moves with which side, if it had the move in p,
// would put the ball on its goal row at once.
func WinningMoves(p game.Position, side game.Side) []game.Transition {
	var wins []game.Transition
	for _, t := range game.PossibleMoves(p.WithToMove(side)) {
		if winner, ok := t.Position.Winner(); ok && winner == side {
			wins = append(wins, t)
		}
	}
	return wins
}

// FindBlockingMove returns the first move of side after which the other side
// cannot win at once and cannot reach a position lost reports as lost, and
// which does not itself land in such a position. lost may be nil.
func FindBlockingMove(p game.Position, side game.Side, lost func(game.Position) bool) (game.Transition, bool) {
	bad := func(q game.Position) bool {
		if winner, ok := q.Winner(); ok {
			return winner != side
		}
		return lost != nil && lost(q)
	}
	for _, t := range game.PossibleMoves(p.WithToMove(side)) {
		if bad(t.Position) {
			continue
		}
		safe := true
		for _, reply := range game.PossibleMoves(t.Position) {
			if bad(reply.Position) {
				safe = false
				break
			}
		}
		if safe {
			return t, true
		}
	}
	return game.Transition{}, false
}

// IsWinAvoidable reports whether the side losing to winner could have kept
// winner from an immediate win by a different last move: every position it
// may have moved from to reach p must offer a blocking move. A position with
// no such predecessor is not avoidable.
func IsWinAvoidable(p game.Position, winner game.Side) bool {
	prevs := game.PossiblePreviousMoves(p.WithToMove(winner))
	if len(prevs) == 0 {
		return false
	}
	for _, t := range prevs {
		if _, ok := FindBlockingMove(t.Position, winner.Other(), nil); !ok {
			return false
		}
	}
	return true
}

// BlockingStrategy plays the first move that leaves the opponent without an
// immediate win, or the first legal move when every move loses.
func BlockingStrategy(p game.Position) (game.Move, bool) {
	if t, ok := FindBlockingMove(p, p.ToMove(), nil); ok {
		return t.Info.Move, true
	}
	moves := game.PossibleMoves(p)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	return moves[0].Info.Move, true
}

// GreedyStrategy wins at once when it can and otherwise plays the move whose
// result w scores best for the side to move. Ties go to the earliest move in
// generation order.
func GreedyStrategy(w game.Weights) Strategy {
	return func(p game.Position) (game.Move, bool) {
		side := p.ToMove()
		if wins := WinningMoves(p, side); len(wins) > 0 {
			return wins[0].Info.Move, true
		}
		var best game.Move
		bestScore, found := 0.0, false
		for _, t := range game.PossibleMoves(p) {
			score := w.Score(t.Position)
			if side == game.Opponent {
				score = -score
			}
			if !found || score < bestScore {
				best, bestScore, found = t.Info.Move, score, true
			}
		}
		return best, found
	}
}

// RandomStrategy plays uniformly random legal moves. The returned strategy is
// not safe for concurrent use.
func RandomStrategy(seed uint64) Strategy {
	rng := rand.New(rand.NewSource(seed))
	return func(p game.Position) (game.Move, bool) {
		moves := game.PossibleMoves(p)
		if len(moves) == 0 {
			return game.Move{}, false
		}
		return moves[rng.Intn(len(moves))].Info.Move, true
	}
}

// BallWithinRows holds while the ball is at most n rows from the centre row.
func BallWithinRows(n int) Invariant {
	return func(p game.Position) bool {
		d := int(p.Ball().Row) - int(p.Rules().Center().Row)
		if d < 0 {
			d = -d
		}
		return d <= n
	}
}

// NoImmediateThreat holds while the opponent of side has no winning move.
func NoImmediateThreat(side game.Side) Invariant {
	return func(p game.Position) bool {
		return len(WinningMoves(p, side.Other())) == 0
	}
}

// All holds when every invariant holds.
func All(invariants ...Invariant) Invariant {
	return func(p game.Position) bool {
		for _, inv := range invariants {
			if !inv(p) {
				return false
			}
		}
		return true
	}
}
