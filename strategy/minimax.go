package strategy

import (
	"math"

	"chessball/game"
)

// MinimaxStrategy wins at once when it can and otherwise searches depth plies
// with alpha-beta pruning, scoring the leaves with w. The Player minimises
// w.Score and the Opponent maximises it. Faster wins are preferred and ties
// go to the earliest move in generation order. A depth below 1 searches one
// ply.
func MinimaxStrategy(w game.Weights, depth int) Strategy {
	depth = max(depth, 1)
	return func(p game.Position) (game.Move, bool) {
		side := p.ToMove()
		if wins := WinningMoves(p, side); len(wins) > 0 {
			return wins[0].Info.Move, true
		}
		moves := game.PossibleMoves(p)
		if len(moves) == 0 {
			return game.Move{}, false
		}

		best, bestValue := moves[0].Info.Move, math.Inf(-1)
		for _, t := range moves {
			v := -negamax(w, t.Position, depth-1, math.Inf(-1), -bestValue)
			if v > bestValue {
				best, bestValue = t.Info.Move, v
			}
		}
		return best, true
	}
}

// negamax returns the value of p for the side to move, searching depth more
// plies inside the window (alpha, beta).
func negamax(w game.Weights, p game.Position, depth int, alpha, beta float64) float64 {
	side := p.ToMove()
	if p.IsTerminal() != game.NoOutcome {
		return utility(w, p, side)
	}
	if wins := WinningMoves(p, side); len(wins) > 0 {
		return utility(w, wins[0].Position, side) + float64(depth)
	}
	if depth == 0 {
		return utility(w, p, side)
	}

	best := math.Inf(-1)
	for _, t := range game.PossibleMoves(p) {
		best = max(best, -negamax(w, t.Position, depth-1, -beta, -alpha))
		alpha = max(alpha, best)
		if alpha >= beta {
			break
		}
	}
	return best
}

// utility turns the Player-centred score of p into a value for side.
func utility(w game.Weights, p game.Position, side game.Side) float64 {
	if side == game.Player {
		return -w.Score(p)
	}
	return w.Score(p)
}
