package game

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var ErrRetrogradeInconsistency = errors.New("retrograde inconsistency")

// Transition is one edge of the game graph. For PossibleMoves, Position is the
// successor; for PossiblePreviousMoves it is the predecessor and Info
// describes the move played from it.
type Transition struct {
	Info     MoveInfo
	Position Position
}

// A moveRule pairs a forward rule with its exact inverse. forward tries to move
// piece id of p in direction d. inverse assumes piece id of p just arrived by
// this rule from direction d and rebuilds the position before the move.
type moveRule struct {
	kind    MoveKind
	forward func(p Position, id PieceID, d Direction) (Transition, bool)
	inverse func(p Position, id PieceID, d Direction) (Transition, bool)
}

var moveRules = [...]moveRule{
	{kind: Step, forward: stepForward, inverse: stepInverse},
	{kind: Push, forward: pushForward, inverse: pushInverse},
	{kind: Jump, forward: jumpForward, inverse: jumpInverse},
	{kind: Tackle, forward: tackleForward, inverse: tackleInverse},
}

// PossibleMoves returns every legal move of the side to move, ordered by piece
// identity, then destination cell. Terminal positions have none.
func PossibleMoves(p Position) []Transition {
	if p.goalOutcome() != NoOutcome {
		return nil
	}
	var moves []Transition
	for _, id := range sidePieces(p.toMove) {
		for _, d := range Directions {
			for _, r := range moveRules {
				if t, ok := r.forward(p, id, d); ok {
					moves = append(moves, t)
				}
			}
		}
	}
	slices.SortFunc(moves, func(a, b Transition) int {
		return compareMoves(p.rules, a.Info, b.Info)
	})
	return moves
}

// PossiblePreviousMoves returns every (move, predecessor) pair such that the
// move, played by the side not to move in p, turns the predecessor into p.
func PossiblePreviousMoves(p Position) []Transition {
	mover := p.toMove.Other()
	var prevs []Transition
	for _, id := range sidePieces(mover) {
		for _, d := range Directions {
			for _, r := range moveRules {
				t, ok := r.inverse(p, id, d)
				if !ok || t.Position.goalOutcome() != NoOutcome {
					continue
				}
				prevs = append(prevs, t)
			}
		}
	}
	return prevs
}

// LegalMoves lists the moves of the side to move without the successors.
func (p Position) LegalMoves() []MoveInfo {
	moves := PossibleMoves(p)
	infos := make([]MoveInfo, len(moves))
	for i, t := range moves {
		infos[i] = t.Info
	}
	return infos
}

// Play applies m and returns the successor. The move must be legal.
func (p Position) Play(m Move) (Position, MoveInfo, error) {
	for _, t := range PossibleMoves(p) {
		if t.Info.From == m.From && t.Info.To == m.To {
			return t.Position, t.Info, nil
		}
	}
	return Position{}, MoveInfo{}, fmt.Errorf("%w: %v for %v", ErrIllegalMove, m, p.toMove)
}

// CheckInvertibility verifies that every successor of q lists q, with the same
// move, among its predecessors.
func CheckInvertibility(q Position) error {
	for _, next := range PossibleMoves(q) {
		found := false
		for _, prev := range PossiblePreviousMoves(next.Position) {
			if prev.Position == q && prev.Info == next.Info {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %v does not lead back to\n%v", ErrRetrogradeInconsistency, next.Info, q)
		}
	}
	return nil
}

func (p Position) hasMove() bool {
	for _, id := range sidePieces(p.toMove) {
		for _, d := range Directions {
			for _, r := range moveRules {
				if _, ok := r.forward(p, id, d); ok {
					return true
				}
			}
		}
	}
	return false
}

var piecesBySide = [2][4]PieceID{
	{PlayerAttacker1, PlayerAttacker2, PlayerDefender1, PlayerDefender2},
	{OpponentAttacker1, OpponentAttacker2, OpponentDefender1, OpponentDefender2},
}

func sidePieces(s Side) [4]PieceID {
	return piecesBySide[s]
}

func compareMoves(r Rules, a, b MoveInfo) int {
	if a.Piece != b.Piece {
		return int(a.Piece) - int(b.Piece)
	}
	if ai, bi := r.index(a.To), r.index(b.To); ai != bi {
		return ai - bi
	}
	return int(a.Kind) - int(b.Kind)
}

// after finishes a forward move: hands the turn over and restores pair order.
func after(q Position) Position {
	q.toMove = q.toMove.Other()
	q.normalize()
	return q
}

// before finishes an inverse move and describes the move from the rebuilt
// predecessor's point of view, where the mover may carry another pair index.
func before(q Position, info MoveInfo) Transition {
	q.toMove = q.toMove.Other()
	q.normalize()
	info.Piece, _ = q.PieceAt(info.From)
	return Transition{Info: info, Position: q}
}

func stepForward(p Position, id PieceID, d Direction) (Transition, bool) {
	from := p.pieces[id]
	to := from.Add(d)
	if !p.empty(to) {
		return Transition{}, false
	}
	q := p
	q.pieces[id] = to
	return Transition{Info: newMoveInfo(Step, id, from, to), Position: after(q)}, true
}

func stepInverse(p Position, id PieceID, d Direction) (Transition, bool) {
	to := p.pieces[id]
	from := to.Sub(d)
	if !p.empty(from) {
		return Transition{}, false
	}
	q := p
	q.pieces[id] = from
	return before(q, newMoveInfo(Step, id, from, to)), true
}

func pushForward(p Position, id PieceID, d Direction) (Transition, bool) {
	from := p.pieces[id]
	to := from.Add(d)
	if to != p.ball {
		return Transition{}, false
	}
	ballTo := to.Add(d)
	if !p.empty(ballTo) || p.rules.ForbiddenBallColumn(ballTo.Col) {
		return Transition{}, false
	}
	q := p
	q.pieces[id] = to
	q.ball = ballTo
	info := newMoveInfo(Push, id, from, to)
	info.BallFrom, info.BallTo = to, ballTo
	return Transition{Info: info, Position: after(q)}, true
}

func pushInverse(p Position, id PieceID, d Direction) (Transition, bool) {
	to := p.pieces[id]
	if p.ball != to.Add(d) || p.rules.ForbiddenBallColumn(p.ball.Col) {
		return Transition{}, false
	}
	from := to.Sub(d)
	if !p.empty(from) {
		return Transition{}, false
	}
	q := p
	q.pieces[id] = from
	q.ball = to
	info := newMoveInfo(Push, id, from, to)
	info.BallFrom, info.BallTo = to, p.ball
	return before(q, info), true
}

func jumpForward(p Position, id PieceID, d Direction) (Transition, bool) {
	if id.Type() != Attacker {
		return Transition{}, false
	}
	from := p.pieces[id]
	over := from.Add(d)
	if _, ok := p.PieceAt(over); !ok {
		return Transition{}, false
	}
	to := from.Add(d.Times(2))
	if !p.empty(to) {
		return Transition{}, false
	}
	q := p
	q.pieces[id] = to
	info := newMoveInfo(Jump, id, from, to)
	info.Over = over
	return Transition{Info: info, Position: after(q)}, true
}

func jumpInverse(p Position, id PieceID, d Direction) (Transition, bool) {
	if id.Type() != Attacker {
		return Transition{}, false
	}
	to := p.pieces[id]
	over := to.Sub(d)
	if _, ok := p.PieceAt(over); !ok {
		return Transition{}, false
	}
	from := to.Sub(d.Times(2))
	if !p.empty(from) {
		return Transition{}, false
	}
	q := p
	q.pieces[id] = from
	info := newMoveInfo(Jump, id, from, to)
	info.Over = over
	return before(q, info), true
}

func tackleForward(p Position, id PieceID, d Direction) (Transition, bool) {
	if id.Type() != Defender {
		return Transition{}, false
	}
	from := p.pieces[id]
	to := from.Add(d)
	victim, ok := p.PieceAt(to)
	if !ok || victim.Side() == id.Side() {
		return Transition{}, false
	}
	pushedTo := to.Add(d)
	if !p.empty(pushedTo) {
		return Transition{}, false
	}
	q := p
	q.pieces[victim] = pushedTo
	q.pieces[id] = to
	info := newMoveInfo(Tackle, id, from, to)
	info.PushedFrom, info.PushedTo = to, pushedTo
	return Transition{Info: info, Position: after(q)}, true
}

func tackleInverse(p Position, id PieceID, d Direction) (Transition, bool) {
	if id.Type() != Defender {
		return Transition{}, false
	}
	to := p.pieces[id]
	pushedTo := to.Add(d)
	victim, ok := p.PieceAt(pushedTo)
	if !ok || victim.Side() == id.Side() {
		return Transition{}, false
	}
	from := to.Sub(d)
	if !p.empty(from) {
		return Transition{}, false
	}
	q := p
	q.pieces[id] = from
	q.pieces[victim] = to
	info := newMoveInfo(Tackle, id, from, to)
	info.PushedFrom, info.PushedTo = to, pushedTo
	return before(q, info), true
}
