package game

import (
	"errors"
	"fmt"
)

var ErrIllegalMove = errors.New("illegal move")

type MoveKind uint8

const (
	Step MoveKind = iota
	Push
	Jump
	Tackle
)

func (k MoveKind) String() string {
	switch k {
	case Step:
		return "step"
	case Push:
		return "push"
	case Jump:
		return "jump"
	case Tackle:
		return "tackle"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Move is what a side commits to. From and To identify a move uniquely within
// a position; Kind is implied by what stands on To.
type Move struct {
	Kind MoveKind
	From Cell
	To   Cell
}

func (m Move) String() string {
	return fmt.Sprintf("%v->%v", m.From, m.To)
}

// MoveInfo pairs a Move with everything needed to undo it. Cells that do not
// apply to the move kind hold NoCell.
type MoveInfo struct {
	Move
	Piece PieceID // mover, as numbered in the position before the move

	BallFrom Cell // Push only
	BallTo   Cell

	Over Cell // Jump only: the piece jumped over, which does not move

	PushedFrom Cell // Tackle only: the enemy piece displaced
	PushedTo   Cell
}

func newMoveInfo(kind MoveKind, piece PieceID, from, to Cell) MoveInfo {
	return MoveInfo{
		Move:       Move{Kind: kind, From: from, To: to},
		Piece:      piece,
		BallFrom:   NoCell,
		BallTo:     NoCell,
		Over:       NoCell,
		PushedFrom: NoCell,
		PushedTo:   NoCell,
	}
}

func (mi MoveInfo) String() string {
	s := fmt.Sprintf("%s %v", mi.Piece.Token(), mi.Move)
	switch mi.Kind {
	case Push:
		s += fmt.Sprintf(" (push ball %v->%v)", mi.BallFrom, mi.BallTo)
	case Jump:
		s += fmt.Sprintf(" (jump over %v)", mi.Over)
	case Tackle:
		s += fmt.Sprintf(" (tackle %v->%v)", mi.PushedFrom, mi.PushedTo)
	}
	return s
}
