package game

import "fmt"

type Side uint8

const (
	Player Side = iota
	Opponent
)

func (s Side) Other() Side {
	return 1 - s
}

func (s Side) String() string {
	switch s {
	case Player:
		return "player"
	case Opponent:
		return "opponent"
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// token returns the single-letter initial used by the text format.
func (s Side) token() byte {
	if s == Player {
		return 'W'
	}
	return 'B'
}

type PieceType uint8

const (
	Attacker PieceType = iota
	Defender
)

func (t PieceType) String() string {
	if t == Attacker {
		return "attacker"
	}
	return "defender"
}

func (t PieceType) token() byte {
	if t == Attacker {
		return 'A'
	}
	return 'D'
}

// PieceID names one of the eight pieces. Pieces sharing a side and type form a
// pair whose members are interchangeable; a Position keeps every pair sorted
// by cell so that ID 1 of a pair never stands before ID 0.
type PieceID uint8

const (
	PlayerAttacker1 PieceID = iota
	PlayerAttacker2
	PlayerDefender1
	PlayerDefender2
	OpponentAttacker1
	OpponentAttacker2
	OpponentDefender1
	OpponentDefender2

	NumPieces = 8
)

func pieceID(side Side, kind PieceType, nth int) PieceID {
	return PieceID(int(side)*4 + int(kind)*2 + nth)
}

func (id PieceID) Side() Side {
	return Side(id / 4)
}

func (id PieceID) Type() PieceType {
	return PieceType(id / 2 % 2)
}

// Token is the two-letter text form, e.g. "WA".
func (id PieceID) Token() string {
	return string([]byte{id.Side().token(), id.Type().token()})
}

func (id PieceID) String() string {
	return fmt.Sprintf("%s-%s-%d", id.Side(), id.Type(), id%2+1)
}
