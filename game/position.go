package game

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var ErrInvalidPosition = errors.New("invalid position")

type Outcome uint8

const (
	NoOutcome Outcome = iota
	PlayerWins
	OpponentWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case NoOutcome:
		return "none"
	case PlayerWins:
		return "player-wins"
	case OpponentWins:
		return "opponent-wins"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// WinFor returns the outcome in which side wins.
func WinFor(side Side) Outcome {
	if side == Player {
		return PlayerWins
	}
	return OpponentWins
}

// Position is an immutable ChessBall snapshot. It is comparable with == and
// usable as a map key: equal boards always have equal fields because
// interchangeable pieces are kept sorted by cell.
type Position struct {
	rules  Rules
	pieces [NumPieces]Cell
	ball   Cell
	toMove Side
}

// NewPosition validates a placement and returns it as a Position. Every defect
// found is reported, wrapped in ErrInvalidPosition.
func NewPosition(rules Rules, toMove Side, ball Cell, pieces [NumPieces]Cell) (Position, error) {
	if err := rules.Validate(); err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}

	var problems *multierror.Error
	if toMove != Player && toMove != Opponent {
		problems = multierror.Append(problems, fmt.Errorf("unknown side to move %d", toMove))
	}
	occupant := make(map[Cell]string, NumPieces+1)
	check := func(name string, c Cell) {
		if !rules.InBounds(c) {
			problems = multierror.Append(problems, fmt.Errorf("%s at %v is off the %dx%d board", name, c, rules.Width, rules.Height))
			return
		}
		if other, ok := occupant[c]; ok {
			problems = multierror.Append(problems, fmt.Errorf("%s and %s share cell %v", other, name, c))
			return
		}
		occupant[c] = name
	}
	check("ball", ball)
	for id, c := range pieces {
		check(PieceID(id).String(), c)
	}
	if err := problems.ErrorOrNil(); err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}

	p := Position{rules: rules, pieces: pieces, ball: ball, toMove: toMove}
	p.normalize()
	return p, nil
}

// StartingPosition returns the opening layout for the given rules.
func StartingPosition(rules Rules) (Position, error) {
	w, h := rules.Width, rules.Height
	var pieces [NumPieces]Cell
	pieces[OpponentDefender1] = Cell{0, 1}
	pieces[OpponentDefender2] = Cell{0, w - 2}
	pieces[OpponentAttacker1] = Cell{1, w/2 - 1}
	pieces[OpponentAttacker2] = Cell{1, w - w/2}
	pieces[PlayerDefender1] = Cell{h - 1, 1}
	pieces[PlayerDefender2] = Cell{h - 1, w - 2}
	pieces[PlayerAttacker1] = Cell{h - 2, w/2 - 1}
	pieces[PlayerAttacker2] = Cell{h - 2, w - w/2}
	return NewPosition(rules, Player, rules.Center(), pieces)
}

func (p Position) Rules() Rules {
	return p.rules
}

func (p Position) ToMove() Side {
	return p.toMove
}

func (p Position) Ball() Cell {
	return p.ball
}

// Piece returns the cell of the given piece.
func (p Position) Piece(id PieceID) Cell {
	return p.pieces[id]
}

// Pieces returns a copy of all piece cells indexed by PieceID.
func (p Position) Pieces() [NumPieces]Cell {
	return p.pieces
}

// PieceAt returns the piece standing on c, if any. The ball is not a piece.
func (p Position) PieceAt(c Cell) (PieceID, bool) {
	for id, pc := range p.pieces {
		if pc == c {
			return PieceID(id), true
		}
	}
	return 0, false
}

func (p Position) InBounds(c Cell) bool {
	return p.rules.InBounds(c)
}

// empty reports whether c is on the board and holds neither a piece nor the ball.
func (p Position) empty(c Cell) bool {
	if !p.rules.InBounds(c) || c == p.ball {
		return false
	}
	_, occupied := p.PieceAt(c)
	return !occupied
}

// IsTerminal reports the outcome decided by the position alone. Repetition and
// ply caps are game-history rules and are left to the engine.
func (p Position) IsTerminal() Outcome {
	if o := p.goalOutcome(); o != NoOutcome {
		return o
	}
	if !p.hasMove() {
		return Draw
	}
	return NoOutcome
}

func (p Position) goalOutcome() Outcome {
	switch p.ball.Row {
	case p.rules.GoalRow(Player):
		return PlayerWins
	case p.rules.GoalRow(Opponent):
		return OpponentWins
	}
	return NoOutcome
}

// Winner returns the side whose goal row holds the ball.
func (p Position) Winner() (Side, bool) {
	switch p.goalOutcome() {
	case PlayerWins:
		return Player, true
	case OpponentWins:
		return Opponent, true
	}
	return 0, false
}

// WithToMove returns the same board with another side to move.
func (p Position) WithToMove(side Side) Position {
	p.toMove = side
	return p
}

// normalize sorts each interchangeable pair by cell index.
func (p *Position) normalize() {
	for id := 0; id < NumPieces; id += 2 {
		if p.rules.index(p.pieces[id+1]) < p.rules.index(p.pieces[id]) {
			p.pieces[id], p.pieces[id+1] = p.pieces[id+1], p.pieces[id]
		}
	}
}

// Validate rechecks the structural invariants of an already built position.
func (p Position) Validate() error {
	q, err := NewPosition(p.rules, p.toMove, p.ball, p.pieces)
	if err != nil {
		return err
	}
	if q != p {
		return fmt.Errorf("%w: interchangeable pieces are not in normal order", ErrInvalidPosition)
	}
	return nil
}
