package game

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	emptyToken = "--"
	ballToken  = "NB"
)

// ParsePosition reads a board written as rows of space separated tokens, top
// row first: "--" for an empty cell, "NB" for the ball and a side initial
// (W or B) followed by a type initial (A or D) for a piece. Blank lines are
// ignored.
func ParsePosition(rules Rules, text string, toMove Side) (Position, error) {
	if err := rules.Validate(); err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			rows = append(rows, fields)
		}
	}

	var problems *multierror.Error
	if len(rows) != int(rules.Height) {
		problems = multierror.Append(problems, fmt.Errorf("expected %d rows, got %d", rules.Height, len(rows)))
	}

	var pieces [NumPieces]Cell
	for i := range pieces {
		pieces[i] = NoCell
	}
	var seen [NumPieces]int // pieces seen per pair, indexed by the pair's first ID
	ball := NoCell
	balls := 0

	for r, row := range rows {
		if len(row) != int(rules.Width) {
			problems = multierror.Append(problems, fmt.Errorf("row %d: expected %d cells, got %d", r, rules.Width, len(row)))
		}
		for c, tok := range row {
			cell := Cell{Row: int8(r), Col: int8(c)}
			switch tok {
			case emptyToken:
			case ballToken:
				ball = cell
				balls++
			default:
				first, ok := pairOf(tok)
				if !ok {
					problems = multierror.Append(problems, fmt.Errorf("unknown token %q at %v", tok, cell))
					continue
				}
				if n := seen[first]; n < 2 {
					pieces[first+PieceID(n)] = cell
				}
				seen[first]++
			}
		}
	}

	if balls != 1 {
		problems = multierror.Append(problems, fmt.Errorf("expected one ball, got %d", balls))
	}
	for first := PieceID(0); first < NumPieces; first += 2 {
		if seen[first] != 2 {
			problems = multierror.Append(problems, fmt.Errorf("expected 2 %s pieces, got %d", first.Token(), seen[first]))
		}
	}
	if err := problems.ErrorOrNil(); err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}
	return NewPosition(rules, toMove, ball, pieces)
}

// MustParsePosition is ParsePosition for boards known to be valid.
func MustParsePosition(rules Rules, text string, toMove Side) Position {
	p, err := ParsePosition(rules, text, toMove)
	if err != nil {
		panic(err)
	}
	return p
}

func pairOf(tok string) (PieceID, bool) {
	if len(tok) != 2 {
		return 0, false
	}
	var side Side
	switch tok[0] {
	case Player.token():
		side = Player
	case Opponent.token():
		side = Opponent
	default:
		return 0, false
	}
	var kind PieceType
	switch tok[1] {
	case Attacker.token():
		kind = Attacker
	case Defender.token():
		kind = Defender
	default:
		return 0, false
	}
	return pieceID(side, kind, 0), true
}

// String renders the board in the format read by ParsePosition. The side to
// move is not part of the board text.
func (p Position) String() string {
	var sb strings.Builder
	for r := int8(0); r < p.rules.Height; r++ {
		for c := int8(0); c < p.rules.Width; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := Cell{Row: r, Col: c}
			if cell == p.ball {
				sb.WriteString(ballToken)
			} else if id, ok := p.PieceAt(cell); ok {
				sb.WriteString(id.Token())
			} else {
				sb.WriteString(emptyToken)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
