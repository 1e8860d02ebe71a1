package game

import (
	"errors"
	"fmt"
	"math"
)

const (
	StandardWidth  = 7
	StandardHeight = 7

	minDimension = 5
	maxCells     = 64 // cell indexes are packed into 6 bits
)

var ErrInvalidRules = errors.New("invalid rules")

// Cell is a board coordinate, row 0 being the top row.
type Cell struct {
	Row, Col int8
}

// NoCell marks an unused cell field in move metadata.
var NoCell = Cell{Row: -1, Col: -1}

func (c Cell) Add(d Direction) Cell {
	return Cell{Row: c.Row + d.DRow, Col: c.Col + d.DCol}
}

func (c Cell) Sub(d Direction) Cell {
	return Cell{Row: c.Row - d.DRow, Col: c.Col - d.DCol}
}

func (c Cell) String() string {
	if c == NoCell {
		return "-"
	}
	return fmt.Sprintf("%d%d", c.Row, c.Col)
}

type Direction struct {
	DRow, DCol int8
}

func (d Direction) Times(n int8) Direction {
	return Direction{DRow: d.DRow * n, DCol: d.DCol * n}
}

// Directions lists the eight king steps, orthogonal ones first.
var Directions = [8]Direction{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Rules holds the board dimensions. Everything else about ChessBall is fixed:
// goal rows, forbidden ball columns and piece counts derive from the size.
type Rules struct {
	Width  int8
	Height int8
}

func NewStandardRules() Rules {
	return Rules{Width: StandardWidth, Height: StandardHeight}
}

// NewRules checks the dimensions as given before narrowing them to a board.
func NewRules(width, height int) (Rules, error) {
	if width < minDimension || height < minDimension {
		return Rules{}, fmt.Errorf("%w: board must be at least %dx%d, got %dx%d", ErrInvalidRules, minDimension, minDimension, width, height)
	}
	if width > math.MaxInt8 || height > math.MaxInt8 {
		return Rules{}, fmt.Errorf("%w: %dx%d board is too large", ErrInvalidRules, width, height)
	}
	r := Rules{Width: int8(width), Height: int8(height)}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

func (r Rules) Validate() error {
	if r.Width < minDimension || r.Height < minDimension {
		return fmt.Errorf("%w: board must be at least %dx%d, got %dx%d", ErrInvalidRules, minDimension, minDimension, r.Width, r.Height)
	}
	if r.Cells() > maxCells {
		return fmt.Errorf("%w: board has %d cells, at most %d are supported", ErrInvalidRules, r.Cells(), maxCells)
	}
	return nil
}

func (r Rules) Cells() int {
	return int(r.Width) * int(r.Height)
}

func (r Rules) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < r.Height && c.Col < r.Width
}

// ForbiddenBallColumn reports whether the ball may never be pushed into col.
func (r Rules) ForbiddenBallColumn(col int8) bool {
	return col == 0 || col == r.Width-1
}

// GoalRow is the row the ball must reach for side to win.
func (r Rules) GoalRow(side Side) int8 {
	if side == Player {
		return 0
	}
	return r.Height - 1
}

// Center is the ball's starting cell.
func (r Rules) Center() Cell {
	return Cell{Row: r.Height / 2, Col: r.Width / 2}
}

func (r Rules) index(c Cell) int {
	return int(c.Row)*int(r.Width) + int(c.Col)
}

func (r Rules) cell(index int) Cell {
	return Cell{Row: int8(index / int(r.Width)), Col: int8(index % int(r.Width))}
}

// mirror reflects a cell across the vertical axis.
func (r Rules) mirror(c Cell) Cell {
	return Cell{Row: c.Row, Col: r.Width - 1 - c.Col}
}
