package strategy

import (
	"errors"
	"fmt"
	"strings"

	"chessball/game"

	"github.com/rs/zerolog/log"
)

var ErrIllegalMoveRequested = errors.New("strategy requested an illegal move")

type Violation uint8

const (
	NoViolation Violation = iota
	Loss
	InvariantBroken
)

func (v Violation) String() string {
	switch v {
	case NoViolation:
		return "none"
	case Loss:
		return "loss"
	case InvariantBroken:
		return "invariant-broken"
	}
	return fmt.Sprintf("violation(%d)", uint8(v))
}

// Step is one ply of a counterexample: the move and the position it produced.
type Step struct {
	Move     game.MoveInfo
	Position game.Position
}

type VerificationResult struct {
	Holds bool
	// Start and Counterexample describe the refuting line when Holds is false.
	// The last position of the line is a loss or breaks the invariant.
	Start          game.Position
	Counterexample []Step
	Violation      Violation
	// Depth is the ply horizon explored. Proven means no branch reached it, so
	// the result covers the whole reachable game.
	Depth  int
	Proven bool
	Nodes  int
}

// Final returns the position that refutes the strategy.
func (r VerificationResult) Final() game.Position {
	if len(r.Counterexample) == 0 {
		return r.Start
	}
	return r.Counterexample[len(r.Counterexample)-1].Position
}

func (r VerificationResult) String() string {
	switch {
	case !r.Holds:
		var sb strings.Builder
		fmt.Fprintf(&sb, "fails (%v) after %d plies:", r.Violation, len(r.Counterexample))
		for _, s := range r.Counterexample {
			fmt.Fprintf(&sb, " %v;", s.Move)
		}
		return sb.String()
	case r.Proven:
		return "holds unconditionally"
	default:
		return fmt.Sprintf("holds to depth %d", r.Depth)
	}
}

type VerifyOption func(v *verifier)

// WithStrategySide sets the side the strategy plays. It defaults to the Player.
func WithStrategySide(side game.Side) VerifyOption {
	return func(v *verifier) {
		v.side = side
	}
}

type verifier struct {
	strategy  Strategy
	invariant Invariant
	side      game.Side

	explored  map[game.Position]int // deepest remaining horizon already verified
	onPath    map[game.Position]bool
	path      []Step
	violation Violation
	nodes     int
	truncated bool
}

// Verify checks that strategy never loses and keeps invariant from start on,
// against every reply of the other side, for maxDepth plies. Returning to a
// position already on the current line closes that line: the game repeats.
// Terminal positions end a line; a won or drawn one is not checked against
// the invariant.
func Verify(strategy Strategy, invariant Invariant, start game.Position, maxDepth int, options ...VerifyOption) (VerificationResult, error) {
	v := &verifier{
		strategy:  strategy,
		invariant: invariant,
		side:      game.Player,
		explored:  make(map[game.Position]int),
		onPath:    make(map[game.Position]bool),
	}
	for _, option := range options {
		option(v)
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	holds, err := v.visit(start, maxDepth)
	if err != nil {
		return VerificationResult{}, err
	}
	result := VerificationResult{
		Holds:  holds,
		Start:  start,
		Depth:  maxDepth,
		Proven: holds && !v.truncated,
		Nodes:  v.nodes,
	}
	if !holds {
		result.Counterexample = v.path
		result.Violation = v.violation
	}
	log.Debug().Bool("holds", result.Holds).Bool("proven", result.Proven).Int("nodes", result.Nodes).Int("depth", maxDepth).Msg("verification-complete")
	return result, nil
}

// visit leaves v.path pointing at the refuting line when it returns false.
func (v *verifier) visit(p game.Position, remaining int) (bool, error) {
	v.nodes++

	switch p.IsTerminal() {
	case game.WinFor(v.side.Other()):
		v.violation = Loss
		return false, nil
	case game.NoOutcome:
	default:
		return true, nil
	}
	if !v.invariant(p) {
		v.violation = InvariantBroken
		return false, nil
	}
	if v.onPath[p] {
		return true, nil
	}
	if seen, ok := v.explored[p]; ok && seen >= remaining {
		return true, nil
	}
	if remaining == 0 {
		v.truncated = true
		return true, nil
	}

	v.onPath[p] = true
	defer delete(v.onPath, p)

	if p.ToMove() == v.side {
		m, ok := v.strategy(p)
		if !ok {
			return false, fmt.Errorf("%w: no move chosen in\n%v", ErrIllegalMoveRequested, p)
		}
		next, info, err := p.Play(m)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrIllegalMoveRequested, err)
		}
		if holds, err := v.follow(info, next, remaining); !holds || err != nil {
			return holds, err
		}
	} else {
		for _, t := range game.PossibleMoves(p) {
			if holds, err := v.follow(t.Info, t.Position, remaining); !holds || err != nil {
				return holds, err
			}
		}
	}

	v.explored[p] = remaining
	return true, nil
}

func (v *verifier) follow(info game.MoveInfo, next game.Position, remaining int) (bool, error) {
	v.path = append(v.path, Step{Move: info, Position: next})
	holds, err := v.visit(next, remaining-1)
	if holds && err == nil {
		v.path = v.path[:len(v.path)-1]
	}
	return holds, err
}
