package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// denseBoard has every move kind available to the Player.
const denseBoard = `
-- -- -- -- -- -- --
-- -- BD -- -- -- --
-- -- WA BA -- -- --
-- -- WD NB -- BD --
-- -- -- WA BA -- --
-- -- -- WD -- -- --
-- -- -- -- -- -- --
`

// beforeLossBoard is one Opponent push away from lostBoard.
const beforeLossBoard = `
-- BD -- -- -- BD --
-- -- -- -- BA -- --
-- -- -- -- -- -- --
-- -- -- -- -- -- --
-- -- -- BA -- -- --
-- -- WA NB -- -- --
-- WD -- -- WA WD --
`

const lostBoard = `
-- BD -- -- -- BD --
-- -- -- -- BA -- --
-- -- -- -- -- -- --
-- -- -- -- -- -- --
-- -- -- -- -- -- --
-- -- WA BA -- -- --
-- WD -- NB WA WD --
`

func TestPossibleMoves(t *testing.T) {
	rules := NewStandardRules()

	t.Run("opening has moves and none of them loses", func(t *testing.T) {
		start, err := StartingPosition(rules)
		require.NoError(t, err)

		moves := PossibleMoves(start)
		require.NotEmpty(t, moves)
		for _, m := range moves {
			require.Equal(t, Player, m.Info.Piece.Side())
			require.NoError(t, m.Position.Validate())
			require.Equal(t, Opponent, m.Position.ToMove())
			require.NotEqual(t, OpponentWins, m.Position.IsTerminal())
		}
	})

	t.Run("moves are ordered by piece then destination", func(t *testing.T) {
		p := MustParsePosition(rules, denseBoard, Player)
		moves := PossibleMoves(p)
		for i := 1; i < len(moves); i++ {
			require.Negative(t, compareMoves(rules, moves[i-1].Info, moves[i].Info))
		}
	})

	t.Run("each move kind is generated", func(t *testing.T) {
		p := MustParsePosition(rules, denseBoard, Player)

		_, push, err := p.Play(Move{From: Cell{3, 2}, To: Cell{3, 3}})
		require.NoError(t, err)
		require.Equal(t, Push, push.Kind)
		require.Equal(t, Cell{3, 4}, push.BallTo)

		next, jump, err := p.Play(Move{From: Cell{2, 2}, To: Cell{2, 4}})
		require.NoError(t, err)
		require.Equal(t, Jump, jump.Kind)
		require.Equal(t, Cell{2, 3}, jump.Over)
		id, ok := next.PieceAt(Cell{2, 3})
		require.True(t, ok, "The jumped piece stays")
		require.Equal(t, Opponent, id.Side())

		next, tackle, err := p.Play(Move{From: Cell{3, 2}, To: Cell{2, 3}})
		require.NoError(t, err)
		require.Equal(t, Tackle, tackle.Kind)
		require.Equal(t, Cell{1, 4}, tackle.PushedTo)
		id, ok = next.PieceAt(Cell{1, 4})
		require.True(t, ok)
		require.Equal(t, Opponent, id.Side())

		_, step, err := p.Play(Move{From: Cell{5, 3}, To: Cell{6, 3}})
		require.NoError(t, err)
		require.Equal(t, Step, step.Kind)
	})

	t.Run("illegal moves are refused", func(t *testing.T) {
		p := MustParsePosition(rules, denseBoard, Player)
		_, _, err := p.Play(Move{From: Cell{2, 2}, To: Cell{2, 3}})
		require.ErrorIs(t, err, ErrIllegalMove)

		_, _, err = p.Play(Move{From: Cell{2, 3}, To: Cell{1, 3}})
		require.ErrorIs(t, err, ErrIllegalMove, "Opponent pieces cannot move on the Player's turn")
	})

	t.Run("the ball is never pushed into an edge column", func(t *testing.T) {
		text := `
-- BD -- -- -- BD --
-- -- BA -- BA -- --
-- -- -- -- -- -- --
-- NB WA -- -- -- --
-- -- -- -- -- -- --
-- -- -- -- WA -- --
-- WD -- -- -- WD --
`
		p := MustParsePosition(rules, text, Player)
		_, _, err := p.Play(Move{From: Cell{3, 2}, To: Cell{3, 1}})
		require.ErrorIs(t, err, ErrIllegalMove)
		for _, m := range PossibleMoves(p) {
			require.False(t, rules.ForbiddenBallColumn(m.Position.Ball().Col))
		}
	})

	t.Run("the winning push ends the game", func(t *testing.T) {
		p := MustParsePosition(rules, beforeLossBoard, Opponent)
		next, info, err := p.Play(Move{From: Cell{4, 3}, To: Cell{5, 3}})
		require.NoError(t, err)
		require.Equal(t, Push, info.Kind)
		require.Equal(t, MustParsePosition(rules, lostBoard, Player), next)
		require.Equal(t, OpponentWins, next.IsTerminal())
	})
}

func TestPossiblePreviousMoves(t *testing.T) {
	rules := NewStandardRules()

	t.Run("the losing push is found from the lost position", func(t *testing.T) {
		lost := MustParsePosition(rules, lostBoard, Player)
		before := MustParsePosition(rules, beforeLossBoard, Opponent)

		var found []MoveInfo
		for _, prev := range PossiblePreviousMoves(lost) {
			require.Equal(t, Opponent, prev.Position.ToMove())
			require.Equal(t, NoOutcome, prev.Position.goalOutcome())
			if prev.Position == before {
				found = append(found, prev.Info)
			}
		}
		require.Len(t, found, 1)
		require.Equal(t, Move{Kind: Push, From: Cell{4, 3}, To: Cell{5, 3}}, found[0].Move)
		require.Equal(t, Cell{6, 3}, found[0].BallTo)
	})

	t.Run("every predecessor reaches the position with the recorded move", func(t *testing.T) {
		for _, side := range []Side{Player, Opponent} {
			p := MustParsePosition(rules, denseBoard, side)
			prevs := PossiblePreviousMoves(p)
			require.NotEmpty(t, prevs)
			for _, prev := range prevs {
				next, info, err := prev.Position.Play(prev.Info.Move)
				require.NoError(t, err)
				require.Equal(t, p, next)
				require.Equal(t, prev.Info, info)
			}
		}
	})
}

func TestCheckInvertibility(t *testing.T) {
	rules := NewStandardRules()

	t.Run("tactical positions", func(t *testing.T) {
		for _, side := range []Side{Player, Opponent} {
			require.NoError(t, CheckInvertibility(MustParsePosition(rules, denseBoard, side)))
		}
		require.NoError(t, CheckInvertibility(MustParsePosition(rules, beforeLossBoard, Opponent)))
	})

	t.Run("all positions two plies from the opening", func(t *testing.T) {
		start, err := StartingPosition(rules)
		require.NoError(t, err)
		for _, first := range PossibleMoves(start) {
			require.NoError(t, CheckInvertibility(first.Position))
			for _, second := range PossibleMoves(first.Position) {
				require.NoError(t, second.Position.Validate())
				require.NoError(t, CheckInvertibility(second.Position))
			}
		}
	})

	t.Run("a long deterministic walk", func(t *testing.T) {
		p, err := StartingPosition(rules)
		require.NoError(t, err)
		for ply := 0; ply < 200; ply++ {
			require.NoError(t, CheckInvertibility(p))
			moves := PossibleMoves(p)
			if len(moves) == 0 {
				require.NotEqual(t, NoOutcome, p.IsTerminal())
				break
			}
			p = moves[(ply*7+3)%len(moves)].Position
			require.NoError(t, p.Validate())
		}
	})
}
