package searcher

import (
	"context"
	"testing"

	"chessball/game"

	"github.com/stretchr/testify/require"
)

const threatBoard = `
-- BD -- -- -- BD --
-- -- -- -- BA -- --
-- -- -- -- -- -- --
-- -- -- -- -- -- --
-- -- -- BA -- -- --
-- -- WA NB -- -- --
-- WD -- -- WA WD --
`

const winBoard = `
-- BD -- -- -- BD --
-- -- BA NB BA -- --
-- -- -- WA -- -- --
-- -- -- -- -- -- --
-- -- -- -- -- -- --
-- -- -- -- WA -- --
-- WD -- -- -- WD --
`

func requireConnected(t *testing.T, result ForwardResult) {
	t.Helper()
	require.Len(t, result.Line, len(result.Moves)+1)
	for i, m := range result.Moves {
		next, info, err := result.Line[i].Play(m.Move)
		require.NoError(t, err)
		require.Equal(t, result.Line[i+1], next)
		require.Equal(t, m, info)
	}
}

func TestForward(t *testing.T) {
	rules := game.NewStandardRules()
	start, err := game.StartingPosition(rules)
	require.NoError(t, err)

	t.Run("identical configurations replay identically", func(t *testing.T) {
		run := func() ForwardResult {
			s := New(WithWorkers(4), WithNodeBudget(400), WithMaxDepth(6))
			result, err := s.Forward(context.Background(), start)
			require.NoError(t, err)
			return result
		}
		first, second := run(), run()
		require.Equal(t, first.Line, second.Line)
		require.Equal(t, first.Moves, second.Moves)
		require.Equal(t, first.Score, second.Score)
		require.Equal(t, first.Nodes, second.Nodes)
		require.Equal(t, first.Expanded, second.Expanded)
	})

	t.Run("a node budget returns the best line so far", func(t *testing.T) {
		s := New(WithWorkers(2), WithNodeBudget(200), WithMetrics())
		result, err := s.Forward(context.Background(), start)
		require.NoError(t, err)
		require.Equal(t, StatusNodeBudget, result.Status)
		require.False(t, result.Exhaustive)
		require.Equal(t, start, result.Line[0])
		require.LessOrEqual(t, result.Score, s.weights.Score(start))
		requireConnected(t, result)
		require.Equal(t, "forward", result.Metric.Mode)
		require.Equal(t, result.Expanded, result.Metric.Expanded)
	})

	t.Run("the depth cutoff is reported", func(t *testing.T) {
		s := New(WithWorkers(3), WithMaxDepth(1))
		result, err := s.Forward(context.Background(), start)
		require.NoError(t, err)
		require.Equal(t, StatusDepthLimit, result.Status)
		require.Equal(t, 1, result.Expanded)
		require.LessOrEqual(t, len(result.Moves), 1)
		requireConnected(t, result)
	})

	t.Run("positions won by the attacker are never entered", func(t *testing.T) {
		p := game.MustParsePosition(rules, threatBoard, game.Opponent)
		s := New(WithWorkers(2), WithMaxDepth(1), WithSymmetry(false))
		result, err := s.Forward(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, len(game.PossibleMoves(p)), result.Nodes, "The root plus every move but the winning push")
		for _, q := range result.Line {
			require.NotEqual(t, game.OpponentWins, q.IsTerminal())
		}
	})

	t.Run("an immediate win is the best line", func(t *testing.T) {
		p := game.MustParsePosition(rules, winBoard, game.Player)
		s := New(WithWorkers(1), WithMaxDepth(2), WithSelfCheck())
		result, err := s.Forward(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, game.WinScore, result.Score)
		require.Len(t, result.Moves, 1)
		require.Equal(t, game.PlayerWins, result.Line[1].IsTerminal())
		requireConnected(t, result)
	})

	t.Run("a decided start is exhaustive at once", func(t *testing.T) {
		p := game.MustParsePosition(rules, lostBoard, game.Player)
		result, err := New().Forward(context.Background(), p)
		require.NoError(t, err)
		require.True(t, result.Exhaustive)
		require.Equal(t, []game.Position{p}, result.Line)
		require.Equal(t, game.LossScore, result.Score)
	})

	t.Run("cancellation stops before the first round", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := New().Forward(ctx, start)
		require.NoError(t, err)
		require.Equal(t, StatusCancelled, result.Status)
		require.Equal(t, 0, result.Expanded)
	})
}
