package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeightsScore(t *testing.T) {
	rules := NewStandardRules()
	rowOnly := Weights{RowDistance: 1}

	t.Run("decided positions score at the extremes", func(t *testing.T) {
		lost := MustParsePosition(rules, lostBoard, Player)
		require.Equal(t, LossScore, rowOnly.Score(lost))
	})

	t.Run("a centred ball scores zero on rows", func(t *testing.T) {
		start, err := StartingPosition(rules)
		require.NoError(t, err)
		require.InDelta(t, 0, rowOnly.Score(start), 1e-9)

		f := Evaluate(start)
		require.Zero(t, f.OpponentPushers)
		require.Zero(t, f.PlayerPushers)
		require.Zero(t, f.OpponentThreat)
		require.Zero(t, f.Mobility, "The opening is symmetric")
		require.Zero(t, f.Control)
		require.Zero(t, f.Vulnerable)
		require.InDelta(t, 0, f.PushDistance, 1e-9)
		require.Zero(t, f.Blockers)
	})

	t.Run("an advanced ball with a pusher behind it is a threat", func(t *testing.T) {
		p := MustParsePosition(rules, beforeLossBoard, Player)
		f := Evaluate(p)
		require.Equal(t, 1.0, f.OpponentThreat)
		require.Positive(t, f.OpponentPushers)
		require.Greater(t, rowOnly.Score(p), 0.0)
		require.Greater(t, Weights{OpponentThreat: 1}.Score(p), Weights{}.Score(p))
	})

	t.Run("pieces around and ahead of the ball", func(t *testing.T) {
		p := MustParsePosition(rules, beforeLossBoard, Player)
		f := Evaluate(p)
		require.InDelta(t, -1.0/8, f.Control, 1e-9, "One Opponent and two Player pieces touch the ball")
		require.InDelta(t, 0.75, f.PushDistance, 1e-9, "Half a push from the Opponent goal, five rows from the Player's")
		require.InDelta(t, 0.5, f.Blockers, 1e-9, "Both Opponent attackers stand between the ball and the top row")
		require.Zero(t, f.Vulnerable)
		require.Greater(t, Weights{PushDistance: 1}.Score(p), 0.0)
	})

	t.Run("a defender next to an enemy with room behind it can tackle", func(t *testing.T) {
		p := MustParsePosition(rules, `
-- BD -- -- -- BD --
-- -- -- -- BA -- --
-- -- -- -- -- -- --
-- -- -- NB -- -- --
-- -- WD BA -- -- --
-- -- -- -- WA -- --
-- WA -- -- -- WD --
`, Player)
		f := Evaluate(p)
		require.InDelta(t, -0.25, f.Vulnerable, 1e-9)
		require.Less(t, Weights{Vulnerable: 1}.Score(p), 0.0)
	})
}

func TestWinPositions(t *testing.T) {
	rules := NewStandardRules()

	t.Run("every win was reached by a push and appears once", func(t *testing.T) {
		seen := make(map[Position]bool)
		for p := range WinPositions(rules, Opponent) {
			require.Equal(t, OpponentWins, p.IsTerminal())
			require.NoError(t, p.Validate())
			require.False(t, seen[p])
			seen[p] = true

			prevs := PossiblePreviousMoves(p)
			require.NotEmpty(t, prevs)
			for _, prev := range prevs {
				require.Equal(t, Push, prev.Info.Kind)
				require.Equal(t, p.ToMove().Other(), prev.Position.ToMove())
			}
			if len(seen) == 5000 {
				break
			}
		}
		require.Len(t, seen, 5000)
	})

	t.Run("a win without a pusher behind the ball is skipped", func(t *testing.T) {
		p := MustParsePosition(rules, `
-- BD -- -- -- BD --
-- -- -- -- BA -- --
-- -- -- -- -- -- --
-- -- BA -- -- -- --
-- -- -- -- -- -- --
-- -- WA -- WA -- --
-- WD -- NB -- WD --
`, Player)
		require.Empty(t, PossiblePreviousMoves(p))
		require.Equal(t, -1, firstPush(p))
	})
}
