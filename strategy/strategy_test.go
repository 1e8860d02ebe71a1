package strategy

import (
	"slices"
	"testing"

	"chessball/game"

	"github.com/stretchr/testify/require"
)

// threatBoard: the Opponent attacker on 43 pushes the ball onto the bottom row.
const threatBoard = `
-- BD -- -- -- BD --
-- -- -- -- BA -- --
-- -- -- -- -- -- --
-- -- -- -- -- -- --
-- -- -- BA -- -- --
-- -- WA NB -- -- --
-- WD -- -- WA WD --
`

// winBoard: the Player attacker on 23 pushes the ball onto the top row.
const winBoard = `
-- BD -- -- -- BD --
-- -- BA NB BA -- --
-- -- -- WA -- -- --
-- -- -- -- -- -- --
-- -- -- -- -- -- --
-- -- -- -- WA -- --
-- WD -- -- -- WD --
`

// lateBoard: the Player attacker on 62 can still step onto 63, but from 61,
// where it just came from, nothing reaches 63 in time.
const lateBoard = `
WA -- WD -- WD -- --
-- -- -- -- -- -- --
-- -- -- -- -- -- BA
BD -- -- -- -- -- BD
-- -- -- BA -- -- --
-- -- -- NB -- -- --
-- -- WA -- -- -- --
`

func TestWinningMoves(t *testing.T) {
	rules := game.NewStandardRules()

	t.Run("threats are found whoever has the move", func(t *testing.T) {
		for _, side := range []game.Side{game.Player, game.Opponent} {
			p := game.MustParsePosition(rules, threatBoard, side)
			wins := WinningMoves(p, game.Opponent)
			require.Len(t, wins, 1)
			require.Equal(t, game.Move{Kind: game.Push, From: game.Cell{Row: 4, Col: 3}, To: game.Cell{Row: 5, Col: 3}}, wins[0].Info.Move)
			require.Empty(t, WinningMoves(p, game.Player))
		}
	})

	t.Run("a threatened side can block", func(t *testing.T) {
		p := game.MustParsePosition(rules, threatBoard, game.Player)
		require.True(t, IsWinAvoidable(p, game.Opponent))

		block, ok := FindBlockingMove(p, game.Player, nil)
		require.True(t, ok)
		require.Empty(t, WinningMoves(block.Position, game.Opponent))
	})

	t.Run("a win is avoidable only if every earlier position had a block", func(t *testing.T) {
		p := game.MustParsePosition(rules, lateBoard, game.Opponent)
		require.Len(t, WinningMoves(p, game.Opponent), 1)

		_, ok := FindBlockingMove(p, game.Player, nil)
		require.True(t, ok, "The Player could still block if it had the move now")
		require.False(t, IsWinAvoidable(p, game.Opponent))

		prevs := game.PossiblePreviousMoves(p)
		i := slices.IndexFunc(prevs, func(prev game.Transition) bool {
			return prev.Info.Move == game.Move{Kind: game.Step, From: game.Cell{Row: 6, Col: 1}, To: game.Cell{Row: 6, Col: 2}}
		})
		require.GreaterOrEqual(t, i, 0)
		_, ok = FindBlockingMove(prevs[i].Position, game.Player, nil)
		require.False(t, ok, "Before its last step the attacker was too far from 63")
	})

	t.Run("a lost predicate rules out moves", func(t *testing.T) {
		p := game.MustParsePosition(rules, threatBoard, game.Player)
		_, ok := FindBlockingMove(p, game.Player, func(game.Position) bool { return true })
		require.False(t, ok)
	})
}

func TestStrategies(t *testing.T) {
	rules := game.NewStandardRules()

	t.Run("blocking strategy parries the threat", func(t *testing.T) {
		p := game.MustParsePosition(rules, threatBoard, game.Player)
		m, ok := BlockingStrategy(p)
		require.True(t, ok)
		next, _, err := p.Play(m)
		require.NoError(t, err)
		require.Empty(t, WinningMoves(next, game.Opponent))
	})

	t.Run("greedy strategy takes the win", func(t *testing.T) {
		p := game.MustParsePosition(rules, winBoard, game.Player)
		m, ok := GreedyStrategy(game.Weights{RowDistance: 1})(p)
		require.True(t, ok)
		next, _, err := p.Play(m)
		require.NoError(t, err)
		require.Equal(t, game.PlayerWins, next.IsTerminal())
	})

	t.Run("minimax takes the win", func(t *testing.T) {
		p := game.MustParsePosition(rules, winBoard, game.Player)
		m, ok := MinimaxStrategy(game.Weights{RowDistance: 1}, 3)(p)
		require.True(t, ok)
		next, _, err := p.Play(m)
		require.NoError(t, err)
		require.Equal(t, game.PlayerWins, next.IsTerminal())
	})

	t.Run("minimax sees the reply that loses", func(t *testing.T) {
		for _, board := range []string{threatBoard, lateBoard} {
			p := game.MustParsePosition(rules, board, game.Player)
			m, ok := MinimaxStrategy(game.Weights{RowDistance: 1}, 2)(p)
			require.True(t, ok)
			next, _, err := p.Play(m)
			require.NoError(t, err)
			require.Empty(t, WinningMoves(next, game.Opponent))
		}
	})

	t.Run("minimax plays for the Opponent too", func(t *testing.T) {
		p := game.MustParsePosition(rules, threatBoard, game.Opponent)
		m, ok := MinimaxStrategy(game.Weights{RowDistance: 1}, 0)(p)
		require.True(t, ok)
		next, _, err := p.Play(m)
		require.NoError(t, err)
		require.Equal(t, game.OpponentWins, next.IsTerminal())
	})

	t.Run("random strategy is reproducible", func(t *testing.T) {
		start, err := game.StartingPosition(rules)
		require.NoError(t, err)
		play := func(s Strategy) []game.Move {
			var moves []game.Move
			p := start
			for i := 0; i < 20 && p.IsTerminal() == game.NoOutcome; i++ {
				m, ok := s(p)
				require.True(t, ok)
				p, _, err = p.Play(m)
				require.NoError(t, err)
				moves = append(moves, m)
			}
			return moves
		}
		require.Equal(t, play(RandomStrategy(7)), play(RandomStrategy(7)))
	})

	t.Run("strategies have nothing to play in decided positions", func(t *testing.T) {
		p := game.MustParsePosition(rules, winBoard, game.Player)
		next, _, err := p.Play(game.Move{From: game.Cell{Row: 2, Col: 3}, To: game.Cell{Row: 1, Col: 3}})
		require.NoError(t, err)
		_, ok := BlockingStrategy(next)
		require.False(t, ok)
		_, ok = RandomStrategy(1)(next)
		require.False(t, ok)
		_, ok = MinimaxStrategy(game.Weights{}, 2)(next)
		require.False(t, ok)
	})
}

func TestInvariants(t *testing.T) {
	rules := game.NewStandardRules()
	start, err := game.StartingPosition(rules)
	require.NoError(t, err)
	threat := game.MustParsePosition(rules, threatBoard, game.Player)

	require.True(t, BallWithinRows(0)(start))
	require.False(t, BallWithinRows(1)(threat))
	require.True(t, BallWithinRows(2)(threat))

	require.True(t, NoImmediateThreat(game.Player)(start))
	require.False(t, NoImmediateThreat(game.Player)(threat))
	require.True(t, NoImmediateThreat(game.Opponent)(threat))

	require.True(t, All()(threat))
	require.False(t, All(BallWithinRows(2), NoImmediateThreat(game.Player))(threat))
}
