package engine

import (
	"fmt"
	"time"

	"chessball/experiments/metrics"
	"chessball/game"
	"chessball/strategy"
	"chessball/utils"

	"github.com/rs/zerolog/log"
)

// LocalEngine plays two strategies against each other in-process.
type LocalEngine struct {
	State      game.Position
	Strategies [2]strategy.Strategy // indexed by game.Side
	MaxPlies   int
	history    []game.Position
}

var _ Engine = (*LocalEngine)(nil)

func NewLocalEngine(start game.Position, player, opponent strategy.Strategy) *LocalEngine {
	if player == nil || opponent == nil {
		panic("both sides need a strategy")
	}
	return &LocalEngine{
		State:      start,
		Strategies: [2]strategy.Strategy{game.Player: player, game.Opponent: opponent},
		MaxPlies:   MaxPlies,
	}
}

// Run executes the entire game loop until the game is decided or drawn.
func (e *LocalEngine) Run() (game.Outcome, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingSide: e.State.ToMove().String(),
		StartTime:    time.Now(),
	}
	var moveMetrics []metrics.MoveMetric
	e.history = append(e.history[:0], e.State)

	log.Info().Str("side", e.State.ToMove().String()).Msg("game-start")

	outcome := game.NoOutcome
	for ply := 0; outcome == game.NoOutcome; ply++ {
		if o := e.State.IsTerminal(); o != game.NoOutcome {
			outcome = o
			gameMetric.Reason = "goal"
			if o == game.Draw {
				gameMetric.Reason = "stalemate"
			}
			break
		}
		if utils.Count(e.history, e.State) >= Repetitions {
			outcome, gameMetric.Reason = game.Draw, "repetition"
			break
		}
		if ply >= e.MaxPlies {
			outcome, gameMetric.Reason = game.Draw, "ply-cap"
			break
		}

		side := e.State.ToMove()
		start := time.Now()
		move := e.findMove(side)
		next, info, err := e.State.Play(move)
		if err != nil {
			panic(fmt.Sprintf("legal move rejected: %v", err))
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Ply:      ply + 1,
			Side:     side.String(),
			Move:     info.String(),
			BallRow:  int(next.Ball().Row),
			Duration: time.Since(start),
		})
		log.Debug().Int("ply", ply+1).Str("move", info.String()).Msg("move-played")

		e.State = next
		e.history = append(e.history, next)
	}

	gameMetric.Outcome = outcome.String()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	log.Info().Str("outcome", gameMetric.Outcome).Str("reason", gameMetric.Reason).Int("moves", gameMetric.TotalMoves).Msg("game-over")
	return outcome, gameMetric, moveMetrics
}

// findMove asks the side's strategy for a move and falls back to the first
// legal move when the answer is not legal.
func (e *LocalEngine) findMove(side game.Side) game.Move {
	legal := e.State.LegalMoves()
	targets := make([]game.Move, len(legal))
	for i, m := range legal {
		targets[i] = game.Move{From: m.From, To: m.To}
	}

	candidate, ok := e.Strategies[side](e.State)
	if ok && utils.FindIndex(targets, game.Move{From: candidate.From, To: candidate.To}) >= 0 {
		return candidate
	}
	log.Warn().Str("side", side.String()).Str("move", candidate.String()).Msg("strategy-move-rejected")
	return legal[0].Move
}
