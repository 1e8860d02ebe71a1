package experiments

import (
	"fmt"

	"chessball/engine"
	"chessball/experiments/metrics"
	"chessball/game"
	"chessball/meta"

	"github.com/rs/zerolog/log"
)

// RunGames plays every configured match-up games times from start and stores
// the game and move records.
func RunGames(cfg *meta.Config, start game.Position, configs []metrics.StrategyConfig, games int, w *metrics.Writer) ([]metrics.GameRecord, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Int("match-ups", len(configs)).Int("games", games).Msg("starting games experiment")

	for mi, config := range configs {
		player, err := NamedStrategy(config.Player, cfg)
		if err != nil {
			return nil, fmt.Errorf("match-up %d: %w", config.ID, err)
		}
		opponent, err := NamedStrategy(config.Opponent, cfg)
		if err != nil {
			return nil, fmt.Errorf("match-up %d: %w", config.ID, err)
		}

		log.Info().Msgf("starting match-up %d of %d: %s vs %s", mi+1, len(configs), config.Player, config.Opponent)
		for i := 0; i < games; i++ {
			e := engine.NewLocalEngine(start, player, opponent)
			if cfg.MaxPlies > 0 {
				e.MaxPlies = cfg.MaxPlies
			}
			outcome, gameMetric, moveMetrics := e.Run()
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Config:     config.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
			log.Debug().Msgf("completed match-up %d game %d with outcome: %s", mi+1, i+1, outcome)
		}
	}

	log.Info().Int("games", count).Msg("completed games experiment")

	if err := w.WriteStrategyConfigs(configs); err != nil {
		return gameRecords, err
	}
	if err := w.WriteGameRecords(gameRecords); err != nil {
		return gameRecords, err
	}
	if err := w.WriteMoveRecords(moveRecords); err != nil {
		return gameRecords, err
	}
	log.Info().Str("dir", w.Dir()).Msg("stored game records")
	return gameRecords, nil
}
