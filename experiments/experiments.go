package experiments

import (
	"context"
	"fmt"
	"os"
	"strings"

	"chessball/experiments/metrics"
	"chessball/game"
	"chessball/meta"
	"chessball/searcher"
	"chessball/strategy"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Modes are the experiments the driver can run.
var Modes = []string{"retrograde", "forward", "verify", "play", "throughput"}

// ValidMode rejects a mode the driver cannot run, before anything is written.
func ValidMode(mode string) error {
	if !slices.Contains(Modes, mode) {
		return fmt.Errorf("unknown mode %q, expected one of %s", mode, strings.Join(Modes, ", "))
	}
	return nil
}

// SearchOptions turns a configuration into searcher options. Metrics are
// always collected so runs can be written out.
func SearchOptions(cfg *meta.Config) []searcher.Option {
	return []searcher.Option{
		searcher.WithWorkers(cfg.Workers),
		searcher.WithNodeBudget(cfg.NodeBudget),
		searcher.WithMaxDepth(cfg.MaxDepth),
		searcher.WithDeadline(cfg.Deadline),
		searcher.WithSymmetry(cfg.Symmetry),
		searcher.WithWeights(cfg.Weights),
		searcher.WithMetrics(),
	}
}

// StartPosition parses cfg.StartFile with the Player to move, or returns the
// standard starting position when no file is configured.
func StartPosition(cfg *meta.Config) (game.Position, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return game.Position{}, err
	}
	if cfg.StartFile == "" {
		return game.StartingPosition(rules)
	}
	text, err := os.ReadFile(cfg.StartFile)
	if err != nil {
		return game.Position{}, fmt.Errorf("failed to read start position: %w", err)
	}
	return game.ParsePosition(rules, string(text), game.Player)
}

// NamedStrategy resolves the strategy names accepted on the command line.
func NamedStrategy(name string, cfg *meta.Config) (strategy.Strategy, error) {
	switch name {
	case "blocking":
		return strategy.BlockingStrategy, nil
	case "greedy":
		return strategy.GreedyStrategy(cfg.Weights), nil
	case "random":
		return strategy.RandomStrategy(cfg.Seed), nil
	case "minimax":
		return strategy.MinimaxStrategy(cfg.Weights, cfg.MinimaxDepth), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// RunRetrograde enumerates the dangerous positions of the configured board
// and stores them together with the forced losses.
func RunRetrograde(ctx context.Context, cfg *meta.Config, w *metrics.Writer) (searcher.RetrogradeResult, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return searcher.RetrogradeResult{}, err
	}

	log.Info().Int("width", int(rules.Width)).Int("height", int(rules.Height)).Msg("starting retrograde experiment")
	s := searcher.New(SearchOptions(cfg)...)
	result, err := s.Retrograde(ctx, rules, nil)
	if err != nil {
		return result, err
	}
	log.Info().
		Int("dangerous", len(result.Dangerous)).
		Int("losses", len(result.Losses)).
		Int("rounds", result.Rounds).
		Str("status", result.Status.String()).
		Msg("completed retrograde experiment")

	dangerous := make([]metrics.PositionRecord, 0, len(result.Dangerous))
	for _, d := range result.Dangerous {
		dangerous = append(dangerous, metrics.PositionRecord{
			Key:   uint64(d.Position.Key()),
			Move:  d.Witness.String(),
			Score: cfg.Weights.Score(d.Position),
			Round: d.Round,
			Board: d.Position.String(),
		})
	}
	losses := make([]metrics.PositionRecord, 0, len(result.Losses))
	for _, p := range result.Losses {
		losses = append(losses, metrics.PositionRecord{
			Key:   uint64(p.Key()),
			Score: cfg.Weights.Score(p),
			Board: p.String(),
		})
	}

	if err := w.WritePositions("dangerous", dangerous); err != nil {
		return result, err
	}
	if err := w.WritePositions("losses", losses); err != nil {
		return result, err
	}
	if err := w.WriteSearchMetrics([]metrics.SearchMetric{result.Metric}); err != nil {
		return result, err
	}
	log.Info().Str("dir", w.Dir()).Msg("stored retrograde results")
	return result, nil
}

// RunForward searches from start for the position best for the Player and
// stores the line leading to it.
func RunForward(ctx context.Context, cfg *meta.Config, start game.Position, w *metrics.Writer) (searcher.ForwardResult, error) {
	log.Info().Str("side", start.ToMove().String()).Msg("starting forward experiment")
	s := searcher.New(SearchOptions(cfg)...)
	result, err := s.Forward(ctx, start)
	if err != nil {
		return result, err
	}
	log.Info().
		Float64("score", result.Score).
		Int("plies", len(result.Moves)).
		Int("nodes", result.Nodes).
		Str("status", result.Status.String()).
		Msg("completed forward experiment")

	if err := w.WritePositions("best_line", lineRecords(result.Line, result.Moves, cfg.Weights)); err != nil {
		return result, err
	}
	if err := w.WriteSearchMetrics([]metrics.SearchMetric{result.Metric}); err != nil {
		return result, err
	}
	log.Info().Str("dir", w.Dir()).Msg("stored forward results")
	return result, nil
}

// RunVerify checks the named strategy for the Player against every Opponent
// reply. A refuted strategy is not an error; the counterexample is stored.
func RunVerify(cfg *meta.Config, name string, invariant strategy.Invariant, start game.Position, w *metrics.Writer) (strategy.VerificationResult, error) {
	strat, err := NamedStrategy(name, cfg)
	if err != nil {
		return strategy.VerificationResult{}, err
	}

	log.Info().Str("strategy", name).Int("depth", cfg.MaxDepth).Msg("starting verification")
	result, err := strategy.Verify(strat, invariant, start, cfg.MaxDepth)
	if err != nil {
		return result, err
	}
	log.Info().Str("strategy", name).Str("result", result.String()).Int("nodes", result.Nodes).Msg("completed verification")

	if result.Holds {
		return result, nil
	}
	positions := []game.Position{result.Start}
	moves := make([]game.MoveInfo, 0, len(result.Counterexample))
	for _, step := range result.Counterexample {
		positions = append(positions, step.Position)
		moves = append(moves, step.Move)
	}
	if err := w.WritePositions("counterexample", lineRecords(positions, moves, cfg.Weights)); err != nil {
		return result, err
	}
	log.Info().Str("dir", w.Dir()).Msg("stored counterexample")
	return result, nil
}

// lineRecords pairs every position after the first with the move reaching it.
func lineRecords(positions []game.Position, moves []game.MoveInfo, weights game.Weights) []metrics.PositionRecord {
	records := make([]metrics.PositionRecord, 0, len(positions))
	for i, p := range positions {
		record := metrics.PositionRecord{
			Ply:   i,
			Key:   uint64(p.Key()),
			Score: weights.Score(p),
			Board: p.String(),
		}
		if i > 0 {
			record.Move = moves[i-1].String()
		}
		records = append(records, record)
	}
	return records
}
