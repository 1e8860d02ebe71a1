package experiments

import (
	"context"

	"chessball/experiments/metrics"
	"chessball/meta"
	"chessball/searcher"

	"github.com/rs/zerolog/log"
)

var WorkerCounts = []int{1, 2, 4, 8, 16}

// RunThroughputExperiment repeats the retrograde search with each worker
// count and stores one search metric per run. Every run must reach the same
// set of dangerous positions.
func RunThroughputExperiment(ctx context.Context, cfg *meta.Config, workers []int, w *metrics.Writer) ([]metrics.SearchMetric, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	log.Info().Ints("workers", workers).Msg("starting throughput experiment")
	results := make([]metrics.SearchMetric, 0, len(workers))
	dangerous := -1
	for i, n := range workers {
		options := append(SearchOptions(cfg), searcher.WithWorkers(n))
		result, err := searcher.New(options...).Retrograde(ctx, rules, nil)
		if err != nil {
			return results, err
		}
		if dangerous >= 0 && len(result.Dangerous) != dangerous {
			log.Warn().Int("workers", n).Int("dangerous", len(result.Dangerous)).Int("expected", dangerous).Msg("worker count changed the result")
		}
		dangerous = len(result.Dangerous)
		results = append(results, result.Metric)
		log.Info().Int("run", i+1).Int("workers", n).Dur("duration", result.Metric.Duration).Str("status", result.Status.String()).Msg("completed throughput run")
	}

	if err := w.WriteSearchMetrics(results); err != nil {
		return results, err
	}
	log.Info().Str("dir", w.Dir()).Msg("stored throughput results")
	return results, nil
}
