package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"time"

	"chessball/experiments"
	"chessball/experiments/metrics"
	"chessball/game"
	"chessball/meta"
	"chessball/strategy"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "retrograde", strings.Join(experiments.Modes, ", "))
	configPath := flag.String("config", "", "optional configuration file")
	strategyName := flag.String("strategy", "blocking", "strategy to verify: blocking, greedy, random or minimax")
	rows := flag.Int("rows", 0, "verify: keep the ball within this many rows of the centre (0 disables)")
	matchUps := flag.String("matchups", "blocking:random,greedy:random,greedy:greedy", "play: comma separated player:opponent strategy pairs")
	games := flag.Int("games", 10, "play: games per match-up")
	debug := flag.Bool("debug", false, "log every search round")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := experiments.ValidMode(*mode); err != nil {
		log.Fatal().Err(err).Msg("invalid mode")
	}
	cfg, err := meta.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	start, err := experiments.StartPosition(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load start position")
	}
	writer, err := metrics.NewWriter(cfg.OutputDir, *mode)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create experiment writer")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	switch *mode {
	case "retrograde":
		_, err = experiments.RunRetrograde(ctx, cfg, writer)
	case "forward":
		_, err = experiments.RunForward(ctx, cfg, start, writer)
	case "verify":
		invariant := strategy.NoImmediateThreat(game.Player)
		if *rows > 0 {
			invariant = strategy.All(invariant, strategy.BallWithinRows(*rows))
		}
		_, err = experiments.RunVerify(cfg, *strategyName, invariant, start, writer)
	case "play":
		_, err = experiments.RunGames(cfg, start, parseMatchUps(*matchUps), *games, writer)
	case "throughput":
		_, err = experiments.RunThroughputExperiment(ctx, cfg, experiments.WorkerCounts, writer)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("experiment failed")
	}
}

func parseMatchUps(s string) []metrics.StrategyConfig {
	var configs []metrics.StrategyConfig
	for i, pair := range strings.Split(s, ",") {
		player, opponent, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			log.Fatal().Str("match-up", pair).Msg("expected player:opponent")
		}
		configs = append(configs, metrics.StrategyConfig{ID: i + 1, Player: player, Opponent: opponent})
	}
	return configs
}
