package engine

import (
	"chessball/experiments/metrics"
	"chessball/game"
	"chessball/meta"
)

const (
	MaxPlies    = meta.MAX_PLIES
	Repetitions = 3 // occurrences of one position that draw the game
)

type Engine interface {
	// Run plays the game until a position decides it, a position repeats or the ply cap is reached
	Run() (outcome game.Outcome, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
