package searcher

import (
	"context"
	"fmt"
	"time"

	"chessball/experiments/metrics"
	"chessball/game"
	"chessball/meta"
)

// Status tells why a search stopped. Only StatusExhaustive means the result
// covers the whole space; the others return the best partial result.
type Status uint8

const (
	StatusExhaustive Status = iota
	StatusNodeBudget
	StatusDepthLimit
	StatusDeadline
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusExhaustive:
		return "exhaustive"
	case StatusNodeBudget:
		return "node-budget"
	case StatusDepthLimit:
		return "depth-limit"
	case StatusDeadline:
		return "deadline"
	case StatusCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

type Option func(s *Searcher)

// Searcher runs the retrograde and forward searches. Every parameter comes
// from its options; a zero budget, depth or deadline means unlimited.
type Searcher struct {
	workers    int
	nodeBudget int
	maxDepth   int
	deadline   time.Duration
	symmetry   bool
	selfCheck  bool
	side       game.Side // the defending side
	weights    game.Weights
	metrics    metrics.Collector
}

func WithWorkers(workers int) Option {
	return func(s *Searcher) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

func WithNodeBudget(nodes int) Option {
	return func(s *Searcher) {
		if nodes > 0 {
			s.nodeBudget = nodes
		}
	}
}

// WithMaxDepth bounds forward search depth in plies and retrograde search in
// rounds.
func WithMaxDepth(depth int) Option {
	return func(s *Searcher) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

func WithDeadline(d time.Duration) Option {
	return func(s *Searcher) {
		if d > 0 {
			s.deadline = d
		}
	}
}

// WithSymmetry merges mirror images into one index entry.
func WithSymmetry(enabled bool) Option {
	return func(s *Searcher) {
		s.symmetry = enabled
	}
}

func WithWeights(w game.Weights) Option {
	return func(s *Searcher) {
		s.weights = w
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

// WithSide sets the side whose safety is analysed. It defaults to the Player.
func WithSide(side game.Side) Option {
	return func(s *Searcher) {
		s.side = side
	}
}

// WithSelfCheck verifies move generator invertibility on every position the
// forward search expands.
func WithSelfCheck() Option {
	return func(s *Searcher) {
		s.selfCheck = true
	}
}

func New(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		workers:  meta.GO_ROUTINES,
		symmetry: true,
		side:     game.Player,
		weights:  meta.DEFAULT_WEIGHTS,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Searcher) key(p game.Position) game.Key {
	if s.symmetry {
		return game.CanonicalKey(p)
	}
	return p.Key()
}

// score orients the heuristic so that lower is better for the defending side.
func (s *Searcher) score(p game.Position) float64 {
	if s.side == game.Player {
		return s.weights.Score(p)
	}
	return -s.weights.Score(p)
}

// budget checks the stopping conditions; it is only called between rounds.
func (s *Searcher) budget(ctx context.Context, stop time.Time, nodes int) (Status, bool) {
	if ctx.Err() != nil {
		return StatusCancelled, true
	}
	if s.deadline > 0 && !time.Now().Before(stop) {
		return StatusDeadline, true
	}
	if s.nodeBudget > 0 && nodes >= s.nodeBudget {
		return StatusNodeBudget, true
	}
	return StatusExhaustive, false
}

// batches splits n items into at most workers contiguous ranges.
func batches(n, workers int) [][2]int {
	if n == 0 {
		return nil
	}
	if workers > n {
		workers = n
	}
	size := (n + workers - 1) / workers
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}
