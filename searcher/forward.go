package searcher

import (
	"container/heap"
	"context"
	"time"

	"chessball/experiments/metrics"
	"chessball/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type ForwardResult struct {
	// Line runs from the start to the best-scored position found; Moves[i]
	// leads from Line[i] to Line[i+1].
	Line       []game.Position
	Moves      []game.MoveInfo
	Score      float64
	Nodes      int
	Expanded   int
	Status     Status
	Exhaustive bool
	Metric     metrics.SearchMetric
}

// queue orders nodes best first: lower score, then shallower, then older.
type queue []*Node

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.seq < b.seq
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(*Node)) }

func (q *queue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

type child struct {
	transition game.Transition
	score      float64
}

// Forward explores the game from start best first, never entering positions
// the attacker has already won, and returns the line to the best-scored
// position seen. Each round pops up to one node per worker, expands them in
// parallel and merges the children in pop order, so a configuration always
// yields the same line.
func (s *Searcher) Forward(ctx context.Context, start game.Position) (ForwardResult, error) {
	if err := start.Validate(); err != nil {
		return ForwardResult{}, err
	}
	s.metrics.Start("forward", s.workers)
	stop := time.Now().Add(s.deadline)
	index := NewIndex(s.workers * 16)
	attacker := s.side.Other()

	root := &Node{Position: start, Score: s.score(start)}
	index.InsertIfAbsent(s.key(start), root)
	frontier := &queue{}
	heap.Push(frontier, root)
	best := root
	seq := 1
	expanded := 0
	depthCut := false
	status := StatusExhaustive
	stopped := false

	for frontier.Len() > 0 {
		if st, done := s.budget(ctx, stop, index.Len()); done {
			status, stopped = st, true
			break
		}
		s.metrics.AddRound()

		var batch []*Node
		for frontier.Len() > 0 && len(batch) < s.workers {
			n := heap.Pop(frontier).(*Node)
			if s.maxDepth > 0 && n.Depth >= s.maxDepth {
				depthCut = true
				continue
			}
			batch = append(batch, n)
		}

		children := make([][]child, len(batch))
		g, _ := errgroup.WithContext(ctx)
		for i, n := range batch {
			g.Go(func() error {
				if s.selfCheck {
					if err := game.CheckInvertibility(n.Position); err != nil {
						return err
					}
				}
				moves := game.PossibleMoves(n.Position)
				s.metrics.AddGenerated(len(moves))
				for _, t := range moves {
					if winner, ok := t.Position.Winner(); ok && winner == attacker {
						continue
					}
					children[i] = append(children[i], child{transition: t, score: s.score(t.Position)})
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return ForwardResult{}, err
		}
		expanded += len(batch)
		s.metrics.AddExpanded(len(batch))

		duplicates := 0
		for i, parent := range batch {
			for _, c := range children[i] {
				node := &Node{
					Position: c.transition.Position,
					Depth:    parent.Depth + 1,
					Score:    c.score,
					Parent:   parent,
					Move:     c.transition.Info,
					seq:      seq,
				}
				if _, ok := index.InsertIfAbsent(s.key(node.Position), node); !ok {
					duplicates++
					continue
				}
				seq++
				if node.Score < best.Score {
					best = node
				}
				if node.Position.IsTerminal() == game.NoOutcome {
					heap.Push(frontier, node)
				}
			}
		}
		s.metrics.AddDuplicates(duplicates)
		log.Debug().Int("expanded", expanded).Int("frontier", frontier.Len()).Float64("best", best.Score).Msg("forward-round")
	}
	if !stopped && depthCut {
		status = StatusDepthLimit
	}
	if status != StatusExhaustive {
		log.Warn().Str("status", status.String()).Int("expanded", expanded).Msg("forward-cut")
	}

	line, moves := best.Line()
	result := ForwardResult{
		Line:       line,
		Moves:      moves,
		Score:      best.Score,
		Nodes:      index.Len(),
		Expanded:   expanded,
		Status:     status,
		Exhaustive: status == StatusExhaustive,
	}
	result.Metric = s.metrics.Complete(result.Nodes)
	log.Info().
		Str("status", status.String()).
		Int("nodes", result.Nodes).
		Int("line", len(moves)).
		Float64("score", result.Score).
		Msg("forward-complete")
	return result, nil
}
