package searcher

import (
	"context"
	"fmt"
	"iter"
	"time"

	"chessball/experiments/metrics"
	"chessball/game"
	"chessball/strategy"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Dangerous is a position, defender to move, from which one move reaches a
// lost position, together with a move that avoids every known loss.
type Dangerous struct {
	Position game.Position
	Witness  game.MoveInfo
	Round    int
}

type RetrogradeResult struct {
	Dangerous []Dangerous
	Losses    []game.Position // defender to move, every move loses
	Seeds     int
	Lost      int // lost positions with either side to move, seeds included
	Rounds    int // across all waves
	Waves     int
	Nodes     int
	Status    Status
	Metric    metrics.SearchMetric
}

const (
	seedShare       = 4 // a seed wave takes at most 1/seedShare of the node budget
	defaultSeedWave = 1 << 16
)

// expansion is what one worker found while expanding its share of a frontier.
type expansion struct {
	attackers []*Node // new positions, attacker to move
	defenders []*Node // new or previously safe positions, defender to move
}

// Retrograde grows the set of positions lost for the defending side backwards
// from seeds, which must all be won by the attacker. A nil seeds enumerates
// every win a push can produce (game.WinPositions).
//
// Seeds are taken in waves of at most a quarter of the node budget so that
// expansion always has room. Each round of a wave expands the whole frontier
// in parallel, then, after all workers finish, classifies what was found:
// attacker-to-move predecessors of a loss are lost; defender-to-move ones are
// dangerous and are lost only when no move avoids the known losses. New
// losses form the next frontier. maxDepth bounds the rounds of each wave.
func (s *Searcher) Retrograde(ctx context.Context, rules game.Rules, seeds iter.Seq[game.Position]) (RetrogradeResult, error) {
	attacker := s.side.Other()
	if seeds == nil {
		seeds = game.WinPositions(rules, attacker)
	}
	s.metrics.Start("retrograde", s.workers)
	stop := time.Now().Add(s.deadline)
	index := NewIndex(s.workers * 16)

	next, done := iter.Pull(seeds)
	defer done()

	status := StatusExhaustive
	depthCut := false
	seedCount, rounds, waves := 0, 0, 0
	log.Info().Str("side", s.side.String()).Int("node-budget", s.nodeBudget).Msg("retrograde-start")

	for {
		if st, stopped := s.budget(ctx, stop, index.Len()); stopped {
			status = st
			break
		}
		frontier, more, err := s.pullWave(index, next, attacker)
		if err != nil {
			return RetrogradeResult{}, err
		}
		if len(frontier) == 0 && !more {
			break
		}
		waves++
		seedCount += len(frontier)
		log.Debug().Int("wave", waves).Int("seeds", len(frontier)).Msg("retrograde-wave")

		st, stopped, err := s.rounds(ctx, stop, index, frontier, &rounds, &depthCut)
		if err != nil {
			return RetrogradeResult{}, err
		}
		if stopped {
			status = st
			break
		}
		if !more {
			break
		}
	}
	if status == StatusExhaustive && depthCut {
		status = StatusDepthLimit
	}
	if status != StatusExhaustive {
		log.Warn().Str("status", status.String()).Int("rounds", rounds).Int("waves", waves).Msg("retrograde-cut")
	}

	result := RetrogradeResult{
		Seeds:  seedCount,
		Rounds: rounds,
		Waves:  waves,
		Nodes:  index.Len(),
		Status: status,
	}
	for _, key := range index.Keys() {
		n, _ := index.Lookup(key)
		switch {
		case n.Status == Safe:
			result.Dangerous = append(result.Dangerous, Dangerous{Position: n.Position, Witness: n.Move, Round: n.Round})
		case n.Status == Lost:
			result.Lost++
			if n.Position.ToMove() == s.side && n.Position.IsTerminal() == game.NoOutcome {
				result.Losses = append(result.Losses, n.Position)
			}
		default:
			panic(fmt.Sprintf("unclassified position after round %d:\n%v", rounds, n.Position))
		}
	}
	result.Metric = s.metrics.Complete(result.Nodes)
	log.Info().
		Str("status", status.String()).
		Int("rounds", rounds).
		Int("dangerous", len(result.Dangerous)).
		Int("losses", len(result.Losses)).
		Int("nodes", result.Nodes).
		Msg("retrograde-complete")
	return result, nil
}

// pullWave indexes the next wave of seeds and reports whether the sequence may
// hold more.
func (s *Searcher) pullWave(index *Index, next func() (game.Position, bool), attacker game.Side) ([]*Node, bool, error) {
	size := defaultSeedWave
	if s.nodeBudget > 0 {
		size = min(max(s.nodeBudget/seedShare, 1), s.nodeBudget-index.Len())
	}

	var frontier []*Node
	for len(frontier) < size {
		p, ok := next()
		if !ok {
			return frontier, false, nil
		}
		if winner, ok := p.Winner(); !ok || winner != attacker {
			return nil, false, fmt.Errorf("%w: seed is not won by the %v\n%v", game.ErrInvalidPosition, attacker, p)
		}
		node := &Node{Position: p, Status: Lost}
		if _, ok := index.InsertIfAbsent(s.key(p), node); ok {
			frontier = append(frontier, node)
		}
	}
	return frontier, true, nil
}

// rounds runs the rounds of one wave until its frontier is empty, maxDepth
// rounds have run or a budget stops the search.
func (s *Searcher) rounds(ctx context.Context, stop time.Time, index *Index, frontier []*Node, total *int, depthCut *bool) (Status, bool, error) {
	for depth := 0; len(frontier) > 0; depth++ {
		if st, stopped := s.budget(ctx, stop, index.Len()); stopped {
			return st, true, nil
		}
		if s.maxDepth > 0 && depth >= s.maxDepth {
			*depthCut = true
			return StatusExhaustive, false, nil
		}
		*total++
		round := *total
		s.metrics.AddRound()

		attackers, defenders, err := s.expandLosses(ctx, index, frontier, round)
		if err != nil {
			return StatusExhaustive, false, err
		}

		var next []*Node
		for _, n := range attackers {
			n.Status = Lost
			next = append(next, n)
		}
		losses, err := s.classify(ctx, index, defenders, round)
		if err != nil {
			return StatusExhaustive, false, err
		}
		next = append(next, losses...)

		log.Debug().
			Int("round", round).
			Int("frontier", len(frontier)).
			Int("attacker-losses", len(attackers)).
			Int("dangerous", len(defenders)).
			Int("forced-losses", len(losses)).
			Int("nodes", index.Len()).
			Msg("retrograde-round")
		frontier = next
	}
	return StatusExhaustive, false, nil
}

// expandLosses generates the predecessors of every frontier position. Workers
// own disjoint slices of the frontier and meet only in the index.
func (s *Searcher) expandLosses(ctx context.Context, index *Index, frontier []*Node, round int) ([]*Node, []*Node, error) {
	parts := batches(len(frontier), s.workers)
	found := make([]expansion, len(parts))
	recheck := NewIndex(len(index.shards))

	g, _ := errgroup.WithContext(ctx)
	for i, part := range parts {
		g.Go(func() error {
			out := &found[i]
			for _, lost := range frontier[part[0]:part[1]] {
				prevs := game.PossiblePreviousMoves(lost.Position)
				s.metrics.AddExpanded(1)
				s.metrics.AddGenerated(len(prevs))
				duplicates := 0
				for _, prev := range prevs {
					if s.selfCheck {
						if err := game.CheckInvertibility(prev.Position); err != nil {
							return err
						}
					}
					key := s.key(prev.Position)
					node, inserted := index.InsertIfAbsent(key, &Node{Position: prev.Position, Round: round})
					switch {
					case inserted && prev.Position.ToMove() == s.side:
						out.defenders = append(out.defenders, node)
					case inserted:
						out.attackers = append(out.attackers, node)
					case node.Status == Safe:
						duplicates++
						if _, first := recheck.InsertIfAbsent(key, node); first {
							out.defenders = append(out.defenders, node)
						}
					default:
						duplicates++
					}
				}
				s.metrics.AddDuplicates(duplicates)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var attackers, defenders []*Node
	for _, f := range found {
		attackers = append(attackers, f.attackers...)
		defenders = append(defenders, f.defenders...)
	}
	return attackers, defenders, nil
}

// classify looks for a witness move in every dangerous position and returns
// those that have none. Verdicts are applied only after all workers finish so
// that every worker sees the same table.
func (s *Searcher) classify(ctx context.Context, index *Index, nodes []*Node, round int) ([]*Node, error) {
	lost := func(p game.Position) bool {
		n, ok := index.Lookup(s.key(p))
		return ok && n.Status == Lost
	}
	witnesses := make([]game.Transition, len(nodes))
	safe := make([]bool, len(nodes))

	g, _ := errgroup.WithContext(ctx)
	for _, part := range batches(len(nodes), s.workers) {
		g.Go(func() error {
			for i := part[0]; i < part[1]; i++ {
				witnesses[i], safe[i] = strategy.FindBlockingMove(nodes[i].Position, s.side, lost)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var losses []*Node
	for i, n := range nodes {
		if safe[i] {
			n.Status = Safe
			n.Move = witnesses[i].Info
			continue
		}
		n.Status = Lost
		n.Round = round
		losses = append(losses, n)
	}
	return losses, nil
}
