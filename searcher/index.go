package searcher

import (
	"math/bits"
	"sync"

	"chessball/game"

	"golang.org/x/exp/slices"
)

const maxShards = 256

// Index is the transposition table shared by search workers. Keys are spread
// over independently locked shards; readers never block each other and a
// writer only blocks its own shard.
type Index struct {
	shards []shard
	shift  uint
}

type shard struct {
	mu    sync.RWMutex
	nodes map[game.Key]*Node
}

// NewIndex creates an index with at least the given number of shards, rounded
// up to a power of two.
func NewIndex(shards int) *Index {
	if shards < 1 {
		shards = 1
	}
	if shards > maxShards {
		shards = maxShards
	}
	n := 1 << bits.Len(uint(shards-1))
	ix := &Index{
		shards: make([]shard, n),
		shift:  uint(64 - bits.TrailingZeros(uint(n))),
	}
	for i := range ix.shards {
		ix.shards[i].nodes = make(map[game.Key]*Node)
	}
	return ix
}

func (ix *Index) shardFor(key game.Key) *shard {
	if len(ix.shards) == 1 {
		return &ix.shards[0]
	}
	// Fibonacci hashing: consecutive keys differ in low bits only.
	return &ix.shards[(uint64(key)*0x9E3779B97F4A7C15)>>ix.shift]
}

func (ix *Index) Lookup(key game.Key) (*Node, bool) {
	s := ix.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[key]
	return n, ok
}

// InsertIfAbsent stores node under key unless the key is already present. It
// returns the node resident after the call and whether it is the caller's.
// Exactly one of several racing callers wins.
func (ix *Index) InsertIfAbsent(key game.Key, node *Node) (*Node, bool) {
	s := ix.shardFor(key)
	s.mu.RLock()
	resident, ok := s.nodes[key]
	s.mu.RUnlock()
	if ok {
		return resident, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if resident, ok := s.nodes[key]; ok {
		return resident, false
	}
	s.nodes[key] = node
	return node, true
}

func (ix *Index) Len() int {
	n := 0
	for i := range ix.shards {
		s := &ix.shards[i]
		s.mu.RLock()
		n += len(s.nodes)
		s.mu.RUnlock()
	}
	return n
}

// Keys returns a sorted snapshot of every key.
func (ix *Index) Keys() []game.Key {
	var keys []game.Key
	for i := range ix.shards {
		s := &ix.shards[i]
		s.mu.RLock()
		for k := range s.nodes {
			keys = append(keys, k)
		}
		s.mu.RUnlock()
	}
	slices.Sort(keys)
	return keys
}
