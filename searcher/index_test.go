package searcher

import (
	"sync"
	"sync/atomic"
	"testing"

	"chessball/game"

	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	t.Run("shard counts are rounded up to a power of two", func(t *testing.T) {
		require.Len(t, NewIndex(5).shards, 8)
		require.Len(t, NewIndex(0).shards, 1)
		require.Len(t, NewIndex(1<<20).shards, maxShards)
	})

	t.Run("lookup finds only inserted keys", func(t *testing.T) {
		ix := NewIndex(4)
		node := &Node{Depth: 3}
		_, ok := ix.Lookup(42)
		require.False(t, ok)

		got, inserted := ix.InsertIfAbsent(42, node)
		require.True(t, inserted)
		require.Same(t, node, got)

		got, inserted = ix.InsertIfAbsent(42, &Node{Depth: 7})
		require.False(t, inserted, "A resident node is never replaced")
		require.Same(t, node, got)

		got, ok = ix.Lookup(42)
		require.True(t, ok)
		require.Same(t, node, got)
	})

	t.Run("racing inserts have exactly one winner per key", func(t *testing.T) {
		const goroutines, keys = 16, 500
		ix := NewIndex(8)
		var wins [keys]atomic.Int32

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < keys; k++ {
					if _, inserted := ix.InsertIfAbsent(game.Key(k), &Node{Depth: g}); inserted {
						wins[k].Add(1)
					}
				}
			}()
		}
		wg.Wait()

		for k := range wins {
			require.Equal(t, int32(1), wins[k].Load(), "key %d", k)
		}
		require.Equal(t, keys, ix.Len())

		sorted := ix.Keys()
		require.Len(t, sorted, keys)
		for i, k := range sorted {
			require.Equal(t, game.Key(i), k)
		}
	})
}

func TestBatches(t *testing.T) {
	require.Nil(t, batches(0, 4))
	require.Equal(t, [][2]int{{0, 1}, {1, 2}}, batches(2, 8))
	require.Equal(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, batches(10, 3))
}
