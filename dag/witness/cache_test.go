// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package witness

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	lru := NewLRU[int, string](3, 100, func(s string) int { return len(s) })

	// Add items
	lru.Put(1, "one")
	lru.Put(2, "two")
	lru.Put(3, "three")

	// All should be present
	v, ok := lru.Get(1)
	require.True(t, ok)
	require.Equal(t, "one", v)

	// Add 4th item, should evict oldest (2)
	lru.Put(4, "four")

	_, ok = lru.Get(2) // Was evicted
	require.False(t, ok)

	_, ok = lru.Get(1) // Still there (was accessed)
	require.True(t, ok)
}

func TestLRUByteLimit(t *testing.T) {
	// Limit to 20 bytes
	lru := NewLRU[int, string](100, 20, func(s string) int { return len(s) })

	lru.Put(1, "hello") // 5 bytes
	lru.Put(2, "world") // 5 bytes
	lru.Put(3, "foo")   // 3 bytes
	lru.Put(4, "bar")   // 3 bytes, total 16

	// All should fit
	_, ok := lru.Get(1)
	require.True(t, ok)

	// Adding large item should trigger eviction
	lru.Put(5, "verylongstring") // 14 bytes

	// Item 2 should be evicted (oldest after we accessed item 1)
	_, ok = lru.Get(2)
	require.False(t, ok) // Evicted

	_, ok = lru.Get(5)
	require.True(t, ok) // New item present
}

func TestLRULen(t *testing.T) {
	lru := NewLRU[int, int](4, 0, func(int) int { return 0 })
	for i := 0; i < 10; i++ {
		lru.Put(i, i)
	}
	require.Equal(t, 4, lru.Len())
}

func BenchmarkLRU(b *testing.B) {
	lru := NewLRU[int, []byte](1000, 1<<20, func(b []byte) int { return len(b) })

	data := make([]byte, 1024)
	rand.Read(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lru.Put(i%1000, data)
		lru.Get(i % 1000)
	}
}
