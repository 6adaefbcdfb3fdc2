// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package witness provides a generic, entry- and byte-bounded LRU cache
// shared by the DHT replay guard, the aggregator's proof caches, and the
// gateway's per-IP rate limiter.
package witness

import (
	"container/list"
	"sync"
)

// LRU is a generic cache bounded by entry count, total byte size, or
// both. A zero capBytes disables the byte bound; NewLRU raises a
// capEntries below 1 to 1, so the entry bound always applies.
type LRU[K comparable, V any] struct {
	mu          sync.Mutex
	ll          *list.List
	entries     map[K]*list.Element
	capEntries  int
	capBytes    int
	curBytes    int
	sizeOfValue func(V) int
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
	size  int
}

// NewLRU creates an LRU bounded to capEntries entries and capBytes total
// bytes (as measured by sizeOfValue), whichever limit is hit first.
func NewLRU[K comparable, V any](capEntries, capBytes int, sizeOfValue func(V) int) *LRU[K, V] {
	if capEntries <= 0 {
		capEntries = 1
	}
	if capBytes < 0 {
		capBytes = 0
	}
	return &LRU[K, V]{
		ll:          list.New(),
		entries:     make(map[K]*list.Element, capEntries),
		capEntries:  capEntries,
		capBytes:    capBytes,
		sizeOfValue: sizeOfValue,
	}
}

func (l *LRU[K, V]) Get(k K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if el, ok := l.entries[k]; ok {
		l.ll.MoveToFront(el)
		en := el.Value.(lruEntry[K, V])
		return en.value, true
	}
	var zero V
	return zero, false
}

func (l *LRU[K, V]) Put(k K, v V) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if el, ok := l.entries[k]; ok {
		en := el.Value.(lruEntry[K, V])
		l.curBytes -= en.size
		en.value = v
		en.size = l.sizeOfValue(v)
		el.Value = en
		l.curBytes += en.size
		l.ll.MoveToFront(el)
		l.evict()
		return
	}

	en := lruEntry[K, V]{key: k, value: v, size: l.sizeOfValue(v)}
	el := l.ll.PushFront(en)
	l.entries[k] = el
	l.curBytes += en.size
	l.evict()
}

// Len returns the number of entries currently cached.
func (l *LRU[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ll.Len()
}

func (l *LRU[K, V]) evict() {
	for (l.capEntries > 0 && l.ll.Len() > l.capEntries) || (l.capBytes > 0 && l.curBytes > l.capBytes) {
		el := l.ll.Back()
		if el == nil {
			return
		}
		en := el.Value.(lruEntry[K, V])
		delete(l.entries, en.key)
		l.curBytes -= en.size
		l.ll.Remove(el)
	}
}
