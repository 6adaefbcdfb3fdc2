// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintypes

import "github.com/zhtp/web4/hashmerkle"

// UTXOKey identifies an unspent output.
type UTXOKey struct {
	TxHash      hashmerkle.Hash
	OutputIndex uint32
}

// UTXOSet is a simple in-memory UTXO map, sufficient for an edge node
// which only tracks its own outputs (spec.md §4.2).
type UTXOSet map[UTXOKey]Output

// NewUTXOSet constructs an empty set.
func NewUTXOSet() UTXOSet {
	return make(UTXOSet)
}

// Add inserts or overwrites the output at key.
func (s UTXOSet) Add(key UTXOKey, out Output) {
	s[key] = out
}

// Remove deletes the output at key, if present.
func (s UTXOSet) Remove(key UTXOKey) {
	delete(s, key)
}

// Get returns the output at key and whether it exists.
func (s UTXOSet) Get(key UTXOKey) (Output, bool) {
	out, ok := s[key]
	return out, ok
}
