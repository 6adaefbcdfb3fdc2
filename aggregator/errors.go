// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import "errors"

var (
	// ErrEmptyBatches rejects an aggregation request with no transaction
	// batches.
	ErrEmptyBatches = errors.New("aggregator: no transaction batches supplied")
	// ErrUnknownFeeTier rejects a batch whose fee tier has no configured
	// base fee.
	ErrUnknownFeeTier = errors.New("aggregator: unknown fee tier")
	// ErrFeeOverflow is fatal: total fee accumulation overflowed uint64.
	ErrFeeOverflow = errors.New("aggregator: total fee computation overflowed")
	// ErrNoBlockProof reports a missing block proof; no function in this
	// package returns it.
	ErrNoBlockProof = errors.New("aggregator: no block proof supplied")
)
