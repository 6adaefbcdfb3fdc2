// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bft

import "github.com/zhtp/web4/zkproof"

func zkProofStub(dataLen int) zkproof.ZkProof {
	return zkproof.ZkProof{SystemTag: "test", ProofData: make([]byte, dataLen)}
}
