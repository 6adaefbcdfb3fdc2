// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package zkproof implements the verifier-agnostic zero-knowledge proof
// abstraction: an opaque ZkProof carrying a system tag, proof bytes,
// public inputs, and a verification key, plus the batch and recursive
// composition operators the aggregator (package aggregator) builds on.
//
// The aggregator never inspects proof_data beyond concatenating it for
// composition; any SNARK with recursive composition can sit behind this
// interface, consistent with spec.md's non-goal of fixing a circuit.
package zkproof

import (
	"bytes"
	"errors"

	"github.com/zhtp/web4/hashmerkle"
)

var (
	// ErrTagMismatch is returned when a composition operator is given
	// proofs whose system tags don't agree.
	ErrTagMismatch = errors.New("zkproof: system tag mismatch")
	// ErrEmptyProofSet is returned when composing zero proofs without an
	// explicit empty-proof shortcut result available.
	ErrEmptyProofSet = errors.New("zkproof: empty proof set")
	// ErrVerificationFailed is a generic proof-rejection sentinel; callers
	// needing detail should inspect the bool/err pair from Verify directly.
	ErrVerificationFailed = errors.New("zkproof: verification failed")
)

// ZkProof is an opaque proof object. The aggregator and every consumer of
// proofs treat ProofData and PublicInputs as opaque bytes; only the
// circuit-specific Verifier knows how to interpret them.
type ZkProof struct {
	SystemTag        string `json:"system_tag"`
	ProofData        []byte `json:"proof_data"`
	PublicInputs     []byte `json:"public_inputs"`
	VerificationKey  []byte `json:"verification_key"`
}

// Verifier abstracts over the concrete SNARK backend. Production
// backends implement this against their circuit; tests use a fake that
// accepts or rejects deterministically.
type Verifier interface {
	// Verify returns (true, nil) if proof is valid, (false, nil) if it is
	// well-formed but invalid, and (false, err) if the proof could not be
	// checked at all (malformed bytes, unknown tag, backend failure).
	Verify(proof ZkProof) (bool, error)
}

// Empty is the canonical empty proof returned by the empty-composition
// shortcut in BatchCompose.
var Empty = ZkProof{SystemTag: "empty"}

// IsEmpty reports whether p is the canonical empty proof.
func (p ZkProof) IsEmpty() bool {
	return p.SystemTag == "empty" && len(p.ProofData) == 0
}

// Verify checks p using v. A nil Verifier is treated as "accept anything
// structurally well-formed", which is only appropriate in tests.
func (p ZkProof) Verify(v Verifier) (bool, error) {
	if v == nil {
		return len(p.SystemTag) > 0, nil
	}
	return v.Verify(p)
}

// firstPublicInput returns the proof's first public-input word, used by
// the aggregator's state-root folding (§4.6 step 3): the first 32 bytes
// of PublicInputs, read with no length prefix. If PublicInputs is shorter
// than 32 bytes the returned 32-byte slice holds whatever bytes are
// present followed by zeros.
func (p ZkProof) firstPublicInput() []byte {
	out := make([]byte, 32)
	n := copy(out, p.PublicInputs)
	_ = n
	return out
}

// FirstPublicInput exposes firstPublicInput for other packages in this
// module (aggregator) that need the same 32-byte-word convention.
func (p ZkProof) FirstPublicInput() []byte {
	return p.firstPublicInput()
}

// BatchCompose flattens proofs into a single aggregated proof carrying an
// identifying tag and a `count` public input. The one-proof shortcut
// returns the sole proof unchanged; the empty shortcut returns Empty.
func BatchCompose(tag string, proofs []ZkProof) (ZkProof, error) {
	switch len(proofs) {
	case 0:
		return Empty, nil
	case 1:
		return proofs[0], nil
	}

	for _, p := range proofs[1:] {
		if p.SystemTag != proofs[0].SystemTag {
			return ZkProof{}, ErrTagMismatch
		}
	}

	var data bytes.Buffer
	for _, p := range proofs {
		data.Write(p.ProofData)
	}

	count := uint32(len(proofs))
	publicInputs := make([]byte, 4)
	publicInputs[0] = byte(count >> 24)
	publicInputs[1] = byte(count >> 16)
	publicInputs[2] = byte(count >> 8)
	publicInputs[3] = byte(count)

	return ZkProof{
		SystemTag:       tag,
		ProofData:       hashmerkle.H(data.Bytes()).Bytes(),
		PublicInputs:    publicInputs,
		VerificationKey: proofs[0].VerificationKey,
	}, nil
}

// RecursiveCompose composes newProof with prevProof (the previous chain
// proof's recursive proof, if any), binding the state-root transition.
// Package aggregator's CreateRecursiveChainProof does not call it; it
// hashes its own, wider binding directly.
func RecursiveCompose(tag string, newProof ZkProof, prevProof *ZkProof, prevStateRoot, newStateRoot hashmerkle.Hash) ZkProof {
	parts := [][]byte{newProof.ProofData}
	if prevProof != nil {
		parts = append(parts, prevProof.ProofData)
	}
	parts = append(parts, prevStateRoot[:], newStateRoot[:])

	return ZkProof{
		SystemTag:       tag,
		ProofData:       hashmerkle.H(parts...).Bytes(),
		PublicInputs:    newProof.PublicInputs,
		VerificationKey: newProof.VerificationKey,
	}
}
