// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkproof

import (
	"errors"

	"github.com/zhtp/web4/hashmerkle"
)

// ErrProofFamilyMismatch is returned when a TransactionProof's three
// components do not share the same system-tag family.
var ErrProofFamilyMismatch = errors.New("zkproof: transaction proof components are not from the same system tag family")

// ErrNullifierCommitmentMismatch is returned when the nullifier proof's
// public-input commitment does not equal H(nullifier).
var ErrNullifierCommitmentMismatch = errors.New("zkproof: nullifier proof commitment does not match H(nullifier)")

// TransactionProof is the triplet of proofs attached to every spending
// input: an amount-range proof, a balance (sum-preservation) proof, and a
// nullifier-correctness proof.
type TransactionProof struct {
	AmountProof     ZkProof `json:"amount_proof"`
	BalanceProof    ZkProof `json:"balance_proof"`
	NullifierProof  ZkProof `json:"nullifier_proof"`
}

// family returns the tag family for a system tag, e.g. "groth16" from
// "groth16_amount_range". Tags are expected in "<family>_<purpose>" form;
// a tag with no underscore is its own family.
func family(tag string) string {
	for i := 0; i < len(tag); i++ {
		if tag[i] == '_' {
			return tag[:i]
		}
	}
	return tag
}

// ValidateFamily checks that all three components share a system-tag
// family, per spec.md §3 TransactionProof invariants.
func (tp TransactionProof) ValidateFamily() error {
	f := family(tp.AmountProof.SystemTag)
	if family(tp.BalanceProof.SystemTag) != f || family(tp.NullifierProof.SystemTag) != f {
		return ErrProofFamilyMismatch
	}
	return nil
}

// ValidateNullifierBinding checks that the nullifier proof's public-input
// commitment equals H(nullifier).
func (tp TransactionProof) ValidateNullifierBinding(nullifier hashmerkle.Hash) error {
	want := hashmerkle.H(nullifier[:])
	got := hashmerkle.FromBytes(tp.NullifierProof.FirstPublicInput())
	if !hashmerkle.Equal(want, got) {
		return ErrNullifierCommitmentMismatch
	}
	return nil
}

// Validate runs both structural invariants.
func (tp TransactionProof) Validate(nullifier hashmerkle.Hash) error {
	if err := tp.ValidateFamily(); err != nil {
		return err
	}
	return tp.ValidateNullifierBinding(nullifier)
}

// VerifyAll verifies all three component proofs against v, short-circuiting
// on the first failure or error.
func (tp TransactionProof) VerifyAll(v Verifier) (bool, error) {
	for _, p := range []ZkProof{tp.AmountProof, tp.BalanceProof, tp.NullifierProof} {
		ok, err := p.Verify(v)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
