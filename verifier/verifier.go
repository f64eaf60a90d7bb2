// Package verifier is the capability boundary around zero-knowledge proof
// verification. The state engine only consumes the one-operation Verifier
// interface; behind it sit a real plonk backend and a plaintext double that
// checks the same relations natively, so the validator's control flow and
// invariants can be tested without a proof system.
package verifier

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"
	"github.com/holiman/uint256"

	"github.com/kysee/wormhole/circuit"
	"github.com/kysee/wormhole/types"
)

// Params pin the relation shape shared by provers and verifiers: tree
// depth, anti-collision difficulty, and the per-deposit value ceiling.
type Params struct {
	Depth      int
	Difficulty uint
	Ceiling    *uint256.Int
}

// Verifier reports whether a proof is valid for the claim's public inputs.
// A nil error means valid; failures use the types error kinds.
type Verifier interface {
	Verify(claim *types.WithdrawalClaim, proof []byte) error
}

// PlonkVerifier verifies plonk proofs produced for circuit.WithdrawCircuit.
type PlonkVerifier struct {
	params Params
	vk     plonk.VerifyingKey
}

func NewPlonkVerifier(params Params, vk plonk.VerifyingKey) *PlonkVerifier {
	return &PlonkVerifier{params: params, vk: vk}
}

func (v *PlonkVerifier) Verify(claim *types.WithdrawalClaim, proof []byte) error {
	proofObj := plonk.NewProof(ecc.BN254)
	if _, err := proofObj.ReadFrom(bytes.NewReader(proof)); err != nil {
		return fmt.Errorf("%w: cannot unmarshal proof: %v", types.ErrProofInvalid, err)
	}

	// public-only assignment; don't trust anything beyond the claim itself
	assignment := circuit.NewWithdrawCircuit(v.params.Depth, v.params.Difficulty, v.params.Ceiling.ToBig())
	assignment.MainRoot = claim.MainRoot.Bytes()
	assignment.PoolRoot = claim.PoolRoot.Bytes()
	assignment.Nullifier = claim.Nullifier.Bytes()
	assignment.WithdrawValue = claim.WithdrawValue.ToBig()
	assignment.ChangeCommitment = claim.ChangeCommitment.Bytes()
	assignment.Recipient = claim.Recipient.Bytes()

	pubWtn, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("%w: cannot build public witness: %v", types.ErrProofInvalid, err)
	}
	if err := plonk.Verify(proofObj, v.vk, pubWtn); err != nil {
		return fmt.Errorf("%w: %v", types.ErrProofInvalid, err)
	}
	return nil
}
