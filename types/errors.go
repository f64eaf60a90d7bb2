package types

import "errors"

// Rejection kinds for a withdrawal attempt. All are terminal for the given
// attempt: nothing is retried and no state is mutated. AlreadySpent must stay
// distinguishable from ProofInvalid in logs even though both cause the same
// on-chain effect; one means an attempted replay, the other a malformed proof.
var (
	// ErrProofInvalid: the proof system rejects the public/private pairing.
	ErrProofInvalid = errors.New("withdrawal proof invalid")

	// ErrAlreadySpent: the claimed nullifier has already funded a withdrawal.
	ErrAlreadySpent = errors.New("nullifier already spent")

	// ErrUnknownHistoricalRoot: the claimed main-tree root was never produced.
	ErrUnknownHistoricalRoot = errors.New("unknown historical root")

	// ErrConservationViolation: value arithmetic mismatch, overflow, or
	// per-deposit ceiling breach.
	ErrConservationViolation = errors.New("value conservation violation")

	// ErrMalformedBranch: a merkle branch does not have the tree's fixed depth
	// or is internally inconsistent.
	ErrMalformedBranch = errors.New("malformed merkle branch")
)
