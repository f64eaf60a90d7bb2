package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kysee/wormhole/utils"
)

// Nullifier derives the one-time spend marker for a secret:
// MiMC(tag, secret). One nullifier per secret, deterministic, and
// unlinkable to the deposit commitment without knowledge of the secret.
//
// Marking a nullifier spent is one-shot, not idempotent: a second spend of
// the same nullifier is an error, never a no-op.
func (s Secret) Nullifier() common.Hash {
	return common.BytesToHash(utils.DefaultHashSum(Tag32(TagNullifier), s[:]))
}

// PowHash is the anti-collision gate hash: MiMC(tag, secret).
func (s Secret) PowHash() common.Hash {
	return common.BytesToHash(utils.DefaultHashSum(Tag32(TagPow), s[:]))
}

// PassesPow reports whether the secret clears the anti-collision gate:
// the gate hash, read as an integer, must be divisible by 2^difficulty.
// A deterrent against hash-collision double-extraction, not a correctness
// invariant.
func (s Secret) PassesPow(difficulty uint) bool {
	if difficulty == 0 {
		return true
	}
	z := new(big.Int).SetBytes(s.PowHash().Bytes())
	if z.Sign() == 0 {
		return true
	}
	return z.TrailingZeroBits() >= difficulty
}

// GrindSecret draws random secrets until one clears the gate. Expected cost
// grows as 2^difficulty; proving-side work, never on the validation path.
func GrindSecret(difficulty uint) Secret {
	for {
		s := NewSecret()
		if s.PassesPow(difficulty) {
			return s
		}
	}
}
