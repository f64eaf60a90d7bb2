package types

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// WithdrawalClaim is the public portion of a withdrawal proof. It is
// consumed once by the validator and not stored beyond the registry and
// tree mutations it causes.
//
// MainRoot references a historical root of the chain-wide deposit tree.
// PoolRoot is the withdrawer-chosen privacy pool; it is public, and its
// anonymity benefit is purely the number of distinct leaves it contains.
// ChangeCommitment is the zero hash when the withdrawal consumes the full
// deposit value.
type WithdrawalClaim struct {
	MainRoot         common.Hash
	PoolRoot         common.Hash
	Nullifier        common.Hash
	WithdrawValue    *uint256.Int
	ChangeCommitment common.Hash
	Recipient        common.Address
}

// HasChange reports whether the claim emits a change commitment.
func (c *WithdrawalClaim) HasChange() bool {
	return c.ChangeCommitment != (common.Hash{})
}

// Bytes returns the RLP-encoded representation of the claim as a byte slice.
// It panics if the encoding fails.
func (c *WithdrawalClaim) Bytes() []byte {
	b, err := rlp.EncodeToBytes(c)
	if err != nil {
		// Typically, a Bytes() method does not return an error.
		// We treat this as a critical internal error and panic.
		panic(fmt.Sprintf("failed to RLP encode WithdrawalClaim: %v", err))
	}
	return b
}

// EncodeRLP encodes the claim into RLP format.
// This method implements the rlp.Encoder interface.
func (c *WithdrawalClaim) EncodeRLP(w *bytes.Buffer) error {
	// Convert WithdrawValue to *big.Int for encoding, as rlp has built-in
	// support for it.
	valueBig := c.WithdrawValue.ToBig()

	return rlp.Encode(w, []interface{}{
		c.MainRoot,
		c.PoolRoot,
		c.Nullifier,
		valueBig,
		c.ChangeCommitment,
		c.Recipient,
	})
}

// DecodeRLP decodes RLP data into the claim.
// This method implements the rlp.Decoder interface.
func (c *WithdrawalClaim) DecodeRLP(s *rlp.Stream) error {
	var temp struct {
		MainRoot         common.Hash
		PoolRoot         common.Hash
		Nullifier        common.Hash
		WithdrawValue    *big.Int
		ChangeCommitment common.Hash
		Recipient        common.Address
	}

	if err := s.Decode(&temp); err != nil {
		return err
	}

	value, overflow := uint256.FromBig(temp.WithdrawValue)
	if overflow {
		return fmt.Errorf("withdraw value overflows uint256")
	}

	c.MainRoot = temp.MainRoot
	c.PoolRoot = temp.PoolRoot
	c.Nullifier = temp.Nullifier
	c.WithdrawValue = value
	c.ChangeCommitment = temp.ChangeCommitment
	c.Recipient = temp.Recipient

	return nil
}
