package types

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// AccessTuple is one entry of a transaction access list. Routing data for
// the host ledger; the state engine never interprets it.
type AccessTuple struct {
	Address     common.Address
	StorageKeys []common.Hash
}

// WithdrawalTx is the host-facing transaction envelope around a withdrawal.
// The state engine consumes only Claim and Proof; chain id, nonce, fee
// fields, call data and the access list are opaque routing data for the
// host's transaction-execution loop. Memo is an optional ciphertext the
// withdrawer keeps for itself (typically the sealed change note).
type WithdrawalTx struct {
	ChainID    uint64
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	Data       []byte
	AccessList []AccessTuple

	Claim *WithdrawalClaim
	Proof []byte
	Memo  []byte
}

func (tx *WithdrawalTx) Bytes() []byte {
	b, err := rlp.EncodeToBytes(tx)
	if err != nil {
		panic(fmt.Sprintf("failed to RLP encode WithdrawalTx: %v", err))
	}
	return b
}

func (tx *WithdrawalTx) EncodeRLP(w *bytes.Buffer) error {
	return rlp.Encode(w, []interface{}{
		tx.ChainID,
		tx.Nonce,
		tx.GasTipCap.ToBig(),
		tx.GasFeeCap.ToBig(),
		tx.Gas,
		tx.Data,
		tx.AccessList,
		tx.Claim,
		tx.Proof,
		tx.Memo,
	})
}

func (tx *WithdrawalTx) DecodeRLP(s *rlp.Stream) error {
	var temp struct {
		ChainID    uint64
		Nonce      uint64
		GasTipCap  *big.Int
		GasFeeCap  *big.Int
		Gas        uint64
		Data       []byte
		AccessList []AccessTuple
		Claim      *WithdrawalClaim
		Proof      []byte
		Memo       []byte
	}

	if err := s.Decode(&temp); err != nil {
		return err
	}

	tipCap, overflow := uint256.FromBig(temp.GasTipCap)
	if overflow {
		return fmt.Errorf("gas tip cap overflows uint256")
	}
	feeCap, overflow := uint256.FromBig(temp.GasFeeCap)
	if overflow {
		return fmt.Errorf("gas fee cap overflows uint256")
	}

	tx.ChainID = temp.ChainID
	tx.Nonce = temp.Nonce
	tx.GasTipCap = tipCap
	tx.GasFeeCap = feeCap
	tx.Gas = temp.Gas
	tx.Data = temp.Data
	tx.AccessList = temp.AccessList
	tx.Claim = temp.Claim
	tx.Proof = temp.Proof
	tx.Memo = temp.Memo

	return nil
}

func DecodeWithdrawalTx(bz []byte) (*WithdrawalTx, error) {
	var tx WithdrawalTx
	if err := rlp.DecodeBytes(bz, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
