package verifier

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/kysee/wormhole/merkle"
	"github.com/kysee/wormhole/types"
)

// Witness is the plaintext private input set of a withdrawal relation. The
// PlainVerifier consumes it RLP-encoded where a cryptographic backend would
// consume an opaque proof blob. Test/off-chain use only: it reveals the
// secret.
type Witness struct {
	Secret types.Secret

	// Change selects the spent leaf form: false opens a standard deposit
	// commitment, true opens a change commitment whose salt is the secret
	// itself. Sender is zero for change spends.
	Change bool
	Sender common.Address

	DepositValue *uint256.Int

	// ChangeValue and ChangeSalt describe the new change output, if any.
	ChangeValue *uint256.Int
	ChangeSalt  []byte

	LeafIndex  uint64
	MainBranch merkle.Branch
	PoolIndex  uint64
	PoolBranch merkle.Branch
}

func (w *Witness) Bytes() []byte {
	b, err := rlp.EncodeToBytes(w)
	if err != nil {
		panic(fmt.Sprintf("failed to RLP encode Witness: %v", err))
	}
	return b
}

func DecodeWitness(bz []byte) (*Witness, error) {
	var w Witness
	if err := rlp.DecodeBytes(bz, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// PlainVerifier checks the withdrawal relations directly against a plaintext
// witness. It covers every relation the plonk circuit proves plus the
// Keccak secret-to-burn-address link the demo circuit leaves out.
type PlainVerifier struct {
	params Params
}

func NewPlainVerifier(params Params) *PlainVerifier {
	return &PlainVerifier{params: params}
}

func (v *PlainVerifier) Verify(claim *types.WithdrawalClaim, proof []byte) error {
	w, err := DecodeWitness(proof)
	if err != nil {
		return fmt.Errorf("%w: cannot decode witness: %v", types.ErrProofInvalid, err)
	}

	if len(w.MainBranch) != v.params.Depth || len(w.PoolBranch) != v.params.Depth {
		return types.ErrMalformedBranch
	}

	if !w.Secret.PassesPow(v.params.Difficulty) {
		return fmt.Errorf("%w: secret fails anti-collision gate", types.ErrProofInvalid)
	}

	// the commitment referenced by both branches
	var cm common.Hash
	if w.Change {
		cm = types.ChangeCommitment(types.SaltedValueHash(w.Secret.Bytes(), w.DepositValue))
	} else {
		burnAddr := w.Secret.BurnAddress()
		cm = types.DepositCommitment(w.Sender, burnAddr, w.DepositValue)
	}

	if !merkle.Verify(v.params.Depth, claim.MainRoot, w.LeafIndex, cm, w.MainBranch) {
		return fmt.Errorf("%w: commitment not under claimed main root", types.ErrProofInvalid)
	}
	if !merkle.Verify(v.params.Depth, claim.PoolRoot, w.PoolIndex, cm, w.PoolBranch) {
		return fmt.Errorf("%w: commitment not under claimed pool root", types.ErrProofInvalid)
	}

	if w.Secret.Nullifier() != claim.Nullifier {
		return fmt.Errorf("%w: nullifier does not match secret", types.ErrProofInvalid)
	}

	// conservation: withdraw + change == deposit, within ceiling, no wrap
	sum, overflow := new(uint256.Int).AddOverflow(claim.WithdrawValue, w.ChangeValue)
	if overflow {
		return fmt.Errorf("%w: value sum overflows", types.ErrConservationViolation)
	}
	if !sum.Eq(w.DepositValue) {
		return fmt.Errorf("%w: withdraw %s + change %s != deposit %s",
			types.ErrConservationViolation,
			claim.WithdrawValue.Dec(), w.ChangeValue.Dec(), w.DepositValue.Dec())
	}
	if w.DepositValue.Gt(v.params.Ceiling) {
		return fmt.Errorf("%w: deposit %s exceeds ceiling %s",
			types.ErrConservationViolation, w.DepositValue.Dec(), v.params.Ceiling.Dec())
	}

	// change hash: zero change carries the zero commitment, nothing else
	if w.ChangeValue.IsZero() {
		if claim.HasChange() {
			return fmt.Errorf("%w: change commitment for zero change value", types.ErrProofInvalid)
		}
		return nil
	}
	expected := types.ChangeCommitment(types.SaltedValueHash(w.ChangeSalt, w.ChangeValue))
	if claim.ChangeCommitment != expected {
		return fmt.Errorf("%w: change commitment mismatch", types.ErrProofInvalid)
	}
	return nil
}
