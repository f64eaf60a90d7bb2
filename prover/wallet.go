// Package prover is the withdrawer side: it keeps deposit secrets, curates
// privacy pools, and turns a spendable deposit into a withdrawal claim with
// either a plaintext witness or a plonk proof. Everything here is off the
// validation path and free to take unbounded time.
package prover

import (
	"bytes"
	"fmt"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/kysee/wormhole/circuit"
	"github.com/kysee/wormhole/node"
	"github.com/kysee/wormhole/types"
	"github.com/kysee/wormhole/verifier"
	"github.com/kysee/wormhole/wcrypto"
)

// Deposit is a spendable note tracked by the wallet: either a standard
// burn deposit or a change output from an earlier withdrawal.
type Deposit struct {
	Secret types.Secret
	Change bool
	Sender common.Address
	Value  *uint256.Int

	// LeafIndex is the main-tree position, set once the ledger has
	// indexed the deposit.
	LeafIndex uint64
}

// Commitment returns the leaf this deposit occupies in the main tree.
func (d *Deposit) Commitment() common.Hash {
	if d.Change {
		return types.ChangeCommitment(types.SaltedValueHash(d.Secret.Bytes(), d.Value))
	}
	return types.DepositCommitment(d.Sender, d.Secret.BurnAddress(), d.Value)
}

func (d *Deposit) Nullifier() common.Hash {
	return d.Secret.Nullifier()
}

// Withdrawal bundles everything built for one withdrawal attempt.
type Withdrawal struct {
	Claim   *types.WithdrawalClaim
	Witness *verifier.Witness

	// ChangeNote is the fresh change output, nil on an exact-value
	// withdrawal. Its LeafIndex is unset until the ledger indexes it.
	ChangeNote *Deposit
}

// PlainProof encodes the witness for the plaintext verifier double.
func (wd *Withdrawal) PlainProof() []byte {
	return wd.Witness.Bytes()
}

type Wallet struct {
	params   verifier.Params
	deposits []*Deposit
}

func NewWallet(params verifier.Params) *Wallet {
	return &Wallet{params: params}
}

// NewDeposit grinds a fresh secret through the anti-collision gate and
// returns the deposit plus the burn event the host ledger should emit for
// it. The caller submits the event and records the resulting leaf index.
func (w *Wallet) NewDeposit(sender common.Address, value *uint256.Int) (*Deposit, *types.BurnEvent) {
	secret := types.GrindSecret(w.params.Difficulty)
	dep := &Deposit{
		Secret: secret,
		Sender: sender,
		Value:  value,
	}
	w.deposits = append(w.deposits, dep)
	return dep, &types.BurnEvent{
		Sender:      sender,
		BurnAddress: secret.BurnAddress(),
		Value:       value,
	}
}

func (w *Wallet) Deposits() []*Deposit {
	return w.deposits
}

// BuildWithdrawal assembles the claim and plaintext witness for spending
// dep: main-tree branch against the current root, a curated privacy pool
// over the chosen leaf indices (which must include dep's own leaf), the
// nullifier, and, for a partial withdrawal, a fresh ground change secret.
func (w *Wallet) BuildWithdrawal(
	led *node.Ledger, dep *Deposit,
	withdrawValue *uint256.Int, recipient common.Address,
	poolIndices []uint64,
) (*Withdrawal, error) {

	change := new(uint256.Int)
	if _, underflow := change.SubOverflow(dep.Value, withdrawValue); underflow {
		return nil, fmt.Errorf("withdraw %s exceeds deposit value %s",
			withdrawValue.Dec(), dep.Value.Dec())
	}

	mainRoot := led.Root()
	mainBranch, err := led.Prove(dep.LeafIndex)
	if err != nil {
		return nil, err
	}

	pool, err := led.CuratePool(poolIndices)
	if err != nil {
		return nil, err
	}
	poolIdx, found := pool.Find(dep.Commitment())
	if !found {
		return nil, fmt.Errorf("deposit leaf %d not in curated pool", dep.LeafIndex)
	}
	poolBranch, err := pool.Prove(poolIdx)
	if err != nil {
		return nil, err
	}

	claim := &types.WithdrawalClaim{
		MainRoot:      mainRoot,
		PoolRoot:      pool.Root(),
		Nullifier:     dep.Nullifier(),
		WithdrawValue: withdrawValue,
		Recipient:     recipient,
	}
	wtn := &verifier.Witness{
		Secret:       dep.Secret,
		Change:       dep.Change,
		Sender:       dep.Sender,
		DepositValue: dep.Value,
		ChangeValue:  change,
		LeafIndex:    dep.LeafIndex,
		MainBranch:   mainBranch,
		PoolIndex:    poolIdx,
		PoolBranch:   poolBranch,
	}

	wd := &Withdrawal{Claim: claim, Witness: wtn}
	if !change.IsZero() {
		// the change salt doubles as the change note's spending secret,
		// so it is ground through the gate like any other secret
		changeSecret := types.GrindSecret(w.params.Difficulty)
		wd.ChangeNote = &Deposit{
			Secret: changeSecret,
			Change: true,
			Value:  change,
		}
		w.deposits = append(w.deposits, wd.ChangeNote)

		claim.ChangeCommitment = wd.ChangeNote.Commitment()
		wtn.ChangeSalt = changeSecret.Bytes()
	}
	return wd, nil
}

// Prove generates a plonk proof for the withdrawal, for use against the
// PlonkVerifier backend.
func (w *Wallet) Prove(wd *Withdrawal, ccs constraint.ConstraintSystem, provingKey plonk.ProvingKey) ([]byte, error) {
	assignment := circuit.NewWithdrawCircuit(w.params.Depth, w.params.Difficulty, w.params.Ceiling.ToBig())

	assignment.MainRoot = wd.Claim.MainRoot.Bytes()
	assignment.PoolRoot = wd.Claim.PoolRoot.Bytes()
	assignment.Nullifier = wd.Claim.Nullifier.Bytes()
	assignment.WithdrawValue = wd.Claim.WithdrawValue.ToBig()
	assignment.ChangeCommitment = wd.Claim.ChangeCommitment.Bytes()
	assignment.Recipient = wd.Claim.Recipient.Bytes()

	wtn := wd.Witness
	assignment.Secret = wtn.Secret.Bytes()
	assignment.IsChange = boolToInt(wtn.Change)
	assignment.Sender = common.BytesToHash(wtn.Sender.Bytes()).Bytes()
	if wtn.Change {
		assignment.BurnAddress = 0
	} else {
		burnAddr := wtn.Secret.BurnAddress()
		assignment.BurnAddress = common.BytesToHash(burnAddr.Bytes()).Bytes()
	}
	assignment.DepositValue = wtn.DepositValue.ToBig()
	assignment.ChangeValue = wtn.ChangeValue.ToBig()
	if len(wtn.ChangeSalt) > 0 {
		assignment.ChangeSalt = wtn.ChangeSalt
	} else {
		assignment.ChangeSalt = 0
	}
	assignment.LeafIndex = wtn.LeafIndex
	for i, n := range wtn.MainBranch {
		assignment.MainPath[i] = n.Sibling.Bytes()
	}
	assignment.PoolIndex = wtn.PoolIndex
	for i, n := range wtn.PoolBranch {
		assignment.PoolPath[i] = n.Sibling.Bytes()
	}

	fullWtn, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}

	proof, err := plonk.Prove(
		ccs,
		provingKey,
		fullWtn,
		backend.WithSolverOptions(
			solver.WithLogger(gnarkLogger),
		),
	)
	if err != nil {
		return nil, err
	}

	bufProof := bytes.NewBuffer(nil)
	if _, err := proof.WriteTo(bufProof); err != nil {
		return nil, err
	}
	return bufProof.Bytes(), nil
}

// ChangeRecord is the plaintext of a sealed change memo.
type ChangeRecord struct {
	Secret types.Secret
	Value  *uint256.Int
}

// BuildTx wraps a withdrawal into the host tx envelope. If the withdrawal
// has change, its record is sealed under the spent secret and carried in
// the memo field.
func (w *Wallet) BuildTx(chainID, nonce uint64, wd *Withdrawal, proof []byte) (*types.WithdrawalTx, error) {
	tx := &types.WithdrawalTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: uint256.NewInt(0),
		GasFeeCap: uint256.NewInt(0),
		Claim:     wd.Claim,
		Proof:     proof,
	}
	if wd.ChangeNote != nil {
		plaintext, err := rlp.EncodeToBytes(&ChangeRecord{
			Secret: wd.ChangeNote.Secret,
			Value:  wd.ChangeNote.Value,
		})
		if err != nil {
			return nil, err
		}
		memo, err := wcrypto.SealChangeMemo(wd.Witness.Secret, plaintext)
		if err != nil {
			return nil, err
		}
		tx.Memo = memo
	}
	return tx, nil
}

// RecoverChange opens a sealed change memo with the secret that was spent
// in the withdrawal carrying it.
func RecoverChange(spent types.Secret, memo []byte) (*ChangeRecord, error) {
	plaintext, err := wcrypto.OpenChangeMemo(spent, memo)
	if err != nil {
		return nil, err
	}
	var rec ChangeRecord
	if err := rlp.DecodeBytes(plaintext, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var gnarkLogger = zerolog.New(os.Stdout).Level(zerolog.WarnLevel).With().Timestamp().Logger()
