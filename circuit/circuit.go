// Package circuit carries the plonk instantiation of the withdrawal
// relation. It proves, over BN254 with MiMC, everything the validator
// cannot recompute publicly: the commitment opening, membership of that
// commitment in both the historical main root and the privacy-pool root,
// the nullifier derivation, the anti-collision gate bits, value
// conservation, and the change-value hash.
//
// The secret-to-burn-address link uses Keccak and is outside this circuit;
// a production instantiation would carry a Keccak gadget for it. The
// plaintext verifier double checks that link natively.
package circuit

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	std_mimc "github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/test/unsafekzg"

	"github.com/kysee/wormhole/types"
)

type WithdrawCircuit struct {
	depth      int
	difficulty uint
	ceiling    *big.Int

	// public inputs, mirroring types.WithdrawalClaim
	MainRoot         frontend.Variable `gnark:",public"`
	PoolRoot         frontend.Variable `gnark:",public"`
	Nullifier        frontend.Variable `gnark:",public"`
	WithdrawValue    frontend.Variable `gnark:",public"`
	ChangeCommitment frontend.Variable `gnark:",public"`
	Recipient        frontend.Variable `gnark:",public"`

	// private witness. IsChange selects the spent leaf form: 0 opens a
	// standard deposit commitment (sender, burn address, value), 1 opens a
	// change commitment, whose salt is the secret itself. Sender and
	// BurnAddress are zero for change spends.
	Secret       frontend.Variable
	IsChange     frontend.Variable
	Sender       frontend.Variable
	BurnAddress  frontend.Variable
	DepositValue frontend.Variable
	ChangeValue  frontend.Variable
	ChangeSalt   frontend.Variable
	LeafIndex    frontend.Variable
	MainPath     []frontend.Variable
	PoolIndex    frontend.Variable
	PoolPath     []frontend.Variable
}

// NewWithdrawCircuit allocates a circuit shell for the given tree depth,
// gate difficulty and per-deposit ceiling. The same parameters must be used
// at compile time and at witness-assignment time.
func NewWithdrawCircuit(depth int, difficulty uint, ceiling *big.Int) *WithdrawCircuit {
	return &WithdrawCircuit{
		depth:      depth,
		difficulty: difficulty,
		ceiling:    new(big.Int).Set(ceiling),
		MainPath:   make([]frontend.Variable, depth),
		PoolPath:   make([]frontend.Variable, depth),
	}
}

func (cc *WithdrawCircuit) Define(api frontend.API) error {
	hasher, err := std_mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	// recipient is bound into the statement and range-checked to the
	// address width so a relayer cannot redirect the mint
	api.ToBinary(cc.Recipient, 160)

	// commitment opening, deposit or change form:
	//   deposit: MiMC(tag, sender, burnAddr, depositValue)
	//   change:  MiMC(tag, MiMC(secret, depositValue))
	// A change spend is fully bound to the secret in-circuit; a deposit
	// spend binds the secret through the nullifier only, the Keccak
	// burn-address link being outside this circuit.
	hasher.Reset()
	hasher.Write(types.TagDeposit, cc.Sender, cc.BurnAddress, cc.DepositValue)
	cmDeposit := hasher.Sum()

	hasher.Reset()
	hasher.Write(cc.Secret, cc.DepositValue)
	saltedOwn := hasher.Sum()
	hasher.Reset()
	hasher.Write(types.TagChange, saltedOwn)
	cmChange := hasher.Sum()

	api.AssertIsBoolean(cc.IsChange)
	cm := api.Select(cc.IsChange, cmChange, cmDeposit)

	// two independent memberships of the same leaf
	mainRoot := merkleRoot(api, &hasher, cm, cc.LeafIndex, cc.MainPath)
	api.AssertIsEqual(cc.MainRoot, mainRoot)

	poolRoot := merkleRoot(api, &hasher, cm, cc.PoolIndex, cc.PoolPath)
	api.AssertIsEqual(cc.PoolRoot, poolRoot)

	// nullifier derivation
	hasher.Reset()
	hasher.Write(types.TagNullifier, cc.Secret)
	api.AssertIsEqual(cc.Nullifier, hasher.Sum())

	// anti-collision gate: low difficulty bits of MiMC(tag, secret) are zero
	hasher.Reset()
	hasher.Write(types.TagPow, cc.Secret)
	powBits := api.ToBinary(hasher.Sum(), 254)
	for i := uint(0); i < cc.difficulty; i++ {
		api.AssertIsEqual(powBits[i], 0)
	}

	// conservation: withdraw + change == deposit, no field wrap-around,
	// deposit within the configured ceiling
	api.ToBinary(cc.WithdrawValue, 128)
	api.ToBinary(cc.ChangeValue, 128)
	api.AssertIsEqual(api.Add(cc.WithdrawValue, cc.ChangeValue), cc.DepositValue)
	api.AssertIsLessOrEqual(cc.DepositValue, cc.ceiling)

	// change hash: zero change value must present the zero commitment,
	// otherwise MiMC(tag, MiMC(salt, changeValue))
	hasher.Reset()
	hasher.Write(cc.ChangeSalt, cc.ChangeValue)
	salted := hasher.Sum()

	hasher.Reset()
	hasher.Write(types.TagChange, salted)
	changeC := hasher.Sum()

	isZero := api.IsZero(cc.ChangeValue)
	expected := api.Select(isZero, 0, changeC)
	api.AssertIsEqual(cc.ChangeCommitment, expected)

	return nil
}

// merkleRoot folds a leaf up a fixed-depth path. Index bit i selects the
// side at level i: bit set means the running node is the right child.
func merkleRoot(api frontend.API, hasher *std_mimc.MiMC, leaf, index frontend.Variable, path []frontend.Variable) frontend.Variable {
	bits := api.ToBinary(index, len(path))
	cur := leaf
	for i := 0; i < len(path); i++ {
		left := api.Select(bits[i], path[i], cur)
		right := api.Select(bits[i], cur, path[i])
		hasher.Reset()
		hasher.Write(left, right)
		cur = hasher.Sum()
	}
	return cur
}

// Compile builds the constraint system and runs the plonk setup.
func Compile(depth int, difficulty uint, ceiling *big.Int) (constraint.ConstraintSystem, plonk.ProvingKey, plonk.VerifyingKey, error) {
	cc := NewWithdrawCircuit(depth, difficulty, ceiling)
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, cc)
	if err != nil {
		return nil, nil, nil, err
	}

	// todo: Use safe SRS generation
	srs, srsLagrange, err := unsafekzg.NewSRS(ccs)
	if err != nil {
		return nil, nil, nil, err
	}

	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, nil, nil, err
	}
	return ccs, pk, vk, nil
}
