package node

import (
	"github.com/holiman/uint256"

	"github.com/kysee/wormhole/verifier"
)

// Config pins the engine parameters. The same depth, difficulty and ceiling
// must be used by provers, verifiers and the ledger, or no proof will verify.
type Config struct {
	// Depth is the fixed depth of both commitment trees.
	// depth=20: 2^20 = 1,048,576 leaves
	// depth=32: 2^32 = 4,294,967,296 leaves (circuit gets much bigger)
	Depth int

	// PowDifficulty is the anti-collision gate exponent: the gate hash of a
	// secret must be divisible by 2^PowDifficulty.
	PowDifficulty uint

	// DepositCeiling bounds the value of a single deposit.
	DepositCeiling *uint256.Int

	// ChainID identifies the host chain in withdrawal tx envelopes.
	ChainID uint64
}

func DefaultConfig() Config {
	return Config{
		Depth:          32,
		PowDifficulty:  8,
		DepositCeiling: uint256.NewInt(32),
		ChainID:        1,
	}
}

// VerifierParams projects the config onto the relation parameters shared
// with provers and verifiers.
func (c Config) VerifierParams() verifier.Params {
	return verifier.Params{
		Depth:      c.Depth,
		Difficulty: c.PowDifficulty,
		Ceiling:    c.DepositCeiling,
	}
}
