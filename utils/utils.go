package utils

import (
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	// registers MIMC_BN254 in the gnark-crypto hash registry
	_ "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	gnark_hash "github.com/consensys/gnark-crypto/hash"
)

func DefaultHasher() hash.Hash {
	return MiMCHasher()
}

func DefaultHashSum(ins ...[]byte) []byte {
	return MiMCHash(ins...)
}

func MiMCHasher() hash.Hash {
	return gnark_hash.MIMC_BN254.New()
}

// MiMCHash hashes the inputs with MiMC over the BN254 scalar field.
// Every full 32-byte chunk is reduced to a canonical fr.Element before it is
// written, so the native digest matches the in-circuit hasher, which consumes
// one field element per chunk.
func MiMCHash(ins ...[]byte) []byte {
	hasher := MiMCHasher()

	blockSize := hasher.Size()

	hasher.Reset()
	for _, in := range ins {

		for i := 0; i < len(in); i += blockSize {
			end := i + blockSize
			if end > len(in) {
				end = len(in)
			}
			chunk := in[i:end]

			if len(chunk) == blockSize {
				// this value may be greater than the modulus; convert to fr.Element
				var elem fr.Element
				elem.SetBytes(chunk)
				// canonical form
				chunk = elem.Marshal()
			}
			if _, err := hasher.Write(chunk); err != nil {
				panic(err)
			}
		}
	}
	return hasher.Sum(nil)
}

// CanonicalFr reduces a byte string modulo the BN254 scalar field and returns
// the canonical 32-byte encoding. Secrets and salts are stored in this form so
// the native hashers and the circuit witness agree on one representation.
func CanonicalFr(bz []byte) []byte {
	var elem fr.Element
	elem.SetBytes(bz)
	return elem.Marshal()
}
