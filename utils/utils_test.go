package utils

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

// Constructing the hasher must work in any binary importing this package,
// with no other gnark packages linked.
func TestMiMCHasherAvailable(t *testing.T) {
	h := DefaultHasher()
	require.NotNil(t, h)
	require.Equal(t, fr.Bytes, h.Size())

	in := CanonicalFr([]byte{0x01})
	sum := DefaultHashSum(in)
	require.Len(t, sum, fr.Bytes)
	require.Equal(t, sum, MiMCHash(in))
}

func TestMiMCHashCanonicalChunks(t *testing.T) {
	// a full chunk above the field modulus hashes like its canonical form
	var over [32]byte
	for i := range over {
		over[i] = 0xff
	}
	require.Equal(t, MiMCHash(CanonicalFr(over[:])), MiMCHash(over[:]))

	// chunk boundaries, not argument boundaries, define the blocks
	a := CanonicalFr([]byte{0x0a})
	b := CanonicalFr([]byte{0x0b})
	joined := append(append([]byte{}, a...), b...)
	require.Equal(t, MiMCHash(a, b), MiMCHash(joined))
	require.NotEqual(t, MiMCHash(a, b), MiMCHash(b, a))
}

func TestCanonicalFrStable(t *testing.T) {
	bz := CanonicalFr([]byte{0x07})
	require.Len(t, bz, fr.Bytes)
	require.Equal(t, bz, CanonicalFr(bz))
}
