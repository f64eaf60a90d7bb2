package wcrypto

import (
	"testing"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/stretchr/testify/require"

	"github.com/kysee/wormhole/types"
)

func TestMemoKeyPerSecret(t *testing.T) {
	s1 := types.NewSecret()
	s2 := types.NewSecret()

	require.Len(t, MemoKey(s1), chacha20poly1305.KeySize)
	require.Equal(t, MemoKey(s1), MemoKey(s1))
	require.NotEqual(t, MemoKey(s1), MemoKey(s2))
}

func TestSealOpenChangeMemo(t *testing.T) {
	secret := types.NewSecret()
	record := []byte("salt and value")

	sealed, err := SealChangeMemo(secret, record)
	require.NoError(t, err)
	require.NotContains(t, string(sealed), string(record))

	opened, err := OpenChangeMemo(secret, sealed)
	require.NoError(t, err)
	require.Equal(t, record, opened)

	// keys are per-secret
	_, err = OpenChangeMemo(types.NewSecret(), sealed)
	require.Error(t, err)

	// tampered ciphertext fails authentication
	tampered := append([]byte{}, sealed...)
	tampered[len(tampered)-1] ^= 0x01
	_, err = OpenChangeMemo(secret, tampered)
	require.ErrorContains(t, err, "failed to decrypt memo")

	_, err = OpenChangeMemo(secret, sealed[:4])
	require.ErrorContains(t, err, "too short")

	// sealing twice never reuses a nonce
	sealed2, err := SealChangeMemo(secret, record)
	require.NoError(t, err)
	require.NotEqual(t, sealed, sealed2)
}
