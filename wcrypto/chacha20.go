// Package wcrypto seals the withdrawer's own change-note records.
//
// A withdrawal with change leaves the prover holding (secret, value) of the
// new change commitment. SealChangeMemo lets a wallet carry that record
// inside the withdrawal tx memo field, encrypted under a key derived from
// the spent secret, so no extra wallet state is needed to recover change.
package wcrypto

import (
	crand "crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/sha3"

	"github.com/kysee/wormhole/types"
)

var memoKeyTag = []byte("wormhole.memokey.v1")

// MemoKey derives the 32-byte memo encryption key from a spent secret.
// Keccak, like the burn-address derivation, keeps it outside the MiMC
// family used for anything disclosed on-chain.
func MemoKey(secret types.Secret) []byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(memoKeyTag)
	hasher.Write(secret[:])
	return hasher.Sum(nil)
}

// SealChangeMemo encrypts a change-note record with ChaCha20-Poly1305 under
// the spent secret's memo key. The random nonce is prepended to the
// ciphertext.
func SealChangeMemo(secret types.Secret, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(MemoKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 AEAD: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := crand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenChangeMemo reverses SealChangeMemo. It fails if the secret is wrong or
// the sealed memo was tampered with.
func OpenChangeMemo(secret types.Secret, sealed []byte) ([]byte, error) {
	if len(sealed) < chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("sealed memo too short")
	}
	aead, err := chacha20poly1305.New(MemoKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 AEAD: %w", err)
	}
	nonce, ct := sealed[:chacha20poly1305.NonceSize], sealed[chacha20poly1305.NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt memo: %w", err)
	}
	return plaintext, nil
}
