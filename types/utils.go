package types

import (
	crand "crypto/rand"

	"github.com/kysee/wormhole/utils"
)

func RandBytes(n int) []byte {
	rbz := make([]byte, n)
	_, _ = crand.Read(rbz)
	return rbz
}

// RandSalt returns 32 random bytes in canonical fr form, suitable as a
// change-commitment salt.
func RandSalt() []byte {
	return utils.CanonicalFr(RandBytes(32))
}
