package types

import (
	crand "crypto/rand"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kysee/wormhole/utils"
	"golang.org/x/crypto/sha3"
)

const ver = 0x01

// SecretSize is the byte length of a deposit secret.
const SecretSize = 32

// burnAddrTag domain-separates the burn-address derivation. The derivation
// deliberately uses Keccak-256, a different hash family from the MiMC used
// for commitments and nullifiers: unspendability of the burn address rests on
// cross-function preimage-resistance, not on domain separation inside one
// function.
var burnAddrTag = []byte("wormhole.burnaddr.v1")

// Secret is the caller-chosen root of trust for a deposit. It never appears
// on-chain; everything spendable is derived from it.
type Secret [SecretSize]byte

// NewSecret returns a fresh random secret in canonical fr form, so the native
// hashers and a circuit witness agree on a single byte representation.
func NewSecret() Secret {
	rbz := make([]byte, SecretSize)
	_, _ = crand.Read(rbz)
	var s Secret
	copy(s[:], utils.CanonicalFr(rbz))
	return s
}

func (s Secret) Bytes() []byte {
	ret := make([]byte, SecretSize)
	copy(ret, s[:])
	return ret
}

// BurnAddress derives the value-burning destination from the secret:
// the low 20 bytes of Keccak256(tag || secret). No private key for this
// address is believed to exist.
func (s Secret) BurnAddress() common.Address {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(burnAddrTag)
	hasher.Write(s[:])
	sum := hasher.Sum(nil)
	return common.BytesToAddress(sum[12:])
}

func EncodeBurnAddress(addr common.Address) string {
	return "wb" + base58.CheckEncode(addr[:], ver)
}

func DecodeBurnAddress(addr string) (common.Address, error) {
	if !strings.HasPrefix(addr, "wb") {
		return common.Address{}, fmt.Errorf("wrong prefix: got(%s)", addr[:2])
	}
	bz, _ver, err := base58.CheckDecode(addr[2:])
	if err != nil {
		return common.Address{}, err
	}
	if _ver != ver {
		return common.Address{}, fmt.Errorf("wrong version: expected(%d), got(%d)", ver, _ver)
	}
	return common.BytesToAddress(bz), nil
}
