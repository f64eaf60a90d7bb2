package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kysee/wormhole/utils"
)

// Domain tags for the MiMC commitment primitive. Each preimage starts with
// its tag as one field element, so a deposit commitment can never collide
// with a change commitment, a nullifier, or a gate hash of the same fields.
const (
	TagDeposit   uint64 = 1
	TagChange    uint64 = 2
	TagNullifier uint64 = 3
	TagPow       uint64 = 4
)

// Tag32 returns the 32-byte big-endian form of a domain tag, one hash block.
func Tag32(tag uint64) []byte {
	bz := uint256.NewInt(tag).Bytes32()
	return bz[:]
}

// addr32 left-pads an address to one 32-byte hash block.
func addr32(addr common.Address) []byte {
	return common.BytesToHash(addr.Bytes()).Bytes()
}

// DepositCommitment is the leaf for a standard deposit:
// MiMC(tag, sender, burnAddress, value). Content-addressed; duplicate burns
// to the same secret produce the same leaf, and the conservation rule grants
// one unit of spendability regardless.
func DepositCommitment(sender, burnAddr common.Address, value *uint256.Int) common.Hash {
	v := value.Bytes32()
	return common.BytesToHash(utils.DefaultHashSum(
		Tag32(TagDeposit),
		addr32(sender),
		addr32(burnAddr),
		v[:],
	))
}

// SaltedValueHash binds a change amount to a fresh salt: MiMC(salt, value).
// Only this digest is disclosed on-chain; the amount stays private.
func SaltedValueHash(salt []byte, value *uint256.Int) common.Hash {
	v := value.Bytes32()
	return common.BytesToHash(utils.DefaultHashSum(utils.CanonicalFr(salt), v[:]))
}

// ChangeCommitment is the leaf for the unwithdrawn remainder of a deposit:
// MiMC(tag, SaltedValueHash(salt, value)).
func ChangeCommitment(saltedHash common.Hash) common.Hash {
	return common.BytesToHash(utils.DefaultHashSum(
		Tag32(TagChange),
		saltedHash.Bytes(),
	))
}
