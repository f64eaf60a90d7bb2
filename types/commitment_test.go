package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestDepositCommitmentDeterministic(t *testing.T) {
	sender := common.BytesToAddress(RandBytes(20))
	secret := NewSecret()
	value := uint256.NewInt(20)

	cm0 := DepositCommitment(sender, secret.BurnAddress(), value)
	cm1 := DepositCommitment(sender, secret.BurnAddress(), value)
	require.Equal(t, cm0, cm1)

	// any field change moves the commitment
	other := common.BytesToAddress(RandBytes(20))
	require.NotEqual(t, cm0, DepositCommitment(other, secret.BurnAddress(), value))
	require.NotEqual(t, cm0, DepositCommitment(sender, NewSecret().BurnAddress(), value))
	require.NotEqual(t, cm0, DepositCommitment(sender, secret.BurnAddress(), uint256.NewInt(21)))
}

func TestChangeCommitmentHidesValue(t *testing.T) {
	value := uint256.NewInt(8)

	// a fresh salt makes equal amounts unlinkable
	h0 := SaltedValueHash(RandSalt(), value)
	h1 := SaltedValueHash(RandSalt(), value)
	require.NotEqual(t, h0, h1)
	require.NotEqual(t, ChangeCommitment(h0), ChangeCommitment(h1))

	salt := RandSalt()
	require.Equal(t, SaltedValueHash(salt, value), SaltedValueHash(salt, value))
	require.NotEqual(t, SaltedValueHash(salt, value), SaltedValueHash(salt, uint256.NewInt(9)))
}

func TestCommitmentDomainSeparation(t *testing.T) {
	// a deposit commitment and a change commitment over the same trailing
	// field element must not collide
	secret := NewSecret()
	value := uint256.NewInt(1)

	dep := DepositCommitment(common.Address{}, secret.BurnAddress(), value)
	require.NotEqual(t, dep, ChangeCommitment(SaltedValueHash(secret.Bytes(), value)))
	require.NotEqual(t, Tag32(TagDeposit), Tag32(TagChange))
}
