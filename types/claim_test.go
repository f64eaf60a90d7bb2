package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func testClaim() *WithdrawalClaim {
	return &WithdrawalClaim{
		MainRoot:         common.BytesToHash(RandBytes(32)),
		PoolRoot:         common.BytesToHash(RandBytes(32)),
		Nullifier:        common.BytesToHash(RandBytes(32)),
		WithdrawValue:    uint256.NewInt(12),
		ChangeCommitment: common.BytesToHash(RandBytes(32)),
		Recipient:        common.BytesToAddress(RandBytes(20)),
	}
}

func TestWithdrawalClaimCodec(t *testing.T) {
	c0 := testClaim()

	var c1 WithdrawalClaim
	require.NoError(t, rlp.DecodeBytes(c0.Bytes(), &c1))
	require.Equal(t, c0, &c1)
	require.True(t, c1.HasChange())

	// exact-value claim carries the zero hash and decodes the same way
	c0.ChangeCommitment = common.Hash{}
	var c2 WithdrawalClaim
	require.NoError(t, rlp.DecodeBytes(c0.Bytes(), &c2))
	require.False(t, c2.HasChange())
}

func TestWithdrawalTxCodec(t *testing.T) {
	tx0 := &WithdrawalTx{
		ChainID:   1,
		Nonce:     7,
		GasTipCap: uint256.NewInt(1_000_000),
		GasFeeCap: uint256.NewInt(2_000_000),
		Gas:       21_000,
		Data:      []byte{0x01, 0x02},
		AccessList: []AccessTuple{{
			Address:     common.BytesToAddress(RandBytes(20)),
			StorageKeys: []common.Hash{common.BytesToHash(RandBytes(32))},
		}},
		Claim: testClaim(),
		Proof: RandBytes(64),
		Memo:  RandBytes(48),
	}

	tx1, err := DecodeWithdrawalTx(tx0.Bytes())
	require.NoError(t, err)
	require.Equal(t, tx0, tx1)

	_, err = DecodeWithdrawalTx([]byte{0xde, 0xad})
	require.Error(t, err)
}

func TestDepositEventCodec(t *testing.T) {
	secret := NewSecret()
	ev0 := &BurnEvent{
		Sender:      common.BytesToAddress(RandBytes(20)),
		BurnAddress: secret.BurnAddress(),
		Value:       uint256.NewInt(20),
	}

	bz, err := EncodeDepositEvent(ev0)
	require.NoError(t, err)
	ev1, err := DecodeDepositEvent(bz)
	require.NoError(t, err)
	require.Equal(t, TopicBurn, ev1.Topic())
	require.Equal(t, ev0.Commitment(), ev1.Commitment())
	require.Equal(t, ev0, ev1)

	ch0 := &ChangeEvent{SaltedHash: SaltedValueHash(RandSalt(), uint256.NewInt(8))}
	bz, err = EncodeDepositEvent(ch0)
	require.NoError(t, err)
	ch1, err := DecodeDepositEvent(bz)
	require.NoError(t, err)
	require.Equal(t, TopicChange, ch1.Topic())
	require.Equal(t, ch0.Commitment(), ch1.Commitment())

	// unknown topic is rejected
	bad, err := rlp.EncodeToBytes([]interface{}{uint64(0xee)})
	require.NoError(t, err)
	_, err = DecodeDepositEvent(bad)
	require.ErrorContains(t, err, "unknown deposit event topic")
}
