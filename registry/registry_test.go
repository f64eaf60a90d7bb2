package registry

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/kysee/wormhole/types"
)

func TestMarkSpentOneShot(t *testing.T) {
	r := New()
	n := common.BytesToHash([]byte{0x01})

	require.False(t, r.IsSpent(n))
	require.NoError(t, r.MarkSpent(n))
	require.True(t, r.IsSpent(n))
	require.Equal(t, 1, r.Count())

	// not idempotent: the second mark must fail, not no-op
	require.ErrorIs(t, r.MarkSpent(n), types.ErrAlreadySpent)
	require.True(t, r.IsSpent(n))
	require.Equal(t, 1, r.Count())
}

func TestIndependentNullifiers(t *testing.T) {
	r := New()
	n1 := common.BytesToHash([]byte{0x01})
	n2 := common.BytesToHash([]byte{0x02})

	require.NoError(t, r.MarkSpent(n1))
	require.False(t, r.IsSpent(n2))
	require.NoError(t, r.MarkSpent(n2))
	require.Equal(t, 2, r.Count())
}
