package merkle

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/kysee/wormhole/utils"
)

func testLeaf(i byte) common.Hash {
	return common.BytesToHash(utils.DefaultHashSum([]byte{0xee, i}))
}

func TestEmptyTreeRoot(t *testing.T) {
	tr := New(4)
	require.Equal(t, uint64(0), tr.Size())
	require.Equal(t, uint64(16), tr.Capacity())

	// the empty root is the zero-subtree digest of the full depth
	zero := common.Hash{}
	for l := 0; l < 4; l++ {
		zero = common.BytesToHash(utils.DefaultHashSum(zero.Bytes(), zero.Bytes()))
	}
	require.Equal(t, zero, tr.Root())
}

func TestAppendProveVerifyRoundTrip(t *testing.T) {
	const depth = 4
	tr := New(depth)

	// every already-appended leaf must keep verifying after each new append
	for i := byte(0); i < 9; i++ {
		idx, err := tr.Append(testLeaf(i))
		require.NoError(t, err)
		require.Equal(t, uint64(i), idx)

		for j := uint64(0); j <= uint64(i); j++ {
			leaf, err := tr.Leaf(j)
			require.NoError(t, err)
			branch, err := tr.Prove(j)
			require.NoError(t, err)
			require.Len(t, branch, depth)
			require.Equal(t, j, branch.LeafIndex())
			require.True(t, Verify(depth, tr.Root(), j, leaf, branch))
		}
	}
}

func TestVerifyRejects(t *testing.T) {
	const depth = 4
	tr := New(depth)
	for i := byte(0); i < 5; i++ {
		_, err := tr.Append(testLeaf(i))
		require.NoError(t, err)
	}

	leaf, _ := tr.Leaf(2)
	branch, err := tr.Prove(2)
	require.NoError(t, err)
	root := tr.Root()

	// wrong-length branch
	require.False(t, Verify(depth, root, 2, leaf, branch[:depth-1]))
	long := append(Branch{}, branch...)
	long = append(long, branch[0])
	require.False(t, Verify(depth, root, 2, leaf, long))

	// index contradicting the branch sides
	require.False(t, Verify(depth, root, 3, leaf, branch))

	// tampered sibling
	bad := make(Branch, depth)
	copy(bad, branch)
	bad[1].Sibling = testLeaf(0xff)
	require.False(t, Verify(depth, root, 2, leaf, bad))

	// wrong root and wrong leaf
	require.False(t, Verify(depth, testLeaf(0xaa), 2, leaf, branch))
	require.False(t, Verify(depth, root, 2, testLeaf(0xab), branch))
}

func TestBranchStaysValidAgainstOldRoot(t *testing.T) {
	const depth = 4
	tr := New(depth)
	_, err := tr.Append(testLeaf(1))
	require.NoError(t, err)

	oldRoot := tr.Root()
	oldBranch, err := tr.Prove(0)
	require.NoError(t, err)

	_, err = tr.Append(testLeaf(2))
	require.NoError(t, err)

	// the old branch still proves membership under the root it was built
	// for, and the new root needs a fresh branch
	require.True(t, Verify(depth, oldRoot, 0, testLeaf(1), oldBranch))
	require.False(t, Verify(depth, tr.Root(), 0, testLeaf(1), oldBranch))

	newBranch, err := tr.Prove(0)
	require.NoError(t, err)
	require.True(t, Verify(depth, tr.Root(), 0, testLeaf(1), newBranch))
}

func TestTreeFull(t *testing.T) {
	tr := New(2)
	for i := byte(0); i < 4; i++ {
		_, err := tr.Append(testLeaf(i))
		require.NoError(t, err)
	}
	_, err := tr.Append(testLeaf(9))
	require.ErrorIs(t, err, ErrTreeFull)
	require.Equal(t, uint64(4), tr.Size())
}

func TestCuratePool(t *testing.T) {
	const depth = 4
	main := New(depth)
	for i := byte(0); i < 6; i++ {
		_, err := main.Append(testLeaf(i))
		require.NoError(t, err)
	}

	pool, err := CuratePool(main, []uint64{1, 3, 4})
	require.NoError(t, err)
	require.Equal(t, depth, pool.Depth())
	require.Equal(t, uint64(3), pool.Size())

	// pool membership proves against the pool root, not the main root
	leaf, _ := main.Leaf(3)
	poolIdx, found := pool.Find(leaf)
	require.True(t, found)
	branch, err := pool.Prove(poolIdx)
	require.NoError(t, err)
	require.True(t, Verify(depth, pool.Root(), poolIdx, leaf, branch))
	require.NotEqual(t, main.Root(), pool.Root())

	_, err = CuratePool(main, nil)
	require.ErrorIs(t, err, ErrEmptyPool)

	_, err = CuratePool(main, []uint64{1, 1})
	require.ErrorContains(t, err, "duplicate")

	_, err = CuratePool(main, []uint64{99})
	require.ErrorIs(t, err, ErrLeafNotFound)
}
