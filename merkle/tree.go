// Package merkle implements the fixed-depth, append-only commitment tree.
//
// Leaves are MiMC digests and are combined pairwise with MiMC up to a root;
// missing subtrees are padded with precomputed zero-subtree digests. Append
// is the only mutator and never renumbers existing leaves. The tree follows
// a single-writer, read-mostly discipline: one appender serialized by the
// ledger, any number of concurrent Prove/Root readers.
package merkle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kysee/wormhole/utils"
)

var (
	ErrTreeFull     = errors.New("commitment tree is full")
	ErrLeafNotFound = errors.New("leaf not found")
)

// BranchNode is one step of a membership branch: the sibling digest and the
// side it sits on. Right means the sibling lies to the right of the running
// hash.
type BranchNode struct {
	Sibling common.Hash
	Right   bool
}

// Branch is an ordered sequence of (sibling, side) pairs from leaf level to
// the root, of fixed length equal to the tree depth.
type Branch []BranchNode

// LeafIndex recovers the leaf position implied by the branch sides.
func (b Branch) LeafIndex() uint64 {
	var idx uint64
	for l, n := range b {
		if !n.Right {
			idx |= uint64(1) << uint(l)
		}
	}
	return idx
}

// Tree is an append-only merkle tree of fixed depth. Depth D gives 2^D leaf
// slots; the root at any point is a pure function of the leaves appended so
// far and their positions.
type Tree struct {
	mu     sync.RWMutex
	depth  int
	zeros  []common.Hash
	levels [][]common.Hash
}

// New creates an empty tree of the given depth.
func New(depth int) *Tree {
	if depth < 1 || depth > 48 {
		panic(fmt.Sprintf("unsupported tree depth %d", depth))
	}
	zeros := make([]common.Hash, depth+1)
	for l := 0; l < depth; l++ {
		zeros[l+1] = hashNode(zeros[l], zeros[l])
	}
	return &Tree{
		depth:  depth,
		zeros:  zeros,
		levels: make([][]common.Hash, depth+1),
	}
}

func hashNode(left, right common.Hash) common.Hash {
	return common.BytesToHash(utils.DefaultHashSum(left.Bytes(), right.Bytes()))
}

func (t *Tree) Depth() int { return t.depth }

func (t *Tree) Capacity() uint64 { return uint64(1) << uint(t.depth) }

// Size returns the number of leaves appended so far.
func (t *Tree) Size() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return uint64(len(t.levels[0]))
}

// Root returns the current root digest. The empty tree has the zero-subtree
// root of the full depth.
func (t *Tree) Root() common.Hash {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root()
}

func (t *Tree) root() common.Hash {
	if len(t.levels[t.depth]) == 0 {
		return t.zeros[t.depth]
	}
	return t.levels[t.depth][0]
}

// Append adds a leaf at the next free slot and returns its index.
// Indices are strictly increasing; existing leaves are never moved.
func (t *Tree) Append(leaf common.Hash) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := uint64(len(t.levels[0]))
	if idx >= t.Capacity() {
		return 0, ErrTreeFull
	}
	t.levels[0] = append(t.levels[0], leaf)

	// refresh the path from the new leaf up to the root
	pos := idx
	for l := 0; l < t.depth; l++ {
		var left, right common.Hash
		if pos%2 == 0 {
			left = t.levels[l][pos]
			right = t.zeros[l]
			if pos+1 < uint64(len(t.levels[l])) {
				right = t.levels[l][pos+1]
			}
		} else {
			left = t.levels[l][pos-1]
			right = t.levels[l][pos]
		}
		parent := hashNode(left, right)

		pos >>= 1
		if pos < uint64(len(t.levels[l+1])) {
			t.levels[l+1][pos] = parent
		} else {
			t.levels[l+1] = append(t.levels[l+1], parent)
		}
	}
	return idx, nil
}

// Leaf returns the leaf at the given index.
func (t *Tree) Leaf(idx uint64) (common.Hash, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if idx >= uint64(len(t.levels[0])) {
		return common.Hash{}, ErrLeafNotFound
	}
	return t.levels[0][idx], nil
}

// Find returns the index of the first leaf equal to the given digest.
func (t *Tree) Find(leaf common.Hash) (uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, l := range t.levels[0] {
		if l == leaf {
			return uint64(i), true
		}
	}
	return 0, false
}

// Prove returns the membership branch for the leaf at the given index
// against the current root.
func (t *Tree) Prove(idx uint64) (Branch, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if idx >= uint64(len(t.levels[0])) {
		return nil, ErrLeafNotFound
	}

	branch := make(Branch, 0, t.depth)
	pos := idx
	for l := 0; l < t.depth; l++ {
		sibPos := pos ^ 1
		sib := t.zeros[l]
		if sibPos < uint64(len(t.levels[l])) {
			sib = t.levels[l][sibPos]
		}
		branch = append(branch, BranchNode{
			Sibling: sib,
			Right:   pos%2 == 0,
		})
		pos >>= 1
	}
	return branch, nil
}

// Verify recomputes the root from the leaf and branch and compares it to the
// supplied root. Pure and side-effect-free. Branches whose length differs
// from the expected depth, or whose sides contradict the claimed index, are
// rejected.
func Verify(depth int, root common.Hash, idx uint64, leaf common.Hash, branch Branch) bool {
	if len(branch) != depth {
		return false
	}
	if branch.LeafIndex() != idx {
		return false
	}
	cur := leaf
	for _, n := range branch {
		if n.Right {
			cur = hashNode(cur, n.Sibling)
		} else {
			cur = hashNode(n.Sibling, cur)
		}
	}
	return cur == root
}
