package merkle

import (
	"errors"
	"fmt"
)

var ErrEmptyPool = errors.New("privacy pool has no leaves")

// Pool is a withdrawer-curated subset of main-tree leaves, arranged as its
// own fixed-depth tree. The pool root is disclosed as a public input of the
// withdrawal claim; its anonymity benefit is the number of distinct leaves
// it contains, not secrecy.
type Pool struct {
	*Tree

	// Indices are the main-tree positions of the curated leaves, in pool
	// leaf order.
	Indices []uint64
}

// CuratePool copies the chosen main-tree leaves into a fresh pool tree of
// the same depth. The only admission rule is subset membership: every index
// must name an already-appended main-tree leaf, each at most once.
func CuratePool(main *Tree, indices []uint64) (*Pool, error) {
	if len(indices) == 0 {
		return nil, ErrEmptyPool
	}

	pool := &Pool{
		Tree:    New(main.Depth()),
		Indices: make([]uint64, 0, len(indices)),
	}
	seen := make(map[uint64]struct{}, len(indices))
	for _, idx := range indices {
		if _, dup := seen[idx]; dup {
			return nil, fmt.Errorf("duplicate main-tree index %d in pool", idx)
		}
		seen[idx] = struct{}{}

		leaf, err := main.Leaf(idx)
		if err != nil {
			return nil, fmt.Errorf("pool index %d: %w", idx, err)
		}
		if _, err := pool.Append(leaf); err != nil {
			return nil, err
		}
		pool.Indices = append(pool.Indices, idx)
	}
	return pool, nil
}
