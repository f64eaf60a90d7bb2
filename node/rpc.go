package node

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/kysee/wormhole/merkle"
)

// Read surface exposed to the host and to off-chain provers building future
// withdrawal proofs.

func (l *Ledger) Config() Config { return l.cfg }

// IsSpent reports whether the nullifier has already funded a withdrawal.
func (l *Ledger) IsSpent(nullifier common.Hash) bool {
	return l.registry.IsSpent(nullifier)
}

// Root returns the current main-tree root.
func (l *Ledger) Root() common.Hash {
	return l.tree.Root()
}

// KnownRoot reports whether the given root was ever produced by this tree.
func (l *Ledger) KnownRoot(root common.Hash) bool {
	return l.history.KnownRoot(root)
}

// LeafCount returns the number of commitments indexed so far.
func (l *Ledger) LeafCount() uint64 {
	return l.tree.Size()
}

// Leaf returns the commitment at the given main-tree index.
func (l *Ledger) Leaf(idx uint64) (common.Hash, error) {
	return l.tree.Leaf(idx)
}

// FindLeaf returns the main-tree index of the given commitment.
func (l *Ledger) FindLeaf(leaf common.Hash) (uint64, bool) {
	return l.tree.Find(leaf)
}

// Prove returns a membership branch for the leaf at idx against the
// current root.
func (l *Ledger) Prove(idx uint64) (merkle.Branch, error) {
	return l.tree.Prove(idx)
}

// CuratePool builds a privacy pool from the chosen main-tree leaf indices.
// Prover-side and off the validation path; the result is disclosed in full
// through the claim's pool root.
func (l *Ledger) CuratePool(indices []uint64) (*merkle.Pool, error) {
	return merkle.CuratePool(l.tree, indices)
}
