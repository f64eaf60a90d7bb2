// Package registry tracks which nullifiers have already funded a withdrawal.
//
// A nullifier transitions unspent -> spent exactly once and never back.
// MarkSpent is one-shot, not idempotent: the second call on the same
// nullifier fails with types.ErrAlreadySpent instead of silently succeeding,
// which is what guarantees at-most-once re-mint per deposit.
package registry

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kysee/wormhole/types"
)

// Registry is the persistent spent-nullifier set. Entries are implicitly
// "unspent" while absent and are never deleted once spent.
type Registry struct {
	mu    sync.RWMutex
	spent map[common.Hash]struct{}
}

func New() *Registry {
	return &Registry{
		spent: make(map[common.Hash]struct{}),
	}
}

// IsSpent reports whether the nullifier has already funded a withdrawal.
func (r *Registry) IsSpent(nullifier common.Hash) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.spent[nullifier]
	return ok
}

// MarkSpent flips the nullifier to spent. Fails with ErrAlreadySpent if it
// is already marked.
func (r *Registry) MarkSpent(nullifier common.Hash) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spent[nullifier]; ok {
		return types.ErrAlreadySpent
	}
	r.spent[nullifier] = struct{}{}
	return nil
}

// Count returns the number of spent nullifiers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spent)
}
