package node

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// RootOracle answers whether a main-tree root was actually produced at some
// past point. The in-memory RootHistory is the default; a host may substitute
// a beacon-root oracle. Lookups are synchronous; an unknown root rejects the
// claim, it is never retried.
type RootOracle interface {
	KnownRoot(root common.Hash) bool
}

// RootHistory records every root the main tree has ever had, genesis
// included. Entries are never deleted.
type RootHistory struct {
	mu    sync.RWMutex
	known map[common.Hash]struct{}
	order []common.Hash
}

func NewRootHistory() *RootHistory {
	return &RootHistory{
		known: make(map[common.Hash]struct{}),
	}
}

func (h *RootHistory) Record(root common.Hash) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.known[root]; ok {
		return
	}
	h.known[root] = struct{}{}
	h.order = append(h.order, root)
}

func (h *RootHistory) KnownRoot(root common.Hash) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.known[root]
	return ok
}

// Len returns the number of distinct roots recorded.
func (h *RootHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}

// At returns the i-th distinct root in recording order.
func (h *RootHistory) At(i int) common.Hash {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.order[i]
}
