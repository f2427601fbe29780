package guard

import (
	"sort"
	"sync"
)

// Blocklist is the set of numeric identities barred from submitting. Blocking
// is keyed by numeric ID only; handle changes do not lift a block.
type Blocklist struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

// NewBlocklist returns an empty Blocklist.
func NewBlocklist() *Blocklist {
	return &Blocklist{ids: make(map[int64]struct{})}
}

// Block adds userID to the set. Blocking an already-blocked ID is a no-op.
func (b *Blocklist) Block(userID int64) {
	b.mu.Lock()
	b.ids[userID] = struct{}{}
	b.mu.Unlock()
}

// Unblock removes userID and reports whether it was blocked. The false case
// is surfaced to the operator as "not blocked" rather than silently ignored.
func (b *Blocklist) Unblock(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.ids[userID]; !ok {
		return false
	}
	delete(b.ids, userID)
	return true
}

// IsBlocked reports whether userID is currently blocked.
func (b *Blocklist) IsBlocked(userID int64) bool {
	b.mu.RLock()
	_, ok := b.ids[userID]
	b.mu.RUnlock()
	return ok
}

// List returns the blocked IDs in ascending order for stable operator output.
func (b *Blocklist) List() []int64 {
	b.mu.RLock()
	out := make([]int64, 0, len(b.ids))
	for id := range b.ids {
		out = append(out, id)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
