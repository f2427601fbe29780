// Package guard implements the per-sender admission checks applied before a
// submission is accepted: a quiet-period cooldown and the operator block list.
//
// Unlike the edge rate limiter in the HTTP layer (token buckets per client
// IP), these checks encode moderation policy keyed by the sender's stable
// numeric identity, and their outcomes are silent by design.
package guard

import (
	"sync"
	"time"
)

// Cooldown admits at most one submission per identity within a fixed quiet
// period. The check and the timestamp update happen under one lock, so two
// near-simultaneous messages from the same identity cannot both be admitted.
type Cooldown struct {
	period time.Duration

	mu           sync.Mutex
	lastAccepted map[int64]time.Time
}

// NewCooldown returns a Cooldown with the given quiet period. A non-positive
// period disables the check (every message is admitted).
func NewCooldown(period time.Duration) *Cooldown {
	return &Cooldown{
		period:       period,
		lastAccepted: make(map[int64]time.Time),
	}
}

// TryAdmit reports whether a submission from userID at time now may be
// accepted, and records now as the last accepted timestamp when it may.
// An identity never seen before is always admitted.
func (c *Cooldown) TryAdmit(userID int64, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.lastAccepted[userID]; ok && c.period > 0 {
		if now.Sub(last) < c.period {
			return false
		}
	}
	c.lastAccepted[userID] = now
	return true
}

// Period returns the configured quiet period.
func (c *Cooldown) Period() time.Duration { return c.period }
