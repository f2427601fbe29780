// Package ledger holds the append-only in-memory record of every accepted
// submission. The ledger is the source of truth for statistics: entries are
// never mutated or evicted for the lifetime of the process.
package ledger

import (
	"sync"
	"time"

	"github.com/suggestbot/go-suggest-backend/internal/domain"
)

// Ledger is an ordered, append-only sequence of accepted submissions, safe
// for concurrent use. Insertion order equals acceptance order.
type Ledger struct {
	mu      sync.RWMutex
	records []domain.SubmissionRecord
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append records an accepted submission and returns the stored record.
func (l *Ledger) Append(ts time.Time, userID int64, handle, text string) domain.SubmissionRecord {
	rec := domain.SubmissionRecord{
		Timestamp: ts,
		UserID:    userID,
		Handle:    handle,
		Text:      text,
	}
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
	return rec
}

// Len returns the number of accepted submissions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	n := len(l.records)
	l.mu.RUnlock()
	return n
}

// Snapshot returns a copy of all records in acceptance order. The copy keeps
// aggregation free of the ledger lock.
func (l *Ledger) Snapshot() []domain.SubmissionRecord {
	l.mu.RLock()
	out := make([]domain.SubmissionRecord, len(l.records))
	copy(out, l.records)
	l.mu.RUnlock()
	return out
}
