// Package directory tracks which numeric identity most recently used a given
// handle. The operator types handles, the transport reports numeric IDs; this
// mapping is what lets /block and /unblock bridge the two.
//
// The mapping is last-write-wins: if a handle is released by one user and
// picked up by another, resolution follows the most recent sighting. The
// reverse direction (numeric ID back to handle) is derived by inversion and
// is therefore lossy when a user changed handles; the last-seen handle wins.
package directory

import "sync"

// Directory is an in-memory handle -> numeric-ID map, safe for concurrent use.
type Directory struct {
	mu      sync.RWMutex
	byHandle map[string]int64
}

// New returns an empty Directory.
func New() *Directory {
	return &Directory{byHandle: make(map[string]int64)}
}

// RecordSighting upserts the handle -> userID mapping. Empty handles are
// ignored; the caller is expected to pass the synthesized "user<id>" form
// when the sender exposes no handle.
func (d *Directory) RecordSighting(handle string, userID int64) {
	if handle == "" {
		return
	}
	d.mu.Lock()
	d.byHandle[handle] = userID
	d.mu.Unlock()
}

// Resolve returns the numeric ID last seen for handle. The second return is
// false when the handle was never sighted, which is an expected outcome the
// command layer renders as "not found in memory" rather than an error.
func (d *Directory) Resolve(handle string) (int64, bool) {
	d.mu.RLock()
	id, ok := d.byHandle[handle]
	d.mu.RUnlock()
	return id, ok
}

// HandleFor inverts the directory to find a handle for userID. When the user
// was sighted under several handles the result is whichever the map iteration
// yields; callers treat the handle as informational only.
func (d *Directory) HandleFor(userID int64) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for h, id := range d.byHandle {
		if id == userID {
			return h, true
		}
	}
	return "", false
}
