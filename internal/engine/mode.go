// Package engine implements the moderation-and-routing core: it owns the
// dispatch mode, admits or drops inbound submissions, records the ledger,
// and executes operator commands.
package engine

import (
	"errors"
	"sync"
)

// Mode selects where accepted submissions are dispatched.
type Mode int

const (
	// ModeRelay forwards submissions live to the operator.
	ModeRelay Mode = iota
	// ModeArchive persists submissions to the archive log instead.
	ModeArchive
)

// ErrUnknownMode is returned when a wire token is neither "forward" nor "file".
var ErrUnknownMode = errors.New("unknown mode")

// String returns the internal mode name.
func (m Mode) String() string {
	if m == ModeArchive {
		return "archive"
	}
	return "relay"
}

// WireToken returns the operator-facing token ("forward" or "file"), kept
// distinct from the internal names for command-surface compatibility.
func (m Mode) WireToken() string {
	if m == ModeArchive {
		return "file"
	}
	return "forward"
}

// ParseMode maps a wire token to a Mode. Tokens are matched exactly after
// the command layer lowercases them.
func ParseMode(token string) (Mode, error) {
	switch token {
	case "forward":
		return ModeRelay, nil
	case "file":
		return ModeArchive, nil
	default:
		return ModeRelay, ErrUnknownMode
	}
}

// ModeController holds the single process-wide dispatch mode. Only the
// operator command surface mutates it.
type ModeController struct {
	mu   sync.RWMutex
	mode Mode
}

// NewModeController returns a controller starting in mode m.
func NewModeController(m Mode) *ModeController {
	return &ModeController{mode: m}
}

// Get returns the current mode.
func (c *ModeController) Get() Mode {
	c.mu.RLock()
	m := c.mode
	c.mu.RUnlock()
	return m
}

// Set switches the mode and returns the previous one.
func (c *ModeController) Set(m Mode) Mode {
	c.mu.Lock()
	prev := c.mode
	c.mode = m
	c.mu.Unlock()
	return prev
}
