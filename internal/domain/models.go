// Package domain defines the core data types of the suggestion relay:
// sender identities, ledger records of accepted submissions, and the
// persisted archive row. The archive row is mapped with GORM; everything
// else is plain in-memory state.
package domain

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Identity is a message sender as seen by the transport. NumericID is the
// stable primary key; Handle is mutable and may be absent, in which case a
// synthesized "user<id>" handle is used for directory and archive purposes.
type Identity struct {
	NumericID   int64
	Handle      string // without any leading "@"
	DisplayName string
}

// HandleOrSynthetic returns the handle, falling back to "user<id>" when the
// sender exposes none. The synthesized form matches what the directory and
// archive record.
func (id Identity) HandleOrSynthetic() string {
	if id.Handle != "" {
		return id.Handle
	}
	return fmt.Sprintf("user%d", id.NumericID)
}

// DisplayLabel is the name shown to the operator when a submission is
// relayed: "@handle" when a handle exists, otherwise the display name.
func (id Identity) DisplayLabel() string {
	if id.Handle != "" {
		return "@" + id.Handle
	}
	return id.DisplayName
}

// SubmissionRecord is one accepted submission in the ledger. Records are
// immutable once appended.
type SubmissionRecord struct {
	Timestamp time.Time
	UserID    int64
	Handle    string
	Text      string
}

// Suggestion is the durable archive row written for submissions dispatched
// in archive mode.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: numeric sender identity; indexed for per-user queries.
//   - Username: handle at submission time (synthesized form when absent).
//   - Text: full submission text.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit).
type Suggestion struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    int64          `json:"user_id"    gorm:"not null;index:idx_user_suggestions"`
	Username  string         `json:"username"   gorm:"type:varchar(64);not null"`
	Text      string         `json:"text"       gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Suggestion.
func (Suggestion) TableName() string { return "suggestions" }
