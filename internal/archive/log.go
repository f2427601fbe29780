// Package archive appends accepted submissions to a durable plain-text log.
// One line per submission:
//
//	[YYYY-MM-DD HH:MM:SS] user_id=<id>, username=<handle>: <text>
//
// The file is opened per append with O_APPEND so an external rotation or
// truncation of the log is picked up without restarting the process.
package archive

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const lineTimeLayout = "2006-01-02 15:04:05"

// Log appends submission lines to a single configured file. Safe for
// concurrent use; appends are serialized by a mutex.
type Log struct {
	path string
	mu   sync.Mutex
}

// NewLog returns a Log writing to path. The file is created on first append.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one formatted submission line. The timestamp is rendered in
// local time to match operator expectations when tailing the file.
func (l *Log) Append(ts time.Time, userID int64, username, text string) error {
	line := FormatLine(ts, userID, username, text)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Path returns the configured log file path.
func (l *Log) Path() string { return l.path }

// FormatLine renders the archive line format, newline-terminated.
func FormatLine(ts time.Time, userID int64, username, text string) string {
	return fmt.Sprintf("[%s] user_id=%d, username=%s: %s\n",
		ts.Local().Format(lineTimeLayout), userID, username, text)
}
