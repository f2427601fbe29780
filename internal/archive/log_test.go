package archive

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

var lineRE = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] user_id=\d+, username=[^:]+: .*$`)

func TestFormatLine(t *testing.T) {
	ts := time.Date(2025, 6, 15, 9, 30, 5, 0, time.Local)
	line := FormatLine(ts, 42, "bob", "more coffee please")
	want := "[2025-06-15 09:30:05] user_id=42, username=bob: more coffee please\n"
	if line != want {
		t.Fatalf("line mismatch:\n got %q\nwant %q", line, want)
	}
}

func TestLog_AppendCreatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.log")
	l := NewLog(path)

	if err := l.Append(time.Now(), 1, "alice", "first"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(time.Now(), 2, "bob", "second"); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, ln := range lines {
		if !lineRE.MatchString(ln) {
			t.Fatalf("line does not match archive format: %q", ln)
		}
	}
	if !strings.Contains(lines[0], "user_id=1") || !strings.Contains(lines[1], "user_id=2") {
		t.Fatalf("append order not preserved: %v", lines)
	}
}

func TestLog_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.log")
	l := NewLog(path)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			if err := l.Append(time.Now(), n, "u", "msg"); err != nil {
				t.Errorf("append: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 25 {
		t.Fatalf("expected 25 complete lines, got %d", got)
	}
}
