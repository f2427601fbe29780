package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/suggestbot/go-suggest-backend/internal/archive"
	"github.com/suggestbot/go-suggest-backend/internal/domain"
	"github.com/suggestbot/go-suggest-backend/internal/stats"
)

const testAdminID int64 = 1000

type sentText struct {
	chatID int64
	text   string
}

type sentImage struct {
	chatID  int64
	path    string
	existed bool
}

// fakeSender records outbound traffic and can simulate delivery failures.
type fakeSender struct {
	mu        sync.Mutex
	texts     []sentText
	images    []sentImage
	failText  bool
	failImage bool
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failText {
		return fmt.Errorf("send failed")
	}
	f.texts = append(f.texts, sentText{chatID, text})
	return nil
}

func (f *fakeSender) SendImage(_ context.Context, chatID int64, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, statErr := os.Stat(path)
	f.images = append(f.images, sentImage{chatID, path, statErr == nil})
	if f.failImage {
		return fmt.Errorf("image send failed")
	}
	return nil
}

func (f *fakeSender) textsTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.texts {
		if s.chatID == chatID {
			out = append(out, s.text)
		}
	}
	return out
}

// fakeRenderer writes a real temp file so artifact-cleanup behavior is
// observable.
type fakeRenderer struct {
	fail bool
}

func (f *fakeRenderer) RenderHistogram(buckets []stats.DayCount) (string, error) {
	if f.fail {
		return "", fmt.Errorf("render failed")
	}
	tmp, err := os.CreateTemp("", "fake_plot_*.png")
	if err != nil {
		return "", err
	}
	tmp.Close()
	return tmp.Name(), nil
}

func newTestEngine(t *testing.T, mode Mode) (*Engine, *fakeSender) {
	t.Helper()
	sender := &fakeSender{}
	log := archive.NewLog(filepath.Join(t.TempDir(), "suggestions.log"))
	e := New(testAdminID, 30*time.Second, mode, sender, log, nil, &fakeRenderer{}, zerolog.Nop())
	return e, sender
}

func user(id int64, handle string) domain.Identity {
	return domain.Identity{NumericID: id, Handle: handle, DisplayName: "User " + handle}
}

func admin() domain.Identity {
	return domain.Identity{NumericID: testAdminID, Handle: "op", DisplayName: "Operator"}
}

func TestSubmission_RelayedAndAcknowledged(t *testing.T) {
	e, sender := newTestEngine(t, ModeRelay)
	ctx := context.Background()

	e.Handle(ctx, Message{Sender: user(42, "bob"), Text: "add dark mode"})

	if e.Ledger.Len() != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", e.Ledger.Len())
	}

	toAdmin := sender.textsTo(testAdminID)
	if len(toAdmin) != 1 || toAdmin[0] != "From @bob (id=42):\nadd dark mode" {
		t.Fatalf("unexpected relay message: %v", toAdmin)
	}

	toUser := sender.textsTo(42)
	if len(toUser) != 1 || !strings.Contains(toUser[0], "has been received") {
		t.Fatalf("expected acknowledgment, got %v", toUser)
	}
}

func TestSubmission_NoHandleUsesDisplayName(t *testing.T) {
	e, sender := newTestEngine(t, ModeRelay)
	e.Handle(context.Background(), Message{
		Sender: domain.Identity{NumericID: 7, DisplayName: "Anna B"},
		Text:   "hi",
	})

	toAdmin := sender.textsTo(testAdminID)
	if len(toAdmin) != 1 || !strings.HasPrefix(toAdmin[0], "From Anna B (id=7):") {
		t.Fatalf("expected display-name label, got %v", toAdmin)
	}
	if id, ok := e.Directory.Resolve("user7"); !ok || id != 7 {
		t.Fatalf("synthesized handle not recorded")
	}
}

func TestSubmission_CooldownScenario(t *testing.T) {
	e, _ := newTestEngine(t, ModeRelay)
	ctx := context.Background()
	t0 := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	now := t0
	e.Now = func() time.Time { return now }

	e.Handle(ctx, Message{Sender: user(1, "a"), Text: "first"})
	if e.Ledger.Len() != 1 {
		t.Fatalf("t=0: expected ledger len 1, got %d", e.Ledger.Len())
	}

	now = t0.Add(10 * time.Second)
	e.Handle(ctx, Message{Sender: user(1, "a"), Text: "too soon"})
	if e.Ledger.Len() != 1 {
		t.Fatalf("t=10s: expected ledger len 1, got %d", e.Ledger.Len())
	}

	now = t0.Add(31 * time.Second)
	e.Handle(ctx, Message{Sender: user(1, "a"), Text: "later"})
	if e.Ledger.Len() != 2 {
		t.Fatalf("t=31s: expected ledger len 2, got %d", e.Ledger.Len())
	}
}

func TestSubmission_CooldownDropIsSilent(t *testing.T) {
	e, sender := newTestEngine(t, ModeRelay)
	ctx := context.Background()

	e.Handle(ctx, Message{Sender: user(1, "a"), Text: "first"})
	before := len(sender.textsTo(1))

	e.Handle(ctx, Message{Sender: user(1, "a"), Text: "spam"})
	if got := len(sender.textsTo(1)); got != before {
		t.Fatalf("cooled-down sender must get no reply, got %d messages", got)
	}
}

func TestSubmission_BlockSupremacy(t *testing.T) {
	e, sender := newTestEngine(t, ModeRelay)
	ctx := context.Background()

	e.Blocklist.Block(42)
	e.Handle(ctx, Message{Sender: user(42, "bob"), Text: "let me in"})

	if e.Ledger.Len() != 0 {
		t.Fatalf("blocked submission must not reach the ledger")
	}
	if len(sender.texts) != 0 {
		t.Fatalf("blocked sender must get no feedback, got %v", sender.texts)
	}

	// Block beats cooldown state entirely: even a fresh identity is dropped.
	if e.Cooldown.TryAdmit(42, e.Now()) != true {
		t.Fatalf("cooldown state must be untouched by the blocked drop")
	}
}

func TestSubmission_ArchiveMode(t *testing.T) {
	e, sender := newTestEngine(t, ModeArchive)
	ctx := context.Background()

	e.Handle(ctx, Message{Sender: user(42, "bob"), Text: "write me down"})

	if got := sender.textsTo(testAdminID); len(got) != 0 {
		t.Fatalf("archive mode must not relay to admin, got %v", got)
	}
	if got := sender.textsTo(42); len(got) != 1 {
		t.Fatalf("archive mode must still acknowledge, got %v", got)
	}

	data, err := os.ReadFile(e.ArchiveLog.Path())
	if err != nil {
		t.Fatalf("archive log missing: %v", err)
	}
	line := strings.TrimRight(string(data), "\n")
	if !strings.Contains(line, "user_id=42, username=bob: write me down") {
		t.Fatalf("unexpected archive line: %q", line)
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Fatalf("expected exactly one archive line")
	}
}

func TestSubmission_AckSentEvenWhenDispatchFails(t *testing.T) {
	e, sender := newTestEngine(t, ModeArchive)
	// Point the archive log at an unwritable path.
	e.ArchiveLog = archive.NewLog(filepath.Join(t.TempDir(), "missing", "deep", "x.log"))

	e.Handle(context.Background(), Message{Sender: user(9, "carol"), Text: "hello"})

	if e.Ledger.Len() != 1 {
		t.Fatalf("submission must be accepted before dispatch")
	}
	if got := sender.textsTo(9); len(got) != 1 {
		t.Fatalf("acknowledgment must follow acceptance regardless of dispatch outcome, got %v", got)
	}
}

func TestHandle_UnknownCommandIsSubmission(t *testing.T) {
	e, _ := newTestEngine(t, ModeRelay)
	e.Handle(context.Background(), Message{Sender: user(5, "dave"), Text: "/dance"})
	if e.Ledger.Len() != 1 {
		t.Fatalf("unrecognized command text must be treated as a submission")
	}
}
