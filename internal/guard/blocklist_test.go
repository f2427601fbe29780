package guard

import "testing"

func TestBlocklist_BlockIdempotent(t *testing.T) {
	b := NewBlocklist()
	b.Block(42)
	b.Block(42)
	if !b.IsBlocked(42) {
		t.Fatalf("expected 42 to be blocked")
	}
	if got := len(b.List()); got != 1 {
		t.Fatalf("double block must not duplicate, got %d entries", got)
	}
}

func TestBlocklist_UnblockReportsMembership(t *testing.T) {
	b := NewBlocklist()
	if b.Unblock(42) {
		t.Fatalf("unblocking a non-blocked ID must report false")
	}

	b.Block(42)
	if !b.Unblock(42) {
		t.Fatalf("unblocking a blocked ID must report true")
	}
	if b.IsBlocked(42) {
		t.Fatalf("42 should no longer be blocked")
	}
}

func TestBlocklist_ListSorted(t *testing.T) {
	b := NewBlocklist()
	for _, id := range []int64{30, 10, 20} {
		b.Block(id)
	}
	got := b.List()
	want := []int64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected sorted %v, got %v", want, got)
		}
	}
}
