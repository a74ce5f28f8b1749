package journal

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenPath(filepath.Join(t.TempDir(), "data", "journal.db"))
	if err != nil {
		t.Fatalf("open test journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestPragmasApplied(t *testing.T) {
	j := openTestJournal(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := j.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSingleConnection(t *testing.T) {
	j := openTestJournal(t)
	if got := j.DB().Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("MaxOpenConnections = %d, want 1", got)
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 8*20)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if _, err := j.Append(ctx, Entry{Kind: KindNoteSaved, SessionID: "s1"}); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent append: %v", err)
	}

	entries, err := j.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 160 {
		t.Errorf("got %d entries, want 160", len(entries))
	}
}

func TestAppendAssignsIdentity(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	e1, err := j.Append(ctx, Entry{Kind: KindSessionStarted, SessionID: "s1"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	e2, err := j.Append(ctx, Entry{Kind: KindStepSubmitted, SessionID: "s1", Step: "doc1"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if e1.ID == "" || e1.ID == e2.ID {
		t.Errorf("ids = %q, %q, want distinct non-empty", e1.ID, e2.ID)
	}
	if e2.Sequence != e1.Sequence+1 {
		t.Errorf("sequence = %d after %d, want consecutive", e2.Sequence, e1.Sequence)
	}
	if e1.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestAppendRequiresKind(t *testing.T) {
	j := openTestJournal(t)
	if _, err := j.Append(context.Background(), Entry{SessionID: "s1"}); err == nil {
		t.Error("expected error for missing kind")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, step := range []string{"background_read", "request", "doc1"} {
		if _, err := j.Append(ctx, Entry{Kind: KindStepSubmitted, SessionID: "s1", Step: step, CreatedAt: at}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Step != "doc1" || got[1].Step != "request" {
		t.Errorf("steps = %q, %q, want doc1, request", got[0].Step, got[1].Step)
	}
	if !got[0].CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, at)
	}

	all, err := j.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestFailedSaves(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	entries := []Entry{
		{Kind: KindNoteSaveFailed, SessionID: "s1", Step: "doc1", Detail: "timeout"},
		{Kind: KindNoteSaved, SessionID: "s1", Step: "doc2"},
		{Kind: KindNoteSaveFailed, SessionID: "s2", Step: "doc1"},
		{Kind: KindNoteSaveFailed, SessionID: "s1", Step: "data", Detail: "502"},
	}
	for _, e := range entries {
		if _, err := j.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := j.FailedSaves(ctx, "s1")
	if err != nil {
		t.Fatalf("failed saves: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Step != "doc1" || got[1].Step != "data" {
		t.Errorf("steps = %q, %q, want doc1, data", got[0].Step, got[1].Step)
	}
	if got[0].Detail != "timeout" {
		t.Errorf("detail = %q, want timeout", got[0].Detail)
	}
}

func TestReopenKeepsSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first, err := j.Append(ctx, Entry{Kind: KindError, Detail: "boom"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	second, err := j.Append(ctx, Entry{Kind: KindError, Detail: "again"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if second.Sequence <= first.Sequence {
		t.Errorf("sequence after reopen = %d, want > %d", second.Sequence, first.Sequence)
	}
}
