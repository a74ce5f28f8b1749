package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/docdrill/internal/journal"
	"github.com/abhisek/docdrill/internal/logging"
	"github.com/abhisek/docdrill/internal/notesync"
)

func TestJournalOutcome(t *testing.T) {
	jr, err := journal.OpenPath(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer jr.Close()

	record := journalOutcome(jr, logging.Nop())
	record(notesync.Outcome{SessionID: "s1", Field: "doc1_notes", Bytes: 42, Attempts: 1})
	record(notesync.Outcome{SessionID: "s1", Field: "doc2_notes", Attempts: 3, Error: "503 Service Unavailable"})

	entries, err := jr.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, journal.KindNoteSaveFailed, entries[0].Kind)
	assert.Equal(t, "503 Service Unavailable", entries[0].Detail)
	assert.Equal(t, journal.KindNoteSaved, entries[1].Kind)
	assert.Equal(t, "doc1_notes", entries[1].Step)

	failed, err := jr.FailedSaves(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, failed, 1)
}

func TestShortTimestamp(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2026-03-01T10:30:00.123456", "2026-03-01 10:30:00"},
		{"2026-03-01T10:30:00", "2026-03-01 10:30:00"},
		{"yesterday", "yesterday"},
	}
	for _, tt := range tests {
		if got := shortTimestamp(tt.in); got != tt.want {
			t.Errorf("shortTimestamp(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuickRejectsUnknownMode(t *testing.T) {
	rootCmd.SetArgs([]string{"quick", "--mode", "7min"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}
