package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what an entry records.
type Kind string

const (
	KindSessionStarted  Kind = "session_started"
	KindStepSubmitted   Kind = "step_submitted"
	KindTimerExpired    Kind = "timer_expired"
	KindNoteSaved       Kind = "note_saved"
	KindNoteSaveFailed  Kind = "note_save_failed"
	KindReviewCompleted Kind = "review_completed"
	KindQuickSubmitted  Kind = "quick_submitted"
	KindError           Kind = "error"
)

// Entry is one journal event.
type Entry struct {
	ID        string
	Sequence  int64
	Kind      Kind
	SessionID string
	Step      string
	Detail    string
	CreatedAt time.Time
}

// Append records e. ID, Sequence and CreatedAt are assigned when empty and
// the stored entry is returned.
func (j *Journal) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.Kind == "" {
		return Entry{}, fmt.Errorf("append: kind is required")
	}
	seq, err := j.seq.Next(ctx)
	if err != nil {
		return Entry{}, err
	}
	e.Sequence = seq
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO events (id, sequence, kind, session_id, step, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Sequence, string(e.Kind), e.SessionID, e.Step, e.Detail, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. A limit of 0 or less
// returns everything.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	return j.query(ctx,
		`SELECT id, sequence, kind, session_id, step, detail, created_at
		 FROM events ORDER BY sequence DESC LIMIT ?`, limit)
}

// FailedSaves returns the note saves of sessionID that were abandoned,
// oldest first.
func (j *Journal) FailedSaves(ctx context.Context, sessionID string) ([]Entry, error) {
	return j.query(ctx,
		`SELECT id, sequence, kind, session_id, step, detail, created_at
		 FROM events WHERE session_id = ? AND kind = ? ORDER BY sequence ASC`,
		sessionID, string(KindNoteSaveFailed))
}

func (j *Journal) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			kind string
			ts   int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &kind, &e.SessionID, &e.Step, &e.Detail, &ts); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = Kind(kind)
		e.CreatedAt = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}
