package history

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/router"
	"github.com/abhisek/docdrill/internal/screens/feedback"
)

type stubSource struct {
	sessions []api.SessionSummary
	quick    []api.QuickSessionSummary
	record   *api.SessionRecord
	err      error
	quickErr error
}

func (s stubSource) ListSessions(context.Context) ([]api.SessionSummary, error) {
	return s.sessions, s.err
}

func (s stubSource) GetSession(_ context.Context, id string) (*api.SessionRecord, error) {
	if s.record == nil || s.record.SessionID != id {
		return nil, errors.New("not found")
	}
	return s.record, nil
}

func (s stubSource) ListQuickSessions(context.Context) ([]api.QuickSessionSummary, error) {
	return s.quick, s.quickErr
}

func ptr(f float64) *float64 { return &f }

func loaded(t *testing.T, src Source) *HistoryScreen {
	t.Helper()
	s := New(src)
	s.Update(s.Init()())
	return s
}

func TestHistory_ListsSessions(t *testing.T) {
	s := loaded(t, stubSource{sessions: []api.SessionSummary{
		{SessionID: "a", Timestamp: "2026-03-01T10:30:00", Difficulty: "intermediate", OverallScore: ptr(3.5)},
		{SessionID: "b", Timestamp: "2026-03-02T09:00:00", Difficulty: "advanced"},
	}})

	out := s.View(120, 40)
	for _, want := range []string{"Mar 01, 2026 10:30", "3.5/5", "not reviewed", "Exercises (2)"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistory_ExpandShowsDetails(t *testing.T) {
	s := loaded(t, stubSource{sessions: []api.SessionSummary{
		{SessionID: "a", Domain: "pumps", EstimatedCost: ptr(0.12)},
	}})

	if strings.Contains(s.View(120, 40), "pumps") {
		t.Fatal("details shown before expanding")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	out := s.View(120, 40)
	if !strings.Contains(out, "pumps") || !strings.Contains(out, "$0.1200") {
		t.Errorf("expanded view missing details:\n%s", out)
	}
}

func TestHistory_OpenPushesReview(t *testing.T) {
	rec := &api.SessionRecord{SessionID: "b", Feedback: &api.ReviewFeedback{}}
	s := loaded(t, stubSource{
		sessions: []api.SessionSummary{{SessionID: "a"}, {SessionID: "b"}},
		record:   rec,
	})

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'o', Text: "o"})
	if cmd == nil {
		t.Fatal("expected fetch command")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("expected push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*feedback.FeedbackScreen); !ok {
		t.Errorf("expected feedback screen, got %T", msg.Screen)
	}
}

func TestHistory_QuickTab(t *testing.T) {
	s := loaded(t, stubSource{quick: []api.QuickSessionSummary{
		{SessionID: "q", DurationMode: "5min", Question: "Why the trip?", Feedback: api.QuickFeedback{Score: 8}},
	}})

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	out := s.View(120, 40)
	if !strings.Contains(out, "8.0/10") || !strings.Contains(out, "Why the trip?") {
		t.Errorf("quick tab missing row:\n%s", out)
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'o', Text: "o"}); cmd != nil {
		t.Error("quick rows have no review to open")
	}
}

func TestHistory_QuickFailureKeepsExercises(t *testing.T) {
	s := loaded(t, stubSource{
		sessions: []api.SessionSummary{{SessionID: "a"}},
		quickErr: errors.New("boom"),
	})
	if s.errMsg != "" || len(s.sessions) != 1 {
		t.Errorf("errMsg = %q, sessions = %d", s.errMsg, len(s.sessions))
	}
}

func TestHistory_Error(t *testing.T) {
	s := loaded(t, stubSource{err: errors.New("connection refused")})
	if !strings.Contains(s.View(120, 40), "connection refused") {
		t.Error("error not shown")
	}
}
