package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/router"
	"github.com/abhisek/docdrill/internal/screen"
	"github.com/abhisek/docdrill/internal/screens/feedback"
	"github.com/abhisek/docdrill/internal/ui/layout"
	"github.com/abhisek/docdrill/internal/ui/theme"
)

// Source lists past sessions.
type Source interface {
	ListSessions(ctx context.Context) ([]api.SessionSummary, error)
	GetSession(ctx context.Context, sessionID string) (*api.SessionRecord, error)
	ListQuickSessions(ctx context.Context) ([]api.QuickSessionSummary, error)
}

type historyLoadedMsg struct {
	Sessions []api.SessionSummary
	Quick    []api.QuickSessionSummary
	Err      error
}

type sessionLoadedMsg struct {
	Record *api.SessionRecord
	Err    error
}

type tab int

const (
	tabExercises tab = iota
	tabQuick
)

// HistoryScreen displays past exercises and quick practice rounds.
type HistoryScreen struct {
	source   Source
	sessions []api.SessionSummary
	quick    []api.QuickSessionSummary
	tab      tab
	selected int
	expanded map[int]bool
	loaded   bool
	opening  bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := s.source.ListSessions(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Quick rounds are secondary; show exercises even if they fail.
		quick, err := s.source.ListQuickSessions(ctx)
		if err != nil {
			return historyLoadedMsg{Sessions: sessions}
		}
		return historyLoadedMsg{Sessions: sessions, Quick: quick}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Exercises/Quick"},
	}
	if s.tab == tabExercises {
		hints = append(hints, layout.KeyHint{Key: "o", Description: "Open review"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.quick = msg.Quick
		}
		s.loaded = true
		return s, nil

	case sessionLoadedMsg:
		s.opening = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		if msg.Record.Feedback == nil {
			return s, nil
		}
		fs := feedback.NewFromResult(feedback.FromRecord(msg.Record))
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: fs} }

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < s.rowCount()-1 {
				s.selected++
			}
			return s, nil
		case "tab":
			s.tab = 1 - s.tab
			s.selected = 0
			s.expanded = make(map[int]bool)
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "o":
			return s, s.open()
		}
	}
	return s, nil
}

func (s *HistoryScreen) rowCount() int {
	if s.tab == tabQuick {
		return len(s.quick)
	}
	return len(s.sessions)
}

func (s *HistoryScreen) open() tea.Cmd {
	if s.tab != tabExercises || s.opening || s.selected >= len(s.sessions) {
		return nil
	}
	s.opening = true
	id := s.sessions[s.selected].SessionID
	src := s.source
	return func() tea.Msg {
		rec, err := src.GetSession(context.Background(), id)
		return sessionLoadedMsg{Record: rec, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderTabs()))
	b.WriteString("\n\n")

	if s.rowCount() == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No sessions yet. Start practising!"))
		return b.String()
	}

	if s.tab == tabQuick {
		s.renderQuick(&b, width)
	} else {
		s.renderSessions(&b, width)
	}
	return b.String()
}

func (s *HistoryScreen) renderTabs() string {
	ex := fmt.Sprintf("Exercises (%d)", len(s.sessions))
	qk := fmt.Sprintf("Quick (%d)", len(s.quick))
	if s.tab == tabExercises {
		return theme.Selected.Render(ex) + "   " + theme.Hint.Render(qk)
	}
	return theme.Hint.Render(ex) + "   " + theme.Selected.Render(qk)
}

func (s *HistoryScreen) renderSessions(b *strings.Builder, width int) {
	for i, sess := range s.sessions {
		scoreStr := "not reviewed"
		if sess.OverallScore != nil {
			scoreStr = fmt.Sprintf("%.1f/5", *sess.OverallScore)
		}

		line := fmt.Sprintf("%s%s  %-12s  %s", prefix(i == s.selected), formatTimestamp(sess.Timestamp), sess.Difficulty, scoreStr)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, rowStyle(i == s.selected).Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			var details []string
			if sess.Domain != "" {
				details = append(details, "domain "+sess.Domain)
			}
			if sess.ModelUsed != "" {
				details = append(details, "model "+sess.ModelUsed)
			}
			if sess.EstimatedCost != nil {
				details = append(details, fmt.Sprintf("cost $%.4f", *sess.EstimatedCost))
			}
			details = append(details, "id "+sess.SessionID)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render("    "+strings.Join(details, " · "))))
			b.WriteString("\n")
		}
	}
	if s.opening {
		b.WriteString("\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("Opening review...")))
	}
}

func (s *HistoryScreen) renderQuick(b *strings.Builder, width int) {
	for i, q := range s.quick {
		line := fmt.Sprintf("%s%s  %-6s  %.1f/10  %s", prefix(i == s.selected),
			formatTimestamp(q.Timestamp), q.DurationMode, q.Feedback.Score, layout.Truncate(q.Question, 40))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, rowStyle(i == s.selected).Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := q.Feedback.OverallComment
			if detail == "" {
				detail = layout.Truncate(q.UserResponse, 70)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render("    "+detail)))
			b.WriteString("\n")
		}
	}
}

func prefix(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

func rowStyle(selected bool) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return style
}

// formatTimestamp renders the service's ISO timestamps as a short date,
// falling back to the raw value.
func formatTimestamp(ts string) string {
	for _, f := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(f, ts); err == nil {
			return t.Format("Jan 02, 2006 15:04")
		}
	}
	return ts
}
