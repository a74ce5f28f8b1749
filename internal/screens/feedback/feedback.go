package feedback

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/docdrill/internal/api"
	ex "github.com/abhisek/docdrill/internal/exercise"
	"github.com/abhisek/docdrill/internal/router"
	"github.com/abhisek/docdrill/internal/screen"
	"github.com/abhisek/docdrill/internal/timer"
	"github.com/abhisek/docdrill/internal/ui/components"
	"github.com/abhisek/docdrill/internal/ui/layout"
	"github.com/abhisek/docdrill/internal/ui/theme"
)

// Result is everything the review screen shows.
type Result struct {
	SessionID   string
	Feedback    api.ReviewFeedback
	Improvement *api.Improvement
	TokenUsage  *api.TokenUsage
	TimeUsed    map[string]int
}

// FromState builds a Result from a reviewed exercise.
func FromState(st ex.State) Result {
	r := Result{
		SessionID:   st.SessionID,
		Improvement: st.Improvement,
		TokenUsage:  st.TokenUsage,
		TimeUsed:    st.TimeUsed,
	}
	if st.Feedback != nil {
		r.Feedback = *st.Feedback
	}
	return r
}

// FromRecord builds a Result from a stored session.
func FromRecord(rec *api.SessionRecord) Result {
	r := Result{
		SessionID:   rec.SessionID,
		Improvement: rec.Improvement,
		TokenUsage:  rec.TokenUsage,
		TimeUsed:    rec.TimeUsed,
	}
	if rec.Feedback != nil {
		r.Feedback = *rec.Feedback
	}
	return r
}

// FeedbackScreen shows the review of a finished exercise.
type FeedbackScreen struct {
	result Result
	scroll int
}

var _ screen.Screen = (*FeedbackScreen)(nil)
var _ screen.KeyHintProvider = (*FeedbackScreen)(nil)

// New creates a FeedbackScreen for a reviewed exercise.
func New(st ex.State) *FeedbackScreen {
	return NewFromResult(FromState(st))
}

// NewFromResult creates a FeedbackScreen for r.
func NewFromResult(r Result) *FeedbackScreen {
	return &FeedbackScreen{result: r}
}

func (s *FeedbackScreen) Init() tea.Cmd { return nil }

func (s *FeedbackScreen) Title() string { return "Feedback" }

func (s *FeedbackScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FeedbackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		s.scroll = max(s.scroll-1, 0)
	case "down", "j":
		s.scroll++
	case "pgup":
		s.scroll = max(s.scroll-10, 0)
	case "pgdown":
		s.scroll += 10
	case "enter":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *FeedbackScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	lines := strings.Split(Render(s.result, cw), "\n")

	maxScroll := max(len(lines)-height, 0)
	s.scroll = min(s.scroll, maxScroll)
	end := min(s.scroll+height, len(lines))

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(lines[s.scroll:end], "\n"))
}

// Render lays out r as a column cw cells wide.
func Render(r Result, cw int) string {
	fb := r.Feedback
	var sections []string

	overall := score(fb.Overall.Score, 5) + "  " + fb.Overall.Summary
	if fb.Overall.TopImprovement != "" {
		overall += "\n\n" + theme.Heading.Render("Top improvement") + "\n" + fb.Overall.TopImprovement
	}
	sections = append(sections, components.Card("Overall", overall, cw))

	scored := []struct {
		name string
		f    api.ScoredFeedback
	}{
		{"Deliverable understanding", fb.DeliverableUnderstanding},
		{"Note quality", fb.NoteQuality},
		{"Note efficiency", fb.NoteEfficiency},
		{"Formatting", fb.Formatting},
	}
	var b strings.Builder
	for i, sf := range scored {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(theme.Heading.Render(sf.name) + "  " + score(sf.f.Score, 5) + "\n" + sf.f.Feedback)
	}
	sections = append(sections, components.Card("Notes", b.String(), cw))

	b.Reset()
	for n := 1; n <= 3; n++ {
		cf := fb.ConceptExtraction.ForDoc(n)
		if n > 1 {
			b.WriteString("\n\n")
		}
		b.WriteString(theme.Heading.Render(fmt.Sprintf("Document %d", n)) + "\n")
		b.WriteString(bullets(cf.Found, cf.Missed))
		b.WriteString(cf.Feedback)
	}
	sections = append(sections, components.Card("Concepts", b.String(), cw))

	pred := score(fb.DataPredictions.Score, 5) + "\n" +
		bullets(fb.DataPredictions.CorrectPredictions, fb.DataPredictions.MissedPredictions) +
		fb.DataPredictions.Feedback
	sections = append(sections, components.Card("Data predictions", pred, cw))

	analysis := score(fb.DataAnalysis.Score, 5) + "\n" +
		bullets(fb.DataAnalysis.CorrectObservations, fb.DataAnalysis.MissedObservations) +
		fb.DataAnalysis.Feedback
	sections = append(sections, components.Card("Data analysis", analysis, cw))

	if imp := r.Improvement; imp != nil {
		var ib strings.Builder
		ib.WriteString(theme.Heading.Render("Trend") + "  " + imp.OverallTrend + "\n")
		ib.WriteString(bullets(append(imp.Improvements, imp.NewStrengths...), imp.PersistentIssues))
		ib.WriteString(imp.Recommendation)
		sections = append(sections, components.Card("Compared with earlier sessions", ib.String(), cw))
	}

	if len(r.TimeUsed) > 0 {
		sections = append(sections, components.Card("Time used", renderTimeUsed(r.TimeUsed), cw))
	}

	if u := r.TokenUsage; u != nil {
		usage := fmt.Sprintf("%d calls · %d in / %d out tokens · $%.4f",
			u.CallCount, u.TotalInputTokens, u.TotalOutputTokens, u.EstimatedCost)
		sections = append(sections, theme.Hint.Render(usage))
	}

	return strings.Join(sections, "\n")
}

func score(v, outOf float64) string {
	return theme.ScoreStyle(v, outOf).Render(fmt.Sprintf("%.1f/%.0f", v, outOf))
}

func bullets(good, bad []string) string {
	var b strings.Builder
	for _, s := range good {
		b.WriteString(theme.Good.Render("+ ") + s + "\n")
	}
	for _, s := range bad {
		b.WriteString(theme.Bad.Render("- ") + s + "\n")
	}
	return b.String()
}

func renderTimeUsed(used map[string]int) string {
	order := []string{
		ex.FieldBackgroundNotes,
		ex.FieldDeliverableSummary,
		ex.FieldDoc1Notes,
		ex.FieldDoc2Notes,
		ex.FieldDoc3Notes,
		ex.FieldDataPredictions,
		ex.FieldDataNotes,
	}
	var lines []string
	for _, f := range order {
		if secs, ok := used[f]; ok {
			lines = append(lines, fmt.Sprintf("%-20s %s", f, timer.FormatSeconds(secs)))
		}
	}
	return strings.Join(lines, "\n")
}
