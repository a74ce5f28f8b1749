package quick

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/quick"
	"github.com/abhisek/docdrill/internal/router"
	"github.com/abhisek/docdrill/internal/screen"
	"github.com/abhisek/docdrill/internal/timer"
	"github.com/abhisek/docdrill/internal/ui/components"
	"github.com/abhisek/docdrill/internal/ui/layout"
	"github.com/abhisek/docdrill/internal/ui/theme"
)

const (
	editorHeight      = 8
	answerPlaceholder = "Answer the question using the documents above..."
)

type startedMsg struct{ Err error }

type gradedMsg struct{ Err error }

// QuickScreen runs a single timed question: pick a mode, answer, read the
// grade.
type QuickScreen struct {
	practice *quick.Practice
	menu     components.Menu
	mode     string

	ctx    context.Context
	cancel context.CancelFunc

	st         quick.State
	timer      *timer.Model
	editor     components.NotesEditor
	submitting bool

	scroll int
	width  int
}

var _ screen.Screen = (*QuickScreen)(nil)
var _ screen.KeyHintProvider = (*QuickScreen)(nil)
var _ screen.StatusProvider = (*QuickScreen)(nil)
var _ screen.BackHandler = (*QuickScreen)(nil)

// New creates a QuickScreen. A non-empty mode skips the mode menu.
func New(practice *quick.Practice, mode string) *QuickScreen {
	s := &QuickScreen{
		practice: practice,
		mode:     mode,
		editor:   components.NewNotesEditor(answerPlaceholder),
		width:    layout.MinWidth,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	items := make([]components.MenuItem, 0, len(api.QuickModes))
	for _, m := range api.QuickModes {
		items = append(items, components.MenuItem{
			Label:       m,
			Description: timer.FormatSeconds(quick.DefaultSeconds[m]) + " to answer",
			Action:      func() tea.Cmd { return s.begin(m) },
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *QuickScreen) Init() tea.Cmd {
	s.st = s.practice.State()
	if s.mode != "" {
		return s.begin(s.mode)
	}
	return nil
}

func (s *QuickScreen) Title() string {
	if s.st.Mode == "" {
		return "Quick practice"
	}
	return "Quick practice · " + s.st.Mode
}

func (s *QuickScreen) Status() string {
	if s.timer == nil {
		return ""
	}
	return s.timer.View()
}

func (s *QuickScreen) HandlesBack() bool { return true }

func (s *QuickScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.st.Error != "":
		return []layout.KeyHint{
			{Key: "r", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case s.st.Phase == quick.PhaseIdle:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case s.st.Phase == quick.PhaseAnswering:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Abandon"},
		}
	case s.st.Phase == quick.PhaseDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Another"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *QuickScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.editor.SetSize(components.ContentWidth(s.width)-2, editorHeight)
		return s, nil

	case startedMsg:
		s.st = s.practice.State()
		if s.st.Phase != quick.PhaseAnswering {
			return s, nil
		}
		s.editor = components.NewNotesEditor(answerPlaceholder)
		s.editor.SetSize(components.ContentWidth(s.width)-2, editorHeight)
		s.timer = timer.NewModel(s.st.Seconds)
		return s, tea.Batch(s.timer.Start(), s.editor.Focus())

	case gradedMsg:
		s.submitting = false
		s.st = s.practice.State()
		s.timer = nil
		s.scroll = 0
		return s, nil

	case timer.TickMsg:
		if s.timer != nil {
			return s, s.timer.Update(msg)
		}
		return s, nil

	case timer.ExpiredMsg:
		if s.timer == nil || msg.ID != s.timer.ID() {
			return s, nil
		}
		return s, s.submit()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.timer != nil && !s.submitting {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuickScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		s.cancel()
		s.practice.Reset()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.st.Error != "" {
		// A failed grade cannot be resubmitted; both cases start over.
		if msg.String() == "r" {
			return s, s.begin(s.st.Mode)
		}
		return s, nil
	}

	switch s.st.Phase {
	case quick.PhaseIdle:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd

	case quick.PhaseAnswering:
		if msg.String() == "ctrl+s" {
			return s, s.submit()
		}
		if s.timer == nil || s.submitting {
			return s, nil
		}
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd

	case quick.PhaseDone:
		switch msg.String() {
		case "enter":
			s.practice.Reset()
			s.st = s.practice.State()
			return s, nil
		case "pgup":
			s.scroll = max(s.scroll-5, 0)
		case "pgdown":
			s.scroll += 5
		}
	}
	return s, nil
}

func (s *QuickScreen) begin(mode string) tea.Cmd {
	p, ctx := s.practice, s.ctx
	s.timer = nil
	s.st = quick.State{Phase: quick.PhaseLoading, Mode: mode}
	return func() tea.Msg {
		return startedMsg{Err: p.Start(ctx, mode)}
	}
}

// submit sends the answer. Ctrl+S and timer expiry both end here; repeats
// while grading are ignored.
func (s *QuickScreen) submit() tea.Cmd {
	if s.submitting || s.timer == nil {
		return nil
	}
	s.submitting = true
	s.timer.Pause()
	s.editor.Blur()
	s.st.Phase = quick.PhaseGrading

	p, ctx := s.practice, s.ctx
	response := s.editor.Value()
	used := s.timer.Countdown().Elapsed()
	return func() tea.Msg {
		return gradedMsg{Err: p.Submit(ctx, response, used)}
	}
}

func (s *QuickScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	switch {
	case s.st.Error != "":
		return layout.RenderCentered(components.ErrorCard(s.st.Error, "Press r to try again.", cw), width, height)
	case s.st.Phase == quick.PhaseIdle:
		body := theme.Subtitle.Render("How long do you have?") + "\n\n" + s.menu.View()
		return layout.RenderCentered(components.Card("Quick practice", body, cw), width, height)
	case s.st.Phase == quick.PhaseLoading:
		return layout.RenderCentered(theme.Hint.Render("Fetching a question..."), width, height)
	case s.st.Phase == quick.PhaseGrading:
		return layout.RenderCentered(theme.Hint.Render("Grading your answer..."), width, height)
	case s.st.Phase == quick.PhaseDone && s.st.Feedback != nil:
		return s.viewDone(cw, width, height)
	}

	var sections []string
	if s.timer != nil {
		cd := s.timer.Countdown()
		sections = append(sections, components.NewTimerBar(cd.Format(), cd.PercentRemaining(), cd.IsWarning() || cd.IsExpired(), cw).View())
	}
	sections = append(sections, components.Card("Question", s.st.Question, cw))
	for _, doc := range s.st.Documents {
		sections = append(sections, components.Card(doc.Title, bullets(doc.Bullets), cw))
	}
	sections = append(sections, components.Card("Your answer", s.editor.View(), cw))

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(sections, "\n\n"))
}

func (s *QuickScreen) viewDone(cw, width, height int) string {
	lines := strings.Split(Render(*s.st.Feedback, cw), "\n")
	maxScroll := max(len(lines)-height, 0)
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	end := min(s.scroll+height, len(lines))
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(lines[s.scroll:end], "\n"))
}

// Render formats a graded answer.
func Render(fb api.QuickFeedback, cw int) string {
	var sections []string

	score := theme.ScoreStyle(fb.Score, 10).Render(fmt.Sprintf("%.1f / 10", fb.Score))
	head := score
	if fb.OverallComment != "" {
		head += "\n\n" + fb.OverallComment
	}
	sections = append(sections, components.Card("Score", head, cw))

	var facts []string
	for _, f := range fb.KeyFactsIdentified {
		facts = append(facts, theme.Good.Render("✓ ")+f)
	}
	for _, f := range fb.KeyFactsMissed {
		facts = append(facts, theme.Bad.Render("✗ ")+f)
	}
	if len(facts) > 0 {
		sections = append(sections, components.Card("Key facts", strings.Join(facts, "\n"), cw))
	}

	var writing []string
	for _, part := range []struct{ label, text string }{
		{"Language", fb.LanguageFeedback},
		{"Structure", fb.StructureFeedback},
		{"Density", fb.DensitySuggestion},
	} {
		if part.text != "" {
			writing = append(writing, theme.Heading.Render(part.label)+"\n"+part.text)
		}
	}
	if len(writing) > 0 {
		sections = append(sections, components.Card("Writing", strings.Join(writing, "\n\n"), cw))
	}

	if fb.IdealResponse != "" {
		sections = append(sections, components.Card("A strong answer", fb.IdealResponse, cw))
	}
	return strings.Join(sections, "\n\n")
}

func bullets(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + item)
	}
	return b.String()
}
