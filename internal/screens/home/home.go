package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/journal"
	"github.com/abhisek/docdrill/internal/quick"
	"github.com/abhisek/docdrill/internal/router"
	"github.com/abhisek/docdrill/internal/screen"
	exercisescreen "github.com/abhisek/docdrill/internal/screens/exercise"
	"github.com/abhisek/docdrill/internal/screens/history"
	quickscreen "github.com/abhisek/docdrill/internal/screens/quick"
	"github.com/abhisek/docdrill/internal/ui/components"
)

// Journal reads the local event journal.
type Journal interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// Deps are the collaborators reachable from the home menu.
type Deps struct {
	Exercise exercisescreen.Deps
	Quick    api.QuickService
	Device   string
	History  history.Source
	Journal  Journal
}

// Stats are journal totals shown on the home screen.
type Stats struct {
	Reviewed    int
	Quick       int
	FailedSaves int
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	labels []string
	stats  Stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	items := []components.MenuItem{
		{Label: "START EXERCISE", Action: func() tea.Cmd {
			return push(exercisescreen.New(h.deps.Exercise))
		}},
		{Label: "QUICK PRACTICE", Action: func() tea.Cmd {
			return push(NewQuickScreen(h.deps, ""))
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return push(history.New(h.deps.History))
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	for _, item := range items {
		h.labels = append(h.labels, item.Label)
	}
	h.menu = components.NewMenu(items)
	h.stats = loadStats(deps.Journal)
	return h
}

// NewQuickScreen builds a quick practice screen. A non-empty mode starts a
// round immediately.
func NewQuickScreen(deps Deps, mode string) *quickscreen.QuickScreen {
	var opts []quick.Option
	if l := deps.Exercise.Logger; l != nil {
		opts = append(opts, quick.WithLogger(l.Named("quick")))
	}
	if r := deps.Exercise.Recorder; r != nil {
		opts = append(opts, quick.WithRecorder(r))
	}
	return quickscreen.New(quick.New(deps.Quick, deps.Device, opts...), mode)
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.stats, cw, compact),
		renderMenu(h.labels, h.menu.Selected, cw, compact),
	}
	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// loadStats counts reviewed exercises, graded quick rounds and failed
// note saves in the journal.
func loadStats(j Journal) Stats {
	var st Stats
	if j == nil {
		return st
	}
	entries, err := j.Recent(context.Background(), 0)
	if err != nil {
		return st
	}
	for _, e := range entries {
		switch e.Kind {
		case journal.KindReviewCompleted:
			st.Reviewed++
		case journal.KindQuickSubmitted:
			st.Quick++
		case journal.KindNoteSaveFailed:
			st.FailedSaves++
		}
	}
	return st
}
