package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/docdrill/internal/router"
	"github.com/abhisek/docdrill/internal/screen"
	"github.com/abhisek/docdrill/internal/screens/home"
)

type stubScreen struct {
	title    string
	backs    bool
	lastMsg  tea.Msg
	sizeSeen tea.WindowSizeMsg
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.lastMsg = msg
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		s.sizeSeen = ws
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) HandlesBack() bool    { return s.backs }

func model(top *stubScreen) AppModel {
	m := newAppModel(Options{Home: home.Deps{}})
	m.router.Push(top)
	return m
}

func TestEscPopsPlainScreen(t *testing.T) {
	m := model(&stubScreen{title: "plain"})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestEscForwardedToBackHandler(t *testing.T) {
	top := &stubScreen{title: "exercise", backs: true}
	m := model(top)

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := top.lastMsg.(tea.KeyPressMsg); !ok {
		t.Errorf("screen did not receive esc, got %T", top.lastMsg)
	}
}

func TestWindowSizeForwarded(t *testing.T) {
	top := &stubScreen{title: "exercise"}
	m := model(top)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if top.sizeSeen.Width != 120 {
		t.Errorf("screen width = %d, want 120", top.sizeSeen.Width)
	}
	if am := updated.(AppModel); am.width != 120 || am.height != 40 {
		t.Errorf("app size = %dx%d, want 120x40", am.width, am.height)
	}
}

func TestPushedScreenLearnsSize(t *testing.T) {
	m := newAppModel(Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(AppModel)

	next := &stubScreen{title: "next"}
	_, cmd := m.Update(router.PushScreenMsg{Screen: next})
	if cmd == nil {
		t.Fatal("expected resize command")
	}
	var sized bool
	var check func(tea.Msg)
	check = func(msg tea.Msg) {
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			sized = sized || msg.Width == 100
		case tea.BatchMsg:
			for _, c := range msg {
				if c != nil {
					check(c())
				}
			}
		}
	}
	check(cmd())
	if !sized {
		t.Error("pushed screen was not sent the window size")
	}
}

func TestEntryExerciseStartsAboveHome(t *testing.T) {
	m := newAppModel(Options{Entry: EntryExercise})
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected push command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Errorf("expected PushScreenMsg, got %T", cmd())
	}
	if m.router.Active().Title() != "Home" {
		t.Errorf("bottom screen = %q, want Home", m.router.Active().Title())
	}
}
