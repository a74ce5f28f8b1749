package quick

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/quick"
	"github.com/abhisek/docdrill/internal/timer"
)

func scriptedService() *api.MockService {
	return &api.MockService{
		QuickStartFn: func(ctx context.Context, mode string) (*api.QuickStartResponse, error) {
			return &api.QuickStartResponse{
				SessionID:    "q-1",
				Question:     "Why did the pump trip?",
				Documents:    []api.QuickDocument{{Title: "Shift log", Bullets: []string{"Suction pressure fell at 02:10"}}},
				TimerSeconds: 300,
			}, nil
		},
		QuickSubmitFn: func(ctx context.Context, req api.QuickSubmitRequest) (*api.QuickFeedback, error) {
			return &api.QuickFeedback{
				Score:              7.5,
				KeyFactsIdentified: []string{"low suction pressure"},
				KeyFactsMissed:     []string{"strainer blockage"},
				OverallComment:     "Good causal chain",
			}, nil
		},
	}
}

// run executes cmd and feeds its message back into the screen.
func run(t *testing.T, s *QuickScreen, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestQuickScreen_ModeMenuWhenNoMode(t *testing.T) {
	s := New(quick.New(scriptedService(), "test"), "")
	assert.Nil(t, s.Init())

	out := s.View(100, 40)
	for _, m := range api.QuickModes {
		assert.Contains(t, out, m)
	}
}

func TestQuickScreen_MenuStartsRound(t *testing.T) {
	svc := scriptedService()
	s := New(quick.New(svc, "test"), "")
	s.Init()

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	run(t, s, cmd)

	calls := svc.CallsTo("QuickStart")
	require.Len(t, calls, 1)
	assert.Equal(t, api.QuickModeMedium, calls[0].Arg)
	assert.Equal(t, quick.PhaseAnswering, s.st.Phase)
}

func TestQuickScreen_AnswerAndGrade(t *testing.T) {
	svc := scriptedService()
	s := New(quick.New(svc, "test"), api.QuickModeMedium)
	run(t, s, s.Init())

	require.NotNil(t, s.timer)
	assert.Equal(t, 300, s.timer.Countdown().Duration())
	out := s.View(100, 40)
	assert.Contains(t, out, "Why did the pump trip?")
	assert.Contains(t, out, "Suction pressure fell")

	s.editor.SetValue("Strainer clogged, suction starved")
	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	run(t, s, cmd)

	assert.Equal(t, quick.PhaseDone, s.st.Phase)
	calls := svc.CallsTo("QuickSubmit")
	require.Len(t, calls, 1)
	req := calls[0].Arg.(api.QuickSubmitRequest)
	assert.Equal(t, "Strainer clogged, suction starved", req.Response)
	assert.Equal(t, "test", req.Device)

	out = s.View(100, 60)
	assert.Contains(t, out, "7.5 / 10")
	assert.Contains(t, out, "strainer blockage")
}

func TestQuickScreen_ExpirySubmitsOnce(t *testing.T) {
	svc := scriptedService()
	s := New(quick.New(svc, "test"), api.QuickModeShort)
	run(t, s, s.Init())

	_, cmd := s.Update(timer.ExpiredMsg{ID: s.timer.ID()})
	require.NotNil(t, cmd)
	_, again := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	assert.Nil(t, again)

	s.Update(cmd())
	assert.Len(t, svc.CallsTo("QuickSubmit"), 1)
}

func TestQuickScreen_ForeignExpiryIgnored(t *testing.T) {
	s := New(quick.New(scriptedService(), "test"), api.QuickModeShort)
	run(t, s, s.Init())

	_, cmd := s.Update(timer.ExpiredMsg{ID: s.timer.ID() + 1000})
	assert.Nil(t, cmd)
	assert.Equal(t, quick.PhaseAnswering, s.st.Phase)
}

func TestQuickScreen_StartFailureOffersRetry(t *testing.T) {
	svc := scriptedService()
	fail := true
	start := svc.QuickStartFn
	svc.QuickStartFn = func(ctx context.Context, mode string) (*api.QuickStartResponse, error) {
		if fail {
			return nil, errors.New("service unavailable")
		}
		return start(ctx, mode)
	}

	s := New(quick.New(svc, "test"), api.QuickModeLong)
	run(t, s, s.Init())
	assert.Contains(t, s.View(100, 40), "service unavailable")

	fail = false
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	run(t, s, cmd)
	assert.Equal(t, quick.PhaseAnswering, s.st.Phase)
}

func TestRender_Feedback(t *testing.T) {
	out := Render(api.QuickFeedback{
		Score:             4,
		KeyFactsMissed:    []string{"flow rate"},
		LanguageFeedback:  "Too wordy",
		DensitySuggestion: "Cut adjectives",
		IdealResponse:     "The strainer blocked.",
	}, 80)

	for _, want := range []string{"4.0 / 10", "flow rate", "Too wordy", "Cut adjectives", "The strainer blocked."} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if strings.Contains(out, "Structure") {
		t.Error("empty structure feedback rendered")
	}
}
