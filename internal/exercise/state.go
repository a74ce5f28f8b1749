package exercise

import (
	"maps"

	"github.com/abhisek/docdrill/internal/api"
)

// State is a snapshot of one exercise attempt. Values returned by
// Sequencer.State are copies; changing them has no effect on the sequencer.
type State struct {
	Step      Step
	SessionID string

	Background  *api.Document
	Request     *api.ClientRequest
	Documents   [3]*api.Document
	Data        *api.DataArtifact
	TimerConfig api.TimerConfig
	CostSoFar   float64

	Notes    map[string]string
	TimeUsed map[string]int

	Feedback    *api.ReviewFeedback
	Improvement *api.Improvement
	TokenUsage  *api.TokenUsage

	Error     string
	IsLoading bool
}

func newState() State {
	return State{
		Step:     StepBackgroundRead,
		Notes:    map[string]string{},
		TimeUsed: map[string]int{},
	}
}

func (s State) clone() State {
	c := s
	c.Notes = maps.Clone(s.Notes)
	c.TimeUsed = maps.Clone(s.TimeUsed)
	return c
}

// Started reports whether a session id has been issued.
func (s State) Started() bool { return s.SessionID != "" }

// Failed reports whether a blocking remote call failed.
func (s State) Failed() bool { return s.Error != "" }

// Document returns document n (1..3), or nil when not loaded.
func (s State) Document(n int) *api.Document {
	if n < 1 || n > len(s.Documents) {
		return nil
	}
	return s.Documents[n-1]
}

// StepDuration returns the time allowed for step in seconds, or 0 for
// steps that are not timed.
func (s State) StepDuration(step Step) int {
	tc := s.TimerConfig
	switch step {
	case StepBackgroundRead, StepBackgroundReview:
		return tc.TimerBackground
	case StepRequest:
		return tc.TimerRequest
	case StepDoc1, StepDoc2, StepDoc3:
		return tc.TimerDocument
	case StepPredictions:
		return tc.TimerPredictions
	case StepData:
		return tc.TimerData
	}
	return 0
}

// Ready reports whether the current step's artifact is available so the
// trainee can work on it.
func (s State) Ready() bool {
	if s.IsLoading || s.Failed() {
		return false
	}
	switch s.Step {
	case StepBackgroundRead, StepBackgroundReview:
		return s.Background != nil
	case StepRequest:
		return s.Request != nil
	case StepDoc1, StepDoc2, StepDoc3:
		return s.Document(s.Step.DocNumber()) != nil
	case StepPredictions:
		return s.Request != nil
	case StepData:
		return s.Data != nil
	case StepFeedback:
		return s.Feedback != nil
	}
	return false
}
