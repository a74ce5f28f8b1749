package exercise

import (
	"github.com/abhisek/docdrill/internal/api"
	ex "github.com/abhisek/docdrill/internal/exercise"
)

// stateChangedMsg is sent whenever the sequencer applies a change.
type stateChangedMsg struct{}

// startDoneMsg is sent when a Start call returns. Failures are already
// recorded in the sequencer state.
type startDoneMsg struct {
	Err error
}

// submitDoneMsg is sent when SubmitAndAdvance returns, including any
// follow-up fetch.
type submitDoneMsg struct {
	Step ex.Step
	Err  error
}

// checklistReviewedMsg carries the review of a document checklist.
type checklistReviewedMsg struct {
	DocNum   int
	Feedback api.ChecklistFeedback
}
