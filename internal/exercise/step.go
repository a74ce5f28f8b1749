package exercise

// Step is one stage of the exercise.
type Step string

const (
	StepLoading          Step = "loading"
	StepBackgroundRead   Step = "background_read"
	StepRequest          Step = "request"
	StepBackgroundReview Step = "background_review"
	StepDoc1             Step = "doc1"
	StepDoc2             Step = "doc2"
	StepDoc3             Step = "doc3"
	StepPredictions      Step = "predictions"
	StepData             Step = "data"
	StepReviewing        Step = "reviewing"
	StepFeedback         Step = "feedback"
)

// progressOrder is the order shown to the trainee. Loading and reviewing
// are transient and have no position.
var progressOrder = []Step{
	StepBackgroundRead,
	StepRequest,
	StepBackgroundReview,
	StepDoc1,
	StepDoc2,
	StepDoc3,
	StepPredictions,
	StepData,
	StepFeedback,
}

var stepLabels = map[Step]string{
	StepLoading:          "Loading",
	StepBackgroundRead:   "Read Background",
	StepRequest:          "Client Request",
	StepBackgroundReview: "Review Background",
	StepDoc1:             "Document 1",
	StepDoc2:             "Document 2",
	StepDoc3:             "Document 3",
	StepPredictions:      "Predict Data",
	StepData:             "Analyse Data",
	StepReviewing:        "Reviewing",
	StepFeedback:         "Feedback",
}

// ProgressSteps returns the ordered steps in display order.
func ProgressSteps() []Step {
	out := make([]Step, len(progressOrder))
	copy(out, progressOrder)
	return out
}

// Index returns the position of s in the progress order, or -1 for
// transient steps.
func (s Step) Index() int {
	for i, p := range progressOrder {
		if p == s {
			return i
		}
	}
	return -1
}

// Label is the human-readable step name.
func (s Step) Label() string {
	if l, ok := stepLabels[s]; ok {
		return l
	}
	return string(s)
}

// DocNumber returns 1..3 for document steps and 0 otherwise.
func (s Step) DocNumber() int {
	switch s {
	case StepDoc1:
		return 1
	case StepDoc2:
		return 2
	case StepDoc3:
		return 3
	}
	return 0
}

// Timed reports whether the trainee writes notes against a timer at s.
func (s Step) Timed() bool {
	_, ok := transitions[s]
	return ok
}

// needsFetch reports whether entering s requires a blocking remote call.
func (s Step) needsFetch() bool {
	switch s {
	case StepDoc1, StepDoc2, StepDoc3, StepData, StepReviewing:
		return true
	}
	return false
}
