package exercise

import "fmt"

// Note fields as stored by the service. background_notes is written by two
// steps; the second write replaces the first.
const (
	FieldBackgroundNotes    = "background_notes"
	FieldDeliverableSummary = "deliverable_summary"
	FieldDoc1Notes          = "doc1_notes"
	FieldDoc2Notes          = "doc2_notes"
	FieldDoc3Notes          = "doc3_notes"
	FieldDataPredictions    = "data_predictions"
	FieldDataNotes          = "data_notes"
)

// Transition is what submitting a step does: the field its notes go to and
// the step that follows.
type Transition struct {
	Field string
	Next  Step
}

// transitions is the whole step graph. Steps absent from it cannot be
// submitted.
var transitions = map[Step]Transition{
	StepBackgroundRead:   {Field: FieldBackgroundNotes, Next: StepRequest},
	StepRequest:          {Field: FieldDeliverableSummary, Next: StepBackgroundReview},
	StepBackgroundReview: {Field: FieldBackgroundNotes, Next: StepDoc1},
	StepDoc1:             {Field: FieldDoc1Notes, Next: StepDoc2},
	StepDoc2:             {Field: FieldDoc2Notes, Next: StepDoc3},
	StepDoc3:             {Field: FieldDoc3Notes, Next: StepPredictions},
	StepPredictions:      {Field: FieldDataPredictions, Next: StepData},
	StepData:             {Field: FieldDataNotes, Next: StepReviewing},
}

func init() {
	if err := validateTransitions(transitions); err != nil {
		panic(err)
	}
}

// Lookup returns the transition for step.
func Lookup(step Step) (Transition, bool) {
	t, ok := transitions[step]
	return t, ok
}

// validateTransitions checks that tbl walks the progress order one step at
// a time, from the first ordered step to reviewing, and that only
// background_notes is shared.
func validateTransitions(tbl map[Step]Transition) error {
	fields := map[string][]Step{}
	for from, t := range tbl {
		if t.Field == "" {
			return fmt.Errorf("transition %s: empty field", from)
		}
		fields[t.Field] = append(fields[t.Field], from)
	}
	for field, steps := range fields {
		if len(steps) > 1 && field != FieldBackgroundNotes {
			return fmt.Errorf("field %s written by %d steps", field, len(steps))
		}
	}

	// Every ordered step before feedback must submit into its successor;
	// the last one submits into reviewing.
	last := len(progressOrder) - 2
	for i, from := range progressOrder[:last+1] {
		t, ok := tbl[from]
		if !ok {
			return fmt.Errorf("step %s has no transition", from)
		}
		want := StepReviewing
		if i < last {
			want = progressOrder[i+1]
		}
		if t.Next != want {
			return fmt.Errorf("step %s advances to %s, want %s", from, t.Next, want)
		}
	}
	if len(tbl) != last+1 {
		return fmt.Errorf("transition table has %d entries, want %d", len(tbl), last+1)
	}
	return nil
}
