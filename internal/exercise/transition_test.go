package exercise

import "testing"

func TestTransitionTableValid(t *testing.T) {
	if err := validateTransitions(transitions); err != nil {
		t.Fatalf("transition table invalid: %v", err)
	}
}

func TestTransitionTableEntries(t *testing.T) {
	tests := []struct {
		from  Step
		field string
		next  Step
	}{
		{StepBackgroundRead, "background_notes", StepRequest},
		{StepRequest, "deliverable_summary", StepBackgroundReview},
		{StepBackgroundReview, "background_notes", StepDoc1},
		{StepDoc1, "doc1_notes", StepDoc2},
		{StepDoc2, "doc2_notes", StepDoc3},
		{StepDoc3, "doc3_notes", StepPredictions},
		{StepPredictions, "data_predictions", StepData},
		{StepData, "data_notes", StepReviewing},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.from)
		if !ok {
			t.Errorf("Lookup(%s) missing", tt.from)
			continue
		}
		if got.Field != tt.field || got.Next != tt.next {
			t.Errorf("Lookup(%s) = %+v, want {%s %s}", tt.from, got, tt.field, tt.next)
		}
	}

	for _, s := range []Step{StepLoading, StepReviewing, StepFeedback, Step("bogus")} {
		if _, ok := Lookup(s); ok {
			t.Errorf("Lookup(%s) found, want none", s)
		}
	}
}

func TestValidateTransitionsRejects(t *testing.T) {
	clone := func() map[Step]Transition {
		out := make(map[Step]Transition, len(transitions))
		for k, v := range transitions {
			out[k] = v
		}
		return out
	}

	tests := []struct {
		name   string
		mutate func(map[Step]Transition)
	}{
		{"missing step", func(m map[Step]Transition) { delete(m, StepDoc2) }},
		{"skips a step", func(m map[Step]Transition) { m[StepDoc1] = Transition{Field: FieldDoc1Notes, Next: StepDoc3} }},
		{"shared field", func(m map[Step]Transition) { m[StepDoc2] = Transition{Field: FieldDoc1Notes, Next: StepDoc3} }},
		{"empty field", func(m map[Step]Transition) { m[StepData] = Transition{Next: StepReviewing} }},
		{"extra entry", func(m map[Step]Transition) { m[StepFeedback] = Transition{Field: "x", Next: StepLoading} }},
		{"wrong terminal", func(m map[Step]Transition) { m[StepData] = Transition{Field: FieldDataNotes, Next: StepFeedback} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := clone()
			tt.mutate(m)
			if err := validateTransitions(m); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStepIndexAndLabel(t *testing.T) {
	if got := StepBackgroundRead.Index(); got != 0 {
		t.Errorf("Index(background_read) = %d, want 0", got)
	}
	if got := StepFeedback.Index(); got != len(ProgressSteps())-1 {
		t.Errorf("Index(feedback) = %d, want last", got)
	}
	for _, s := range []Step{StepLoading, StepReviewing} {
		if got := s.Index(); got != -1 {
			t.Errorf("Index(%s) = %d, want -1", s, got)
		}
	}
	if got := StepDoc2.Label(); got != "Document 2" {
		t.Errorf("Label(doc2) = %q", got)
	}
	if got := StepDoc3.DocNumber(); got != 3 {
		t.Errorf("DocNumber(doc3) = %d, want 3", got)
	}
	if StepFeedback.Timed() || !StepPredictions.Timed() {
		t.Error("Timed: want predictions timed and feedback not")
	}
}
