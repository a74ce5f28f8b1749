package feedback

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/docdrill/internal/api"
	ex "github.com/abhisek/docdrill/internal/exercise"
	"github.com/abhisek/docdrill/internal/router"
)

func sampleState() ex.State {
	return ex.State{
		Step:      ex.StepFeedback,
		SessionID: "sess-9",
		Feedback: &api.ReviewFeedback{
			Overall:         api.OverallFeedback{Score: 4, Summary: "Strong reading", TopImprovement: "Quantify more"},
			NoteQuality:     api.ScoredFeedback{Score: 3, Feedback: "Dense but clear"},
			DataPredictions: api.PredictionFeedback{Score: 2, MissedPredictions: []string{"pressure spike"}},
			ConceptExtraction: api.ConceptExtraction{
				Doc1: api.ConceptFeedback{Found: []string{"NPSH margin"}},
			},
		},
		Improvement: &api.Improvement{OverallTrend: "improving", Recommendation: "Keep going"},
		TokenUsage:  &api.TokenUsage{CallCount: 3, EstimatedCost: 0.05},
		TimeUsed:    map[string]int{ex.FieldDoc1Notes: 125},
	}
}

func TestRender_IncludesSections(t *testing.T) {
	out := Render(FromState(sampleState()), 80)

	for _, want := range []string{
		"Strong reading",
		"Quantify more",
		"Dense but clear",
		"NPSH margin",
		"pressure spike",
		"improving",
		"Keep going",
		"2:05",
		"$0.0500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRender_NoImprovement(t *testing.T) {
	st := sampleState()
	st.Improvement = nil
	out := Render(FromState(st), 80)
	if strings.Contains(out, "Compared with earlier sessions") {
		t.Error("improvement section rendered without data")
	}
}

func TestFromRecord(t *testing.T) {
	rec := &api.SessionRecord{
		SessionID: "old",
		Feedback:  &api.ReviewFeedback{Overall: api.OverallFeedback{Score: 5}},
		TimeUsed:  map[string]int{"data_notes": 10},
	}
	r := FromRecord(rec)
	if r.SessionID != "old" || r.Feedback.Overall.Score != 5 {
		t.Errorf("FromRecord = %+v", r)
	}
}

func TestEnterReturnsHome(t *testing.T) {
	s := New(sampleState())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command on enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Errorf("enter produced %T, want PopToRootMsg", cmd())
	}
}
