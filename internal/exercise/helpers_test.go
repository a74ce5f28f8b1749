package exercise

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/journal"
)

type savedNote struct {
	SessionID string
	Field     string
	Content   string
	TimeUsed  int
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []savedNote
}

func (f *fakeSaver) Save(sessionID, field, content string, timeUsed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, savedNote{sessionID, field, content, timeUsed})
}

func (f *fakeSaver) notes() []savedNote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]savedNote(nil), f.saved...)
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (f *fakeRecorder) Append(_ context.Context, e journal.Entry) (journal.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeRecorder) kinds() []journal.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []journal.Kind
	for _, e := range f.entries {
		out = append(out, e.Kind)
	}
	return out
}

var errBoom = errors.New("Internal Server Error")

func testTimerConfig() api.TimerConfig {
	return api.TimerConfig{
		TimerRequest:     300,
		TimerDocument:    600,
		TimerPredictions: 240,
		TimerData:        480,
		TimerBackground:  420,
	}
}

// happyService scripts a service on which every call succeeds.
func happyService() *api.MockService {
	return &api.MockService{
		StartFn: func(context.Context) (*api.StartResponse, error) {
			return &api.StartResponse{
				SessionID:  "sess-1",
				Background: api.Document{Title: "Plant overview", Content: "Pump station B"},
				Request:    api.ClientRequest{From: "ops@client", Subject: "Flow loss", Body: "Why is flow down?"},
				Config:     testTimerConfig(),
				CostSoFar:  0.0123,
			}, nil
		},
		DocumentFn: func(_ context.Context, n int) (*api.Document, error) {
			return &api.Document{Title: fmt.Sprintf("Document %d", n), Content: "body"}, nil
		},
		DataFn: func(context.Context) (*api.DataArtifact, error) {
			return &api.DataArtifact{Format: api.DataFormatTable, Description: "flow log", Content: "| t | q |"}, nil
		},
		ReviewFn: func(context.Context) (*api.ReviewResponse, error) {
			return &api.ReviewResponse{
				Feedback:   api.ReviewFeedback{Overall: api.OverallFeedback{Score: 4, Summary: "solid"}},
				TokenUsage: api.TokenUsage{CallCount: 2, EstimatedCost: 0.04},
			}, nil
		},
		ChecklistFn: func(_ context.Context, _ int, rows []api.ChecklistRow) (*api.ChecklistResponse, error) {
			return &api.ChecklistResponse{Feedback: api.ChecklistFeedback{
				Captured: []string{rows[0].Parameter},
				Feedback: "good coverage",
			}}, nil
		},
	}
}

func startedSequencer(svc api.Service, saver Saver, opts ...Option) (*Sequencer, error) {
	seq := New(svc, saver, opts...)
	if err := seq.Start(context.Background()); err != nil {
		return nil, err
	}
	return seq, nil
}
