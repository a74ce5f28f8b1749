// Package quick runs single-question timed practice rounds.
package quick

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/journal"
)

// Phase is where a round currently is.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseAnswering Phase = "answering"
	PhaseGrading   Phase = "grading"
	PhaseDone      Phase = "done"
)

// DefaultSeconds maps each mode to its nominal duration, used when the
// service does not report one.
var DefaultSeconds = map[string]int{
	api.QuickModeShort:  150,
	api.QuickModeMedium: 300,
	api.QuickModeLong:   600,
}

// State is a snapshot of a round.
type State struct {
	Phase     Phase
	Mode      string
	SessionID string
	Question  string
	Documents []api.QuickDocument
	Seconds   int
	Response  string
	TimeUsed  int
	Feedback  *api.QuickFeedback
	Error     string
}

// Recorder appends entries to the local journal.
type Recorder interface {
	Append(ctx context.Context, e journal.Entry) (journal.Entry, error)
}

// Option configures a Practice.
type Option func(*Practice)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Practice) { p.logger = l }
}

// WithRecorder journals graded rounds to r.
func WithRecorder(r Recorder) Option {
	return func(p *Practice) { p.recorder = r }
}

// Practice owns one quick practice round.
type Practice struct {
	svc      api.QuickService
	device   string
	logger   *zap.Logger
	recorder Recorder

	mu  sync.Mutex
	st  State
	gen uint64
}

// New creates an idle Practice. device is reported with every answer.
func New(svc api.QuickService, device string, opts ...Option) *Practice {
	p := &Practice{
		svc:    svc,
		device: device,
		logger: zap.NewNop(),
		st:     State{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns a copy of the current state.
func (p *Practice) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.st
	st.Documents = append([]api.QuickDocument(nil), p.st.Documents...)
	return st
}

// Start begins a new round in mode, discarding any previous one.
func (p *Practice) Start(ctx context.Context, mode string) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.st = State{Phase: PhaseLoading, Mode: mode}
	p.mu.Unlock()

	resp, err := p.svc.QuickStart(ctx, mode)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}
	if err != nil {
		p.st.Error = err.Error()
		p.logger.Error("quick start failed", zap.String("mode", mode), zap.Error(err))
		return err
	}

	secs := resp.TimerSeconds
	if secs <= 0 {
		secs = DefaultSeconds[mode]
	}
	p.st.Phase = PhaseAnswering
	p.st.SessionID = resp.SessionID
	p.st.Question = resp.Question
	p.st.Documents = resp.Documents
	p.st.Seconds = secs
	p.logger.Info("quick round started", zap.String("session_id", resp.SessionID), zap.String("mode", mode))
	return nil
}

// Submit sends the answer for grading. It does nothing unless a round is
// being answered.
func (p *Practice) Submit(ctx context.Context, response string, timeUsed int) error {
	p.mu.Lock()
	if p.st.Phase != PhaseAnswering {
		p.mu.Unlock()
		return nil
	}
	gen := p.gen
	sessionID := p.st.SessionID
	p.st.Phase = PhaseGrading
	p.st.Response = response
	p.st.TimeUsed = timeUsed
	p.mu.Unlock()

	fb, err := p.svc.QuickSubmit(ctx, sessionID, api.QuickSubmitRequest{
		Response: response,
		TimeUsed: timeUsed,
		Device:   p.device,
	})

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return nil
	}
	if err != nil {
		p.st.Error = err.Error()
		p.mu.Unlock()
		p.logger.Error("quick submit failed", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	p.st.Phase = PhaseDone
	p.st.Feedback = fb
	p.mu.Unlock()

	if p.recorder != nil {
		_, rerr := p.recorder.Append(context.WithoutCancel(ctx), journal.Entry{
			Kind:      journal.KindQuickSubmitted,
			SessionID: sessionID,
			Detail:    fmt.Sprintf("score %.1f/10 in %ds", fb.Score, timeUsed),
		})
		if rerr != nil {
			p.logger.Warn("journal append failed", zap.Error(rerr))
		}
	}
	return nil
}

// Reset abandons the current round.
func (p *Practice) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.st = State{Phase: PhaseIdle}
}
