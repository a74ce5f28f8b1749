// Package exercise sequences the steps of a timed document exercise and
// coordinates them with the remote practice service.
package exercise

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/journal"
)

// ChecklistFallback is the feedback shown when a checklist review fails.
const ChecklistFallback = "Review failed — you may proceed"

// Saver persists notes without blocking the caller. Its outcome never
// reaches the exercise state.
type Saver interface {
	Save(sessionID, field, content string, timeUsed int)
}

// Recorder appends entries to the local journal.
type Recorder interface {
	Append(ctx context.Context, e journal.Entry) (journal.Entry, error)
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithObserver registers fn to be called after every applied change with a
// snapshot of the new state. fn must not block.
func WithObserver(fn func(State)) Option {
	return func(s *Sequencer) { s.observer = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// WithRecorder journals session milestones to r.
func WithRecorder(r Recorder) Option {
	return func(s *Sequencer) { s.recorder = r }
}

// Sequencer owns the state of one exercise attempt. Start, SubmitAndAdvance
// and Reset are the only operations that change it. All methods are safe
// for concurrent use; remote calls run without holding the lock.
type Sequencer struct {
	svc   api.Service
	saver Saver

	observer func(State)
	logger   *zap.Logger
	recorder Recorder

	mu  sync.Mutex
	st  State
	gen uint64
}

// New creates a Sequencer in the pristine state.
func New(svc api.Service, saver Saver, opts ...Option) *Sequencer {
	s := &Sequencer{
		svc:    svc,
		saver:  saver,
		logger: zap.NewNop(),
		st:     newState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

// Start discards the current attempt and asks the service for a new one.
// On failure the error is recorded and the step stays at loading.
func (s *Sequencer) Start(ctx context.Context) error {
	gen := s.replace(func(st *State) {
		st.Step = StepLoading
	})

	resp, err := s.svc.StartSession(ctx)
	if err != nil {
		s.fail(ctx, gen, "", "start session", err)
		return err
	}

	applied := s.apply(gen, func(st *State) {
		st.SessionID = resp.SessionID
		st.Background = &resp.Background
		st.Request = &resp.Request
		st.TimerConfig = resp.Config
		st.CostSoFar = resp.CostSoFar
		st.Step = StepBackgroundRead
	})
	if applied {
		s.logger.Info("session started", zap.String("session_id", resp.SessionID), zap.Float64("cost_so_far", resp.CostSoFar))
		s.record(ctx, journal.Entry{
			Kind:      journal.KindSessionStarted,
			SessionID: resp.SessionID,
			Detail:    fmt.Sprintf("cost so far $%.4f", resp.CostSoFar),
		})
	}
	return nil
}

// SubmitAndAdvance records content as the notes of current, hands them to
// the saver and moves to the next step. When the next step needs content
// from the service, the call blocks until it arrives or fails. Without a
// session, or for a step that cannot be submitted, it does nothing.
func (s *Sequencer) SubmitAndAdvance(ctx context.Context, current Step, content string, timeUsed int) error {
	t, ok := Lookup(current)
	if !ok {
		return nil
	}

	s.mu.Lock()
	if s.st.SessionID == "" {
		s.mu.Unlock()
		return nil
	}
	gen := s.gen
	sessionID := s.st.SessionID
	s.st.Notes[t.Field] = content
	s.st.TimeUsed[t.Field] = timeUsed
	s.st.Step = t.Next
	s.st.IsLoading = t.Next.needsFetch()
	snap := s.st.clone()
	s.mu.Unlock()
	s.notify(snap)

	if s.saver != nil {
		s.saver.Save(sessionID, t.Field, content, timeUsed)
	}
	s.logger.Debug("step submitted",
		zap.String("session_id", sessionID),
		zap.String("step", string(current)),
		zap.String("field", t.Field),
		zap.Int("time_used", timeUsed),
	)
	s.record(ctx, journal.Entry{
		Kind:      journal.KindStepSubmitted,
		SessionID: sessionID,
		Step:      string(current),
		Detail:    fmt.Sprintf("%s, %d chars in %ds", t.Field, len(content), timeUsed),
	})

	switch t.Next {
	case StepDoc1, StepDoc2, StepDoc3:
		return s.loadDocument(ctx, gen, sessionID, t.Next.DocNumber())
	case StepData:
		return s.loadData(ctx, gen, sessionID)
	case StepReviewing:
		return s.review(ctx, gen, sessionID)
	}
	return nil
}

// Reset returns to the pristine state. Responses to calls made before the
// reset are discarded.
func (s *Sequencer) Reset() {
	s.replace(func(*State) {})
}

// ReviewChecklist asks the service to compare the trainee's checklist for
// document docNum with the document. It never fails: on any error it
// returns ChecklistFallback as the feedback. The exercise state is not
// touched.
func (s *Sequencer) ReviewChecklist(ctx context.Context, docNum int, rows []api.ChecklistRow) api.ChecklistFeedback {
	s.mu.Lock()
	sessionID := s.st.SessionID
	s.mu.Unlock()

	fallback := api.ChecklistFeedback{Feedback: ChecklistFallback}
	if sessionID == "" {
		return fallback
	}
	resp, err := s.svc.ReviewChecklist(ctx, sessionID, docNum, rows)
	if err != nil {
		s.logger.Warn("checklist review failed",
			zap.String("session_id", sessionID),
			zap.Int("doc_num", docNum),
			zap.Error(err),
		)
		return fallback
	}
	return resp.Feedback
}

func (s *Sequencer) loadDocument(ctx context.Context, gen uint64, sessionID string, n int) error {
	doc, err := s.svc.GetDocument(ctx, sessionID, n)
	if err != nil {
		s.fail(ctx, gen, sessionID, fmt.Sprintf("load document %d", n), err)
		return err
	}
	s.apply(gen, func(st *State) {
		st.Documents[n-1] = doc
		st.IsLoading = false
	})
	return nil
}

func (s *Sequencer) loadData(ctx context.Context, gen uint64, sessionID string) error {
	data, err := s.svc.GetData(ctx, sessionID)
	if err != nil {
		s.fail(ctx, gen, sessionID, "load data", err)
		return err
	}
	s.apply(gen, func(st *State) {
		st.Data = data
		st.IsLoading = false
	})
	return nil
}

func (s *Sequencer) review(ctx context.Context, gen uint64, sessionID string) error {
	resp, err := s.svc.ReviewSession(ctx, sessionID)
	if err != nil {
		s.fail(ctx, gen, sessionID, "review session", err)
		return err
	}
	applied := s.apply(gen, func(st *State) {
		st.Feedback = &resp.Feedback
		st.Improvement = resp.Improvement
		st.TokenUsage = &resp.TokenUsage
		st.Step = StepFeedback
		st.IsLoading = false
		st.Error = ""
	})
	if applied {
		s.logger.Info("session reviewed",
			zap.String("session_id", sessionID),
			zap.Float64("overall_score", resp.Feedback.Overall.Score),
			zap.Float64("estimated_cost", resp.TokenUsage.EstimatedCost),
		)
		s.record(ctx, journal.Entry{
			Kind:      journal.KindReviewCompleted,
			SessionID: sessionID,
			Detail:    fmt.Sprintf("overall %.1f/5", resp.Feedback.Overall.Score),
		})
	}
	return nil
}

// fail records err as the session error unless the call is stale.
func (s *Sequencer) fail(ctx context.Context, gen uint64, sessionID, op string, err error) {
	applied := s.apply(gen, func(st *State) {
		st.Error = err.Error()
		st.IsLoading = false
	})
	if !applied {
		return
	}
	s.logger.Error(op+" failed", zap.String("session_id", sessionID), zap.Error(err))
	s.record(ctx, journal.Entry{
		Kind:      journal.KindError,
		SessionID: sessionID,
		Detail:    fmt.Sprintf("%s: %v", op, err),
	})
}

// replace installs a fresh state modified by fn and starts a new
// generation. It returns that generation.
func (s *Sequencer) replace(fn func(st *State)) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.st = newState()
	fn(&s.st)
	snap := s.st.clone()
	s.mu.Unlock()

	s.notify(snap)
	return gen
}

// apply runs fn against the state if gen is still current and reports
// whether it did.
func (s *Sequencer) apply(gen uint64, fn func(st *State)) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("stale response discarded", zap.Uint64("generation", gen))
		return false
	}
	fn(&s.st)
	snap := s.st.clone()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

func (s *Sequencer) notify(st State) {
	if s.observer != nil {
		s.observer(st)
	}
}

func (s *Sequencer) record(ctx context.Context, e journal.Entry) {
	if s.recorder == nil {
		return
	}
	if _, err := s.recorder.Append(context.WithoutCancel(ctx), e); err != nil {
		s.logger.Warn("journal append failed", zap.String("kind", string(e.Kind)), zap.Error(err))
	}
}
