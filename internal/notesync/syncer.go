// Package notesync persists step notes without blocking the exercise.
//
// Saving follows the DetachedSave policy: the caller hands over the notes and
// moves on immediately. Outcomes are published on an in-process pub/sub and
// never reach the exercise state, so a failed save cannot stall a timed step.
package notesync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/docdrill/internal/api"
)

// Topics on which save outcomes are published.
const (
	TopicSaved      = "notes.saved"
	TopicSaveFailed = "notes.save_failed"
)

// Submitter stores notes remotely.
type Submitter interface {
	SubmitNotes(ctx context.Context, sessionID string, req api.SubmitRequest) (*api.SubmitResponse, error)
}

// Outcome describes how one detached save ended.
type Outcome struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Field     string    `json:"field"`
	TimeUsed  int       `json:"time_used"`
	Bytes     int       `json:"bytes"`
	Attempts  int       `json:"attempts"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// Failed reports whether the save was abandoned.
func (o Outcome) Failed() bool { return o.Error != "" }

// Option configures a Syncer.
type Option func(*Syncer)

// WithTimeout bounds each save attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) { s.timeout = d }
}

// WithRetry sets the retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(s *Syncer) { s.retry = cfg }
}

// Syncer runs detached note saves.
type Syncer struct {
	submitter Submitter
	logger    *zap.Logger
	pubsub    *gochannel.GoChannel
	timeout   time.Duration
	retry     RetryConfig

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// New creates a Syncer that saves through submitter.
func New(submitter Submitter, logger *zap.Logger, opts ...Option) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Publish blocks until listeners ack, so waiting on a save also waits
	// for its outcome to be handled.
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NopLogger{})
	s := &Syncer{
		submitter: submitter,
		logger:    logger,
		pubsub:    pubsub,
		timeout:   15 * time.Second,
		retry:     DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.retry.MaxAttempts < 1 {
		s.retry.MaxAttempts = 1
	}
	return s
}

// Save stores content for field in the background and returns at once.
// Saves requested after Close are dropped.
func (s *Syncer) Save(sessionID, field, content string, timeUsed int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("save after close dropped", zap.String("session_id", sessionID), zap.String("field", field))
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()
		s.publish(s.save(sessionID, field, content, timeUsed))
	}()
}

func (s *Syncer) save(sessionID, field, content string, timeUsed int) Outcome {
	out := Outcome{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Field:     field,
		TimeUsed:  timeUsed,
		Bytes:     len(content),
	}
	req := api.SubmitRequest{Step: field, Content: content, TimeUsed: timeUsed}

	var lastErr error
	for attempt := range s.retry.MaxAttempts {
		out.Attempts = attempt + 1

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		_, err := s.submitter.SubmitNotes(ctx, sessionID, req)
		cancel()
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err

		if !shouldRetry(err) || attempt == s.retry.MaxAttempts-1 {
			break
		}
		time.Sleep(s.retry.backoff(attempt))
	}

	out.At = time.Now()
	if lastErr != nil {
		out.Error = lastErr.Error()
		s.logger.Warn("note save failed",
			zap.String("session_id", sessionID),
			zap.String("field", field),
			zap.Int("attempts", out.Attempts),
			zap.Error(lastErr),
		)
	} else {
		s.logger.Debug("note saved",
			zap.String("session_id", sessionID),
			zap.String("field", field),
			zap.Int("attempts", out.Attempts),
		)
	}
	return out
}

func (s *Syncer) publish(out Outcome) {
	topic := TopicSaved
	if out.Failed() {
		topic = TopicSaveFailed
	}
	payload, err := json.Marshal(out)
	if err != nil {
		s.logger.Error("encode save outcome", zap.Error(err))
		return
	}
	if err := s.pubsub.Publish(topic, message.NewMessage(out.ID, payload)); err != nil {
		s.logger.Error("publish save outcome", zap.String("topic", topic), zap.Error(err))
	}
}

// Listen delivers every outcome to handler until ctx is done or the Syncer
// is closed. Outcomes published before Listen is called are not replayed.
func (s *Syncer) Listen(ctx context.Context, handler func(Outcome)) error {
	for _, topic := range []string{TopicSaved, TopicSaveFailed} {
		msgs, err := s.pubsub.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		go s.consume(msgs, handler)
	}
	return nil
}

func (s *Syncer) consume(msgs <-chan *message.Message, handler func(Outcome)) {
	for msg := range msgs {
		var out Outcome
		if err := json.Unmarshal(msg.Payload, &out); err != nil {
			s.logger.Error("decode save outcome", zap.String("uuid", msg.UUID), zap.Error(err))
			msg.Ack()
			continue
		}
		handler(out)
		msg.Ack()
	}
}

// Close waits for in-flight saves and for listeners to handle their
// outcomes, then shuts the pub/sub down.
func (s *Syncer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.inflight.Wait()
	return s.pubsub.Close()
}
