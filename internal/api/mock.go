package api

import (
	"context"
	"errors"
	"sync"
)

// ErrNotScripted is returned by MockService for calls without a canned result.
var ErrNotScripted = errors.New("mock: call not scripted")

// MockCall records one call made to a MockService.
type MockCall struct {
	Method    string
	SessionID string
	Arg       any
}

// MockService is a deterministic Service and QuickService for tests.
// Each hook, when set, decides the result of its method. Unset hooks
// return ErrNotScripted. All calls are recorded.
type MockService struct {
	mu    sync.Mutex
	Calls []MockCall

	StartFn       func(ctx context.Context) (*StartResponse, error)
	DocumentFn    func(ctx context.Context, n int) (*Document, error)
	DataFn        func(ctx context.Context) (*DataArtifact, error)
	SubmitFn      func(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
	ReviewFn      func(ctx context.Context) (*ReviewResponse, error)
	ChecklistFn   func(ctx context.Context, docNum int, rows []ChecklistRow) (*ChecklistResponse, error)
	QuickStartFn  func(ctx context.Context, mode string) (*QuickStartResponse, error)
	QuickSubmitFn func(ctx context.Context, req QuickSubmitRequest) (*QuickFeedback, error)
}

var (
	_ Service      = (*MockService)(nil)
	_ QuickService = (*MockService)(nil)
)

func (m *MockService) record(method, sessionID string, arg any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, SessionID: sessionID, Arg: arg})
}

// CallsTo returns the recorded calls to method.
func (m *MockService) CallsTo(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCall
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockService) StartSession(ctx context.Context) (*StartResponse, error) {
	m.record("StartSession", "", nil)
	if m.StartFn == nil {
		return nil, ErrNotScripted
	}
	return m.StartFn(ctx)
}

func (m *MockService) GetDocument(ctx context.Context, sessionID string, n int) (*Document, error) {
	m.record("GetDocument", sessionID, n)
	if m.DocumentFn == nil {
		return nil, ErrNotScripted
	}
	return m.DocumentFn(ctx, n)
}

func (m *MockService) GetData(ctx context.Context, sessionID string) (*DataArtifact, error) {
	m.record("GetData", sessionID, nil)
	if m.DataFn == nil {
		return nil, ErrNotScripted
	}
	return m.DataFn(ctx)
}

func (m *MockService) SubmitNotes(ctx context.Context, sessionID string, req SubmitRequest) (*SubmitResponse, error) {
	m.record("SubmitNotes", sessionID, req)
	if m.SubmitFn == nil {
		return &SubmitResponse{Status: "saved", Step: req.Step}, nil
	}
	return m.SubmitFn(ctx, req)
}

func (m *MockService) ReviewSession(ctx context.Context, sessionID string) (*ReviewResponse, error) {
	m.record("ReviewSession", sessionID, nil)
	if m.ReviewFn == nil {
		return nil, ErrNotScripted
	}
	return m.ReviewFn(ctx)
}

func (m *MockService) ReviewChecklist(ctx context.Context, sessionID string, docNum int, rows []ChecklistRow) (*ChecklistResponse, error) {
	m.record("ReviewChecklist", sessionID, rows)
	if m.ChecklistFn == nil {
		return nil, ErrNotScripted
	}
	return m.ChecklistFn(ctx, docNum, rows)
}

func (m *MockService) QuickStart(ctx context.Context, mode string) (*QuickStartResponse, error) {
	m.record("QuickStart", "", mode)
	if m.QuickStartFn == nil {
		return nil, ErrNotScripted
	}
	return m.QuickStartFn(ctx, mode)
}

func (m *MockService) QuickSubmit(ctx context.Context, sessionID string, req QuickSubmitRequest) (*QuickFeedback, error) {
	m.record("QuickSubmit", sessionID, req)
	if m.QuickSubmitFn == nil {
		return nil, ErrNotScripted
	}
	return m.QuickSubmitFn(ctx, req)
}
