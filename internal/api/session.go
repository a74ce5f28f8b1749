package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/patrickmn/go-cache"
)

// StartSession asks the service to generate a new scenario.
func (c *Client) StartSession(ctx context.Context) (*StartResponse, error) {
	var out StartResponse
	if err := c.callValidated(ctx, http.MethodPost, "/api/session/start", "session-start", startSchema, nil, &out); err != nil {
		return nil, err
	}
	c.cache.Delete(cacheKeySessions)
	return &out, nil
}

// GetDocument fetches document n (1-3) of a session.
func (c *Client) GetDocument(ctx context.Context, sessionID string, n int) (*Document, error) {
	if n < 1 || n > 3 {
		return nil, fmt.Errorf("document number %d out of range 1-3", n)
	}
	var out documentResponse
	if err := c.call(ctx, http.MethodGet, sessionPath(sessionID, "doc", strconv.Itoa(n)), nil, &out); err != nil {
		return nil, err
	}
	return &out.Document, nil
}

// GetData fetches the data artifact of a session.
func (c *Client) GetData(ctx context.Context, sessionID string) (*DataArtifact, error) {
	var out dataResponse
	if err := c.call(ctx, http.MethodGet, sessionPath(sessionID, "data"), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// SubmitNotes stores the notes for one step.
func (c *Client) SubmitNotes(ctx context.Context, sessionID string, req SubmitRequest) (*SubmitResponse, error) {
	var out SubmitResponse
	if err := c.call(ctx, http.MethodPost, sessionPath(sessionID, "submit"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReviewSession asks the service to grade a completed session.
func (c *Client) ReviewSession(ctx context.Context, sessionID string) (*ReviewResponse, error) {
	var out ReviewResponse
	if err := c.callValidated(ctx, http.MethodPost, sessionPath(sessionID, "review"), "session-review", reviewSchema, nil, &out); err != nil {
		return nil, err
	}
	c.cache.Delete(cacheKeySessions)
	return &out, nil
}

// ReviewChecklist asks for feedback on the parameter checklist of document docNum.
func (c *Client) ReviewChecklist(ctx context.Context, sessionID string, docNum int, rows []ChecklistRow) (*ChecklistResponse, error) {
	if rows == nil {
		rows = []ChecklistRow{}
	}
	var out ChecklistResponse
	in := checklistRequest{DocNum: docNum, Checklist: rows}
	if err := c.call(ctx, http.MethodPost, sessionPath(sessionID, "review-checklist"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches the full record of an active or completed session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionRecord, error) {
	var out SessionRecord
	if err := c.call(ctx, http.MethodGet, sessionPath(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSessions returns summaries of completed sessions, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	if cached, ok := c.cache.Get(cacheKeySessions); ok {
		return cached.([]SessionSummary), nil
	}
	var out sessionsResponse
	if err := c.call(ctx, http.MethodGet, "/api/sessions", nil, &out); err != nil {
		return nil, err
	}
	c.cache.Set(cacheKeySessions, out.Sessions, cache.DefaultExpiration)
	return out.Sessions, nil
}

// Cost reports the running cost of an active session.
func (c *Client) Cost(ctx context.Context, sessionID string) (*CostReport, error) {
	var out CostReport
	if err := c.call(ctx, http.MethodGet, "/api/cost/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
