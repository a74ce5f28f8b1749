package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/patrickmn/go-cache"
)

// QuickStart starts a quick practice session for one of QuickModes.
func (c *Client) QuickStart(ctx context.Context, mode string) (*QuickStartResponse, error) {
	if !slices.Contains(QuickModes, mode) {
		return nil, fmt.Errorf("unknown quick mode %q", mode)
	}
	var out QuickStartResponse
	in := quickStartRequest{DurationMode: mode}
	if err := c.callValidated(ctx, http.MethodPost, "/api/quick/start", "quick-start", quickStartSchema, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuickSubmit submits the answer to a quick practice session and returns its grade.
func (c *Client) QuickSubmit(ctx context.Context, sessionID string, req QuickSubmitRequest) (*QuickFeedback, error) {
	var out quickSubmitResponse
	path := "/api/quick/" + url.PathEscape(sessionID) + "/submit"
	if err := c.call(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	c.cache.Delete(cacheKeyQuickSessions)
	return &out.Feedback, nil
}

// ListQuickSessions returns completed quick practice sessions, newest first.
func (c *Client) ListQuickSessions(ctx context.Context) ([]QuickSessionSummary, error) {
	if cached, ok := c.cache.Get(cacheKeyQuickSessions); ok {
		return cached.([]QuickSessionSummary), nil
	}
	var out quickSessionsResponse
	if err := c.call(ctx, http.MethodGet, "/api/quick/sessions", nil, &out); err != nil {
		return nil, err
	}
	c.cache.Set(cacheKeyQuickSessions, out.Sessions, cache.DefaultExpiration)
	return out.Sessions, nil
}
