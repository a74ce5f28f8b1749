package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/patrickmn/go-cache"
)

const (
	cacheKeySessions      = "sessions"
	cacheKeyQuickSessions = "quick-sessions"
	cacheKeySettings      = "settings"
)

// GetSettings returns the service configuration.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	if cached, ok := c.cache.Get(cacheKeySettings); ok {
		s := cached.(Settings)
		return &s, nil
	}
	var out Settings
	if err := c.call(ctx, http.MethodGet, "/api/config", nil, &out); err != nil {
		return nil, err
	}
	c.cache.Set(cacheKeySettings, out, cache.DefaultExpiration)
	return &out, nil
}

// UpdateSettings applies a partial update and returns the new configuration.
func (c *Client) UpdateSettings(ctx context.Context, upd SettingsUpdate) (*Settings, error) {
	c.cache.Delete(cacheKeySettings)
	var out Settings
	if err := c.call(ctx, http.MethodPatch, "/api/config", upd, &out); err != nil {
		return nil, err
	}
	c.cache.Set(cacheKeySettings, out, cache.DefaultExpiration)
	return &out, nil
}

// MinDocumentSeconds is the shortest document timer that still leaves the
// background read a non-zero timer.
const MinDocumentSeconds = 2

// SettingKeys lists the keys accepted by ParseSettingsUpdate.
var SettingKeys = []string{
	"model_key", "timer_request", "timer_document", "timer_predictions",
	"timer_data", "cost_limit", "domain", "difficulty",
}

// ParseSettingsUpdate builds an update from key=value pairs.
func ParseSettingsUpdate(pairs []string) (SettingsUpdate, error) {
	var upd SettingsUpdate
	if len(pairs) == 0 {
		return upd, fmt.Errorf("no settings given")
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return upd, fmt.Errorf("setting %q: want key=value", pair)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "model_key":
			upd.ModelKey = &value
		case "domain":
			upd.Domain = &value
		case "difficulty":
			upd.Difficulty = &value
		case "timer_request", "timer_document", "timer_predictions", "timer_data":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return upd, fmt.Errorf("setting %s: %q is not a positive number of seconds", key, value)
			}
			// The background read gets half the document time.
			if key == "timer_document" && n < MinDocumentSeconds {
				return upd, fmt.Errorf("setting timer_document: must be at least %d seconds", MinDocumentSeconds)
			}
			switch key {
			case "timer_request":
				upd.TimerRequest = &n
			case "timer_document":
				upd.TimerDocument = &n
			case "timer_predictions":
				upd.TimerPredictions = &n
			case "timer_data":
				upd.TimerData = &n
			}
		case "cost_limit":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || f < 0 {
				return upd, fmt.Errorf("setting cost_limit: %q is not a non-negative amount", value)
			}
			upd.CostLimit = &f
		default:
			return upd, fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(SettingKeys, ", "))
		}
	}
	return upd, nil
}
