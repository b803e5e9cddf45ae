package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Per-endpoint timeouts. The analysis endpoint runs a model server-side
// and is allowed the longest wait.
const (
	analyzeTimeout  = 30 * time.Second
	signalsTimeout  = 15 * time.Second
	vixTimeout      = 15 * time.Second
	treasuryTimeout = 10 * time.Second
)

// AnalyzeV7 runs the V7 analysis for the given request payload.
func (c *Client) AnalyzeV7(ctx context.Context, scopeID string, request any) (json.RawMessage, error) {
	return c.do(ctx, scopeID, http.MethodPost, "/analyze/v7", nil, request, analyzeTimeout)
}

// SignalsToday fetches the signals recorded today for the scope's user.
func (c *Client) SignalsToday(ctx context.Context, scopeID string) (json.RawMessage, error) {
	return c.do(ctx, scopeID, http.MethodGet, "/signals/today", nil, nil, signalsTimeout)
}

// SaveSignal stores one signal record.
func (c *Client) SaveSignal(ctx context.Context, scopeID string, signal any) (json.RawMessage, error) {
	return c.do(ctx, scopeID, http.MethodPost, "/signals", nil, signal, signalsTimeout)
}

// VIXToday fetches the current day's VIX reading.
func (c *Client) VIXToday(ctx context.Context, scopeID string) (json.RawMessage, error) {
	return c.do(ctx, scopeID, http.MethodGet, "/market/vix/today", nil, nil, vixTimeout)
}

// VIXHistory fetches the VIX series for the trailing number of days.
func (c *Client) VIXHistory(ctx context.Context, scopeID string, days int) (json.RawMessage, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	return c.do(ctx, scopeID, http.MethodGet, "/market/vix/history", q, nil, vixTimeout)
}

// TreasuryYield fetches the latest treasury yield curve points.
func (c *Client) TreasuryYield(ctx context.Context, scopeID string) (json.RawMessage, error) {
	return c.do(ctx, scopeID, http.MethodGet, "/market/treasury-yield", nil, nil, treasuryTimeout)
}
