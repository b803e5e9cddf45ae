//go:build integration
// +build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	sessionrelay "github.com/v7monitor/sessionrelay"
	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/gateway"
)

var integrationSID = strings.Repeat("i", 24)

// backend is a one-account credential service used by the scenarios.
type backend struct {
	mu           sync.Mutex
	creds        gateway.Credentials
	verifyCalls  int
	rejectVerify bool
}

func newBackend() *backend {
	return &backend{
		creds: gateway.Credentials{
			AccessToken:  "integration-access",
			RefreshToken: "integration-refresh",
			SessionID:    integrationSID,
			User: gateway.User{
				Email:            "it@x.com",
				Username:         "integration",
				SubscriptionTier: "pro",
				UserID:           "it-1",
			},
		},
	}
}

func (b *backend) VerifyCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.verifyCalls
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.URL.Path {
	case "/auth/login":
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != b.creds.User.Email || body.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(b.creds)

	case "/auth/verify-session":
		b.verifyCalls++
		var body struct {
			SessionID string `json:"session_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if b.rejectVerify || body.SessionID != b.creds.SessionID {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "session not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(struct {
			Success bool `json:"success"`
			gateway.Credentials
		}{Success: true, Credentials: b.creds})

	case "/auth/logout":
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newBackendServer(t *testing.T, b *backend) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return srv
}

func newIntegrationRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

// relay is a sessionrelay engine mounted behind a real HTTP server, so the
// report callback travels the same path it would in production.
type relay struct {
	engine *sessionrelay.Engine
	server *httptest.Server
}

func newRelay(t *testing.T, rdb *redis.Client, backendURL string) *relay {
	t.Helper()

	cfg := sessionrelay.Config{}
	cfg.Gateway.BaseURL = backendURL

	engine, err := sessionrelay.New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	mux := http.NewServeMux()
	mux.Handle(engine.BridgeConfig().CallbackPath, engine.ReportHandler())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &relay{engine: engine, server: srv}
}

// postReport delivers a browser report through the HTTP callback rather than
// the in-process buffer.
func (rl *relay) postReport(t *testing.T, r bridge.Report) {
	t.Helper()

	payload, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	resp, err := http.Post(
		rl.server.URL+rl.engine.BridgeConfig().CallbackPath,
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		t.Fatalf("post report: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("report callback status = %d", resp.StatusCode)
	}
}

// pump runs one render pass, executes the directive against the emulated
// browser, and posts any resulting report back over HTTP.
func (rl *relay) pump(t *testing.T, browser *bridge.MemoryBrowser, scopeID string) *sessionrelay.PassResult {
	t.Helper()

	res, err := rl.engine.RenderPass(context.Background(), scopeID)
	if err != nil {
		t.Fatalf("render pass: %v", err)
	}
	if res.Directive != nil {
		browser.Exec(res.ScopeID, rl.engine.BridgeConfig().StorageKey, *res.Directive)
	}
	for {
		r, ok := browser.NextReport()
		if !ok {
			break
		}
		rl.postReport(t, r)
	}
	return res
}
