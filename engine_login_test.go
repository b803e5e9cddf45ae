package sessionrelay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/v7monitor/sessionrelay/bridge"
	"github.com/v7monitor/sessionrelay/gateway"
)

func TestLoginPopulatesScope(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	defer srv.Close()
	e := newTestEngine(t, srv.URL)

	res, err := e.Login(context.Background(), "", "u@x.com", "pw", true)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.State != StateAuthenticated || !res.Authenticated {
		t.Fatalf("expected authenticated, got %+v", res)
	}
	if res.Identity.Username != "trader" || res.Identity.SubscriptionTier != "pro" {
		t.Fatalf("identity mismatch: %+v", res.Identity)
	}
	if res.AccessToken != "access-token-1" {
		t.Fatalf("access token mismatch: %q", res.AccessToken)
	}
	if res.Directive == nil || res.Directive.Mode != bridge.ModeWrite || !res.Directive.Persist {
		t.Fatalf("expected a persistent WRITE directive, got %+v", res.Directive)
	}
	if got := e.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("login success counter = %d", got)
	}
}

func TestLoginWithoutRememberIsEphemeral(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend())
	defer srv.Close()
	e := newTestEngine(t, srv.URL)

	res, err := e.Login(context.Background(), "", "u@x.com", "pw", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Directive.Persist {
		t.Fatal("remember=false must not touch durable tiers")
	}
}

func TestLoginRejectionDoesNotChangeScope(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend())
	defer srv.Close()
	e := newTestEngine(t, srv.URL)
	ctx := context.Background()

	first, err := e.RenderPass(ctx, "")
	if err != nil {
		t.Fatalf("pass: %v", err)
	}

	_, err = e.Login(ctx, first.ScopeID, "u@x.com", "wrong", false)
	if !errors.Is(err, gateway.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if got := e.MetricsSnapshot().Counters[MetricLoginFailure]; got != 1 {
		t.Fatalf("login failure counter = %d", got)
	}

	state, err := e.ScopeState(ctx, first.ScopeID)
	if err != nil {
		t.Fatalf("scope state: %v", err)
	}
	if state == StateAuthenticated {
		t.Fatal("failed login must not authenticate the scope")
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend())
	defer srv.Close()
	e := newTestEngine(t, srv.URL)

	if _, err := e.Login(context.Background(), "", "", "pw", false); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := e.Login(context.Background(), "", "u@x.com", "", false); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestLogoutTearsDownLocallyEvenWhenRevocationFails(t *testing.T) {
	backend := newFakeBackend()
	backend.logoutStatus = http.StatusInternalServerError
	srv := httptest.NewServer(backend)
	defer srv.Close()
	e := newTestEngine(t, srv.URL)
	ctx := context.Background()

	res, err := e.Login(ctx, "", "u@x.com", "pw", true)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := e.Logout(ctx, res.ScopeID)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if out.State != StateAnonymous || out.Authenticated {
		t.Fatalf("expected anonymous, got %+v", out)
	}
	if out.Directive == nil || out.Directive.Mode != bridge.ModeClear {
		t.Fatalf("expected a CLEAR directive, got %+v", out.Directive)
	}
	if out.AccessToken != "" {
		t.Fatal("credentials survived logout")
	}
	if backend.logoutCalls != 1 {
		t.Fatalf("revocation calls = %d", backend.logoutCalls)
	}
	if got := e.MetricsSnapshot().Counters[MetricLogout]; got != 1 {
		t.Fatalf("logout counter = %d", got)
	}
}

func TestLogoutClearIsReissuedUntilDelivered(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	defer srv.Close()
	e := newTestEngine(t, srv.URL)
	ctx := context.Background()

	res, err := e.Login(ctx, "", "u@x.com", "pw", true)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := e.Logout(ctx, res.ScopeID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The caller dropped the logout response; the next pass still clears.
	next, err := e.RenderPass(ctx, res.ScopeID)
	if err != nil {
		t.Fatalf("pass after logout: %v", err)
	}
	if next.Directive == nil || next.Directive.Mode != bridge.ModeClear {
		t.Fatalf("expected the clear to be re-issued, got %+v", next.Directive)
	}

	// After that the scope is stable and quiet.
	settled, err := e.RenderPass(ctx, res.ScopeID)
	if err != nil {
		t.Fatalf("settled pass: %v", err)
	}
	if settled.State != StateAnonymous || settled.Directive != nil {
		t.Fatalf("expected quiet anonymous scope, got %+v", settled)
	}
}
