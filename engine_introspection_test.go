package sessionrelay

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthHeadersForAuthenticatedScope(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend())
	defer srv.Close()
	e := newTestEngine(t, srv.URL)
	ctx := context.Background()

	res, err := e.Login(ctx, "", "u@x.com", "pw", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	headers, err := e.AuthHeaders(ctx, res.ScopeID)
	if err != nil {
		t.Fatalf("auth headers: %v", err)
	}
	if headers["Authorization"] != "Bearer access-token-1" {
		t.Fatalf("unexpected headers: %v", headers)
	}
}

func TestIntrospectionRequiresAuthentication(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend())
	defer srv.Close()
	e := newTestEngine(t, srv.URL)
	ctx := context.Background()

	first, err := e.RenderPass(ctx, "")
	if err != nil {
		t.Fatalf("pass: %v", err)
	}

	if _, err := e.AuthHeaders(ctx, first.ScopeID); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := e.Identity(ctx, first.ScopeID); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := e.AccessTokenExpiry(ctx, first.ScopeID); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAccessTokenExpiryReadsExpClaim(t *testing.T) {
	exp := time.Now().Add(45 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("backend-only-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	backend := newFakeBackend()
	backend.creds.AccessToken = signed
	srv := httptest.NewServer(backend)
	defer srv.Close()
	e := newTestEngine(t, srv.URL)
	ctx := context.Background()

	res, err := e.Login(ctx, "", "u@x.com", "pw", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	got, err := e.AccessTokenExpiry(ctx, res.ScopeID)
	if err != nil {
		t.Fatalf("expiry: %v", err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry = %v, want %v", got, exp)
	}
}

func TestAccessTokenExpiryOpaqueToken(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend())
	defer srv.Close()
	e := newTestEngine(t, srv.URL)
	ctx := context.Background()

	// The default fake token is not a JWT at all.
	res, err := e.Login(ctx, "", "u@x.com", "pw", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := e.AccessTokenExpiry(ctx, res.ScopeID); !errors.Is(err, ErrTokenUnreadable) {
		t.Fatalf("expected ErrTokenUnreadable, got %v", err)
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newFakeBackend())
	defer srv.Close()
	e := newTestEngine(t, srv.URL)
	ctx := context.Background()

	res, err := e.Login(ctx, "", "u@x.com", "pw", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	id, err := e.Identity(ctx, res.ScopeID)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if id.UserID != "u-1" || id.Email != "u@x.com" {
		t.Fatalf("identity mismatch: %+v", id)
	}
}
