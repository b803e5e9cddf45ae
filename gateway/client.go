package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUserAgent = "sessionrelay/1"

const maxResponseBody = 1 << 20

// Config wires the backend base URL, transport, and per-call timeouts.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string

	// Login tolerates the longest wait since it is a deliberate user
	// action; logout must never delay local teardown.
	LoginTimeout   time.Duration
	VerifyTimeout  time.Duration
	LogoutTimeout  time.Duration
	RefreshTimeout time.Duration
}

// DefaultConfig returns the timeout spread used when the caller does not
// override it.
func DefaultConfig() Config {
	return Config{
		LoginTimeout:   30 * time.Second,
		VerifyTimeout:  15 * time.Second,
		LogoutTimeout:  5 * time.Second,
		RefreshTimeout: 5 * time.Second,
	}
}

// Client is the credential gateway. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	cfg        Config
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	normalized, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	defaults := DefaultConfig()
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = defaults.LoginTimeout
	}
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = defaults.VerifyTimeout
	}
	if cfg.LogoutTimeout <= 0 {
		cfg.LogoutTimeout = defaults.LogoutTimeout
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = defaults.RefreshTimeout
	}

	return &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		userAgent:  ua,
		cfg:        cfg,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("gateway: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("gateway: invalid base URL: %w", err)
	}
	if u.Scheme == "" {
		return "", errors.New("gateway: base URL missing scheme (http/https)")
	}
	if u.Host == "" {
		return "", errors.New("gateway: base URL missing host")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

// postJSON issues one bounded POST and decodes a 2xx body into out. Non-2xx
// and transport errors come back classified as *Failure.
func (c *Client) postJSON(ctx context.Context, path string, timeout time.Duration, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return classifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeFailure(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Failure{Kind: ErrServerError, Status: resp.StatusCode, Message: "malformed response body"}
	}
	return nil
}

func classifyTransport(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: ErrTimeout}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &Failure{Kind: ErrTimeout}
	case errors.Is(err, context.Canceled):
		return err
	default:
		return &Failure{Kind: ErrConnection}
	}
}

// decodeFailure extracts the server's own wording for 4xx rejections. The
// backend reports validation and credential errors as {"detail": "..."}.
func decodeFailure(status int, body []byte) error {
	f := &Failure{Status: status}
	if status >= 500 {
		f.Kind = ErrServerError
		return f
	}
	f.Kind = ErrAuthRejected

	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			f.Message = payload.Detail
		} else if payload.Error != "" {
			f.Message = payload.Error
		}
	}
	if f.Message == "" {
		f.Message = fmt.Sprintf("HTTP %d", status)
	}
	return f
}
