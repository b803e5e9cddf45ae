package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUserAgent = "sessionrelay-data/1"

const maxResponseBody = 4 << 20

// SessionSource supplies authentication for one scope. The engine
// satisfies it.
type SessionSource interface {
	AuthHeaders(ctx context.Context, scopeID string) (map[string]string, error)
	RefreshAccess(ctx context.Context, scopeID string) (string, error)
}

// APIError is a non-2xx response from a data endpoint, message verbatim
// from the server where it provided one.
type APIError struct {
	Status  int
	Message string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}

// Config wires the data backend base URL and transport.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client issues authenticated JSON requests on behalf of a scope. It is
// safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	source     SessionSource
}

// New validates the configuration and returns a ready-to-use Client.
func New(cfg Config, source SessionSource) (*Client, error) {
	if source == nil {
		return nil, errors.New("apiclient: session source required")
	}
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

	return &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		userAgent:  ua,
		source:     source,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("apiclient: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("apiclient: invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("apiclient: base URL must include scheme and host")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

// do issues one bounded request, retrying exactly once through a token
// refresh when the first answer is a 401.
func (c *Client) do(
	ctx context.Context,
	scopeID, method, path string,
	query url.Values,
	payload any,
	timeout time.Duration,
) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	headers, err := c.source.AuthHeaders(ctx, scopeID)
	if err != nil {
		return nil, err
	}

	status, body, err := c.roundTrip(ctx, method, path, query, payload, headers)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		token, refreshErr := c.source.RefreshAccess(ctx, scopeID)
		if refreshErr != nil {
			return nil, refreshErr
		}
		headers["Authorization"] = "Bearer " + token
		status, body, err = c.roundTrip(ctx, method, path, query, payload, headers)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status > 299 {
		return nil, decodeAPIError(status, body)
	}
	return json.RawMessage(body), nil
}

func (c *Client) roundTrip(
	ctx context.Context,
	method, path string,
	query url.Values,
	payload any,
	headers map[string]string,
) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func decodeAPIError(status int, body []byte) error {
	e := &APIError{Status: status}
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			e.Message = payload.Detail
		} else if payload.Error != "" {
			e.Message = payload.Error
		}
	}
	return e
}
