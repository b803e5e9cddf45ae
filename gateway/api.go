package gateway

import "context"

// User is the denormalized identity record returned alongside credentials.
// It is presentational only and never used as an authorization input.
type User struct {
	Email            string `json:"email"`
	Username         string `json:"username"`
	SubscriptionTier string `json:"subscription_tier"`
	UserID           string `json:"user_id"`
}

// Credentials is the artifact bundle minted by a successful login or
// session verification: a short-lived access token, its paired refresh
// token, the opaque session identifier, and the identity record.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	User         User   `json:"user"`
}

// RefreshResult is returned by the legacy refresh path. The backend may or
// may not rotate the session identifier.
type RefreshResult struct {
	AccessToken string `json:"access_token"`
	SessionID   string `json:"session_id,omitempty"`
}

// Login exchanges email and password for a fresh credential bundle. Both
// fields are required; an empty field fails before any network call. A 4xx
// response surfaces the server's detail message verbatim as an
// [ErrAuthRejected] failure.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var creds Credentials
	if err := c.postJSON(ctx, "/auth/login", c.cfg.LoginTimeout, payload, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// VerifySession exchanges a stored session identifier for a fresh credential
// bundle. The refresh token is optional and merely strengthens the check.
// The call is always a state-changing POST: it is logically equivalent to
// presenting a bearer credential and must never ride in a URL or cached GET.
//
// The backend answers 200 with success:false for a revoked or unknown
// session; that is an [ErrAuthRejected] failure carrying the server's
// error string, not a transport problem.
func (c *Client) VerifySession(ctx context.Context, sessionID, refreshToken string) (*Credentials, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	payload := struct {
		SessionID    string `json:"session_id"`
		RefreshToken string `json:"refresh_token,omitempty"`
	}{SessionID: sessionID, RefreshToken: refreshToken}

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Credentials
	}
	if err := c.postJSON(ctx, "/auth/verify-session", c.cfg.VerifyTimeout, payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "session rejected"
		}
		return nil, &Failure{Kind: ErrAuthRejected, Status: 200, Message: msg}
	}
	return &resp.Credentials, nil
}

// Logout notifies the server to revoke the session record. It is
// best-effort: the returned error exists for logging only and must never
// block local state teardown.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	payload := struct {
		RefreshToken string `json:"refresh_token,omitempty"`
	}{RefreshToken: refreshToken}

	return c.postJSON(ctx, "/auth/logout", c.cfg.LogoutTimeout, payload, nil)
}

// Refresh mints a new access token via the legacy refresh endpoint. The
// verify-session path supersedes it, but the endpoint remains callable for
// backward compatibility and is what the API client retries 401s through.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, &Failure{Kind: ErrAuthRejected, Message: "refresh token required"}
	}

	payload := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}

	var out RefreshResult
	if err := c.postJSON(ctx, "/auth/refresh", c.cfg.RefreshTimeout, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
