package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the reel authentication service.
// It runs the unauthenticated ceremonies and hands out Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSession resumes a session from a stored token. The expiry is unknown
// until Status or Refresh is called.
func (c *SDKClient) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// StartRegistration begins a passkey registration for handle.
func (c *SDKClient) StartRegistration(ctx context.Context, handle, email string) (*RegisterStartResponse, error) {
	var out RegisterStartResponse
	req := RegisterStartRequest{Handle: handle, Email: email}
	if err := c.call(ctx, http.MethodPost, "/auth/webauthn/register/start", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinishRegistration completes a registration and signs the new user in.
func (c *SDKClient) FinishRegistration(ctx context.Context, req RegisterFinishRequest) (*Session, error) {
	return c.finish(ctx, "/auth/webauthn/register/finish", req)
}

// StartLogin begins a passkey login for an existing handle.
func (c *SDKClient) StartLogin(ctx context.Context, handle string) (*LoginStartResponse, error) {
	var out LoginStartResponse
	req := LoginStartRequest{Handle: handle}
	if err := c.call(ctx, http.MethodPost, "/auth/webauthn/login/start", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinishLogin submits the assertion from navigator.credentials.get().
func (c *SDKClient) FinishLogin(ctx context.Context, req LoginFinishRequest) (*Session, error) {
	return c.finish(ctx, "/auth/webauthn/login/finish", req)
}

// StartEmailLogin sends a one-time code to email.
func (c *SDKClient) StartEmailLogin(ctx context.Context, email string) (*EmailStartResponse, error) {
	var out EmailStartResponse
	req := EmailStartRequest{Email: email}
	if err := c.call(ctx, http.MethodPost, "/auth/email/start", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinishEmailLogin exchanges the code for a session.
func (c *SDKClient) FinishEmailLogin(ctx context.Context, challenge, code string) (*Session, error) {
	return c.finish(ctx, "/auth/email/finish", EmailFinishRequest{Challenge: challenge, Code: code})
}

func (c *SDKClient) finish(ctx context.Context, path string, req any) (*Session, error) {
	var out SessionResponse
	if err := c.call(ctx, http.MethodPost, path, "", req, &out); err != nil {
		return nil, err
	}
	return newSession(c, &out), nil
}
