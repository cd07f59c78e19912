// Package api talks to the trading-journal backend. Every call attaches the
// session's bearer token, and an expired token is recovered transparently:
// one refresh round trip, one resend of the original request, never more.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradelog/tradelog/internal/id"
	"github.com/tradelog/tradelog/session"
)

// Client is the authenticated HTTP client for the journal backend.
type Client struct {
	baseURL    string
	sessions   *session.Store
	httpClient *http.Client
	log        *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the backend at baseURL. The session store
// supplies credentials and absorbs the side effects of token refresh and
// forced logout.
func NewClient(baseURL string, sessions *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logrus.WithField("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one logical API call and decodes a 2xx response into out (out may
// be nil). A 401 on the first attempt triggers the refresh-and-retry path;
// the resend's outcome is returned as-is, so a second 401 propagates to the
// caller untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	resp, raw, err := c.send(ctx, method, path, payload, c.sessions.AccessToken())
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return c.refreshAndResend(ctx, method, path, payload, resp.StatusCode, raw, out)
	}

	return decode(resp.StatusCode, raw, out)
}

// refreshAndResend handles exactly the 401-before-first-retry case: exchange
// the refresh token for a new access token and resend the original request
// once. Any irrecoverable failure tears the session down.
func (c *Client) refreshAndResend(ctx context.Context, method, path string, payload []byte, status int, raw []byte, out any) error {
	refresh := c.sessions.RefreshToken()
	if refresh == "" {
		c.log.Debug("401 with no refresh token, logging out")
		c.sessions.Logout()
		return newError(status, raw)
	}

	access, err := c.refreshAccessToken(ctx, refresh)
	if err != nil {
		c.log.WithError(err).Debug("token refresh failed, logging out")
		c.sessions.Logout()
		return fmt.Errorf("refresh access token: %w", err)
	}
	c.sessions.RefreshTokenSuccess(access)

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	}).Debug("retrying request with refreshed token")

	resp, raw, err := c.send(ctx, method, path, payload, access)
	if err != nil {
		return err
	}
	return decode(resp.StatusCode, raw, out)
}

// refreshAccessToken performs the dedicated, unauthenticated refresh call.
// Concurrent 401s each run their own refresh; the store takes the last
// writer's token.
func (c *Client) refreshAccessToken(ctx context.Context, refresh string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", fmt.Errorf("marshal refresh body: %w", err)
	}

	resp, raw, err := c.send(ctx, http.MethodPost, "/auth/token/refresh/", payload, "")
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newError(resp.StatusCode, raw)
	}

	var body refreshResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if body.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return body.Access, nil
}

// send performs a single HTTP round trip. An empty token sends the request
// unauthenticated.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", id.New())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp, raw, nil
}

// decode turns a completed round trip into the caller's result: 2xx decodes
// into out, anything else becomes an *Error.
func decode(status int, raw []byte, out any) error {
	if status < 200 || status > 299 {
		return newError(status, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
