// Package api implements the HTTP transport under every backend call:
// bearer-credential attachment, the 401 refresh-and-retry protocol, and the
// mapping of all network failures onto a small error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/foliotrack/folio/internal/client/credentials"
	"github.com/foliotrack/folio/internal/logging"
)

const refreshPath = "/auth/refresh"

// DefaultTimeout bounds a single request round trip unless the caller
// supplies its own http.Client.
const DefaultTimeout = 30 * time.Second

// Client is the single transport shared by all domain services. It holds no
// token copy beyond the duration of one request; the credentials.Store is
// the only owner of the pair.
type Client struct {
	baseURL string
	http    *http.Client
	creds   credentials.Store
	log     logging.Logger

	// refresh collapses concurrent 401-triggered refresh attempts into one
	// in-flight call; late arrivals wait for its result.
	refresh singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (timeouts, transport).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a transport for the given versioned base URL, e.g.
// "https://api.example.com/api/v1".
func New(baseURL string, creds credentials.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		creds:   creds,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "api")
	return c
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Body   []byte
}

func is2xx(status int) bool { return status >= 200 && status < 300 }

// Do performs one request with the full protocol: attach the stored access
// token, send, and on 401 refresh the pair once and retry the original
// request exactly once. The retried response is returned as-is; a retry that
// yields another 401 is surfaced without a second refresh attempt. Any
// non-2xx outcome is mapped to *Error.
func (c *Client) Do(ctx context.Context, method, path string, body any, query url.Values) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	token, err := credentials.AccessToken(ctx, c.creds)
	if err != nil {
		return nil, fmt.Errorf("reading stored credentials: %w", err)
	}

	requestID := uuid.NewString()

	resp, err := c.send(ctx, method, path, payload, query, token, requestID)
	if err != nil {
		return nil, classify(err)
	}

	if resp.Status == http.StatusUnauthorized {
		newToken, refreshErr := c.refreshCredential(ctx, token)
		if refreshErr != nil {
			// Forced logout: the store was cleared by refreshCredential,
			// the original 401 is surfaced to the caller.
			c.log.Warn(ctx, "token refresh failed, session ended",
				"request_id", requestID, "error", refreshErr.Error())
			return nil, newStatusError(resp.Status, resp.Body)
		}

		resp, err = c.send(ctx, method, path, payload, query, newToken, requestID)
		if err != nil {
			return nil, classify(err)
		}
	}

	if !is2xx(resp.Status) {
		return nil, newStatusError(resp.Status, resp.Body)
	}
	return resp, nil
}

// DoJSON performs Do and decodes a 2xx body into out (skipped when out is
// nil or the body is empty).
func (c *Client) DoJSON(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	resp, err := c.Do(ctx, method, path, body, query)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.DoJSON(ctx, http.MethodGet, path, nil, query, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.DoJSON(ctx, http.MethodPost, path, body, nil, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.DoJSON(ctx, http.MethodPut, path, body, nil, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.DoJSON(ctx, http.MethodPatch, path, body, nil, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.DoJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// send issues one HTTP round trip and reads the body in full.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, query url.Values, token, requestID string) (*Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.log.Debug(ctx, "request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	return &Response{Status: resp.StatusCode, Body: data}, nil
}

type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// refreshCredential rotates the token pair using the stored refresh token and
// returns the new access token. Concurrent callers share one in-flight
// refresh call and receive the same result; a caller whose 401 was observed
// with a token that has since been rotated reuses the stored pair instead of
// refreshing again. On any failure the store is cleared: the session cannot
// be recovered without a new login.
func (c *Client) refreshCredential(ctx context.Context, staleToken string) (string, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		token, err := c.doRefresh(ctx, staleToken)
		if err != nil {
			if clearErr := c.creds.Clear(ctx); clearErr != nil {
				c.log.Error(ctx, "failed to clear credentials after refresh failure",
					"error", clearErr.Error())
			}
			return "", err
		}
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) doRefresh(ctx context.Context, staleToken string) (string, error) {
	cred, err := c.creds.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("reading stored credentials: %w", err)
	}
	if cred == nil || cred.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token stored")
	}
	if cred.AccessToken != "" && cred.AccessToken != staleToken {
		// The pair was already rotated after this caller's 401 was observed.
		return cred.AccessToken, nil
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": cred.RefreshToken})
	if err != nil {
		return "", err
	}

	// The refresh call bypasses Do: it must never trigger another refresh.
	resp, err := c.send(ctx, http.MethodPost, refreshPath, payload, nil, "", uuid.NewString())
	if err != nil {
		return "", classify(err)
	}
	if !is2xx(resp.Status) {
		return "", newStatusError(resp.Status, resp.Body)
	}

	var pair tokenPayload
	if err := json.Unmarshal(resp.Body, &pair); err != nil {
		return "", fmt.Errorf("decoding refresh response: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return "", fmt.Errorf("refresh response missing token pair")
	}

	// Persist the pair before any caller retries with it.
	if err := c.creds.Save(ctx, credentials.Credential{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}); err != nil {
		return "", fmt.Errorf("persisting refreshed credentials: %w", err)
	}

	c.log.Info(ctx, "access token refreshed")
	return pair.AccessToken, nil
}
