// Package apiclient handles HTTP communication with the community backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ruta66/motoclub/internal/events"
)

// CredentialSource supplies the bearer token for authenticated requests and the
// one-shot recovery path when the backend rejects it.
type CredentialSource interface {
	// AccessToken returns the current access token, or "" when none is held.
	AccessToken() string
	// Refresh attempts to mint a new access token. ok is false when the
	// session could not be recovered; the source handles its own teardown.
	Refresh(ctx context.Context) (token string, ok bool)
}

type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	bus     *events.Bus
	log     zerolog.Logger
}

func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SetCredentials wires in the session after construction; the session itself
// uses this client for its login and refresh calls.
func (c *Client) SetCredentials(creds CredentialSource) {
	c.creds = creds
}

// SetEvents makes mutation calls publish data-changed signals on bus.
func (c *Client) SetEvents(bus *events.Bus) {
	c.bus = bus
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveMediaURL turns a backend-relative media path (logos, profile pictures)
// into an absolute URL. Absolute URLs pass through untouched.
func (c *Client) ResolveMediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) publish(kind events.Kind) {
	if c.bus != nil {
		c.bus.Publish(events.Event{Kind: kind})
	}
}

// do issues a request. When authed, the current access token is attached; on a
// 401 the credential source is asked to refresh exactly once and the request is
// retried with the new token. If the refresh fails the original 401 response is
// returned untouched.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	token := ""
	if authed && c.creds != nil {
		token = c.creds.AccessToken()
	}

	resp, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return nil, err
	}

	if authed && resp.StatusCode == http.StatusUnauthorized && c.creds != nil {
		newToken, ok := c.creds.Refresh(ctx)
		if !ok {
			return resp, nil
		}
		c.log.Debug().Str("path", path).Msg("retrying request with refreshed token")
		resp.Body.Close()
		return c.send(ctx, method, path, payload, newToken)
	}

	return resp, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.http.Do(req)
}

// doJSON runs do and decodes a 2xx body into out (which may be nil). Non-2xx
// responses become an *APIError carrying the parsed backend error body.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, authed bool) error {
	resp, err := c.do(ctx, method, path, body, authed)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any, authed bool) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out, authed)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any, authed bool) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out, authed)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any, authed bool) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out, authed)
}
