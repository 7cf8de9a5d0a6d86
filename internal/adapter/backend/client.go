// Package backend is the REST client for the study-buddy tutor API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"study-buddy/internal/config"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/util"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const requestIDHeader = "X-Request-ID"

// Client implements domain.Backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	oauth      oauth2.Config
}

var _ domain.Backend = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is wrapped so every
// request still carries a request id.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		clone.Transport = newRequestIDTransport(hc.Transport)
		c.httpClient = &clone
	}
}

// NewClient creates a client for the backend at cfg.BaseURL.
func NewClient(cfg config.BackendConfig, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newRequestIDTransport(nil),
		},
		oauth: oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// requestIDTransport tags each outgoing request with a fresh ULID.
type requestIDTransport struct {
	base http.RoundTripper
}

func newRequestIDTransport(base http.RoundTripper) *requestIDTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &requestIDTransport{base: base}
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(requestIDHeader) != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(requestIDHeader, util.NewULID())
	return t.base.RoundTrip(r)
}

// call describes one JSON request.
type call struct {
	method string
	path   string
	token  string
	body   any
	out    any
	// public calls happen before a session exists. A 401 there is the server's
	// answer to the form, not an expired session.
	public bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body io.Reader
	var contentType string
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return domain.NewInternalError("failed to encode request", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.send(ctx, cl, body, contentType)
}

func (c *Client) send(ctx context.Context, cl call, body io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return domain.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, util.NewULID())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Get().Warn("backend request failed",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.String("requestID", req.Header.Get(requestIDHeader)),
			zap.Error(err))
		return domain.NewTransportError(err)
	}
	defer resp.Body.Close()

	logger.Get().Debug("backend request",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", resp.StatusCode),
		zap.String("requestID", req.Header.Get(requestIDHeader)),
		zap.Duration("elapsed", time.Since(start)))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data, cl.public)
	}

	if cl.out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		decodeErr := domain.NewBackendError(resp.StatusCode, "Unexpected response from server.")
		decodeErr.Err = err
		return decodeErr
	}
	return nil
}

// statusError maps a non-2xx response onto a domain error.
func statusError(status int, body []byte, public bool) error {
	msg := errorDetail(body)
	if status == http.StatusUnauthorized && !public {
		if msg == "" {
			msg = "Your session has expired. Please log in again."
		}
		return domain.NewUnauthorizedError(msg)
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status %d.", status)
	}
	return domain.NewBackendError(status, msg)
}

// errorDetail extracts the human-readable message from an error body. FastAPI sends
// {"detail": "..."} or, for request validation, {"detail": [{"msg": "..."}]}.
func errorDetail(body []byte) string {
	var resp dto.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	switch d := resp.Detail.(type) {
	case string:
		return d
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok {
					msgs = append(msgs, s)
				}
			}
		}
		return strings.Join(msgs, "; ")
	}
	return resp.Message
}

// asRetrieveError unwraps the oauth2 token endpoint failure.
func asRetrieveError(err error) (*oauth2.RetrieveError, bool) {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
