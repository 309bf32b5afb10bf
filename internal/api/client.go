// Package api implements the platform's HTTP contracts: the prompt
// source consumed at session start, and the submission client that saves
// finished sessions and fetches their analysis.
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

	"github.com/google/uuid"

	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/report"
	"github.com/psyprep/psyprep/internal/session"
)

const defaultTimeout = 15 * time.Second

// Client talks to the practice platform's REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ session.PromptSource = (*Client)(nil)
var _ session.Submitter = (*Client)(nil)

// promptSetPayload mirrors the prompt-source response body.
type promptSetPayload struct {
	Prompts []string `json:"prompts"`
}

// FetchPrompts retrieves the prompt sequence for an exercise kind. The
// payload is schema-validated: empty or malformed bodies are an error.
func (c *Client) FetchPrompts(ctx context.Context, kind exercise.Kind) ([]string, error) {
	url := fmt.Sprintf("%s/api/v1/exercises/%s/prompts", c.baseURL, kind)
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	if err := validatePromptPayload(body); err != nil {
		return nil, err
	}

	var payload promptSetPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ErrMalformedPayload{Body: body, Err: err}
	}
	return payload.Prompts, nil
}

// saveSessionRequest is the submission body.
type saveSessionRequest struct {
	Exercise  exercise.Kind      `json:"exercise"`
	Responses []session.Response `json:"responses"`
}

// saveSessionResponse carries the server-assigned identifier.
type saveSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SaveSession posts the finished session and returns the identifier
// assigned by the server.
func (c *Client) SaveSession(ctx context.Context, kind exercise.Kind, responses []session.Response) (string, error) {
	reqBody, err := json.Marshal(saveSessionRequest{Exercise: kind, Responses: responses})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	url := c.baseURL + "/api/v1/sessions"
	body, err := c.do(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return "", err
	}

	var payload saveSessionResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &ErrMalformedPayload{Body: body, Err: err}
	}
	if payload.SessionID == "" {
		return "", &ErrMalformedPayload{Body: body, Err: fmt.Errorf("missing session_id")}
	}
	return payload.SessionID, nil
}

// AnalyzeSession requests the AI feedback report for a saved session.
// The report is opaque to the session core.
func (c *Client) AnalyzeSession(ctx context.Context, sessionID string) (*report.Report, error) {
	url := fmt.Sprintf("%s/api/v1/sessions/%s/analysis", c.baseURL, sessionID)
	body, err := c.do(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}

	var r report.Report
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, &ErrMalformedPayload{Body: body, Err: err}
	}
	return &r, nil
}

// do issues an authenticated request and classifies non-2xx statuses
// into the package's typed errors.
func (c *Client) do(ctx context.Context, method, url string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Correlates client requests in server logs; retries get fresh IDs.
	req.Header.Set("X-Request-ID", uuid.NewString())

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &ErrUnauthorized{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ErrServer{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}
