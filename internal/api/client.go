// Package api is the HTTP client for the Lumière backend. Every response
// is read fully and classified before any caller sees it, so a transport
// failure, a non-2xx status, an empty body and a non-JSON body are always
// distinguishable.
package api

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

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// DefaultBaseURL is the production mobile API.
const DefaultBaseURL = "https://lumieres-mu.vercel.app/api/mobile"

// DefaultLocale is sent with every generation request.
const DefaultLocale = "pt"

// Endpoint paths, relative to the base URL.
const (
	pathLogin    = "/auth/login"
	pathRegister = "/auth/register"
	pathList     = "/recipe/list"
	pathSave     = "/recipe/save"
	pathGenerate = "/ai/generate"
	pathConsult  = "/ai/personal-chef/consult"
	pathVideo    = "/ai/video"
)

// ── Failure classification ───────────────────────────────────────

// FailureKind says how a request failed.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"      // no response (connect, cancel, timeout)
	FailureStatus    FailureKind = "status"         // non-2xx response
	FailureEmptyBody FailureKind = "empty_body"     // 2xx with nothing in it
	FailureMalformed FailureKind = "malformed_body" // 2xx that is not JSON
)

// Error is a classified request failure. Message is always human readable.
// It carries no domain kind of its own: the session manager and the engine
// decide whether it surfaces as a network, authentication or generation
// failure.
type Error struct {
	Kind    FailureKind
	Status  int
	Message string
	Remote  string // message supplied by the backend, "" when none
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the response status, 0 for transport failures.
func (e *Error) HTTPStatus() int { return e.Status }

// BackendMessage returns the error text the backend sent, if any.
func (e *Error) BackendMessage() string { return e.Remote }

// Messages used when the backend does not supply one.
const (
	msgEmptyBody  = "the server returned an empty response (likely a timeout or size limit)"
	msgHTMLBody   = "server error (timeout or 500), try again"
	msgBadBody    = "invalid response from backend"
	msgCanceled   = "request canceled"
	msgTimedOut   = "request timed out"
	msgReadFailed = "could not read the response from backend"
)

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLocale overrides the locale sent to the backend.
func WithLocale(locale string) ClientOption {
	return func(c *Client) {
		if locale != "" {
			c.locale = locale
		}
	}
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(next func() string) ClientOption {
	return func(c *Client) { c.newID = next }
}

// Client talks to the Lumière mobile API.
type Client struct {
	baseURL string
	locale  string
	http    *http.Client
	newID   func() string
	log     *logger.Logger
}

// Compile-time interface checks.
var (
	_ domain.AuthBackend   = (*Client)(nil)
	_ domain.RecipeBackend = (*Client)(nil)
)

// NewClient creates a backend client. baseURL is the API root, e.g.
// "https://lumieres-mu.vercel.app/api/mobile"; an empty value uses
// DefaultBaseURL.
func NewClient(baseURL string, log *logger.Logger, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		locale:  DefaultLocale,
		// AI generation routinely takes longer than a typical API call.
		http:  &http.Client{Timeout: 90 * time.Second},
		newID: uuid.NewString,
		log:   log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Locale returns the locale sent with generation requests.
func (c *Client) Locale() string { return c.locale }

// postJSON marshals payload and POSTs it to path.
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("api: marshal %s payload: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// do performs one exchange and returns the body of a 2xx JSON response.
// Any other outcome is returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.locale)
	reqID := c.newID()
	req.Header.Set("X-Request-ID", reqID)

	c.log.Debug("%s %s (%d bytes, req=%s)", method, path, len(body), reqID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: FailureTransport, Status: resp.StatusCode, Message: msgReadFailed, Err: err}
	}

	c.log.Debug("%s %s -> %d (%d bytes, %s, req=%s)", method, path, resp.StatusCode, len(data),
		time.Since(start).Round(time.Millisecond), reqID)

	if err := classify(resp.StatusCode, data); err != nil {
		c.log.Warn("%s %s failed: %s (kind=%s, req=%s, body=%q)", method, path, err, err.Kind, reqID, truncate(string(data), 100))
		return nil, err
	}
	return data, nil
}

// classify inspects a completed exchange. It returns nil for a 2xx
// response with a JSON body.
func classify(status int, body []byte) *Error {
	trimmed := bytes.TrimSpace(body)

	if status < 200 || status > 299 {
		remote := backendMessage(trimmed)
		msg := remote
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", status)
		}
		return &Error{Kind: FailureStatus, Status: status, Message: msg, Remote: remote}
	}

	if len(trimmed) == 0 {
		return &Error{Kind: FailureEmptyBody, Status: status, Message: msgEmptyBody}
	}

	if !gjson.ValidBytes(trimmed) {
		msg := msgBadBody
		if looksLikeHTML(trimmed) {
			msg = msgHTMLBody
		}
		return &Error{Kind: FailureMalformed, Status: status, Message: msg}
	}
	return nil
}

// backendMessage extracts the error text of a JSON error body.
func backendMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, field := range []string{"error", "message"} {
		if v := gjson.GetBytes(body, field); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return ""
}

func looksLikeHTML(body []byte) bool {
	head := strings.ToLower(string(body[:min(len(body), 256)]))
	return strings.Contains(head, "<!doctype html") || strings.Contains(head, "<html")
}

// transportError converts request failures into user-friendly messages.
func (c *Client) transportError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: FailureTransport, Message: msgCanceled, Err: err}
	}
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: FailureTransport, Message: msgTimedOut, Err: err}
	}
	return &Error{
		Kind:    FailureTransport,
		Message: fmt.Sprintf("cannot connect to backend at %s", c.baseURL),
		Err:     err,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
