// Package client is the HTTP gateway the browser-facing layer uses to reach
// the REST API: bearer-token injection, forced logout on 401 and JSON/empty
// body handling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// DefaultBaseURL is used when no API base is configured.
const DefaultBaseURL = "http://localhost:8081"

// ErrSessaoExpirada signals that the server rejected the bearer token. The
// operation is terminal, not retryable: the session has already been torn
// down when this error is returned.
var ErrSessaoExpirada = errors.New("Sessão expirada. Faça login novamente.")

// APIError carries a non-2xx response: the body text when the server sent
// one, otherwise the status line.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("Erro %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Session holds the bearer token shared by the gateway and the UI tree. It
// is passed by reference so logout tears down every holder at once.
type Session struct {
	mu    sync.Mutex
	token string
}

// NewSession wraps an issued token.
func NewSession(token string) *Session {
	return &Session{token: token}
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken replaces the bearer token after a fresh login.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear discards the token.
func (s *Session) Clear() {
	s.SetToken("")
}

// Options configures one request. Zero value means GET with no body.
type Options struct {
	Method  string
	Body    any
	Headers map[string]string
}

// Gateway wraps the REST API. Each call is independent and fire-once: no
// retry, no deduplication, and timeouts are whatever the underlying
// http.Client imposes. Cancellation is the caller's context.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	onLogout   func()
}

// New constructs a gateway. onLogout runs exactly once per 401 response,
// after the session token has been cleared; it may be nil.
func New(baseURL string, session *Session, onLogout func()) *Gateway {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if session == nil {
		session = NewSession("")
	}
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		session:    session,
		onLogout:   onLogout,
	}
}

// Request performs one API call and returns the raw JSON payload. A 2xx
// response with an empty body or a non-JSON content type yields nil. On 401
// the session is cleared, the logout callback fires and ErrSessaoExpirada is
// returned without touching the body.
func (g *Gateway) Request(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil && method != http.MethodGet {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	if token := g.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		g.session.Clear()
		if g.onLogout != nil {
			g.onLogout()
		}
		return nil, ErrSessaoExpirada
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, nil
	}
	return json.RawMessage(payload), nil
}

// Do performs a call and decodes the JSON payload into out when both are
// present.
func (g *Gateway) Do(ctx context.Context, method, endpoint string, body, out any) error {
	payload, err := g.Request(ctx, endpoint, Options{Method: method, Body: body})
	if err != nil {
		return err
	}
	if out == nil || payload == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}
