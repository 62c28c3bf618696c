// Package npm is a client for the Nginx Proxy Manager REST API.
//
// A Client authenticates lazily with the configured identity, caches the
// bearer token until its expiry and re-authenticates transparently after
// that. When constructed with WithReadonly(true) every mutating call fails
// with an apperr readonly error before any network I/O.
package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hession/npmate/internal/apperr"
)

const (
	pathTokens           = "/api/tokens"
	pathHealth           = "/api/"
	pathProxyHosts       = "/api/nginx/proxy-hosts"
	pathStreams          = "/api/nginx/streams"
	pathRedirectionHosts = "/api/nginx/redirection-hosts"
	pathDeadHosts        = "/api/nginx/dead-hosts"
	pathAccessLists      = "/api/nginx/access-lists"
	pathCertificates     = "/api/nginx/certificates"
	pathUsers            = "/api/users"

	defaultUserAgent = "npmate/0.1"
)

// TokenState is the lifecycle state of the cached bearer token
type TokenState int

const (
	TokenAbsent TokenState = iota
	TokenValid
	TokenExpired
)

func (s TokenState) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "absent"
	}
}

// Client talks to one NPM instance with one identity
type Client struct {
	baseURL    string
	email      string
	password   string
	readonly   bool
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
	now        func() time.Time

	// The token is per instance. mu guards the fields only; concurrent
	// callers that find it expired may each re-authenticate.
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// Option configures a Client
type Option func(*Client)

// WithReadonly blocks every mutating operation
func WithReadonly(readonly bool) Option {
	return func(c *Client) {
		c.readonly = readonly
	}
}

// WithHTTPClient sets the HTTP client used for all requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithClock overrides the time source used for token expiry
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the NPM instance at baseURL
func New(baseURL, email, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		email:      email,
		password:   password,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadOnly reports whether mutating operations are blocked
func (c *Client) ReadOnly() bool {
	return c.readonly
}

// BaseURL returns the NPM base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TokenState reports the state of the cached token at the current time
func (c *Client) TokenState() TokenState {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.token == "":
		return TokenAbsent
	case !c.now().Before(c.expiresAt):
		return TokenExpired
	default:
		return TokenValid
	}
}

type tokenRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

// bearer returns a valid token, authenticating first when absent or expired
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	token, expiresAt, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.token = token
	c.expiresAt = expiresAt
	c.mu.Unlock()

	return token, nil
}

// authenticate exchanges the identity and secret for a token
func (c *Client) authenticate(ctx context.Context) (string, time.Time, error) {
	jsonData, err := json.Marshal(tokenRequest{Identity: c.email, Secret: c.password})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to serialize token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathTokens, bytes.NewReader(jsonData))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, apperr.Auth(0, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, apperr.Auth(resp.StatusCode, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("npm authentication rejected")
		return "", time.Time{}, apperr.Auth(resp.StatusCode, string(body), nil)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", time.Time{}, apperr.Auth(resp.StatusCode, string(body), fmt.Errorf("failed to parse token response: %w", err))
	}
	if tr.Token == "" {
		return "", time.Time{}, apperr.Auth(resp.StatusCode, string(body), fmt.Errorf("token response has no token"))
	}

	// An unparseable expiry leaves the zero time, so the token serves this call only
	expiresAt, err := time.Parse(time.RFC3339, tr.Expires)
	if err != nil {
		c.logger.Warn().Str("expires", tr.Expires).Msg("npm token expiry not RFC3339; token will not be reused")
		expiresAt = time.Time{}
	}

	c.logger.Info().Time("expires", expiresAt).Msg("npm token acquired")
	return tr.Token, expiresAt, nil
}

// guard rejects op when the client is readonly
func (c *Client) guard(op string) error {
	if c.readonly {
		c.logger.Warn().Str("op", op).Msg("blocked in readonly mode")
		return apperr.Readonly(op)
	}
	return nil
}

// do performs one authenticated request and decodes the JSON response into
// out. A 204 or an empty body leaves out untouched.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to serialize request: %w", op, err)
		}
		reader = bytes.NewReader(jsonData)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Str("request_id", requestID).Msg("npm request failed")
		return &apperr.Error{Kind: apperr.KindRemoteAPI, Op: op, Msg: "request failed", Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("npm request")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindRemoteAPI, Op: op, Status: resp.StatusCode, Msg: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Remote(op, resp.StatusCode, string(respBody), nil)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &apperr.Error{Kind: apperr.KindRemoteAPI, Op: op, Status: resp.StatusCode, Body: string(respBody), Msg: "failed to parse response", Err: err}
	}
	return nil
}

// mutate runs the readonly guard and then the request
func (c *Client) mutate(ctx context.Context, op, method, path string, body, out any) error {
	if err := c.guard(op); err != nil {
		return err
	}
	return c.do(ctx, op, method, path, nil, body, out)
}

func itemPath(base string, id int) string {
	return base + "/" + strconv.Itoa(id)
}

func actionPath(base string, id int, action string) string {
	return itemPath(base, id) + "/" + action
}

// expandQuery builds ?expand=a,b for list and get calls
func expandQuery(expand []string) url.Values {
	parts := make([]string, 0, len(expand))
	for _, e := range expand {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, e)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return url.Values{"expand": {strings.Join(parts, ",")}}
}
