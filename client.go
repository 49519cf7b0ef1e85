package semaphore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	// DefaultAPIPath is the path of the REST API below the server host.
	DefaultAPIPath = "/api"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "X-Request-ID"
)

// RetryConfig configures automatic retry behavior for transient failures.
// Retries are disabled unless WithRetry is given.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3).
	MaxRetries int
	// InitialBackoff is the initial backoff duration (default: 100ms).
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration (default: 5s).
	MaxBackoff time.Duration
	// Multiplier is the backoff multiplier (default: 2.0).
	Multiplier float64
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
	}
}

// Client is a Semaphore UI API client.
//
// A Client is safe for concurrent use; the session is the only state shared
// between calls.
type Client struct {
	host         string
	apiPath      string
	endpoint     string
	userAgent    string
	httpClient   *http.Client
	retryConfig  *RetryConfig
	logger       *slog.Logger
	sessionStore SessionStore

	session   *Session
	sessionMu sync.RWMutex
}

// Option configures a Client.
type Option func(*Client)

// WithAPIPath sets the API path below the host (default "/api").
// A missing leading slash is added.
func WithAPIPath(path string) Option {
	return func(c *Client) {
		c.apiPath = path
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP request timeout.
// This option can be applied in any order relative to other options.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithRetry enables automatic retry with the given configuration.
// Retries are attempted on rate limits (429), server errors (5xx), and timeouts.
func WithRetry(config *RetryConfig) Option {
	return func(c *Client) {
		c.retryConfig = config
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAPIToken authenticates every request with an API token
// (Authorization: Bearer) instead of a login session.
func WithAPIToken(token string) Option {
	return func(c *Client) {
		if token == "" {
			return
		}
		c.session = &Session{APIToken: token, CreatedAt: time.Now()}
	}
}

// WithSessionStore persists the session across processes. NewClient restores
// a stored session, Login and UseAPIToken save it, Logout deletes it.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) {
		c.sessionStore = store
	}
}

// NewClient creates a new Semaphore API client for the server at host,
// e.g. "https://semaphore.example.com".
// Returns ErrEmptyHost if host is empty and ErrInvalidHost if it is not an
// absolute http(s) URL.
func NewClient(host string, opts ...Option) (*Client, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, ErrEmptyHost
	}
	u, err := url.Parse(host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}

	c := &Client{
		host:       host,
		apiPath:    DefaultAPIPath,
		userAgent:  "semaphore-go/" + Version,
		httpClient: defaultHTTPClient(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if !strings.HasPrefix(c.apiPath, "/") {
		c.apiPath = "/" + c.apiPath
	}
	c.endpoint = c.host + strings.TrimRight(c.apiPath, "/")

	if c.session == nil && c.sessionStore != nil {
		if s, err := c.sessionStore.LoadSession(context.Background()); err == nil && s.Valid() {
			c.session = s
		} else if err != nil && !errors.Is(err, ErrNoSession) && c.logger != nil {
			c.logger.Warn("failed to restore session", slog.String("error", err.Error()))
		}
	}

	return c, nil
}

// defaultHTTPClient returns the default HTTP client configuration.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
		},
	}
}

// Endpoint returns the API endpoint URL, host plus API path.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Host returns the server host URL without the API path.
func (c *Client) Host() string {
	return c.host
}

// response is a completed 2xx exchange.
type response struct {
	statusCode int
	header     http.Header
	cookies    []*http.Cookie
	body       []byte
}

// send performs a single HTTP exchange. When authenticated is true the
// current session is attached and its absence fails with ErrNotAuthenticated
// before any network I/O.
func (c *Client) send(ctx context.Context, method, path string, body any, authenticated bool) (*response, error) {
	var sess *Session
	if authenticated {
		sess = c.currentSession()
		if sess == nil {
			return nil, ErrNotAuthenticated
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("semaphore: failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("semaphore: failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		sess.apply(req)
	}

	c.LogRequest(ctx, method, path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.LogResponse(ctx, method, path, 0, time.Since(start), err)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.LogResponse(ctx, method, path, resp.StatusCode, time.Since(start), err)
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.handleError(method, path, resp.StatusCode, respBody, requestID)
		c.LogResponse(ctx, method, path, resp.StatusCode, time.Since(start), apiErr)
		return nil, apiErr
	}
	c.LogResponse(ctx, method, path, resp.StatusCode, time.Since(start), nil)

	return &response{
		statusCode: resp.StatusCode,
		header:     resp.Header,
		cookies:    resp.Cookies(),
		body:       respBody,
	}, nil
}

// do performs an authenticated request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	resp, err := c.send(ctx, method, path, body, true)
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// handleError converts a non-2xx response to an *APIError.
func (c *Client) handleError(method, path string, statusCode int, body []byte, requestID string) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
		RequestID:  requestID,
	}

	// Semaphore reports failures as {"error": "..."}; some handlers use "message".
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	switch {
	case json.Unmarshal(body, &errResp) == nil && errResp.Error != "":
		apiErr.Message = errResp.Error
	case errResp.Message != "":
		apiErr.Message = errResp.Message
	case len(bytes.TrimSpace(body)) > 0:
		apiErr.Message = truncatePreview(bytes.TrimSpace(body))
	default:
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}

// Is allows errors.Is to match the sentinel for well-known status codes
// while the *APIError keeps the status code and message.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.doWithRetry(ctx, http.MethodGet, path, nil)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.doWithRetry(ctx, http.MethodPost, path, body)
}

// put performs a PUT request.
func (c *Client) put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.doWithRetry(ctx, http.MethodPut, path, body)
}

// delete performs a DELETE request.
func (c *Client) delete(ctx context.Context, path string) ([]byte, error) {
	return c.doWithRetry(ctx, http.MethodDelete, path, nil)
}

// doWithRetry performs a request with automatic retry on transient failures.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c.retryConfig == nil {
		return c.do(ctx, method, path, body)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryConfig.InitialBackoff
	b.MaxInterval = c.retryConfig.MaxBackoff
	b.Multiplier = c.retryConfig.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}

	var maxRetries uint64
	if c.retryConfig.MaxRetries > 0 {
		maxRetries = uint64(c.retryConfig.MaxRetries)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)

	var data []byte
	operation := func() error {
		d, err := c.do(ctx, method, path, body)
		if err != nil {
			// Only retry on transient errors
			if !c.isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		data = d
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return data, nil
}

// isRetryable returns true if the error is a transient failure worth retrying.
func (c *Client) isRetryable(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) {
		return false
	}
	if IsTimeout(err) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		// Retry on 5xx server errors
		return apiErr.StatusCode >= 500 && apiErr.StatusCode < 600
	}
	return false
}
