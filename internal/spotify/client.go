package spotify

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

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sona/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
	DefaultAuthURL  = "https://accounts.spotify.com/authorize"
)

// ClientOpts configures a [Client]. Zero values fall back to the Spotify defaults.
type ClientOpts struct {
	BaseURL     string
	TokenURL    string
	AccessToken string
	HTTPClient  *http.Client
	Logger      *log.Logger
	// Limiter throttles outgoing requests when set. Failed requests are never retried.
	Limiter *rate.Limiter
}

// Client is a session against the Web API holding a single bearer token.
//
// A Client is safe for concurrent use; SetAccessToken affects requests started after it returns.
type Client struct {
	baseURL    string
	tokenURL   string
	httpClient *http.Client
	logger     *log.Logger
	limiter    *rate.Limiter

	mu          sync.RWMutex
	accessToken string
}

// Result is the outcome of an asynchronous request.
type Result struct {
	Value any
	Err   error
}

// NewClient creates a client from opts.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		tokenURL:    opts.TokenURL,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		limiter:     opts.Limiter,
		accessToken: opts.AccessToken,
	}
}

// SetAccessToken replaces the bearer token. An empty string clears it.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// AccessToken returns the current bearer token.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// HasAccessToken reports whether a bearer token is set.
func (c *Client) HasAccessToken() bool {
	return c.AccessToken() != ""
}

// BaseURL returns the API root every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs an authenticated request and returns the decoded JSON body.
//
// A 2xx response with an empty body (204 No Content) yields a nil value and nil error rather than a
// [ParseError]; player commands answer that way on success. Any other 2xx body that is not a single
// JSON value is a [ParseError].
func (c *Client) Do(ctx context.Context, r Request) (any, error) {
	token := c.AccessToken()
	if token == "" {
		c.logger.Warn("request skipped", "path", r.Path, "error", ErrNoAccessToken)
		return nil, ErrNoAccessToken
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+r.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var out any
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoAsync runs [Client.Do] in a goroutine. The returned channel receives exactly one [Result] and is then closed.
func (c *Client) DoAsync(ctx context.Context, r Request) <-chan Result {
	return c.async(func() (any, error) { return c.Do(ctx, r) })
}

func (c *Client) async(fn func() (any, error)) <-chan Result {
	ch := make(chan Result, 1)

	if !c.HasAccessToken() {
		c.logger.Warn("request skipped", "error", ErrNoAccessToken)
		ch <- Result{Err: ErrNoAccessToken}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		v, err := fn()
		ch <- Result{Value: v, Err: err}
	}()
	return ch
}

// send executes req and decodes a successful body into out.
func (c *Client) send(req *http.Request, out any) error {
	id := shared.GenerateID()
	logger := c.logger.With("request_id", id, "method", req.Method, "path", req.URL.Path)

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			logger.Warn("request throttled", "error", err)
			return fmt.Errorf("%w: %w", shared.ErrRateLimited, err)
		}
	}

	logger.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("request failed", "error", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("failed to read response", "error", err)
		return fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug("received response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, data)
		logger.Warn("API error", "status", apiErr.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := decodeJSON(data, out); err != nil {
		logger.Warn("failed to parse response", "error", err)
		return &ParseError{Err: err}
	}
	return nil
}

// decodeJSON decodes exactly one JSON value from data. Numbers are kept as [json.Number].
func decodeJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
