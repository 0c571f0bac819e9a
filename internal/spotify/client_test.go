package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sona/internal/shared"
	tu "github.com/desertthunder/sona/internal/testing"
	"golang.org/x/time/rate"
)

func newTestClient(srv *tu.APIServer, token string) *Client {
	return NewClient(ClientOpts{
		BaseURL:     srv.URL + "/v1",
		TokenURL:    srv.URL + "/api/token",
		AccessToken: token,
		HTTPClient:  srv.Client(),
		Logger:      log.New(io.Discard),
	})
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("NewClient Defaults", func(t *testing.T) {
		c := NewClient(ClientOpts{})
		if c.BaseURL() != DefaultBaseURL {
			t.Errorf("expected base URL %s, got %s", DefaultBaseURL, c.BaseURL())
		}
		if c.tokenURL != DefaultTokenURL {
			t.Errorf("expected token URL %s, got %s", DefaultTokenURL, c.tokenURL)
		}
		if c.HasAccessToken() {
			t.Error("expected no access token")
		}
	})

	t.Run("Trims Trailing Slash", func(t *testing.T) {
		c := NewClient(ClientOpts{BaseURL: "http://localhost/v1/"})
		if c.BaseURL() != "http://localhost/v1" {
			t.Errorf("unexpected base URL %s", c.BaseURL())
		}
	})

	t.Run("SetAccessToken", func(t *testing.T) {
		srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{}`}})
		c := newTestClient(srv, "first")

		c.SetAccessToken("second")
		if _, err := c.Do(ctx, Request{Path: "/me"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := srv.Last(t).Header.Get("Authorization"); got != "Bearer second" {
			t.Errorf("expected replaced token, got %q", got)
		}

		c.SetAccessToken("")
		if c.HasAccessToken() {
			t.Error("expected empty token to clear the session")
		}
	})

	t.Run("Do", func(t *testing.T) {
		t.Run("Without Access Token", func(t *testing.T) {
			srv := tu.NewAPIServer(t, nil)
			c := newTestClient(srv, "")

			v, err := c.Do(ctx, Request{Path: "/me"})
			if !errors.Is(err, ErrNoAccessToken) {
				t.Fatalf("expected ErrNoAccessToken, got %v", err)
			}
			if err.Error() != "No access token available" {
				t.Errorf("unexpected message %q", err.Error())
			}
			if v != nil {
				t.Errorf("expected nil value, got %v", v)
			}
			if n := len(srv.Requests()); n != 0 {
				t.Errorf("expected no network request, got %d", n)
			}
		})

		t.Run("Sends Headers", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{"id":"u1"}`}})
			c := newTestClient(srv, "tok")

			if _, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/me"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			req := srv.Last(t)
			if got := req.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("expected bearer header, got %q", got)
			}
			if got := req.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("expected JSON content type, got %q", got)
			}
		})

		t.Run("Defaults To GET", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{}`}})
			c := newTestClient(srv, "tok")

			if _, err := c.Do(ctx, Request{Path: "/me"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m := srv.Last(t).Method; m != http.MethodGet {
				t.Errorf("expected GET, got %s", m)
			}
		})

		t.Run("Returns Body Verbatim", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{
				"GET /v1/me": {Body: `{"id":"u1","followers":{"total":3},"images":[],"extra":null}`},
			})
			c := newTestClient(srv, "tok")

			v, err := c.Do(ctx, Request{Path: "/me"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			data, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("failed to marshal result: %v", err)
			}
			if string(data) != `{"extra":null,"followers":{"total":3},"id":"u1","images":[]}` {
				t.Errorf("unexpected value %s", data)
			}
		})

		t.Run("Encodes Query And Body", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"PUT /v1/me/player/play": {Status: http.StatusNoContent}})
			c := newTestClient(srv, "tok")

			_, err := c.Do(ctx, Request{
				Method: http.MethodPut,
				Path:   "/me/player/play",
				Query:  Query{{Key: "device_id", Value: "d 1"}},
				Body:   map[string]any{"uris": []string{"spotify:track:1"}},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			req := srv.Last(t)
			if req.RawQuery != "device_id=d%201" {
				t.Errorf("unexpected query %q", req.RawQuery)
			}
			if req.Body != `{"uris":["spotify:track:1"]}` {
				t.Errorf("unexpected body %q", req.Body)
			}
		})

		t.Run("No Content", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"PUT /v1/me/player/pause": {Status: http.StatusNoContent}})
			c := newTestClient(srv, "tok")

			v, err := c.Do(ctx, Request{Method: http.MethodPut, Path: "/me/player/pause"})
			if err != nil {
				t.Fatalf("expected no error for 204, got %v", err)
			}
			if v != nil {
				t.Errorf("expected nil value, got %v", v)
			}
			if body := srv.Last(t).Body; body != "" {
				t.Errorf("expected no request body, got %q", body)
			}
		})

		t.Run("Invalid JSON", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{"id":`}})
			c := newTestClient(srv, "tok")

			_, err := c.Do(ctx, Request{Path: "/me"})
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})

		t.Run("Trailing Data", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{} {}`}})
			c := newTestClient(srv, "tok")

			if _, err := c.Do(ctx, Request{Path: "/me"}); !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			c := NewClient(ClientOpts{
				AccessToken: "tok",
				HTTPClient:  &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))},
				Logger:      log.New(io.Discard),
			})

			_, err := c.Do(ctx, Request{Path: "/me"})
			if err == nil || !strings.Contains(err.Error(), "connection refused") {
				t.Fatalf("expected transport error, got %v", err)
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				t.Error("transport failure should not be an APIError")
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			c := NewClient(ClientOpts{
				AccessToken: "tok",
				HTTPClient:  &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)},
				Logger:      log.New(io.Discard),
			})

			_, err := c.Do(ctx, Request{Path: "/me"})
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read error, got %v", err)
			}
		})

		t.Run("Throttled", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{}`}})
			c := NewClient(ClientOpts{
				BaseURL:     srv.URL + "/v1",
				AccessToken: "tok",
				HTTPClient:  srv.Client(),
				Logger:      log.New(io.Discard),
				Limiter:     rate.NewLimiter(1, 0),
			})

			if _, err := c.Do(ctx, Request{Path: "/me"}); !errors.Is(err, shared.ErrRateLimited) {
				t.Errorf("expected ErrRateLimited, got %v", err)
			}
			if n := len(srv.Requests()); n != 0 {
				t.Errorf("expected no request, got %d", n)
			}
		})

		t.Run("Throttled Context Cancelled", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{}`}})
			c := NewClient(ClientOpts{
				BaseURL:     srv.URL + "/v1",
				AccessToken: "tok",
				HTTPClient:  srv.Client(),
				Logger:      log.New(io.Discard),
				Limiter:     rate.NewLimiter(1, 1),
			})

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := c.Do(cancelled, Request{Path: "/me"})
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
			if !errors.Is(err, shared.ErrRateLimited) {
				t.Errorf("expected ErrRateLimited, got %v", err)
			}
			if n := len(srv.Requests()); n != 0 {
				t.Errorf("expected no request, got %d", n)
			}
		})

		t.Run("Limiter Allows", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{}`}})
			c := NewClient(ClientOpts{
				BaseURL:     srv.URL + "/v1",
				AccessToken: "tok",
				HTTPClient:  srv.Client(),
				Logger:      log.New(io.Discard),
				Limiter:     rate.NewLimiter(rate.Inf, 1),
			})

			if _, err := c.Do(ctx, Request{Path: "/me"}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	})

	t.Run("API Errors", func(t *testing.T) {
		tc := []struct {
			name        string
			status      int
			body        string
			wantMessage string
			wantReason  string
			wantIs      []error
		}{
			{
				name:        "Envelope Message",
				status:      http.StatusNotFound,
				body:        `{"error":{"status":404,"message":"Invalid playlist Id"}}`,
				wantMessage: "Invalid playlist Id",
				wantIs:      []error{shared.ErrAPIRequest},
			},
			{
				name:        "Status Text Fallback",
				status:      http.StatusInternalServerError,
				body:        `oops`,
				wantMessage: "Internal Server Error",
				wantIs:      []error{shared.ErrAPIRequest},
			},
			{
				name:        "Envelope Without Message",
				status:      http.StatusBadGateway,
				body:        `{"error":{"status":502}}`,
				wantMessage: "Bad Gateway",
				wantIs:      []error{shared.ErrAPIRequest, shared.ErrServiceUnavailable},
			},
			{
				name:        "Service Unavailable",
				status:      http.StatusServiceUnavailable,
				body:        `{"error":{"status":503,"message":"Service unavailable"}}`,
				wantMessage: "Service unavailable",
				wantIs:      []error{shared.ErrServiceUnavailable},
			},
			{
				name:        "Unauthorized",
				status:      http.StatusUnauthorized,
				body:        `{"error":{"status":401,"message":"The access token expired"}}`,
				wantMessage: "The access token expired",
				wantIs:      []error{shared.ErrAPIRequest, shared.ErrNotAuthenticated},
			},
			{
				name:        "Player Reason",
				status:      http.StatusNotFound,
				body:        `{"error":{"status":404,"message":"Player command failed: No active device found","reason":"NO_ACTIVE_DEVICE"}}`,
				wantMessage: "Player command failed: No active device found",
				wantReason:  "NO_ACTIVE_DEVICE",
			},
			{
				name:        "Rate Limited",
				status:      http.StatusTooManyRequests,
				body:        ``,
				wantMessage: "Too Many Requests",
				wantIs:      []error{shared.ErrRateLimited},
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Status: tt.status, Body: tt.body}})
				c := newTestClient(srv, "tok")

				_, err := c.Do(ctx, Request{Path: "/me"})

				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected *APIError, got %T (%v)", err, err)
				}
				if apiErr.StatusCode != tt.status {
					t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
				}
				if err.Error() != tt.wantMessage {
					t.Errorf("expected message %q, got %q", tt.wantMessage, err.Error())
				}
				if apiErr.Reason != tt.wantReason {
					t.Errorf("expected reason %q, got %q", tt.wantReason, apiErr.Reason)
				}
				for _, target := range tt.wantIs {
					if !errors.Is(err, target) {
						t.Errorf("expected error to match %v", target)
					}
				}
			})
		}

		t.Run("Internal Error Is Not Unavailable", func(t *testing.T) {
			err := &APIError{StatusCode: http.StatusInternalServerError}
			if errors.Is(err, shared.ErrServiceUnavailable) {
				t.Error("500 should not match ErrServiceUnavailable")
			}
		})

		t.Run("Not Authenticated Only For 401", func(t *testing.T) {
			err := &APIError{StatusCode: http.StatusForbidden}
			if errors.Is(err, shared.ErrNotAuthenticated) {
				t.Error("403 should not match ErrNotAuthenticated")
			}
		})
	})

	t.Run("DoAsync", func(t *testing.T) {
		t.Run("Delivers One Result", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{"id":"u1"}`}})
			c := newTestClient(srv, "tok")

			ch := c.DoAsync(ctx, Request{Path: "/me"})
			res, ok := <-ch
			if !ok {
				t.Fatal("expected a result")
			}
			if res.Err != nil {
				t.Fatalf("unexpected error: %v", res.Err)
			}
			if m, ok := res.Value.(map[string]any); !ok || m["id"] != "u1" {
				t.Errorf("unexpected value %v", res.Value)
			}
			if _, ok := <-ch; ok {
				t.Error("expected channel to be closed after one result")
			}
		})

		t.Run("Without Access Token", func(t *testing.T) {
			srv := tu.NewAPIServer(t, nil)
			c := newTestClient(srv, "")

			res := <-c.DoAsync(ctx, Request{Path: "/me"})
			if !errors.Is(res.Err, ErrNoAccessToken) {
				t.Errorf("expected ErrNoAccessToken, got %v", res.Err)
			}
			if n := len(srv.Requests()); n != 0 {
				t.Errorf("expected no network request, got %d", n)
			}
		})

		t.Run("Concurrent Requests", func(t *testing.T) {
			srv := tu.NewAPIServer(t, map[string]tu.Response{"GET /v1/me": {Body: `{}`}})
			c := newTestClient(srv, "tok")

			var wg sync.WaitGroup
			errs := make(chan error, 10)
			for range 10 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- (<-c.DoAsync(ctx, Request{Path: "/me"})).Err
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
			if n := len(srv.Requests()); n != 10 {
				t.Errorf("expected 10 requests, got %d", n)
			}
		})
	})
}

func TestQuery(t *testing.T) {
	tc := []struct {
		name  string
		query Query
		want  string
	}{
		{name: "Empty", query: nil, want: ""},
		{name: "Keeps Order", query: Query{{"limit", "20"}, {"offset", "0"}}, want: "limit=20&offset=0"},
		{name: "Spaces", query: Query{{"q", "daft punk"}}, want: "q=daft%20punk"},
		{name: "Commas", query: Query{{"type", "track,artist"}}, want: "type=track,artist"},
		{name: "Reserved", query: Query{{"q", "a&b=c"}}, want: "q=a%26b%3Dc"},
		{name: "URI", query: Query{{"uri", "spotify:track:1"}}, want: "uri=spotify%3Atrack%3A1"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Get", func(t *testing.T) {
		q := Query{}.Add("limit", "5").Add("limit", "10")
		if v, ok := q.Get("limit"); !ok || v != "5" {
			t.Errorf("expected first value, got %q", v)
		}
		if _, ok := q.Get("offset"); ok {
			t.Error("expected missing key")
		}
	})

	t.Run("Request URL", func(t *testing.T) {
		if got := (Request{Path: "/me"}).URL(); got != "/me" {
			t.Errorf("expected no query separator, got %q", got)
		}
		r := Request{Path: "/me/playlists", Query: Query{{"limit", "20"}, {"offset", "0"}}}
		if got := r.URL(); got != "/me/playlists?limit=20&offset=0" {
			t.Errorf("unexpected URL %q", got)
		}
	})
}
