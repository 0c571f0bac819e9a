package spotify

import (
	"net/url"
	"strings"
)

// QueryParam is a single query string pair.
type QueryParam struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters.
//
// Unlike [url.Values] it keeps insertion order, so "limit=20&offset=0" stays in that order.
type Query []QueryParam

// Add appends a pair and returns the extended query.
func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Encode renders the query as "k1=v1&k2=v2".
func (q Query) Encode() string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, escapeQuery(p.Key)+"="+escapeQuery(p.Value))
	}
	return strings.Join(parts, "&")
}

// escapeQuery percent-encodes s for a query component. Spaces become %20 and
// commas stay literal so list values read as "track,artist".
func escapeQuery(s string) string {
	s = url.QueryEscape(s)
	s = strings.ReplaceAll(s, "+", "%20")
	return strings.ReplaceAll(s, "%2C", ",")
}

// Request describes one call against the API base URL.
type Request struct {
	Method string
	Path   string // relative to the base URL, e.g. "/me/playlists"
	Query  Query
	Body   any // JSON-encoded when non-nil
}

// URL returns the path with its encoded query string appended.
func (r Request) URL() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}
