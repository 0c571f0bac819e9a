package spotify

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/sona/internal/shared"
)

// Location is where a parameter is placed in the request.
type Location int

const (
	InQuery Location = iota
	InPath
	InBody
)

func (l Location) String() string {
	switch l {
	case InPath:
		return "path"
	case InBody:
		return "body"
	default:
		return "query"
	}
}

// Kind is the value type a parameter is coerced to.
type Kind int

const (
	String Kind = iota
	Int
	Bool
	List    // comma separated in the query, a JSON array in the body
	URIRefs // body only: [{"uri": "..."}]
	Offset  // body only: {"position": n} or {"uri": "..."}
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case List:
		return "list"
	case URIRefs:
		return "uri-refs"
	case Offset:
		return "offset"
	default:
		return "string"
	}
}

// Param declares one endpoint parameter.
type Param struct {
	Name     string
	In       Location
	Kind     Kind
	Required bool
	Default  any      // applied when the caller omits the parameter
	Enum     []string // allowed values for String and List kinds
}

// Endpoint is a declarative description of one Web API operation.
type Endpoint struct {
	Name   string
	Method string
	Path   string // may contain {placeholders} matching InPath params
	Usage  string
	Params []Param
}

// Args are caller supplied parameter values keyed by parameter name.
//
// Values may be strings, ints, bools or string slices; CLI input arrives as strings
// and is coerced to each parameter's [Kind].
type Args map[string]any

// HasBody reports whether the endpoint declares any body parameters.
func (e Endpoint) HasBody() bool {
	return slices.ContainsFunc(e.Params, func(p Param) bool { return p.In == InBody })
}

// Request validates args against the endpoint and builds the [Request].
//
// Query parameters are emitted in declaration order. An endpoint with body parameters always
// sends a JSON object, even when every body parameter was omitted.
func (e Endpoint) Request(args Args) (Request, error) {
	for name := range args {
		if !slices.ContainsFunc(e.Params, func(p Param) bool { return p.Name == name }) {
			return Request{}, fmt.Errorf("%w: %s does not accept %q", shared.ErrInvalidArgument, e.Name, name)
		}
	}

	req := Request{Method: e.Method, Path: e.Path}

	var body map[string]any
	if e.HasBody() {
		body = map[string]any{}
	}

	for _, p := range e.Params {
		raw, ok := args[p.Name]
		if !ok || omitted(raw) {
			if p.Default == nil {
				if p.Required {
					return Request{}, fmt.Errorf("%w: %s requires %q", shared.ErrMissingArgument, e.Name, p.Name)
				}
				continue
			}
			raw = p.Default
		}

		v, err := p.coerce(raw)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %s %q: %v", shared.ErrInvalidArgument, e.Name, p.Name, err)
		}

		switch p.In {
		case InPath:
			req.Path = strings.ReplaceAll(req.Path, "{"+p.Name+"}", url.PathEscape(format(v)))
		case InQuery:
			req.Query = req.Query.Add(p.Name, format(v))
		case InBody:
			body[p.Name] = v
		}
	}

	if body != nil {
		req.Body = body
	}
	return req, nil
}

// omitted treats nil, empty strings and empty lists as absent.
func omitted(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func (p Param) coerce(v any) (any, error) {
	switch p.Kind {
	case Int:
		return toInt(v)
	case Bool:
		return toBool(v)
	case List:
		list, err := toList(v)
		if err != nil {
			return nil, err
		}
		for _, item := range list {
			if err := p.allowed(item); err != nil {
				return nil, err
			}
		}
		return list, nil
	case URIRefs:
		list, err := toList(v)
		if err != nil {
			return nil, err
		}
		refs := make([]map[string]string, 0, len(list))
		for _, uri := range list {
			refs = append(refs, map[string]string{"uri": uri})
		}
		return refs, nil
	case Offset:
		if n, err := toInt(v); err == nil {
			return map[string]any{"position": n}, nil
		}
		s, err := toString(v)
		if err != nil {
			return nil, err
		}
		return map[string]any{"uri": s}, nil
	default:
		s, err := toString(v)
		if err != nil {
			return nil, err
		}
		return s, p.allowed(s)
	}
}

func (p Param) allowed(s string) error {
	if len(p.Enum) == 0 || slices.Contains(p.Enum, s) {
		return nil
	}
	return fmt.Errorf("%q is not one of %s", s, strings.Join(p.Enum, ", "))
}

func toString(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int, int64, float64, bool, json.Number:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("expected a string, got %T", v)
}

func toInt(v any) (int, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", v)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}

func toBool(v any) (bool, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("expected true or false, got %q", v)
		}
		return b, nil
	}
	return false, fmt.Errorf("expected a bool, got %T", v)
}

func toList(v any) ([]string, error) {
	var items []string
	switch v := v.(type) {
	case []string:
		items = v
	case string:
		items = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}

	list := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("list is empty")
	}
	return list, nil
}

// format renders a coerced value for a path segment or query string.
func format(v any) string {
	switch v := v.(type) {
	case []string:
		return strings.Join(v, ",")
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	}
	return fmt.Sprint(v)
}
