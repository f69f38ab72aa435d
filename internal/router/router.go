// Package router maps folio's path-style locations to views.
//
// The table is declarative: each Route pairs a Name with a pattern whose
// segments are either literals or ":param" placeholders. Resolve walks the
// table in order and returns the first match; Path builds a location back
// from a name and its parameters.
package router

import (
	"fmt"
	"net/url"
	"strings"
)

// Name identifies a routed view.
type Name string

const (
	HomePage          Name = "HomePage"
	PortfolioPage     Name = "PortfolioPage"
	Transactions      Name = "Transactions"
	InstrumentHistory Name = "InstrumentHistory"
)

// ParamTicker is the parameter carried by InstrumentHistory.
const ParamTicker = "ticker"

// Route is one entry of the table.
type Route struct {
	Name    Name
	Pattern string
	Title   string
}

// Match is the result of resolving a path.
type Match struct {
	Route  Route
	Params map[string]string
}

// Param returns the named parameter or "".
func (m Match) Param(key string) string {
	return m.Params[key]
}

var table = []Route{
	{Name: HomePage, Pattern: "/", Title: "Home"},
	{Name: PortfolioPage, Pattern: "/portfolio", Title: "Portfolio"},
	{Name: Transactions, Pattern: "/transactions", Title: "Transactions"},
	{Name: InstrumentHistory, Pattern: "/instrument/:ticker", Title: "Instrument history"},
}

// Routes returns a copy of the route table in resolution order.
func Routes() []Route {
	out := make([]Route, len(table))
	copy(out, table)
	return out
}

// Lookup returns the route with the given name.
func Lookup(name Name) (Route, bool) {
	for _, r := range table {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve matches path against the table. Query strings and fragments are
// ignored and a trailing slash is tolerated.
func Resolve(path string) (Match, bool) {
	segments, ok := split(path)
	if !ok {
		return Match{}, false
	}
	for _, r := range table {
		if params, ok := match(r.Pattern, segments); ok {
			return Match{Route: r, Params: params}, true
		}
	}
	return Match{}, false
}

// Path renders the location for name, substituting params. Every parameter
// the pattern declares must be supplied and non-empty.
func Path(name Name, params map[string]string) (string, error) {
	r, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown route %q", name)
	}
	parts := patternSegments(r.Pattern)
	if len(parts) == 0 {
		return "/", nil
	}
	out := make([]string, len(parts))
	for i, part := range parts {
		key, isParam := strings.CutPrefix(part, ":")
		if !isParam {
			out[i] = part
			continue
		}
		value := strings.TrimSpace(params[key])
		if value == "" {
			return "", fmt.Errorf("route %s: missing parameter %q", name, key)
		}
		out[i] = url.PathEscape(value)
	}
	return "/" + strings.Join(out, "/"), nil
}

// MustPath is Path for static routes and literals known to be valid.
func MustPath(name Name, params map[string]string) string {
	p, err := Path(name, params)
	if err != nil {
		panic(err)
	}
	return p
}

func split(path string) ([]string, bool) {
	trimmed := strings.TrimSpace(path)
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		trimmed = "/"
	}
	if !strings.HasPrefix(trimmed, "/") {
		return nil, false
	}
	raw := strings.Split(strings.Trim(trimmed, "/"), "/")
	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg == "" {
			continue
		}
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, false
		}
		segments = append(segments, decoded)
	}
	return segments, true
}

func patternSegments(pattern string) []string {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func match(pattern string, segments []string) (map[string]string, bool) {
	parts := patternSegments(pattern)
	if len(parts) != len(segments) {
		return nil, false
	}
	var params map[string]string
	for i, part := range parts {
		if key, isParam := strings.CutPrefix(part, ":"); isParam {
			if strings.TrimSpace(segments[i]) == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[key] = segments[i]
			continue
		}
		if part != segments[i] {
			return nil, false
		}
	}
	return params, true
}
