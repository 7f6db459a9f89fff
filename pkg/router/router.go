package router

import (
	"errors"
	"net/url"

	"github.com/vango-dev/crmnav/pkg/routepath"
)

// Lookup errors.
var (
	ErrNoMatch          = errors.New("no route matches path")
	ErrUnknownRouteName = errors.New("unknown route name")
)

// Router matches locations against an ordered, immutable route table.
// It is safe for concurrent use once constructed.
type Router struct {
	records    []Record
	root       *routeNode
	byName     map[string]int
	middleware []Middleware
	sensitive  bool
}

// Config holds router settings.
type Config struct {
	// Sensitive makes path matching case-sensitive. By default
	// /Contacts and /contacts match the same route.
	Sensitive bool
}

// New validates the records and builds a case-insensitive router from them.
// The declaration order is kept: it is the iteration order of Records
// and the precedence order when matching.
func New(records ...Record) (*Router, error) {
	return NewWithConfig(Config{}, records...)
}

// NewWithConfig is like New with explicit settings.
func NewWithConfig(cfg Config, records ...Record) (*Router, error) {
	if err := NewValidator(records).CaseSensitive(cfg.Sensitive).Validate(); err != nil {
		return nil, err
	}

	r := &Router{
		records:   make([]Record, len(records)),
		root:      newRouteNode(""),
		byName:    make(map[string]int, len(records)),
		sensitive: cfg.Sensitive,
	}
	copy(r.records, records)

	for i, rec := range r.records {
		node := r.root.insert(rec.Path, r.sensitive)
		// First declaration wins; validation already rejects duplicates.
		if node.index < 0 {
			node.index = i
		}
		r.byName[rec.Name] = i
	}

	return r, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(records ...Record) *Router {
	r, err := New(records...)
	if err != nil {
		panic(err)
	}
	return r
}

// Match finds the route for a location. The location may carry a query
// string and fragment; both are returned in the result but do not take
// part in matching. Undeclared paths report false.
func (r *Router) Match(location string) (*MatchResult, bool) {
	canon, err := routepath.CanonicalizePath(location)
	if err != nil {
		return nil, false
	}

	decoded, err := url.PathUnescape(canon.Path)
	if err != nil {
		return nil, false
	}

	idx := r.root.lookup(decoded, r.sensitive)
	if idx < 0 {
		return nil, false
	}

	return &MatchResult{
		Record: r.records[idx],
		Path:   canon.Path,
		Query:  canon.Query,
		Hash:   canon.Hash,
		Index:  idx,
	}, true
}

// Lookup returns the record registered under name.
func (r *Router) Lookup(name string) (Record, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Record{}, false
	}
	return r.records[idx], true
}

// PathFor returns the path of the named route.
func (r *Router) PathFor(name string) (string, error) {
	rec, ok := r.Lookup(name)
	if !ok {
		return "", ErrUnknownRouteName
	}
	return rec.Path, nil
}

// Records returns a copy of the route table in declaration order.
func (r *Router) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Sensitive reports whether matching is case-sensitive.
func (r *Router) Sensitive() bool {
	return r.sensitive
}

// Len returns the number of routes.
func (r *Router) Len() int {
	return len(r.records)
}

// Use adds global navigation middleware.
// Call it during setup, before the router is shared.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Middleware returns a copy of the global middleware chain.
func (r *Router) Middleware() []Middleware {
	out := make([]Middleware, len(r.middleware))
	copy(out, r.middleware)
	return out
}
