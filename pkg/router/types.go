package router

import (
	"context"
	"fmt"
	"io"
)

// View is a renderable UI unit bound to a route.
// The router treats views as opaque.
type View interface {
	Render(ctx context.Context, w io.Writer) error
}

// ViewFunc is a function adapter for View.
type ViewFunc func(ctx context.Context, w io.Writer) error

// Render implements View.
func (f ViewFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// ViewName returns a display name for v. Views may provide one by
// implementing ViewName() string; otherwise the dynamic type is used.
func ViewName(v View) string {
	if v == nil {
		return ""
	}
	if named, ok := v.(interface{ ViewName() string }); ok {
		return named.ViewName()
	}
	return fmt.Sprintf("%T", v)
}

// Record associates a URL path and a name with a view.
type Record struct {
	// Path is the root-relative literal URL pattern (e.g., "/contacts").
	Path string

	// Name identifies the route for programmatic navigation.
	Name string

	// View renders the route.
	View View

	// Title is an optional human-readable title; Name is used when empty.
	Title string
}

// DisplayTitle returns Title, falling back to Name.
func (r Record) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// MatchResult contains the result of matching a location against the router.
type MatchResult struct {
	// Record is the matched route.
	Record Record

	// Path is the canonical path that matched.
	Path string

	// Query is the raw query string (without "?").
	Query string

	// Hash is the fragment (without "#").
	Hash string

	// Index is the position of the record in the table.
	Index int
}

// FullPath returns the path with its query string and fragment.
func (m *MatchResult) FullPath() string {
	out := m.Path
	if m.Query != "" {
		out += "?" + m.Query
	}
	if m.Hash != "" {
		out += "#" + m.Hash
	}
	return out
}

// Transition describes a navigation passing through the middleware chain.
type Transition struct {
	// From is the route being left; nil on the initial navigation.
	From *MatchResult

	// To is the route being entered.
	To *MatchResult

	// Mode is how the history changes: "push", "replace", "pop" or "load".
	Mode string

	values    map[any]any
	committed bool
}

// Commit marks the transition as applied. The navigation handler at the
// end of the chain calls it.
func (t *Transition) Commit() {
	t.committed = true
}

// Committed reports whether the navigation reached the end of the chain.
// Middleware can check it after next returns.
func (t *Transition) Committed() bool {
	return t != nil && t.committed
}

// SetValue stores a value on the transition for later middleware.
func (t *Transition) SetValue(key, value any) {
	if t.values == nil {
		t.values = make(map[any]any)
	}
	t.values[key] = value
}

// Value returns a value stored with SetValue, or nil.
func (t *Transition) Value(key any) any {
	if t == nil {
		return nil
	}
	return t.values[key]
}

// RouteName returns the target route name, or "" when there is no target.
func (t *Transition) RouteName() string {
	if t == nil || t.To == nil {
		return ""
	}
	return t.To.Record.Name
}

// Middleware processes a navigation before it is committed.
type Middleware interface {
	// Handle processes the transition and optionally calls next.
	// Return an error to abort the navigation.
	// Return nil without calling next to cancel it silently.
	Handle(ctx context.Context, t *Transition, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx context.Context, t *Transition, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, t *Transition, next func() error) error {
	return f(ctx, t, next)
}
