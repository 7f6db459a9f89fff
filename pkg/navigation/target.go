package navigation

import "github.com/vango-dev/crmnav/pkg/router"

// Target is where a navigation goes: a path or a route name.
type Target struct {
	// Path is a root-relative location, optionally with query and fragment.
	Path string

	// Name is a route name; it takes precedence over Path.
	Name string
}

// To targets a path.
func To(path string) Target {
	return Target{Path: path}
}

// Named targets a route by name.
func Named(name string) Target {
	return Target{Name: name}
}

func (t Target) String() string {
	if t.Name != "" {
		return "name:" + t.Name
	}
	return t.Path
}

// Location is a resolved navigation target.
type Location struct {
	// Record is the matched route; zero when the location matched nothing.
	Record router.Record

	// Path is the canonical route path.
	Path string

	// FullPath is Path with its query string and fragment.
	FullPath string

	// Href is FullPath joined with the history base.
	Href string

	// State is attached to the history entry on commit.
	State map[string]any

	// Scroll asks the client to scroll to the top once the view is shown.
	// It is false for the initial location and for history traversal.
	Scroll bool

	match *router.MatchResult
}

// Matched reports whether the location resolved to a route.
func (l *Location) Matched() bool {
	return l != nil && l.match != nil
}

// Name returns the matched route name, or "".
func (l *Location) Name() string {
	if l == nil {
		return ""
	}
	return l.Record.Name
}

// Match returns the underlying router match, or nil.
func (l *Location) Match() *router.MatchResult {
	if l == nil {
		return nil
	}
	return l.match
}
