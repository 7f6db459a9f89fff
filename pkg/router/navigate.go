package router

import (
	"fmt"
	"net/url"
)

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query holds query parameters to add to the URL.
	Query map[string]any

	// Hash is the fragment to append (without "#").
	Hash string

	// Scroll controls whether to scroll to top after navigation.
	// Defaults to true.
	Scroll bool

	// State is stored with the history entry.
	State map[string]any
}

// NavigateOption is a functional option for navigation.
type NavigateOption func(*NavigateOptions)

// DefaultNavigateOptions returns the options used when none are given.
func DefaultNavigateOptions() NavigateOptions {
	return NavigateOptions{Scroll: true}
}

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation URL.
func WithQuery(query map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.Query = query
	}
}

// WithHash sets the fragment of the navigation URL.
func WithHash(hash string) NavigateOption {
	return func(o *NavigateOptions) {
		o.Hash = hash
	}
}

// WithoutScroll disables scrolling to top after navigation.
func WithoutScroll() NavigateOption {
	return func(o *NavigateOptions) {
		o.Scroll = false
	}
}

// WithState attaches state to the history entry.
func WithState(state map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.State = state
	}
}

// NavigationRequest represents a pending navigation.
type NavigationRequest struct {
	Path    string
	Options NavigateOptions
}

// NewNavigationRequest applies opts over the defaults.
func NewNavigationRequest(path string, opts ...NavigateOption) *NavigationRequest {
	options := DefaultNavigateOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &NavigationRequest{Path: path, Options: options}
}

// BuildURL constructs the URL for a navigation request.
// Query parameters are merged into any query already on Path.
func (nr *NavigationRequest) BuildURL() (string, error) {
	u, err := url.Parse(nr.Path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %s", nr.Path)
	}

	if nr.Options.Query != nil {
		q := u.Query()
		for k, v := range nr.Options.Query {
			q.Set(k, fmt.Sprintf("%v", v))
		}
		u.RawQuery = q.Encode()
	}
	if nr.Options.Hash != "" {
		u.Fragment = nr.Options.Hash
	}

	return u.String(), nil
}

// Mode returns the history mode of the request.
func (nr *NavigationRequest) Mode() string {
	if nr.Options.Replace {
		return "replace"
	}
	return "push"
}
