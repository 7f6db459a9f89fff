package navigation

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"github.com/vango-dev/crmnav/internal/errors"
	"github.com/vango-dev/crmnav/pkg/history"
	"github.com/vango-dev/crmnav/pkg/routepath"
	"github.com/vango-dev/crmnav/pkg/router"
)

// Navigation modes reported to middleware and hooks.
const (
	ModeLoad    = "load"
	ModePush    = "push"
	ModeReplace = "replace"
	ModePop     = "pop"
)

// ErrNavigationCancelled is returned when a middleware stops a navigation
// without an error.
var ErrNavigationCancelled = stderrors.New("navigation cancelled")

// AfterFunc is called after a navigation is committed.
type AfterFunc func(to, from *Location, mode string)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMiddleware appends navigation middleware after the router's own.
func WithMiddleware(mw ...router.Middleware) Option {
	return func(c *Controller) {
		c.middleware = append(c.middleware, mw...)
	}
}

// Controller is a navigation controller bound to one history.
type Controller struct {
	router     *router.Router
	history    *history.WebHistory
	middleware []router.Middleware
	logger     *slog.Logger

	mu      sync.Mutex
	current *Location

	hooksMu   sync.Mutex
	afterEach map[int]AfterFunc
	nextHook  int
}

// New creates a controller over r and h.
func New(r *router.Router, h *history.WebHistory, opts ...Option) *Controller {
	c := &Controller{
		router:    r,
		history:   h,
		logger:    slog.Default().With("component", "navigation"),
		afterEach: make(map[int]AfterFunc),
	}
	c.middleware = r.Middleware()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone returns a controller sharing the router, middleware and logger,
// bound to h. AfterEach hooks and the current location are not copied.
func (c *Controller) Clone(h *history.WebHistory) *Controller {
	clone := &Controller{
		router:    c.router,
		history:   h,
		logger:    c.logger,
		afterEach: make(map[int]AfterFunc),
	}
	c.mu.Lock()
	clone.middleware = append([]router.Middleware(nil), c.middleware...)
	c.mu.Unlock()
	return clone
}

// Router returns the route table.
func (c *Controller) Router() *router.Router {
	return c.router
}

// History returns the bound history.
func (c *Controller) History() *history.WebHistory {
	return c.history
}

// Use appends navigation middleware. Navigations already in flight keep
// the chain they started with.
func (c *Controller) Use(mw ...router.Middleware) {
	c.mu.Lock()
	c.middleware = append(c.middleware[:len(c.middleware):len(c.middleware)], mw...)
	c.mu.Unlock()
}

// Routes returns the route records in declaration order.
func (c *Controller) Routes() []router.Record {
	return c.router.Records()
}

// Current returns the committed location, or nil before Start.
func (c *Controller) Current() *Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterEach registers a hook and returns a function that removes it.
func (c *Controller) AfterEach(fn AfterFunc) (remove func()) {
	c.hooksMu.Lock()
	id := c.nextHook
	c.nextHook++
	c.afterEach[id] = fn
	c.hooksMu.Unlock()

	return func() {
		c.hooksMu.Lock()
		delete(c.afterEach, id)
		c.hooksMu.Unlock()
	}
}

// Resolve turns a target into a location without navigating.
func (c *Controller) Resolve(to Target, opts ...router.NavigateOption) (*Location, error) {
	path := to.Path
	if to.Name != "" {
		p, err := c.router.PathFor(to.Name)
		if err != nil {
			return nil, errors.New("E202").
				WithDetail("No route is named " + to.Name).
				Wrap(err)
		}
		path = p
	}

	canon, err := routepath.CanonicalizeAndValidateNavPath(path)
	if err != nil {
		return nil, errors.New("E203").
			WithDetail("Cannot navigate to " + path).
			Wrap(err)
	}

	req := router.NewNavigationRequest(canon, opts...)
	full, err := req.BuildURL()
	if err != nil {
		return nil, errors.New("E203").Wrap(err)
	}

	loc, err := c.locate(full, req.Options.State)
	loc.Scroll = req.Options.Scroll
	return loc, err
}

// Href returns the base-joined URL of a target.
func (c *Controller) Href(to Target, opts ...router.NavigateOption) (string, error) {
	loc, err := c.Resolve(to, opts...)
	if err != nil {
		return "", err
	}
	return loc.Href, nil
}

// locate matches a base-relative location.
func (c *Controller) locate(location string, state map[string]any) (*Location, error) {
	match, ok := c.router.Match(location)
	if !ok {
		loc := &Location{FullPath: location, Href: c.history.CreateHref(location), State: state}
		if canon, err := routepath.CanonicalizePath(location); err == nil {
			loc.Path = canon.Path
		}
		return loc, errors.New("E201").
			WithDetail("No route is declared for " + location).
			Wrap(router.ErrNoMatch)
	}

	full := match.FullPath()
	return &Location{
		Record:   match.Record,
		Path:     match.Path,
		FullPath: full,
		Href:     c.history.CreateHref(full),
		State:    state,
		match:    match,
	}, nil
}

// Start resolves the history's current entry as the initial location.
func (c *Controller) Start(ctx context.Context) (*Location, error) {
	loc, err := c.locate(c.history.Location(), c.history.State())
	if err != nil {
		c.setCurrent(loc, nil, ModeLoad)
		return loc, err
	}
	if err := c.transition(ctx, loc, ModeLoad, func() {}); err != nil {
		return nil, err
	}
	return loc, nil
}

// Push navigates to a target, adding a history entry.
// WithReplace turns the push into a replace.
func (c *Controller) Push(ctx context.Context, to Target, opts ...router.NavigateOption) (*Location, error) {
	options := router.DefaultNavigateOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Replace {
		return c.Replace(ctx, to, opts...)
	}
	return c.navigate(ctx, to, ModePush, opts)
}

// Replace navigates to a target, overwriting the current history entry.
func (c *Controller) Replace(ctx context.Context, to Target, opts ...router.NavigateOption) (*Location, error) {
	return c.navigate(ctx, to, ModeReplace, opts)
}

func (c *Controller) navigate(ctx context.Context, to Target, mode string, opts []router.NavigateOption) (*Location, error) {
	loc, err := c.Resolve(to, opts...)
	if err != nil {
		c.logger.Debug("navigation rejected", "target", to.String(), "error", err)
		return loc, err
	}

	err = c.transition(ctx, loc, mode, func() {
		if mode == ModeReplace {
			c.history.Replace(loc.FullPath, loc.State)
		} else {
			c.history.Push(loc.FullPath, loc.State)
		}
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// Go moves delta entries through the history.
// It reports false, without error, when the move is out of range.
func (c *Controller) Go(ctx context.Context, delta int) (*Location, bool, error) {
	from := c.history.Location()
	if !c.history.Go(delta) {
		return c.Current(), false, nil
	}
	loc, err := c.settlePop(ctx, from, delta)
	return loc, true, err
}

// Back is Go(-1).
func (c *Controller) Back(ctx context.Context) (*Location, bool, error) {
	return c.Go(ctx, -1)
}

// Forward is Go(1).
func (c *Controller) Forward(ctx context.Context) (*Location, bool, error) {
	return c.Go(ctx, 1)
}

// Pop applies a popstate observed by the client: the browser is now at
// location (relative to the base).
func (c *Controller) Pop(ctx context.Context, location string) (*Location, error) {
	from := c.history.Location()
	delta := c.history.Pop(location)
	return c.settlePop(ctx, from, delta)
}

// settlePop commits the history's new current entry, restoring the
// previous entry when a middleware rejects it.
func (c *Controller) settlePop(ctx context.Context, from string, delta int) (*Location, error) {
	loc, err := c.locate(c.history.Location(), c.history.State())
	if err != nil {
		c.setCurrent(loc, c.Current(), ModePop)
		return loc, err
	}

	if err := c.transition(ctx, loc, ModePop, func() {}); err != nil {
		if delta != 0 {
			c.history.Go(-delta)
		} else {
			c.history.Replace(from, nil)
		}
		return nil, err
	}
	return loc, nil
}

// transition runs the middleware chain and, when it reaches the end,
// applies commit and publishes loc as the current location.
func (c *Controller) transition(ctx context.Context, loc *Location, mode string, commit func()) error {
	c.mu.Lock()
	from := c.current
	chain := c.middleware
	c.mu.Unlock()

	t := &router.Transition{
		From: from.Match(),
		To:   loc.match,
		Mode: mode,
	}

	err := router.ComposeMiddleware(ctx, t, chain, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commit()
		t.Commit()
		return nil
	})
	if err != nil {
		c.logger.Debug("navigation aborted", "to", loc.FullPath, "mode", mode, "error", err)
		return errors.New("E206").
			WithDetail("Navigation to " + loc.FullPath + " was aborted").
			Wrap(err)
	}
	if !t.Committed() {
		return ErrNavigationCancelled
	}

	c.setCurrent(loc, from, mode)
	c.logger.Debug("navigated", "route", loc.Name(), "path", loc.FullPath, "mode", mode)
	return nil
}

func (c *Controller) setCurrent(loc, from *Location, mode string) {
	c.mu.Lock()
	c.current = loc
	c.mu.Unlock()

	c.hooksMu.Lock()
	hooks := make([]AfterFunc, 0, len(c.afterEach))
	for id := 0; id < c.nextHook; id++ {
		if fn, ok := c.afterEach[id]; ok {
			hooks = append(hooks, fn)
		}
	}
	c.hooksMu.Unlock()

	for _, fn := range hooks {
		fn(loc, from, mode)
	}
}
