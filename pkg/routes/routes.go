// Package routes declares the CRM navigation map and builds the
// controller that serves it in history mode.
package routes

import (
	"log/slog"

	"github.com/vango-dev/crmnav/internal/errors"
	"github.com/vango-dev/crmnav/internal/views"
	"github.com/vango-dev/crmnav/pkg/history"
	"github.com/vango-dev/crmnav/pkg/navigation"
	"github.com/vango-dev/crmnav/pkg/router"
)

// Table returns the navigation map in declaration order.
// Each call returns a fresh slice with the same records.
func Table() []router.Record {
	return []router.Record{
		{Path: "/", Name: "Home", View: views.Home},
		{Path: "/leads", Name: "Leads", View: views.HelloWorld},
		{Path: "/contacts", Name: "Contacts", View: views.Contact},
		{Path: "/notes", Name: "Notes", View: views.Notes},
		{Path: "/reminders", Name: "Reminders", View: views.Reminders},
	}
}

// Options configures Build.
type Options struct {
	// BasePath is the deployment prefix prepended to every route URL.
	// Empty means the site root.
	BasePath string

	// Middleware wraps every navigation, in order.
	Middleware []router.Middleware

	// Logger is used by the controller; slog.Default when nil.
	Logger *slog.Logger
}

// Router validates Table and builds the route matcher.
func Router() (*router.Router, error) {
	r, err := router.New(Table()...)
	if err != nil {
		return nil, errors.New("E204").Wrap(err)
	}
	return r, nil
}

// Build creates a controller for the navigation map, using web history
// rooted at opts.BasePath.
func Build(opts Options) (*navigation.Controller, error) {
	r, err := Router()
	if err != nil {
		return nil, err
	}

	navOpts := []navigation.Option{navigation.WithMiddleware(opts.Middleware...)}
	if opts.Logger != nil {
		navOpts = append(navOpts, navigation.WithLogger(opts.Logger))
	}
	return navigation.New(r, history.NewWebHistory(opts.BasePath), navOpts...), nil
}

// MustBuild is like Build but panics on error.
func MustBuild(opts Options) *navigation.Controller {
	c, err := Build(opts)
	if err != nil {
		panic(err)
	}
	return c
}
