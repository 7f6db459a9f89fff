// Package crmnav wires the CRM navigation map into a runnable application:
// configuration, the route table, navigation middleware and the HTTP
// server.
//
//	cfg, err := config.LoadOrDefault(".")
//	app, err := crmnav.New(cfg)
//	err = app.Run(ctx)
package crmnav

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/crmnav/internal/config"
	"github.com/vango-dev/crmnav/pkg/manifest"
	"github.com/vango-dev/crmnav/pkg/middleware"
	"github.com/vango-dev/crmnav/pkg/navigation"
	"github.com/vango-dev/crmnav/pkg/router"
	"github.com/vango-dev/crmnav/pkg/routes"
	"github.com/vango-dev/crmnav/pkg/server"
)

// Version is set at build time.
var Version = "dev"

// App is a configured navigation application.
type App struct {
	config   *config.Config
	nav      *navigation.Controller
	server   *server.Server
	registry *prometheus.Registry
	metrics  *middleware.Metrics
	logger   *slog.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	logOutput io.Writer
	logger    *slog.Logger
	devMode   bool
}

// WithLogOutput sets where the configured logger writes (default stderr).
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOutput = w
	}
}

// WithLogger uses logger instead of one built from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDevMode disables client caching.
func WithDevMode(dev bool) Option {
	return func(o *options) {
		o.devMode = dev
	}
}

// New validates cfg and builds the application.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = cfg.NewLogger(o.logOutput)
	}

	a := &App{config: cfg, logger: logger}

	var mw []router.Middleware
	if cfg.Tracing.Enabled {
		mw = append(mw, middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = middleware.Prometheus(
			middleware.WithRegistry(a.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		mw = append(mw, a.metrics)
	}

	nav, err := routes.Build(routes.Options{
		BasePath:   cfg.BasePath,
		Middleware: mw,
		Logger:     logger.With("component", "navigation"),
	})
	if err != nil {
		return nil, err
	}
	a.nav = nav

	serverCfg := &server.Config{
		Address:         cfg.Address(),
		AppName:         cfg.Name,
		ShutdownTimeout: cfg.ShutdownTimeout(),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Metrics:         a.metrics,
		MetricsPath:     cfg.Metrics.Path,
		DevMode:         o.devMode,
	}
	if a.registry != nil {
		serverCfg.Gatherer = a.registry
	}
	srv, err := server.New(nav, serverCfg)
	if err != nil {
		return nil, err
	}
	srv.SetLogger(logger.With("component", "server"))
	a.server = srv

	return a, nil
}

// Run serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting", "version", Version, "address", a.config.Address(), "base", a.config.BasePath)
	return a.server.Run(ctx)
}

// Handler returns the application's HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Navigation returns the template navigation controller.
func (a *App) Navigation() *navigation.Controller {
	return a.nav
}

// Server returns the HTTP server.
func (a *App) Server() *server.Server {
	return a.server
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Registry returns the Prometheus registry, or nil when metrics are off.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Manifest returns the route manifest for the configured base path.
func (a *App) Manifest() *manifest.Manifest {
	return manifest.FromRecords(a.config.BasePath, a.nav.Routes())
}

// Publisher returns an S3 publisher for the configured manifest destination.
func (a *App) Publisher(ctx context.Context) (*manifest.Publisher, error) {
	p, err := manifest.NewS3Publisher(ctx, a.config.Manifest.Region, a.config.Manifest.Bucket, a.config.Manifest.Key)
	if err != nil {
		return nil, err
	}
	return p.WithLogger(a.logger.With("component", "manifest")), nil
}
