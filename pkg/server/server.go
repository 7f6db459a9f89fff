package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/crmnav/internal/errors"
	"github.com/vango-dev/crmnav/pkg/manifest"
	"github.com/vango-dev/crmnav/pkg/navigation"
	"github.com/vango-dev/crmnav/pkg/routepath"
)

// Internal endpoints, relative to the base path.
const (
	PathLive     = "/_nav/ws"
	PathClient   = "/_nav/client.js"
	PathManifest = "/_nav/routes.json"
	PathHealth   = "/healthz"
)

// Server is the HTTP/WebSocket server for the navigation map.
type Server struct {
	nav      *navigation.Controller
	base     string
	config   *Config
	upgrader websocket.Upgrader
	handler  http.Handler
	manifest []byte
	layout   *layout

	mu         sync.Mutex
	conns      map[string]*liveConn
	closing    bool
	wg         sync.WaitGroup
	httpServer *http.Server
	listenAddr net.Addr

	logger *slog.Logger
}

// New creates a server for the controller's route table. The controller
// is a template: requests and live connections use clones of it bound to
// their own history.
func New(nav *navigation.Controller, config *Config) (*Server, error) {
	config = config.withDefaults()
	base := nav.History().Base()

	data, err := manifest.FromRecords(base, nav.Routes()).JSON()
	if err != nil {
		return nil, err
	}

	s := &Server{
		nav:    nav,
		base:   base,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		manifest: data,
		layout:   newLayout(config.AppName, base, nav),
		conns:    make(map[string]*liveConn),
		logger:   slog.Default().With("component", "server"),
	}
	s.handler = s.routes()
	return s, nil
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Handler returns the server's HTTP handler, for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Base returns the normalized base path.
func (s *Server) Base() string {
	return s.base
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(s.canonicalize)

	r.Get(PathHealth, s.serveHealth)
	if s.config.Gatherer != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	r.NotFound(s.serveOutsideBase)

	mount := func(r chi.Router) {
		r.Get(PathLive, s.serveLive)
		r.Get(PathClient, s.serveThinClient)
		r.Head(PathClient, s.serveThinClient)
		r.Get(PathManifest, s.serveManifest)
		r.Get("/*", s.servePage)
		r.Head("/*", s.servePage)
	}
	if s.base == "" {
		mount(r)
	} else {
		r.Route(s.base, mount)
	}
	return r
}

// canonicalize redirects non-canonical paths with 308, which preserves
// the method. The base root with a trailing slash is left alone.
func (s *Server) canonicalize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath := r.URL.EscapedPath()
		if s.base != "" && rawPath == s.base+"/" {
			next.ServeHTTP(w, r)
			return
		}

		result, err := routepath.CanonicalizePath(rawPath)
		if err != nil {
			http.Error(w, "Invalid path", http.StatusBadRequest)
			return
		}
		if result.Changed {
			target := result.Path
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	live := len(s.conns)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
		Routes int    `json:"routes"`
		Live   int    `json:"live"`
	}{"ok", s.nav.Router().Len(), live})
}

func (s *Server) serveManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(s.manifest)
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.New("E303").
			WithDetail("Cannot listen on " + s.config.Address).
			Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.listenAddr = ln.Addr()
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String(), "base", routepath.JoinBase(s.base, "/"))
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Addr returns the listening address once Serve has started, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}

// Shutdown closes live connections and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	s.closing = true
	conns := make([]*liveConn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	for _, c := range conns {
		c.close(websocket.CloseGoingAway, "server shutting down")
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("live connections still open after shutdown timeout")
		return ctx.Err()
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// LiveConnections returns the number of open live connections.
func (s *Server) LiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
