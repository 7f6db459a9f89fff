package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/crmnav/pkg/middleware"
)

// Config configures the Server.
type Config struct {
	// Address is the listen address (default ":8080").
	Address string

	// AppName is shown in page titles.
	AppName string

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers (default 10s).
	ReadHeaderTimeout time.Duration

	// WriteTimeout bounds a live frame write (default 10s).
	WriteTimeout time.Duration

	// PingInterval is how often idle live connections are pinged
	// (default 30s). A peer silent for twice this long is dropped.
	PingInterval time.Duration

	// MaxMessageSize limits incoming live frames in bytes (default 4096).
	MaxMessageSize int64

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// AllowedOrigins lists extra origins allowed to open live connections.
	// Same-origin requests are always allowed.
	AllowedOrigins []string

	// CheckOrigin overrides the origin policy when set.
	CheckOrigin func(r *http.Request) bool

	// Metrics receives page misses and live connection counts. Optional.
	Metrics *middleware.Metrics

	// Gatherer is exposed at MetricsPath when set.
	Gatherer prometheus.Gatherer

	// MetricsPath is the metrics endpoint (default "/metrics").
	MetricsPath string

	// DevMode disables caching of the thin client.
	DevMode bool
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		AppName:           "CRM",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		MaxMessageSize:    4096,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		MetricsPath:       "/metrics",
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.AppName == "" {
		out.AppName = defaults.AppName
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.PingInterval == 0 {
		out.PingInterval = defaults.PingInterval
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.MetricsPath == "" {
		out.MetricsPath = defaults.MetricsPath
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = AllowOrigins(out.AllowedOrigins...)
	}
	return &out
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin.
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}

// AllowOrigins returns an origin check accepting same-origin requests and
// the listed origins (scheme://host[:port], case-insensitive).
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		if SameOriginCheck(r) {
			return true
		}
		_, ok := allowed[strings.ToLower(r.Header.Get("Origin"))]
		return ok
	}
}
