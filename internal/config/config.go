package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/crmnav/internal/errors"
	"github.com/vango-dev/crmnav/pkg/routepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "crmnav.json"

	// EnvFileName is the optional environment file read by ApplyEnv.
	EnvFileName = ".env"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultBasePath is the base path used when none is configured.
	DefaultBasePath = "/"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"

	// DefaultManifestKey is the object key of the published route manifest.
	DefaultManifestKey = "routes.json"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvBaseURL  = "BASE_URL"
	EnvHost     = "CRMNAV_HOST"
	EnvPort     = "CRMNAV_PORT"
	EnvLogLevel = "CRMNAV_LOG_LEVEL"
	EnvBucket   = "CRMNAV_MANIFEST_BUCKET"
)

// Config represents the complete crmnav.json configuration.
type Config struct {
	// Name is the application name shown in page titles.
	Name string `json:"name,omitempty"`

	// BasePath is the path prefix the application is served under.
	BasePath string `json:"basePath,omitempty"`

	// Server contains HTTP server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Manifest contains route manifest publishing settings.
	Manifest ManifestConfig `json:"manifest,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ShutdownTimeout is the graceful shutdown bound (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// AllowedOrigins restricts WebSocket origins. Empty allows same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Path      string `json:"path,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// ManifestConfig contains route manifest publishing settings.
type ManifestConfig struct {
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name:     "crmnav",
		BasePath: DefaultBasePath,
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: "crmnav",
		},
		Tracing: TracingConfig{
			TracerName: "crmnav",
		},
		Manifest: ManifestConfig{
			Key: DefaultManifestKey,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for crmnav.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is like Load but returns defaults when no config file exists.
func LoadOrDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := New()
		cfg.configPath = path
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E102").
				WithDetail("No crmnav.json found in " + filepath.Dir(path)).
				WithSuggestion("Create crmnav.json or run without --config to use defaults")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse crmnav.json: " + err.Error()).
			WithSuggestion("Check that crmnav.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "crmnav"
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "crmnav"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "crmnav"
	}
	if c.Manifest.Key == "" {
		c.Manifest.Key = DefaultManifestKey
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E103").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}

	if base := routepath.NormalizeBase(c.BasePath); strings.HasPrefix(base, "//") || strings.ContainsAny(base, "?#\\") {
		return errors.New("E104").
			WithDetail("Base path " + strconv.Quote(c.BasePath) + " is not a root-relative path").
			WithSuggestion(`Use a value such as "/" or "/crm/"`)
	}

	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.Newf(errors.CategoryConfig, "invalid shutdownTimeout %q", c.Server.ShutdownTimeout).Wrap(err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E105").WithDetail("Unknown log level " + strconv.Quote(c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E105").WithDetail("Unknown log format " + strconv.Quote(c.Log.Format))
	}

	return nil
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout returns the parsed shutdown timeout, falling back to the default.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return DefaultShutdownTimeout
	}
	return d
}
