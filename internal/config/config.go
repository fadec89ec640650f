package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/contentflow-mcp/internal/common"
)

// Transport names accepted by ServerConfig.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// defaultTimeout is the per-call budget for content API requests.
const defaultTimeout = 30 * time.Second

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	API     APIConfig            `toml:"api"`
	Metrics MetricsConfig        `toml:"metrics"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
}

// APIConfig describes the downstream content API.
type APIConfig struct {
	URL           string `toml:"url"`
	Timeout       string `toml:"timeout"`
	MaxResponseMB int    `toml:"max_response_mb"`
}

// MetricsConfig controls the Prometheus endpoint on the HTTP transport.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// GetTimeout parses the configured timeout, falling back to 30s.
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// MaxResponseBytes returns the response size cap in bytes.
func (c *APIConfig) MaxResponseBytes() int64 {
	if c.MaxResponseMB <= 0 {
		return 50 << 20
	}
	return int64(c.MaxResponseMB) << 20
}

// BaseURL returns the content API URL without a trailing slash.
func (c *APIConfig) BaseURL() string {
	return strings.TrimRight(c.URL, "/")
}

// Addr returns host:port for the HTTP transport.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadFromFiles loads configuration with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files. Missing files are an error; callers
// that auto-discover config should check existence first. The result is not
// validated; call Validate once flag overrides are applied.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// godotenv.Load never overrides variables already set in the process.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// API_BASE_URL is honoured for compatibility with existing deployments of
// the content API tooling; CONTENTFLOW_API_URL wins when both are set.
func applyEnvOverrides(config *Config) {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		config.API.URL = url
	}
	if url := os.Getenv("CONTENTFLOW_API_URL"); url != "" {
		config.API.URL = url
	}
	if timeout := os.Getenv("CONTENTFLOW_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}
	if transport := os.Getenv("CONTENTFLOW_TRANSPORT"); transport != "" {
		config.Server.Transport = strings.ToLower(transport)
	}
	if host := os.Getenv("CONTENTFLOW_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("CONTENTFLOW_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("CONTENTFLOW_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, transport string, host string, port int) {
	if transport != "" {
		config.Server.Transport = strings.ToLower(transport)
	}
	if host != "" {
		config.Server.Host = host
	}
	if port > 0 {
		config.Server.Port = port
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unsupported transport %q (expected %q or %q)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.API.URL == "" {
		return fmt.Errorf("api.url must not be empty")
	}
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return fmt.Errorf("api.url %q must be an http(s) URL", c.API.URL)
	}
	return nil
}
