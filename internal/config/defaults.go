package config

import "github.com/bobmcallan/contentflow-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "contentflow-mcp",
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      4250,
		},
		API: APIConfig{
			URL:           "http://localhost:5001/api",
			Timeout:       "30s",
			MaxResponseMB: 50,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/contentflow-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
