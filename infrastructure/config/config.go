// Package config loads boardd configuration from defaults, an
// optional TOML file, environment variables and command-line flags,
// in ascending priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"nodular/application/projections"
)

// envPrefix namespaces all boardd environment variables
const envPrefix = "NODULAR_"

// Config holds all configuration for the boardd process
type Config struct {
	Environment string        `koanf:"environment"`
	Server      ServerConfig  `koanf:"server"`
	Logging     LoggingConfig `koanf:"logging"`
	Board       BoardConfig   `koanf:"board"`
	Render      RenderConfig  `koanf:"render"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Address returns the host:port the server binds to
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// BoardConfig holds board bootstrap settings
type BoardConfig struct {
	Name string `koanf:"name"`

	// Seed populates the board with the demo conversation on startup
	Seed bool `koanf:"seed"`
}

// RenderConfig holds the projection defaults and the optional options
// file watched for runtime changes
type RenderConfig struct {
	ShowSystemEdges bool   `koanf:"show_system_edges"`
	PreviewLength   int    `koanf:"preview_length"`
	OptionsFile     string `koanf:"options_file"`
}

// Load builds the configuration. Priority: flags > env > config file >
// defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"environment":              "development",
		"server.host":              "127.0.0.1",
		"server.port":              8080,
		"server.read_timeout":      "15s",
		"server.write_timeout":     "15s",
		"server.shutdown_timeout":  "10s",
		"logging.level":            "info",
		"logging.format":           "console",
		"board.name":               "board",
		"board.seed":               true,
		"render.show_system_edges": true,
		"render.preview_length":    120,
		"render.options_file":      "",
	}
	if err := k.Load(mapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Optional; absence is fine
	_ = k.Load(file.Provider("boardd.toml"), toml.Parser())

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// RenderOptions translates the config into projection options
func (c *Config) RenderOptions() projections.RenderOptions {
	opts := projections.DefaultRenderOptions()
	opts.ShowSystemEdges = c.Render.ShowSystemEdges
	if c.Render.PreviewLength > 0 {
		opts.PreviewLength = c.Render.PreviewLength
	}
	return opts
}

// NewLogger builds the process logger from the logging config
func NewLogger(cfg *Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zapCfg.Level = level
	if cfg.Logging.Format != "" {
		zapCfg.Encoding = cfg.Logging.Format
	}
	return zapCfg.Build()
}

// confMap adapts a flat map to a koanf provider
type confMap struct {
	m map[string]interface{}
}

func mapProvider(m map[string]interface{}) *confMap {
	return &confMap{m: m}
}

// Read implements koanf.Provider
func (p *confMap) Read() (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(p.m))
	for key, value := range p.m {
		parts := strings.Split(key, ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return out, nil
}

// ReadBytes implements koanf.Provider
func (p *confMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("confMap provider does not support ReadBytes")
}
