// Package config loads the service configuration from a JSON or YAML
// file with environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/campuscal/deptsched/core/metrics"
	"github.com/campuscal/deptsched/infra/ingest"
)

type Config struct {
	Engine  EngineConfig       `json:"engine"`
	API     APIConfig          `json:"api"`
	Ingest  ingest.Config      `json:"ingest"`
	Metrics coremetrics.Config `json:"metrics"`
	Logging LoggingConfig      `json:"logging"`
}

// Load reads the file at path and applies DS_-prefixed environment
// overrides (DS_ENGINE__BUFFER_MINUTES=20 sets engine.buffer_minutes).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// The callback rewrites DS_ENGINE__BUFFER_MINUTES to
	// engine.buffer_minutes, so the provider delimiter must be the dot
	// the rewritten keys use.
	if err := k.Load(env.Provider("DS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ds_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Ingest.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Engine.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Ingest.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logging.SetDefaults()
	return cfg
}

// APIConfig defines the query API listener.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
