package config

import "fmt"

var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// LoggingConfig controls the service log verbosity. The output format
// (console vs JSON) still follows APP_ENV.
type LoggingConfig struct {
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level is one the logger understands.
func (c LoggingConfig) Validate() error {
	if _, ok := logLevels[c.Level]; !ok {
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	return nil
}
