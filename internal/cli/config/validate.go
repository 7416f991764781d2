package config

import (
	"fmt"

	"github.com/leapstack-labs/flowlens/internal/cli/output"
	"github.com/leapstack-labs/flowlens/pkg/source"
)

// Validate checks if the configuration is valid.
// Source types must be registered, so callers import the source packages
// they support before loading.
func (c *Config) Validate() error {
	if c.Source == nil || c.Source.Type == "" {
		return fmt.Errorf("source.type is required")
	}
	if _, ok := source.Get(c.Source.Type); !ok {
		return &source.UnknownSourceError{Type: c.Source.Type, Available: source.List()}
	}
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if err := output.ValidateMode(c.OutputFormat); err != nil {
		return err
	}
	if c.UI != nil && (c.UI.Port < 0 || c.UI.Port > 65535) {
		return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
	}
	return nil
}
