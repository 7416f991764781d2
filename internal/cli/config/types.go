// Package config provides configuration management for the flowlens CLI.
package config

import (
	"github.com/leapstack-labs/flowlens/pkg/source"
)

// SourceConfig selects the component source. It is the registry config
// from pkg/source, aliased so CLI code can stay within this package.
type SourceConfig = source.Config

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:          DefaultUIPort,
		AutoOpen:      true,
		Watch:         true,
		SessionSecret: DefaultSessionSecret,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := *c.UI
	if ui.Port == 0 {
		ui.Port = DefaultUIPort
	}
	if ui.SessionSecret == "" {
		ui.SessionSecret = DefaultSessionSecret
	}
	return &ui
}

// Config holds all CLI configuration options.
type Config struct {
	Source       *SourceConfig `koanf:"source"`
	StatePath    string        `koanf:"state_path"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	UI           *UIConfig     `koanf:"ui"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultSource    = source.PlaceholderName
	DefaultStateFile = ".flowlens/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultUIPort    = 8765

	// DefaultSessionSecret only signs the UI filter cookie.
	DefaultSessionSecret = "flowlens-dev-secret-change-in-production" //nolint:gosec
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"flowlens.yaml", "flowlens.yml"}
