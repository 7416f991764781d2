package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store config in context.
type configKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// EnvPrefix is the prefix of environment variable overrides.
// A double underscore separates nesting levels: FLOWLENS_UI__PORT -> ui.port.
const EnvPrefix = "FLOWLENS_"

// Loader loads configuration. Each Loader owns its koanf instance.
type Loader struct {
	k              *koanf.Koanf
	configFileUsed string
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{k: koanf.New(".")}
}

// configExistsIn returns the config file in dir, if any.
func configExistsIn(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a flowlens config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configExistsIn(dir); found != "" {
			return found
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return NewLoader().Load(cfgFile, flags)
}

// Load loads configuration. An explicit cfgFile must exist; otherwise the
// current directory and its parents are searched.
func (l *Loader) Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	// 1. Load defaults
	if err := l.k.Load(confmap.Provider(map[string]any{
		"source.type":       DefaultSource,
		"state_path":        DefaultStateFile,
		"verbose":           false,
		"output":            DefaultOutput,
		"ui.port":           DefaultUIPort,
		"ui.auto_open":      true,
		"ui.watch":          true,
		"ui.session_secret": DefaultSessionSecret,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = findConfigUpward(cwd)
	}
	projectRoot := cwd
	if cfgFile != "" {
		if err := l.k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		l.configFileUsed = cfgFile
		if abs, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (FLOWLENS_ prefix)
	// Transform: FLOWLENS_STATE_PATH -> state_path, FLOWLENS_SOURCE__TYPE -> source.type
	if err := l.k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	var flagStatePath string
	if flags != nil {
		if err := l.k.Load(posflag.ProviderWithFlag(flags, ".", l.k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			switch f.Name {
			case "state":
				flagStatePath = f.Value.String()
				return "state_path", posflag.FlagVal(flags, f)
			case "source":
				return "source.type", posflag.FlagVal(flags, f)
			case "config":
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths. Flag paths are relative to the working directory,
	// everything else to the directory holding the config file.
	cfg.ProjectRoot = projectRoot
	if flagStatePath != "" {
		cfg.StatePath = resolvePathRelativeTo(flagStatePath, cwd)
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}
	applySourceDefaults(&cfg, flagStatePath != "")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path to the config file that was loaded, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.configFileUsed
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// applySourceDefaults fills source params derived from the rest of the config.
// A state source and the state_path setting always name the same file: an
// explicit params.path wins over state_path, and --state wins over both.
func applySourceDefaults(cfg *Config, stateFromFlag bool) {
	if cfg.Source == nil {
		cfg.Source = &SourceConfig{Type: DefaultSource}
	}
	if cfg.Source.Params == nil {
		cfg.Source.Params = map[string]any{}
	}
	cfg.Source.Type = strings.ToLower(strings.TrimSpace(cfg.Source.Type))

	for key, v := range cfg.Source.Params {
		if s, ok := v.(string); ok {
			cfg.Source.Params[key] = expandEnvVars(s)
		}
	}

	switch cfg.Source.Type {
	case "state":
		if p, _ := cfg.Source.Params["path"].(string); p != "" && !stateFromFlag {
			cfg.StatePath = resolvePathRelativeTo(p, cfg.ProjectRoot)
		}
		cfg.Source.Params["path"] = cfg.StatePath
	case "file":
		if p, _ := cfg.Source.Params["path"].(string); p != "" {
			cfg.Source.Params["path"] = resolvePathRelativeTo(p, cfg.ProjectRoot)
		}
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from ctx, or a default config.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	cfg := &Config{
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
		UI:           DefaultUIConfig(),
	}
	applySourceDefaults(cfg, false)
	return cfg
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
