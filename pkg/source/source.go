// Package source provides the pluggable data providers behind the
// Components page.
//
// A source is selected by name from the registry. Implementations register
// a Factory in their init() functions; the placeholder and file sources live
// in this package, others in their own packages.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/flowlens/pkg/core"
)

// Source is a ComponentLoader that may hold resources.
type Source interface {
	core.ComponentLoader
	Close() error
}

// Watchable is implemented by sources backed by a local file.
type Watchable interface {
	WatchPath() string
}

// Config selects and configures a source.
type Config struct {
	Type   string         `koanf:"type"`
	Params map[string]any `koanf:"params"`
}

// Factory opens a source from its params.
type Factory func(ctx context.Context, params map[string]any, logger *slog.Logger) (Source, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a source factory to the registry.
// Called by source implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a source factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// List returns all registered source names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New opens the source described by cfg.
// The logger parameter is passed to the factory (nil uses discard logger).
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Source, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("source type not specified")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownSourceError{
			Type:      cfg.Type,
			Available: List(),
		}
	}

	src, err := factory(ctx, cfg.Params, logger.With("source", cfg.Type))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s source: %w", cfg.Type, err)
	}
	return src, nil
}

// UnknownSourceError is returned when an unknown source type is requested.
type UnknownSourceError struct {
	Type      string
	Available []string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source type %q\nAvailable sources: %v\nHint: Check your source.type in flowlens.yaml", e.Type, e.Available)
}

// DecodeParams decodes source params into out, rejecting unknown keys.
func DecodeParams(params map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(params); err != nil {
		return fmt.Errorf("invalid source params: %w", err)
	}
	return nil
}
