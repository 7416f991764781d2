package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/flowlens/pkg/source"
)

// SourceName is the registry name of the state store source.
const SourceName = "state"

// SourceParams configures the state source.
type SourceParams struct {
	Path string `mapstructure:"path"`
}

func init() {
	source.Register(SourceName, openSource)
}

func openSource(_ context.Context, params map[string]any, logger *slog.Logger) (source.Source, error) {
	var p SourceParams
	if err := source.DecodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, fmt.Errorf("state source requires params.path")
	}
	return OpenStore(p.Path, logger)
}
