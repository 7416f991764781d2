package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/flowlens/pkg/core"
)

// PlaceholderName is the registry name of the placeholder source.
const PlaceholderName = "placeholder"

func init() {
	Register(PlaceholderName, func(context.Context, map[string]any, *slog.Logger) (Source, error) {
		return placeholderSource{}, nil
	})
}

var placeholderUpdated = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// placeholderRecords is built once and never mutated; Placeholder hands out copies.
var placeholderRecords = []core.ComponentRecord{
	{
		ID:     "discovery.kubernetes.pods",
		Name:   "discovery.kubernetes",
		Label:  "pods",
		Health: core.Health{State: core.HealthHealthy, Message: "started component", UpdatedTime: placeholderUpdated},
		ReferencedBy: []string{
			"prometheus.scrape.default",
		},
	},
	{
		ID:     "prometheus.scrape.default",
		Name:   "prometheus.scrape",
		Label:  "default",
		Health: core.Health{State: core.HealthHealthy, Message: "started scrape manager", UpdatedTime: placeholderUpdated},
		ReferencesTo: []string{
			"discovery.kubernetes.pods",
			"prometheus.remote_write.default",
		},
	},
	{
		ID:     "prometheus.remote_write.default",
		Name:   "prometheus.remote_write",
		Label:  "default",
		Health: core.Health{State: core.HealthHealthy, Message: "started component", UpdatedTime: placeholderUpdated},
		ReferencesTo: []string{
			"local.file.api_key",
		},
		ReferencedBy: []string{
			"prometheus.scrape.default",
		},
	},
	{
		ID:     "local.file.api_key",
		Name:   "local.file",
		Label:  "api_key",
		Health: core.Health{State: core.HealthUnhealthy, Message: "failed to read file: permission denied", UpdatedTime: placeholderUpdated},
		ReferencedBy: []string{
			"prometheus.remote_write.default",
		},
	},
	{
		ID:     "prometheus.exporter.unix.node",
		Name:   "prometheus.exporter.unix",
		Label:  "node",
		Health: core.Health{State: core.HealthExited, Message: "integration exited", UpdatedTime: placeholderUpdated},
	},
}

// Placeholder returns a copy of the static placeholder dataset.
func Placeholder() []core.ComponentRecord {
	out := make([]core.ComponentRecord, len(placeholderRecords))
	for i, rec := range placeholderRecords {
		rec.ReferencesTo = append([]string(nil), rec.ReferencesTo...)
		rec.ReferencedBy = append([]string(nil), rec.ReferencedBy...)
		out[i] = rec
	}
	return out
}

type placeholderSource struct{}

func (placeholderSource) LoadComponents(context.Context) ([]core.ComponentRecord, error) {
	return Placeholder(), nil
}

func (placeholderSource) Close() error { return nil }
