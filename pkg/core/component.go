package core

import (
	"context"
	"errors"
	"strings"
	"time"
)

// HealthState is the coarse health of a running component.
type HealthState string

// Health states reported by the pipeline.
const (
	HealthUnknown   HealthState = "unknown"
	HealthHealthy   HealthState = "healthy"
	HealthUnhealthy HealthState = "unhealthy"
	HealthExited    HealthState = "exited"
)

// HealthStates lists every known state in display order.
func HealthStates() []HealthState {
	return []HealthState{HealthHealthy, HealthUnhealthy, HealthExited, HealthUnknown}
}

// ParseHealthState normalizes s into a HealthState.
// Unrecognized values map to HealthUnknown.
func ParseHealthState(s string) HealthState {
	switch HealthState(strings.ToLower(strings.TrimSpace(s))) {
	case HealthHealthy:
		return HealthHealthy
	case HealthUnhealthy:
		return HealthUnhealthy
	case HealthExited:
		return HealthExited
	default:
		return HealthUnknown
	}
}

// Valid reports whether h is one of the known states.
func (h HealthState) Valid() bool {
	switch h {
	case HealthUnknown, HealthHealthy, HealthUnhealthy, HealthExited:
		return true
	}
	return false
}

// Health is the last health report of a component.
type Health struct {
	State       HealthState
	Message     string
	UpdatedTime time.Time
}

// ComponentRecord describes one component known to the pipeline.
type ComponentRecord struct {
	ID           string
	Name         string
	Label        string
	Health       Health
	ReferencesTo []string
	ReferencedBy []string
}

// ErrComponentNotFound is returned when a component ID has no record.
var ErrComponentNotFound = errors.New("component not found")

// ParseComponentID splits a component ID into its name and label.
// IDs follow <namespace>.<kind>[.<kind>...].<label>; an ID with fewer than
// three segments has no label.
// e.g., "prometheus.remote_write.default" -> ("prometheus.remote_write", "default")
// e.g., "local.file" -> ("local.file", "")
func ParseComponentID(id string) (name, label string) {
	parts := strings.Split(id, ".")
	if len(parts) < 3 {
		return id, ""
	}
	return strings.Join(parts[:len(parts)-1], "."), parts[len(parts)-1]
}

// Normalize fills in derived fields of r in place. Name and Label are
// derived from the ID independently, so an explicit value of one never
// blanks the other.
func (r *ComponentRecord) Normalize() {
	name, label := ParseComponentID(r.ID)
	if r.Name == "" {
		r.Name = name
	}
	if r.Label == "" {
		r.Label = label
	}
	if !r.Health.State.Valid() {
		r.Health.State = ParseHealthState(string(r.Health.State))
	}
}

// ComponentLoader provides the component records shown by the UI.
type ComponentLoader interface {
	LoadComponents(ctx context.Context) ([]ComponentRecord, error)
}

// ComponentLoaderFunc adapts a function into a ComponentLoader.
type ComponentLoaderFunc func(ctx context.Context) ([]ComponentRecord, error)

// LoadComponents calls f(ctx).
func (f ComponentLoaderFunc) LoadComponents(ctx context.Context) ([]ComponentRecord, error) {
	return f(ctx)
}

// FindComponent returns the record with the given ID from loader.
func FindComponent(ctx context.Context, loader ComponentLoader, id string) (*ComponentRecord, error) {
	records, err := loader.LoadComponents(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			rec := records[i]
			return &rec, nil
		}
	}
	return nil, ErrComponentNotFound
}

// Revision identifies one snapshot of component records written to a store.
type Revision struct {
	ID         string
	Count      int
	RecordedAt time.Time
}

// ComponentStore persists snapshots of component records.
type ComponentStore interface {
	ComponentLoader
	ReplaceComponents(ctx context.Context, records []ComponentRecord) (*Revision, error)
	GetComponent(ctx context.Context, id string) (*ComponentRecord, error)
	LatestRevision(ctx context.Context) (*Revision, error)
	Close() error
}

// ResolveReferences fills ReferencedBy on every record that has none, using
// the ReferencesTo lists of the other records. Records are updated in place.
func ResolveReferences(records []ComponentRecord) {
	incoming := make(map[string][]string, len(records))
	for _, rec := range records {
		for _, target := range rec.ReferencesTo {
			incoming[target] = append(incoming[target], rec.ID)
		}
	}
	for i := range records {
		if len(records[i].ReferencedBy) == 0 && len(incoming[records[i].ID]) > 0 {
			records[i].ReferencedBy = incoming[records[i].ID]
		}
	}
}
