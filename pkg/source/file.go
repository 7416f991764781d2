package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/flowlens/pkg/core"
)

// FileName is the registry name of the YAML file source.
const FileName = "file"

func init() {
	Register(FileName, openFileSource)
}

// FileParams configures the file source.
type FileParams struct {
	Path string `mapstructure:"path"`
}

// Document is the on-disk YAML layout of a components file.
type Document struct {
	Components []DocumentRecord `yaml:"components"`
}

// DocumentRecord is one component entry in a components file.
type DocumentRecord struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name,omitempty"`
	Label        string         `yaml:"label,omitempty"`
	Health       DocumentHealth `yaml:"health"`
	ReferencesTo []string       `yaml:"references_to,omitempty"`
	ReferencedBy []string       `yaml:"referenced_by,omitempty"`
}

// DocumentHealth is the health block of a DocumentRecord.
type DocumentHealth struct {
	State       string    `yaml:"state"`
	Message     string    `yaml:"message,omitempty"`
	UpdatedTime time.Time `yaml:"updated_time,omitempty"`
}

// ErrMissingID is returned for a component entry without an id.
var ErrMissingID = errors.New("component id is required")

// FileSource reads components from a YAML file on every load, so edits are
// picked up without a restart.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file source for path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileSource{path: path, logger: logger}
}

func openFileSource(_ context.Context, params map[string]any, logger *slog.Logger) (Source, error) {
	var p FileParams
	if err := DecodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, fmt.Errorf("file source requires params.path")
	}
	if _, err := os.Stat(p.Path); err != nil {
		return nil, fmt.Errorf("components file not readable: %w", err)
	}
	return NewFileSource(p.Path, logger), nil
}

// LoadComponents reads and parses the file.
func (s *FileSource) LoadComponents(_ context.Context) ([]core.ComponentRecord, error) {
	records, err := ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded components file", "path", s.path, "count", len(records))
	return records, nil
}

// WatchPath returns the file to watch for changes.
func (s *FileSource) WatchPath() string {
	return s.path
}

// Close implements Source.
func (s *FileSource) Close() error { return nil }

// ReadFile reads a components file.
func ReadFile(path string) ([]core.ComponentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read components file: %w", err)
	}
	records, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ParseDocument decodes a components YAML document.
// Names and labels are derived from IDs when absent, and ReferencedBy is
// filled in from the other entries' ReferencesTo.
func ParseDocument(data []byte) ([]core.ComponentRecord, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid components document: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Components))
	records := make([]core.ComponentRecord, 0, len(doc.Components))
	for i, entry := range doc.Components {
		if entry.ID == "" {
			return nil, fmt.Errorf("components[%d]: %w", i, ErrMissingID)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("components[%d]: duplicate component id %q", i, entry.ID)
		}
		seen[entry.ID] = struct{}{}

		rec := core.ComponentRecord{
			ID:    entry.ID,
			Name:  entry.Name,
			Label: entry.Label,
			Health: core.Health{
				State:       core.ParseHealthState(entry.Health.State),
				Message:     entry.Health.Message,
				UpdatedTime: entry.Health.UpdatedTime,
			},
			ReferencesTo: entry.ReferencesTo,
			ReferencedBy: entry.ReferencedBy,
		}
		rec.Normalize()
		records = append(records, rec)
	}

	core.ResolveReferences(records)
	return records, nil
}

// MarshalDocument encodes records as a components YAML document.
func MarshalDocument(records []core.ComponentRecord) ([]byte, error) {
	doc := Document{Components: make([]DocumentRecord, 0, len(records))}
	for _, rec := range records {
		doc.Components = append(doc.Components, DocumentRecord{
			ID:    rec.ID,
			Name:  rec.Name,
			Label: rec.Label,
			Health: DocumentHealth{
				State:       string(rec.Health.State),
				Message:     rec.Health.Message,
				UpdatedTime: rec.Health.UpdatedTime,
			},
			ReferencesTo: rec.ReferencesTo,
			ReferencedBy: rec.ReferencedBy,
		})
	}
	return yaml.Marshal(doc)
}
