package icons

import "strings"

// ID is a stable icon identifier.
type ID int

// Known icon identifiers. Unspecified is the zero value and is never cataloged.
const (
	Unspecified ID = iota
	Cubes
	Cube
	Diagram
	Heartbeat
	Settings
	Info
	Warning
)

// Definition describes a cataloged icon.
type Definition struct {
	ID          ID
	Key         string
	Name        string
	Description string
}

var catalog = []Definition{
	{ID: Cubes, Key: "cubes", Name: "Cubes", Description: "Collections of pipeline components."},
	{ID: Cube, Key: "cube", Name: "Cube", Description: "A single pipeline component."},
	{ID: Diagram, Key: "diagram", Name: "Diagram", Description: "Component graphs and references."},
	{ID: Heartbeat, Key: "heartbeat", Name: "Heartbeat", Description: "Health reports and status."},
	{ID: Settings, Key: "settings", Name: "Settings", Description: "Configuration pages."},
	{ID: Info, Key: "info", Name: "Info", Description: "Informational notices."},
	{ID: Warning, Key: "warning", Name: "Warning", Description: "Problems that need attention."},
}

// Catalog returns a copy of the icon catalog definitions.
func Catalog() []Definition {
	result := make([]Definition, len(catalog))
	copy(result, catalog)
	return result
}

// Lookup returns the catalog definition for id.
func Lookup(id ID) (Definition, bool) {
	for _, def := range catalog {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// ParseKey resolves a catalog key such as "cubes" to its ID.
func ParseKey(key string) (ID, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, def := range catalog {
		if def.Key == key {
			return def.ID, true
		}
	}
	return Unspecified, false
}

// String returns the catalog key of id, or "unspecified".
func (id ID) String() string {
	if def, ok := Lookup(id); ok {
		return def.Key
	}
	return "unspecified"
}

// CatalogMarkdown renders the icon catalog as markdown.
func CatalogMarkdown() string {
	var builder strings.Builder
	builder.WriteString("# Icon Catalog\n\n")
	builder.WriteString("| Key | Name | Glyph | Description |\n")
	builder.WriteString("| --- | --- | --- | --- |\n")
	for _, def := range catalog {
		builder.WriteString("| ")
		builder.WriteString(def.Key)
		builder.WriteString(" | ")
		builder.WriteString(def.Name)
		builder.WriteString(" | ")
		builder.WriteString(FontAwesomeNameOrDefault(def.ID))
		builder.WriteString(" | ")
		builder.WriteString(def.Description)
		builder.WriteString(" |\n")
	}
	return builder.String()
}
