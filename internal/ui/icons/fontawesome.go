package icons

const fontAwesomeDefault = "circle-question"

var fontAwesomeNames = map[ID]string{
	Cubes:     "cubes",
	Cube:      "cube",
	Diagram:   "diagram-project",
	Heartbeat: "heart-pulse",
	Settings:  "gear",
	Info:      "circle-info",
	Warning:   "triangle-exclamation",
}

// FontAwesomeName returns the Font Awesome glyph name for an icon identifier.
func FontAwesomeName(id ID) (string, bool) {
	name, ok := fontAwesomeNames[id]
	return name, ok
}

// FontAwesomeNameOrDefault provides a stable glyph name even when the icon ID is unknown.
func FontAwesomeNameOrDefault(id ID) string {
	if name, ok := fontAwesomeNames[id]; ok {
		return name
	}
	return fontAwesomeDefault
}

// ClassName returns the CSS classes that render id as a solid Font Awesome glyph.
func ClassName(id ID) string {
	return "fa-solid fa-" + FontAwesomeNameOrDefault(id)
}
