// Package output renders CLI results for terminals, scripts and agents.
//
// In auto mode a terminal gets styled text and anything else gets markdown,
// so piped output stays readable without ANSI codes.
package output

import (
	"fmt"
	"strings"
)

// OutputMode selects how results are written.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Modes lists the accepted --output values.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}
}

// Mode converts a flag or config value into an OutputMode.
// Empty and unrecognized values fall back to ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText
	case ModeMarkdown, "md":
		return ModeMarkdown
	case ModeJSON:
		return ModeJSON
	default:
		return ModeAuto
	}
}

// ValidateMode reports whether s is an accepted output value.
func ValidateMode(s string) error {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto, ModeText, ModeMarkdown, "md", ModeJSON:
		return nil
	}
	return fmt.Errorf("invalid output format %q (valid: %s)", s, strings.Join(Modes(), ", "))
}
