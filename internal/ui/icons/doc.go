// Package icons defines the icon identifiers used by UI pages.
//
// Pages refer to icons by a stable ID so that layout code never depends on a
// particular icon asset library. The HTML renderer maps each ID to a Font
// Awesome glyph name; other renderers are free to choose their own mapping.
package icons
