// Package resources serves the stylesheet and other static files of the UI.
package resources

import "strings"

// StaticDirectoryPath is the path to static assets from the repository root.
const StaticDirectoryPath = "internal/ui/resources/static"

// URLPrefix is the path under which static assets are mounted.
const URLPrefix = "/static/"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return URLPrefix + strings.TrimPrefix(path, "/")
}
