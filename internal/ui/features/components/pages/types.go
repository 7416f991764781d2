// Package pages holds the templ views of the components feature.
package pages

import "github.com/leapstack-labs/flowlens/pkg/core"

// Path is where the Components page is mounted.
const Path = "/components"

// ListRegionID is the DOM id of the list, used as the SSE patch target.
const ListRegionID = "component-list"

// ListOptions controls how ComponentList presents its items.
type ListOptions struct {
	// Health hides every record whose state differs. Empty shows all.
	Health core.HealthState
}

// DetailViewData holds the values shown on a component detail page.
type DetailViewData struct {
	ID           string
	Name         string
	Label        string
	State        core.HealthState
	Message      string
	UpdatedAt    string
	ReferencesTo []string
	ReferencedBy []string
}
