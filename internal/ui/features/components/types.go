// Package components provides the "Components" page: the list of every
// component known to the pipeline, plus a detail page per component.
package components

import (
	"github.com/leapstack-labs/flowlens/internal/ui/features/components/pages"
	"github.com/leapstack-labs/flowlens/internal/ui/icons"
	"github.com/leapstack-labs/flowlens/internal/ui/layout"
)

// Descriptor is the fixed header of the Components page.
var Descriptor = layout.PageDescriptor{
	Name:        "Components",
	Description: "List of known components",
	Icon:        icons.Cubes,
}

// Path is where the Components page is mounted.
const Path = pages.Path

// ListRegionID is the DOM id of the list, used as the SSE patch target.
const ListRegionID = pages.ListRegionID

// ListOptions controls how the list presents its items.
type ListOptions = pages.ListOptions

// DetailViewData holds the values shown on a component detail page.
type DetailViewData = pages.DetailViewData
