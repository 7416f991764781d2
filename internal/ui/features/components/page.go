package components

import (
	"time"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/flowlens/internal/ui/features/components/pages"
	"github.com/leapstack-labs/flowlens/internal/ui/layout"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

// ListView is the list region of the Components page.
type ListView struct {
	Items   []core.ComponentRecord
	Options ListOptions
}

// Component renders the list.
func (l ListView) Component() templ.Component {
	return pages.ComponentList(l.Items, l.Options)
}

// PageView is the Components page: the page shell around a single list.
type PageView struct {
	Descriptor layout.PageDescriptor
	List       ListView
}

// NewPageView composes the Components page for items.
// Items are passed through untouched; loading them is the caller's job.
func NewPageView(items []core.ComponentRecord, opts ListOptions) PageView {
	return PageView{
		Descriptor: Descriptor,
		List:       ListView{Items: items, Options: opts},
	}
}

// Component renders the page shell with the list as its content.
func (v PageView) Component() templ.Component {
	return layout.Wrap(layout.Page(v.Descriptor), v.List.Component())
}

// NewDetailViewData flattens a record for the detail page.
func NewDetailViewData(rec core.ComponentRecord) DetailViewData {
	updated := "never"
	if !rec.Health.UpdatedTime.IsZero() {
		updated = rec.Health.UpdatedTime.UTC().Format(time.RFC3339)
	}
	return DetailViewData{
		ID:           rec.ID,
		Name:         rec.Name,
		Label:        rec.Label,
		State:        rec.Health.State,
		Message:      rec.Health.Message,
		UpdatedAt:    updated,
		ReferencesTo: rec.ReferencesTo,
		ReferencedBy: rec.ReferencedBy,
	}
}
