package pages

import (
	"net/url"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/flowlens/internal/ui/icons"
	"github.com/leapstack-labs/flowlens/internal/ui/layout"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

// Helper functions for component page templates

// DetailPath returns the URL of the detail page for a component ID.
func DetailPath(id string) string {
	return "/component/" + url.PathEscape(id)
}

// HealthLabel returns the display label of a health state.
func HealthLabel(state core.HealthState) string {
	if !state.Valid() {
		state = core.HealthUnknown
	}
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(string(state))
}

func healthBadgeClass(state core.HealthState) string {
	switch state {
	case core.HealthHealthy:
		return "health health--healthy"
	case core.HealthUnhealthy:
		return "health health--unhealthy"
	case core.HealthExited:
		return "health health--exited"
	default:
		return "health health--unknown"
	}
}

func filterHref(value string) string {
	return Path + "?health=" + value
}

// visibleRecords returns the filtered records sorted by ID, on a copy of items.
func visibleRecords(items []core.ComponentRecord, opts ListOptions) []core.ComponentRecord {
	result := make([]core.ComponentRecord, 0, len(items))
	for _, rec := range items {
		if opts.Health != "" && rec.Health.State != opts.Health {
			continue
		}
		result = append(result, rec)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

func detailDescriptor(data DetailViewData) layout.PageDescriptor {
	return layout.PageDescriptor{
		Name:        data.ID,
		Description: "Component " + data.Name,
		Icon:        icons.Cube,
	}
}

func notFoundDescriptor(id string) layout.PageDescriptor {
	return layout.PageDescriptor{
		Name:        "Component not found",
		Description: "No component with ID " + id,
		Icon:        icons.Warning,
	}
}
