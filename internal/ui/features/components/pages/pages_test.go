package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/flowlens/internal/ui/features"
	"github.com/leapstack-labs/flowlens/internal/ui/layout"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func rowsOf(t *testing.T, out string) []*html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" && attrOf(n, "class") == "component-list__row" {
			rows = append(rows, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func threeComponents() []core.ComponentRecord {
	return features.Records(
		features.TestComponent{ID: "prometheus.scrape.default", Refs: []string{"discovery.kubernetes.pods"}},
		features.TestComponent{ID: "discovery.kubernetes.pods"},
		features.TestComponent{ID: "local.file.api_key", State: core.HealthUnhealthy, Message: "permission denied"},
	)
}

func TestComponentList_SortsWithoutMutatingInput(t *testing.T) {
	items := threeComponents()
	original := append([]core.ComponentRecord(nil), items...)

	out := render(t, ComponentList(items, ListOptions{}))

	assert.Equal(t, original, items, "caller's slice must not be reordered")

	rows := rowsOf(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, "discovery.kubernetes.pods", attrOf(rows[0], "data-component-id"))
	assert.Equal(t, "local.file.api_key", attrOf(rows[1], "data-component-id"))
	assert.Equal(t, "prometheus.scrape.default", attrOf(rows[2], "data-component-id"))
}

func TestComponentList_Markup(t *testing.T) {
	items := features.Records(features.TestComponent{ID: "local.file.api_key", State: core.HealthUnhealthy})

	out := render(t, ComponentList(items, ListOptions{}))

	assert.True(t, strings.HasPrefix(out, `<div class="component-list" id="component-list">`))
	assert.Contains(t, out, `<a href="/components?health=all" class="active">All</a><a href="/components?health=healthy">Healthy</a>`)
	assert.Contains(t, out, `<tr class="component-list__row" data-component-id="local.file.api_key">`)
	assert.Contains(t, out, `<td><span class="health health--unhealthy">Unhealthy</span></td>`)
	assert.Contains(t, out, `<td><a class="view-button" href="/component/local.file.api_key">View</a></td>`)
}

func TestComponentList_HealthFilter(t *testing.T) {
	out := render(t, ComponentList(threeComponents(), ListOptions{Health: core.HealthUnhealthy}))

	rows := rowsOf(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "local.file.api_key", attrOf(rows[0], "data-component-id"))
	assert.Contains(t, out, `<a href="/components?health=unhealthy" class="active">Unhealthy</a>`)
	assert.Equal(t, 1, strings.Count(out, `class="active"`))
}

func TestComponentList_FilterWithNoMatches(t *testing.T) {
	out := render(t, ComponentList(threeComponents(), ListOptions{Health: core.HealthExited}))

	assert.Empty(t, rowsOf(t, out))
	assert.Contains(t, out, `<td class="component-list__empty" colspan="3">No components</td>`)
}

func TestComponentList_EscapesContent(t *testing.T) {
	items := []core.ComponentRecord{{ID: `evil.<script>.x"y`, Health: core.Health{State: core.HealthHealthy}}}

	out := render(t, ComponentList(items, ListOptions{}))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestDetailPath(t *testing.T) {
	assert.Equal(t, "/component/prometheus.scrape.default", DetailPath("prometheus.scrape.default"))
	assert.Equal(t, "/component/a%2Fb", DetailPath("a/b"))
}

func TestHealthLabel(t *testing.T) {
	tests := []struct {
		state core.HealthState
		want  string
	}{
		{core.HealthHealthy, "Healthy"},
		{core.HealthUnhealthy, "Unhealthy"},
		{core.HealthExited, "Exited"},
		{core.HealthUnknown, "Unknown"},
		{core.HealthState("bogus"), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, HealthLabel(tt.state))
		})
	}
}

func TestDetailPage_RendersReferences(t *testing.T) {
	data := DetailViewData{
		ID:           "discovery.kubernetes.pods",
		Name:         "discovery.kubernetes",
		Label:        "pods",
		State:        core.HealthHealthy,
		UpdatedAt:    "never",
		ReferencedBy: []string{"prometheus.scrape.default"},
	}

	out := render(t, DetailPage(data))

	assert.Contains(t, out, `<h1 class="page__title">discovery.kubernetes.pods</h1>`)
	assert.Contains(t, out, `<p class="page__desc">Component discovery.kubernetes</p>`)
	assert.Contains(t, out, `data-icon="cube"`)
	assert.Contains(t, out, `<dt>Label</dt><dd>pods</dd>`)
	assert.Contains(t, out, `<dt>References</dt><dd>none</dd>`)
	assert.Contains(t, out, `<dt>Referenced by</dt><dd><ul><li><a href="/component/prometheus.scrape.default">prometheus.scrape.default</a></li></ul></dd>`)
	assert.Contains(t, out, `<p><a href="/components">Back to components</a></p>`)
	assert.NotContains(t, out, "<dt>Message</dt>")
}

func TestDetailPage_ShowsMessage(t *testing.T) {
	data := DetailViewData{ID: "local.file.api_key", Name: "local.file", State: core.HealthUnhealthy, Message: "permission denied"}

	out := render(t, DetailPage(data))

	assert.Contains(t, out, `<dd class="component-detail__message">permission denied</dd>`)
	assert.Contains(t, out, `<span class="health health--unhealthy">Unhealthy</span>`)
}

func TestDetailPage_IncompleteDescriptor(t *testing.T) {
	var buf bytes.Buffer
	err := DetailPage(DetailViewData{}).Render(context.Background(), &buf)

	assert.ErrorIs(t, err, layout.ErrIncompleteDescriptor)
}

func TestNotFoundPage(t *testing.T) {
	out := render(t, NotFoundPage("missing.component"))

	assert.Contains(t, out, `<h1 class="page__title">Component not found</h1>`)
	assert.Contains(t, out, "No component with ID missing.component")
	assert.Contains(t, out, `data-icon="warning"`)
	assert.Contains(t, out, `<div class="page__content"><p><a href="/components">Back to components</a></p></div>`)
}
