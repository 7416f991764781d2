package layout

// AppName is appended to every document title.
const AppName = "Flowlens"

// NavItem is one entry of the top navigation bar.
type NavItem struct {
	Label string
	Href  string
}

// DefaultNav lists the top-level pages.
var DefaultNav = []NavItem{
	{Label: "Components", Href: "/components"},
}

// DocumentOptions configures the HTML document around a page.
type DocumentOptions struct {
	Title       string
	CurrentPath string
	// UpdatesURL is opened as a datastar SSE stream when the page loads.
	UpdatesURL string
	IsDev      bool
}

// DocumentTitle composes the browser title for a page title.
func DocumentTitle(title string) string {
	if title == "" {
		return AppName
	}
	return title + " - " + AppName
}

// updatesInit is the datastar expression that opens the page's SSE stream.
func updatesInit(url string) string {
	return "@get('" + url + "')"
}
