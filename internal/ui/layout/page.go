// Package layout provides the page chrome shared by every UI page.
package layout

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/flowlens/internal/ui/icons"
)

// ErrIncompleteDescriptor is returned when a page is rendered without a name,
// description, or icon.
var ErrIncompleteDescriptor = errors.New("page descriptor requires name, description and icon")

// PageDescriptor identifies a page in its header.
type PageDescriptor struct {
	Name        string
	Description string
	Icon        icons.ID
}

// Validate checks that all header fields are present.
func (d PageDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Description) == "" || d.Icon == icons.Unspecified {
		return ErrIncompleteDescriptor
	}
	return nil
}

// Page renders the page header for desc followed by the children in ctx.
// An incomplete descriptor renders nothing and fails with ErrIncompleteDescriptor.
func Page(desc PageDescriptor) templ.Component {
	if err := desc.Validate(); err != nil {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return err
		})
	}
	return pageShell(desc)
}

// Wrap renders parent with child as its children.
func Wrap(parent, child templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return parent.Render(templ.WithChildren(ctx, child), w)
	})
}
