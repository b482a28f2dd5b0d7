// Package render defines the contract between a control tree and its output
// formats, plus the registry panels use to pick one at request time.
package render

import (
	"context"

	"github.com/goliatone/go-framepanel/pkg/control"
	theme "github.com/goliatone/go-theme"
)

// Renderer converts a control tree into a byte representation (an HTML
// document, an interactive terminal session transcript, ...). Renderers must
// call MarkRendered on every control they materialise so blocked field
// accessors resume.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, root *control.Group, options Options) ([]byte, error)
}

// Options carries per-request rendering instructions.
type Options struct {
	// Title overrides the document heading.
	Title string
	// CollapseAll renders every group collapsed regardless of its expanded
	// flag, backing the global collapse-all action.
	CollapseAll bool
	// Theme supplies resolved go-theme output (stylesheets, CSS variables)
	// that HTML renderers inject into the page shell.
	Theme *theme.RendererConfig
	// AssetURLPrefix prefixes emitted asset paths (e.g. "/static/panel").
	AssetURLPrefix string
}
