// Package framepanel generates interactive control panels for embedded
// webview hosts. The root package re-exports the common entry points; the
// pkg tree holds the building blocks (control framework, host abstraction,
// renderers, HTTP harness).
package framepanel

import (
	"context"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/frame"
	"github.com/goliatone/go-framepanel/pkg/panel"
	"github.com/goliatone/go-framepanel/pkg/render"
	"github.com/goliatone/go-framepanel/pkg/renderers/tui"
	"github.com/goliatone/go-framepanel/pkg/renderers/vanilla"
)

// Control renders a set of fields plus an optional submit action.
type Control = control.Control

// Group is a collapsible container of controls and nested groups.
type Group = control.Group

// Field describes one input widget's type and initial state.
type Field = control.Field

// Host is the embedded-webview surface a panel exercises.
type Host = frame.Host

// RenderOptions carries per-render presentation settings.
type RenderOptions = render.Options

// NewController builds the full control tree for the supplied host.
func NewController(host frame.Host, options ...panel.Option) (*panel.Controller, error) {
	return panel.New(host, options...)
}

// DefaultRegistry returns a registry holding the built-in renderers.
func DefaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}

	terminal, err := tui.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(terminal); err != nil {
		return nil, err
	}

	return registry, nil
}

// Generate builds a panel for the host and renders it with the named
// renderer. It is the simplest entry point for callers that just want the
// rendered document.
func Generate(ctx context.Context, host frame.Host, rendererName string, options RenderOptions, panelOptions ...panel.Option) ([]byte, error) {
	registry, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}

	controller, err := panel.New(host, panelOptions...)
	if err != nil {
		return nil, err
	}
	defer controller.Close()

	return renderer.Render(ctx, controller.Root(), options)
}
