// Package tui drives a control tree through interactive terminal prompts:
// each control's fields become survey prompts, submit confirmation invokes
// the bound handler, and the session transcript serializes to JSON.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/render"
)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithSubmitPrompt toggles the per-control submit confirmation. Disabled,
// the renderer only collects values without invoking handlers.
func WithSubmitPrompt(enabled bool) Option {
	return func(r *Renderer) {
		r.promptSubmit = enabled
	}
}

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	promptSubmit bool
}

// New constructs a TUI renderer with defaults (survey driver, submit
// prompts enabled).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		promptSubmit: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "tui" }

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string { return "application/json" }

// Render walks the tree depth-first, prompting per field and optionally
// submitting each control, then serializes collected values keyed by control
// id. Collapsed groups are skipped, matching the visual semantics of the
// HTML renderer.
func (r *Renderer) Render(ctx context.Context, root *control.Group, _ render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("tui: root group is required")
	}
	if r.driver == nil {
		return nil, fmt.Errorf("tui: prompt driver is nil")
	}

	root.AssignDepths(0)

	transcript := make(map[string]map[string]any)
	if err := r.walkGroup(ctx, root, transcript); err != nil {
		return nil, err
	}
	return json.Marshal(transcript)
}

func (r *Renderer) walkGroup(ctx context.Context, group *control.Group, transcript map[string]map[string]any) error {
	indent := strings.Repeat("  ", group.Depth())
	if err := r.driver.Info(ctx, fmt.Sprintf("%s== %s ==", indent, group.Heading())); err != nil {
		return err
	}
	if !group.Expanded() {
		return r.driver.Info(ctx, indent+"   (collapsed)")
	}

	for _, child := range group.Children() {
		switch node := child.(type) {
		case *control.Group:
			if err := r.walkGroup(ctx, node, transcript); err != nil {
				return err
			}
		case *control.Control:
			if err := r.visitControl(ctx, node, transcript); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) visitControl(ctx context.Context, c *control.Control, transcript map[string]map[string]any) error {
	// Prompting counts as materialising the widgets.
	c.MarkRendered()

	values := make(map[string]any)
	for _, field := range c.Fields() {
		value, err := r.promptField(ctx, c, field)
		if err != nil {
			return err
		}
		values[field.WidgetID()] = value
	}
	transcript[c.ID()] = values

	if c.EventOnly() || !r.promptSubmit {
		return nil
	}

	submit, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("%s?", c.ButtonText()),
		Default: false,
	})
	if err != nil {
		return err
	}
	if !submit {
		return nil
	}
	if err := c.Submit(ctx); err != nil {
		return r.driver.Info(ctx, fmt.Sprintf("%s failed: %v", c.ID(), err))
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, c *control.Control, field control.Field) (any, error) {
	id := field.WidgetID()
	label := field.DisplayLabel()
	current, err := c.GetFieldValue(ctx, id)
	if err != nil {
		return nil, err
	}

	switch field.Type {
	case control.FieldTypeDiv:
		// Read-only region: display, never prompt.
		if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", label, current.Text)); err != nil {
			return nil, err
		}
		return current.Text, nil

	case control.FieldTypeCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current.Bool})
		if err != nil {
			return nil, err
		}
		if err := c.UpdateFieldValue(ctx, id, control.BoolValue(checked)); err != nil {
			return nil, err
		}
		return checked, nil

	case control.FieldTypeSelect:
		return r.promptSelect(ctx, c, field, current)

	case control.FieldTypeTextArea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current.Text})
		if err != nil {
			return nil, err
		}
		if err := c.UpdateFieldValue(ctx, id, control.TextValue(text)); err != nil {
			return nil, err
		}
		return text, nil

	default: // text, number
		text, err := r.driver.Input(ctx, InputConfig{Message: label, Default: current.Text})
		if err != nil {
			return nil, err
		}
		if err := c.UpdateFieldValue(ctx, id, control.TextValue(text)); err != nil {
			return nil, err
		}
		return text, nil
	}
}

// promptSelect captures the user's choice and records it on the control via
// ApplyFieldValue, the transport write path that accepts selects.
func (r *Renderer) promptSelect(ctx context.Context, c *control.Control, field control.Field, current control.Value) (any, error) {
	label := field.DisplayLabel()
	id := field.WidgetID()

	if field.Multiple {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  field.Options,
			Defaults: indicesOf(field.Options, current.Texts),
		})
		if err != nil {
			return nil, err
		}
		selected := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				selected = append(selected, field.Options[idx])
			}
		}
		if err := c.ApplyFieldValue(ctx, id, control.TextsValue(selected...)); err != nil {
			return nil, err
		}
		return selected, nil
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      field.Options,
		DefaultIndex: indexOf(field.Options, current.Text),
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(field.Options) {
		return "", nil
	}
	choice := field.Options[idx]
	if err := c.ApplyFieldValue(ctx, id, control.TextValue(choice)); err != nil {
		return nil, err
	}
	return choice, nil
}
