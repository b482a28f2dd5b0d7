package panel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/frame"
)

const (
	ControlFrameState = "frame-state"
	ControlSetZoom    = "set-zoom"
	ControlZoomState  = "zoom-state"
	ControlSetMuted   = "set-audio-muted"
	ControlAudioState = "audio-state"

	FieldCurrentURL   = "state-current-url"
	FieldCanGoBack    = "state-can-go-back"
	FieldCanGoForward = "state-can-go-forward"
	FieldZoomFactor   = "zoom-factor"
	FieldZoomCurrent  = "zoom-current"
	FieldAudioMuted   = "audio-muted"
	FieldAudioCurrent = "audio-current"
)

// buildStateGroup exposes read-only frame state as div fields kept current
// by refreshers.
func (c *Controller) buildStateGroup() (*control.Group, error) {
	group := control.NewGroup("Frame State")

	state, err := control.New(ControlFrameState,
		[]control.Field{
			{Name: "url", ID: FieldCurrentURL, Type: control.FieldTypeDiv, Label: "current url", Value: c.host.CurrentURL()},
			{Name: "canGoBack", ID: FieldCanGoBack, Type: control.FieldTypeDiv, Label: "canGoBack"},
			{Name: "canGoForward", ID: FieldCanGoForward, Type: control.FieldTypeDiv, Label: "canGoForward"},
		},
		control.EventOnly(),
		control.WithLogger(c.log.Logger),
	)
	if err != nil {
		return nil, err
	}
	state.SetRefresher(func(ctx context.Context, ctrl *control.Control) error {
		if err := ctrl.UpdateFieldValue(ctx, FieldCurrentURL, control.TextValue(c.host.CurrentURL())); err != nil {
			return err
		}
		if !c.host.Supports(frame.CapHistory) {
			return nil
		}
		if err := ctrl.UpdateFieldValue(ctx, FieldCanGoBack, control.TextValue(strconv.FormatBool(c.host.CanGoBack()))); err != nil {
			return err
		}
		return ctrl.UpdateFieldValue(ctx, FieldCanGoForward, control.TextValue(strconv.FormatBool(c.host.CanGoForward())))
	})
	if err := c.register(group, state); err != nil {
		return nil, err
	}

	return group, nil
}

func (c *Controller) buildZoomGroup() (*control.Group, error) {
	if !c.host.Supports(frame.CapZoom) {
		return nil, nil
	}

	group := control.NewGroup("Zoom")

	set, err := control.New(ControlSetZoom,
		[]control.Field{
			{Name: "factor", ID: FieldZoomFactor, Type: control.FieldTypeNumber, Label: "zoom factor", Value: "1.0"},
		},
		control.WithButtonText("Set Zoom"),
		control.WithLogger(c.log.Logger),
		control.WithHandler(c.guard(frame.CapZoom, func(ctx context.Context, ctrl *control.Control) error {
			value, err := ctrl.GetFieldValue(ctx, FieldZoomFactor)
			if err != nil {
				return err
			}
			factor, err := strconv.ParseFloat(strings.TrimSpace(value.Text), 64)
			if err != nil {
				return fmt.Errorf("panel: zoom factor %q: %w", value.Text, err)
			}
			return c.host.SetZoom(ctx, factor)
		})),
	)
	if err != nil {
		return nil, err
	}
	if err := c.register(group, set); err != nil {
		return nil, err
	}

	current, err := control.New(ControlZoomState,
		[]control.Field{
			{Name: "zoom", ID: FieldZoomCurrent, Type: control.FieldTypeDiv, Label: "current zoom"},
		},
		control.EventOnly(),
		control.WithLogger(c.log.Logger),
	)
	if err != nil {
		return nil, err
	}
	current.SetRefresher(func(ctx context.Context, ctrl *control.Control) error {
		factor, err := c.host.GetZoom()
		if err != nil {
			return err
		}
		return ctrl.UpdateFieldValue(ctx, FieldZoomCurrent, control.TextValue(strconv.FormatFloat(factor, 'f', 2, 64)))
	})
	if err := c.register(group, current); err != nil {
		return nil, err
	}

	return group, nil
}

func (c *Controller) buildAudioGroup() (*control.Group, error) {
	if !c.host.Supports(frame.CapAudio) {
		return nil, nil
	}

	group := control.NewGroup("Audio")

	mute, err := control.New(ControlSetMuted,
		[]control.Field{
			{Name: "muted", ID: FieldAudioMuted, Type: control.FieldTypeCheckbox, Label: "muted"},
		},
		control.WithButtonText("Apply"),
		control.WithLogger(c.log.Logger),
		control.WithHandler(c.guard(frame.CapAudio, func(ctx context.Context, ctrl *control.Control) error {
			value, err := ctrl.GetFieldValue(ctx, FieldAudioMuted)
			if err != nil {
				return err
			}
			return c.host.SetAudioMuted(ctx, value.Bool)
		})),
	)
	if err != nil {
		return nil, err
	}
	if err := c.register(group, mute); err != nil {
		return nil, err
	}

	state, err := control.New(ControlAudioState,
		[]control.Field{
			{Name: "audio", ID: FieldAudioCurrent, Type: control.FieldTypeDiv, Label: "audio state"},
		},
		control.EventOnly(),
		control.WithLogger(c.log.Logger),
	)
	if err != nil {
		return nil, err
	}
	state.SetRefresher(func(ctx context.Context, ctrl *control.Control) error {
		audio, err := c.host.GetAudioState()
		if err != nil {
			return err
		}
		text := fmt.Sprintf("muted=%t audible=%t", audio.Muted, audio.Audible)
		return ctrl.UpdateFieldValue(ctx, FieldAudioCurrent, control.TextValue(text))
	})
	if err := c.register(group, state); err != nil {
		return nil, err
	}

	return group, nil
}
