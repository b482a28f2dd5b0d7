package panel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/frame"
)

// Widget ids the transport layer submits against.
const (
	ControlNavigate  = "navigate"
	ControlReload    = "reload"
	ControlStop      = "stop"
	ControlBack      = "back"
	ControlForward   = "forward"
	ControlGo        = "go"
	ControlTerminate = "terminate"

	FieldNavigateSrc = "navigate-src"
	FieldGoOffset    = "go-offset"
)

func (c *Controller) buildNavigationGroup() (*control.Group, error) {
	if !c.host.Supports(frame.CapNavigation) {
		c.log.Warn("capability unavailable, skipping group",
			zap.String("capability", string(frame.CapNavigation)))
		return nil, nil
	}

	group := control.NewGroup("Navigation")

	navigate, err := control.New(ControlNavigate,
		[]control.Field{
			{Name: "src", ID: FieldNavigateSrc, Type: control.FieldTypeText, Label: "src", Value: c.host.CurrentURL()},
		},
		control.WithButtonText("Navigate"),
		control.WithLogger(c.log.Logger),
		control.WithHandler(c.guard(frame.CapNavigation, func(ctx context.Context, ctrl *control.Control) error {
			value, err := ctrl.GetFieldValue(ctx, FieldNavigateSrc)
			if err != nil {
				return err
			}
			url := strings.TrimSpace(value.Text)
			if url == "" {
				c.log.Warn("navigate: empty src")
				return nil
			}
			return c.host.Navigate(ctx, url)
		})),
	)
	if err != nil {
		return nil, err
	}
	if err := c.register(group, navigate); err != nil {
		return nil, err
	}

	simple := []struct {
		id     string
		label  string
		cap    frame.Capability
		invoke func(context.Context) error
	}{
		{ControlReload, "Reload", frame.CapNavigation, c.host.Reload},
		{ControlStop, "Stop", frame.CapNavigation, c.host.Stop},
		{ControlBack, "Back", frame.CapHistory, c.host.Back},
		{ControlForward, "Forward", frame.CapHistory, c.host.Forward},
	}
	for _, action := range simple {
		action := action
		ctrl, err := control.New(action.id, nil,
			control.WithButtonText(action.label),
			control.WithLogger(c.log.Logger),
			control.WithHandler(c.guard(action.cap, func(ctx context.Context, _ *control.Control) error {
				return action.invoke(ctx)
			})),
		)
		if err != nil {
			return nil, err
		}
		if err := c.register(group, ctrl); err != nil {
			return nil, err
		}
	}

	goCtrl, err := control.New(ControlGo,
		[]control.Field{
			{Name: "offset", ID: FieldGoOffset, Type: control.FieldTypeNumber, Label: "history offset", Value: "0"},
		},
		control.WithButtonText("Go"),
		control.WithLogger(c.log.Logger),
		control.WithHandler(c.guard(frame.CapHistory, func(ctx context.Context, ctrl *control.Control) error {
			value, err := ctrl.GetFieldValue(ctx, FieldGoOffset)
			if err != nil {
				return err
			}
			offset, err := strconv.Atoi(strings.TrimSpace(value.Text))
			if err != nil {
				return fmt.Errorf("panel: go offset %q: %w", value.Text, err)
			}
			return c.host.Go(ctx, offset)
		})),
	)
	if err != nil {
		return nil, err
	}
	if err := c.register(group, goCtrl); err != nil {
		return nil, err
	}

	if c.host.Supports(frame.CapTerminate) {
		terminate, err := control.New(ControlTerminate, nil,
			control.WithButtonText("Terminate"),
			control.WithLogger(c.log.Logger),
			control.WithHandler(c.guard(frame.CapTerminate, func(ctx context.Context, _ *control.Control) error {
				return c.host.Terminate(ctx)
			})),
		)
		if err != nil {
			return nil, err
		}
		if err := c.register(group, terminate); err != nil {
			return nil, err
		}
	}

	return group, nil
}
