package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-framepanel/pkg/control"
)

const (
	ControlUpdater = "check-for-updates"
	ControlLogTail = "log-tail"

	FieldUpdaterStatus = "updater-status"
	FieldLogEntries    = "log-entries"

	logTailDisplayLimit = 20
)

// buildMaintenanceGroup exposes the background updater and the recent log
// entries. Either control is omitted when its collaborator was not wired.
func (c *Controller) buildMaintenanceGroup() (*control.Group, error) {
	if c.updater == nil && c.tail == nil {
		return nil, nil
	}

	group := control.NewGroup("Maintenance", control.Collapsed())

	if c.updater != nil {
		check, err := control.New(ControlUpdater,
			[]control.Field{
				{Name: "status", ID: FieldUpdaterStatus, Type: control.FieldTypeDiv, Label: "last check"},
			},
			control.WithButtonText("Check for Updates"),
			control.WithLogger(c.log.Logger),
			control.WithHandler(func(ctx context.Context, ctrl *control.Control) error {
				status := c.updater.CheckNow(ctx)
				text := fmt.Sprintf("%s: %s", status.LastCheck.Format("15:04:05"), status.Result)
				if status.Err != nil {
					text = fmt.Sprintf("%s: failed: %v", status.LastCheck.Format("15:04:05"), status.Err)
				}
				return ctrl.UpdateFieldValue(ctx, FieldUpdaterStatus, control.TextValue(text))
			}),
		)
		if err != nil {
			return nil, err
		}
		if err := c.register(group, check); err != nil {
			return nil, err
		}
	}

	if c.tail != nil {
		tail, err := control.New(ControlLogTail,
			[]control.Field{
				{Name: "log", ID: FieldLogEntries, Type: control.FieldTypeDiv, Label: "recent log"},
			},
			control.EventOnly(),
			control.WithLogger(c.log.Logger),
		)
		if err != nil {
			return nil, err
		}
		tail.SetRefresher(func(ctx context.Context, ctrl *control.Control) error {
			entries := c.tail.Entries()
			if len(entries) > logTailDisplayLimit {
				entries = entries[len(entries)-logTailDisplayLimit:]
			}
			lines := make([]string, 0, len(entries))
			for _, entry := range entries {
				lines = append(lines, fmt.Sprintf("%s [%s] %s",
					entry.Time.Format("15:04:05"), entry.Level, entry.Message))
			}
			return ctrl.UpdateFieldValue(ctx, FieldLogEntries, control.TextValue(strings.Join(lines, "\n")))
		})
		if err := c.register(group, tail); err != nil {
			return nil, err
		}
	}

	return group, nil
}
