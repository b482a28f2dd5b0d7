package panel

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/frame"
)

const eventUpdateTimeout = 2 * time.Second

// buildEventsGroup creates one event control per event kind the host can
// emit. The controls carry no submit action; the host subscription feed
// writes into their fields as events arrive.
func (c *Controller) buildEventsGroup() (*control.Group, error) {
	if !c.host.Supports(frame.CapEvents) {
		c.log.Warn("capability unavailable, skipping group",
			zap.String("capability", string(frame.CapEvents)))
		return nil, nil
	}

	group := control.NewGroup("Events", control.Collapsed())

	controls := make(map[frame.EventKind]*control.Control)
	for _, kind := range frame.AllEventKinds() {
		kind := kind
		ctrl, err := control.New("event-"+string(kind),
			[]control.Field{
				{Name: "count", ID: "event-" + string(kind) + "-count", Type: control.FieldTypeDiv, Label: "count", Value: "0"},
				{Name: "last", ID: "event-" + string(kind) + "-last", Type: control.FieldTypeDiv, Label: "last payload"},
			},
			control.EventOnly(),
			control.WithLogger(c.log.Logger),
		)
		if err != nil {
			return nil, err
		}
		if err := c.register(group, ctrl); err != nil {
			return nil, err
		}
		controls[kind] = ctrl
	}

	counts := make(map[frame.EventKind]int)
	cancel, err := c.host.Subscribe(nil, func(event frame.Event) {
		c.log.Event("frame event",
			zap.String("kind", string(event.Kind)),
			zap.String("id", event.ID),
		)

		ctrl, ok := controls[event.Kind]
		if !ok {
			return
		}
		// Field writes await first render; an event arriving before the
		// panel renders must not wedge the delivery goroutine.
		if !ctrl.Rendered() {
			return
		}

		c.mu.Lock()
		counts[event.Kind]++
		count := counts[event.Kind]
		c.mu.Unlock()

		ctx, done := context.WithTimeout(context.Background(), eventUpdateTimeout)
		defer done()

		prefix := "event-" + string(event.Kind)
		if err := ctrl.UpdateFieldValue(ctx, prefix+"-count", control.TextValue(strconv.Itoa(count))); err != nil {
			c.log.Warn("event control update failed", zap.Error(err))
			return
		}
		if err := ctrl.UpdateFieldValue(ctx, prefix+"-last", control.TextValue(formatEventPayload(event))); err != nil {
			c.log.Warn("event control update failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.cancelEvents = cancel

	return group, nil
}

func formatEventPayload(event frame.Event) string {
	if len(event.Data) == 0 {
		return event.Timestamp.Format(time.RFC3339)
	}
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return event.Timestamp.Format(time.RFC3339)
	}
	return event.Timestamp.Format(time.RFC3339) + " " + string(raw)
}
