// Package panel maps an embedded-webview host's API surface onto a tree of
// controls. The Controller builds one group per capability slice, binds
// submit handlers to host calls, and keeps read-only state fields in sync
// through refreshers.
package panel

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/definition"
	"github.com/goliatone/go-framepanel/pkg/frame"
	"github.com/goliatone/go-framepanel/pkg/logging"
	"github.com/goliatone/go-framepanel/pkg/updater"
)

// DefaultHeading titles the root group.
const DefaultHeading = "Controlled Frame"

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches the logger used for warnings and event mirroring.
func WithLogger(log *logging.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithUpdater wires a background updater; the controller exposes a trigger
// control for it.
func WithUpdater(u *updater.Updater) Option {
	return func(c *Controller) { c.updater = u }
}

// WithTail wires a log tail; the controller exposes a control displaying
// its most recent entries.
func WithTail(tail *logging.Tail) Option {
	return func(c *Controller) { c.tail = tail }
}

// WithDefinitions appends extra panels compiled from declarative
// definitions under the root group.
func WithDefinitions(store *definition.Store) Option {
	return func(c *Controller) { c.definitions = store }
}

// WithHeading overrides the root group heading.
func WithHeading(heading string) Option {
	return func(c *Controller) {
		if heading != "" {
			c.heading = heading
		}
	}
}

// Controller owns the control tree for one host.
type Controller struct {
	host        frame.Host
	log         *logging.Logger
	updater     *updater.Updater
	tail        *logging.Tail
	definitions *definition.Store
	heading     string

	root *control.Group

	mu       sync.Mutex
	registry map[string]*control.Control

	cancelEvents func()
}

// New builds the full control tree against the supplied host. Capability
// slices the host does not support are logged and skipped; construction
// never fails on a missing capability.
func New(host frame.Host, options ...Option) (*Controller, error) {
	if host == nil {
		return nil, fmt.Errorf("panel: host is required")
	}

	c := &Controller{
		host:     host,
		log:      logging.NewNop(),
		heading:  DefaultHeading,
		registry: make(map[string]*control.Control),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	c.root = control.NewGroup(c.heading)

	builders := []func() (*control.Group, error){
		c.buildNavigationGroup,
		c.buildStateGroup,
		c.buildZoomGroup,
		c.buildAudioGroup,
		c.buildScriptingGroup,
		c.buildDataGroup,
		c.buildEventsGroup,
		c.buildMaintenanceGroup,
	}
	for _, build := range builders {
		group, err := build()
		if err != nil {
			return nil, err
		}
		if group == nil {
			continue
		}
		if err := c.root.AddControl(group); err != nil {
			return nil, err
		}
	}

	if err := c.attachDefinitions(); err != nil {
		return nil, err
	}

	c.root.AssignDepths(0)
	return c, nil
}

// Root returns the control tree.
func (c *Controller) Root() *control.Group { return c.root }

// Control resolves a registered control by id.
func (c *Controller) Control(id string) (*control.Control, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctrl, ok := c.registry[id]
	return ctrl, ok
}

// ControlIDs lists the ids of every registered control.
func (c *Controller) ControlIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.registry))
	for id := range c.registry {
		ids = append(ids, id)
	}
	return ids
}

// ExpandAll expands every group in the tree.
func (c *Controller) ExpandAll() { c.root.SetExpanded(true) }

// CollapseAll collapses every group in the tree.
func (c *Controller) CollapseAll() { c.root.SetExpanded(false) }

// RefreshState resynchronizes every state-bound control with the host.
func (c *Controller) RefreshState(ctx context.Context) error {
	return c.root.RefreshState(ctx)
}

// Close cancels the host event subscription.
func (c *Controller) Close() {
	if c.cancelEvents != nil {
		c.cancelEvents()
		c.cancelEvents = nil
	}
}

// register adds a control to the lookup registry and the given group.
func (c *Controller) register(group *control.Group, ctrl *control.Control) error {
	if err := group.AddControl(ctrl); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.registry[ctrl.ID()]; dup {
		return fmt.Errorf("panel: duplicate control id %q", ctrl.ID())
	}
	c.registry[ctrl.ID()] = ctrl
	return nil
}

// guard wraps a handler with a capability probe. An unsupported capability
// aborts with a warning and no error.
func (c *Controller) guard(cap frame.Capability, handler control.Handler) control.Handler {
	return func(ctx context.Context, ctrl *control.Control) error {
		if !c.host.Supports(cap) {
			c.log.Warn("capability unavailable",
				zap.String("capability", string(cap)),
				zap.String("control", ctrl.ID()),
			)
			return nil
		}
		return handler(ctx, ctrl)
	}
}

func (c *Controller) attachDefinitions() error {
	if c.definitions == nil || c.definitions.Empty() {
		return nil
	}
	for _, id := range c.definitions.IDs() {
		def, ok := c.definitions.Panel(id)
		if !ok {
			continue
		}
		group, err := def.Compile(control.WithLogger(c.log.Logger))
		if err != nil {
			return fmt.Errorf("panel: compile definition %q: %w", id, err)
		}
		if err := c.root.AddControl(group); err != nil {
			return err
		}
		if err := group.Walk(func(ctrl *control.Control) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, dup := c.registry[ctrl.ID()]; dup {
				return fmt.Errorf("panel: definition %q: duplicate control id %q", id, ctrl.ID())
			}
			c.registry[ctrl.ID()] = ctrl
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
