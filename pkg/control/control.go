package control

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultButtonText labels the submit action when the caller does not supply
// one.
const DefaultButtonText = "Submit"

// Handler is the single callback a control invokes on submission. The control
// passes itself so the handler can read field values through the usual
// accessors.
type Handler func(ctx context.Context, c *Control) error

// Option customises a control at construction time.
type Option func(*Control)

// WithButtonText overrides the submit button label.
func WithButtonText(text string) Option {
	return func(c *Control) {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			c.buttonText = trimmed
		}
	}
}

// WithHandler binds the submit callback at construction time.
func WithHandler(handler Handler) Option {
	return func(c *Control) {
		c.handler = handler
	}
}

// EventOnly marks the control as an event control: no submit button is
// rendered and the fields exist solely to be read and written by an external
// event feed.
func EventOnly() Option {
	return func(c *Control) {
		c.eventOnly = true
	}
}

// WithLogger attaches a logger used for soft failures (submit without a bound
// handler). Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Control) {
		if log != nil {
			c.log = log
		}
	}
}

// Control renders an ordered set of field descriptors plus an optional submit
// action. A control has exactly two render states: unrendered (just
// constructed) and rendered (widgets materialised by a renderer); the
// transition is one-way and happens at most once. Field reads and writes
// block until the transition completes.
type Control struct {
	mu         sync.RWMutex
	name       string
	fields     []Field
	state      map[string]Value
	eventOnly  bool
	buttonText string
	handler    Handler
	refresh    Handler
	log        *zap.Logger

	renderedOnce sync.Once
	rendered     chan struct{}
}

// New constructs a control from its descriptors. It fails fast when no stable
// widget id can be derived (no control name and an unnamed first field), when
// a descriptor carries an unsupported type, or when two fields resolve to the
// same widget id.
func New(name string, fields []Field, options ...Option) (*Control, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if len(fields) == 0 || fields[0].WidgetID() == "" {
			return nil, ErrNoWidgetID
		}
	}

	c := &Control{
		name:       name,
		fields:     append([]Field(nil), fields...),
		state:      make(map[string]Value, len(fields)),
		buttonText: DefaultButtonText,
		log:        zap.NewNop(),
		rendered:   make(chan struct{}),
	}

	for _, field := range c.fields {
		if err := field.validate(); err != nil {
			return nil, err
		}
		id := field.WidgetID()
		if id == "" {
			return nil, fmt.Errorf("control %q: field of type %q has no name or id", c.ID(), field.Type)
		}
		if _, dup := c.state[id]; dup {
			return nil, fmt.Errorf("control %q: duplicate field id %q", c.ID(), id)
		}
		c.state[id] = initialValue(field)
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// MustNew panics on construction failure. Useful when building static trees.
func MustNew(name string, fields []Field, options ...Option) *Control {
	c, err := New(name, fields, options...)
	if err != nil {
		panic(err)
	}
	return c
}

func initialValue(field Field) Value {
	switch field.Type {
	case FieldTypeCheckbox:
		return BoolValue(field.Checked)
	case FieldTypeSelect:
		if field.Multiple {
			if field.Value != "" {
				return TextsValue(field.Value)
			}
			return TextsValue()
		}
		return TextValue(field.Value)
	default:
		return TextValue(field.Value)
	}
}

// ID resolves the control's stable identifier: the control name when set,
// otherwise the first field's widget id.
func (c *Control) ID() string {
	if c.name != "" {
		return c.name
	}
	if len(c.fields) > 0 {
		return c.fields[0].WidgetID()
	}
	return ""
}

// Name returns the optional control label.
func (c *Control) Name() string { return c.name }

// EventOnly reports whether the control renders without a submit action.
func (c *Control) EventOnly() bool { return c.eventOnly }

// ButtonText returns the submit button label.
func (c *Control) ButtonText() string { return c.buttonText }

// Fields returns the descriptors in render order.
func (c *Control) Fields() []Field {
	return append([]Field(nil), c.fields...)
}

// Field looks up a descriptor by widget id.
func (c *Control) Field(id string) (Field, bool) {
	for _, field := range c.fields {
		if field.WidgetID() == id {
			return field, true
		}
	}
	return Field{}, false
}

// MarkRendered completes the unrendered→rendered transition. Renderers call
// it after materialising the control's widgets; subsequent calls are no-ops.
func (c *Control) MarkRendered() {
	c.renderedOnce.Do(func() { close(c.rendered) })
}

// Rendered reports whether the first render pass has completed.
func (c *Control) Rendered() bool {
	select {
	case <-c.rendered:
		return true
	default:
		return false
	}
}

func (c *Control) awaitRender(ctx context.Context) error {
	select {
	case <-c.rendered:
		return nil
	default:
	}
	select {
	case <-c.rendered:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetFieldValue returns the current typed value of the field with the given
// widget id, waiting for the first render pass when necessary.
func (c *Control) GetFieldValue(ctx context.Context, id string) (Value, error) {
	if err := c.awaitRender(ctx); err != nil {
		return Value{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.state[id]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q in control %q", ErrFieldNotFound, id, c.ID())
	}
	return value, nil
}

// UpdateFieldValue writes a value back into the field with the given widget
// id, waiting for the first render pass when necessary. Select fields are a
// deliberate no-op: programmatic multi-select updates are not supported.
func (c *Control) UpdateFieldValue(ctx context.Context, id string, value Value) error {
	if err := c.awaitRender(ctx); err != nil {
		return err
	}

	field, ok := c.Field(id)
	if !ok {
		return fmt.Errorf("%w: %q in control %q", ErrFieldNotFound, id, c.ID())
	}

	if field.Type == FieldTypeSelect {
		c.log.Debug("ignoring select field update",
			zap.String("control", c.ID()),
			zap.String("field", id))
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch field.Type {
	case FieldTypeCheckbox:
		c.state[id] = BoolValue(value.Bool)
	default:
		c.state[id] = TextValue(value.Text)
	}
	return nil
}

// ApplyFieldValue records a user-submitted value for any field, selects
// included. Transports and interactive renderers use it to capture what the
// user chose in a rendered widget; UpdateFieldValue stays the programmatic
// write path, where select updates remain a no-op.
func (c *Control) ApplyFieldValue(ctx context.Context, id string, value Value) error {
	if err := c.awaitRender(ctx); err != nil {
		return err
	}

	field, ok := c.Field(id)
	if !ok {
		return fmt.Errorf("%w: %q in control %q", ErrFieldNotFound, id, c.ID())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch field.Type {
	case FieldTypeCheckbox:
		c.state[id] = BoolValue(value.Bool)
	case FieldTypeSelect:
		if field.Multiple {
			c.state[id] = TextsValue(value.Texts...)
		} else {
			c.state[id] = TextValue(value.Text)
		}
	default:
		c.state[id] = TextValue(value.Text)
	}
	return nil
}

// Snapshot copies the current field values keyed by widget id without
// waiting on the render gate. Renderers read it while materialising widgets,
// before MarkRendered releases the ordinary accessors.
func (c *Control) Snapshot() map[string]Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Value, len(c.state))
	for id, value := range c.state {
		out[id] = value
	}
	return out
}

// SetButtonHandler rebinds the submit callback. The last write wins; there is
// no handler multiplicity.
func (c *Control) SetButtonHandler(handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Submit invokes the bound handler with the control itself. A control with no
// handler logs a warning and succeeds: a partially wired panel must not crash
// on a stray button press.
func (c *Control) Submit(ctx context.Context) error {
	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()

	if handler == nil {
		c.log.Warn("submit with no bound handler", zap.String("control", c.ID()))
		return nil
	}
	return handler(ctx, c)
}

// SetRefresher binds an optional resync callback invoked by group-level
// RefreshState passes. Plain controls carry none; controls mirroring external
// state use it to re-read that state into their fields.
func (c *Control) SetRefresher(refresh Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh = refresh
}

// RefreshState resynchronises displayed values with authoritative external
// state. Controls without a bound refresher succeed immediately.
func (c *Control) RefreshState(ctx context.Context) error {
	c.mu.RLock()
	refresh := c.refresh
	c.mu.RUnlock()

	if refresh == nil {
		return nil
	}
	return refresh(ctx, c)
}

func (c *Control) node() {}
