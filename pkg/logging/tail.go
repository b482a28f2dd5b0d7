package logging

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// DefaultTailSize bounds the in-memory log ring.
const DefaultTailSize = 256

// Entry is one captured log line, normalised for the UI and the websocket
// stream.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Tail is a zapcore.Core keeping the most recent entries in a bounded ring
// and fanning them out to subscribers. Entries carrying the event stream tag
// report level "event".
type Tail struct {
	mu      sync.Mutex
	size    int
	entries []Entry
	subs    map[int]func(Entry)
	nextSub int
}

var _ zapcore.Core = (*Tail)(nil)

// NewTail constructs a tail holding up to size entries (DefaultTailSize when
// size is not positive).
func NewTail(size int) *Tail {
	if size <= 0 {
		size = DefaultTailSize
	}
	return &Tail{
		size: size,
		subs: make(map[int]func(Entry)),
	}
}

// Enabled captures everything; level filtering happens in the primary core.
func (t *Tail) Enabled(zapcore.Level) bool { return true }

// With is a no-op clone; structured context arrives through Write fields.
func (t *Tail) With([]zapcore.Field) zapcore.Core { return t }

// Check registers the tail for every entry.
func (t *Tail) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return checked.AddCore(entry, t)
}

// Write appends the entry to the ring and notifies subscribers.
func (t *Tail) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	level := entry.Level.String()
	if stream, ok := enc.Fields[eventKey].(string); ok && stream == "event" {
		level = "event"
		delete(enc.Fields, eventKey)
	}

	captured := Entry{
		Time:    entry.Time,
		Level:   level,
		Message: entry.Message,
		Fields:  enc.Fields,
	}

	t.mu.Lock()
	t.entries = append(t.entries, captured)
	if len(t.entries) > t.size {
		t.entries = t.entries[len(t.entries)-t.size:]
	}
	subs := make([]func(Entry), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	for _, fn := range subs {
		fn(captured)
	}
	return nil
}

// Sync satisfies zapcore.Core.
func (t *Tail) Sync() error { return nil }

// Entries snapshots the ring, oldest first.
func (t *Tail) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Subscribe registers a live entry listener and returns a cancellation func.
func (t *Tail) Subscribe(fn func(Entry)) func() {
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}
