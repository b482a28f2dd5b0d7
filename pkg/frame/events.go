package frame

import (
	"time"

	"github.com/google/uuid"
)

// EventKind names one host event stream.
type EventKind string

const (
	EventLoadStart         EventKind = "loadstart"
	EventLoadStop          EventKind = "loadstop"
	EventLoadAbort         EventKind = "loadabort"
	EventContentLoad       EventKind = "contentload"
	EventClose             EventKind = "close"
	EventNewWindow         EventKind = "newwindow"
	EventConsoleMessage    EventKind = "consolemessage"
	EventZoomChange        EventKind = "zoomchange"
	EventAudioStateChanged EventKind = "audiostatechanged"
)

// AllEventKinds lists every event stream a fully featured host emits.
func AllEventKinds() []EventKind {
	return []EventKind{
		EventLoadStart, EventLoadStop, EventLoadAbort, EventContentLoad,
		EventClose, EventNewWindow, EventConsoleMessage, EventZoomChange,
		EventAudioStateChanged,
	}
}

// Event is one occurrence on a host event stream. Data carries kind-specific
// details (url, zoom factor, console line, ...).
type Event struct {
	ID        string         `json:"id"`
	Kind      EventKind      `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(kind EventKind, data map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
