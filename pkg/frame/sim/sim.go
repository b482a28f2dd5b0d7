// Package sim provides an in-memory frame.Host for the demo binary and
// tests. It models navigation history, zoom, audio, and content scripts, and
// emits the same event streams a real embedded-webview host would.
package sim

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-framepanel/pkg/frame"
)

// Option customises the simulated host.
type Option func(*Host)

// WithStartURL seeds the navigation history.
func WithStartURL(url string) Option {
	return func(h *Host) {
		if strings.TrimSpace(url) != "" {
			h.history = []string{url}
			h.index = 0
		}
	}
}

// WithoutCapabilities masks capabilities, exercising the panel's degradation
// path without a down-level host binary.
func WithoutCapabilities(caps ...frame.Capability) Option {
	return func(h *Host) {
		for _, cap := range caps {
			delete(h.caps, cap)
		}
	}
}

type subscriber struct {
	kinds map[frame.EventKind]struct{}
	fn    func(frame.Event)
}

// Host is an in-memory frame.Host.
type Host struct {
	mu         sync.RWMutex
	caps       map[frame.Capability]struct{}
	history    []string
	index      int
	zoom       float64
	audio      frame.AudioState
	scripts    []frame.ContentScript
	terminated bool

	subMu   sync.Mutex
	subs    map[int]*subscriber
	nextSub int
}

var _ frame.Host = (*Host)(nil)

// New constructs a fully capable simulated host at about:blank.
func New(options ...Option) *Host {
	h := &Host{
		caps:    make(map[frame.Capability]struct{}),
		history: []string{"about:blank"},
		zoom:    1.0,
		audio:   frame.AudioState{},
		subs:    make(map[int]*subscriber),
	}
	for _, cap := range frame.AllCapabilities() {
		h.caps[cap] = struct{}{}
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h
}

// Supports reports capability availability.
func (h *Host) Supports(cap frame.Capability) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.caps[cap]
	return ok
}

func (h *Host) require(cap frame.Capability) error {
	if !h.Supports(cap) {
		return fmt.Errorf("%w: %s", frame.ErrUnsupported, cap)
	}
	return nil
}

func (h *Host) checkAlive() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.terminated {
		return frame.ErrTerminated
	}
	return nil
}

// Navigate loads a new URL, truncating forward history.
func (h *Host) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.checkAlive(); err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("sim: empty url")
	}

	h.emit(frame.EventLoadStart, map[string]any{"url": url})

	h.mu.Lock()
	h.history = append(h.history[:h.index+1], url)
	h.index = len(h.history) - 1
	h.mu.Unlock()

	h.emit(frame.EventContentLoad, map[string]any{"url": url})
	h.emit(frame.EventLoadStop, map[string]any{"url": url})
	return nil
}

// Reload re-emits the load cycle for the current entry.
func (h *Host) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.checkAlive(); err != nil {
		return err
	}
	url := h.CurrentURL()
	h.emit(frame.EventLoadStart, map[string]any{"url": url})
	h.emit(frame.EventLoadStop, map[string]any{"url": url})
	return nil
}

// Stop aborts the (simulated, always finished) pending load.
func (h *Host) Stop(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.checkAlive(); err != nil {
		return err
	}
	h.emit(frame.EventLoadAbort, map[string]any{"url": h.CurrentURL(), "reason": "stopped"})
	return nil
}

// CurrentURL returns the active history entry.
func (h *Host) CurrentURL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.index < 0 || h.index >= len(h.history) {
		return ""
	}
	return h.history[h.index]
}

// Back moves one history entry backwards.
func (h *Host) Back(ctx context.Context) error { return h.Go(ctx, -1) }

// Forward moves one history entry forwards.
func (h *Host) Forward(ctx context.Context) error { return h.Go(ctx, 1) }

// Go moves by offset within history, failing when out of range.
func (h *Host) Go(ctx context.Context, offset int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.require(frame.CapHistory); err != nil {
		return err
	}
	if err := h.checkAlive(); err != nil {
		return err
	}

	h.mu.Lock()
	target := h.index + offset
	if target < 0 || target >= len(h.history) {
		h.mu.Unlock()
		return fmt.Errorf("sim: history offset %d out of range", offset)
	}
	h.index = target
	url := h.history[h.index]
	h.mu.Unlock()

	h.emit(frame.EventLoadStart, map[string]any{"url": url})
	h.emit(frame.EventLoadStop, map[string]any{"url": url})
	return nil
}

// CanGoBack reports whether a back navigation is possible.
func (h *Host) CanGoBack() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index > 0
}

// CanGoForward reports whether a forward navigation is possible.
func (h *Host) CanGoForward() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index < len(h.history)-1
}

// GetZoom returns the current zoom factor.
func (h *Host) GetZoom() (float64, error) {
	if err := h.require(frame.CapZoom); err != nil {
		return 0, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.zoom, nil
}

// SetZoom applies a new zoom factor and emits zoomchange.
func (h *Host) SetZoom(ctx context.Context, factor float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.require(frame.CapZoom); err != nil {
		return err
	}
	if factor <= 0 {
		return fmt.Errorf("sim: zoom factor %v out of range", factor)
	}

	h.mu.Lock()
	old := h.zoom
	h.zoom = factor
	h.mu.Unlock()

	h.emit(frame.EventZoomChange, map[string]any{"oldZoomFactor": old, "newZoomFactor": factor})
	return nil
}

// GetAudioState snapshots the audio pipeline.
func (h *Host) GetAudioState() (frame.AudioState, error) {
	if err := h.require(frame.CapAudio); err != nil {
		return frame.AudioState{}, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.audio, nil
}

// SetAudioMuted toggles muting and emits audiostatechanged.
func (h *Host) SetAudioMuted(ctx context.Context, muted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.require(frame.CapAudio); err != nil {
		return err
	}

	h.mu.Lock()
	h.audio.Muted = muted
	state := h.audio
	h.mu.Unlock()

	h.emit(frame.EventAudioStateChanged, map[string]any{"muted": state.Muted, "audible": state.Audible})
	return nil
}

// AddContentScripts registers scripts, rejecting unnamed or duplicate ones.
func (h *Host) AddContentScripts(ctx context.Context, scripts []frame.ContentScript) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.require(frame.CapContentScripts); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, script := range scripts {
		name := strings.TrimSpace(script.Name)
		if name == "" {
			return fmt.Errorf("sim: content script without a name")
		}
		for _, existing := range h.scripts {
			if existing.Name == name {
				return fmt.Errorf("sim: content script %q already registered", name)
			}
		}
		script.Name = name
		h.scripts = append(h.scripts, script)
	}
	return nil
}

// RemoveContentScripts unregisters scripts by name; all of them when names is
// empty.
func (h *Host) RemoveContentScripts(ctx context.Context, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.require(frame.CapContentScripts); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(names) == 0 {
		h.scripts = nil
		return nil
	}
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[strings.TrimSpace(name)] = struct{}{}
	}
	kept := h.scripts[:0]
	for _, script := range h.scripts {
		if _, ok := drop[script.Name]; !ok {
			kept = append(kept, script)
		}
	}
	h.scripts = kept
	return nil
}

// ContentScripts returns the registered scripts in insertion order.
func (h *Host) ContentScripts() []frame.ContentScript {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]frame.ContentScript(nil), h.scripts...)
}

// ContentScriptNames lists registered scripts in insertion order.
func (h *Host) ContentScriptNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.scripts))
	for _, script := range h.scripts {
		names = append(names, script.Name)
	}
	return names
}

// ExecuteScript pretends to evaluate code, echoing it through a console
// event.
func (h *Host) ExecuteScript(ctx context.Context, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := h.require(frame.CapExecuteScript); err != nil {
		return "", err
	}
	if err := h.checkAlive(); err != nil {
		return "", err
	}
	result := fmt.Sprintf("evaluated %d bytes", len(code))
	h.emit(frame.EventConsoleMessage, map[string]any{"level": "log", "message": result})
	return result, nil
}

// ClearData drops the selected (simulated) data classes.
func (h *Host) ClearData(ctx context.Context, opts frame.ClearDataOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.require(frame.CapClearData); err != nil {
		return err
	}
	if !opts.Cache && !opts.Cookies && !opts.LocalStorage && !opts.SessionData {
		return fmt.Errorf("sim: no data classes selected")
	}
	return nil
}

// Terminate kills the simulated guest and emits close.
func (h *Host) Terminate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.require(frame.CapTerminate); err != nil {
		return err
	}

	h.mu.Lock()
	already := h.terminated
	h.terminated = true
	h.mu.Unlock()

	if !already {
		h.emit(frame.EventClose, map[string]any{"reason": "terminated"})
	}
	return nil
}

// Subscribe registers an event listener. An empty kinds slice subscribes to
// every stream.
func (h *Host) Subscribe(kinds []frame.EventKind, fn func(frame.Event)) (func(), error) {
	if err := h.require(frame.CapEvents); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("sim: nil event listener")
	}

	sub := &subscriber{fn: fn}
	if len(kinds) > 0 {
		sub.kinds = make(map[frame.EventKind]struct{}, len(kinds))
		for _, kind := range kinds {
			sub.kinds[kind] = struct{}{}
		}
	}

	h.subMu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = sub
	h.subMu.Unlock()

	return func() {
		h.subMu.Lock()
		delete(h.subs, id)
		h.subMu.Unlock()
	}, nil
}

// OpenWindow simulates the guest requesting a new window, feeding the
// newwindow event control.
func (h *Host) OpenWindow(url string) {
	h.emit(frame.EventNewWindow, map[string]any{"targetUrl": url})
}

func (h *Host) emit(kind frame.EventKind, data map[string]any) {
	if !h.Supports(frame.CapEvents) {
		return
	}
	event := frame.NewEvent(kind, data)

	h.subMu.Lock()
	listeners := make([]*subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		listeners = append(listeners, sub)
	}
	h.subMu.Unlock()

	for _, sub := range listeners {
		if sub.kinds != nil {
			if _, ok := sub.kinds[kind]; !ok {
				continue
			}
		}
		sub.fn(event)
	}
}
