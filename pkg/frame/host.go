// Package frame defines the embedded-webview host surface the panel
// exercises. Hosts vary by version; callers probe Supports before invoking a
// capability and degrade to a logged warning when it is absent.
package frame

import "context"

// Capability identifies one optional slice of the host API surface.
type Capability string

const (
	CapNavigation     Capability = "navigation"
	CapHistory        Capability = "history"
	CapZoom           Capability = "zoom"
	CapAudio          Capability = "audio"
	CapContentScripts Capability = "contentScripts"
	CapExecuteScript  Capability = "executeScript"
	CapClearData      Capability = "clearData"
	CapTerminate      Capability = "terminate"
	CapEvents         Capability = "events"
)

// AllCapabilities lists every capability a fully featured host exposes.
func AllCapabilities() []Capability {
	return []Capability{
		CapNavigation, CapHistory, CapZoom, CapAudio, CapContentScripts,
		CapExecuteScript, CapClearData, CapTerminate, CapEvents,
	}
}

// AudioState is a point-in-time snapshot of the frame's audio pipeline.
type AudioState struct {
	Muted   bool `json:"muted"`
	Audible bool `json:"audible"`
}

// ContentScript describes a script injected into frame navigations matching
// the given URL patterns.
type ContentScript struct {
	Name     string   `json:"name"`
	Matches  []string `json:"matches"`
	Code     string   `json:"code"`
	RunAt    string   `json:"runAt,omitempty"`
	AllFrame bool     `json:"allFrames,omitempty"`
}

// ClearDataOptions selects which site data classes a ClearData call removes.
type ClearDataOptions struct {
	Cache        bool `json:"cache"`
	Cookies      bool `json:"cookies"`
	LocalStorage bool `json:"localStorage"`
	SessionData  bool `json:"sessionData"`
}

// Host is the external embedded-webview object. Implementations may lack
// whole capability groups; Supports gates every optional method. Calling an
// unsupported method is a programming error and implementations are free to
// reject it.
type Host interface {
	// Supports reports whether the host version exposes the capability.
	Supports(cap Capability) bool

	// Navigation.
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	Stop(ctx context.Context) error
	CurrentURL() string

	// History (CapHistory).
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Go(ctx context.Context, offset int) error
	CanGoBack() bool
	CanGoForward() bool

	// Zoom (CapZoom).
	GetZoom() (float64, error)
	SetZoom(ctx context.Context, factor float64) error

	// Audio (CapAudio).
	GetAudioState() (AudioState, error)
	SetAudioMuted(ctx context.Context, muted bool) error

	// Content scripts (CapContentScripts).
	AddContentScripts(ctx context.Context, scripts []ContentScript) error
	RemoveContentScripts(ctx context.Context, names []string) error
	ContentScriptNames() []string

	// ExecuteScript (CapExecuteScript) evaluates code in the frame and
	// returns its stringified result.
	ExecuteScript(ctx context.Context, code string) (string, error)

	// ClearData (CapClearData).
	ClearData(ctx context.Context, opts ClearDataOptions) error

	// Terminate (CapTerminate) kills the guest process.
	Terminate(ctx context.Context) error

	// Subscribe (CapEvents) registers a listener for the given event kinds
	// (all kinds when empty) and returns a cancellation func. Events are
	// delivered asynchronously; slow listeners may drop.
	Subscribe(kinds []EventKind, fn func(Event)) (cancel func(), err error)
}
