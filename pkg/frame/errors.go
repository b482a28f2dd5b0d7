package frame

import "errors"

var (
	// ErrUnsupported signals a call against a capability the host does not
	// expose. Callers are expected to probe Supports first.
	ErrUnsupported = errors.New("frame: capability not supported")
	// ErrTerminated signals a call against a terminated guest.
	ErrTerminated = errors.New("frame: guest terminated")
)
