package gatt

import "fmt"

// AttErrorCode is an ATT-visible error, encoded bit-exact on the wire. It
// implements error so it can be returned and compared directly; datastore
// errors are propagated through unchanged (spec.md §7, propagation policy).
type AttErrorCode uint8

const (
	// Success is not itself an error; callers compare against it to decide
	// whether an operation failed. Kept for symmetry with the wire protocol.
	Success AttErrorCode = 0x00
	// InvalidHandle — no attribute exists at the requested handle, or the
	// schema it belonged to has been torn down (spec.md I5).
	InvalidHandle AttErrorCode = 0x01
	// ReadNotPermitted — the attribute exists but lacks READABLE.
	ReadNotPermitted AttErrorCode = 0x02
	// WriteNotPermitted — the attribute exists but lacks WRITABLE, or is a
	// static attribute incorrectly marked writable (an internal invariant
	// violation, logged and downgraded to this code per spec.md §7.3).
	WriteNotPermitted AttErrorCode = 0x03
	// UnlikelyError is used for conditions the core does not otherwise
	// classify; datastore implementations may also return it directly.
	UnlikelyError AttErrorCode = 0x0e
)

func (e AttErrorCode) Error() string {
	switch e {
	case Success:
		return "success"
	case InvalidHandle:
		return "invalid handle"
	case ReadNotPermitted:
		return "read not permitted"
	case WriteNotPermitted:
		return "write not permitted"
	case UnlikelyError:
		return "unlikely error"
	default:
		return fmt.Sprintf("att error 0x%02x", uint8(e))
	}
}

// IsError reports whether e represents a failure (anything but Success).
func (e AttErrorCode) IsError() bool { return e != Success }

// ConfigErrorState enumerates the caller-visible (not peer-visible)
// misconfigurations the module API can reject, per spec.md §7.1.
type ConfigErrorState string

const (
	ErrStateUnknownServer     ConfigErrorState = "unknown_server"
	ErrStateDuplicateHandle   ConfigErrorState = "duplicate_handle"
	ErrStateAlreadyOpen       ConfigErrorState = "already_open"
	ErrStateTransportExists   ConfigErrorState = "transport_exists"
	ErrStateTransportNotFound ConfigErrorState = "transport_not_found"
)

// ConfigError is a caller-visible configuration error: it is never encoded
// onto the ATT wire. Modeled directly on device.ConnectionError in the
// teacher repo (typed state + message + errors.Is support via Is).
type ConfigError struct {
	State ConfigErrorState
	Msg   string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.State)
	}
	return fmt.Sprintf("%s: %s", e.State, e.Msg)
}

// Is allows errors.Is to compare ConfigError values by State alone, so
// callers can do errors.Is(err, gatt.ErrAlreadyOpen) without caring about Msg.
func (e *ConfigError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.State == t.State
}

// Sentinel ConfigErrors for errors.Is comparisons.
var (
	ErrUnknownServer     = &ConfigError{State: ErrStateUnknownServer}
	ErrDuplicateHandle   = &ConfigError{State: ErrStateDuplicateHandle}
	ErrAlreadyOpen       = &ConfigError{State: ErrStateAlreadyOpen}
	ErrTransportExists   = &ConfigError{State: ErrStateTransportExists}
	ErrTransportNotFound = &ConfigError{State: ErrStateTransportNotFound}
)

func configErrorf(state ConfigErrorState, format string, args ...interface{}) *ConfigError {
	return &ConfigError{State: state, Msg: fmt.Sprintf(format, args...)}
}
