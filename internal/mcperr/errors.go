package mcperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrRequestTimeout indicates a bridge request timed out.
	ErrRequestTimeout = errors.New("request timeout")

	// ErrBridgeClosed indicates the bridge connection was lost while
	// requests were outstanding.
	ErrBridgeClosed = errors.New("bridge connection closed")

	// ErrTransportNotConnected indicates the bridge transport is not connected.
	ErrTransportNotConnected = errors.New("transport not connected")

	// ErrStdinClosed indicates the mediator's stdin was closed due to
	// context cancellation.
	ErrStdinClosed = errors.New("stdin closed")

	// ErrDuplicateMethod indicates two tools were registered under the same
	// method name. This is a startup configuration error, fatal to bring-up.
	ErrDuplicateMethod = errors.New("duplicate method registration")
)

// ConnectionError indicates failure to start or talk to the mediator process.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to mediator: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProcessError indicates the mediator process exited abnormally.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mediator process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("mediator process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// BridgeError wraps an error string returned by the mediator in a response
// message. It is distinct from a timeout: the mediator replied, but reported
// that the operation failed.
type BridgeError struct {
	Method  string
	Message string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("bridge %s failed: %s", e.Method, e.Message)
}
