package dbgbridge

import "github.com/nvail/dbgbridge/internal/mcperr"

// Re-export error types from internal package

// CallError is the structured failure a tool reports to callers.
type CallError = mcperr.CallError

// BridgeError indicates the mediator answered a call with an error.
type BridgeError = mcperr.BridgeError

// ConnectionError indicates failure to connect to the mediator process.
type ConnectionError = mcperr.ConnectionError

// ProcessError indicates the mediator process exited abnormally.
type ProcessError = mcperr.ProcessError

// Re-export sentinel errors from internal package.
var (
	// ErrRequestTimeout indicates a mediator call timed out.
	ErrRequestTimeout = mcperr.ErrRequestTimeout

	// ErrBridgeClosed indicates the bridge connection has shut down.
	ErrBridgeClosed = mcperr.ErrBridgeClosed

	// ErrTransportNotConnected indicates the transport is not connected.
	ErrTransportNotConnected = mcperr.ErrTransportNotConnected

	// ErrDuplicateMethod indicates a tool method name was registered twice.
	ErrDuplicateMethod = mcperr.ErrDuplicateMethod
)
