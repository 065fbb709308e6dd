package mcperr

import "fmt"

// CallError is the structured failure outcome of a tool call. It is a value,
// not a Go error: handlers return it alongside a nil result and the envelope
// layer re-encodes it in the caller's expected shape. Exactly one of
// Result/CallError exists per call.
type CallError struct {
	// Code is the stable domain code (see codes.go).
	Code string `json:"code"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Details carries optional structured context for the failure.
	Details map[string]any `json:"details,omitempty"`
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates a CallError with an arbitrary domain code.
func New(code, message string) *CallError {
	return &CallError{Code: code, Message: message}
}

// Newf creates a CallError with a formatted message.
func Newf(code, format string, args ...any) *CallError {
	return &CallError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns a copy of the error with the given details attached.
func (e *CallError) WithDetails(details map[string]any) *CallError {
	clone := *e
	clone.Details = details

	return &clone
}

// ParseError indicates the inbound line was not valid JSON.
func ParseError(message string) *CallError {
	return New(CodeParseError, message)
}

// InvalidRequest indicates a structurally invalid request (missing method,
// undecodable params).
func InvalidRequest(message string) *CallError {
	return New(CodeInvalidRequest, message)
}

// MethodNotFound indicates no tool is registered for the requested method.
func MethodNotFound(message string) *CallError {
	return New(CodeMethodNotFound, message)
}

// Internal indicates an unexpected failure inside a handler.
func Internal(message string) *CallError {
	return New(CodeInternalError, message)
}

// BridgeTimeout indicates the mediator did not reply within the deadline.
func BridgeTimeout(message string) *CallError {
	return New(CodeBridgeTimeout, message)
}

// BridgeUnavailable indicates the mediator connection is absent or broken.
func BridgeUnavailable(message string) *CallError {
	return New(CodeBridgeUnavailable, message)
}

// BreakpointNotFound indicates a remove was issued for an unknown breakpoint id.
func BreakpointNotFound(id string) *CallError {
	return Newf(CodeBreakpointNotFound, "Breakpoint not found: %s", id)
}
