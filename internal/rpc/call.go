// Package rpc implements the client-facing envelope layer. It normalizes the
// two inbound request shapes (legacy raw and JSON-RPC 2.0) into one internal
// Call, and re-encodes results and errors in whichever envelope the caller
// used.
package rpc

import "encoding/json"

// Protocol identifies the envelope shape of an inbound request.
type Protocol int

const (
	// ProtocolLegacy is a bare request object with params inline:
	// {"method":"setBreakpoint","file":"a.cs","line":10}
	ProtocolLegacy Protocol = iota

	// ProtocolJSONRPC2 is a JSON-RPC 2.0 request:
	// {"jsonrpc":"2.0","id":1,"method":"setBreakpoint","params":{...}}
	ProtocolJSONRPC2
)

func (p Protocol) String() string {
	if p == ProtocolJSONRPC2 {
		return "jsonrpc2"
	}

	return "legacy"
}

// Call is one decoded inbound request. It is created per line, immutable,
// and discarded after the response is written.
type Call struct {
	// Method is the tool method name.
	Method string

	// RawParams holds the undecoded parameters: the params object for
	// JSON-RPC 2.0 callers, or the whole request object for legacy callers.
	RawParams json.RawMessage

	// Protocol records which envelope shape the caller used.
	Protocol Protocol

	// ID is the caller's request id as raw JSON, so it can be echoed back
	// with the exact JSON type it arrived as. Nil when the caller sent none.
	ID json.RawMessage
}
