package mcperr

// Domain codes are stable strings identifying failure categories. They
// survive transport-level remapping: a JSON-RPC 2.0 error carries both the
// numeric code and the original domain code (as error.data.mcpCode) so
// clients can branch on semantics without relying on the numeric value.
const (
	CodeParseError         = "PARSE_ERROR"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeMethodNotFound     = "METHOD_NOT_FOUND"
	CodeToolNotRegistered  = "TOOL_NOT_REGISTERED"
	CodeToolUnavailable    = "TOOL_UNAVAILABLE"
	CodeNotImplemented     = "NOT_IMPLEMENTED"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBreakpointNotFound = "BREAKPOINT_NOT_FOUND"
	CodeBridgeTimeout      = "BRIDGE_TIMEOUT"
	CodeBridgeUnavailable  = "BRIDGE_UNAVAILABLE"
)

// JSON-RPC 2.0 numeric buckets. The -32700..-32603 values are the codes
// reserved by the JSON-RPC spec; the -3200x values are implementation-defined
// server errors in the reserved server range.
const (
	TransportParseError         = -32700
	TransportInvalidRequest     = -32600
	TransportMethodNotFound     = -32601
	TransportInternalError      = -32603
	TransportServerError        = -32000
	TransportNotImplemented     = -32001
	TransportToolNotRegistered  = -32002
	TransportToolUnavailable    = -32003
)

var transportCodes = map[string]int{
	CodeParseError:         TransportParseError,
	CodeInvalidRequest:     TransportInvalidRequest,
	CodeMethodNotFound:     TransportMethodNotFound,
	CodeToolNotRegistered:  TransportToolNotRegistered,
	CodeToolUnavailable:    TransportToolUnavailable,
	CodeNotImplemented:     TransportNotImplemented,
	CodeInternalError:      TransportInternalError,
}

// TransportCode maps a domain code to its JSON-RPC 2.0 numeric bucket.
// It is total: codes without an explicit mapping (including handler-defined
// ones like BREAKPOINT_NOT_FOUND) fall into the generic server-error bucket.
func TransportCode(domainCode string) int {
	if code, ok := transportCodes[domainCode]; ok {
		return code
	}

	return TransportServerError
}
