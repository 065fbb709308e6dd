package rpc

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
)

// RouteFunc dispatches a decoded call and returns exactly one of a Result or
// a CallError. The router provides the production implementation.
type RouteFunc func(ctx context.Context, call *Call) (*registry.Result, *mcperr.CallError)

// Translator is the top-level entry point for inbound lines. It decodes the
// wire message, decides legacy vs JSON-RPC 2.0, routes the call, and
// re-encodes the outcome in the caller's envelope. Every line yields exactly
// one response line; a malformed line never crashes or drops the response.
type Translator struct {
	log   *slog.Logger
	route RouteFunc
}

// NewTranslator creates a Translator that dispatches through route.
func NewTranslator(log *slog.Logger, route RouteFunc) *Translator {
	return &Translator{
		log:   log.With("component", "rpc"),
		route: route,
	}
}

// HandleLine processes one raw request line and returns the response bytes
// (without a trailing newline).
func (t *Translator) HandleLine(ctx context.Context, raw []byte) []byte {
	// No protocol-version detection is possible without a parsed document,
	// so parse errors are always reported in the legacy shape.
	if !gjson.ValidBytes(raw) {
		t.log.Debug("Rejecting malformed JSON line", "line_len", len(raw))

		return t.encodeLegacyError(mcperr.ParseError("Invalid JSON in request"))
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return t.encodeLegacyError(mcperr.InvalidRequest("Request must be a JSON object"))
	}

	method := doc.Get("method").String()
	if method == "" {
		return t.encodeLegacyError(mcperr.InvalidRequest("Missing method field"))
	}

	call := t.buildCall(doc, method, raw)

	t.log.Debug("Dispatching call", "method", call.Method, "protocol", call.Protocol.String())

	result, callErr := t.route(ctx, call)

	if callErr != nil {
		return t.encodeError(call, callErr)
	}

	return t.encodeResult(call, result)
}

// buildCall captures the envelope shape and raw parameters of a parsed request.
func (t *Translator) buildCall(doc gjson.Result, method string, raw []byte) *Call {
	call := &Call{
		Method:    method,
		Protocol:  ProtocolLegacy,
		RawParams: json.RawMessage(raw),
	}

	if doc.Get("jsonrpc").String() == "2.0" {
		call.Protocol = ProtocolJSONRPC2
		call.RawParams = nil

		if params := doc.Get("params"); params.Exists() {
			call.RawParams = json.RawMessage(params.Raw)
		}

		// The id is kept as raw bytes so it echoes back with the JSON type
		// it arrived as: string stays string, number stays number.
		if id := doc.Get("id"); id.Exists() {
			call.ID = json.RawMessage(id.Raw)
		}
	}

	return call
}

// rpc2Envelope is the JSON-RPC 2.0 response wrapper. A nil ID marshals as null.
type rpc2Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  *rpc2Result     `json:"result,omitempty"`
	Error   *rpc2Error      `json:"error,omitempty"`
}

// rpc2Result unwraps the handler payload: data is the raw payload, not a
// re-wrapped Result object.
type rpc2Result struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Message any  `json:"message"`
}

type rpc2Error struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    rpc2ErrorData `json:"data"`
}

// rpc2ErrorData preserves the domain code across the numeric remapping.
type rpc2ErrorData struct {
	McpCode string         `json:"mcpCode"`
	Details map[string]any `json:"details"`
}

func (t *Translator) encodeResult(call *Call, result *registry.Result) []byte {
	if result == nil {
		// A handler returned neither a result nor an error. Report it rather
		// than emitting an empty line.
		return t.encodeError(call, mcperr.Internal("handler produced no result"))
	}

	if call.Protocol == ProtocolJSONRPC2 {
		body := &rpc2Result{Success: result.Success, Data: result.Data}
		if result.Message != "" {
			body.Message = result.Message
		}

		return t.marshal(call, &rpc2Envelope{JSONRPC: "2.0", ID: call.ID, Result: body})
	}

	// Legacy callers get the Result object serialized directly. Data is held
	// as any, so polymorphic payloads encode by their runtime type.
	return t.marshal(call, result)
}

func (t *Translator) encodeError(call *Call, callErr *mcperr.CallError) []byte {
	if call.Protocol == ProtocolJSONRPC2 {
		return t.marshal(call, &rpc2Envelope{
			JSONRPC: "2.0",
			ID:      call.ID,
			Error: &rpc2Error{
				Code:    mcperr.TransportCode(callErr.Code),
				Message: callErr.Message,
				Data:    rpc2ErrorData{McpCode: callErr.Code, Details: callErr.Details},
			},
		})
	}

	return t.encodeLegacyError(callErr)
}

func (t *Translator) encodeLegacyError(callErr *mcperr.CallError) []byte {
	data, err := json.Marshal(callErr)
	if err != nil {
		t.log.Error("Failed to marshal error response", "error", err)

		return []byte(`{"code":"INTERNAL_ERROR","message":"failed to encode error response"}`)
	}

	return data
}

// marshal serializes a response, falling back to an internal error envelope
// if the handler payload is not JSON-serializable.
func (t *Translator) marshal(call *Call, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		t.log.Error("Failed to marshal response", "method", call.Method, "error", err)

		return t.encodeError(&Call{Method: call.Method, Protocol: call.Protocol, ID: call.ID},
			mcperr.Internal("failed to encode response payload"))
	}

	return data
}
