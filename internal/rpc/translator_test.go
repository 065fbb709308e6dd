package rpc

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
)

func echoRoute(_ context.Context, call *Call) (*registry.Result, *mcperr.CallError) {
	var params any
	if len(call.RawParams) > 0 {
		_ = json.Unmarshal(call.RawParams, &params)
	}

	return registry.OK(params), nil
}

func failRoute(code, message string) RouteFunc {
	return func(_ context.Context, _ *Call) (*registry.Result, *mcperr.CallError) {
		return nil, mcperr.New(code, message)
	}
}

func TestHandleLine_MalformedJSONYieldsLegacyParseError(t *testing.T) {
	tr := NewTranslator(slog.Default(), echoRoute)

	out := tr.HandleLine(context.Background(), []byte(`{"method": "broken`))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "PARSE_ERROR", doc.Get("code").String())
	assert.False(t, doc.Get("jsonrpc").Exists(), "parse errors use the legacy shape")
}

func TestHandleLine_MissingMethodYieldsInvalidRequest(t *testing.T) {
	tr := NewTranslator(slog.Default(), echoRoute)

	for _, line := range []string{`{}`, `{"method":""}`, `{"params":{"a":1}}`} {
		out := tr.HandleLine(context.Background(), []byte(line))

		doc := gjson.ParseBytes(out)
		assert.Equal(t, "INVALID_REQUEST", doc.Get("code").String(), "line: %s", line)
	}
}

func TestHandleLine_NonObjectYieldsInvalidRequest(t *testing.T) {
	tr := NewTranslator(slog.Default(), echoRoute)

	out := tr.HandleLine(context.Background(), []byte(`42`))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "INVALID_REQUEST", doc.Get("code").String())
}

func TestHandleLine_JSONRPC2SuccessEnvelope(t *testing.T) {
	tr := NewTranslator(slog.Default(), echoRoute)

	out := tr.HandleLine(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":7,"method":"echo","params":{"x":1}}`))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "2.0", doc.Get("jsonrpc").String())
	assert.Equal(t, int64(7), doc.Get("id").Int())
	assert.True(t, doc.Get("result.success").Bool())
	assert.Equal(t, int64(1), doc.Get("result.data.x").Int())
	assert.Equal(t, gjson.Null, doc.Get("result.message").Type)
}

func TestHandleLine_IDTypePreserved(t *testing.T) {
	tr := NewTranslator(slog.Default(), echoRoute)

	tests := []struct {
		name  string
		id    string
		check func(t *testing.T, id gjson.Result)
	}{
		{"number id", `42`, func(t *testing.T, id gjson.Result) {
			t.Helper()
			assert.Equal(t, gjson.Number, id.Type)
			assert.Equal(t, int64(42), id.Int())
		}},
		{"string id", `"abc-1"`, func(t *testing.T, id gjson.Result) {
			t.Helper()
			assert.Equal(t, gjson.String, id.Type)
			assert.Equal(t, "abc-1", id.String())
		}},
		{"null id", `null`, func(t *testing.T, id gjson.Result) {
			t.Helper()
			assert.Equal(t, gjson.Null, id.Type)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := []byte(`{"jsonrpc":"2.0","id":` + tt.id + `,"method":"echo"}`)
			out := tr.HandleLine(context.Background(), line)

			doc := gjson.ParseBytes(out)
			require.True(t, doc.Get("id").Exists())
			tt.check(t, doc.Get("id"))
		})
	}
}

func TestHandleLine_JSONRPC2ErrorEnvelope(t *testing.T) {
	tr := NewTranslator(slog.Default(), failRoute(mcperr.CodeMethodNotFound, "Unknown method: nope"))

	out := tr.HandleLine(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":"req-1","method":"nope"}`))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "req-1", doc.Get("id").String())
	assert.Equal(t, int64(-32601), doc.Get("error.code").Int())
	assert.Equal(t, "Unknown method: nope", doc.Get("error.message").String())
	assert.Equal(t, "METHOD_NOT_FOUND", doc.Get("error.data.mcpCode").String())
	assert.Equal(t, gjson.Null, doc.Get("error.data.details").Type)
	assert.False(t, doc.Get("result").Exists())
}

func TestHandleLine_LegacySuccessHasNoEnvelope(t *testing.T) {
	tr := NewTranslator(slog.Default(), echoRoute)

	out := tr.HandleLine(context.Background(), []byte(`{"method":"echo","x":5}`))

	doc := gjson.ParseBytes(out)
	assert.False(t, doc.Get("jsonrpc").Exists())
	assert.False(t, doc.Get("id").Exists())
	assert.True(t, doc.Get("success").Bool())
	// Legacy params are the whole request object.
	assert.Equal(t, int64(5), doc.Get("data.x").Int())
}

func TestHandleLine_LegacyErrorSerializedDirectly(t *testing.T) {
	tr := NewTranslator(slog.Default(), failRoute(mcperr.CodeBreakpointNotFound, "Breakpoint not found: bp-9"))

	out := tr.HandleLine(context.Background(), []byte(`{"method":"removeBreakpoint","id":"bp-9"}`))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "BREAKPOINT_NOT_FOUND", doc.Get("code").String())
	assert.Equal(t, "Breakpoint not found: bp-9", doc.Get("message").String())
	assert.False(t, doc.Get("jsonrpc").Exists())
}

type liftedPayload struct {
	basePayload

	Extra string `json:"extra"`
}

type basePayload struct {
	Kind string `json:"kind"`
}

func TestHandleLine_PayloadSerializedByRuntimeType(t *testing.T) {
	// The encoder must not narrow the payload to a static base type:
	// subtype-specific fields have to survive.
	route := func(_ context.Context, _ *Call) (*registry.Result, *mcperr.CallError) {
		var payload any = &liftedPayload{basePayload: basePayload{Kind: "lifted"}, Extra: "kept"}

		return registry.OK(payload), nil
	}

	tr := NewTranslator(slog.Default(), route)
	out := tr.HandleLine(context.Background(), []byte(`{"method":"whatever"}`))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "lifted", doc.Get("data.kind").String())
	assert.Equal(t, "kept", doc.Get("data.extra").String())
}

func TestHandleLine_UnserializablePayloadBecomesInternalError(t *testing.T) {
	route := func(_ context.Context, _ *Call) (*registry.Result, *mcperr.CallError) {
		return registry.OK(make(chan int)), nil
	}

	tr := NewTranslator(slog.Default(), route)
	out := tr.HandleLine(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"whatever"}`))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, int64(-32603), doc.Get("error.code").Int())
	assert.Equal(t, "INTERNAL_ERROR", doc.Get("error.data.mcpCode").String())
}

func TestHandleLine_NilResultBecomesInternalError(t *testing.T) {
	route := func(_ context.Context, _ *Call) (*registry.Result, *mcperr.CallError) {
		return nil, nil
	}

	tr := NewTranslator(slog.Default(), route)
	out := tr.HandleLine(context.Background(), []byte(`{"method":"whatever"}`))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "INTERNAL_ERROR", doc.Get("code").String())
}
