package mcperr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportCode(t *testing.T) {
	tests := []struct {
		name       string
		domainCode string
		want       int
	}{
		{"parse error", CodeParseError, -32700},
		{"invalid request", CodeInvalidRequest, -32600},
		{"method not found", CodeMethodNotFound, -32601},
		{"internal error", CodeInternalError, -32603},
		{"not implemented", CodeNotImplemented, -32001},
		{"tool not registered", CodeToolNotRegistered, -32002},
		{"tool unavailable", CodeToolUnavailable, -32003},
		{"handler-defined code falls back", CodeBreakpointNotFound, -32000},
		{"unknown code falls back", "SOMETHING_NOBODY_MAPPED", -32000},
		{"empty code falls back", "", -32000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransportCode(tt.domainCode))
		})
	}
}

func TestTransportCode_RegistryMissDistinctFromRuntimeFailure(t *testing.T) {
	// A client must be able to distinguish "this server will never support X"
	// from "the handler exists but failed right now".
	assert.NotEqual(t, TransportCode(CodeToolNotRegistered), TransportCode(CodeToolUnavailable))
	assert.NotEqual(t, TransportCode(CodeNotImplemented), TransportCode(CodeInternalError))
}

func TestCallError_WithDetails(t *testing.T) {
	base := MethodNotFound("Unknown method: frobnicate")
	detailed := base.WithDetails(map[string]any{"method": "frobnicate"})

	assert.Nil(t, base.Details)
	assert.Equal(t, "frobnicate", detailed.Details["method"])
	assert.Equal(t, base.Code, detailed.Code)
	assert.Equal(t, base.Message, detailed.Message)
}

func TestCallError_Error(t *testing.T) {
	err := BreakpointNotFound("bp-42")
	assert.Equal(t, "BREAKPOINT_NOT_FOUND: Breakpoint not found: bp-42", err.Error())
}
