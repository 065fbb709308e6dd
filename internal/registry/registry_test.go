package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvail/dbgbridge/internal/mcperr"
)

type echoRequest struct {
	Value string `json:"value"`
}

func echoRegistration(method string) *Registration {
	return New(method, "echo the value back",
		SimpleSchema(map[string]string{"value": "string"}),
		func(_ context.Context, req *echoRequest) (*Result, *mcperr.CallError) {
			return OK(map[string]any{"value": req.Value}), nil
		},
	)
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoRegistration("echo")))

	found, ok := reg.Lookup("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", found.Method)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_DuplicateMethodIsRejected(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoRegistration("echo")))

	err := reg.Register(echoRegistration("echo"))
	require.Error(t, err)
	assert.ErrorIs(t, err, mcperr.ErrDuplicateMethod)
	assert.Contains(t, err.Error(), "echo")
}

func TestRegistry_EmptyMethodIsRejected(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(echoRegistration(""))
	require.Error(t, err)
}

func TestRegistry_MethodsSorted(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterAll(
		echoRegistration("zeta"),
		echoRegistration("alpha"),
		echoRegistration("mid"),
	))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Methods())
}

func TestRegistry_Tools(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterAll(
		echoRegistration("b"),
		echoRegistration("a"),
	))

	tools := reg.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "a", tools[0].Name)
	assert.Equal(t, "b", tools[1].Name)
	assert.Equal(t, "echo the value back", tools[0].Description)
	assert.NotNil(t, tools[0].InputSchema)
}

func TestRegistration_DecodeAndInvoke(t *testing.T) {
	reg := echoRegistration("echo")

	req, err := reg.Decode([]byte(`{"value":"hello"}`))
	require.NoError(t, err)

	result, callErr := reg.Handler(context.Background(), req)
	require.Nil(t, callErr)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, map[string]any{"value": "hello"}, result.Data)
}

func TestRegistration_DecodeFailure(t *testing.T) {
	reg := echoRegistration("echo")

	_, err := reg.Decode([]byte(`{"value":`))
	require.Error(t, err)
}

func TestRegistration_EmptyParamsDecodeToZeroValue(t *testing.T) {
	reg := echoRegistration("echo")

	req, err := reg.Decode(nil)
	require.NoError(t, err)

	typed, ok := req.(*echoRequest)
	require.True(t, ok)
	assert.Empty(t, typed.Value)
}

func TestRegistration_TypeMismatchIsInternalError(t *testing.T) {
	reg := echoRegistration("echo")

	_, callErr := reg.Handler(context.Background(), "not the right type")
	require.NotNil(t, callErr)
	assert.Equal(t, mcperr.CodeInternalError, callErr.Code)
}

func TestRegistration_Tags(t *testing.T) {
	reg := New("tagged", "a tagged tool", nil,
		func(_ context.Context, _ *echoRequest) (*Result, *mcperr.CallError) {
			return OK(nil), nil
		},
		WithTags("breakpoints", "stateful"),
	)

	assert.Equal(t, []string{"breakpoints", "stateful"}, reg.Tags)
}
