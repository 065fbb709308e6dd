package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBridge records calls and can be told to fail.
type recordingBridge struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (b *recordingBridge) Call(_ context.Context, method string, _ any) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, method)

	if b.err != nil {
		return nil, b.err
	}

	return json.RawMessage(`{}`), nil
}

func (b *recordingBridge) calledMethods() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]string, len(b.calls))
	copy(result, b.calls)

	return result
}

func TestSession_SetThenListThenRemove(t *testing.T) {
	s := New(slog.Default(), nil)
	ctx := context.Background()

	bp := s.SetBreakpoint(ctx, "a.cs", 10, 0, "", "")
	require.NotEmpty(t, bp.ID)
	assert.True(t, bp.Verified)

	list := s.ListBreakpoints()
	require.Len(t, list, 1)
	assert.Equal(t, "a.cs", list[0].File)
	assert.Equal(t, 10, list[0].Line)
	assert.True(t, list[0].Verified)

	require.True(t, s.RemoveBreakpoint(ctx, bp.ID))
	assert.Empty(t, s.ListBreakpoints())
}

func TestSession_RemoveUnknownBreakpoint(t *testing.T) {
	s := New(slog.Default(), nil)

	assert.False(t, s.RemoveBreakpoint(context.Background(), "nonexistent"))
}

func TestSession_UniqueIDs(t *testing.T) {
	s := New(slog.Default(), nil)
	ctx := context.Background()

	seen := make(map[string]bool, 100)

	for range 100 {
		bp := s.SetBreakpoint(ctx, "a.cs", 1, 0, "", "")
		require.False(t, seen[bp.ID], "duplicate breakpoint id %s", bp.ID)
		seen[bp.ID] = true
	}

	assert.Len(t, s.ListBreakpoints(), 100)
}

func TestSession_SetAttemptsRemoteRegistration(t *testing.T) {
	bridge := &recordingBridge{}
	s := New(slog.Default(), bridge)

	s.SetBreakpoint(context.Background(), "a.cs", 10, 0, "x > 1", "")

	assert.Equal(t, []string{"setBreakpoint"}, bridge.calledMethods())
}

func TestSession_BridgeFailureDegradesGracefully(t *testing.T) {
	bridge := &recordingBridge{err: errors.New("mediator unreachable")}
	s := New(slog.Default(), bridge)
	ctx := context.Background()

	bp := s.SetBreakpoint(ctx, "a.cs", 10, 0, "", "")

	// Local entry is authoritative despite the remote failure.
	list := s.ListBreakpoints()
	require.Len(t, list, 1)
	assert.Equal(t, bp.ID, list[0].ID)

	// Removal also proceeds locally when the remote call fails.
	require.True(t, s.RemoveBreakpoint(ctx, bp.ID))
	assert.Empty(t, s.ListBreakpoints())
	assert.Equal(t, []string{"setBreakpoint", "removeBreakpoint"}, bridge.calledMethods())
}

func TestSession_StatusTracksEvents(t *testing.T) {
	s := New(slog.Default(), nil)

	assert.Equal(t, StatusIdle, s.Status().Status)

	s.HandleBridgeEvent("stopped", json.RawMessage(`{"threadId":4,"reason":"breakpoint"}`))
	snap := s.Status()
	assert.Equal(t, StatusStopped, snap.Status)
	assert.Equal(t, 4, snap.SelectedThread)

	s.HandleBridgeEvent("continued", nil)
	assert.Equal(t, StatusRunning, s.Status().Status)

	s.HandleBridgeEvent("terminated", nil)
	assert.Equal(t, StatusTerminated, s.Status().Status)
}

func TestSession_BreakpointEventUpdatesVerified(t *testing.T) {
	s := New(slog.Default(), nil)
	bp := s.SetBreakpoint(context.Background(), "a.cs", 10, 0, "", "")

	s.HandleBridgeEvent("breakpoint", json.RawMessage(`{"id":"`+bp.ID+`","verified":false}`))

	list := s.ListBreakpoints()
	require.Len(t, list, 1)
	assert.False(t, list[0].Verified)
}

func TestSession_UnknownEventIgnored(t *testing.T) {
	s := New(slog.Default(), nil)
	s.HandleBridgeEvent("somethingElse", json.RawMessage(`{}`))

	assert.Equal(t, StatusIdle, s.Status().Status)
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New(slog.Default(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup

	for range 10 {
		wg.Go(func() {
			bp := s.SetBreakpoint(ctx, "a.cs", 1, 0, "", "")
			s.ListBreakpoints()
			s.RemoveBreakpoint(ctx, bp.ID)
		})
	}

	wg.Wait()
	assert.Empty(t, s.ListBreakpoints())
}
