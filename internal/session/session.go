// Package session owns per-session debugger state: the breakpoint store, the
// selected thread, and the last known execution status. State is scoped to an
// explicit Session value so separate sessions (and test instances) never
// share storage.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"
)

// BridgeCaller is the subset of the bridge client a session needs. A nil
// caller means no mediator is connected and remote registration is skipped.
type BridgeCaller interface {
	Call(ctx context.Context, method string, payload any) (json.RawMessage, error)
}

// Breakpoint is one registered breakpoint. Identity is immutable once
// assigned; the only mutation is removal.
type Breakpoint struct {
	ID           string `json:"id"`
	File         string `json:"file"`
	Line         int    `json:"line"`
	Column       int    `json:"column"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
	Verified     bool   `json:"verified"`
}

// Execution states tracked from mediator events.
const (
	StatusIdle       = "idle"
	StatusRunning    = "running"
	StatusStopped    = "stopped"
	StatusTerminated = "terminated"
)

// Session is the single writer of its breakpoint map. All operations
// serialize against each other.
type Session struct {
	log    *slog.Logger
	bridge BridgeCaller

	mu             sync.Mutex
	breakpoints    map[string]*Breakpoint
	selectedThread int
	status         string
}

// New creates a Session. bridge may be nil for local-only operation.
func New(log *slog.Logger, bridge BridgeCaller) *Session {
	return &Session{
		log:         log.With("component", "session"),
		bridge:      bridge,
		breakpoints: make(map[string]*Breakpoint, 16),
		status:      StatusIdle,
	}
}

// SetBreakpoint registers a breakpoint locally and attempts best-effort
// remote registration through the bridge. The local breakpoint is
// authoritative: a bridge failure degrades to local-only instead of failing
// the operation.
func (s *Session) SetBreakpoint(ctx context.Context, file string, line, column int, condition, hitCondition string) *Breakpoint {
	bp := &Breakpoint{
		ID:           ulid.Make().String(),
		File:         file,
		Line:         line,
		Column:       column,
		Condition:    condition,
		HitCondition: hitCondition,
		Verified:     true,
	}

	s.mu.Lock()
	s.breakpoints[bp.ID] = bp
	s.mu.Unlock()

	s.log.Debug("Breakpoint set", "id", bp.ID, "file", file, "line", line)

	if s.bridge != nil {
		if _, err := s.bridge.Call(ctx, "setBreakpoint", bp); err != nil {
			s.log.Warn("Remote breakpoint registration failed, keeping local entry",
				"id", bp.ID, "error", err)
		}
	}

	return bp
}

// RemoveBreakpoint deletes a breakpoint. The remote counterpart is attempted
// best-effort; the local entry is removed regardless, since local state is
// the source of truth for List. Returns false if the id is unknown.
func (s *Session) RemoveBreakpoint(ctx context.Context, id string) bool {
	s.mu.Lock()

	bp, exists := s.breakpoints[id]
	if exists {
		delete(s.breakpoints, id)
	}

	s.mu.Unlock()

	if !exists {
		return false
	}

	s.log.Debug("Breakpoint removed", "id", id)

	if s.bridge != nil {
		if _, err := s.bridge.Call(ctx, "removeBreakpoint", map[string]any{"id": bp.ID}); err != nil {
			s.log.Warn("Remote breakpoint removal failed", "id", id, "error", err)
		}
	}

	return true
}

// ListBreakpoints returns the current breakpoints, ordered by id. It is a
// pure local read and never contacts the mediator.
func (s *Session) ListBreakpoints() []*Breakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*Breakpoint, 0, len(s.breakpoints))
	for _, bp := range s.breakpoints {
		result = append(result, bp)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result
}

// SelectThread records the thread subsequent operations should target.
func (s *Session) SelectThread(threadID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedThread = threadID
}

// SelectedThread returns the currently selected thread id (0 if none).
func (s *Session) SelectedThread() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedThread
}

// Snapshot is the session's locally tracked state.
type Snapshot struct {
	Status         string `json:"status"`
	SelectedThread int    `json:"selectedThread"`
	Breakpoints    int    `json:"breakpoints"`
	BridgeAttached bool   `json:"bridgeAttached"`
}

// Status returns a snapshot of local session state.
func (s *Session) Status() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Snapshot{
		Status:         s.status,
		SelectedThread: s.selectedThread,
		Breakpoints:    len(s.breakpoints),
		BridgeAttached: s.bridge != nil,
	}
}

// HandleBridgeEvent updates session state from mediator events. Unknown
// events are ignored.
func (s *Session) HandleBridgeEvent(method string, data json.RawMessage) {
	switch method {
	case "stopped":
		s.mu.Lock()
		s.status = StatusStopped

		if threadID := gjson.GetBytes(data, "threadId"); threadID.Exists() {
			s.selectedThread = int(threadID.Int())
		}

		s.mu.Unlock()

	case "continued":
		s.mu.Lock()
		s.status = StatusRunning
		s.mu.Unlock()

	case "terminated", "exited":
		s.mu.Lock()
		s.status = StatusTerminated
		s.mu.Unlock()

	case "breakpoint":
		// The mediator reports verification results asynchronously.
		id := gjson.GetBytes(data, "id").String()
		verified := gjson.GetBytes(data, "verified")

		if id == "" || !verified.Exists() {
			return
		}

		s.mu.Lock()

		if bp, ok := s.breakpoints[id]; ok {
			bp.Verified = verified.Bool()
		}

		s.mu.Unlock()

	default:
		s.log.Debug("Ignoring bridge event", "method", method)
	}
}
