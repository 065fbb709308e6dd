// Package tools implements the debug operation handlers registered against
// the method surface: lifecycle, execution control, breakpoints, inspection,
// threads, status, and built-ins. Handlers are thin: they validate the typed
// request, then either forward over the bridge or consult session state. The
// relay does not interpret debugger payloads; bridge replies pass through.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
	"github.com/nvail/dbgbridge/internal/session"
)

// Caller is the subset of the bridge client handlers need. Nil means no
// mediator is connected.
type Caller interface {
	Call(ctx context.Context, method string, payload any) (json.RawMessage, error)
}

// Deps carries the collaborators shared by all handlers.
type Deps struct {
	Log       *slog.Logger
	Bridge    Caller
	Session   *session.Session
	Registry  *registry.Registry
	StartedAt time.Time
}

// Registrations returns the full default tool set. Register these at startup;
// a duplicate method name is rejected by the registry before the server
// accepts requests.
func Registrations(d *Deps) []*registry.Registration {
	return []*registry.Registration{
		// Lifecycle
		d.attachTool(),
		d.launchTool(),
		d.disconnectTool(),
		d.terminateTool(),

		// Execution control
		d.continueTool(),
		d.pauseTool(),
		d.stepTool(),

		// Breakpoints
		d.setBreakpointTool(),
		d.removeBreakpointTool(),
		d.listBreakpointsTool(),

		// Inspection
		d.stackTraceTool(),
		d.variablesTool(),
		d.evaluateTool(),

		// Threads
		d.threadsTool(),
		d.selectThreadTool(),

		// Status and built-ins
		d.statusTool(),
		d.healthTool(),
		d.listToolsTool(),
	}
}

// forward relays a call to the mediator and passes the reply payload through
// untouched. Bridge failures surface as structured CallErrors; only the
// breakpoint store degrades silently (see breakpoints.go).
func (d *Deps) forward(ctx context.Context, method string, payload any) (*registry.Result, *mcperr.CallError) {
	if d.Bridge == nil {
		return nil, mcperr.BridgeUnavailable(fmt.Sprintf("%s requires a debugger bridge, but none is connected", method))
	}

	data, err := d.Bridge.Call(ctx, method, payload)
	if err != nil {
		return nil, bridgeCallError(method, err)
	}

	var reply any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &reply); err != nil {
			return nil, mcperr.Internal(fmt.Sprintf("malformed bridge reply for %s: %v", method, err))
		}
	}

	return registry.OK(reply), nil
}

// bridgeCallError translates bridge-layer failures into domain codes. A
// timeout is distinct from a mediator-reported failure, which is distinct
// from a lost connection.
func bridgeCallError(method string, err error) *mcperr.CallError {
	var bridgeErr *mcperr.BridgeError
	if errors.As(err, &bridgeErr) {
		return mcperr.New(mcperr.CodeToolUnavailable, bridgeErr.Message)
	}

	switch {
	case errors.Is(err, mcperr.ErrRequestTimeout):
		return mcperr.BridgeTimeout(fmt.Sprintf("%s timed out waiting for the debugger", method))
	default:
		return mcperr.BridgeUnavailable(err.Error())
	}
}
