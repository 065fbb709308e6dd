// Package router dispatches decoded calls to registered tool handlers. It
// performs no I/O of its own: it is pure orchestration over the registry and
// a handler invocation.
package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
	"github.com/nvail/dbgbridge/internal/rpc"
)

// Router resolves a call's method against the registry, materializes the
// typed request, and invokes the handler.
type Router struct {
	log      *slog.Logger
	registry *registry.Registry
}

// NewRouter creates a Router over the given registry.
func NewRouter(log *slog.Logger, reg *registry.Registry) *Router {
	return &Router{
		log:      log.With("component", "router"),
		registry: reg,
	}
}

// Route dispatches one call. It returns exactly one of a Result or a
// CallError. Handler panics are caught and converted to an internal error;
// they never propagate to the transport layer.
func (r *Router) Route(ctx context.Context, call *rpc.Call) (result *registry.Result, callErr *mcperr.CallError) {
	if call.Method == "" {
		return nil, mcperr.InvalidRequest("Missing method field")
	}

	reg, ok := r.registry.Lookup(call.Method)
	if !ok {
		r.log.Debug("Method not registered", "method", call.Method)

		return nil, mcperr.MethodNotFound(fmt.Sprintf("Unknown method: %s", call.Method))
	}

	req, err := reg.Decode(call.RawParams)
	if err != nil {
		return nil, mcperr.InvalidRequest(fmt.Sprintf("Invalid parameters for %s: %v", call.Method, err))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Handler panicked", "method", call.Method, "panic", rec)

			result = nil
			callErr = mcperr.Internal(fmt.Sprintf("handler for %s failed: %v", call.Method, rec))
		}
	}()

	return reg.Handler(ctx, req)
}
