package tools

import (
	"context"
	"time"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
)

// StatusRequest reports the debugger's current state.
type StatusRequest struct{}

// HealthRequest is the reserved built-in liveness probe.
type HealthRequest struct{}

// ListToolsRequest enumerates the registered method surface.
type ListToolsRequest struct{}

func (d *Deps) statusTool() *registry.Registration {
	return registry.New("getStatus", "Get the current debugger status",
		registry.SimpleSchema(nil),
		func(ctx context.Context, req *StatusRequest) (*registry.Result, *mcperr.CallError) {
			// Without a mediator the locally tracked snapshot is all there is.
			if d.Bridge == nil {
				return registry.OK(d.Session.Status()), nil
			}

			return d.forward(ctx, "getStatus", req)
		},
		registry.WithTags("status"),
	)
}

func (d *Deps) healthTool() *registry.Registration {
	return registry.New("health", "Liveness probe for the relay itself",
		registry.SimpleSchema(nil),
		func(_ context.Context, _ *HealthRequest) (*registry.Result, *mcperr.CallError) {
			return registry.OK(map[string]any{
				"status":        "ok",
				"uptimeSeconds": int(time.Since(d.StartedAt).Seconds()),
				"bridge":        d.Bridge != nil,
			}), nil
		},
		registry.WithTags("builtin"),
	)
}

func (d *Deps) listToolsTool() *registry.Registration {
	return registry.New("listTools", "List the registered tools and their input schemas",
		registry.SimpleSchema(nil),
		func(_ context.Context, _ *ListToolsRequest) (*registry.Result, *mcperr.CallError) {
			return registry.OK(map[string]any{"tools": d.Registry.Tools()}), nil
		},
		registry.WithTags("builtin"),
	)
}
