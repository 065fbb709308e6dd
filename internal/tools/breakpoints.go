package tools

import (
	"context"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
)

// SetBreakpointRequest registers a breakpoint at a source location.
type SetBreakpointRequest struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	Column       int    `json:"column,omitempty"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
}

// RemoveBreakpointRequest deletes a breakpoint by id.
type RemoveBreakpointRequest struct {
	ID string `json:"id"`
}

// ListBreakpointsRequest enumerates the current breakpoints.
type ListBreakpointsRequest struct{}

func (d *Deps) setBreakpointTool() *registry.Registration {
	return registry.New("setBreakpoint", "Set a breakpoint at a source location",
		registry.RequiredSchema(map[string]string{
			"file":         "string",
			"line":         "int",
			"column":       "int",
			"condition":    "string",
			"hitCondition": "string",
		}, "file", "line"),
		func(ctx context.Context, req *SetBreakpointRequest) (*registry.Result, *mcperr.CallError) {
			if req.File == "" {
				return nil, mcperr.InvalidRequest("setBreakpoint requires a file")
			}

			if req.Line < 1 {
				return nil, mcperr.InvalidRequest("setBreakpoint requires a line >= 1")
			}

			if req.Column < 0 {
				return nil, mcperr.InvalidRequest("setBreakpoint column must be >= 0")
			}

			// The store degrades gracefully: remote registration is
			// best-effort and the local breakpoint is authoritative.
			bp := d.Session.SetBreakpoint(ctx, req.File, req.Line, req.Column, req.Condition, req.HitCondition)

			return registry.OK(bp), nil
		},
		registry.WithTags("breakpoints"),
	)
}

func (d *Deps) removeBreakpointTool() *registry.Registration {
	return registry.New("removeBreakpoint", "Remove a breakpoint by id",
		registry.RequiredSchema(map[string]string{"id": "string"}, "id"),
		func(ctx context.Context, req *RemoveBreakpointRequest) (*registry.Result, *mcperr.CallError) {
			if req.ID == "" {
				return nil, mcperr.InvalidRequest("removeBreakpoint requires an id")
			}

			if !d.Session.RemoveBreakpoint(ctx, req.ID) {
				return nil, mcperr.BreakpointNotFound(req.ID)
			}

			return registry.OKMessage(nil, "breakpoint removed"), nil
		},
		registry.WithTags("breakpoints"),
	)
}

func (d *Deps) listBreakpointsTool() *registry.Registration {
	return registry.New("listBreakpoints", "List all current breakpoints",
		registry.SimpleSchema(nil),
		func(_ context.Context, _ *ListBreakpointsRequest) (*registry.Result, *mcperr.CallError) {
			return registry.OK(map[string]any{"breakpoints": d.Session.ListBreakpoints()}), nil
		},
		registry.WithTags("breakpoints"),
	)
}
