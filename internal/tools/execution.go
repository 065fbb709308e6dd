package tools

import (
	"context"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
)

// ContinueRequest resumes execution. A zero ThreadID means all threads.
type ContinueRequest struct {
	ThreadID int `json:"threadId,omitempty"`
}

// PauseRequest suspends execution.
type PauseRequest struct {
	ThreadID int `json:"threadId,omitempty"`
}

// Step kinds accepted by StepRequest.
const (
	StepOver = "over"
	StepInto = "into"
	StepOut  = "out"
)

// StepRequest executes one step of the given kind on a thread.
type StepRequest struct {
	ThreadID int    `json:"threadId,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

func (d *Deps) continueTool() *registry.Registration {
	return registry.New("continue", "Resume execution",
		registry.SimpleSchema(map[string]string{"threadId": "int"}),
		func(ctx context.Context, req *ContinueRequest) (*registry.Result, *mcperr.CallError) {
			return d.forward(ctx, "continue", req)
		},
		registry.WithTags("execution"),
	)
}

func (d *Deps) pauseTool() *registry.Registration {
	return registry.New("pause", "Pause execution",
		registry.SimpleSchema(map[string]string{"threadId": "int"}),
		func(ctx context.Context, req *PauseRequest) (*registry.Result, *mcperr.CallError) {
			return d.forward(ctx, "pause", req)
		},
		registry.WithTags("execution"),
	)
}

func (d *Deps) stepTool() *registry.Registration {
	return registry.New("step", "Step over, into, or out of the current statement",
		registry.SimpleSchema(map[string]string{"threadId": "int", "kind": "string"}),
		func(ctx context.Context, req *StepRequest) (*registry.Result, *mcperr.CallError) {
			switch req.Kind {
			case "", StepOver, StepInto, StepOut:
			default:
				return nil, mcperr.InvalidRequest("step kind must be one of: over, into, out")
			}

			if req.Kind == "" {
				req.Kind = StepOver
			}

			return d.forward(ctx, "step", req)
		},
		registry.WithTags("execution"),
	)
}
