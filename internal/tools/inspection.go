package tools

import (
	"context"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
)

// StackTraceRequest fetches stack frames for a thread.
type StackTraceRequest struct {
	ThreadID   int `json:"threadId,omitempty"`
	StartFrame int `json:"startFrame,omitempty"`
	Levels     int `json:"levels,omitempty"`
}

// VariablesRequest fetches the children of a variables reference.
type VariablesRequest struct {
	VariablesReference int `json:"variablesReference"`
}

// EvaluateRequest evaluates an expression, optionally in a frame context.
type EvaluateRequest struct {
	Expression string `json:"expression"`
	FrameID    int    `json:"frameId,omitempty"`
	Context    string `json:"context,omitempty"`
}

func (d *Deps) stackTraceTool() *registry.Registration {
	return registry.New("getStackTrace", "Get the stack trace for a thread",
		registry.SimpleSchema(map[string]string{
			"threadId":   "int",
			"startFrame": "int",
			"levels":     "int",
		}),
		func(ctx context.Context, req *StackTraceRequest) (*registry.Result, *mcperr.CallError) {
			if req.ThreadID == 0 {
				req.ThreadID = d.Session.SelectedThread()
			}

			return d.forward(ctx, "getStackTrace", req)
		},
		registry.WithTags("inspection"),
	)
}

func (d *Deps) variablesTool() *registry.Registration {
	return registry.New("getVariables", "Get the variables for a scope or structured value",
		registry.RequiredSchema(map[string]string{"variablesReference": "int"}, "variablesReference"),
		func(ctx context.Context, req *VariablesRequest) (*registry.Result, *mcperr.CallError) {
			if req.VariablesReference <= 0 {
				return nil, mcperr.InvalidRequest("getVariables requires a variablesReference >= 1")
			}

			return d.forward(ctx, "getVariables", req)
		},
		registry.WithTags("inspection"),
	)
}

func (d *Deps) evaluateTool() *registry.Registration {
	return registry.New("evaluate", "Evaluate an expression in the current debug context",
		registry.RequiredSchema(map[string]string{
			"expression": "string",
			"frameId":    "int",
			"context":    "string",
		}, "expression"),
		func(ctx context.Context, req *EvaluateRequest) (*registry.Result, *mcperr.CallError) {
			if req.Expression == "" {
				return nil, mcperr.InvalidRequest("evaluate requires an expression")
			}

			return d.forward(ctx, "evaluate", req)
		},
		registry.WithTags("inspection"),
	)
}
