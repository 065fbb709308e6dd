package tools

import (
	"context"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
)

// AttachRequest asks the debugger to attach to a running process.
type AttachRequest struct {
	ProcessID int    `json:"processId,omitempty"`
	Host      string `json:"host,omitempty"`
	Port      int    `json:"port,omitempty"`
}

// LaunchRequest asks the debugger to launch a program under its control.
type LaunchRequest struct {
	Program     string   `json:"program"`
	Args        []string `json:"args,omitempty"`
	Cwd         string   `json:"cwd,omitempty"`
	StopOnEntry bool     `json:"stopOnEntry,omitempty"`
}

// DisconnectRequest detaches from the debuggee without killing it.
type DisconnectRequest struct{}

// TerminateRequest stops the debuggee and ends the session.
type TerminateRequest struct{}

func (d *Deps) attachTool() *registry.Registration {
	return registry.New("attach", "Attach the debugger to a running process",
		registry.SimpleSchema(map[string]string{
			"processId": "int",
			"host":      "string",
			"port":      "int",
		}),
		func(ctx context.Context, req *AttachRequest) (*registry.Result, *mcperr.CallError) {
			if req.ProcessID <= 0 && req.Port <= 0 {
				return nil, mcperr.InvalidRequest("attach requires a processId or a host/port")
			}

			return d.forward(ctx, "attach", req)
		},
		registry.WithTags("lifecycle"),
	)
}

func (d *Deps) launchTool() *registry.Registration {
	return registry.New("launch", "Launch a program under the debugger",
		registry.RequiredSchema(map[string]string{
			"program":     "string",
			"args":        "[]string",
			"cwd":         "string",
			"stopOnEntry": "bool",
		}, "program"),
		func(ctx context.Context, req *LaunchRequest) (*registry.Result, *mcperr.CallError) {
			if req.Program == "" {
				return nil, mcperr.InvalidRequest("launch requires a program")
			}

			return d.forward(ctx, "launch", req)
		},
		registry.WithTags("lifecycle"),
	)
}

func (d *Deps) disconnectTool() *registry.Registration {
	return registry.New("disconnect", "Disconnect from the debuggee, leaving it running",
		registry.SimpleSchema(nil),
		func(ctx context.Context, req *DisconnectRequest) (*registry.Result, *mcperr.CallError) {
			return d.forward(ctx, "disconnect", req)
		},
		registry.WithTags("lifecycle"),
	)
}

func (d *Deps) terminateTool() *registry.Registration {
	return registry.New("terminate", "Terminate the debuggee and end the session",
		registry.SimpleSchema(nil),
		func(ctx context.Context, req *TerminateRequest) (*registry.Result, *mcperr.CallError) {
			return d.forward(ctx, "terminate", req)
		},
		registry.WithTags("lifecycle"),
	)
}
