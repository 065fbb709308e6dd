package tools

import (
	"context"

	"github.com/nvail/dbgbridge/internal/mcperr"
	"github.com/nvail/dbgbridge/internal/registry"
)

// ThreadsRequest lists the debuggee's threads.
type ThreadsRequest struct{}

// SelectThreadRequest changes the thread subsequent operations target.
type SelectThreadRequest struct {
	ThreadID int `json:"threadId"`
}

func (d *Deps) threadsTool() *registry.Registration {
	return registry.New("getThreads", "List the debuggee's threads",
		registry.SimpleSchema(nil),
		func(ctx context.Context, req *ThreadsRequest) (*registry.Result, *mcperr.CallError) {
			return d.forward(ctx, "getThreads", req)
		},
		registry.WithTags("threads"),
	)
}

func (d *Deps) selectThreadTool() *registry.Registration {
	return registry.New("selectThread", "Select the thread subsequent operations target",
		registry.RequiredSchema(map[string]string{"threadId": "int"}, "threadId"),
		func(ctx context.Context, req *SelectThreadRequest) (*registry.Result, *mcperr.CallError) {
			if req.ThreadID < 1 {
				return nil, mcperr.InvalidRequest("selectThread requires a threadId >= 1")
			}

			if d.Bridge != nil {
				if result, callErr := d.forward(ctx, "selectThread", req); callErr != nil {
					return result, callErr
				}
			}

			d.Session.SelectThread(req.ThreadID)

			return registry.OK(map[string]any{"threadId": req.ThreadID}), nil
		},
		registry.WithTags("threads"),
	)
}
