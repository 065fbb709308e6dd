// Package dbgbridge relays debug-operation requests between a line-delimited
// client stream and a debug adapter mediator process.
//
// Each request line is a JSON object carrying a method name and parameters,
// in either the legacy raw shape or a JSON-RPC 2.0 envelope. The server
// answers every line with exactly one response line, shaped to match the
// request. Debugger operations (stepping, stack inspection, evaluation) are
// forwarded to the mediator over a stdio bridge with per-request correlation
// and timeouts; breakpoints and session state are tracked locally so the
// server stays useful when the mediator is absent.
//
// # Basic Usage
//
//	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
//
//	server, err := dbgbridge.New(
//	    dbgbridge.WithLogger(log),
//	    dbgbridge.WithBridgeCommand(log, "dbg-mediator"),
//	    dbgbridge.WithBridgeTimeout(5*time.Second),
//	)
//	if err != nil {
//	    log.Error("Setup failed", "error", err)
//	    os.Exit(1)
//	}
//
//	if err := server.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Error("Server failed", "error", err)
//	    os.Exit(1)
//	}
//
// For embedding, HandleLine processes a single request line:
//
//	response := server.HandleLine(ctx, []byte(`{"method":"health"}`))
//
// Custom tools register through WithTools using the registry package.
package dbgbridge
