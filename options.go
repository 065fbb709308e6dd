package dbgbridge

import (
	"log/slog"
	"time"

	"github.com/nvail/dbgbridge/internal/bridge"
	"github.com/nvail/dbgbridge/internal/registry"
)

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger        *slog.Logger
	transport     bridge.Transport
	bridgeTimeout time.Duration
	extraTools    []*registry.Registration
}

func applyOptions(opts []Option) *serverOptions {
	options := &serverOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger used by the server and every component it
// creates. Without it the server is silent.
func WithLogger(log *slog.Logger) Option {
	return func(o *serverOptions) {
		o.logger = log
	}
}

// WithBridgeTransport connects the server to a mediator process over the
// given transport. Without a transport the server answers local operations
// only and reports remote ones as unavailable.
func WithBridgeTransport(t bridge.Transport) Option {
	return func(o *serverOptions) {
		o.transport = t
	}
}

// WithBridgeCommand is a convenience for WithBridgeTransport with a
// subprocess transport spawning the given command.
func WithBridgeCommand(log *slog.Logger, command string, args ...string) Option {
	return func(o *serverOptions) {
		o.transport = bridge.NewProcTransport(log, command, args...)
	}
}

// WithBridgeTimeout sets the per-request timeout for mediator calls.
// Zero or negative means the default.
func WithBridgeTimeout(d time.Duration) Option {
	return func(o *serverOptions) {
		o.bridgeTimeout = d
	}
}

// WithTools registers additional tools alongside the default set.
func WithTools(regs ...*registry.Registration) Option {
	return func(o *serverOptions) {
		o.extraTools = append(o.extraTools, regs...)
	}
}
