package dbgbridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nvail/dbgbridge/internal/bridge"
	"github.com/nvail/dbgbridge/internal/registry"
	"github.com/nvail/dbgbridge/internal/router"
	"github.com/nvail/dbgbridge/internal/rpc"
	"github.com/nvail/dbgbridge/internal/session"
	"github.com/nvail/dbgbridge/internal/tools"
)

// maxLineSize is the maximum accepted request line length.
const maxLineSize = 1024 * 1024 // 1MB

// Server is the protocol relay: it reads line-delimited requests, dispatches
// them to registered tools, and forwards debugger operations to the mediator
// process over the bridge.
type Server struct {
	log        *slog.Logger
	registry   *registry.Registry
	translator *rpc.Translator
	bridge     *bridge.Client
	session    *session.Session
}

// New creates a Server with the default tool set registered. Additional tools
// supplied via WithTools are registered after the defaults; any duplicate
// method name fails construction, before the server accepts requests.
func New(opts ...Option) (*Server, error) {
	options := applyOptions(opts)

	log := options.logger
	if log == nil {
		log = NopLogger()
	}

	s := &Server{
		log:      log.With("component", "server"),
		registry: registry.NewRegistry(),
	}

	var bridgeClient *bridge.Client

	var caller tools.Caller

	if options.transport != nil {
		bridgeClient = bridge.NewClient(log, options.transport, options.bridgeTimeout)
		caller = bridgeClient
	}

	s.bridge = bridgeClient
	s.session = session.New(log, sessionCaller(bridgeClient))

	if bridgeClient != nil {
		bridgeClient.OnEvent(s.session.HandleBridgeEvent)
	}

	deps := &tools.Deps{
		Log:       log,
		Bridge:    caller,
		Session:   s.session,
		Registry:  s.registry,
		StartedAt: time.Now(),
	}

	if err := s.registry.RegisterAll(tools.Registrations(deps)...); err != nil {
		return nil, fmt.Errorf("register default tools: %w", err)
	}

	if err := s.registry.RegisterAll(options.extraTools...); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	route := router.NewRouter(log, s.registry)
	s.translator = rpc.NewTranslator(log, route.Route)

	return s, nil
}

// sessionCaller adapts a possibly-nil *bridge.Client to the session's caller
// interface without smuggling a typed nil into it.
func sessionCaller(client *bridge.Client) session.BridgeCaller {
	if client == nil {
		return nil
	}

	return client
}

// Session exposes the server's debug session, mainly for embedding and tests.
func (s *Server) Session() *session.Session {
	return s.session
}

// Methods returns the registered method names.
func (s *Server) Methods() []string {
	return s.registry.Methods()
}

// HandleLine processes one raw request line and returns the response line
// (without trailing newline). Every line yields exactly one response.
func (s *Server) HandleLine(ctx context.Context, line []byte) []byte {
	return s.translator.HandleLine(ctx, line)
}

// Run serves requests from r, writing one response line per request line to
// w, until r is exhausted or ctx is cancelled. Requests are handled
// concurrently; responses to independent calls may interleave out of request
// order, correlated by id. The bridge client, when configured, is started
// before serving and stopped on return.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.bridge != nil {
		if err := s.bridge.Start(ctx); err != nil {
			return fmt.Errorf("start bridge: %w", err)
		}

		defer s.bridge.Stop()
	}

	s.log.Info("Serving requests", "methods", len(s.registry.Methods()))

	group, ctx := errgroup.WithContext(ctx)

	var writeMu sync.Mutex

	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxLineSize)
	scanner.Buffer(buf, maxLineSize)

	var readErr error

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			readErr = ctx.Err()
		default:
		}

		if readErr != nil {
			break
		}

		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())

		if len(line) == 0 {
			continue
		}

		group.Go(func() error {
			response := s.HandleLine(ctx, line)

			writeMu.Lock()
			defer writeMu.Unlock()

			if _, err := w.Write(append(response, '\n')); err != nil {
				return fmt.Errorf("write response: %w", err)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if readErr != nil {
		return readErr
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}

	s.log.Info("Request stream ended")

	return nil
}
