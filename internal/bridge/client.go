package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nvail/dbgbridge/internal/mcperr"
)

// defaultCallTimeout bounds how long a caller waits for a mediator reply
// when no explicit timeout is configured.
const defaultCallTimeout = 5 * time.Second

// Transport is the minimal duplex-stream interface the client needs. The
// production implementation is ProcTransport, which spawns the mediator
// subprocess; tests inject mocks.
type Transport interface {
	// Start prepares the transport for communication.
	Start(ctx context.Context) error

	// ReadMessages returns channels yielding inbound messages and transport
	// errors. Both are closed when reading stops.
	ReadMessages(ctx context.Context) (<-chan *Message, <-chan error)

	// SendMessage writes one complete frame. Must be safe for concurrent use.
	SendMessage(ctx context.Context, data []byte) error

	// Close tears the transport down. Safe to call multiple times.
	Close() error
}

// EventHandler receives fire-and-forget event messages from the mediator.
// Events carry no correlation id semantics and never touch the pending table.
type EventHandler func(method string, data json.RawMessage)

// pendingCall tracks one outgoing request awaiting its reply. It is owned
// exclusively by the Client and destroyed on matching reply or timeout,
// whichever comes first.
type pendingCall struct {
	method string
	reply  chan *Message
}

// Client is the correlation layer over the mediator stream. Each logical call
// moves Created -> AwaitingReply -> Completed|TimedOut; there is no retry
// loop here, callers decide whether to retry.
type Client struct {
	log       *slog.Logger
	transport Transport
	timeout   time.Duration

	pendingMu sync.Mutex
	pending   map[string]*pendingCall

	eventMu sync.RWMutex
	onEvent EventHandler

	errMu    sync.RWMutex
	fatalErr error

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewClient creates a Client over the given transport. A non-positive
// timeout selects the default.
func NewClient(log *slog.Logger, transport Transport, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &Client{
		log:       log.With("component", "bridge"),
		transport: transport,
		timeout:   timeout,
		pending:   make(map[string]*pendingCall, 10),
		done:      make(chan struct{}),
	}
}

// OnEvent registers the subscriber for mediator event messages. Must be set
// before Start; only one subscriber is supported.
func (c *Client) OnEvent(handler EventHandler) {
	c.eventMu.Lock()
	defer c.eventMu.Unlock()

	c.onEvent = handler
}

// Start connects the transport and begins routing inbound messages.
func (c *Client) Start(ctx context.Context) error {
	c.log.Debug("Starting bridge client")

	if err := c.transport.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	messages, errs := c.transport.ReadMessages(ctx)

	c.wg.Add(1)

	go c.readLoop(ctx, messages, errs)

	c.log.Info("Bridge client started", "timeout", c.timeout)

	return nil
}

// Stop shuts the client down and waits for the read loop. Safe to call
// multiple times.
func (c *Client) Stop() {
	c.log.Debug("Stopping bridge client")

	c.closeDone()

	if err := c.transport.Close(); err != nil {
		c.log.Debug("Transport close reported error", "error", err)
	}

	c.wg.Wait()
	c.log.Info("Bridge client stopped")
}

// Done returns a channel closed when the client stops or the transport fails.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// FatalError returns the transport error that stopped the client, if any.
func (c *Client) FatalError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

func (c *Client) closeDone() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// setFatalError stores the first fatal error and broadcasts via done. Every
// outstanding call unblocks with a connection-lost error instead of waiting
// out its timeout.
func (c *Client) setFatalError(err error) {
	c.errMu.Lock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}

	c.errMu.Unlock()

	c.closeDone()
}

// Call sends one request to the mediator and blocks until the matching
// response arrives, the timeout elapses, the connection is lost, or ctx is
// cancelled. The returned bytes are the response's data payload.
func (c *Client) Call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	var data json.RawMessage

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}

		data = encoded
	}

	// UUIDs are never reused, so a late reply for a timed-out id can never
	// be misrouted to a newer call.
	id := uuid.NewString()

	c.log.Debug("Sending bridge request", "id", id, "method", method)

	pending := &pendingCall{
		method: method,
		reply:  make(chan *Message, 1),
	}

	c.pendingMu.Lock()
	c.pending[id] = pending
	c.pendingMu.Unlock()

	frame, err := json.Marshal(newRequest(id, method, data))
	if err != nil {
		c.removePending(id)

		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if err := c.transport.SendMessage(ctx, frame); err != nil {
		c.removePending(id)
		c.log.Error("Failed to send bridge request", "id", id, "error", err)

		return nil, fmt.Errorf("send request: %w", err)
	}

	select {
	case resp := <-pending.reply:
		if resp.IsError() {
			c.log.Warn("Bridge request failed", "id", id, "method", method, "error", resp.Error)

			return nil, &mcperr.BridgeError{Method: method, Message: resp.Error}
		}

		c.log.Debug("Bridge request completed", "id", id, "method", method)

		return resp.Data, nil

	case <-time.After(c.timeout):
		c.removePending(id)
		c.log.Warn("Bridge request timed out", "id", id, "method", method, "timeout", c.timeout)

		return nil, fmt.Errorf("%w after %s", mcperr.ErrRequestTimeout, c.timeout)

	case <-c.done:
		c.removePending(id)

		if err := c.FatalError(); err != nil {
			c.log.Warn("Transport failed during bridge request", "id", id, "error", err)

			return nil, fmt.Errorf("%w: %w", mcperr.ErrBridgeClosed, err)
		}

		return nil, mcperr.ErrBridgeClosed

	case <-ctx.Done():
		c.removePending(id)

		return nil, ctx.Err()
	}
}

func (c *Client) removePending(id string) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

// readLoop routes inbound messages until the transport closes or the client
// stops. Only this goroutine reads the stream, so one caller's partial read
// can never corrupt another's.
func (c *Client) readLoop(ctx context.Context, messages <-chan *Message, errs <-chan error) {
	defer c.wg.Done()
	defer c.closeDone()
	defer c.log.Debug("Bridge read loop stopped")

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				c.log.Debug("Bridge message channel closed")
				c.setFatalError(mcperr.ErrBridgeClosed)

				return
			}

			c.handleMessage(msg)

		case err, ok := <-errs:
			if !ok {
				c.log.Debug("Bridge error channel closed")

				return
			}

			if err != nil {
				c.log.Debug("Bridge transport error", "error", err)
				c.setFatalError(err)

				return
			}

		case <-c.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case TypeResponse:
		c.handleResponse(msg)

	case TypeEvent:
		c.handleEvent(msg)

	default:
		c.log.Warn("Dropping bridge message with unknown type", "type", msg.Type, "id", msg.ID)
	}
}

// handleResponse claims the pending call atomically and delivers the reply.
// A response with no matching pending call (already timed out, or spurious)
// is logged and dropped; it is never misrouted to a different caller.
func (c *Client) handleResponse(msg *Message) {
	c.pendingMu.Lock()

	pending, exists := c.pending[msg.ID]
	if exists {
		delete(c.pending, msg.ID)
	}

	c.pendingMu.Unlock()

	if !exists {
		c.log.Warn("Dropping bridge response with no pending request", "id", msg.ID)

		return
	}

	// The channel is buffered and we own the entry now, so this never blocks.
	pending.reply <- msg
}

func (c *Client) handleEvent(msg *Message) {
	c.eventMu.RLock()
	handler := c.onEvent
	c.eventMu.RUnlock()

	if handler == nil {
		c.log.Debug("Dropping bridge event with no subscriber", "method", msg.Method)

		return
	}

	c.log.Debug("Dispatching bridge event", "method", msg.Method)
	handler(msg.Method, msg.Data)
}
