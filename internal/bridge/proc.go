package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/nvail/dbgbridge/internal/mcperr"
)

// maxScanTokenSize is the maximum buffer size for reading mediator output lines.
const maxScanTokenSize = 1024 * 1024 // 1MB

// ProcTransport implements Transport by spawning the mediator process and
// framing line-delimited JSON over its stdio.
type ProcTransport struct {
	log         *slog.Logger
	command     string
	args        []string
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	stderr      io.ReadCloser
	mu          sync.Mutex // protects stdin writes and lifecycle flags
	closing     bool
	stdinClosed bool
}

// Compile-time verification that ProcTransport implements Transport.
var _ Transport = (*ProcTransport)(nil)

// NewProcTransport creates a transport that will spawn command with args.
func NewProcTransport(log *slog.Logger, command string, args ...string) *ProcTransport {
	return &ProcTransport{
		log:     log.With("component", "bridge_transport"),
		command: command,
		args:    args,
	}
}

// Start spawns the mediator process and wires up its pipes.
func (t *ProcTransport) Start(ctx context.Context) error {
	t.log.Info("Starting mediator process", "command", t.command)

	//nolint:gosec // G204: the mediator command comes from operator configuration
	cmd := exec.CommandContext(ctx, t.command, t.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &mcperr.ConnectionError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	t.stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &mcperr.ConnectionError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	t.stdout = stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &mcperr.ConnectionError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	t.stderr = stderr

	if err := cmd.Start(); err != nil {
		return &mcperr.ConnectionError{Err: fmt.Errorf("start process: %w", err)}
	}

	t.cmd = cmd
	t.log.Info("Mediator process started", "pid", cmd.Process.Pid)

	return nil
}

// ReadMessages reads line-delimited JSON messages from the mediator stdout.
// A line that fails to parse is reported on the error channel but does not
// stop message processing. Both channels close when reading ends.
func (t *ProcTransport) ReadMessages(ctx context.Context) (<-chan *Message, <-chan error) {
	messages := make(chan *Message)
	errs := make(chan error, 1)

	// Drain stderr so the mediator never blocks on a full pipe; lines are
	// surfaced in our own log.
	var stderrWg sync.WaitGroup

	stderrWg.Go(func() {
		scanner := bufio.NewScanner(t.stderr)
		for scanner.Scan() {
			t.log.Debug("Mediator stderr", "line", scanner.Text())
		}
	})

	go func() {
		defer close(messages)
		defer close(errs)
		defer t.log.Debug("ReadMessages goroutine stopped")

		scanner := bufio.NewScanner(t.stdout)
		buf := make([]byte, maxScanTokenSize)
		scanner.Buffer(buf, maxScanTokenSize)

		for scanner.Scan() {
			select {
			case <-ctx.Done():
				errs <- ctx.Err()

				return
			default:
			}

			line := scanner.Bytes()

			var msg Message
			if err := json.Unmarshal(line, &msg); err != nil {
				t.log.Warn("Dropping unparseable mediator line", "error", err, "line", string(line))

				continue
			}

			select {
			case messages <- &msg:
			case <-ctx.Done():
				errs <- ctx.Err()

				return
			}
		}

		if err := scanner.Err(); err != nil {
			t.log.Error("Scanner error while reading mediator output", "error", err)

			errs <- fmt.Errorf("scanner error: %w", err)
		}

		stderrWg.Wait()

		if err := t.cmd.Wait(); err != nil {
			t.mu.Lock()
			isClosing := t.closing
			t.mu.Unlock()

			if isClosing {
				t.log.Debug("Mediator process terminated during shutdown")

				return
			}

			exitCode := 0
			if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
				exitCode = exitErr.ExitCode()
			}

			t.log.Error("Mediator process exited with error", "exit_code", exitCode)

			errs <- &mcperr.ProcessError{ExitCode: exitCode, Err: err}
		} else {
			t.log.Info("Mediator process exited")
		}
	}()

	return messages, errs
}

// SendMessage writes one frame to the mediator stdin. Writes are serialized
// so concurrent callers never interleave partial frames.
func (t *ProcTransport) SendMessage(ctx context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stdin == nil {
		return mcperr.ErrTransportNotConnected
	}

	if t.stdinClosed {
		return mcperr.ErrStdinClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Ensure the frame ends with a newline without mutating the caller's
	// backing array.
	if len(data) == 0 || data[len(data)-1] != '\n' {
		framed := make([]byte, len(data)+1)
		copy(framed, data)
		framed[len(data)] = '\n'
		data = framed
	}

	// Write in a goroutine so a blocked pipe respects context cancellation.
	done := make(chan error, 1)

	go func() {
		_, err := t.stdin.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("write to stdin: %w", err)
		}

		return nil

	case <-ctx.Done():
		t.log.Debug("Context cancelled during write, closing stdin")

		_ = t.stdin.Close()
		t.stdinClosed = true

		select {
		case <-done:
		case <-time.After(1 * time.Second):
			t.log.Warn("Write goroutine did not exit after stdin close")
		}

		return ctx.Err()
	}
}

// Close terminates the mediator process. Safe to call multiple times.
func (t *ProcTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closing = true
	t.stdinClosed = true

	if t.cmd != nil && t.cmd.Process != nil {
		t.log.Debug("Killing mediator process", "pid", t.cmd.Process.Pid)

		if err := t.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("kill mediator process (pid %d): %w", t.cmd.Process.Pid, err)
		}
	}

	return nil
}
