// Package registry holds the set of registered tool handlers keyed by method
// name. The registry is append-only after startup: all registrations happen
// during process bring-up, and a duplicate method name is a fatal
// configuration error rather than a runtime fault.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvail/dbgbridge/internal/mcperr"
)

// Result is the successful outcome of a tool call. Data holds the handler's
// payload as the handler produced it; the envelope layer serializes it by its
// runtime type so subtype-specific fields survive encoding.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK creates a successful Result carrying the given payload.
func OK(data any) *Result {
	return &Result{Success: true, Data: data}
}

// OKMessage creates a successful Result with a payload and a message.
func OKMessage(data any, message string) *Result {
	return &Result{Success: true, Data: data, Message: message}
}

// Handler executes one tool call. The request has already been materialized
// into the registration's declared type. Handlers must be safe for concurrent
// invocation: the registry makes no guarantee about instancing.
type Handler func(ctx context.Context, req any) (*Result, *mcperr.CallError)

// Registration binds a method name to its typed decode step and handler.
// Each registration carries its own decoder so dispatch never needs runtime
// type switches or unchecked casts.
type Registration struct {
	Method  string
	Decode  func(data []byte) (any, error)
	Handler Handler
	Tags    []string
	Tool    *mcp.Tool
}

// Option configures a Registration during construction.
type Option func(*Registration)

// WithTags attaches classification tags to a registration.
func WithTags(tags ...string) Option {
	return func(r *Registration) {
		r.Tags = append(r.Tags, tags...)
	}
}

// New builds a Registration whose handler receives a *T decoded from the raw
// request parameters. The mcp.Tool descriptor is built from the method name,
// description, and input schema, and is what listTools reports to clients.
func New[T any](
	method, description string,
	schema *jsonschema.Schema,
	fn func(ctx context.Context, req *T) (*Result, *mcperr.CallError),
	opts ...Option,
) *Registration {
	reg := &Registration{
		Method: method,
		Tool: &mcp.Tool{
			Name:        method,
			Description: description,
			InputSchema: schema,
		},
		Decode: func(data []byte) (any, error) {
			req := new(T)
			if len(data) > 0 {
				if err := json.Unmarshal(data, req); err != nil {
					return nil, err
				}
			}

			return req, nil
		},
		Handler: func(ctx context.Context, req any) (*Result, *mcperr.CallError) {
			typed, ok := req.(*T)
			if !ok {
				return nil, mcperr.Internal(fmt.Sprintf("request type mismatch for %s: got %T", method, req))
			}

			return fn(ctx, typed)
		},
	}

	for _, opt := range opts {
		opt(reg)
	}

	return reg
}

// Registry is the method-to-handler table. Reads vastly outnumber writes:
// registration happens once at startup, lookups happen per request.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Registration, 16),
	}
}

// Register adds a registration. It fails with ErrDuplicateMethod if the
// method name is already taken; callers must treat that as fatal at startup.
func (r *Registry) Register(reg *Registration) error {
	if reg.Method == "" {
		return fmt.Errorf("registration has empty method name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[reg.Method]; exists {
		return fmt.Errorf("%w: %s", mcperr.ErrDuplicateMethod, reg.Method)
	}

	r.tools[reg.Method] = reg

	return nil
}

// RegisterAll registers every given registration, stopping at the first failure.
func (r *Registry) RegisterAll(regs ...*Registration) error {
	for _, reg := range regs {
		if err := r.Register(reg); err != nil {
			return err
		}
	}

	return nil
}

// Lookup returns the registration for a method. Absence is not an error;
// the router turns a miss into a method-not-found CallError.
func (r *Registry) Lookup(method string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.tools[method]

	return reg, ok
}

// Methods returns all registered method names, sorted.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.tools))
	for method := range r.tools {
		methods = append(methods, method)
	}

	sort.Strings(methods)

	return methods
}

// Tools returns the mcp.Tool descriptors for all registrations, ordered by
// method name.
func (r *Registry) Tools() []*mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.tools))
	for method := range r.tools {
		methods = append(methods, method)
	}

	sort.Strings(methods)

	tools := make([]*mcp.Tool, 0, len(methods))
	for _, method := range methods {
		if tool := r.tools[method].Tool; tool != nil {
			tools = append(tools, tool)
		}
	}

	return tools
}
