// Package callctx carries per-invocation values, such as the request ID
// and the function name, through a context.Context.
package callctx

import (
	"context"
	"strconv"
	"sync"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

// CallContext is the context of one function invocation.
type CallContext interface {
	// RequestID returns the unique ID of the invocation.
	RequestID() string
	// Function returns the name of the invoked function.
	Function() string
	// GetMetadata retrieves metadata by key
	GetMetadata(key string) (value any, ok bool)
	// SetMetadata sets metadata by key
	SetMetadata(key string, value any)
}

type callContext struct {
	requestID string
	function  string
	metadata  sync.Map
}

func (c *callContext) RequestID() string {
	return c.requestID
}

func (c *callContext) Function() string {
	return c.function
}

func (c *callContext) GetMetadata(key string) (value any, ok bool) {
	return c.metadata.Load(key)
}

func (c *callContext) SetMetadata(key string, value any) {
	c.metadata.Store(key, value)
}

// New returns a CallContext, a new request ID is generated when empty.
func New(requestID, function string) CallContext {
	return &callContext{
		requestID: values.StringsCoalesce(requestID, NewRequestID()),
		function:  function,
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithCallContext returns a new context with CallContext value
func WithCallContext(ctx context.Context, callCtx CallContext) context.Context {
	return context.WithValue(ctx, keyContext, callCtx)
}

// Get retrieves the CallContext from the context
func Get(ctx context.Context) CallContext {
	if v, ok := ctx.Value(keyContext).(CallContext); ok {
		return v
	}
	return nil
}

// Ensure returns the context with a CallContext for the function,
// the existing one is kept.
func Ensure(ctx context.Context, function string) (context.Context, CallContext) {
	if v := Get(ctx); v != nil {
		return ctx, v
	}
	c := New("", function)
	return WithCallContext(ctx, c), c
}

// GetRequestID retrieves the request ID from the provided context.
// If the context does not contain a CallContext, it returns an empty string.
func GetRequestID(ctx context.Context) string {
	if v := Get(ctx); v != nil {
		return v.RequestID()
	}
	return ""
}

// NewRequestID generates a new request ID using the flake ID generator.
func NewRequestID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
