package functions

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/pkg/llmfactory"
	"github.com/effective-security/quickai/pkg/metricskey"
	"github.com/effective-security/quickai/tools"
)

// Registry holds the functions of all catalog tools.
type Registry struct {
	list   []*Function
	byName map[string]*Function
}

// NewRegistry returns the functions of the catalog.
func NewRegistry(factory llmfactory.Factory, opts ...Option) *Registry {
	r := &Registry{
		byName: make(map[string]*Function),
	}
	for _, t := range tools.All() {
		f := New(t, factory, opts...)
		r.list = append(r.list, f)
		r.byName[f.Name()] = f
	}
	return r
}

// Get returns the function by name.
func (r *Registry) Get(name string) (*Function, error) {
	if f, ok := r.byName[name]; ok {
		return f, nil
	}
	metricskey.StatsFunctionCallsNotFound.IncrCounter(1, name)
	return nil, errors.WithMessagef(tools.ErrNotFound, "function %q", name)
}

// List returns the functions in catalog order.
func (r *Registry) List() []*Function {
	return append([]*Function(nil), r.list...)
}

// Invoke runs the function in process, the body is sent as is when it is
// []byte, otherwise it is encoded as JSON.
func (r *Registry) Invoke(ctx context.Context, function string, body any) ([]byte, error) {
	f, err := r.Get(function)
	if err != nil {
		return nil, err
	}
	payload, ok := body.([]byte)
	if !ok {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to encode request")
		}
	}
	return f.Invoke(ctx, payload)
}
