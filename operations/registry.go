/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package operations

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dimgraph/dimgraph/errors"
)

// Registry is a named-function catalog indexed by id, name, kind, and
// category, independent of the entity graph but sharing its indexing shape.
type Registry struct {
	mu         sync.RWMutex
	byID       map[string]*Operation
	byName     map[string][]string
	byKind     map[string][]string
	byCategory map[string][]string
	order      []string
}

// NewRegistry creates an empty operation registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

// NewWithBuiltins creates a registry pre-loaded with the built-in math,
// transform, and query operations.
func NewWithBuiltins() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

func (r *Registry) reset() {
	r.byID = make(map[string]*Operation)
	r.byName = make(map[string][]string)
	r.byKind = make(map[string][]string)
	r.byCategory = make(map[string][]string)
	r.order = nil
}

// Option configures an operation at registration time.
type Option func(*Operation)

// WithID sets an explicit operation id.
func WithID(id string) Option {
	return func(o *Operation) { o.id = id }
}

// WithKind sets the operation kind tag.
func WithKind(kind string) Option {
	return func(o *Operation) { o.kind = kind }
}

// WithCategory sets the operation category.
func WithCategory(category string) Option {
	return func(o *Operation) { o.category = category }
}

// WithDescription sets the operation description.
func WithDescription(desc string) Option {
	return func(o *Operation) { o.description = desc }
}

// Register adds an operation under the given name. It fails with a
// DuplicateIDError-backed error when an explicit id collides with a
// registered operation.
func (r *Registry) Register(name string, fn Fn, opts ...Option) (*Operation, error) {
	op := &Operation{
		name: name,
		fn:   fn,
		reg:  r,
	}
	for _, opt := range opts {
		opt(op)
	}
	if op.id == "" {
		op.id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[op.id]; exists {
		return nil, errors.NewDuplicateIDError("operation", op.id)
	}
	r.byID[op.id] = op
	r.byName[op.name] = append(r.byName[op.name], op.id)
	if op.kind != "" {
		r.byKind[op.kind] = append(r.byKind[op.kind], op.id)
	}
	if op.category != "" {
		r.byCategory[op.category] = append(r.byCategory[op.category], op.id)
	}
	r.order = append(r.order, op.id)
	return op, nil
}

// Get resolves an operation by name first, then by id. Nil when neither
// resolves.
func (r *Registry) Get(nameOrID string) *Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ids := r.byName[nameOrID]; len(ids) > 0 {
		return r.byID[ids[0]]
	}
	return r.byID[nameOrID]
}

// Has reports whether an operation resolves by name or id.
func (r *Registry) Has(nameOrID string) bool {
	return r.Get(nameOrID) != nil
}

// Call resolves an operation by name (id as fallback) and invokes it with
// the given arguments. Unknown operations fail with an
// OperationNotFoundError; errors from the body propagate unchanged.
func (r *Registry) Call(nameOrID string, args ...any) (any, error) {
	op := r.Get(nameOrID)
	if op == nil {
		return nil, errors.NewOperationNotFoundError(nameOrID)
	}
	return op.Invoke(args...)
}

// ByCategory returns the operations in a category, in registration order.
func (r *Registry) ByCategory(category string) []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.byCategory[category])
}

// ByKind returns the operations with a kind tag, in registration order.
func (r *Registry) ByKind(kind string) []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.byKind[kind])
}

// All returns every registered operation sorted by name for deterministic
// iteration.
func (r *Registry) All() []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.resolve(r.order)
	sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Clear drops every index.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

func (r *Registry) resolve(ids []string) []*Operation {
	out := make([]*Operation, 0, len(ids))
	for _, id := range ids {
		if op, ok := r.byID[id]; ok {
			out = append(out, op)
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
