/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package dimgraph

import (
	"sync"

	"github.com/dimgraph/dimgraph/errors"
	"github.com/dimgraph/dimgraph/props"
)

const attrKeySep = "\x00"

// Registry is the process-scoped multi-index over every entity in every
// dimension. It is an explicitly constructed context object, not package
// state: each composition root (and each test) builds its own with New.
//
// All index mutations happen under a single writer lock, so no reader can
// observe a half-updated index. Entities are held by id (arena style);
// parent, child, and space references are stored as ids and resolved
// through the registry on access.
type Registry struct {
	mu       sync.RWMutex
	byID     map[string]*Entity
	byName   map[string][]string
	byKind   map[string][]string
	byAttr   map[string][]string
	dims     map[string]*Dimension
	dimOrder []string
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.byID = make(map[string]*Entity)
	r.byName = make(map[string][]string)
	r.byKind = make(map[string][]string)
	r.byAttr = make(map[string][]string)
	r.dims = make(map[string]*Dimension)
	r.dimOrder = nil
}

// NewDimension creates a dimension owned by this registry. Dimension names
// are not unique; two dimensions may share a name and ByDimension then
// returns entities from both.
func (r *Registry) NewDimension(name string, width, height float64) *Dimension {
	d := &Dimension{
		id:     newID(),
		name:   name,
		width:  width,
		height: height,
		reg:    r,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dims[d.id] = d
	r.dimOrder = append(r.dimOrder, d.id)
	return d
}

// register inserts an entity into every index. The caller supplies a fully
// built entity; registration is first-registrant-wins, a second entity with
// the same id is rejected.
func (r *Registry) register(e *Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.id]; exists {
		return errors.NewDuplicateIDError("entity", e.id)
	}
	r.byID[e.id] = e
	r.byName[e.name] = append(r.byName[e.name], e.id)
	r.byKind[e.kind] = append(r.byKind[e.kind], e.id)
	for k, v := range e.props {
		r.indexAttr(e.id, k, v)
	}
	if d, ok := r.dims[e.spaceID]; ok {
		d.entityIDs = append(d.entityIDs, e.id)
	}
	return nil
}

// Remove drops the entity from every index, detaches it from its parent,
// and orphans its children. Children stay registered; only the parent link
// is cleared.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
}

func (r *Registry) removeLocked(id string) {
	e, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	r.byName[e.name] = removeID(r.byName[e.name], id)
	r.byKind[e.kind] = removeID(r.byKind[e.kind], id)
	for k, v := range e.props {
		r.unindexAttr(id, k, v)
	}
	if d, ok := r.dims[e.spaceID]; ok {
		d.entityIDs = removeID(d.entityIDs, id)
	}
	if p, ok := r.byID[e.parentID]; ok {
		p.childIDs = removeID(p.childIDs, id)
	}
	for _, cid := range e.childIDs {
		if c, ok := r.byID[cid]; ok {
			c.parentID = ""
		}
	}
}

func (r *Registry) indexAttr(id, attr string, v props.Value) {
	key, ok := v.IndexKey()
	if !ok {
		return
	}
	bucket := attr + attrKeySep + key
	r.byAttr[bucket] = append(r.byAttr[bucket], id)
}

func (r *Registry) unindexAttr(id, attr string, v props.Value) {
	key, ok := v.IndexKey()
	if !ok {
		return
	}
	bucket := attr + attrKeySep + key
	r.byAttr[bucket] = removeID(r.byAttr[bucket], id)
	if len(r.byAttr[bucket]) == 0 {
		delete(r.byAttr, bucket)
	}
}

// ByID returns the entity registered under id, or nil.
func (r *Registry) ByID(id string) *Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// ByName returns every entity with the given name, in registration order.
func (r *Registry) ByName(name string) []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.byName[name])
}

// ByKind returns every entity with the given kind, in registration order.
func (r *Registry) ByKind(kind string) []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.byKind[kind])
}

// ByAttribute returns every entity whose props carry attr with the given
// value. Map- and list-valued attributes are not indexed.
func (r *Registry) ByAttribute(attr string, value props.Value) []*Entity {
	key, ok := value.IndexKey()
	if !ok {
		return []*Entity{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.byAttr[attr+attrKeySep+key])
}

// ByDimension returns every entity owned by any dimension with the given
// name.
func (r *Registry) ByDimension(name string) []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Entity
	for _, did := range r.dimOrder {
		d := r.dims[did]
		if d.name != name {
			continue
		}
		out = append(out, r.resolve(d.entityIDs)...)
	}
	if out == nil {
		out = []*Entity{}
	}
	return out
}

// All returns every registered entity, in registration order per dimension
// followed by entities without a dimension.
func (r *Registry) All() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool, len(r.byID))
	out := make([]*Entity, 0, len(r.byID))
	for _, did := range r.dimOrder {
		for _, eid := range r.dims[did].entityIDs {
			if e, ok := r.byID[eid]; ok && !seen[eid] {
				seen[eid] = true
				out = append(out, e)
			}
		}
	}
	for id, e := range r.byID {
		if !seen[id] {
			out = append(out, e)
		}
	}
	return out
}

// Criteria selects entities by the logical AND of its non-zero fields.
type Criteria struct {
	Name      string
	Kind      string
	Dimension string
	Attrs     props.Map
}

func (c Criteria) empty() bool {
	return c.Name == "" && c.Kind == "" && c.Dimension == "" && len(c.Attrs) == 0
}

// Find returns the entities satisfying every supplied criterion. Empty
// criteria match nothing; use All to enumerate the registry. Lookup by bare
// id is ByID.
func (r *Registry) Find(c Criteria) []*Entity {
	if c.empty() {
		return []*Entity{}
	}

	candidates := r.findCandidates(c)
	out := make([]*Entity, 0, len(candidates))
	for _, e := range candidates {
		if r.matches(e, c) {
			out = append(out, e)
		}
	}
	return out
}

// findCandidates picks the narrowest single index for the first criterion
// present; matches then filters by the rest. Composite attribute values are
// not indexed, so only indexable attrs can narrow; criteria made solely of
// composites scan the whole registry and rely on matches.
func (r *Registry) findCandidates(c Criteria) []*Entity {
	switch {
	case c.Name != "":
		return r.ByName(c.Name)
	case c.Kind != "":
		return r.ByKind(c.Kind)
	case c.Dimension != "":
		return r.ByDimension(c.Dimension)
	default:
		for k, v := range c.Attrs {
			if _, ok := v.IndexKey(); !ok {
				continue
			}
			return r.ByAttribute(k, v)
		}
		return r.All()
	}
}

func (r *Registry) matches(e *Entity, c Criteria) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c.Name != "" && e.name != c.Name {
		return false
	}
	if c.Kind != "" && e.kind != c.Kind {
		return false
	}
	if c.Dimension != "" {
		d, ok := r.dims[e.spaceID]
		if !ok || d.name != c.Dimension {
			return false
		}
	}
	for k, want := range c.Attrs {
		got, ok := e.props[k]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Clear wipes every index and dimension table. Used for test isolation and
// teardown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *Registry) resolve(ids []string) []*Entity {
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.byID[id]; ok {
			out = append(out, e)
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
