/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package dimgraph

import (
	"github.com/google/uuid"

	"github.com/dimgraph/dimgraph/props"
)

// Entity kinds. The kind is an open string tag; these are the shapes the
// dimension factories create.
const (
	KindRect     = "rectangle"
	KindCircle   = "circle"
	KindTriangle = "triangle"
	KindPolygon  = "polygon"
	KindText     = "text"
	KindPoint    = "point"
	KindLine     = "line"
	KindGroup    = "group"
)

// Entity is a uniquely identified node in the graph: a kind, coordinates,
// an open attribute bag, and parent/child links. Entities are owned by the
// registry; the parent and space fields are weak, navigational references
// stored as ids.
//
// Fields are unexported so that every mutation flows through a helper that
// keeps the registry indices and the parent/child invariant consistent.
type Entity struct {
	id       string
	name     string
	kind     string
	x, y     float64
	props    props.Map
	spaceID  string
	parentID string
	childIDs []string
	reg      *Registry
}

func newID() string { return uuid.NewString() }

// ID returns the unique id of the entity.
func (e *Entity) ID() string { return e.id }

// Name returns the entity name. Names are not unique; they are the logical
// grouping key.
func (e *Entity) Name() string {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return e.name
}

// Kind returns the entity kind tag.
func (e *Entity) Kind() string {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return e.kind
}

// Pos returns the entity coordinates.
func (e *Entity) Pos() (x, y float64) {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return e.x, e.y
}

// MoveTo updates the entity coordinates and returns the entity.
func (e *Entity) MoveTo(x, y float64) *Entity {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	e.x, e.y = x, y
	return e
}

// Prop returns a single attribute value; the zero Value when absent.
func (e *Entity) Prop(key string) props.Value {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return e.props[key]
}

// Props returns a copy of the attribute bag. Mutating the copy does not
// affect the entity; use SetProp / SetProps so the attribute index stays
// consistent.
func (e *Entity) Props() props.Map {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return e.props.Clone()
}

// SetProp sets one attribute and re-indexes it. The stale attribute bucket
// is dropped and the fresh one inserted in the same critical section.
func (e *Entity) SetProp(key string, v props.Value) *Entity {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	e.setPropLocked(key, v)
	return e
}

// SetProps merges a bag of attributes, re-indexing each changed key.
func (e *Entity) SetProps(bag props.Map) *Entity {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	for k, v := range bag {
		e.setPropLocked(k, v)
	}
	return e
}

func (e *Entity) setPropLocked(key string, v props.Value) {
	if old, ok := e.props[key]; ok {
		if old.Equal(v) {
			return
		}
		e.reg.unindexAttr(e.id, key, old)
	}
	e.props[key] = v
	e.reg.indexAttr(e.id, key, v)
}

// SetName renames the entity, moving it to the new name index bucket.
func (e *Entity) SetName(name string) *Entity {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	if name == e.name {
		return e
	}
	e.reg.byName[e.name] = removeID(e.reg.byName[e.name], e.id)
	e.name = name
	e.reg.byName[name] = append(e.reg.byName[name], e.id)
	return e
}

// SetKind retags the entity, moving it to the new kind index bucket.
func (e *Entity) SetKind(kind string) *Entity {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	if kind == e.kind {
		return e
	}
	e.reg.byKind[e.kind] = removeID(e.reg.byKind[e.kind], e.id)
	e.kind = kind
	e.reg.byKind[kind] = append(e.reg.byKind[kind], e.id)
	return e
}

// Space returns the owning dimension, or nil.
func (e *Entity) Space() *Dimension {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return e.reg.dims[e.spaceID]
}

// Parent returns the parent entity, or nil.
func (e *Entity) Parent() *Entity {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return e.reg.byID[e.parentID]
}

// Children returns the child entities in insertion order.
func (e *Entity) Children() []*Entity {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return e.reg.resolve(e.childIDs)
}

// AddChild links child under e. Adding an already linked child is a no-op;
// a child linked under another parent is moved. The invariant
// child.Parent() == e holds on return.
func (e *Entity) AddChild(child *Entity) *Entity {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()

	if child.parentID == e.id {
		return e
	}
	if old, ok := e.reg.byID[child.parentID]; ok {
		old.childIDs = removeID(old.childIDs, child.id)
	}
	child.parentID = e.id
	e.childIDs = append(e.childIDs, child.id)
	return e
}

// DrillDown returns the first child whose name matches, or the first child
// at all when no name is given. Nil when there is no match.
func (e *Entity) DrillDown(name ...string) *Entity {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()

	for _, cid := range e.childIDs {
		c, ok := e.reg.byID[cid]
		if !ok {
			continue
		}
		if len(name) == 0 || c.name == name[0] {
			return c
		}
	}
	return nil
}

// DrillUp returns the parent entity, or nil at the top of the graph.
func (e *Entity) DrillUp() *Entity {
	return e.Parent()
}

// DrillAcross returns the first sibling (another child of e's parent) with
// the given name, or nil when e has no parent or no sibling matches.
func (e *Entity) DrillAcross(name string) *Entity {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()

	p, ok := e.reg.byID[e.parentID]
	if !ok {
		return nil
	}
	for _, sid := range p.childIDs {
		if sid == e.id {
			continue
		}
		if s, ok := e.reg.byID[sid]; ok && s.name == name {
			return s
		}
	}
	return nil
}

// Select returns the children matching any of the given names, in children
// order. With no names it returns all children.
func (e *Entity) Select(names ...string) []*Entity {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	out := make([]*Entity, 0, len(e.childIDs))
	for _, cid := range e.childIDs {
		if c, ok := e.reg.byID[cid]; ok && (len(names) == 0 || wanted[c.name]) {
			out = append(out, c)
		}
	}
	return out
}

// ToMap flattens the entity to {id, name, kind, x, y, props}. Parent and
// children are omitted so serialization cannot cycle.
func (e *Entity) ToMap() map[string]any {
	e.reg.mu.RLock()
	defer e.reg.mu.RUnlock()
	return map[string]any{
		"id":    e.id,
		"name":  e.name,
		"kind":  e.kind,
		"x":     e.x,
		"y":     e.y,
		"props": e.props.ToAny(),
	}
}
