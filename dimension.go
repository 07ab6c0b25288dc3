/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package dimgraph

import (
	"strconv"
	"strings"

	"github.com/dimgraph/dimgraph/errors"
	"github.com/dimgraph/dimgraph/props"
)

// Dimension is a named container for entities with canvas-like extents.
// Symbolic positions ("center", "bottomright", "120,80") are resolved
// against its width and height at creation time. Names are not unique.
type Dimension struct {
	id        string
	name      string
	width     float64
	height    float64
	reg       *Registry
	entityIDs []string
}

// ID returns the generated dimension id.
func (d *Dimension) ID() string { return d.id }

// Name returns the dimension name.
func (d *Dimension) Name() string { return d.name }

// Width returns the horizontal extent.
func (d *Dimension) Width() float64 { return d.width }

// Height returns the vertical extent.
func (d *Dimension) Height() float64 { return d.height }

// Registry returns the owning registry.
func (d *Dimension) Registry() *Registry { return d.reg }

// Entities returns the entities created through this dimension, in
// creation order.
func (d *Dimension) Entities() []*Entity {
	d.reg.mu.RLock()
	defer d.reg.mu.RUnlock()
	return d.reg.resolve(d.entityIDs)
}

// CreateEntity creates an entity with a generated id, resolves position
// against the dimension extents, and registers it in every index.
func (d *Dimension) CreateEntity(kind, name, position string, bag props.Map) (*Entity, error) {
	return d.create(newID(), kind, name, position, bag)
}

// CreateEntityWithID is CreateEntity with a caller-supplied id. It fails
// with a DuplicateIDError when the id is already registered.
func (d *Dimension) CreateEntityWithID(id, kind, name, position string, bag props.Map) (*Entity, error) {
	if id == "" {
		id = newID()
	}
	return d.create(id, kind, name, position, bag)
}

func (d *Dimension) create(id, kind, name, position string, bag props.Map) (*Entity, error) {
	if kind == "" {
		return nil, errors.NewValidationError("kind", "must not be empty")
	}
	x, y, err := d.ResolvePosition(position)
	if err != nil {
		return nil, err
	}
	if bag == nil {
		bag = props.Map{}
	}
	e := &Entity{
		id:      id,
		name:    name,
		kind:    kind,
		x:       x,
		y:       y,
		props:   bag.Clone(),
		spaceID: d.id,
		reg:     d.reg,
	}
	if err := d.reg.register(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Shape factories.

// CreateRect creates a rectangle entity.
func (d *Dimension) CreateRect(name, position string, bag props.Map) (*Entity, error) {
	return d.CreateEntity(KindRect, name, position, bag)
}

// CreateCircle creates a circle entity.
func (d *Dimension) CreateCircle(name, position string, bag props.Map) (*Entity, error) {
	return d.CreateEntity(KindCircle, name, position, bag)
}

// CreateTriangle creates a triangle entity.
func (d *Dimension) CreateTriangle(name, position string, bag props.Map) (*Entity, error) {
	return d.CreateEntity(KindTriangle, name, position, bag)
}

// CreatePolygon creates a polygon entity.
func (d *Dimension) CreatePolygon(name, position string, bag props.Map) (*Entity, error) {
	return d.CreateEntity(KindPolygon, name, position, bag)
}

// CreateText creates a text entity.
func (d *Dimension) CreateText(name, position string, bag props.Map) (*Entity, error) {
	return d.CreateEntity(KindText, name, position, bag)
}

// CreatePoint creates a point entity.
func (d *Dimension) CreatePoint(name, position string, bag props.Map) (*Entity, error) {
	return d.CreateEntity(KindPoint, name, position, bag)
}

// CreateLine creates a line entity.
func (d *Dimension) CreateLine(name, position string, bag props.Map) (*Entity, error) {
	return d.CreateEntity(KindLine, name, position, bag)
}

// CreateGroup creates a group entity, typically used as a parent for
// drilling.
func (d *Dimension) CreateGroup(name, position string, bag props.Map) (*Entity, error) {
	return d.CreateEntity(KindGroup, name, position, bag)
}

// Materialize builds an entity from a flat attribute map, the inverse of
// Entity.ToMap. Recognized keys are id, name, kind, x, y, position, and
// props (a nested map); any other key folds into the attribute bag, so raw
// records like {"name": "car", "color": "red"} materialize with
// props.color set. Missing kind defaults to group.
func (d *Dimension) Materialize(attrs map[string]any) (*Entity, error) {
	var (
		id, name, kind, position string
		x, y                     float64
		hasX, hasY               bool
	)
	bag := props.Map{}

	for k, raw := range attrs {
		switch k {
		case "id":
			id, _ = raw.(string)
		case "name":
			name, _ = raw.(string)
		case "kind":
			kind, _ = raw.(string)
		case "position":
			position, _ = raw.(string)
		case "x":
			if n, ok := props.FromAny(raw).AsNumber(); ok {
				x, hasX = n, true
			}
		case "y":
			if n, ok := props.FromAny(raw).AsNumber(); ok {
				y, hasY = n, true
			}
		case "props":
			if nested, ok := props.FromAny(raw).AsMap(); ok {
				bag = bag.Merge(nested)
			}
		default:
			bag[k] = props.FromAny(raw)
		}
	}
	if kind == "" {
		kind = KindGroup
	}

	e, err := d.CreateEntityWithID(id, kind, name, position, bag)
	if err != nil {
		return nil, err
	}
	if hasX || hasY {
		// only the supplied axis overrides what position resolved to
		cx, cy := e.Pos()
		if hasX {
			cx = x
		}
		if hasY {
			cy = y
		}
		e.MoveTo(cx, cy)
	}
	return e, nil
}

// ResolvePosition maps a symbolic position token to coordinates within the
// dimension extents. The empty token is the origin; "x,y" is a literal
// numeric pair. Unknown tokens fail with a validation error.
func (d *Dimension) ResolvePosition(position string) (x, y float64, err error) {
	switch position {
	case "", "origin", "topleft":
		return 0, 0, nil
	case "center":
		return d.width / 2, d.height / 2, nil
	case "topright":
		return d.width, 0, nil
	case "bottomleft":
		return 0, d.height, nil
	case "bottomright":
		return d.width, d.height, nil
	case "top":
		return d.width / 2, 0, nil
	case "bottom":
		return d.width / 2, d.height, nil
	case "left":
		return 0, d.height / 2, nil
	case "right":
		return d.width, d.height / 2, nil
	}

	if cx, cy, ok := parseCoords(position); ok {
		return cx, cy, nil
	}
	return 0, 0, errors.NewValidationError("position", "unknown position token "+strconv.Quote(position))
}

func parseCoords(s string) (x, y float64, ok bool) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}
