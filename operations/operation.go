/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package operations

// Fn is the body of a named operation. The registry imposes no signature
// beyond positional arguments in and one value or an error out; errors from
// the body propagate to the caller unchanged.
type Fn func(args ...any) (any, error)

// Operation is a named, categorized callable held in a Registry. Operations
// form their own link graph, fully separate from the entity parent/child
// graph, navigated with Link and Child.
type Operation struct {
	id          string
	name        string
	kind        string
	category    string
	description string
	fn          Fn
	reg         *Registry
	parentID    string
	childIDs    []string
}

// ID returns the operation id.
func (o *Operation) ID() string { return o.id }

// Name returns the operation name.
func (o *Operation) Name() string { return o.name }

// Kind returns the operation kind tag.
func (o *Operation) Kind() string { return o.kind }

// Category returns the operation category.
func (o *Operation) Category() string { return o.category }

// Description returns the operation description.
func (o *Operation) Description() string { return o.description }

// Invoke calls the operation body directly.
func (o *Operation) Invoke(args ...any) (any, error) {
	return o.fn(args...)
}

// Link makes child a linked sub-operation of o and returns o for chaining.
// Linking an already linked child is a no-op; a child linked elsewhere is
// moved.
func (o *Operation) Link(child *Operation) *Operation {
	o.reg.mu.Lock()
	defer o.reg.mu.Unlock()

	if child.parentID == o.id {
		return o
	}
	if old, ok := o.reg.byID[child.parentID]; ok {
		old.childIDs = removeID(old.childIDs, child.id)
	}
	child.parentID = o.id
	o.childIDs = append(o.childIDs, child.id)
	return o
}

// Child returns the first linked sub-operation with the given name, or the
// first one at all when no name is given. Nil when there is no match.
func (o *Operation) Child(name ...string) *Operation {
	o.reg.mu.RLock()
	defer o.reg.mu.RUnlock()

	for _, cid := range o.childIDs {
		c, ok := o.reg.byID[cid]
		if !ok {
			continue
		}
		if len(name) == 0 || c.name == name[0] {
			return c
		}
	}
	return nil
}

// Parent returns the operation this one is linked under, or nil.
func (o *Operation) Parent() *Operation {
	o.reg.mu.RLock()
	defer o.reg.mu.RUnlock()
	return o.reg.byID[o.parentID]
}

// ToMap flattens the operation to {id, name, kind, category, description}.
func (o *Operation) ToMap() map[string]any {
	return map[string]any{
		"id":          o.id,
		"name":        o.name,
		"kind":        o.kind,
		"category":    o.category,
		"description": o.description,
	}
}
