/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/dimgraph/dimgraph"
	"github.com/dimgraph/dimgraph/errors"
	"github.com/dimgraph/dimgraph/props"
)

// Store is a cache-aside adapter between the entity registry and an
// external fetch/persist provider.
//
// Per entity id the store is in one of three states: uncached (no entry in
// the entity cache), cached (a materialized entity exists in the cache and
// the registry), or invalidated (the next Get behaves as uncached). A
// fetch miss is never cached, so a record that appears later becomes
// visible without an invalidation call.
type Store struct {
	name     string
	writable bool

	fetcher   Fetcher
	persister Persister
	checker   ChangeChecker

	reg   *dimgraph.Registry
	space *dimgraph.Dimension

	mu       sync.Mutex
	cache    map[string]*dimgraph.Entity
	instance map[string]props.Map

	metrics *storeMetrics
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithWritable marks the store writable, enabling Persist when a persister
// is present.
func WithWritable() Option {
	return func(s *Store) { s.writable = true }
}

// WithPersister supplies the persist side of the provider.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithChangeChecker supplies the optional freshness probe.
func WithChangeChecker(c ChangeChecker) Option {
	return func(s *Store) { s.checker = c }
}

// WithDefaultSpace sets the dimension entities materialize into when Get is
// called without a target space. Without this option the store creates its
// own dimension named "<store>.space".
func WithDefaultSpace(d *dimgraph.Dimension) Option {
	return func(s *Store) { s.space = d }
}

// New creates a Store bound to a registry and a fetch provider. Providers
// that also implement Persister, ChangeChecker, or Scanner are picked up
// automatically; options override.
func New(name string, reg *dimgraph.Registry, fetcher Fetcher, opts ...Option) (*Store, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}
	if reg == nil {
		return nil, errors.NewValidationError("registry", "must not be nil")
	}
	if fetcher == nil {
		return nil, errors.NewValidationError("fetcher", "must not be nil")
	}

	s := &Store{
		name:     name,
		fetcher:  fetcher,
		reg:      reg,
		cache:    make(map[string]*dimgraph.Entity),
		instance: make(map[string]props.Map),
	}
	if p, ok := fetcher.(Persister); ok {
		s.persister = p
	}
	if c, ok := fetcher.(ChangeChecker); ok {
		s.checker = c
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.space == nil {
		s.space = reg.NewDimension(name+".space", 0, 0)
	}
	return s, nil
}

// Name returns the store name.
func (s *Store) Name() string { return s.name }

// Writable reports whether Persist is enabled.
func (s *Store) Writable() bool { return s.writable && s.persister != nil }

// Space returns the default dimension entities materialize into.
func (s *Store) Space() *dimgraph.Dimension { return s.space }

// Get returns the entity for id, serving cache hits without touching the
// provider and materializing into the store's default space on a miss. A
// missing record is (nil, nil).
func (s *Store) Get(ctx context.Context, id string) (*dimgraph.Entity, error) {
	return s.GetInto(ctx, id, s.space)
}

// GetInto is Get with an explicit target space for materialization.
func (s *Store) GetInto(ctx context.Context, id string, space *dimgraph.Dimension) (*dimgraph.Entity, error) {
	s.mu.Lock()
	if e, ok := s.cache[id]; ok {
		s.mu.Unlock()
		s.metrics.hit()
		return e, nil
	}
	s.mu.Unlock()
	s.metrics.miss()

	// fetch outside the lock; concurrent misses may both reach the
	// provider, the first registrant wins below
	rec, err := s.fetcher.Fetch(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		s.metrics.fetchError()
		return nil, fmt.Errorf("datastore %s: fetch %s: %w", s.name, id, err)
	}
	if rec == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cache[id]; ok {
		return e, nil
	}
	e, err := s.materializeLocked(id, rec, space)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// materializeLocked builds and caches an entity from a raw record. Caller
// holds s.mu.
func (s *Store) materializeLocked(id string, rec *Record, space *dimgraph.Dimension) (*dimgraph.Entity, error) {
	if space == nil {
		space = s.space
	}
	attrs := make(map[string]any, len(rec.Attrs)+1)
	for k, v := range rec.Attrs {
		attrs[k] = v
	}
	attrs["id"] = id

	e, err := space.Materialize(attrs)
	if err != nil {
		// another caller (or another store) registered the id first;
		// adopt the registered entity rather than erroring
		if errors.IsDuplicateID(err) {
			if existing := s.reg.ByID(id); existing != nil {
				s.cache[id] = existing
				return existing, nil
			}
		}
		return nil, fmt.Errorf("datastore %s: materialize %s: %w", s.name, id, err)
	}
	s.cache[id] = e
	return e, nil
}

// Persist writes the entity through the persist provider. It returns
// (false, nil) when the store is read-only or has no persister, so the call
// site can branch on the bool without error handling; provider failures
// return (false, err). Instance attributes never enter the payload.
func (s *Store) Persist(ctx context.Context, e *dimgraph.Entity) (bool, error) {
	if !s.Writable() {
		return false, nil
	}
	now := strfmt.DateTime(time.Now().UTC())
	rec := &Record{
		Attrs:     e.ToMap(),
		UpdatedAt: &now,
	}
	if err := s.persister.Persist(ctx, e.ID(), rec); err != nil {
		return false, fmt.Errorf("datastore %s: persist %s: %w", s.name, e.ID(), err)
	}
	return true, nil
}

// SetInstanceAttr stores an ephemeral per-entity value in the side table.
// Instance attributes survive cache hits but are dropped by Invalidate and
// ClearCache, and are never persisted.
func (s *Store) SetInstanceAttr(id, key string, v props.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bag, ok := s.instance[id]
	if !ok {
		bag = props.Map{}
		s.instance[id] = bag
	}
	bag[key] = v
}

// GetInstanceAttr reads an ephemeral per-entity value; the zero Value when
// absent.
func (s *Store) GetInstanceAttr(id, key string) props.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instance[id][key]
}

// Invalidate drops id from the entity cache and the instance-attribute side
// table and removes the entity from the registry indices, so stale lookups
// cannot resurrect it. It never persists.
func (s *Store) Invalidate(id string) {
	s.mu.Lock()
	delete(s.cache, id)
	delete(s.instance, id)
	s.mu.Unlock()
	s.reg.Remove(id)
}

// ClearCache invalidates every cached id.
func (s *Store) ClearCache() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.cache))
	for id := range s.cache {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.Invalidate(id)
	}
}

// CachedIDs returns the ids currently in the entity cache.
func (s *Store) CachedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.cache))
	for id := range s.cache {
		ids = append(ids, id)
	}
	return ids
}

// CheckChanged asks the provider whether the record behind id changed
// relative to a version token. Without a ChangeChecker it reports false;
// the store never calls this on its own, callers own the freshness policy.
func (s *Store) CheckChanged(ctx context.Context, id, version string) (bool, error) {
	if s.checker == nil {
		return false, nil
	}
	return s.checker.CheckChanged(ctx, id, version)
}
