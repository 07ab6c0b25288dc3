/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

// Package mock provides an in-memory provider implementation for testing
package mock

import (
	"context"
	"sync"

	"github.com/dimgraph/dimgraph/datastore"
	"github.com/dimgraph/dimgraph/errors"
)

// Provider is an in-memory implementation of the datastore provider
// interfaces for testing. Builder-style knobs inject failures or replace
// the fetch path entirely.
type Provider struct {
	mu         sync.RWMutex
	records    map[string]*datastore.Record
	fetchCalls map[string]int

	fetchErr   error
	persistErr error
	fetchFunc  func(ctx context.Context, id string) (*datastore.Record, error)
}

// New creates a new mock Provider.
func New() *Provider {
	return &Provider{
		records:    make(map[string]*datastore.Record),
		fetchCalls: make(map[string]int),
	}
}

// WithRecord seeds a record under the given id.
func (m *Provider) WithRecord(id string, attrs map[string]any) *Provider {
	return m.WithVersionedRecord(id, attrs, "")
}

// WithVersionedRecord seeds a record with a version token.
func (m *Provider) WithVersionedRecord(id string, attrs map[string]any, version string) *Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = &datastore.Record{Attrs: attrs, Version: version}
	return m
}

// WithFetchError makes Fetch return an error.
func (m *Provider) WithFetchError(err error) *Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
	return m
}

// WithPersistError makes Persist return an error.
func (m *Provider) WithPersistError(err error) *Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistErr = err
	return m
}

// WithFetchFunc replaces the fetch path entirely.
func (m *Provider) WithFetchFunc(f func(ctx context.Context, id string) (*datastore.Record, error)) *Provider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchFunc = f
	return m
}

// Fetch returns the seeded record for id, a NotFoundError when absent.
func (m *Provider) Fetch(ctx context.Context, id string) (*datastore.Record, error) {
	m.mu.Lock()
	m.fetchCalls[id]++
	fetchErr, fetchFunc := m.fetchErr, m.fetchFunc
	m.mu.Unlock()

	if fetchFunc != nil {
		return fetchFunc(ctx, id)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, errors.NewNotFoundError("record", id)
	}
	return copyRecord(rec), nil
}

// Persist stores the record under id.
func (m *Provider) Persist(ctx context.Context, id string, rec *datastore.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.persistErr != nil {
		return m.persistErr
	}
	m.records[id] = copyRecord(rec)
	return nil
}

// CheckChanged compares the stored record's version against the token.
func (m *Provider) CheckChanged(ctx context.Context, id string, version string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return false, errors.NewNotFoundError("record", id)
	}
	return rec.Version != version, nil
}

// Scan emits every seeded record.
func (m *Provider) Scan(ctx context.Context) (<-chan datastore.ScanItem, <-chan error) {
	items := make(chan datastore.ScanItem)
	errs := make(chan error)

	m.mu.RLock()
	snapshot := make([]datastore.ScanItem, 0, len(m.records))
	for id, rec := range m.records {
		snapshot = append(snapshot, datastore.ScanItem{ID: id, Record: copyRecord(rec)})
	}
	m.mu.RUnlock()

	go func() {
		defer close(items)
		defer close(errs)
		for _, item := range snapshot {
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return items, errs
}

// Delete removes a seeded record.
func (m *Provider) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
}

// FetchCount reports how many times Fetch was called for id.
func (m *Provider) FetchCount(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetchCalls[id]
}

// Record returns the stored record for id, or nil.
func (m *Provider) Record(id string) *datastore.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil
	}
	return copyRecord(rec)
}

func copyRecord(rec *datastore.Record) *datastore.Record {
	if rec == nil {
		return nil
	}
	attrs := make(map[string]any, len(rec.Attrs))
	for k, v := range rec.Attrs {
		attrs[k] = v
	}
	return &datastore.Record{Attrs: attrs, Version: rec.Version, UpdatedAt: rec.UpdatedAt}
}
