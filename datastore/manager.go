/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package datastore

import (
	"fmt"
	"sync"
)

// Manager is a thread-safe collection of named stores, for applications
// that bind several backing stores to one registry.
type Manager struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		stores: make(map[string]*Store),
	}
}

// Register stores the provided Store under the given key.
func (m *Manager) Register(key string, s *Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.stores[key]; exists {
		return fmt.Errorf("datastore with key %q already registered", key)
	}
	m.stores[key] = s
	return nil
}

// Get retrieves the Store associated with the given key.
func (m *Manager) Get(key string) (*Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.stores[key]
	if !exists {
		return nil, fmt.Errorf("datastore with key %q not found", key)
	}
	return s, nil
}

// Remove deletes the Store registered under the given key.
func (m *Manager) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.stores[key]; !exists {
		return fmt.Errorf("datastore with key %q not found", key)
	}
	delete(m.stores, key)
	return nil
}

// List returns all registered store keys.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.stores))
	for k := range m.stores {
		keys = append(keys, k)
	}
	return keys
}
