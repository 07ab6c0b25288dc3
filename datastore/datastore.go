/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/go-openapi/strfmt"
)

// Record is the raw attribute map a provider exchanges with an external
// store, before materialization into an entity. Attrs is flat and
// JSON-shaped; reserved keys (id, name, kind, x, y, props) map onto entity
// fields and every other key folds into the attribute bag.
type Record struct {
	// Attrs holds the raw attribute map.
	Attrs map[string]any

	// Version is an opaque version token used with CheckChanged.
	Version string

	// UpdatedAt is when the backing store last wrote the record, if known.
	UpdatedAt *strfmt.DateTime
}

// Fetcher loads raw records from an external store. Absence is not an
// error: a missing record is (nil, nil), or an error classified by
// errors.IsNotFound; the store treats both the same and never caches the
// miss.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*Record, error)
}

// Persister writes raw records to an external store. Optional; a store
// without one (or with writable off) reports persistence as unavailable
// rather than failing.
type Persister interface {
	Persist(ctx context.Context, id string, rec *Record) error
}

// ChangeChecker reports whether the backing record changed relative to a
// version token. Optional; the store exposes it for callers implementing
// their own freshness policy and never invokes it on its own.
type ChangeChecker interface {
	CheckChanged(ctx context.Context, id string, version string) (bool, error)
}

// ScanItem is one record produced by a scanning provider.
type ScanItem struct {
	ID     string
	Record *Record
}

// Scanner enumerates every record in the backing store. Optional; Stream
// is only available on stores whose provider implements it.
type Scanner interface {
	Scan(ctx context.Context) (<-chan ScanItem, <-chan error)
}

// Provider bundles the full provider surface. Concrete providers usually
// implement Fetcher plus whichever optional interfaces the backing store
// supports; the composite exists for providers that implement everything.
type Provider interface {
	Fetcher
	Persister
	ChangeChecker
	Scanner
}
