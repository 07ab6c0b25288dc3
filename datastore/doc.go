/*
Package datastore provides the cache-aside layer between the entity
registry and external fetch/persist providers.

A Store binds a provider to a registry. Get serves cache hits without
touching the provider; on a miss it fetches the raw record, materializes an
entity into a target dimension, registers it, and caches it. A fetch miss
is never cached, so records that appear later in the backing store become
visible without invalidation.

	store, _ := datastore.New("vehicles", reg, provider,
	    datastore.WithWritable(),
	)

	car, _ := store.Get(ctx, "VIN-001")      // fetch + materialize
	same, _ := store.Get(ctx, "VIN-001")     // cache hit, no fetch

	store.Invalidate("VIN-001")              // next Get re-fetches

The provider contract is split into small interfaces: Fetcher (required),
Persister, ChangeChecker, and Scanner (all optional, detected by type
assertion on the fetcher or supplied with options).

Implementations:
  - ddb: DynamoDB provider (single-table key schema)
  - redisstore: Redis provider (JSON records)
  - sqlitestore: SQLite provider (JSON blob table)
  - mock: in-memory provider with failure injection for testing

Stores also carry an instance-attribute side table for ephemeral per-entity
values that survive cache hits, vanish on invalidation, and never reach the
persist provider.
*/
package datastore
