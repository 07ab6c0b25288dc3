/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package datastore_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dimgraph/dimgraph"
	"github.com/dimgraph/dimgraph/datastore"
	"github.com/dimgraph/dimgraph/datastore/mock"
	"github.com/dimgraph/dimgraph/props"
)

func TestStoreGet(t *testing.T) {
	ctx := context.Background()
	provider := mock.New().WithRecord("VIN-001", map[string]any{
		"name":  "car",
		"kind":  dimgraph.KindRect,
		"color": "red",
	})
	reg := dimgraph.New()
	store, err := datastore.New("vehicles", reg, provider)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	t.Run("miss fetches and materializes", func(t *testing.T) {
		e, err := store.Get(ctx, "VIN-001")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if e == nil {
			t.Fatal("Expected an entity")
		}
		if e.ID() != "VIN-001" || e.Name() != "car" || e.Kind() != dimgraph.KindRect {
			t.Errorf("Materialized %q/%q/%q", e.ID(), e.Name(), e.Kind())
		}
		if !e.Prop("color").Equal(props.String("red")) {
			t.Errorf("props = %v", e.Props())
		}
		if reg.ByID("VIN-001") != e {
			t.Error("Materialized entity should be registered")
		}
		if provider.FetchCount("VIN-001") != 1 {
			t.Errorf("FetchCount = %d", provider.FetchCount("VIN-001"))
		}
	})

	t.Run("hit skips the provider", func(t *testing.T) {
		// a changed backing record must NOT show through the cache
		provider.WithRecord("VIN-001", map[string]any{
			"name":  "car",
			"kind":  dimgraph.KindRect,
			"color": "blue",
		})

		e, err := store.Get(ctx, "VIN-001")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !e.Prop("color").Equal(props.String("red")) {
			t.Error("Cache hit must return the cached entity unchanged")
		}
		if provider.FetchCount("VIN-001") != 1 {
			t.Errorf("Cache hit reached the provider, FetchCount = %d", provider.FetchCount("VIN-001"))
		}
	})

	t.Run("hit returns the same reference", func(t *testing.T) {
		first, _ := store.Get(ctx, "VIN-001")
		second, _ := store.Get(ctx, "VIN-001")
		if first != second {
			t.Error("Repeated Get must return the same entity")
		}
	})

	t.Run("invalidate forces a refetch", func(t *testing.T) {
		store.Invalidate("VIN-001")
		if reg.ByID("VIN-001") != nil {
			t.Error("Invalidate should remove the entity from the registry")
		}

		e, err := store.Get(ctx, "VIN-001")
		if err != nil {
			t.Fatalf("Get after invalidate failed: %v", err)
		}
		if !e.Prop("color").Equal(props.String("blue")) {
			t.Errorf("Expected the updated record, got color %v", e.Prop("color"))
		}
		if provider.FetchCount("VIN-001") != 2 {
			t.Errorf("FetchCount = %d", provider.FetchCount("VIN-001"))
		}
	})
}

func TestStoreMissNotCached(t *testing.T) {
	ctx := context.Background()
	provider := mock.New()
	reg := dimgraph.New()
	store, _ := datastore.New("vehicles", reg, provider)

	e, err := store.Get(ctx, "ghost")
	if err != nil || e != nil {
		t.Fatalf("Miss should be (nil, nil), got (%v, %v)", e, err)
	}

	// the record appears later; a second Get must reach the provider
	provider.WithRecord("ghost", map[string]any{"name": "late"})
	e, err = store.Get(ctx, "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || e.Name() != "late" {
		t.Error("A record appearing after a miss must become visible")
	}
	if provider.FetchCount("ghost") != 2 {
		t.Errorf("FetchCount = %d, misses must not be cached", provider.FetchCount("ghost"))
	}
}

func TestStoreFetchError(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("backend down")
	provider := mock.New().WithFetchError(boom)
	reg := dimgraph.New()
	store, _ := datastore.New("vehicles", reg, provider)

	_, err := store.Get(ctx, "VIN-001")
	if !stderrors.Is(err, boom) {
		t.Errorf("Fetch error should surface wrapped, got %v", err)
	}
}

func TestStorePersist(t *testing.T) {
	ctx := context.Background()
	reg := dimgraph.New()
	dim := reg.NewDimension("main", 800, 600)
	car, _ := dim.CreateRect("car", "center", props.Map{"color": props.String("red")})

	t.Run("read-only store declines without error", func(t *testing.T) {
		provider := mock.New()
		store, _ := datastore.New("vehicles", reg, provider)

		ok, err := store.Persist(ctx, car)
		if err != nil {
			t.Fatalf("Persist on read-only store errored: %v", err)
		}
		if ok {
			t.Error("Read-only store must report false")
		}
		if provider.Record(car.ID()) != nil {
			t.Error("Read-only store must not reach the provider")
		}
	})

	t.Run("writable store persists the flattened entity", func(t *testing.T) {
		provider := mock.New()
		store, _ := datastore.New("vehicles", reg, provider, datastore.WithWritable())

		ok, err := store.Persist(ctx, car)
		if err != nil {
			t.Fatalf("Persist failed: %v", err)
		}
		if !ok {
			t.Error("Writable store must report true")
		}

		rec := provider.Record(car.ID())
		if rec == nil {
			t.Fatal("Record not stored")
		}
		if rec.Attrs["name"] != "car" || rec.Attrs["kind"] != dimgraph.KindRect {
			t.Errorf("Attrs = %v", rec.Attrs)
		}
		if rec.UpdatedAt == nil {
			t.Error("Persist should stamp UpdatedAt")
		}
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		boom := stderrors.New("write refused")
		provider := mock.New().WithPersistError(boom)
		store, _ := datastore.New("vehicles", reg, provider, datastore.WithWritable())

		ok, err := store.Persist(ctx, car)
		if ok || !stderrors.Is(err, boom) {
			t.Errorf("Persist = (%v, %v)", ok, err)
		}
	})
}

func TestStoreInstanceAttrs(t *testing.T) {
	ctx := context.Background()
	provider := mock.New().WithRecord("VIN-001", map[string]any{"name": "car"})
	reg := dimgraph.New()
	store, _ := datastore.New("vehicles", reg, provider, datastore.WithWritable())

	if _, err := store.Get(ctx, "VIN-001"); err != nil {
		t.Fatal(err)
	}
	store.SetInstanceAttr("VIN-001", "selected", props.Bool(true))

	t.Run("survives cache hits", func(t *testing.T) {
		store.Get(ctx, "VIN-001")
		if got := store.GetInstanceAttr("VIN-001", "selected"); !got.Equal(props.Bool(true)) {
			t.Errorf("GetInstanceAttr = %v", got)
		}
	})

	t.Run("never persisted", func(t *testing.T) {
		e, _ := store.Get(ctx, "VIN-001")
		if _, err := store.Persist(ctx, e); err != nil {
			t.Fatal(err)
		}
		rec := provider.Record("VIN-001")
		if _, ok := rec.Attrs["selected"]; ok {
			t.Error("Instance attributes must not enter the persisted record")
		}
	})

	t.Run("dropped on invalidate", func(t *testing.T) {
		store.Invalidate("VIN-001")
		if got := store.GetInstanceAttr("VIN-001", "selected"); !got.IsZero() {
			t.Errorf("Expected zero value after invalidate, got %v", got)
		}
	})
}

func TestStoreClearCache(t *testing.T) {
	ctx := context.Background()
	provider := mock.New().
		WithRecord("a", map[string]any{"name": "a"}).
		WithRecord("b", map[string]any{"name": "b"})
	reg := dimgraph.New()
	store, _ := datastore.New("vehicles", reg, provider)

	store.Get(ctx, "a")
	store.Get(ctx, "b")
	if len(store.CachedIDs()) != 2 {
		t.Fatalf("CachedIDs = %v", store.CachedIDs())
	}

	store.ClearCache()

	if len(store.CachedIDs()) != 0 {
		t.Errorf("CachedIDs after clear = %v", store.CachedIDs())
	}
	if reg.ByID("a") != nil || reg.ByID("b") != nil {
		t.Error("ClearCache should purge the registry entries")
	}

	store.Get(ctx, "a")
	if provider.FetchCount("a") != 2 {
		t.Errorf("FetchCount = %d, expected refetch after clear", provider.FetchCount("a"))
	}
}

func TestStoreCheckChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the provider", func(t *testing.T) {
		provider := mock.New().WithVersionedRecord("VIN-001", map[string]any{"name": "car"}, "v2")
		store, _ := datastore.New("vehicles", dimgraph.New(), provider)

		changed, err := store.CheckChanged(ctx, "VIN-001", "v1")
		if err != nil || !changed {
			t.Errorf("CheckChanged = (%v, %v), want (true, nil)", changed, err)
		}
		changed, err = store.CheckChanged(ctx, "VIN-001", "v2")
		if err != nil || changed {
			t.Errorf("CheckChanged = (%v, %v), want (false, nil)", changed, err)
		}
	})

	t.Run("no checker means never changed", func(t *testing.T) {
		fetchOnly := fetcherFunc(func(ctx context.Context, id string) (*datastore.Record, error) {
			return nil, nil
		})
		store, _ := datastore.New("vehicles", dimgraph.New(), fetchOnly)

		changed, err := store.CheckChanged(ctx, "VIN-001", "v1")
		if err != nil || changed {
			t.Errorf("CheckChanged = (%v, %v), want (false, nil)", changed, err)
		}
	})

	t.Run("check does not invalidate", func(t *testing.T) {
		provider := mock.New().WithVersionedRecord("VIN-001", map[string]any{"name": "car"}, "v1")
		store, _ := datastore.New("vehicles", dimgraph.New(), provider)

		store.Get(ctx, "VIN-001")
		provider.WithVersionedRecord("VIN-001", map[string]any{"name": "car2"}, "v2")

		if changed, _ := store.CheckChanged(ctx, "VIN-001", "v1"); !changed {
			t.Fatal("Expected a change report")
		}
		e, _ := store.Get(ctx, "VIN-001")
		if e.Name() != "car" {
			t.Error("CheckChanged must not invalidate the cache on its own")
		}
	})
}

func TestStoreGetInto(t *testing.T) {
	ctx := context.Background()
	provider := mock.New().WithRecord("VIN-001", map[string]any{"name": "car"})
	reg := dimgraph.New()
	store, _ := datastore.New("vehicles", reg, provider)
	hud := reg.NewDimension("hud", 100, 100)

	e, err := store.GetInto(ctx, "VIN-001", hud)
	if err != nil {
		t.Fatal(err)
	}
	if e.Space() != hud {
		t.Error("GetInto should materialize into the given dimension")
	}
	if len(reg.ByDimension("hud")) != 1 {
		t.Errorf("ByDimension(hud) = %v", reg.ByDimension("hud"))
	}
}

func TestStoreStream(t *testing.T) {
	ctx := context.Background()
	provider := mock.New().
		WithRecord("a", map[string]any{"name": "a"}).
		WithRecord("b", map[string]any{"name": "b"}).
		WithRecord("c", map[string]any{"name": "c"})
	reg := dimgraph.New()
	store, _ := datastore.New("vehicles", reg, provider)

	var progressCalls int
	results, err := store.Stream(ctx,
		datastore.WithBufferSize(1),
		datastore.WithProgressHandler(func(p datastore.StreamProgress) { progressCalls++ }),
	)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	var count int
	for r := range results {
		if r.Error != nil {
			t.Errorf("Stream item error: %v", r.Error)
			continue
		}
		if r.Entity == nil {
			t.Error("Stream item without entity")
		}
		count++
	}
	if count != 3 {
		t.Errorf("Streamed %d items", count)
	}
	if reg.Len() != 3 {
		t.Errorf("Registry holds %d entities", reg.Len())
	}
	if progressCalls == 0 {
		t.Error("Progress handler never called")
	}
	if len(store.CachedIDs()) != 3 {
		t.Errorf("Streamed entities should be cached, got %v", store.CachedIDs())
	}
}

func TestStoreStreamUnsupported(t *testing.T) {
	fetchOnly := fetcherFunc(func(ctx context.Context, id string) (*datastore.Record, error) {
		return nil, nil
	})
	store, _ := datastore.New("vehicles", dimgraph.New(), fetchOnly)

	if _, err := store.Stream(context.Background()); err == nil {
		t.Error("Stream on a non-scanning provider must fail")
	}
}

func TestStoreMetrics(t *testing.T) {
	ctx := context.Background()
	provider := mock.New().WithRecord("VIN-001", map[string]any{"name": "car"})
	promReg := prometheus.NewRegistry()
	store, _ := datastore.New("vehicles", dimgraph.New(), provider,
		datastore.WithMetrics(promReg))

	store.Get(ctx, "VIN-001") // miss
	store.Get(ctx, "VIN-001") // hit
	store.Get(ctx, "ghost")   // miss

	families, err := promReg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]float64{}
	for _, f := range families {
		got[f.GetName()] = f.GetMetric()[0].GetCounter().GetValue()
	}
	if got["dimgraph_datastore_cache_hits_total"] != 1 {
		t.Errorf("hits = %v", got["dimgraph_datastore_cache_hits_total"])
	}
	if got["dimgraph_datastore_cache_misses_total"] != 2 {
		t.Errorf("misses = %v", got["dimgraph_datastore_cache_misses_total"])
	}
}

func TestNewValidation(t *testing.T) {
	provider := mock.New()
	reg := dimgraph.New()

	if _, err := datastore.New("", reg, provider); err == nil {
		t.Error("Empty name must be rejected")
	}
	if _, err := datastore.New("s", nil, provider); err == nil {
		t.Error("Nil registry must be rejected")
	}
	if _, err := datastore.New("s", reg, nil); err == nil {
		t.Error("Nil fetcher must be rejected")
	}
}

// fetcherFunc adapts a function to the Fetcher interface without picking up
// the optional provider capabilities.
type fetcherFunc func(ctx context.Context, id string) (*datastore.Record, error)

func (f fetcherFunc) Fetch(ctx context.Context, id string) (*datastore.Record, error) {
	return f(ctx, id)
}
