package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/jvcl/datachat/internal/chat/entity"
)

func TestDatasetCacheHitReturnsStoredValue(t *testing.T) {
	t.Parallel()

	cache := NewDatasetCache(time.Minute, 4)
	dataset := &entity.Dataset{Columns: []string{"name"}, Rows: [][]string{{"alice"}}}
	report := entity.LoadReport{Folder: "/data", TotalRows: 1}

	cache.Put("/data", dataset, report)

	got, gotReport, ok := cache.Get("/data")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != dataset {
		t.Fatal("expected the stored dataset as-is")
	}
	if gotReport.TotalRows != 1 {
		t.Fatalf("unexpected report: %#v", gotReport)
	}
}

func TestDatasetCacheMiss(t *testing.T) {
	t.Parallel()

	cache := NewDatasetCache(time.Minute, 4)

	if _, _, ok := cache.Get("/missing"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestDatasetCacheExpiry(t *testing.T) {
	t.Parallel()

	cache := NewDatasetCache(time.Minute, 4)
	now := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return now }

	cache.Put("/data", &entity.Dataset{}, entity.LoadReport{})

	now = now.Add(30 * time.Second)
	if _, _, ok := cache.Get("/data"); !ok {
		t.Fatal("expected hit before ttl")
	}

	now = now.Add(2 * time.Minute)
	if _, _, ok := cache.Get("/data"); ok {
		t.Fatal("expected miss after ttl")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry removed, len = %d", cache.Len())
	}
}

func TestDatasetCacheEvictsOldest(t *testing.T) {
	t.Parallel()

	cache := NewDatasetCache(time.Hour, 2)
	now := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		cache.Put(fmt.Sprintf("/data-%d", i), &entity.Dataset{}, entity.LoadReport{})
		now = now.Add(time.Second)
	}

	if cache.Len() != 2 {
		t.Fatalf("len = %d, want 2", cache.Len())
	}
	if _, _, ok := cache.Get("/data-0"); ok {
		t.Fatal("expected oldest entry evicted")
	}
	if _, _, ok := cache.Get("/data-2"); !ok {
		t.Fatal("expected newest entry kept")
	}
}

func TestDatasetCacheInvalidate(t *testing.T) {
	t.Parallel()

	cache := NewDatasetCache(time.Minute, 4)
	cache.Put("/data", &entity.Dataset{}, entity.LoadReport{})

	cache.Invalidate("/data")

	if _, _, ok := cache.Get("/data"); ok {
		t.Fatal("expected miss after invalidate")
	}
}
