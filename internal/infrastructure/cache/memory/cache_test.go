package memory

import (
	"testing"
	"time"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

func TestDatasetCacheRoundtrip(t *testing.T) {
	c := NewDatasetCache(5*time.Minute, nil)

	if _, ok := c.Get(); ok {
		t.Fatalf("empty cache must miss")
	}

	rows := []domain.Record{{"Sl No.": "1"}}
	c.Set(rows)

	got, ok := c.Get()
	if !ok || len(got) != 1 {
		t.Fatalf("Get() = %v, %v", got, ok)
	}
}

func TestDatasetCacheExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewDatasetCache(5*time.Minute, func() time.Time { return now })

	c.Set([]domain.Record{{"Sl No.": "1"}})

	now = now.Add(4 * time.Minute)
	if _, ok := c.Get(); !ok {
		t.Fatalf("entry expired before its TTL")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(); ok {
		t.Fatalf("entry served past its TTL")
	}
}

func TestDatasetCacheInvalidate(t *testing.T) {
	c := NewDatasetCache(5*time.Minute, nil)
	c.Set([]domain.Record{{"Sl No.": "1"}})
	c.Invalidate()

	if _, ok := c.Get(); ok {
		t.Fatalf("invalidated cache must miss")
	}
}
