package usecase

import (
	"context"
	"strconv"
	"testing"

	"github.com/travelops/traveler-registry/internal/core/domain"
	"github.com/travelops/traveler-registry/internal/core/ports"
)

var listHeaders = []string{"Sl No.", "Full Name", "Village"}

func listFixture(n int) []domain.Record {
	out := make([]domain.Record, 0, n)
	names := []string{"Rahim", "Karim", "Asha", "Fatima", "Salim"}
	for i := 0; i < n; i++ {
		out = append(out, domain.Record{
			"Sl No.":    strconv.Itoa(i + 1),
			"Full Name": names[i%len(names)],
			"Village":   "Dariapur",
		})
	}
	return out
}

func TestListPaginates(t *testing.T) {
	store := &fakeRowStore{headers: listHeaders, rows: listFixture(7)}
	uc := NewListRecordsUseCase(store, &fakeCache{})

	page, err := uc.List(context.Background(), ports.ListQuery{Page: 2, Limit: 3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Data) != 3 {
		t.Fatalf("expected 3 rows on page 2, got %d", len(page.Data))
	}
	if page.Data[0].Identifier() != "4" {
		t.Fatalf("page 2 starts at serial %s, want 4", page.Data[0].Identifier())
	}
	if page.Meta.Total != 7 || page.Meta.TotalPages != 3 {
		t.Fatalf("meta = %+v", page.Meta)
	}
}

func TestListSearchIsCaseInsensitiveSubstring(t *testing.T) {
	store := &fakeRowStore{headers: listHeaders, rows: listFixture(5)}
	uc := NewListRecordsUseCase(store, &fakeCache{})

	page, err := uc.List(context.Background(), ports.ListQuery{Search: "rAhIm"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Meta.Total != 1 || page.Data[0]["Full Name"] != "Rahim" {
		t.Fatalf("search result = %+v", page)
	}
}

func TestListEmptyResultHasZeroTotalPages(t *testing.T) {
	store := &fakeRowStore{headers: listHeaders, rows: listFixture(5)}
	uc := NewListRecordsUseCase(store, &fakeCache{})

	page, err := uc.List(context.Background(), ports.ListQuery{Search: "no such traveler"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Meta.Total != 0 || page.Meta.TotalPages != 0 {
		t.Fatalf("meta = %+v", page.Meta)
	}
	if len(page.Headers) != len(listHeaders) {
		t.Fatalf("headers must survive an empty page, got %v", page.Headers)
	}
}

func TestListPageBeyondEndIsEmpty(t *testing.T) {
	store := &fakeRowStore{headers: listHeaders, rows: listFixture(3)}
	uc := NewListRecordsUseCase(store, &fakeCache{})

	page, err := uc.List(context.Background(), ports.ListQuery{Page: 9, Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Data) != 0 {
		t.Fatalf("expected empty page, got %d rows", len(page.Data))
	}
}

func TestListServesFromCache(t *testing.T) {
	cached := listFixture(2)
	cache := &fakeCache{rows: cached, present: true}
	store := &fakeRowStore{headers: listHeaders, rowsErr: domain.ErrUpstream}
	uc := NewListRecordsUseCase(store, cache)

	page, err := uc.List(context.Background(), ports.ListQuery{})
	if err != nil {
		t.Fatalf("List() must not hit the store on a cache hit: %v", err)
	}
	if page.Meta.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Meta.Total)
	}
}

func TestListFillsCacheOnMiss(t *testing.T) {
	cache := &fakeCache{}
	store := &fakeRowStore{headers: listHeaders, rows: listFixture(2)}
	uc := NewListRecordsUseCase(store, cache)

	if _, err := uc.List(context.Background(), ports.ListQuery{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache fill, got %d", cache.sets)
	}
}

func TestGetByID(t *testing.T) {
	store := &fakeRowStore{headers: listHeaders, rows: listFixture(3)}
	uc := NewListRecordsUseCase(store, &fakeCache{})

	rec, headers, err := uc.GetByID(context.Background(), "2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.Identifier() != "2" || len(headers) != len(listHeaders) {
		t.Fatalf("got %v / %v", rec, headers)
	}

	if _, _, err := uc.GetByID(context.Background(), "99"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSchemaFromHeaders(t *testing.T) {
	store := &fakeRowStore{headers: listHeaders}
	uc := NewListRecordsUseCase(store, &fakeCache{})

	schema, err := uc.Schema(context.Background())
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	if len(schema.Headers) != len(listHeaders) {
		t.Fatalf("schema headers = %v", schema.Headers)
	}
}

func TestSchemaWithoutHeadersFallsBackToCachedRow(t *testing.T) {
	cache := &fakeCache{rows: listFixture(1), present: true}
	store := &fakeRowStore{}
	uc := NewListRecordsUseCase(store, cache)

	schema, err := uc.Schema(context.Background())
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	if len(schema.Headers) != 3 {
		t.Fatalf("schema headers = %v", schema.Headers)
	}
}

func TestSchemaWithNothingReturnsErrNoSchema(t *testing.T) {
	uc := NewListRecordsUseCase(&fakeRowStore{}, &fakeCache{})
	if _, err := uc.Schema(context.Background()); !domain.IsKind(err, domain.ErrNoSchema) {
		t.Fatalf("expected ErrNoSchema, got %v", err)
	}
}
