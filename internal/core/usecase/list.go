package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/travelops/traveler-registry/internal/core/domain"
	"github.com/travelops/traveler-registry/internal/core/ports"
)

const defaultPageLimit = 50

// ListRecordsUseCase serves the listing view from a whole-dataset
// read-through cache. Filtering and pagination happen in memory; a cache
// miss under concurrent readers may fetch twice, which is accepted at this
// request volume.
type ListRecordsUseCase struct {
	rows  ports.RowStore
	cache ports.DatasetCache
}

func NewListRecordsUseCase(rows ports.RowStore, cache ports.DatasetCache) *ListRecordsUseCase {
	return &ListRecordsUseCase{rows: rows, cache: cache}
}

func (uc *ListRecordsUseCase) List(ctx context.Context, q ports.ListQuery) (*domain.RecordPage, error) {
	data, err := uc.dataset(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := uc.rows.ListHeaders(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "list headers", err)
	}

	filtered := data
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		filtered = make([]domain.Record, 0, len(data))
		for _, rec := range data {
			if recordMatches(rec, search) {
				filtered = append(filtered, rec)
			}
		}
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &domain.RecordPage{
		Data:    filtered[start:end],
		Headers: headers,
		Meta: domain.PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

func (uc *ListRecordsUseCase) GetByID(ctx context.Context, id string) (domain.Record, []string, error) {
	data, err := uc.dataset(ctx)
	if err != nil {
		return nil, nil, err
	}
	headers, err := uc.rows.ListHeaders(ctx)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrUpstream, "list headers", err)
	}

	for _, rec := range data {
		if rec.Identifier() == id {
			return rec.Clone(), headers, nil
		}
	}
	return nil, headers, domain.WrapError(domain.ErrNotFound, "get record", fmt.Errorf("serial %s", id))
}

// Schema exposes the header-derived form schema. No headers means the form
// cannot render; the caller surfaces the explicit no-schema state.
func (uc *ListRecordsUseCase) Schema(ctx context.Context) (*domain.Schema, error) {
	headers, err := uc.rows.ListHeaders(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "list headers", err)
	}

	var sample domain.Record
	if len(headers) == 0 {
		if rows, ok := uc.cache.Get(); ok && len(rows) > 0 {
			sample = rows[0]
		}
	}

	schema, err := domain.InferSchema(headers, sample)
	if errors.Is(err, domain.ErrNoSchema) {
		return nil, err
	}
	return schema, err
}

func (uc *ListRecordsUseCase) dataset(ctx context.Context) ([]domain.Record, error) {
	if rows, ok := uc.cache.Get(); ok {
		return rows, nil
	}
	slog.Debug("dataset cache miss, fetching row store")
	rows, err := uc.rows.ListRows(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "list rows", err)
	}
	uc.cache.Set(rows)
	return rows, nil
}

func recordMatches(rec domain.Record, loweredSearch string) bool {
	for _, v := range rec {
		if strings.Contains(strings.ToLower(v), loweredSearch) {
			return true
		}
	}
	return false
}
