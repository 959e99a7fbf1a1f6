package ports

import (
	"context"
	"io"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

// ListQuery narrows the listing view.
type ListQuery struct {
	Search string
	Page   int
	Limit  int
}

// Upload is one attached file targeting a document slot by tag.
type Upload struct {
	Slot        string
	Filename    string
	ContentType string
	Data        io.Reader
}

// RecordLister serves the paginated/searchable listing and single-record
// lookups, plus the schema the dynamic form renders from.
type RecordLister interface {
	List(ctx context.Context, q ListQuery) (*domain.RecordPage, error)
	GetByID(ctx context.Context, id string) (domain.Record, []string, error)
	Schema(ctx context.Context) (*domain.Schema, error)
}

// RecordSubmitter orchestrates create and partial-update submissions,
// including any attached document uploads.
type RecordSubmitter interface {
	Create(ctx context.Context, sub domain.Submission, uploads []Upload, actor domain.Identity) (int, error)
	Update(ctx context.Context, id string, sub domain.Submission, uploads []Upload, actor domain.Identity) error
}

// DocumentRemover deletes a stored scan and clears its cell.
type DocumentRemover interface {
	DeleteDocument(ctx context.Context, id, header, refOrURL string, actor domain.Identity) error
}

// Authenticator validates credentials and mints a session token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.Identity, string, error)
}
