package ports

import (
	"context"
	"io"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

// RowStore is the spreadsheet-backed persistence layer. AppendRow assigns
// the identifier (1 + max existing serial number) and returns it; UpdateRow
// applies only the given cells and fails with domain.ErrNotFound when the
// identifier is absent.
type RowStore interface {
	ListRows(ctx context.Context) ([]domain.Record, error)
	ListHeaders(ctx context.Context) ([]string, error)
	AppendRow(ctx context.Context, rec domain.Record) (int, error)
	UpdateRow(ctx context.Context, id string, partial domain.Record) error
}

// CredentialSource reads login credentials from the credential sheet.
type CredentialSource interface {
	ListCredentials(ctx context.Context) ([]domain.Credential, error)
}

// BlobStorage stores uploaded document scans in the media host.
type BlobStorage interface {
	Put(ctx context.Context, data io.Reader, filename, category string) (domain.BlobRef, error)
	// Delete accepts either a public reference id or the stored URL.
	Delete(ctx context.Context, refOrURL string) error
}

// DatasetCache holds the whole row set behind a fixed TTL. Writes
// invalidate it unconditionally rather than patching entries.
type DatasetCache interface {
	Get() ([]domain.Record, bool)
	Set(rows []domain.Record)
	Invalidate()
}

// TokenSource issues and verifies the signed session token carried in the
// cookie. Verification is stateless.
type TokenSource interface {
	Issue(id domain.Identity) (string, error)
	Verify(token string) (domain.Identity, error)
}

// AuditLog persists a trail of record mutations. Best-effort: failures are
// logged by callers, never surfaced to the user.
type AuditLog interface {
	RecordChange(ctx context.Context, entry domain.AuditEntry) error
}

// EventPublisher announces record mutations to interested consumers.
type EventPublisher interface {
	PublishRecordChange(ctx context.Context, change domain.RecordChange) error
}
