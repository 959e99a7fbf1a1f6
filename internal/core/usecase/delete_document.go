package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/travelops/traveler-registry/internal/core/domain"
	"github.com/travelops/traveler-registry/internal/core/ports"
)

// DeleteDocumentUseCase removes a stored scan: blob delete first, then the
// cell is cleared. The two steps are not atomic; if the row update fails the
// record keeps a reference to a blob that no longer exists, which is logged
// and surfaced but not compensated.
type DeleteDocumentUseCase struct {
	rows   ports.RowStore
	blobs  ports.BlobStorage
	cache  ports.DatasetCache
	audit  ports.AuditLog       // optional
	events ports.EventPublisher // optional
}

func NewDeleteDocumentUseCase(
	rows ports.RowStore,
	blobs ports.BlobStorage,
	cache ports.DatasetCache,
	audit ports.AuditLog,
	events ports.EventPublisher,
) *DeleteDocumentUseCase {
	return &DeleteDocumentUseCase{
		rows:   rows,
		blobs:  blobs,
		cache:  cache,
		audit:  audit,
		events: events,
	}
}

func (uc *DeleteDocumentUseCase) DeleteDocument(
	ctx context.Context,
	id, header, refOrURL string,
	actor domain.Identity,
) error {
	switch {
	case id == "":
		return domain.WrapError(domain.ErrValidation, "delete document", errors.New("serial number is required"))
	case header == "":
		return domain.WrapError(domain.ErrValidation, "delete document", errors.New("column is required"))
	case refOrURL == "":
		return domain.WrapError(domain.ErrValidation, "delete document", errors.New("file reference is required"))
	case !domain.IsDocumentHeader(header):
		return domain.WrapError(domain.ErrValidation, "delete document", fmt.Errorf("%q is not a document column", header))
	}

	if err := uc.blobs.Delete(ctx, refOrURL); err != nil {
		return domain.WrapError(domain.ErrUpstream, "delete blob", err)
	}

	if err := uc.rows.UpdateRow(ctx, id, domain.Record{header: ""}); err != nil {
		// Blob is already gone; the stored row now points at nothing.
		slog.Error("dangling document reference",
			"record_id", id, "header", header, "ref", refOrURL, "error", err)
		if domain.IsKind(err, domain.ErrNotFound) {
			return err
		}
		return domain.WrapError(domain.ErrUpstream, "clear document cell", err)
	}

	uc.cache.Invalidate()

	now := time.Now().UTC()
	if uc.audit != nil {
		entry := domain.AuditEntry{
			ID:       uuid.NewString(),
			Actor:    actor.Username,
			Action:   domain.ActionDeleteDocument,
			RecordID: id,
			Header:   header,
			At:       now,
		}
		if err := uc.audit.RecordChange(ctx, entry); err != nil {
			slog.Warn("audit write failed", "action", domain.ActionDeleteDocument, "record_id", id, "error", err)
		}
	}
	if uc.events != nil {
		change := domain.RecordChange{
			Action:   domain.ActionDeleteDocument,
			RecordID: id,
			Actor:    actor.Username,
			At:       now,
		}
		if err := uc.events.PublishRecordChange(ctx, change); err != nil {
			slog.Warn("change event publish failed", "action", domain.ActionDeleteDocument, "record_id", id, "error", err)
		}
	}

	return nil
}
