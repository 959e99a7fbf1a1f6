package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/travelops/traveler-registry/internal/core/domain"
	"github.com/travelops/traveler-registry/internal/core/ports"
)

// SubmitUseCase assembles a record from a raw submission, pushes attached
// documents to the blob store in fixed slot order and persists the result.
// Uploads are sequential; a slot failure aborts the submission but earlier
// uploads stay behind as orphans, which is surfaced rather than rolled back.
type SubmitUseCase struct {
	rows   ports.RowStore
	blobs  ports.BlobStorage
	cache  ports.DatasetCache
	audit  ports.AuditLog       // optional
	events ports.EventPublisher // optional
}

func NewSubmitUseCase(
	rows ports.RowStore,
	blobs ports.BlobStorage,
	cache ports.DatasetCache,
	audit ports.AuditLog,
	events ports.EventPublisher,
) *SubmitUseCase {
	return &SubmitUseCase{
		rows:   rows,
		blobs:  blobs,
		cache:  cache,
		audit:  audit,
		events: events,
	}
}

func (uc *SubmitUseCase) Create(
	ctx context.Context,
	sub domain.Submission,
	uploads []ports.Upload,
	actor domain.Identity,
) (int, error) {
	rec, err := uc.assemble(ctx, sub, uploads, actor, true)
	if err != nil {
		return 0, err
	}

	id, err := uc.rows.AppendRow(ctx, rec)
	if err != nil {
		return 0, domain.WrapError(domain.ErrUpstream, "append row", err)
	}

	uc.afterWrite(ctx, domain.ActionCreate, strconv.Itoa(id), "", actor)
	return id, nil
}

func (uc *SubmitUseCase) Update(
	ctx context.Context,
	id string,
	sub domain.Submission,
	uploads []ports.Upload,
	actor domain.Identity,
) error {
	if id == "" {
		return domain.WrapError(domain.ErrValidation, "update", errors.New("serial number is required"))
	}

	rec, err := uc.assemble(ctx, sub, uploads, actor, false)
	if err != nil {
		return err
	}

	// Identifier is immutable; never part of the partial payload.
	delete(rec, domain.IdentifierHeader)

	if err := uc.rows.UpdateRow(ctx, id, rec); err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return err
		}
		return domain.WrapError(domain.ErrUpstream, "update row", err)
	}

	uc.afterWrite(ctx, domain.ActionUpdate, id, "", actor)
	return nil
}

// assemble transcodes the submission and runs the upload sequence,
// overwriting each slot's header with the returned URL. Validation happens
// before the first upload call.
func (uc *SubmitUseCase) assemble(
	ctx context.Context,
	sub domain.Submission,
	uploads []ports.Upload,
	actor domain.Identity,
	create bool,
) (domain.Record, error) {
	headers, err := uc.rows.ListHeaders(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "list headers", err)
	}
	schema, err := domain.InferSchema(headers, nil)
	if err != nil {
		return nil, err
	}

	rec := domain.ToRecord(sub, schema.Headers, actor)

	if create && sub.CollectedByMode == domain.CollectorOther {
		if h, hasCollector := collectedByPresent(schema.Headers); hasCollector && rec[h] == "" {
			return nil, domain.WrapError(domain.ErrValidation, "submit", errors.New("collector name is required"))
		}
	}

	passportNo := rec.PassportNumber()
	if len(uploads) > 0 && passportNo == "" {
		return nil, domain.WrapError(domain.ErrValidation, "submit", errors.New("identifier required for uploads"))
	}

	byTag := make(map[string]ports.Upload, len(uploads))
	for _, u := range uploads {
		if _, ok := domain.SlotByTag(u.Slot); !ok {
			return nil, domain.WrapError(domain.ErrValidation, "submit", fmt.Errorf("unknown document slot %q", u.Slot))
		}
		byTag[u.Slot] = u
	}

	for _, slot := range domain.DocumentSlots {
		u, ok := byTag[slot.Tag]
		if !ok {
			continue
		}
		name := domain.UploadFilename(passportNo, slot.Tag, u.ContentType)
		slog.Info("uploading document", "slot", slot.Tag, "filename", name)
		ref, err := uc.blobs.Put(ctx, u.Data, name, slot.Folder)
		if err != nil {
			return nil, domain.WrapError(domain.ErrUpstream, "upload "+slot.Tag, err)
		}
		rec[slot.Header] = ref.URL
	}

	return rec, nil
}

// afterWrite invalidates the listing cache and emits the best-effort audit
// entry and change event. Neither failure blocks the submission.
func (uc *SubmitUseCase) afterWrite(ctx context.Context, action, id, header string, actor domain.Identity) {
	uc.cache.Invalidate()

	now := time.Now().UTC()
	if uc.audit != nil {
		entry := domain.AuditEntry{
			ID:       uuid.NewString(),
			Actor:    actor.Username,
			Action:   action,
			RecordID: id,
			Header:   header,
			At:       now,
		}
		if err := uc.audit.RecordChange(ctx, entry); err != nil {
			slog.Warn("audit write failed", "action", action, "record_id", id, "error", err)
		}
	}
	if uc.events != nil {
		change := domain.RecordChange{Action: action, RecordID: id, Actor: actor.Username, At: now}
		if err := uc.events.PublishRecordChange(ctx, change); err != nil {
			slog.Warn("change event publish failed", "action", action, "record_id", id, "error", err)
		}
	}
}

func collectedByPresent(headers []string) (string, bool) {
	for _, h := range headers {
		if domain.Classify(h).OtherOption {
			return h, true
		}
	}
	return "", false
}
