package usecase

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

type fakeRowStore struct {
	headers []string
	rows    []domain.Record

	headersErr error
	rowsErr    error
	appendErr  error
	updateErr  error

	appended     []domain.Record
	lastUpdateID string
	lastUpdate   domain.Record
}

func (f *fakeRowStore) ListHeaders(context.Context) ([]string, error) {
	return f.headers, f.headersErr
}

func (f *fakeRowStore) ListRows(context.Context) ([]domain.Record, error) {
	return f.rows, f.rowsErr
}

func (f *fakeRowStore) AppendRow(_ context.Context, rec domain.Record) (int, error) {
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	maxSl := 0
	for _, r := range f.rows {
		if n, err := strconv.Atoi(r.Identifier()); err == nil && n > maxSl {
			maxSl = n
		}
	}
	f.appended = append(f.appended, rec)
	return maxSl + 1, nil
}

func (f *fakeRowStore) UpdateRow(_ context.Context, id string, partial domain.Record) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.lastUpdateID = id
	f.lastUpdate = partial
	return nil
}

type fakeBlobStore struct {
	putErr    error
	failSlot  string
	deleteErr error

	puts    []string
	deleted []string
}

func (f *fakeBlobStore) Put(_ context.Context, data io.Reader, filename, category string) (domain.BlobRef, error) {
	if f.putErr != nil {
		return domain.BlobRef{}, f.putErr
	}
	if f.failSlot != "" && category == f.failSlot {
		return domain.BlobRef{}, errors.New("upload rejected")
	}
	_, _ = io.ReadAll(data)
	f.puts = append(f.puts, filename)
	return domain.BlobRef{ID: filename, URL: "https://blobs.test/" + category + "/" + filename}, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, refOrURL string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, refOrURL)
	return nil
}

type fakeCache struct {
	rows        []domain.Record
	present     bool
	gets        int
	sets        int
	invalidated int
}

func (f *fakeCache) Get() ([]domain.Record, bool) {
	f.gets++
	return f.rows, f.present
}

func (f *fakeCache) Set(rows []domain.Record) {
	f.sets++
	f.rows = rows
	f.present = true
}

func (f *fakeCache) Invalidate() {
	f.invalidated++
	f.rows = nil
	f.present = false
}

type fakeAudit struct {
	err     error
	entries []domain.AuditEntry
}

func (f *fakeAudit) RecordChange(_ context.Context, entry domain.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fakeEvents struct {
	err     error
	changes []domain.RecordChange
}

func (f *fakeEvents) PublishRecordChange(_ context.Context, change domain.RecordChange) error {
	if f.err != nil {
		return f.err
	}
	f.changes = append(f.changes, change)
	return nil
}

type fakeCredentialSource struct {
	creds []domain.Credential
	err   error
}

func (f *fakeCredentialSource) ListCredentials(context.Context) ([]domain.Credential, error) {
	return f.creds, f.err
}

type fakeTokenSource struct {
	issueErr error
}

func (f *fakeTokenSource) Issue(id domain.Identity) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return "token-" + id.Username, nil
}

func (f *fakeTokenSource) Verify(string) (domain.Identity, error) {
	return domain.Identity{}, errors.New("not implemented")
}
