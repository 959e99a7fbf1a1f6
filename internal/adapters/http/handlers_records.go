package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/travelops/traveler-registry/internal/core/domain"
	"github.com/travelops/traveler-registry/internal/core/ports"
)

// maxSubmissionBytes bounds a create/update body including all eight
// document slots.
const maxSubmissionBytes = 64 << 20

func (rt *Router) records(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.listRecords(w, r)
	case http.MethodPost:
		rt.createRecord(w, r)
	case http.MethodPut:
		rt.updateRecord(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) listRecords(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		rt.writeSingleRecord(w, r, id)
		return
	}

	q := ports.ListQuery{Search: strings.TrimSpace(r.URL.Query().Get("search"))}
	if v := r.URL.Query().Get("page"); v != "" {
		q.Page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}

	page, err := rt.lister.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The classification of each header rides along so the client can
	// render columns and the dynamic form from one response.
	var fields []domain.Field
	if schema, err := rt.lister.Schema(r.Context()); err == nil {
		fields = schema.Fields()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":    page.Data,
		"headers": page.Headers,
		"meta":    page.Meta,
		"fields":  fields,
	})
}

func (rt *Router) recordByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/records/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	rt.writeSingleRecord(w, r, id)
}

func (rt *Router) writeSingleRecord(w http.ResponseWriter, r *http.Request, id string) {
	rec, headers, err := rt.lister.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	actor := identityFromContext(r.Context())
	sub := domain.ToSubmission(rec, headers, actor)
	writeJSON(w, http.StatusOK, map[string]any{
		"record":           rec,
		"fields":           submissionFields(sub),
		"collectedBy":      sub.CollectedByMode,
		"collectedByOther": sub.CollectedByOther,
	})
}

func (rt *Router) recordSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	schema, err := rt.lister.Schema(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"headers":   schema.Headers,
		"fields":    schema.EditableFields(),
		"documents": schema.DocumentFields(),
	})
}

func (rt *Router) createRecord(w http.ResponseWriter, r *http.Request) {
	_, sub, uploads, err := rt.parseSubmission(r)
	if err != nil {
		rt.httpMetrics.RecordSubmission(rt.service, "create", "invalid")
		writeError(w, r, err)
		return
	}
	defer closeUploads(uploads)

	actor := identityFromContext(r.Context())
	id, err := rt.submitter.Create(r.Context(), sub, uploads, actor)
	if err != nil {
		rt.httpMetrics.RecordSubmission(rt.service, "create", "error")
		rt.recordUploadOutcomes(uploads, "error")
		writeError(w, r, err)
		return
	}

	rt.httpMetrics.RecordSubmission(rt.service, "create", "ok")
	rt.recordUploadOutcomes(uploads, "ok")
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "slNo": id})
}

func (rt *Router) updateRecord(w http.ResponseWriter, r *http.Request) {
	id, sub, uploads, err := rt.parseSubmission(r)
	if err != nil {
		rt.httpMetrics.RecordSubmission(rt.service, "update", "invalid")
		writeError(w, r, err)
		return
	}
	defer closeUploads(uploads)

	actor := identityFromContext(r.Context())
	if err := rt.submitter.Update(r.Context(), id, sub, uploads, actor); err != nil {
		rt.httpMetrics.RecordSubmission(rt.service, "update", "error")
		rt.recordUploadOutcomes(uploads, "error")
		writeError(w, r, err)
		return
	}

	rt.httpMetrics.RecordSubmission(rt.service, "update", "ok")
	rt.recordUploadOutcomes(uploads, "ok")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "slNo": id})
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		SlNo   string `json:"slNo"`
		Header string `json:"header"`
		URL    string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	actor := identityFromContext(r.Context())
	if err := rt.remover.DeleteDocument(r.Context(), req.SlNo, req.Header, req.URL, actor); err != nil {
		rt.httpMetrics.RecordDocumentDelete(rt.service, "error")
		writeError(w, r, err)
		return
	}

	rt.httpMetrics.RecordDocumentDelete(rt.service, "ok")
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type submissionBody struct {
	SlNo             string            `json:"slNo"`
	Fields           map[string]string `json:"fields"`
	CollectedBy      string            `json:"collectedBy"`
	CollectedByOther string            `json:"collectedByOther"`
}

// parseSubmission accepts either a JSON body (no attachments) or a
// multipart form carrying positional field_<index> values plus files keyed
// by document slot tag.
func (rt *Router) parseSubmission(r *http.Request) (string, domain.Submission, []ports.Upload, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxSubmissionBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return rt.parseMultipartSubmission(r)
	}

	var body submissionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", domain.Submission{}, nil, domain.WrapError(domain.ErrValidation, "parse submission", err)
	}

	sub := domain.Submission{
		Fields:           make(map[int]string, len(body.Fields)),
		CollectedByMode:  body.CollectedBy,
		CollectedByOther: body.CollectedByOther,
	}
	for key, value := range body.Fields {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return "", domain.Submission{}, nil, domain.WrapError(domain.ErrValidation, "parse submission",
				fmt.Errorf("invalid field index %q", key))
		}
		sub.Fields[idx] = value
	}
	return body.SlNo, sub, nil, nil
}

func (rt *Router) parseMultipartSubmission(r *http.Request) (string, domain.Submission, []ports.Upload, error) {
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		return "", domain.Submission{}, nil, domain.WrapError(domain.ErrValidation, "parse multipart form", err)
	}

	sub := domain.Submission{
		Fields:           make(map[int]string),
		CollectedByMode:  r.FormValue("collected_by"),
		CollectedByOther: r.FormValue("collected_by_other"),
	}
	for key, values := range r.MultipartForm.Value {
		if !strings.HasPrefix(key, "field_") || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(key, "field_"))
		if err != nil || idx < 0 {
			continue
		}
		sub.Fields[idx] = values[0]
	}

	var uploads []ports.Upload
	for _, slot := range domain.DocumentSlots {
		headers := r.MultipartForm.File[slot.Tag]
		if len(headers) == 0 {
			continue
		}
		file, err := headers[0].Open()
		if err != nil {
			closeUploads(uploads)
			return "", domain.Submission{}, nil, domain.WrapError(domain.ErrValidation, "open upload "+slot.Tag, err)
		}
		uploads = append(uploads, ports.Upload{
			Slot:        slot.Tag,
			Filename:    headers[0].Filename,
			ContentType: headers[0].Header.Get("Content-Type"),
			Data:        file,
		})
	}

	return r.FormValue("slNo"), sub, uploads, nil
}

// closeUploads releases multipart file handles once the submission is done
// with them instead of waiting for the form cleanup.
func closeUploads(uploads []ports.Upload) {
	for _, u := range uploads {
		if c, ok := u.Data.(io.Closer); ok {
			c.Close()
		}
	}
}

func (rt *Router) recordUploadOutcomes(uploads []ports.Upload, status string) {
	for _, u := range uploads {
		rt.httpMetrics.RecordUpload(rt.service, u.Slot, status)
	}
}

// submissionFields re-keys positional values as strings for JSON, matching
// the shape accepted back on submit.
func submissionFields(sub domain.Submission) map[string]string {
	out := make(map[string]string, len(sub.Fields))
	for idx, value := range sub.Fields {
		out[strconv.Itoa(idx)] = value
	}
	return out
}
