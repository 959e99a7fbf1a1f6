package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

// maxStandaloneUploadBytes bounds a single ad-hoc upload.
const maxStandaloneUploadBytes = 16 << 20

// uploads exposes the blob store directly for ad-hoc files that are not
// tied to a record submission. The response keys match what form clients
// already consume from the submission flow.
func (rt *Router) uploads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadFile(w, r)
	case http.MethodDelete:
		rt.deleteFile(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStandaloneUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	filename := r.FormValue("fileName")
	if filename == "" {
		filename = fileHeader.Filename
	}
	if filename == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file name is required"})
		return
	}

	ref, err := rt.blobs.Put(r.Context(), file, filename, r.FormValue("folder"))
	if err != nil {
		rt.httpMetrics.RecordUpload(rt.service, "adhoc", "error")
		writeError(w, r, domain.WrapError(domain.ErrUpstream, "upload file", err))
		return
	}

	rt.httpMetrics.RecordUpload(rt.service, "adhoc", "ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"fileId":      ref.ID,
		"webViewLink": ref.URL,
	})
}

func (rt *Router) deleteFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL      string `json:"url"`
		PublicID string `json:"publicId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	ref := req.URL
	if ref == "" {
		ref = req.PublicID
	}
	if ref == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url or publicId is required"})
		return
	}

	if err := rt.blobs.Delete(r.Context(), ref); err != nil {
		writeError(w, r, domain.WrapError(domain.ErrUpstream, "delete file", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
