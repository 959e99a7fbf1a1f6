package cloudinary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/travelops/traveler-registry/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: 1,
		BreakerEnabled:   false,
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		BaseURL:   srv.URL,
	}, testExecutor())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, srv
}

func TestPutUploadsSignedMultipart(t *testing.T) {
	var gotPath string
	var form map[string]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				form[k] = v[0]
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.test/demo/image/upload/v1/passports/photos/M1_person.jpg","public_id":"passports/photos/M1_person"}`))
	})

	ref, err := client.Put(context.Background(), strings.NewReader("jpeg-bytes"), "M1_person.jpg", "photo")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if gotPath != "/v1_1/demo/auto/upload" {
		t.Errorf("upload path = %q", gotPath)
	}
	if form["folder"] != "passports/photos" {
		t.Errorf("folder = %q", form["folder"])
	}
	if form["public_id"] != "M1_person" {
		t.Errorf("public_id = %q, image extension must be stripped", form["public_id"])
	}
	if form["api_key"] != "key" || form["signature"] == "" || form["timestamp"] == "" {
		t.Errorf("missing auth fields: %v", form)
	}
	if ref.URL == "" || ref.ID != "passports/photos/M1_person" {
		t.Errorf("ref = %+v", ref)
	}
}

func TestPutKeepsPDFExtensionInPublicID(t *testing.T) {
	var publicID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		publicID = r.FormValue("public_id")
		_, _ = w.Write([]byte(`{"secure_url":"https://x.test/u.pdf","public_id":"u.pdf"}`))
	})

	if _, err := client.Put(context.Background(), strings.NewReader("pdf"), "M1_medical.pdf", "medical"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if publicID != "M1_medical.pdf" {
		t.Errorf("public_id = %q, PDFs must keep their extension", publicID)
	}
}

func TestPutRejectsEmptyPayload(t *testing.T) {
	client, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) {})
	if _, err := client.Put(context.Background(), strings.NewReader(""), "x.jpg", "photo"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestPutSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid signature"}}`))
	})

	_, err := client.Put(context.Background(), strings.NewReader("x"), "x.jpg", "photo")
	if err == nil || !strings.Contains(err.Error(), "Invalid signature") {
		t.Fatalf("error = %v", err)
	}
}

func TestDeleteDerivesPublicIDFromURL(t *testing.T) {
	var gotPath, publicID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseMultipartForm(1 << 20)
		publicID = r.FormValue("public_id")
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})

	url := "https://res.cloudinary.test/demo/image/upload/v123/passports/photos/M1_person.jpg"
	if err := client.Delete(context.Background(), url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotPath != "/v1_1/demo/image/destroy" {
		t.Errorf("destroy path = %q", gotPath)
	}
	if publicID != "passports/photos/M1_person" {
		t.Errorf("public_id = %q", publicID)
	}
}

func TestDeleteTreatsNotFoundAsSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"not found"}`))
	})
	if err := client.Delete(context.Background(), "passports/photos/gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://x.test/demo/image/upload/v12/passports/photos/M1_person.jpg", "passports/photos/M1_person"},
		{"https://x.test/demo/image/upload/passports/medical/M1_medical.pdf", "passports/medical/M1_medical.pdf"},
		{"https://x.test/demo/image/upload/v1/plain", "plain"},
	}
	for _, tc := range cases {
		got, err := PublicIDFromURL(tc.url)
		if err != nil {
			t.Errorf("PublicIDFromURL(%q) error = %v", tc.url, err)
			continue
		}
		if got != tc.want {
			t.Errorf("PublicIDFromURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}

	if _, err := PublicIDFromURL("https://x.test/no-upload-segment.jpg"); err == nil {
		t.Errorf("expected error for URL without upload segment")
	}
}

func TestFolderFor(t *testing.T) {
	cases := map[string]string{
		"photo":    "passports/photos",
		"copy":     "passports/copies",
		"adhar":    "passports/adhar",
		"pancard":  "passports/pancard",
		"passbook": "passports/passbook",
		"medical":  "passports/medical",
		"":         "passports",
	}
	for in, want := range cases {
		if got := folderFor(in); got != want {
			t.Errorf("folderFor(%q) = %q, want %q", in, got, want)
		}
	}
}
