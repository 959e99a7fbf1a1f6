package httpadapter

import (
	_ "embed"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var openapiSpec []byte

// newRequestValidator checks JSON requests against the embedded contract
// before they reach a handler. Multipart bodies are streamed straight to the
// handlers, and paths outside the contract pass through untouched. A broken
// embedded document disables validation rather than the whole service.
func newRequestValidator() func(http.Handler) http.Handler {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		slog.Error("load openapi document", "error", err)
		return nil
	}
	if err := doc.Validate(loader.Context); err != nil {
		slog.Error("validate openapi document", "error", err)
		return nil
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		slog.Error("build openapi router", "error", err)
		return nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if mediaType == "multipart/form-data" {
				next.ServeHTTP(w, r)
				return
			}

			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
					slog.Warn("openapi route lookup failed", "path", r.URL.Path, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				var reqErr *openapi3filter.RequestError
				if errors.As(err, &reqErr) {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": reqErr.Error()})
					return
				}
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request does not match contract"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
