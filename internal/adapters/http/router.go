package httpadapter

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/travelops/traveler-registry/internal/core/ports"
	"github.com/travelops/traveler-registry/internal/observability/metrics"
)

type Router struct {
	service string

	lister    ports.RecordLister
	submitter ports.RecordSubmitter
	remover   ports.DocumentRemover
	auth      ports.Authenticator
	blobs     ports.BlobStorage
	tokens    ports.TokenSource

	httpMetrics  *metrics.HTTPServerMetrics
	loginLimiter *rate.Limiter
	sessionTTL   time.Duration
	validator    func(http.Handler) http.Handler
}

type RouterConfig struct {
	Service string
	// LoginRatePerMinute bounds password attempts across all clients.
	LoginRatePerMinute int
	SessionTTL         time.Duration
}

func NewRouter(
	cfg RouterConfig,
	lister ports.RecordLister,
	submitter ports.RecordSubmitter,
	remover ports.DocumentRemover,
	auth ports.Authenticator,
	blobs ports.BlobStorage,
	tokens ports.TokenSource,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	perMinute := cfg.LoginRatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	service := cfg.Service
	if service == "" {
		service = "traveler-registry"
	}
	return &Router{
		service:      service,
		lister:       lister,
		submitter:    submitter,
		remover:      remover,
		auth:         auth,
		blobs:        blobs,
		tokens:       tokens,
		httpMetrics:  httpMetrics,
		loginLimiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		sessionTTL:   sessionTTL,
		validator:    newRequestValidator(),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.httpMetrics.Handler())

	mux.HandleFunc("/login", rt.login)
	mux.HandleFunc("/logout", rt.logout)
	mux.HandleFunc("/session", rt.session)

	mux.HandleFunc("/records", rt.records)
	mux.HandleFunc("/records/schema", rt.recordSchema)
	mux.HandleFunc("/records/document", rt.deleteDocument)
	mux.HandleFunc("/records/", rt.recordByID)

	mux.HandleFunc("/uploads", rt.uploads)
	mux.HandleFunc("/", rt.index)

	var handler http.Handler = mux
	if rt.validator != nil {
		handler = rt.validator(handler)
	}
	handler = rt.sessionMiddleware(handler)
	handler = rt.httpMetrics.Middleware(rt.service, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// index sends the bare root to the listing; anything else is unknown.
func (rt *Router) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	http.Redirect(w, r, "/records", http.StatusFound)
}
