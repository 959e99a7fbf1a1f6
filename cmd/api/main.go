package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/travelops/traveler-registry/internal/adapters/http"
	"github.com/travelops/traveler-registry/internal/bootstrap"
	"github.com/travelops/traveler-registry/internal/config"
	"github.com/travelops/traveler-registry/internal/observability/logging"
	"github.com/travelops/traveler-registry/internal/observability/metrics"
)

const serviceName = "traveler-registry"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	router := httpadapter.NewRouter(
		httpadapter.RouterConfig{
			Service:            serviceName,
			LoginRatePerMinute: cfg.LoginRatePerMinute,
			SessionTTL:         time.Duration(cfg.SessionTTLHours) * time.Hour,
		},
		app.Lister,
		app.Submitter,
		app.Remover,
		app.Auth,
		app.Blobs,
		app.Tokens,
		httpMetrics,
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Fatalf("listen error: %v", err)
	}
	if cfg.MaxConns > 0 {
		listener = netutil.LimitListener(listener, cfg.MaxConns)
	}

	go func() {
		slog.Info("api listening", "addr", server.Addr, "max_conns", cfg.MaxConns)
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api shutdown error", "error", err)
	}
}
