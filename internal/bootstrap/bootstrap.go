package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/travelops/traveler-registry/internal/config"
	"github.com/travelops/traveler-registry/internal/core/domain"
	"github.com/travelops/traveler-registry/internal/core/ports"
	"github.com/travelops/traveler-registry/internal/core/usecase"
	"github.com/travelops/traveler-registry/internal/infrastructure/cache/memory"
	"github.com/travelops/traveler-registry/internal/infrastructure/media/cloudinary"
	"github.com/travelops/traveler-registry/internal/infrastructure/queue/nats"
	"github.com/travelops/traveler-registry/internal/infrastructure/repository/postgres"
	"github.com/travelops/traveler-registry/internal/infrastructure/resilience"
	"github.com/travelops/traveler-registry/internal/infrastructure/rowstore/excel"
	"github.com/travelops/traveler-registry/internal/infrastructure/session"
)

type App struct {
	Config config.Config

	Lister    ports.RecordLister
	Submitter ports.RecordSubmitter
	Remover   ports.DocumentRemover
	Auth      ports.Authenticator
	Blobs     ports.BlobStorage
	Tokens    ports.TokenSource

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.ChoicesPath != "" {
		overrides, err := config.LoadChoices(cfg.ChoicesPath)
		if err != nil {
			return nil, fmt.Errorf("load choice overrides: %w", err)
		}
		domain.ApplyChoiceOverrides(overrides)
	}

	store, err := excel.New(cfg.WorkbookPath, excel.Options{
		DataSheet: cfg.DataSheet,
		CredSheet: cfg.CredSheet,
	})
	if err != nil {
		return nil, fmt.Errorf("open row store: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	blobs, err := cloudinary.NewClient(cloudinary.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		BaseURL:   cfg.CloudinaryBaseURL,
		Timeout:   time.Duration(cfg.UpstreamTimeoutSeconds) * time.Second,
	}, executor)
	if err != nil {
		return nil, fmt.Errorf("init media host: %w", err)
	}

	tokens, err := session.NewManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("init session manager: %w", err)
	}

	datasetCache := memory.NewDatasetCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, nil)

	var closers []func()

	var audit ports.AuditLog
	if cfg.AuditDSN != "" {
		db, err := postgres.OpenDB(cfg.AuditDSN, 0)
		if err != nil {
			return nil, fmt.Errorf("open audit db: %w", err)
		}
		repo := postgres.NewAuditRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure audit schema: %w", err)
		}
		audit = repo
		closers = append(closers, func() { _ = db.Close() })
	}

	var events ports.EventPublisher
	if cfg.NATSURL != "" {
		publisher, err := nats.NewPublisher(cfg.NATSURL, cfg.NATSSubject, nats.Options{Executor: executor})
		if err != nil {
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
		closers = append(closers, publisher.Close)
	}

	if audit == nil {
		slog.Info("audit log disabled")
	}
	if events == nil {
		slog.Info("change events disabled")
	}

	return &App{
		Config: cfg,

		Lister:    usecase.NewListRecordsUseCase(store, datasetCache),
		Submitter: usecase.NewSubmitUseCase(store, blobs, datasetCache, audit, events),
		Remover:   usecase.NewDeleteDocumentUseCase(store, blobs, datasetCache, audit, events),
		Auth:      usecase.NewLoginUseCase(store, tokens),
		Blobs:     blobs,
		Tokens:    tokens,

		closeFn: func() {
			for _, close := range closers {
				close()
			}
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
