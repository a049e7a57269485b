package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	meetingservice "boardgov/contexts/board-governance/meeting-service"
	meetingpostgres "boardgov/contexts/board-governance/meeting-service/adapters/postgres"
	meetingworkers "boardgov/contexts/board-governance/meeting-service/application/workers"
	notificationservice "boardgov/contexts/board-governance/notification-service"
	notificationpostgres "boardgov/contexts/board-governance/notification-service/adapters/postgres"
	smtpadapter "boardgov/contexts/board-governance/notification-service/adapters/smtp"
	notificationworkers "boardgov/contexts/board-governance/notification-service/application/workers"
	resolutionservice "boardgov/contexts/board-governance/resolution-service"
	resolutionpostgres "boardgov/contexts/board-governance/resolution-service/adapters/postgres"
	resolutionworkers "boardgov/contexts/board-governance/resolution-service/application/workers"
	"boardgov/internal/platform/config"
	"boardgov/internal/platform/db"
	"boardgov/internal/platform/httpserver"
	"boardgov/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	bus      *messaging.Bus

	completer       resolutionworkers.CompletionDetector
	resolutionRelay resolutionworkers.OutboxRelay
	meetingRelay    meetingworkers.OutboxRelay
	consumer        notificationworkers.GovernanceEventConsumer
	delivery        notificationworkers.DeliveryWorker

	enableCompleter bool
	enableConsumer  bool
	enableDelivery  bool

	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	resolutionRepo := resolutionpostgres.NewRepository(pg.DB, logger)
	resolutionModule := resolutionservice.NewModule(resolutionservice.Dependencies{
		Resolutions:    resolutionRepo,
		Ballots:        resolutionRepo,
		Idempotency:    resolutionRepo,
		Outbox:         resolutionRepo,
		OutboxRows:     resolutionRepo,
		Clock:          resolutionpostgres.SystemClock{},
		IDGen:          resolutionpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	meetingRepo := meetingpostgres.NewRepository(pg.DB, logger)
	meetingModule := meetingservice.NewModule(meetingservice.Dependencies{
		Meetings:       meetingRepo,
		RSVPs:          meetingRepo,
		Minutes:        meetingRepo,
		Idempotency:    meetingRepo,
		Outbox:         meetingRepo,
		OutboxRows:     meetingRepo,
		Clock:          meetingpostgres.SystemClock{},
		IDGen:          meetingpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	notificationModule := notificationservice.NewModule(notificationservice.Dependencies{
		Directory:     notificationRepo,
		Preferences:   notificationRepo,
		Notifications: notificationRepo,
		Mailer:        buildMailer(cfg),
		Clock:         notificationpostgres.SystemClock{},
		IDGen:         notificationpostgres.UUIDGenerator{},
		MaxAttempts:   cfg.NotificationMaxAttempts,
		Logger:        logger,
	})

	server := httpserver.New(
		resolutionModule,
		meetingModule,
		notificationModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)

	resolutionRepo := resolutionpostgres.NewRepository(pg.DB, logger)
	meetingRepo := meetingpostgres.NewRepository(pg.DB, logger)
	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		completer: resolutionworkers.CompletionDetector{
			Resolutions: resolutionRepo,
			Ballots:     resolutionRepo,
			Outbox:      resolutionRepo,
			Clock:       resolutionpostgres.SystemClock{},
			IDGen:       resolutionpostgres.UUIDGenerator{},
			Logger:      logger,
		},
		resolutionRelay: resolutionworkers.OutboxRelay{
			Outbox:    resolutionRepo,
			Publisher: bus,
			Clock:     resolutionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		meetingRelay: meetingworkers.OutboxRelay{
			Outbox:    meetingRepo,
			Publisher: bus,
			Clock:     meetingpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		consumer: notificationworkers.GovernanceEventConsumer{
			Directory:     notificationRepo,
			Preferences:   notificationRepo,
			Notifications: notificationRepo,
			Clock:         notificationpostgres.SystemClock{},
			IDGen:         notificationpostgres.UUIDGenerator{},
			Logger:        logger,
		},
		delivery: notificationworkers.DeliveryWorker{
			Notifications: notificationRepo,
			Directory:     notificationRepo,
			Mailer:        buildMailer(cfg),
			Clock:         notificationpostgres.SystemClock{},
			BatchSize:     50,
			MaxAttempts:   cfg.NotificationMaxAttempts,
			Logger:        logger,
		},
		enableCompleter: cfg.EnableCompletionDetector,
		enableConsumer:  cfg.EnableGovernanceConsumer,
		enableDelivery:  cfg.EnableDeliveryWorker,
		pollInterval:    cfg.WorkerPollInterval,
		logger:          logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.enableConsumer {
		if err := w.consumer.Register(ctx, w.bus); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"completion_detector", w.enableCompleter,
		"governance_consumer", w.enableConsumer,
		"delivery_worker", w.enableDelivery,
	)

	for {
		if w.enableCompleter {
			if err := w.completer.RunOnce(ctx); err != nil {
				return err
			}
		}
		if err := w.resolutionRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.meetingRelay.RunOnce(ctx); err != nil {
			return err
		}
		if w.enableDelivery {
			if err := w.delivery.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func buildMailer(cfg config.Config) *smtpadapter.Mailer {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil || port <= 0 {
		port = 587
	}
	return smtpadapter.NewMailer(cfg.SMTPHost, port, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
