package notificationservice

import (
	"log/slog"

	httpadapter "boardgov/contexts/board-governance/notification-service/adapters/http"
	"boardgov/contexts/board-governance/notification-service/adapters/memory"
	"boardgov/contexts/board-governance/notification-service/application/commands"
	"boardgov/contexts/board-governance/notification-service/application/queries"
	"boardgov/contexts/board-governance/notification-service/application/workers"
	"boardgov/contexts/board-governance/notification-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Consumer workers.GovernanceEventConsumer
	Delivery workers.DeliveryWorker
	Store    *memory.Store
}

type Dependencies struct {
	Directory     ports.MemberDirectory
	Preferences   ports.PreferenceRepository
	Notifications ports.NotificationRepository
	Mailer        ports.Mailer
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	BatchSize     int
	MaxAttempts   int
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Preferences: commands.PreferenceUseCase{
				Preferences: deps.Preferences,
				Clock:       deps.Clock,
				Logger:      deps.Logger,
			},
			Queries: queries.NotificationUseCase{
				Preferences:   deps.Preferences,
				Notifications: deps.Notifications,
			},
			Logger: deps.Logger,
		},
		Consumer: workers.GovernanceEventConsumer{
			Directory:     deps.Directory,
			Preferences:   deps.Preferences,
			Notifications: deps.Notifications,
			Clock:         deps.Clock,
			IDGen:         deps.IDGen,
			Logger:        deps.Logger,
		},
		Delivery: workers.DeliveryWorker{
			Notifications: deps.Notifications,
			Directory:     deps.Directory,
			Mailer:        deps.Mailer,
			Clock:         deps.Clock,
			BatchSize:     deps.BatchSize,
			MaxAttempts:   deps.MaxAttempts,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module onto an in-memory store and the fake
// mailer, for tests and local runs without postgres or SMTP.
func NewInMemoryModule(roster []ports.BoardMember, mailer ports.Mailer, logger *slog.Logger) Module {
	store := memory.NewStore(roster)
	if mailer == nil {
		mailer = memory.NewFakeMailer()
	}
	module := NewModule(Dependencies{
		Directory:     store,
		Preferences:   store,
		Notifications: store,
		Mailer:        mailer,
		Clock:         store,
		IDGen:         store,
		BatchSize:     50,
		MaxAttempts:   3,
		Logger:        logger,
	})
	module.Store = store
	return module
}
