package meetingservice

import (
	"log/slog"
	"time"

	httpadapter "boardgov/contexts/board-governance/meeting-service/adapters/http"
	"boardgov/contexts/board-governance/meeting-service/adapters/memory"
	"boardgov/contexts/board-governance/meeting-service/application/commands"
	"boardgov/contexts/board-governance/meeting-service/application/queries"
	"boardgov/contexts/board-governance/meeting-service/application/workers"
	"boardgov/contexts/board-governance/meeting-service/domain/entities"
	"boardgov/contexts/board-governance/meeting-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	Meetings       ports.MeetingRepository
	RSVPs          ports.RSVPRepository
	Minutes        ports.MinutesRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	OutboxRows     ports.OutboxRepository
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	RelayBatchSize int
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	meetingUseCase := commands.MeetingUseCase{
		Meetings:       deps.Meetings,
		RSVPs:          deps.RSVPs,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	minutesUseCase := commands.MinutesUseCase{
		Meetings:       deps.Meetings,
		Minutes:        deps.Minutes,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	queryUseCase := queries.MeetingUseCase{
		Meetings: deps.Meetings,
		RSVPs:    deps.RSVPs,
		Minutes:  deps.Minutes,
		Clock:    deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Meetings: meetingUseCase,
			Minutes:  minutesUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxRows,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.RelayBatchSize,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module onto a single in-memory store, for tests
// and local runs without postgres.
func NewInMemoryModule(seed []entities.Meeting, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Meetings:       store,
		RSVPs:          store,
		Minutes:        store,
		Idempotency:    store,
		Outbox:         store,
		OutboxRows:     store,
		Publisher:      publisher,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		RelayBatchSize: 100,
		Logger:         logger,
	})
	module.Store = store
	return module
}
