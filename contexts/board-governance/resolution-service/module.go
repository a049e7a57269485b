package resolutionservice

import (
	"log/slog"
	"time"

	httpadapter "boardgov/contexts/board-governance/resolution-service/adapters/http"
	"boardgov/contexts/board-governance/resolution-service/adapters/memory"
	"boardgov/contexts/board-governance/resolution-service/application/commands"
	"boardgov/contexts/board-governance/resolution-service/application/queries"
	"boardgov/contexts/board-governance/resolution-service/application/workers"
	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	"boardgov/contexts/board-governance/resolution-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Completer workers.CompletionDetector
	Relay     workers.OutboxRelay
	Store     *memory.Store
}

type Dependencies struct {
	Resolutions    ports.ResolutionRepository
	Ballots        ports.BallotRepository
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
	resolutionUseCase := commands.ResolutionUseCase{
		Resolutions:    deps.Resolutions,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	ballotUseCase := commands.BallotUseCase{
		Resolutions:    deps.Resolutions,
		Ballots:        deps.Ballots,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	reportUseCase := queries.ReportUseCase{
		Resolutions: deps.Resolutions,
		Ballots:     deps.Ballots,
		Clock:       deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Resolutions: resolutionUseCase,
			Ballots:     ballotUseCase,
			Reports:     reportUseCase,
			Logger:      deps.Logger,
		},
		Completer: workers.CompletionDetector{
			Resolutions: deps.Resolutions,
			Ballots:     deps.Ballots,
			Outbox:      deps.Outbox,
			Clock:       deps.Clock,
			IDGen:       deps.IDGen,
			Logger:      deps.Logger,
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
func NewInMemoryModule(seed []entities.Resolution, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Resolutions:    store,
		Ballots:        store,
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
