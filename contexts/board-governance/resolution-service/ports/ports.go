package ports

import (
	"context"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	"boardgov/internal/shared/events"
)

// EventEnvelope aliases the shared envelope so application code stays inside
// module boundaries.
type EventEnvelope = events.Envelope

type ResolutionRepository interface {
	SaveResolution(ctx context.Context, resolution entities.Resolution) error
	GetResolution(ctx context.Context, resolutionID string) (entities.Resolution, error)
	ListResolutionsByStatus(ctx context.Context, status entities.ResolutionStatus) ([]entities.Resolution, error)
}

type BallotRepository interface {
	SaveBallot(ctx context.Context, ballot entities.Ballot) error
	GetBallot(ctx context.Context, ballotID string) (entities.Ballot, error)
	GetBallotByVoter(ctx context.Context, resolutionID string, voterID string) (entities.Ballot, bool, error)
	// ListBallotsByResolution returns ballots in insertion order for audit
	// display; the tally itself is order-independent.
	ListBallotsByResolution(ctx context.Context, resolutionID string) ([]entities.Ballot, error)
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	EntityID    string
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
