package ports

import (
	"context"
	"time"

	"boardgov/contexts/board-governance/meeting-service/domain/entities"
	"boardgov/internal/shared/events"
)

// EventEnvelope aliases the shared envelope so application code stays inside
// module boundaries.
type EventEnvelope = events.Envelope

type MeetingRepository interface {
	SaveMeeting(ctx context.Context, meeting entities.Meeting) error
	GetMeeting(ctx context.Context, meetingID string) (entities.Meeting, error)
	// ListUpcomingMeetings returns scheduled meetings at or after the given
	// instant, soonest first.
	ListUpcomingMeetings(ctx context.Context, from time.Time) ([]entities.Meeting, error)
}

type RSVPRepository interface {
	SaveRSVP(ctx context.Context, rsvp entities.RSVP) error
	GetRSVPByMember(ctx context.Context, meetingID string, memberID string) (entities.RSVP, bool, error)
	ListRSVPsByMeeting(ctx context.Context, meetingID string) ([]entities.RSVP, error)
}

type MinutesRepository interface {
	SaveMinutes(ctx context.Context, minutes entities.Minutes) error
	GetMinutes(ctx context.Context, minutesID string) (entities.Minutes, error)
	GetMinutesByMeeting(ctx context.Context, meetingID string) (entities.Minutes, bool, error)
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
