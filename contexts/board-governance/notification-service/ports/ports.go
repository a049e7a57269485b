package ports

import (
	"context"
	"time"

	"boardgov/contexts/board-governance/notification-service/domain/entities"
	"boardgov/internal/shared/events"
)

// EventEnvelope aliases the shared envelope so application code stays inside
// module boundaries.
type EventEnvelope = events.Envelope

// BoardMember is a roster entry from the member directory.
type BoardMember struct {
	MemberID    string
	Email       string
	DisplayName string
}

// MemberDirectory exposes the board roster notifications fan out to.
type MemberDirectory interface {
	ListBoardMembers(ctx context.Context) ([]BoardMember, error)
	GetBoardMember(ctx context.Context, memberID string) (BoardMember, bool, error)
}

type PreferenceRepository interface {
	SavePreference(ctx context.Context, preference entities.Preference) error
	// GetPreference returns found=false when the member has never saved one;
	// callers fall back to the default preference.
	GetPreference(ctx context.Context, memberID string) (entities.Preference, bool, error)
}

type NotificationRepository interface {
	SaveNotification(ctx context.Context, notification entities.Notification) error
	GetNotification(ctx context.Context, notificationID string) (entities.Notification, error)
	ListPendingNotifications(ctx context.Context, limit int) ([]entities.Notification, error)
	ListNotificationsByMember(ctx context.Context, memberID string) ([]entities.Notification, error)
}

// Mailer is the outbound email transport.
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// Subscriber registers a consumer-group handler on a governance topic.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
