package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"boardgov/contexts/board-governance/meeting-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/meeting-service/domain/errors"
	"boardgov/contexts/board-governance/meeting-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SaveMeeting(ctx context.Context, meeting entities.Meeting) error {
	row := meetingModelFromEntity(meeting)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":        row.Title,
			"scheduled_at": row.ScheduledAt,
			"location":     row.Location,
			"agenda":       row.Agenda,
			"status":       row.Status,
			"updated_at":   row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("meeting_repo_save_meeting_failed", create.Error,
			"meeting_id", strings.TrimSpace(meeting.MeetingID),
		)
	}
	return nil
}

func (r *Repository) GetMeeting(ctx context.Context, meetingID string) (entities.Meeting, error) {
	var row meetingModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(meetingID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Meeting{}, domainerrors.ErrMeetingNotFound
		}
		return entities.Meeting{}, r.logError("meeting_repo_get_meeting_failed", err,
			"meeting_id", strings.TrimSpace(meetingID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListUpcomingMeetings(ctx context.Context, from time.Time) ([]entities.Meeting, error) {
	var rows []meetingModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.MeetingStatusScheduled)).
		Where("scheduled_at >= ?", from.UTC()).
		Order("scheduled_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("meeting_repo_list_upcoming_failed", err)
	}
	items := make([]entities.Meeting, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveRSVP(ctx context.Context, rsvp entities.RSVP) error {
	row := rsvpModelFromEntity(rsvp)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"reply":      row.Reply,
			"note":       row.Note,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		// The (meeting_id, member_id) unique index backs the one-reply-per
		// -member invariant under concurrent requests.
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("meeting_repo_save_rsvp_failed", create.Error,
			"rsvp_id", strings.TrimSpace(rsvp.RSVPID),
			"meeting_id", strings.TrimSpace(rsvp.MeetingID),
		)
	}
	return nil
}

func (r *Repository) GetRSVPByMember(
	ctx context.Context,
	meetingID string,
	memberID string,
) (entities.RSVP, bool, error) {
	var row rsvpModel
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", strings.TrimSpace(meetingID)).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RSVP{}, false, nil
		}
		return entities.RSVP{}, false, r.logError("meeting_repo_get_rsvp_failed", err,
			"meeting_id", strings.TrimSpace(meetingID),
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListRSVPsByMeeting(ctx context.Context, meetingID string) ([]entities.RSVP, error) {
	var rows []rsvpModel
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", strings.TrimSpace(meetingID)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("meeting_repo_list_rsvps_failed", err,
			"meeting_id", strings.TrimSpace(meetingID),
		)
	}
	items := make([]entities.RSVP, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveMinutes(ctx context.Context, minutes entities.Minutes) error {
	row := minutesModelFromEntity(minutes)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"content":      row.Content,
			"status":       row.Status,
			"submitted_by": row.SubmittedBy,
			"approved_by":  row.ApprovedBy,
			"submitted_at": row.SubmittedAt,
			"approved_at":  row.ApprovedAt,
			"updated_at":   row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		// One minutes document per meeting, enforced by a unique index.
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("meeting_repo_save_minutes_failed", create.Error,
			"minutes_id", strings.TrimSpace(minutes.MinutesID),
			"meeting_id", strings.TrimSpace(minutes.MeetingID),
		)
	}
	return nil
}

func (r *Repository) GetMinutes(ctx context.Context, minutesID string) (entities.Minutes, error) {
	var row minutesModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(minutesID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Minutes{}, domainerrors.ErrMinutesNotFound
		}
		return entities.Minutes{}, r.logError("meeting_repo_get_minutes_failed", err,
			"minutes_id", strings.TrimSpace(minutesID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetMinutesByMeeting(ctx context.Context, meetingID string) (entities.Minutes, bool, error) {
	var row minutesModel
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", strings.TrimSpace(meetingID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Minutes{}, false, nil
		}
		return entities.Minutes{}, false, r.logError("meeting_repo_get_minutes_by_meeting_failed", err,
			"meeting_id", strings.TrimSpace(meetingID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		Where("expires_at > ?", now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("meeting_repo_idempotency_get_failed", err,
			"key", strings.TrimSpace(key),
		)
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		EntityID:    row.EntityID,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: record.RequestHash,
		EntityID:    record.EntityID,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"request_hash": row.RequestHash,
			"entity_id":    row.EntityID,
			"expires_at":   row.ExpiresAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("meeting_repo_idempotency_put_failed", err,
			"key", row.Key,
		)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := marshalEnvelope(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("meeting_repo_outbox_append_failed", err,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("meeting_repo_outbox_list_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	ts := publishedAt.UTC()
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &ts,
		}).Error
	if err != nil {
		return r.logError("meeting_repo_outbox_mark_failed", err,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "board-governance/meeting-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("meeting repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.MeetingRepository = (*Repository)(nil)
var _ ports.RSVPRepository = (*Repository)(nil)
var _ ports.MinutesRepository = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
