package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"boardgov/contexts/board-governance/notification-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/notification-service/domain/errors"
	"boardgov/contexts/board-governance/notification-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) SavePreference(ctx context.Context, preference entities.Preference) error {
	row := preferenceModelFromEntity(preference)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"email_enabled":    row.EmailEnabled,
			"muted_categories": row.MutedCategories,
			"updated_at":       row.UpdatedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("notification_repo_save_preference_failed", err,
			"member_id", row.MemberID,
		)
	}
	return nil
}

func (r *Repository) GetPreference(ctx context.Context, memberID string) (entities.Preference, bool, error) {
	var row preferenceModel
	err := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Preference{}, false, nil
		}
		return entities.Preference{}, false, r.logError("notification_repo_get_preference_failed", err,
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveNotification(ctx context.Context, notification entities.Notification) error {
	row := notificationModelFromEntity(notification)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":     row.Status,
			"attempts":   row.Attempts,
			"last_error": row.LastError,
			"updated_at": row.UpdatedAt,
			"sent_at":    row.SentAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("notification_repo_save_notification_failed", create.Error,
			"notification_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetNotification(ctx context.Context, notificationID string) (entities.Notification, error) {
	var row notificationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(notificationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Notification{}, domainerrors.ErrNotificationNotFound
		}
		return entities.Notification{}, r.logError("notification_repo_get_notification_failed", err,
			"notification_id", strings.TrimSpace(notificationID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPendingNotifications(ctx context.Context, limit int) ([]entities.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []notificationModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.NotificationStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("notification_repo_list_pending_failed", err)
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListNotificationsByMember(ctx context.Context, memberID string) ([]entities.Notification, error) {
	var rows []notificationModel
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", strings.TrimSpace(memberID)).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("notification_repo_list_by_member_failed", err,
			"member_id", strings.TrimSpace(memberID),
		)
	}
	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListBoardMembers(ctx context.Context) ([]ports.BoardMember, error) {
	var rows []boardMemberModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("notification_repo_list_members_failed", err)
	}
	items := make([]ports.BoardMember, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.BoardMember{
			MemberID:    row.ID,
			Email:       row.Email,
			DisplayName: row.DisplayName,
		})
	}
	return items, nil
}

func (r *Repository) GetBoardMember(ctx context.Context, memberID string) (ports.BoardMember, bool, error) {
	var row boardMemberModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(memberID)).
		Where("active = ?", true).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.BoardMember{}, false, nil
		}
		return ports.BoardMember{}, false, r.logError("notification_repo_get_member_failed", err,
			"member_id", strings.TrimSpace(memberID),
		)
	}
	return ports.BoardMember{
		MemberID:    row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
	}, true, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "board-governance/notification-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("notification repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.PreferenceRepository = (*Repository)(nil)
var _ ports.NotificationRepository = (*Repository)(nil)
var _ ports.MemberDirectory = (*Repository)(nil)
