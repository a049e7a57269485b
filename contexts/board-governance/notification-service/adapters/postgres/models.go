package postgresadapter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"boardgov/contexts/board-governance/notification-service/domain/entities"

	"github.com/google/uuid"
)

type preferenceModel struct {
	MemberID        string    `gorm:"column:member_id;primaryKey"`
	EmailEnabled    bool      `gorm:"column:email_enabled"`
	MutedCategories []byte    `gorm:"column:muted_categories"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (preferenceModel) TableName() string {
	return "notification_preferences"
}

func preferenceModelFromEntity(preference entities.Preference) preferenceModel {
	muted, _ := json.Marshal(preference.MutedCategories)
	return preferenceModel{
		MemberID:        strings.TrimSpace(preference.MemberID),
		EmailEnabled:    preference.EmailEnabled,
		MutedCategories: muted,
		UpdatedAt:       preference.UpdatedAt.UTC(),
	}
}

func (m preferenceModel) toEntity() entities.Preference {
	var muted []string
	if len(m.MutedCategories) > 0 {
		_ = json.Unmarshal(m.MutedCategories, &muted)
	}
	return entities.Preference{
		MemberID:        m.MemberID,
		EmailEnabled:    m.EmailEnabled,
		MutedCategories: muted,
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type notificationModel struct {
	ID        string     `gorm:"column:id;primaryKey"`
	MemberID  string     `gorm:"column:member_id"`
	Category  string     `gorm:"column:category"`
	Subject   string     `gorm:"column:subject"`
	Body      string     `gorm:"column:body"`
	Status    string     `gorm:"column:status"`
	Attempts  int        `gorm:"column:attempts"`
	LastError string     `gorm:"column:last_error"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(notification entities.Notification) notificationModel {
	row := notificationModel{
		ID:        strings.TrimSpace(notification.NotificationID),
		MemberID:  strings.TrimSpace(notification.MemberID),
		Category:  notification.Category,
		Subject:   notification.Subject,
		Body:      notification.Body,
		Status:    string(notification.Status),
		Attempts:  notification.Attempts,
		LastError: notification.LastError,
		CreatedAt: notification.CreatedAt.UTC(),
		UpdatedAt: notification.UpdatedAt.UTC(),
		SentAt:    normalizeOptionalTime(notification.SentAt),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m notificationModel) toEntity() entities.Notification {
	return entities.Notification{
		NotificationID: m.ID,
		MemberID:       m.MemberID,
		Category:       m.Category,
		Subject:        m.Subject,
		Body:           m.Body,
		Status:         entities.NotificationStatus(m.Status),
		Attempts:       m.Attempts,
		LastError:      m.LastError,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
		SentAt:         normalizeOptionalTime(m.SentAt),
	}
}

type boardMemberModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	Email       string `gorm:"column:email"`
	DisplayName string `gorm:"column:display_name"`
	Active      bool   `gorm:"column:active"`
}

func (boardMemberModel) TableName() string {
	return "board_members"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

// SystemClock satisfies ports.Clock for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator satisfies ports.IDGenerator for production wiring.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
