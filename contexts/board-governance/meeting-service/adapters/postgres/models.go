package postgresadapter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"boardgov/contexts/board-governance/meeting-service/domain/entities"
	"boardgov/contexts/board-governance/meeting-service/ports"

	"github.com/google/uuid"
)

type meetingModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	ScheduledAt time.Time `gorm:"column:scheduled_at"`
	Location    string    `gorm:"column:location"`
	Agenda      []byte    `gorm:"column:agenda"`
	Status      string    `gorm:"column:status"`
	CreatedBy   string    `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (meetingModel) TableName() string {
	return "meetings"
}

func meetingModelFromEntity(meeting entities.Meeting) meetingModel {
	agenda, _ := json.Marshal(meeting.Agenda)
	row := meetingModel{
		ID:          strings.TrimSpace(meeting.MeetingID),
		Title:       strings.TrimSpace(meeting.Title),
		ScheduledAt: meeting.ScheduledAt.UTC(),
		Location:    strings.TrimSpace(meeting.Location),
		Agenda:      agenda,
		Status:      string(meeting.Status),
		CreatedBy:   strings.TrimSpace(meeting.CreatedBy),
		CreatedAt:   meeting.CreatedAt.UTC(),
		UpdatedAt:   meeting.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m meetingModel) toEntity() entities.Meeting {
	var agenda []string
	if len(m.Agenda) > 0 {
		_ = json.Unmarshal(m.Agenda, &agenda)
	}
	return entities.Meeting{
		MeetingID:   m.ID,
		Title:       m.Title,
		ScheduledAt: m.ScheduledAt.UTC(),
		Location:    m.Location,
		Agenda:      agenda,
		Status:      entities.MeetingStatus(m.Status),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type rsvpModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	MeetingID string    `gorm:"column:meeting_id"`
	MemberID  string    `gorm:"column:member_id"`
	Reply     string    `gorm:"column:reply"`
	Note      string    `gorm:"column:note"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (rsvpModel) TableName() string {
	return "meeting_rsvps"
}

func rsvpModelFromEntity(rsvp entities.RSVP) rsvpModel {
	row := rsvpModel{
		ID:        strings.TrimSpace(rsvp.RSVPID),
		MeetingID: strings.TrimSpace(rsvp.MeetingID),
		MemberID:  strings.TrimSpace(rsvp.MemberID),
		Reply:     string(rsvp.Reply),
		Note:      rsvp.Note,
		CreatedAt: rsvp.CreatedAt.UTC(),
		UpdatedAt: rsvp.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m rsvpModel) toEntity() entities.RSVP {
	return entities.RSVP{
		RSVPID:    m.ID,
		MeetingID: m.MeetingID,
		MemberID:  m.MemberID,
		Reply:     entities.RSVPReply(m.Reply),
		Note:      m.Note,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type minutesModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	MeetingID   string     `gorm:"column:meeting_id"`
	Content     string     `gorm:"column:content"`
	Status      string     `gorm:"column:status"`
	SubmittedBy string     `gorm:"column:submitted_by"`
	ApprovedBy  string     `gorm:"column:approved_by"`
	SubmittedAt *time.Time `gorm:"column:submitted_at"`
	ApprovedAt  *time.Time `gorm:"column:approved_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (minutesModel) TableName() string {
	return "meeting_minutes"
}

func minutesModelFromEntity(minutes entities.Minutes) minutesModel {
	row := minutesModel{
		ID:          strings.TrimSpace(minutes.MinutesID),
		MeetingID:   strings.TrimSpace(minutes.MeetingID),
		Content:     minutes.Content,
		Status:      string(minutes.Status),
		SubmittedBy: strings.TrimSpace(minutes.SubmittedBy),
		ApprovedBy:  strings.TrimSpace(minutes.ApprovedBy),
		SubmittedAt: normalizeOptionalTime(minutes.SubmittedAt),
		ApprovedAt:  normalizeOptionalTime(minutes.ApprovedAt),
		CreatedAt:   minutes.CreatedAt.UTC(),
		UpdatedAt:   minutes.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m minutesModel) toEntity() entities.Minutes {
	return entities.Minutes{
		MinutesID:   m.ID,
		MeetingID:   m.MeetingID,
		Content:     m.Content,
		Status:      entities.MinutesStatus(m.Status),
		SubmittedBy: m.SubmittedBy,
		ApprovedBy:  m.ApprovedBy,
		SubmittedAt: normalizeOptionalTime(m.SubmittedAt),
		ApprovedAt:  normalizeOptionalTime(m.ApprovedAt),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	EntityID    string    `gorm:"column:entity_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "meeting_idempotency"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "meeting_outbox"
}

func marshalEnvelope(event ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(event)
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
