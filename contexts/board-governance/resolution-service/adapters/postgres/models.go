package postgresadapter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	"boardgov/contexts/board-governance/resolution-service/ports"

	"github.com/google/uuid"
)

type resolutionModel struct {
	ID                   string     `gorm:"column:id;primaryKey"`
	MeetingID            *string    `gorm:"column:meeting_id"`
	Title                string     `gorm:"column:title"`
	Body                 string     `gorm:"column:body"`
	ProposedBy           string     `gorm:"column:proposed_by"`
	Status               string     `gorm:"column:status"`
	TotalEligibleVoters  int        `gorm:"column:total_eligible_voters"`
	MinimumQuorumPercent int        `gorm:"column:minimum_quorum_percent"`
	RequiresMajority     bool       `gorm:"column:requires_majority"`
	VotingDeadline       *time.Time `gorm:"column:voting_deadline"`
	PassedReason         string     `gorm:"column:passed_reason"`
	DecidedAt            *time.Time `gorm:"column:decided_at"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
}

func (resolutionModel) TableName() string {
	return "resolutions"
}

func resolutionModelFromEntity(resolution entities.Resolution) resolutionModel {
	row := resolutionModel{
		ID:                   strings.TrimSpace(resolution.ResolutionID),
		Title:                strings.TrimSpace(resolution.Title),
		Body:                 resolution.Body,
		ProposedBy:           strings.TrimSpace(resolution.ProposedBy),
		Status:               string(resolution.Status),
		TotalEligibleVoters:  resolution.TotalEligibleVoters,
		MinimumQuorumPercent: resolution.MinimumQuorumPercent,
		RequiresMajority:     resolution.RequiresMajority,
		VotingDeadline:       normalizeOptionalTime(resolution.VotingDeadline),
		PassedReason:         resolution.PassedReason,
		DecidedAt:            normalizeOptionalTime(resolution.DecidedAt),
		CreatedAt:            resolution.CreatedAt.UTC(),
		UpdatedAt:            resolution.UpdatedAt.UTC(),
	}
	if strings.TrimSpace(resolution.MeetingID) != "" {
		meetingID := strings.TrimSpace(resolution.MeetingID)
		row.MeetingID = &meetingID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m resolutionModel) toEntity() entities.Resolution {
	meetingID := ""
	if m.MeetingID != nil {
		meetingID = strings.TrimSpace(*m.MeetingID)
	}
	return entities.Resolution{
		ResolutionID:         m.ID,
		MeetingID:            meetingID,
		Title:                m.Title,
		Body:                 m.Body,
		ProposedBy:           m.ProposedBy,
		Status:               entities.ResolutionStatus(m.Status),
		TotalEligibleVoters:  m.TotalEligibleVoters,
		MinimumQuorumPercent: m.MinimumQuorumPercent,
		RequiresMajority:     m.RequiresMajority,
		VotingDeadline:       normalizeOptionalTime(m.VotingDeadline),
		PassedReason:         m.PassedReason,
		DecidedAt:            normalizeOptionalTime(m.DecidedAt),
		CreatedAt:            m.CreatedAt.UTC(),
		UpdatedAt:            m.UpdatedAt.UTC(),
	}
}

type ballotModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	ResolutionID string    `gorm:"column:resolution_id"`
	VoterID      string    `gorm:"column:voter_id"`
	Choice       string    `gorm:"column:choice"`
	Comment      string    `gorm:"column:comment"`
	CastAt       time.Time `gorm:"column:cast_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

func ballotModelFromEntity(ballot entities.Ballot) ballotModel {
	row := ballotModel{
		ID:           strings.TrimSpace(ballot.BallotID),
		ResolutionID: strings.TrimSpace(ballot.ResolutionID),
		VoterID:      strings.TrimSpace(ballot.VoterID),
		Choice:       choiceToColumn(ballot.Choice),
		Comment:      ballot.Comment,
		CastAt:       ballot.CastAt.UTC(),
		UpdatedAt:    ballot.UpdatedAt.UTC(),
	}
	if row.CastAt.IsZero() {
		row.CastAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CastAt
	}
	return row
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		BallotID:     m.ID,
		ResolutionID: m.ResolutionID,
		VoterID:      m.VoterID,
		Choice:       choiceFromColumn(m.Choice),
		Comment:      m.Comment,
		CastAt:       m.CastAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// The ballots table predates the canonical vocabulary and stores
// for/against/abstain. This adapter is the single mapping boundary; nothing
// above it ever sees the legacy values.
func choiceToColumn(choice entities.BallotChoice) string {
	switch choice {
	case entities.ChoiceApprove:
		return "for"
	case entities.ChoiceReject:
		return "against"
	default:
		return "abstain"
	}
}

func choiceFromColumn(value string) entities.BallotChoice {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "for", "approve":
		return entities.ChoiceApprove
	case "against", "reject":
		return entities.ChoiceReject
	case "abstain":
		return entities.ChoiceAbstain
	default:
		// Unknown rows surface as-is; the evaluator excludes them from
		// every count rather than guessing.
		return entities.BallotChoice(strings.TrimSpace(value))
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	EntityID    string    `gorm:"column:entity_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "resolution_idempotency"
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
	return "resolution_outbox"
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
