package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "boardgov/contexts/board-governance/meeting-service/application"
	"boardgov/contexts/board-governance/meeting-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/meeting-service/domain/errors"
	"boardgov/contexts/board-governance/meeting-service/ports"
)

type SubmitMinutesCommand struct {
	MeetingID      string
	ActorID        string
	IdempotencyKey string
	Content        string
}

type ApproveMinutesCommand struct {
	MinutesID      string
	ActorID        string
	IdempotencyKey string
}

// MinutesUseCase owns the minutes lifecycle: draft/submitted on submit,
// approved by a chair action. One minutes document per meeting;
// re-submitting before approval replaces the content.
type MinutesUseCase struct {
	Meetings       ports.MeetingRepository
	Minutes        ports.MinutesRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc MinutesUseCase) SubmitMinutes(ctx context.Context, cmd SubmitMinutesCommand) (entities.Minutes, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.MeetingID) == "" ||
		strings.TrimSpace(cmd.ActorID) == "" ||
		strings.TrimSpace(cmd.Content) == "" {
		return entities.Minutes{}, domainerrors.ErrInvalidMinutesInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.Minutes{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashSubmitMinutesCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.Minutes{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.Minutes{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Minutes.GetMinutes(ctx, record.EntityID)
	}

	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(cmd.MeetingID))
	if err != nil {
		return entities.Minutes{}, err
	}

	existing, found, err := uc.Minutes.GetMinutesByMeeting(ctx, meeting.MeetingID)
	if err != nil {
		return entities.Minutes{}, err
	}
	if found && existing.Status == entities.MinutesStatusApproved {
		return entities.Minutes{}, domainerrors.ErrInvalidTransition
	}

	submittedAt := now
	if found {
		existing.Content = cmd.Content
		existing.Status = entities.MinutesStatusSubmitted
		existing.SubmittedBy = strings.TrimSpace(cmd.ActorID)
		existing.SubmittedAt = &submittedAt
		existing.UpdatedAt = now
		if err := uc.Minutes.SaveMinutes(ctx, existing); err != nil {
			return entities.Minutes{}, err
		}
		if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, existing.MinutesID, now); err != nil {
			return entities.Minutes{}, err
		}
		return existing, nil
	}

	minutesID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Minutes{}, err
	}
	minutes := entities.Minutes{
		MinutesID:   minutesID,
		MeetingID:   meeting.MeetingID,
		Content:     cmd.Content,
		Status:      entities.MinutesStatusSubmitted,
		SubmittedBy: strings.TrimSpace(cmd.ActorID),
		SubmittedAt: &submittedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Minutes.SaveMinutes(ctx, minutes); err != nil {
		return entities.Minutes{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, minutes.MinutesID, now); err != nil {
		return entities.Minutes{}, err
	}

	logger.Info("minutes submitted",
		"event", "minutes_submitted",
		"module", "board-governance/meeting-service",
		"layer", "application",
		"minutes_id", minutes.MinutesID,
		"meeting_id", minutes.MeetingID,
		"submitted_by", minutes.SubmittedBy,
	)
	return minutes, nil
}

func (uc MinutesUseCase) ApproveMinutes(ctx context.Context, cmd ApproveMinutesCommand) (entities.Minutes, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.MinutesID) == "" || strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Minutes{}, domainerrors.ErrInvalidMinutesInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.Minutes{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashApproveMinutesCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.Minutes{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.Minutes{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Minutes.GetMinutes(ctx, record.EntityID)
	}

	minutes, err := uc.Minutes.GetMinutes(ctx, strings.TrimSpace(cmd.MinutesID))
	if err != nil {
		return entities.Minutes{}, err
	}
	if minutes.Status != entities.MinutesStatusSubmitted {
		return entities.Minutes{}, domainerrors.ErrInvalidTransition
	}

	approvedAt := now
	minutes.Status = entities.MinutesStatusApproved
	minutes.ApprovedBy = strings.TrimSpace(cmd.ActorID)
	minutes.ApprovedAt = &approvedAt
	minutes.UpdatedAt = now
	if err := uc.Minutes.SaveMinutes(ctx, minutes); err != nil {
		return entities.Minutes{}, err
	}
	if err := uc.appendMinutesEvent(ctx, minutes, now); err != nil {
		return entities.Minutes{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, minutes.MinutesID, now); err != nil {
		return entities.Minutes{}, err
	}

	logger.Info("minutes approved",
		"event", "minutes_approved",
		"module", "board-governance/meeting-service",
		"layer", "application",
		"minutes_id", minutes.MinutesID,
		"meeting_id", minutes.MeetingID,
		"approved_by", minutes.ApprovedBy,
	)
	return minutes, nil
}

func (uc MinutesUseCase) appendMinutesEvent(ctx context.Context, minutes entities.Minutes, occurredAt time.Time) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"minutes_id":  minutes.MinutesID,
		"meeting_id":  minutes.MeetingID,
		"approved_by": minutes.ApprovedBy,
		"occurred_at": occurredAt.Format(time.RFC3339),
	}
	envelope, err := newGovernanceEnvelope(eventID, "minutes.approved", minutes.MeetingID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc MinutesUseCase) putIdempotency(
	ctx context.Context,
	key string,
	requestHash string,
	entityID string,
	now time.Time,
) error {
	return uc.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         strings.TrimSpace(key),
		RequestHash: requestHash,
		EntityID:    entityID,
		ExpiresAt:   now.Add(resolveIdempotencyTTL(uc.IdempotencyTTL)),
	})
}

func (uc MinutesUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
