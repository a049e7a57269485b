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

type ScheduleMeetingCommand struct {
	CreatorID      string
	IdempotencyKey string
	Title          string
	ScheduledAt    time.Time
	Location       string
	Agenda         []string
}

type CancelMeetingCommand struct {
	MeetingID      string
	ActorID        string
	IdempotencyKey string
	Reason         string
}

type RecordRSVPCommand struct {
	MeetingID      string
	MemberID       string
	IdempotencyKey string
	Reply          entities.RSVPReply
	Note           string
}

// RecordRSVPResult carries the final RSVP plus replay/update markers for the
// transport layer.
type RecordRSVPResult struct {
	RSVP      entities.RSVP
	Replayed  bool
	WasUpdate bool
}

// MeetingUseCase owns scheduling, cancellation, and member RSVPs. Meetings
// never transition back to scheduled once cancelled.
type MeetingUseCase struct {
	Meetings       ports.MeetingRepository
	RSVPs          ports.RSVPRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc MeetingUseCase) ScheduleMeeting(ctx context.Context, cmd ScheduleMeetingCommand) (entities.Meeting, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.CreatorID) == "" || strings.TrimSpace(cmd.Title) == "" || cmd.ScheduledAt.IsZero() {
		logger.Warn("meeting schedule validation failed",
			"event", "meeting_schedule_validation_failed",
			"module", "board-governance/meeting-service",
			"layer", "application",
			"creator_id", strings.TrimSpace(cmd.CreatorID),
		)
		return entities.Meeting{}, domainerrors.ErrInvalidMeetingInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.Meeting{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashScheduleMeetingCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.Meeting{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.Meeting{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Meetings.GetMeeting(ctx, record.EntityID)
	}

	meetingID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Meeting{}, err
	}
	agenda := make([]string, 0, len(cmd.Agenda))
	for _, item := range cmd.Agenda {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			agenda = append(agenda, trimmed)
		}
	}
	meeting := entities.Meeting{
		MeetingID:   meetingID,
		Title:       strings.TrimSpace(cmd.Title),
		ScheduledAt: cmd.ScheduledAt.UTC(),
		Location:    strings.TrimSpace(cmd.Location),
		Agenda:      agenda,
		Status:      entities.MeetingStatusScheduled,
		CreatedBy:   strings.TrimSpace(cmd.CreatorID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Meetings.SaveMeeting(ctx, meeting); err != nil {
		return entities.Meeting{}, err
	}
	if err := uc.appendMeetingEvent(ctx, "meeting.scheduled", meeting, now, map[string]any{
		"scheduled_by": meeting.CreatedBy,
	}); err != nil {
		return entities.Meeting{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, meetingID, now); err != nil {
		return entities.Meeting{}, err
	}

	logger.Info("meeting scheduled",
		"event", "meeting_scheduled",
		"module", "board-governance/meeting-service",
		"layer", "application",
		"meeting_id", meeting.MeetingID,
		"scheduled_at", meeting.ScheduledAt,
		"created_by", meeting.CreatedBy,
	)
	return meeting, nil
}

func (uc MeetingUseCase) CancelMeeting(ctx context.Context, cmd CancelMeetingCommand) (entities.Meeting, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.MeetingID) == "" || strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Meeting{}, domainerrors.ErrInvalidMeetingInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.Meeting{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCancelMeetingCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.Meeting{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.Meeting{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Meetings.GetMeeting(ctx, record.EntityID)
	}

	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(cmd.MeetingID))
	if err != nil {
		return entities.Meeting{}, err
	}
	if meeting.Status != entities.MeetingStatusScheduled {
		return entities.Meeting{}, domainerrors.ErrMeetingNotScheduled
	}

	meeting.Status = entities.MeetingStatusCancelled
	meeting.UpdatedAt = now
	if err := uc.Meetings.SaveMeeting(ctx, meeting); err != nil {
		return entities.Meeting{}, err
	}
	if err := uc.appendMeetingEvent(ctx, "meeting.cancelled", meeting, now, map[string]any{
		"cancelled_by": strings.TrimSpace(cmd.ActorID),
		"reason":       strings.TrimSpace(cmd.Reason),
	}); err != nil {
		return entities.Meeting{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, meeting.MeetingID, now); err != nil {
		return entities.Meeting{}, err
	}

	logger.Info("meeting cancelled",
		"event", "meeting_cancelled",
		"module", "board-governance/meeting-service",
		"layer", "application",
		"meeting_id", meeting.MeetingID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return meeting, nil
}

// RecordRSVP creates or updates the RSVP identified by (meeting_id,
// member_id). Only scheduled meetings accept replies.
func (uc MeetingUseCase) RecordRSVP(ctx context.Context, cmd RecordRSVPCommand) (RecordRSVPResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.MeetingID) == "" ||
		strings.TrimSpace(cmd.MemberID) == "" ||
		!cmd.Reply.Known() {
		return RecordRSVPResult{}, domainerrors.ErrInvalidRSVPInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return RecordRSVPResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashRecordRSVPCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return RecordRSVPResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return RecordRSVPResult{}, domainerrors.ErrIdempotencyConflict
		}
		existing, _, err := uc.RSVPs.GetRSVPByMember(ctx, strings.TrimSpace(cmd.MeetingID), strings.TrimSpace(cmd.MemberID))
		if err != nil {
			return RecordRSVPResult{}, err
		}
		return RecordRSVPResult{RSVP: existing, Replayed: true}, nil
	}

	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(cmd.MeetingID))
	if err != nil {
		return RecordRSVPResult{}, err
	}
	if meeting.Status != entities.MeetingStatusScheduled {
		return RecordRSVPResult{}, domainerrors.ErrMeetingNotScheduled
	}

	existing, found, err := uc.RSVPs.GetRSVPByMember(ctx, meeting.MeetingID, strings.TrimSpace(cmd.MemberID))
	if err != nil {
		return RecordRSVPResult{}, err
	}
	if found {
		existing.Reply = cmd.Reply
		existing.Note = strings.TrimSpace(cmd.Note)
		existing.UpdatedAt = now
		if err := uc.RSVPs.SaveRSVP(ctx, existing); err != nil {
			return RecordRSVPResult{}, err
		}
		if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, existing.RSVPID, now); err != nil {
			return RecordRSVPResult{}, err
		}
		return RecordRSVPResult{RSVP: existing, WasUpdate: true}, nil
	}

	rsvpID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return RecordRSVPResult{}, err
	}
	rsvp := entities.RSVP{
		RSVPID:    rsvpID,
		MeetingID: meeting.MeetingID,
		MemberID:  strings.TrimSpace(cmd.MemberID),
		Reply:     cmd.Reply,
		Note:      strings.TrimSpace(cmd.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.RSVPs.SaveRSVP(ctx, rsvp); err != nil {
		return RecordRSVPResult{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, rsvp.RSVPID, now); err != nil {
		return RecordRSVPResult{}, err
	}

	logger.Info("rsvp recorded",
		"event", "meeting_rsvp_recorded",
		"module", "board-governance/meeting-service",
		"layer", "application",
		"meeting_id", rsvp.MeetingID,
		"member_id", rsvp.MemberID,
		"reply", string(rsvp.Reply),
	)
	return RecordRSVPResult{RSVP: rsvp}, nil
}

func (uc MeetingUseCase) appendMeetingEvent(
	ctx context.Context,
	eventType string,
	meeting entities.Meeting,
	occurredAt time.Time,
	metadata map[string]any,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"meeting_id":   meeting.MeetingID,
		"title":        meeting.Title,
		"scheduled_at": meeting.ScheduledAt.UTC().Format(time.RFC3339),
		"location":     meeting.Location,
		"status":       string(meeting.Status),
		"occurred_at":  occurredAt.Format(time.RFC3339),
	}
	for key, value := range metadata {
		data[key] = value
	}
	envelope, err := newGovernanceEnvelope(eventID, eventType, meeting.MeetingID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc MeetingUseCase) putIdempotency(
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

func (uc MeetingUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func resolveIdempotencyTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 7 * 24 * time.Hour
	}
	return ttl
}
