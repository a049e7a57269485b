package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "boardgov/contexts/board-governance/resolution-service/application"
	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	"boardgov/contexts/board-governance/resolution-service/domain/tally"
	"boardgov/contexts/board-governance/resolution-service/ports"
)

// CreateResolutionCommand drafts a new resolution. Voting parameters may be
// left at zero values and tightened before voting opens.
type CreateResolutionCommand struct {
	ProposerID           string
	IdempotencyKey       string
	Title                string
	Body                 string
	MeetingID            string
	TotalEligibleVoters  int
	MinimumQuorumPercent int
	RequiresMajority     bool
	VotingDeadline       *time.Time
}

type SubmitForReviewCommand struct {
	ResolutionID   string
	ActorID        string
	IdempotencyKey string
}

// OpenVotingCommand transitions a reviewed resolution into voting. The
// voting parameters are frozen here and validated as a tally context so the
// evaluator never sees a malformed one.
type OpenVotingCommand struct {
	ResolutionID   string
	ActorID        string
	IdempotencyKey string
	// Optional overrides applied before the parameters freeze.
	TotalEligibleVoters int
	VotingDeadline      *time.Time
}

type WithdrawResolutionCommand struct {
	ResolutionID   string
	ActorID        string
	IdempotencyKey string
	Reason         string
}

// ResolutionUseCase orchestrates the resolution lifecycle:
// draft -> under_review -> voting -> approved/rejected, with withdrawal
// allowed from any pre-decision state. The voting -> decided transition
// belongs to the completion detector worker, never to a command.
type ResolutionUseCase struct {
	Resolutions    ports.ResolutionRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc ResolutionUseCase) CreateResolution(ctx context.Context, cmd CreateResolutionCommand) (entities.Resolution, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ProposerID) == "" || strings.TrimSpace(cmd.Title) == "" {
		logger.Warn("resolution create validation failed",
			"event", "resolution_create_validation_failed",
			"module", "board-governance/resolution-service",
			"layer", "application",
			"proposer_id", strings.TrimSpace(cmd.ProposerID),
		)
		return entities.Resolution{}, domainerrors.ErrInvalidResolutionInput
	}
	if cmd.TotalEligibleVoters < 0 ||
		cmd.MinimumQuorumPercent < 0 || cmd.MinimumQuorumPercent > 100 {
		return entities.Resolution{}, domainerrors.ErrInvalidResolutionInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.Resolution{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCreateResolutionCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.Resolution{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.Resolution{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Resolutions.GetResolution(ctx, record.EntityID)
	}

	resolutionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Resolution{}, err
	}
	resolution := entities.Resolution{
		ResolutionID:         resolutionID,
		MeetingID:            strings.TrimSpace(cmd.MeetingID),
		Title:                strings.TrimSpace(cmd.Title),
		Body:                 cmd.Body,
		ProposedBy:           strings.TrimSpace(cmd.ProposerID),
		Status:               entities.ResolutionStatusDraft,
		TotalEligibleVoters:  cmd.TotalEligibleVoters,
		MinimumQuorumPercent: cmd.MinimumQuorumPercent,
		RequiresMajority:     cmd.RequiresMajority,
		VotingDeadline:       normalizeDeadline(cmd.VotingDeadline),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.Resolutions.SaveResolution(ctx, resolution); err != nil {
		return entities.Resolution{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, resolutionID, now); err != nil {
		return entities.Resolution{}, err
	}

	logger.Info("resolution drafted",
		"event", "resolution_created",
		"module", "board-governance/resolution-service",
		"layer", "application",
		"resolution_id", resolution.ResolutionID,
		"proposer_id", resolution.ProposedBy,
		"meeting_id", resolution.MeetingID,
	)
	return resolution, nil
}

func (uc ResolutionUseCase) SubmitForReview(ctx context.Context, cmd SubmitForReviewCommand) (entities.Resolution, error) {
	return uc.transition(ctx, transitionRequest{
		ResolutionID:   cmd.ResolutionID,
		ActorID:        cmd.ActorID,
		IdempotencyKey: cmd.IdempotencyKey,
		RequestHash:    hashTransitionCommand("submit_for_review", cmd.ResolutionID, cmd.ActorID, ""),
		From:           []entities.ResolutionStatus{entities.ResolutionStatusDraft},
		To:             entities.ResolutionStatusUnderReview,
		LogEvent:       "resolution_submitted_for_review",
	})
}

func (uc ResolutionUseCase) OpenVoting(ctx context.Context, cmd OpenVotingCommand) (entities.Resolution, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ResolutionID) == "" || strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Resolution{}, domainerrors.ErrInvalidResolutionInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return entities.Resolution{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashOpenVotingCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return entities.Resolution{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return entities.Resolution{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Resolutions.GetResolution(ctx, record.EntityID)
	}

	resolution, err := uc.Resolutions.GetResolution(ctx, strings.TrimSpace(cmd.ResolutionID))
	if err != nil {
		return entities.Resolution{}, err
	}
	if resolution.Status != entities.ResolutionStatusUnderReview {
		return entities.Resolution{}, domainerrors.ErrInvalidTransition
	}

	if cmd.TotalEligibleVoters > 0 {
		resolution.TotalEligibleVoters = cmd.TotalEligibleVoters
	}
	if cmd.VotingDeadline != nil {
		resolution.VotingDeadline = normalizeDeadline(cmd.VotingDeadline)
	}

	votingContext := tally.Context{
		TotalEligibleVoters:  resolution.TotalEligibleVoters,
		MinimumQuorumPercent: resolution.MinimumQuorumPercent,
		RequiresMajority:     resolution.RequiresMajority,
	}
	if err := votingContext.Validate(); err != nil {
		logger.Warn("open voting rejected: malformed voting parameters",
			"event", "resolution_open_voting_invalid_params",
			"module", "board-governance/resolution-service",
			"layer", "application",
			"resolution_id", resolution.ResolutionID,
			"total_eligible_voters", resolution.TotalEligibleVoters,
			"minimum_quorum_percent", resolution.MinimumQuorumPercent,
		)
		return entities.Resolution{}, err
	}
	if resolution.VotingDeadline != nil && resolution.VotingDeadline.UTC().Before(now) {
		return entities.Resolution{}, domainerrors.ErrInvalidResolutionInput
	}

	resolution.Status = entities.ResolutionStatusVoting
	resolution.UpdatedAt = now
	if err := uc.Resolutions.SaveResolution(ctx, resolution); err != nil {
		return entities.Resolution{}, err
	}
	if err := uc.appendResolutionEvent(ctx, "resolution.voting_opened", resolution, now, map[string]any{
		"opened_by": strings.TrimSpace(cmd.ActorID),
	}); err != nil {
		return entities.Resolution{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, resolution.ResolutionID, now); err != nil {
		return entities.Resolution{}, err
	}

	logger.Info("resolution voting opened",
		"event", "resolution_voting_opened",
		"module", "board-governance/resolution-service",
		"layer", "application",
		"resolution_id", resolution.ResolutionID,
		"total_eligible_voters", resolution.TotalEligibleVoters,
		"minimum_quorum_percent", resolution.MinimumQuorumPercent,
		"requires_majority", resolution.RequiresMajority,
	)
	return resolution, nil
}

func (uc ResolutionUseCase) Withdraw(ctx context.Context, cmd WithdrawResolutionCommand) (entities.Resolution, error) {
	return uc.transition(ctx, transitionRequest{
		ResolutionID:   cmd.ResolutionID,
		ActorID:        cmd.ActorID,
		IdempotencyKey: cmd.IdempotencyKey,
		RequestHash:    hashTransitionCommand("withdraw", cmd.ResolutionID, cmd.ActorID, cmd.Reason),
		From: []entities.ResolutionStatus{
			entities.ResolutionStatusDraft,
			entities.ResolutionStatusUnderReview,
			entities.ResolutionStatusVoting,
		},
		To:        entities.ResolutionStatusWithdrawn,
		LogEvent:  "resolution_withdrawn",
		EventType: "resolution.withdrawn",
		EventData: map[string]any{"reason": strings.TrimSpace(cmd.Reason)},
	})
}

type transitionRequest struct {
	ResolutionID   string
	ActorID        string
	IdempotencyKey string
	RequestHash    string
	From           []entities.ResolutionStatus
	To             entities.ResolutionStatus
	LogEvent       string
	EventType      string
	EventData      map[string]any
}

func (uc ResolutionUseCase) transition(ctx context.Context, req transitionRequest) (entities.Resolution, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(req.ResolutionID) == "" || strings.TrimSpace(req.ActorID) == "" {
		return entities.Resolution{}, domainerrors.ErrInvalidResolutionInput
	}
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return entities.Resolution{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	if record, found, err := uc.Idempotency.Get(ctx, req.IdempotencyKey, now); err != nil {
		return entities.Resolution{}, err
	} else if found {
		if record.RequestHash != req.RequestHash {
			return entities.Resolution{}, domainerrors.ErrIdempotencyConflict
		}
		return uc.Resolutions.GetResolution(ctx, record.EntityID)
	}

	resolution, err := uc.Resolutions.GetResolution(ctx, strings.TrimSpace(req.ResolutionID))
	if err != nil {
		return entities.Resolution{}, err
	}
	allowed := false
	for _, status := range req.From {
		if resolution.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return entities.Resolution{}, domainerrors.ErrInvalidTransition
	}

	resolution.Status = req.To
	resolution.UpdatedAt = now
	if err := uc.Resolutions.SaveResolution(ctx, resolution); err != nil {
		return entities.Resolution{}, err
	}
	if req.EventType != "" {
		data := map[string]any{"actioned_by": strings.TrimSpace(req.ActorID)}
		for key, value := range req.EventData {
			data[key] = value
		}
		if err := uc.appendResolutionEvent(ctx, req.EventType, resolution, now, data); err != nil {
			return entities.Resolution{}, err
		}
	}
	if err := uc.putIdempotency(ctx, req.IdempotencyKey, req.RequestHash, resolution.ResolutionID, now); err != nil {
		return entities.Resolution{}, err
	}

	logger.Info("resolution status changed",
		"event", req.LogEvent,
		"module", "board-governance/resolution-service",
		"layer", "application",
		"resolution_id", resolution.ResolutionID,
		"status", string(resolution.Status),
		"actor_id", strings.TrimSpace(req.ActorID),
	)
	return resolution, nil
}

func (uc ResolutionUseCase) appendResolutionEvent(
	ctx context.Context,
	eventType string,
	resolution entities.Resolution,
	occurredAt time.Time,
	metadata map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"resolution_id": resolution.ResolutionID,
		"meeting_id":    resolution.MeetingID,
		"title":         resolution.Title,
		"status":        string(resolution.Status),
		"proposed_by":   resolution.ProposedBy,
		"occurred_at":   occurredAt.Format(time.RFC3339),
	}
	if resolution.VotingDeadline != nil {
		data["voting_deadline"] = resolution.VotingDeadline.UTC().Format(time.RFC3339)
	}
	for key, value := range metadata {
		data[key] = value
	}
	envelope, err := newGovernanceEnvelope(eventID, eventType, resolution.ResolutionID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc ResolutionUseCase) putIdempotency(
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

func (uc ResolutionUseCase) now() time.Time {
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

func normalizeDeadline(deadline *time.Time) *time.Time {
	if deadline == nil {
		return nil
	}
	utc := deadline.UTC()
	return &utc
}
