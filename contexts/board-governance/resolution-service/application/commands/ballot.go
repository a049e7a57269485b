package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "boardgov/contexts/board-governance/resolution-service/application"
	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	"boardgov/contexts/board-governance/resolution-service/ports"
)

// CastBallotCommand records or changes a member's vote on a resolution.
type CastBallotCommand struct {
	VoterID        string
	IdempotencyKey string
	ResolutionID   string
	Choice         entities.BallotChoice
	Comment        string
}

// CastBallotResult returns final ballot state and replay/update markers that
// the transport layer maps to API semantics.
type CastBallotResult struct {
	Ballot    entities.Ballot
	Replayed  bool
	WasUpdate bool
}

// BallotUseCase enforces the voting-window invariants: ballots are accepted
// only while the resolution status is voting and the deadline has not
// elapsed, and a voter holds at most one ballot per resolution.
type BallotUseCase struct {
	Resolutions    ports.ResolutionRepository
	Ballots        ports.BallotRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// CastBallot creates or updates the ballot identified by
// (resolution_id, voter_id). Replay-safe via idempotency key + request hash.
func (uc BallotUseCase) CastBallot(ctx context.Context, cmd CastBallotCommand) (CastBallotResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.VoterID) == "" ||
		strings.TrimSpace(cmd.ResolutionID) == "" ||
		!cmd.Choice.Known() {
		logger.Warn("ballot cast validation failed",
			"event", "ballot_cast_validation_failed",
			"module", "board-governance/resolution-service",
			"layer", "application",
			"voter_id", strings.TrimSpace(cmd.VoterID),
			"resolution_id", strings.TrimSpace(cmd.ResolutionID),
			"choice", string(cmd.Choice),
		)
		return CastBallotResult{}, domainerrors.ErrInvalidBallotInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CastBallotResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.now()
	requestHash := hashCastBallotCommand(cmd)
	if record, found, err := uc.Idempotency.Get(ctx, cmd.IdempotencyKey, now); err != nil {
		return CastBallotResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CastBallotResult{}, domainerrors.ErrIdempotencyConflict
		}
		ballot, err := uc.Ballots.GetBallot(ctx, record.EntityID)
		if err != nil {
			return CastBallotResult{}, err
		}
		return CastBallotResult{Ballot: ballot, Replayed: true}, nil
	}

	resolution, err := uc.Resolutions.GetResolution(ctx, strings.TrimSpace(cmd.ResolutionID))
	if err != nil {
		return CastBallotResult{}, err
	}
	if !resolution.VotingOpen(now) {
		if resolution.Status == entities.ResolutionStatusVoting {
			return CastBallotResult{}, domainerrors.ErrVotingClosed
		}
		return CastBallotResult{}, domainerrors.ErrVotingNotOpen
	}

	existing, found, err := uc.Ballots.GetBallotByVoter(ctx, resolution.ResolutionID, strings.TrimSpace(cmd.VoterID))
	if err != nil {
		return CastBallotResult{}, err
	}
	if found {
		existing.Choice = cmd.Choice
		existing.Comment = strings.TrimSpace(cmd.Comment)
		existing.UpdatedAt = now
		if err := uc.Ballots.SaveBallot(ctx, existing); err != nil {
			return CastBallotResult{}, err
		}
		if err := uc.appendBallotEvent(ctx, "ballot.changed", existing, now); err != nil {
			return CastBallotResult{}, err
		}
		if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, existing.BallotID, now); err != nil {
			return CastBallotResult{}, err
		}
		logger.Info("ballot changed",
			"event", "ballot_changed",
			"module", "board-governance/resolution-service",
			"layer", "application",
			"ballot_id", existing.BallotID,
			"resolution_id", existing.ResolutionID,
			"voter_id", existing.VoterID,
			"choice", string(existing.Choice),
		)
		return CastBallotResult{Ballot: existing, WasUpdate: true}, nil
	}

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastBallotResult{}, err
	}
	ballot := entities.Ballot{
		BallotID:     ballotID,
		ResolutionID: resolution.ResolutionID,
		VoterID:      strings.TrimSpace(cmd.VoterID),
		Choice:       cmd.Choice,
		Comment:      strings.TrimSpace(cmd.Comment),
		CastAt:       now,
		UpdatedAt:    now,
	}
	if err := uc.Ballots.SaveBallot(ctx, ballot); err != nil {
		return CastBallotResult{}, err
	}
	if err := uc.appendBallotEvent(ctx, "ballot.cast", ballot, now); err != nil {
		return CastBallotResult{}, err
	}
	if err := uc.putIdempotency(ctx, cmd.IdempotencyKey, requestHash, ballot.BallotID, now); err != nil {
		return CastBallotResult{}, err
	}

	logger.Info("ballot cast",
		"event", "ballot_cast",
		"module", "board-governance/resolution-service",
		"layer", "application",
		"ballot_id", ballot.BallotID,
		"resolution_id", ballot.ResolutionID,
		"voter_id", ballot.VoterID,
		"choice", string(ballot.Choice),
		"has_comment", ballot.HasComment(),
	)
	return CastBallotResult{Ballot: ballot}, nil
}

func (uc BallotUseCase) appendBallotEvent(
	ctx context.Context,
	eventType string,
	ballot entities.Ballot,
	occurredAt time.Time,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"ballot_id":     ballot.BallotID,
		"resolution_id": ballot.ResolutionID,
		"voter_id":      ballot.VoterID,
		"choice":        string(ballot.Choice),
		"has_comment":   ballot.HasComment(),
		"occurred_at":   occurredAt.Format(time.RFC3339),
	}
	envelope, err := newGovernanceEnvelope(eventID, eventType, ballot.ResolutionID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc BallotUseCase) putIdempotency(
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

func (uc BallotUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
