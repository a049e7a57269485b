package workers

import (
	"context"
	"log/slog"
	"time"

	application "boardgov/contexts/board-governance/resolution-service/application"
	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	"boardgov/contexts/board-governance/resolution-service/domain/tally"
	"boardgov/contexts/board-governance/resolution-service/ports"
)

// CompletionDetector finalizes resolutions whose voting window has ended:
// deadline elapsed, or every eligible voter has a counted ballot. It runs the
// evaluator once, persists the approved/rejected transition with the outcome
// reason, and emits resolution.decided carrying the full report so downstream
// consumers never recompute any derived figure.
type CompletionDetector struct {
	Resolutions ports.ResolutionRepository
	Ballots     ports.BallotRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (d CompletionDetector) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(d.Logger)
	now := d.now()

	voting, err := d.Resolutions.ListResolutionsByStatus(ctx, entities.ResolutionStatusVoting)
	if err != nil {
		logger.Error("completion scan failed",
			"event", "resolution_completion_scan_failed",
			"module", "board-governance/resolution-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, resolution := range voting {
		if err := d.finalizeIfDue(ctx, resolution, now); err != nil {
			return err
		}
	}
	return nil
}

func (d CompletionDetector) finalizeIfDue(ctx context.Context, resolution entities.Resolution, now time.Time) error {
	logger := application.ResolveLogger(d.Logger)

	ballots, err := d.Ballots.ListBallotsByResolution(ctx, resolution.ResolutionID)
	if err != nil {
		return err
	}
	report, err := tally.Evaluate(ballots, tally.Context{
		TotalEligibleVoters:  resolution.TotalEligibleVoters,
		MinimumQuorumPercent: resolution.MinimumQuorumPercent,
		RequiresMajority:     resolution.RequiresMajority,
	})
	if err != nil {
		// A voting resolution with malformed parameters cannot be finalized;
		// surface it loudly instead of wedging the whole scan.
		logger.Error("completion evaluation failed",
			"event", "resolution_completion_evaluate_failed",
			"module", "board-governance/resolution-service",
			"layer", "worker",
			"resolution_id", resolution.ResolutionID,
			"error", err.Error(),
		)
		return nil
	}

	fullyVoted := report.TotalVotes >= resolution.TotalEligibleVoters
	if !resolution.DeadlineElapsed(now) && !fullyVoted {
		return nil
	}

	if report.Passed {
		resolution.Status = entities.ResolutionStatusApproved
	} else {
		resolution.Status = entities.ResolutionStatusRejected
	}
	resolution.PassedReason = report.PassedReason
	decidedAt := now
	resolution.DecidedAt = &decidedAt
	resolution.UpdatedAt = now

	if err := d.Resolutions.SaveResolution(ctx, resolution); err != nil {
		return err
	}
	if err := d.appendDecidedEvent(ctx, resolution, report, now); err != nil {
		return err
	}

	logger.Info("resolution decided",
		"event", "resolution_decided",
		"module", "board-governance/resolution-service",
		"layer", "worker",
		"resolution_id", resolution.ResolutionID,
		"status", string(resolution.Status),
		"passed", report.Passed,
		"participation_rate", report.ParticipationRate,
		"quorum_status", string(report.QuorumStatus),
		"fully_voted", fullyVoted,
	)
	return nil
}

func (d CompletionDetector) appendDecidedEvent(
	ctx context.Context,
	resolution entities.Resolution,
	report tally.Report,
	occurredAt time.Time,
) error {
	if d.Outbox == nil {
		return nil
	}
	eventID, err := d.IDGen.NewID(ctx)
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
		"report":        reportPayload(report),
	}
	envelope, err := newGovernanceEnvelope(eventID, "resolution.decided", resolution.ResolutionID, occurredAt, data)
	if err != nil {
		return err
	}
	return d.Outbox.AppendOutbox(ctx, envelope)
}

func (d CompletionDetector) now() time.Time {
	now := time.Now().UTC()
	if d.Clock != nil {
		now = d.Clock.Now().UTC()
	}
	return now
}
