package queries

import (
	"context"
	"strings"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	"boardgov/contexts/board-governance/resolution-service/domain/tally"
	"boardgov/contexts/board-governance/resolution-service/ports"
)

// ReportUseCase is the read side: live standings, the decided summary, and
// the per-voter eligibility check, all backed by the same evaluator.
type ReportUseCase struct {
	Resolutions ports.ResolutionRepository
	Ballots     ports.BallotRepository
	Clock       ports.Clock
}

// VotingReport pairs a resolution header with its evaluated statistics.
type VotingReport struct {
	Resolution entities.Resolution
	Report     tally.Report
}

// VotingReport evaluates the current ballots against the resolution's frozen
// voting parameters. Valid from the moment voting opens through the decided
// states; drafts have no report.
func (uc ReportUseCase) VotingReport(ctx context.Context, resolutionID string) (VotingReport, error) {
	resolution, err := uc.Resolutions.GetResolution(ctx, strings.TrimSpace(resolutionID))
	if err != nil {
		return VotingReport{}, err
	}
	switch resolution.Status {
	case entities.ResolutionStatusVoting,
		entities.ResolutionStatusApproved,
		entities.ResolutionStatusRejected:
	default:
		return VotingReport{}, domainerrors.ErrVotingNotOpen
	}

	ballots, err := uc.Ballots.ListBallotsByResolution(ctx, resolution.ResolutionID)
	if err != nil {
		return VotingReport{}, err
	}
	report, err := tally.Evaluate(ballots, tally.Context{
		TotalEligibleVoters:  resolution.TotalEligibleVoters,
		MinimumQuorumPercent: resolution.MinimumQuorumPercent,
		RequiresMajority:     resolution.RequiresMajority,
	})
	if err != nil {
		return VotingReport{}, err
	}
	return VotingReport{Resolution: resolution, Report: report}, nil
}

// BallotEligibility answers the live "can I still vote" check.
type BallotEligibility struct {
	Open           bool
	Reason         string
	AlreadyVoted   bool
	ExistingChoice entities.BallotChoice
	VotingDeadline *time.Time
}

func (uc ReportUseCase) BallotEligibility(ctx context.Context, resolutionID string, voterID string) (BallotEligibility, error) {
	if strings.TrimSpace(voterID) == "" {
		return BallotEligibility{}, domainerrors.ErrInvalidBallotInput
	}
	resolution, err := uc.Resolutions.GetResolution(ctx, strings.TrimSpace(resolutionID))
	if err != nil {
		return BallotEligibility{}, err
	}

	eligibility := BallotEligibility{VotingDeadline: resolution.VotingDeadline}
	now := uc.now()
	switch {
	case resolution.VotingOpen(now):
		eligibility.Open = true
		eligibility.Reason = "voting_open"
	case resolution.Status == entities.ResolutionStatusVoting:
		eligibility.Reason = "deadline_elapsed"
	default:
		eligibility.Reason = "status_" + string(resolution.Status)
	}

	existing, found, err := uc.Ballots.GetBallotByVoter(ctx, resolution.ResolutionID, strings.TrimSpace(voterID))
	if err != nil {
		return BallotEligibility{}, err
	}
	if found {
		eligibility.AlreadyVoted = true
		eligibility.ExistingChoice = existing.Choice
	}
	return eligibility, nil
}

// ListBallots returns ballots in insertion order for audit display.
func (uc ReportUseCase) ListBallots(ctx context.Context, resolutionID string) ([]entities.Ballot, error) {
	if _, err := uc.Resolutions.GetResolution(ctx, strings.TrimSpace(resolutionID)); err != nil {
		return nil, err
	}
	return uc.Ballots.ListBallotsByResolution(ctx, strings.TrimSpace(resolutionID))
}

func (uc ReportUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
