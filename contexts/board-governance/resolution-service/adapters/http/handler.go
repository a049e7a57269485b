package httpadapter

import (
	"context"
	"log/slog"

	"boardgov/contexts/board-governance/resolution-service/application/commands"
	"boardgov/contexts/board-governance/resolution-service/application/queries"
	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	httptransport "boardgov/contexts/board-governance/resolution-service/transport/http"
)

type Handler struct {
	Resolutions commands.ResolutionUseCase
	Ballots     commands.BallotUseCase
	Reports     queries.ReportUseCase
	Logger      *slog.Logger
}

func (h Handler) CreateResolutionHandler(
	ctx context.Context,
	proposerID string,
	idempotencyKey string,
	req httptransport.CreateResolutionRequest,
) (httptransport.ResolutionResponse, error) {
	resolution, err := h.Resolutions.CreateResolution(ctx, commands.CreateResolutionCommand{
		ProposerID:           proposerID,
		IdempotencyKey:       idempotencyKey,
		Title:                req.Title,
		Body:                 req.Body,
		MeetingID:            req.MeetingID,
		TotalEligibleVoters:  req.TotalEligibleVoters,
		MinimumQuorumPercent: req.MinimumQuorumPercent,
		RequiresMajority:     req.RequiresMajority,
		VotingDeadline:       req.VotingDeadline,
	})
	if err != nil {
		return httptransport.ResolutionResponse{}, err
	}
	return mapResolution(resolution), nil
}

func (h Handler) SubmitForReviewHandler(
	ctx context.Context,
	resolutionID string,
	actorID string,
	idempotencyKey string,
) (httptransport.ResolutionResponse, error) {
	resolution, err := h.Resolutions.SubmitForReview(ctx, commands.SubmitForReviewCommand{
		ResolutionID:   resolutionID,
		ActorID:        actorID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.ResolutionResponse{}, err
	}
	return mapResolution(resolution), nil
}

func (h Handler) OpenVotingHandler(
	ctx context.Context,
	resolutionID string,
	actorID string,
	idempotencyKey string,
	req httptransport.OpenVotingRequest,
) (httptransport.ResolutionResponse, error) {
	resolution, err := h.Resolutions.OpenVoting(ctx, commands.OpenVotingCommand{
		ResolutionID:        resolutionID,
		ActorID:             actorID,
		IdempotencyKey:      idempotencyKey,
		TotalEligibleVoters: req.TotalEligibleVoters,
		VotingDeadline:      req.VotingDeadline,
	})
	if err != nil {
		return httptransport.ResolutionResponse{}, err
	}
	return mapResolution(resolution), nil
}

func (h Handler) WithdrawResolutionHandler(
	ctx context.Context,
	resolutionID string,
	actorID string,
	idempotencyKey string,
	req httptransport.WithdrawResolutionRequest,
) (httptransport.ResolutionResponse, error) {
	resolution, err := h.Resolutions.Withdraw(ctx, commands.WithdrawResolutionCommand{
		ResolutionID:   resolutionID,
		ActorID:        actorID,
		IdempotencyKey: idempotencyKey,
		Reason:         req.Reason,
	})
	if err != nil {
		return httptransport.ResolutionResponse{}, err
	}
	return mapResolution(resolution), nil
}

func (h Handler) CastBallotHandler(
	ctx context.Context,
	resolutionID string,
	voterID string,
	idempotencyKey string,
	req httptransport.CastBallotRequest,
) (httptransport.BallotResponse, error) {
	result, err := h.Ballots.CastBallot(ctx, commands.CastBallotCommand{
		VoterID:        voterID,
		IdempotencyKey: idempotencyKey,
		ResolutionID:   resolutionID,
		Choice:         entities.BallotChoice(req.Choice),
		Comment:        req.Comment,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		BallotID:     result.Ballot.BallotID,
		ResolutionID: result.Ballot.ResolutionID,
		VoterID:      result.Ballot.VoterID,
		Choice:       string(result.Ballot.Choice),
		Comment:      result.Ballot.Comment,
		CastAt:       result.Ballot.CastAt,
		Replayed:     result.Replayed,
		WasUpdate:    result.WasUpdate,
	}, nil
}

func (h Handler) GetResolutionHandler(ctx context.Context, resolutionID string) (httptransport.ResolutionResponse, error) {
	resolution, err := h.Reports.Resolutions.GetResolution(ctx, resolutionID)
	if err != nil {
		return httptransport.ResolutionResponse{}, err
	}
	return mapResolution(resolution), nil
}

func (h Handler) VotingReportHandler(ctx context.Context, resolutionID string) (httptransport.VotingReportResponse, error) {
	result, err := h.Reports.VotingReport(ctx, resolutionID)
	if err != nil {
		return httptransport.VotingReportResponse{}, err
	}
	report := result.Report
	return httptransport.VotingReportResponse{
		ResolutionID: result.Resolution.ResolutionID,
		Title:        result.Resolution.Title,
		Status:       string(result.Resolution.Status),

		TotalVotes:   report.TotalVotes,
		ApproveVotes: report.ApproveVotes,
		RejectVotes:  report.RejectVotes,
		AbstainVotes: report.AbstainVotes,

		ParticipationRate:    report.ParticipationRate,
		ApprovalPercentage:   report.ApprovalPercentage,
		RejectionPercentage:  report.RejectionPercentage,
		AbstentionPercentage: report.AbstentionPercentage,

		IsUnanimous:     report.IsUnanimous,
		UnanimousChoice: string(report.UnanimousChoice),

		QuorumStatus:    string(report.QuorumStatus),
		VotingMargin:    report.VotingMargin,
		ConsensusLevel:  string(report.ConsensusLevel),
		EngagementScore: report.EngagementScore,

		CommentAnalysis: httptransport.CommentAnalysisResponse{
			Total:   report.CommentAnalysis.Total,
			Approve: report.CommentAnalysis.Approve,
			Reject:  report.CommentAnalysis.Reject,
			Abstain: report.CommentAnalysis.Abstain,
		},
		NonVoters: report.NonVoters,

		Passed:       report.Passed,
		PassedReason: report.PassedReason,
	}, nil
}

func (h Handler) BallotEligibilityHandler(
	ctx context.Context,
	resolutionID string,
	voterID string,
) (httptransport.BallotEligibilityResponse, error) {
	eligibility, err := h.Reports.BallotEligibility(ctx, resolutionID, voterID)
	if err != nil {
		return httptransport.BallotEligibilityResponse{}, err
	}
	return httptransport.BallotEligibilityResponse{
		Open:           eligibility.Open,
		Reason:         eligibility.Reason,
		AlreadyVoted:   eligibility.AlreadyVoted,
		ExistingChoice: string(eligibility.ExistingChoice),
		VotingDeadline: eligibility.VotingDeadline,
	}, nil
}

func (h Handler) ListBallotsHandler(ctx context.Context, resolutionID string) (httptransport.BallotListResponse, error) {
	ballots, err := h.Reports.ListBallots(ctx, resolutionID)
	if err != nil {
		return httptransport.BallotListResponse{}, err
	}
	items := make([]httptransport.BallotAuditItem, 0, len(ballots))
	for _, ballot := range ballots {
		items = append(items, httptransport.BallotAuditItem{
			BallotID:   ballot.BallotID,
			VoterID:    ballot.VoterID,
			Choice:     string(ballot.Choice),
			HasComment: ballot.HasComment(),
			Comment:    ballot.Comment,
			CastAt:     ballot.CastAt,
		})
	}
	return httptransport.BallotListResponse{
		ResolutionID: resolutionID,
		Items:        items,
	}, nil
}

func mapResolution(resolution entities.Resolution) httptransport.ResolutionResponse {
	return httptransport.ResolutionResponse{
		ResolutionID:         resolution.ResolutionID,
		MeetingID:            resolution.MeetingID,
		Title:                resolution.Title,
		Body:                 resolution.Body,
		ProposedBy:           resolution.ProposedBy,
		Status:               string(resolution.Status),
		TotalEligibleVoters:  resolution.TotalEligibleVoters,
		MinimumQuorumPercent: resolution.MinimumQuorumPercent,
		RequiresMajority:     resolution.RequiresMajority,
		VotingDeadline:       resolution.VotingDeadline,
		PassedReason:         resolution.PassedReason,
		DecidedAt:            resolution.DecidedAt,
		CreatedAt:            resolution.CreatedAt,
	}
}
