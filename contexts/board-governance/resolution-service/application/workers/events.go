package workers

import (
	"encoding/json"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/tally"
	"boardgov/contexts/board-governance/resolution-service/ports"
)

func newGovernanceEnvelope(
	eventID string,
	eventType string,
	resolutionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "resolution-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "resolution_id",
		PartitionKey:     resolutionID,
		Data:             payload,
	}, nil
}

// reportPayload is the wire shape of the evaluator report inside
// resolution.decided. Consumers render from these fields verbatim.
func reportPayload(report tally.Report) map[string]any {
	return map[string]any{
		"total_votes":           report.TotalVotes,
		"approve_votes":         report.ApproveVotes,
		"reject_votes":          report.RejectVotes,
		"abstain_votes":         report.AbstainVotes,
		"participation_rate":    report.ParticipationRate,
		"approval_percentage":   report.ApprovalPercentage,
		"rejection_percentage":  report.RejectionPercentage,
		"abstention_percentage": report.AbstentionPercentage,
		"is_unanimous":          report.IsUnanimous,
		"unanimous_choice":      string(report.UnanimousChoice),
		"quorum_status":         string(report.QuorumStatus),
		"voting_margin":         report.VotingMargin,
		"consensus_level":       string(report.ConsensusLevel),
		"engagement_score":      report.EngagementScore,
		"comment_analysis": map[string]any{
			"total":   report.CommentAnalysis.Total,
			"approve": report.CommentAnalysis.Approve,
			"reject":  report.CommentAnalysis.Reject,
			"abstain": report.CommentAnalysis.Abstain,
		},
		"non_voters":    report.NonVoters,
		"passed":        report.Passed,
		"passed_reason": report.PassedReason,
	}
}
