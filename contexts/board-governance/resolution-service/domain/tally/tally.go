// Package tally computes voting statistics and the pass/fail outcome for a
// resolution from its cast ballots and voting parameters. It is a pure
// computation: no I/O, no clock, no hidden state. Live standings, the
// completion decision, and emailed summaries all flow through Evaluate so the
// arithmetic can never diverge between surfaces.
package tally

import (
	"fmt"
	"math"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
)

// Context carries the eligibility/quorum/majority parameters governing a
// vote. TotalEligibleVoters must be at least 1 and MinimumQuorumPercent must
// be within [0,100]; Evaluate rejects anything else.
type Context struct {
	TotalEligibleVoters  int
	MinimumQuorumPercent int
	RequiresMajority     bool
}

func (c Context) Validate() error {
	if c.TotalEligibleVoters < 1 {
		return domainerrors.ErrInvalidTallyContext
	}
	if c.MinimumQuorumPercent < 0 || c.MinimumQuorumPercent > 100 {
		return domainerrors.ErrInvalidTallyContext
	}
	return nil
}

type QuorumStatus string

const (
	QuorumMet    QuorumStatus = "met"
	QuorumNotMet QuorumStatus = "not_met"
)

// ConsensusLevel labels how lopsided the approval percentage is, by its
// distance from an even 50/50 split.
type ConsensusLevel string

const (
	ConsensusStrong    ConsensusLevel = "strong"
	ConsensusModerate  ConsensusLevel = "moderate"
	ConsensusContested ConsensusLevel = "contested"
)

// CommentBreakdown counts ballots carrying a non-empty comment, per choice.
type CommentBreakdown struct {
	Total   int
	Approve int
	Reject  int
	Abstain int
}

// Report is the full voting-statistics report. Every field is derived
// arithmetically from the inputs; consumers must not recompute any of them.
type Report struct {
	TotalVotes   int
	ApproveVotes int
	RejectVotes  int
	AbstainVotes int

	ParticipationRate    int
	ApprovalPercentage   int
	RejectionPercentage  int
	AbstentionPercentage int

	IsUnanimous     bool
	UnanimousChoice entities.BallotChoice

	QuorumStatus    QuorumStatus
	VotingMargin    int
	ConsensusLevel  ConsensusLevel
	EngagementScore int

	CommentAnalysis CommentBreakdown
	NonVoters       int

	Passed       bool
	PassedReason string
}

// Evaluate turns ballots plus voting parameters into a deterministic report.
// Ballots with an unrecognized choice are excluded from every count,
// TotalVotes included. With zero countable ballots the report degrades to
// zero/false defaults and the outcome is a quorum failure.
func Evaluate(ballots []entities.Ballot, ctx Context) (Report, error) {
	if err := ctx.Validate(); err != nil {
		return Report{}, err
	}

	var report Report
	for _, ballot := range ballots {
		switch ballot.Choice {
		case entities.ChoiceApprove:
			report.ApproveVotes++
			if ballot.HasComment() {
				report.CommentAnalysis.Approve++
			}
		case entities.ChoiceReject:
			report.RejectVotes++
			if ballot.HasComment() {
				report.CommentAnalysis.Reject++
			}
		case entities.ChoiceAbstain:
			report.AbstainVotes++
			if ballot.HasComment() {
				report.CommentAnalysis.Abstain++
			}
		default:
			// Unknown vocabulary is a persistence-layer fault; skip uniformly.
			continue
		}
	}
	report.TotalVotes = report.ApproveVotes + report.RejectVotes + report.AbstainVotes
	report.CommentAnalysis.Total = report.CommentAnalysis.Approve +
		report.CommentAnalysis.Reject +
		report.CommentAnalysis.Abstain

	report.ParticipationRate = clampPercent(percent(report.TotalVotes, ctx.TotalEligibleVoters))
	if report.TotalVotes > 0 {
		report.ApprovalPercentage = percent(report.ApproveVotes, report.TotalVotes)
		report.RejectionPercentage = percent(report.RejectVotes, report.TotalVotes)
		report.AbstentionPercentage = percent(report.AbstainVotes, report.TotalVotes)
	}

	if report.TotalVotes > 0 {
		switch report.TotalVotes {
		case report.ApproveVotes:
			report.IsUnanimous = true
			report.UnanimousChoice = entities.ChoiceApprove
		case report.RejectVotes:
			report.IsUnanimous = true
			report.UnanimousChoice = entities.ChoiceReject
		case report.AbstainVotes:
			report.IsUnanimous = true
			report.UnanimousChoice = entities.ChoiceAbstain
		}
	}

	report.QuorumStatus = QuorumNotMet
	if report.ParticipationRate >= ctx.MinimumQuorumPercent {
		report.QuorumStatus = QuorumMet
	}

	report.VotingMargin = report.ApproveVotes - report.RejectVotes
	report.ConsensusLevel = consensusLevel(report.TotalVotes, report.ApprovalPercentage)
	report.EngagementScore = engagementScore(
		report.ParticipationRate,
		report.CommentAnalysis.Total,
		report.TotalVotes,
	)

	report.NonVoters = ctx.TotalEligibleVoters - report.TotalVotes
	if report.NonVoters < 0 {
		report.NonVoters = 0
	}

	report.Passed, report.PassedReason = decideOutcome(report, ctx)
	return report, nil
}

// decideOutcome applies the fixed decision procedure: quorum gate first, then
// strict majority of votes cast when required, otherwise simple plurality in
// favor.
func decideOutcome(report Report, ctx Context) (bool, string) {
	if report.QuorumStatus == QuorumNotMet {
		return false, fmt.Sprintf(
			"quorum not met: participation %d%% is below the required %d%%",
			report.ParticipationRate, ctx.MinimumQuorumPercent,
		)
	}

	if ctx.RequiresMajority {
		if report.ApproveVotes > report.TotalVotes/2 {
			return true, fmt.Sprintf(
				"strict majority reached: %d of %d votes in favor (margin %+d)",
				report.ApproveVotes, report.TotalVotes, report.VotingMargin,
			)
		}
		return false, fmt.Sprintf(
			"strict majority not reached: %d of %d votes in favor (margin %+d)",
			report.ApproveVotes, report.TotalVotes, report.VotingMargin,
		)
	}

	if report.ApproveVotes > 0 && report.ApproveVotes >= report.RejectVotes {
		return true, fmt.Sprintf(
			"plurality in favor: %d approve vs %d reject",
			report.ApproveVotes, report.RejectVotes,
		)
	}
	if report.ApproveVotes == 0 {
		return false, "no approving votes cast"
	}
	return false, fmt.Sprintf(
		"plurality against: %d approve vs %d reject",
		report.ApproveVotes, report.RejectVotes,
	)
}

// consensusLevel is monotonic in the approval percentage's distance from 50.
// An empty vote carries no signal and is always contested.
func consensusLevel(totalVotes int, approvalPercentage int) ConsensusLevel {
	if totalVotes == 0 {
		return ConsensusContested
	}
	distance := approvalPercentage - 50
	if distance < 0 {
		distance = -distance
	}
	switch {
	case distance >= 40:
		return ConsensusStrong
	case distance >= 15:
		return ConsensusModerate
	default:
		return ConsensusContested
	}
}

// engagementScore blends participation (weight 0.7) with comment density
// (weight 0.3, scaled to 0-100). Monotone non-decreasing in both inputs.
func engagementScore(participationRate int, commented int, totalVotes int) int {
	density := 0.0
	if totalVotes > 0 {
		density = float64(commented) / float64(totalVotes)
	}
	score := 0.7*float64(participationRate) + 30.0*density
	return int(math.Round(score))
}

func percent(part int, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
