package entities

import (
	"strings"
	"time"
)

// BallotChoice is the canonical vote vocabulary. The persistence adapter is
// the only place allowed to translate to the legacy for/against column values.
type BallotChoice string

const (
	ChoiceApprove BallotChoice = "approve"
	ChoiceReject  BallotChoice = "reject"
	ChoiceAbstain BallotChoice = "abstain"
)

func (c BallotChoice) Known() bool {
	switch c {
	case ChoiceApprove, ChoiceReject, ChoiceAbstain:
		return true
	default:
		return false
	}
}

// Ballot is one board member's recorded choice on a resolution. A member
// holds at most one ballot per resolution; re-casting updates it in place.
type Ballot struct {
	BallotID     string
	ResolutionID string
	VoterID      string
	Choice       BallotChoice
	Comment      string
	CastAt       time.Time
	UpdatedAt    time.Time
}

// HasComment ignores whitespace-only comments so ballots loaded from
// un-trimmed legacy rows do not inflate comment density.
func (b Ballot) HasComment() bool {
	return strings.TrimSpace(b.Comment) != ""
}

type ResolutionStatus string

const (
	ResolutionStatusDraft       ResolutionStatus = "draft"
	ResolutionStatusUnderReview ResolutionStatus = "under_review"
	ResolutionStatusVoting      ResolutionStatus = "voting"
	ResolutionStatusApproved    ResolutionStatus = "approved"
	ResolutionStatusRejected    ResolutionStatus = "rejected"
	ResolutionStatusWithdrawn   ResolutionStatus = "withdrawn"
)

// Decided reports whether the lifecycle reached a terminal voted outcome.
func (s ResolutionStatus) Decided() bool {
	return s == ResolutionStatusApproved || s == ResolutionStatusRejected
}

// Resolution is a votable item governed by eligibility/quorum/majority
// parameters. The parameters are frozen when voting opens.
type Resolution struct {
	ResolutionID         string
	MeetingID            string
	Title                string
	Body                 string
	ProposedBy           string
	Status               ResolutionStatus
	TotalEligibleVoters  int
	MinimumQuorumPercent int
	RequiresMajority     bool
	VotingDeadline       *time.Time
	PassedReason         string
	DecidedAt            *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// VotingOpen reports whether ballots are accepted at the given instant.
func (r Resolution) VotingOpen(now time.Time) bool {
	if r.Status != ResolutionStatusVoting {
		return false
	}
	if r.VotingDeadline != nil && r.VotingDeadline.UTC().Before(now.UTC()) {
		return false
	}
	return true
}

// DeadlineElapsed reports whether the resolution has a deadline in the past.
func (r Resolution) DeadlineElapsed(now time.Time) bool {
	return r.VotingDeadline != nil && r.VotingDeadline.UTC().Before(now.UTC())
}
