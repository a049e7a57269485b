package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateResolutionRequest struct {
	Title                string     `json:"title"`
	Body                 string     `json:"body,omitempty"`
	MeetingID            string     `json:"meeting_id,omitempty"`
	TotalEligibleVoters  int        `json:"total_eligible_voters"`
	MinimumQuorumPercent int        `json:"minimum_quorum_percent"`
	RequiresMajority     bool       `json:"requires_majority"`
	VotingDeadline       *time.Time `json:"voting_deadline,omitempty"`
}

type OpenVotingRequest struct {
	TotalEligibleVoters int        `json:"total_eligible_voters,omitempty"`
	VotingDeadline      *time.Time `json:"voting_deadline,omitempty"`
}

type WithdrawResolutionRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ResolutionResponse struct {
	ResolutionID         string     `json:"resolution_id"`
	MeetingID            string     `json:"meeting_id,omitempty"`
	Title                string     `json:"title"`
	Body                 string     `json:"body,omitempty"`
	ProposedBy           string     `json:"proposed_by"`
	Status               string     `json:"status"`
	TotalEligibleVoters  int        `json:"total_eligible_voters"`
	MinimumQuorumPercent int        `json:"minimum_quorum_percent"`
	RequiresMajority     bool       `json:"requires_majority"`
	VotingDeadline       *time.Time `json:"voting_deadline,omitempty"`
	PassedReason         string     `json:"passed_reason,omitempty"`
	DecidedAt            *time.Time `json:"decided_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type CastBallotRequest struct {
	Choice  string `json:"choice"`
	Comment string `json:"comment,omitempty"`
}

type BallotResponse struct {
	BallotID     string    `json:"ballot_id"`
	ResolutionID string    `json:"resolution_id"`
	VoterID      string    `json:"voter_id"`
	Choice       string    `json:"choice"`
	Comment      string    `json:"comment,omitempty"`
	CastAt       time.Time `json:"cast_at"`
	Replayed     bool      `json:"replayed"`
	WasUpdate    bool      `json:"was_update"`
}

type CommentAnalysisResponse struct {
	Total   int `json:"total"`
	Approve int `json:"approve"`
	Reject  int `json:"reject"`
	Abstain int `json:"abstain"`
}

type VotingReportResponse struct {
	ResolutionID string `json:"resolution_id"`
	Title        string `json:"title"`
	Status       string `json:"status"`

	TotalVotes   int `json:"total_votes"`
	ApproveVotes int `json:"approve_votes"`
	RejectVotes  int `json:"reject_votes"`
	AbstainVotes int `json:"abstain_votes"`

	ParticipationRate    int `json:"participation_rate"`
	ApprovalPercentage   int `json:"approval_percentage"`
	RejectionPercentage  int `json:"rejection_percentage"`
	AbstentionPercentage int `json:"abstention_percentage"`

	IsUnanimous     bool   `json:"is_unanimous"`
	UnanimousChoice string `json:"unanimous_choice,omitempty"`

	QuorumStatus    string `json:"quorum_status"`
	VotingMargin    int    `json:"voting_margin"`
	ConsensusLevel  string `json:"consensus_level"`
	EngagementScore int    `json:"engagement_score"`

	CommentAnalysis CommentAnalysisResponse `json:"comment_analysis"`
	NonVoters       int                     `json:"non_voters"`

	Passed       bool   `json:"passed"`
	PassedReason string `json:"passed_reason"`
}

type BallotEligibilityResponse struct {
	Open           bool       `json:"open"`
	Reason         string     `json:"reason"`
	AlreadyVoted   bool       `json:"already_voted"`
	ExistingChoice string     `json:"existing_choice,omitempty"`
	VotingDeadline *time.Time `json:"voting_deadline,omitempty"`
}

type BallotAuditItem struct {
	BallotID   string    `json:"ballot_id"`
	VoterID    string    `json:"voter_id"`
	Choice     string    `json:"choice"`
	HasComment bool      `json:"has_comment"`
	Comment    string    `json:"comment,omitempty"`
	CastAt     time.Time `json:"cast_at"`
}

type BallotListResponse struct {
	ResolutionID string            `json:"resolution_id"`
	Items        []BallotAuditItem `json:"items"`
}
