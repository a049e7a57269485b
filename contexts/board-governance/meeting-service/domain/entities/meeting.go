package entities

import "time"

type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCompleted MeetingStatus = "completed"
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// Meeting is a scheduled board session. Resolutions may link to a meeting
// but the link is informational; meetings never gate voting.
type Meeting struct {
	MeetingID   string
	Title       string
	ScheduledAt time.Time
	Location    string
	Agenda      []string
	Status      MeetingStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Upcoming reports whether the meeting is still ahead and not cancelled.
func (m Meeting) Upcoming(now time.Time) bool {
	return m.Status == MeetingStatusScheduled && m.ScheduledAt.After(now)
}

type RSVPReply string

const (
	RSVPAttending RSVPReply = "attending"
	RSVPAbsent    RSVPReply = "absent"
	RSVPTentative RSVPReply = "tentative"
)

func (r RSVPReply) Known() bool {
	switch r {
	case RSVPAttending, RSVPAbsent, RSVPTentative:
		return true
	default:
		return false
	}
}

// RSVP is one member's reply to a meeting. A member holds at most one RSVP
// per meeting; replying again updates it in place.
type RSVP struct {
	RSVPID    string
	MeetingID string
	MemberID  string
	Reply     RSVPReply
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MinutesStatus string

const (
	MinutesStatusDraft     MinutesStatus = "draft"
	MinutesStatusSubmitted MinutesStatus = "submitted"
	MinutesStatusApproved  MinutesStatus = "approved"
)

// Minutes is the written record of a meeting. One minutes document per
// meeting; submission replaces a draft, approval is a chair action.
type Minutes struct {
	MinutesID   string
	MeetingID   string
	Content     string
	Status      MinutesStatus
	SubmittedBy string
	ApprovedBy  string
	SubmittedAt *time.Time
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
