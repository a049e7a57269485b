package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ScheduleMeetingRequest struct {
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location,omitempty"`
	Agenda      []string  `json:"agenda,omitempty"`
}

type CancelMeetingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type RecordRSVPRequest struct {
	Reply string `json:"reply"`
	Note  string `json:"note,omitempty"`
}

type SubmitMinutesRequest struct {
	Content string `json:"content"`
}

type MeetingResponse struct {
	MeetingID   string    `json:"meeting_id"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location,omitempty"`
	Agenda      []string  `json:"agenda,omitempty"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type RSVPResponse struct {
	RSVPID    string    `json:"rsvp_id"`
	MeetingID string    `json:"meeting_id"`
	MemberID  string    `json:"member_id"`
	Reply     string    `json:"reply"`
	Note      string    `json:"note,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	Replayed  bool      `json:"replayed"`
	WasUpdate bool      `json:"was_update"`
}

type MeetingDetailResponse struct {
	Meeting MeetingResponse `json:"meeting"`
	RSVPs   []RSVPItem      `json:"rsvps"`
}

type RSVPItem struct {
	MemberID  string    `json:"member_id"`
	Reply     string    `json:"reply"`
	Note      string    `json:"note,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MeetingListResponse struct {
	Items []MeetingResponse `json:"items"`
}

type MinutesResponse struct {
	MinutesID   string     `json:"minutes_id"`
	MeetingID   string     `json:"meeting_id"`
	Content     string     `json:"content"`
	Status      string     `json:"status"`
	SubmittedBy string     `json:"submitted_by,omitempty"`
	ApprovedBy  string     `json:"approved_by,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
}
