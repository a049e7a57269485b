package entities

import (
	"strings"
	"time"
)

// Notification categories mirror the governance topics members can mute.
const (
	CategoryVotingOpened    = "voting_opened"
	CategoryVoteDecided     = "vote_decided"
	CategoryMeetingSchedule = "meeting_schedule"
	CategoryMinutesApproved = "minutes_approved"
)

// Preference holds a member's delivery settings. Absent preferences default
// to email on with nothing muted.
type Preference struct {
	MemberID        string
	EmailEnabled    bool
	MutedCategories []string
	UpdatedAt       time.Time
}

func DefaultPreference(memberID string) Preference {
	return Preference{
		MemberID:     memberID,
		EmailEnabled: true,
	}
}

// Allows reports whether this preference lets a category through.
func (p Preference) Allows(category string) bool {
	if !p.EmailEnabled {
		return false
	}
	for _, muted := range p.MutedCategories {
		if strings.EqualFold(muted, category) {
			return false
		}
	}
	return true
}

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is one queued email for one member. The delivery worker owns
// the pending -> sent/failed transition.
type Notification struct {
	NotificationID string
	MemberID       string
	Category       string
	Subject        string
	Body           string
	Status         NotificationStatus
	Attempts       int
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SentAt         *time.Time
}
