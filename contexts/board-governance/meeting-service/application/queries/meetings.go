package queries

import (
	"context"
	"strings"
	"time"

	"boardgov/contexts/board-governance/meeting-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/meeting-service/domain/errors"
	"boardgov/contexts/board-governance/meeting-service/ports"
)

// MeetingUseCase is the read side: upcoming listings, the detail view with
// RSVPs, and minutes lookup.
type MeetingUseCase struct {
	Meetings ports.MeetingRepository
	RSVPs    ports.RSVPRepository
	Minutes  ports.MinutesRepository
	Clock    ports.Clock
}

func (uc MeetingUseCase) UpcomingMeetings(ctx context.Context) ([]entities.Meeting, error) {
	return uc.Meetings.ListUpcomingMeetings(ctx, uc.now())
}

// MeetingDetail pairs the meeting header with member replies.
type MeetingDetail struct {
	Meeting entities.Meeting
	RSVPs   []entities.RSVP
}

func (uc MeetingUseCase) MeetingDetail(ctx context.Context, meetingID string) (MeetingDetail, error) {
	meeting, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(meetingID))
	if err != nil {
		return MeetingDetail{}, err
	}
	rsvps, err := uc.RSVPs.ListRSVPsByMeeting(ctx, meeting.MeetingID)
	if err != nil {
		return MeetingDetail{}, err
	}
	return MeetingDetail{Meeting: meeting, RSVPs: rsvps}, nil
}

func (uc MeetingUseCase) MinutesByMeeting(ctx context.Context, meetingID string) (entities.Minutes, error) {
	if _, err := uc.Meetings.GetMeeting(ctx, strings.TrimSpace(meetingID)); err != nil {
		return entities.Minutes{}, err
	}
	minutes, found, err := uc.Minutes.GetMinutesByMeeting(ctx, strings.TrimSpace(meetingID))
	if err != nil {
		return entities.Minutes{}, err
	}
	if !found {
		return entities.Minutes{}, domainerrors.ErrMinutesNotFound
	}
	return minutes, nil
}

func (uc MeetingUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
