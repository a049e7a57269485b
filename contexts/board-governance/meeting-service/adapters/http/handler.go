package httpadapter

import (
	"context"
	"log/slog"

	"boardgov/contexts/board-governance/meeting-service/application/commands"
	"boardgov/contexts/board-governance/meeting-service/application/queries"
	"boardgov/contexts/board-governance/meeting-service/domain/entities"
	httptransport "boardgov/contexts/board-governance/meeting-service/transport/http"
)

type Handler struct {
	Meetings commands.MeetingUseCase
	Minutes  commands.MinutesUseCase
	Queries  queries.MeetingUseCase
	Logger   *slog.Logger
}

func (h Handler) ScheduleMeetingHandler(
	ctx context.Context,
	creatorID string,
	idempotencyKey string,
	req httptransport.ScheduleMeetingRequest,
) (httptransport.MeetingResponse, error) {
	meeting, err := h.Meetings.ScheduleMeeting(ctx, commands.ScheduleMeetingCommand{
		CreatorID:      creatorID,
		IdempotencyKey: idempotencyKey,
		Title:          req.Title,
		ScheduledAt:    req.ScheduledAt,
		Location:       req.Location,
		Agenda:         req.Agenda,
	})
	if err != nil {
		return httptransport.MeetingResponse{}, err
	}
	return mapMeeting(meeting), nil
}

func (h Handler) CancelMeetingHandler(
	ctx context.Context,
	meetingID string,
	actorID string,
	idempotencyKey string,
	req httptransport.CancelMeetingRequest,
) (httptransport.MeetingResponse, error) {
	meeting, err := h.Meetings.CancelMeeting(ctx, commands.CancelMeetingCommand{
		MeetingID:      meetingID,
		ActorID:        actorID,
		IdempotencyKey: idempotencyKey,
		Reason:         req.Reason,
	})
	if err != nil {
		return httptransport.MeetingResponse{}, err
	}
	return mapMeeting(meeting), nil
}

func (h Handler) RecordRSVPHandler(
	ctx context.Context,
	meetingID string,
	memberID string,
	idempotencyKey string,
	req httptransport.RecordRSVPRequest,
) (httptransport.RSVPResponse, error) {
	result, err := h.Meetings.RecordRSVP(ctx, commands.RecordRSVPCommand{
		MeetingID:      meetingID,
		MemberID:       memberID,
		IdempotencyKey: idempotencyKey,
		Reply:          entities.RSVPReply(req.Reply),
		Note:           req.Note,
	})
	if err != nil {
		return httptransport.RSVPResponse{}, err
	}
	return httptransport.RSVPResponse{
		RSVPID:    result.RSVP.RSVPID,
		MeetingID: result.RSVP.MeetingID,
		MemberID:  result.RSVP.MemberID,
		Reply:     string(result.RSVP.Reply),
		Note:      result.RSVP.Note,
		UpdatedAt: result.RSVP.UpdatedAt,
		Replayed:  result.Replayed,
		WasUpdate: result.WasUpdate,
	}, nil
}

func (h Handler) SubmitMinutesHandler(
	ctx context.Context,
	meetingID string,
	actorID string,
	idempotencyKey string,
	req httptransport.SubmitMinutesRequest,
) (httptransport.MinutesResponse, error) {
	minutes, err := h.Minutes.SubmitMinutes(ctx, commands.SubmitMinutesCommand{
		MeetingID:      meetingID,
		ActorID:        actorID,
		IdempotencyKey: idempotencyKey,
		Content:        req.Content,
	})
	if err != nil {
		return httptransport.MinutesResponse{}, err
	}
	return mapMinutes(minutes), nil
}

func (h Handler) ApproveMinutesHandler(
	ctx context.Context,
	minutesID string,
	actorID string,
	idempotencyKey string,
) (httptransport.MinutesResponse, error) {
	minutes, err := h.Minutes.ApproveMinutes(ctx, commands.ApproveMinutesCommand{
		MinutesID:      minutesID,
		ActorID:        actorID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return httptransport.MinutesResponse{}, err
	}
	return mapMinutes(minutes), nil
}

func (h Handler) UpcomingMeetingsHandler(ctx context.Context) (httptransport.MeetingListResponse, error) {
	meetings, err := h.Queries.UpcomingMeetings(ctx)
	if err != nil {
		return httptransport.MeetingListResponse{}, err
	}
	items := make([]httptransport.MeetingResponse, 0, len(meetings))
	for _, meeting := range meetings {
		items = append(items, mapMeeting(meeting))
	}
	return httptransport.MeetingListResponse{Items: items}, nil
}

func (h Handler) MeetingDetailHandler(ctx context.Context, meetingID string) (httptransport.MeetingDetailResponse, error) {
	detail, err := h.Queries.MeetingDetail(ctx, meetingID)
	if err != nil {
		return httptransport.MeetingDetailResponse{}, err
	}
	rsvps := make([]httptransport.RSVPItem, 0, len(detail.RSVPs))
	for _, rsvp := range detail.RSVPs {
		rsvps = append(rsvps, httptransport.RSVPItem{
			MemberID:  rsvp.MemberID,
			Reply:     string(rsvp.Reply),
			Note:      rsvp.Note,
			UpdatedAt: rsvp.UpdatedAt,
		})
	}
	return httptransport.MeetingDetailResponse{
		Meeting: mapMeeting(detail.Meeting),
		RSVPs:   rsvps,
	}, nil
}

func (h Handler) MeetingMinutesHandler(ctx context.Context, meetingID string) (httptransport.MinutesResponse, error) {
	minutes, err := h.Queries.MinutesByMeeting(ctx, meetingID)
	if err != nil {
		return httptransport.MinutesResponse{}, err
	}
	return mapMinutes(minutes), nil
}

func mapMeeting(meeting entities.Meeting) httptransport.MeetingResponse {
	return httptransport.MeetingResponse{
		MeetingID:   meeting.MeetingID,
		Title:       meeting.Title,
		ScheduledAt: meeting.ScheduledAt,
		Location:    meeting.Location,
		Agenda:      meeting.Agenda,
		Status:      string(meeting.Status),
		CreatedBy:   meeting.CreatedBy,
		CreatedAt:   meeting.CreatedAt,
	}
}

func mapMinutes(minutes entities.Minutes) httptransport.MinutesResponse {
	return httptransport.MinutesResponse{
		MinutesID:   minutes.MinutesID,
		MeetingID:   minutes.MeetingID,
		Content:     minutes.Content,
		Status:      string(minutes.Status),
		SubmittedBy: minutes.SubmittedBy,
		ApprovedBy:  minutes.ApprovedBy,
		SubmittedAt: minutes.SubmittedAt,
		ApprovedAt:  minutes.ApprovedAt,
	}
}
