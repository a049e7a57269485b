package meetingservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainerrors "boardgov/contexts/board-governance/meeting-service/domain/errors"
	"boardgov/contexts/board-governance/meeting-service/ports"
	httptransport "boardgov/contexts/board-governance/meeting-service/transport/http"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.EventEnvelope
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func TestMeetingScheduleRSVPAndMinutes(t *testing.T) {
	publisher := &recordingPublisher{}
	module := NewInMemoryModule(nil, publisher, nil)
	ctx := context.Background()
	scheduledAt := time.Now().UTC().Add(48 * time.Hour)

	meeting, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-sched-1", httptransport.ScheduleMeetingRequest{
		Title:       "Q3 board meeting",
		ScheduledAt: scheduledAt,
		Location:    "Community room",
		Agenda:      []string{"Budget review", " Elections ", ""},
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if meeting.Status != "scheduled" {
		t.Fatalf("status: got %s, want scheduled", meeting.Status)
	}
	if len(meeting.Agenda) != 2 || meeting.Agenda[1] != "Elections" {
		t.Fatalf("agenda not normalized: %v", meeting.Agenda)
	}

	first, err := module.Handler.RecordRSVPHandler(ctx, meeting.MeetingID, "member-2", "idem-rsvp-1", httptransport.RecordRSVPRequest{Reply: "attending"})
	if err != nil {
		t.Fatalf("rsvp failed: %v", err)
	}
	changed, err := module.Handler.RecordRSVPHandler(ctx, meeting.MeetingID, "member-2", "idem-rsvp-2", httptransport.RecordRSVPRequest{
		Reply: "tentative",
		Note:  "travelling that week",
	})
	if err != nil {
		t.Fatalf("rsvp change failed: %v", err)
	}
	if !changed.WasUpdate || changed.RSVPID != first.RSVPID {
		t.Fatalf("rsvp change should update in place: %+v", changed)
	}

	detail, err := module.Handler.MeetingDetailHandler(ctx, meeting.MeetingID)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if len(detail.RSVPs) != 1 || detail.RSVPs[0].Reply != "tentative" {
		t.Fatalf("detail rsvps: %+v", detail.RSVPs)
	}

	minutes, err := module.Handler.SubmitMinutesHandler(ctx, meeting.MeetingID, "secretary-1", "idem-min-1", httptransport.SubmitMinutesRequest{
		Content: "Discussed budget. Elections scheduled.",
	})
	if err != nil {
		t.Fatalf("submit minutes failed: %v", err)
	}
	if minutes.Status != "submitted" {
		t.Fatalf("minutes status: got %s, want submitted", minutes.Status)
	}

	approved, err := module.Handler.ApproveMinutesHandler(ctx, minutes.MinutesID, "chair-1", "idem-appr-1")
	if err != nil {
		t.Fatalf("approve minutes failed: %v", err)
	}
	if approved.Status != "approved" || approved.ApprovedBy != "chair-1" {
		t.Fatalf("approval fields: %+v", approved)
	}

	// Approved minutes are immutable.
	if _, err := module.Handler.SubmitMinutesHandler(ctx, meeting.MeetingID, "secretary-1", "idem-min-2", httptransport.SubmitMinutesRequest{
		Content: "Edited after the fact.",
	}); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("resubmit after approval: got %v, want ErrInvalidTransition", err)
	}

	if err := module.Relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("published events: got %d, want meeting.scheduled + minutes.approved", len(publisher.events))
	}
	if publisher.events[0].EventType != "meeting.scheduled" || publisher.events[1].EventType != "minutes.approved" {
		t.Fatalf("event types: %s, %s", publisher.events[0].EventType, publisher.events[1].EventType)
	}
}

func TestCancelledMeetingRejectsRSVP(t *testing.T) {
	module := NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()

	meeting, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-sched-1", httptransport.ScheduleMeetingRequest{
		Title:       "Special session",
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	cancelled, err := module.Handler.CancelMeetingHandler(ctx, meeting.MeetingID, "chair-1", "idem-cancel-1", httptransport.CancelMeetingRequest{Reason: "no quorum expected"})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != "cancelled" {
		t.Fatalf("status after cancel: %s", cancelled.Status)
	}

	if _, err := module.Handler.RecordRSVPHandler(ctx, meeting.MeetingID, "member-2", "idem-rsvp-1", httptransport.RecordRSVPRequest{Reply: "attending"}); !errors.Is(err, domainerrors.ErrMeetingNotScheduled) {
		t.Fatalf("rsvp on cancelled meeting: got %v, want ErrMeetingNotScheduled", err)
	}
	if _, err := module.Handler.CancelMeetingHandler(ctx, meeting.MeetingID, "chair-1", "idem-cancel-2", httptransport.CancelMeetingRequest{}); !errors.Is(err, domainerrors.ErrMeetingNotScheduled) {
		t.Fatalf("double cancel: got %v, want ErrMeetingNotScheduled", err)
	}
}

func TestScheduleMeetingReplayAndConflict(t *testing.T) {
	module := NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()
	req := httptransport.ScheduleMeetingRequest{
		Title:       "Annual general meeting",
		ScheduledAt: time.Date(2026, 11, 5, 18, 0, 0, 0, time.UTC),
	}

	first, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-1", req)
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	replay, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-1", req)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replay.MeetingID != first.MeetingID {
		t.Fatalf("replay created a second meeting")
	}

	conflicting := req
	conflicting.Title = "Extraordinary general meeting"
	if _, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-1", conflicting); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("got %v, want ErrIdempotencyConflict", err)
	}
}

func TestUpcomingMeetingsOrderedAndFiltered(t *testing.T) {
	module := NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()
	base := time.Now().UTC()

	later, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-1", httptransport.ScheduleMeetingRequest{
		Title:       "December session",
		ScheduledAt: base.Add(96 * time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	sooner, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-2", httptransport.ScheduleMeetingRequest{
		Title:       "November session",
		ScheduledAt: base.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	cancelled, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-3", httptransport.ScheduleMeetingRequest{
		Title:       "Cancelled session",
		ScheduledAt: base.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if _, err := module.Handler.CancelMeetingHandler(ctx, cancelled.MeetingID, "chair-1", "idem-4", httptransport.CancelMeetingRequest{}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	listed, err := module.Handler.UpcomingMeetingsHandler(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed.Items) != 2 {
		t.Fatalf("listed %d meetings, want 2", len(listed.Items))
	}
	if listed.Items[0].MeetingID != sooner.MeetingID || listed.Items[1].MeetingID != later.MeetingID {
		t.Fatalf("listing not soonest-first: %+v", listed.Items)
	}
}

func TestMinutesLookupByMeeting(t *testing.T) {
	module := NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()

	meeting, err := module.Handler.ScheduleMeetingHandler(ctx, "chair-1", "idem-1", httptransport.ScheduleMeetingRequest{
		Title:       "Working session",
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if _, err := module.Handler.MeetingMinutesHandler(ctx, meeting.MeetingID); !errors.Is(err, domainerrors.ErrMinutesNotFound) {
		t.Fatalf("minutes before submission: got %v, want ErrMinutesNotFound", err)
	}

	if _, err := module.Handler.SubmitMinutesHandler(ctx, meeting.MeetingID, "secretary-1", "idem-2", httptransport.SubmitMinutesRequest{Content: "Notes."}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	minutes, err := module.Handler.MeetingMinutesHandler(ctx, meeting.MeetingID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if minutes.MeetingID != meeting.MeetingID || minutes.Content != "Notes." {
		t.Fatalf("minutes lookup: %+v", minutes)
	}
}
