package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"boardgov/contexts/board-governance/meeting-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/meeting-service/domain/errors"
	"boardgov/contexts/board-governance/meeting-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	sequence  int
	published bool
}

// Store is the in-memory adapter backing tests and local wiring. It
// implements every repository port plus Clock and IDGenerator.
type Store struct {
	mu sync.RWMutex

	meetings    map[string]entities.Meeting
	rsvps       map[string]entities.RSVP
	rsvpOrder   map[string][]string
	minutes     map[string]entities.Minutes
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRecord
	sequence    int
}

func NewStore(seed []entities.Meeting) *Store {
	meetings := make(map[string]entities.Meeting, len(seed))
	for _, meeting := range seed {
		meetings[meeting.MeetingID] = meeting
	}
	return &Store{
		meetings:    meetings,
		rsvps:       make(map[string]entities.RSVP),
		rsvpOrder:   make(map[string][]string),
		minutes:     make(map[string]entities.Minutes),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]outboxRecord),
	}
}

func (s *Store) SaveMeeting(_ context.Context, meeting entities.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[strings.TrimSpace(meeting.MeetingID)] = meeting
	return nil
}

func (s *Store) GetMeeting(_ context.Context, meetingID string) (entities.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meeting, ok := s.meetings[strings.TrimSpace(meetingID)]
	if !ok {
		return entities.Meeting{}, domainerrors.ErrMeetingNotFound
	}
	return meeting, nil
}

func (s *Store) ListUpcomingMeetings(_ context.Context, from time.Time) ([]entities.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Meeting
	for _, meeting := range s.meetings {
		if meeting.Status == entities.MeetingStatusScheduled && !meeting.ScheduledAt.Before(from) {
			items = append(items, meeting)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ScheduledAt.Equal(items[j].ScheduledAt) {
			return items[i].MeetingID < items[j].MeetingID
		}
		return items[i].ScheduledAt.Before(items[j].ScheduledAt)
	})
	return items, nil
}

func (s *Store) SaveRSVP(_ context.Context, rsvp entities.RSVP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rsvpID := strings.TrimSpace(rsvp.RSVPID)
	if _, exists := s.rsvps[rsvpID]; !exists {
		meetingID := strings.TrimSpace(rsvp.MeetingID)
		s.rsvpOrder[meetingID] = append(s.rsvpOrder[meetingID], rsvpID)
	}
	s.rsvps[rsvpID] = rsvp
	return nil
}

func (s *Store) GetRSVPByMember(_ context.Context, meetingID string, memberID string) (entities.RSVP, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rsvpID := range s.rsvpOrder[strings.TrimSpace(meetingID)] {
		rsvp := s.rsvps[rsvpID]
		if strings.EqualFold(rsvp.MemberID, strings.TrimSpace(memberID)) {
			return rsvp, true, nil
		}
	}
	return entities.RSVP{}, false, nil
}

func (s *Store) ListRSVPsByMeeting(_ context.Context, meetingID string) ([]entities.RSVP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.rsvpOrder[strings.TrimSpace(meetingID)]
	items := make([]entities.RSVP, 0, len(order))
	for _, rsvpID := range order {
		items = append(items, s.rsvps[rsvpID])
	}
	return items, nil
}

func (s *Store) SaveMinutes(_ context.Context, minutes entities.Minutes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minutes[strings.TrimSpace(minutes.MinutesID)] = minutes
	return nil
}

func (s *Store) GetMinutes(_ context.Context, minutesID string) (entities.Minutes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	minutes, ok := s.minutes[strings.TrimSpace(minutesID)]
	if !ok {
		return entities.Minutes{}, domainerrors.ErrMinutesNotFound
	}
	return minutes, nil
}

func (s *Store) GetMinutesByMeeting(_ context.Context, meetingID string) (entities.Minutes, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, minutes := range s.minutes {
		if minutes.MeetingID == strings.TrimSpace(meetingID) {
			return minutes, true, nil
		}
	}
	return entities.Minutes{}, false, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok || record.ExpiresAt.Before(now) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[strings.TrimSpace(record.Key)] = record
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	s.outbox[event.EventID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			CreatedAt: event.OccurredAt,
		},
		sequence: s.sequence,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []outboxRecord
	for _, record := range s.outbox {
		if !record.published {
			pending = append(pending, record)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].sequence < pending[j].sequence
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(pending))
	for _, record := range pending {
		items = append(items, record.message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	record.published = true
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
