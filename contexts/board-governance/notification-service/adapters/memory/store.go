package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"boardgov/contexts/board-governance/notification-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/notification-service/domain/errors"
	"boardgov/contexts/board-governance/notification-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter backing tests and local wiring. It
// implements the repository ports, the member directory, Clock, and
// IDGenerator.
type Store struct {
	mu sync.RWMutex

	members           []ports.BoardMember
	preferences       map[string]entities.Preference
	notifications     map[string]entities.Notification
	notificationOrder []string
}

func NewStore(roster []ports.BoardMember) *Store {
	return &Store{
		members:       append([]ports.BoardMember(nil), roster...),
		preferences:   make(map[string]entities.Preference),
		notifications: make(map[string]entities.Notification),
	}
}

func (s *Store) ListBoardMembers(_ context.Context) ([]ports.BoardMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.BoardMember(nil), s.members...), nil
}

func (s *Store) GetBoardMember(_ context.Context, memberID string) (ports.BoardMember, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, member := range s.members {
		if strings.EqualFold(member.MemberID, strings.TrimSpace(memberID)) {
			return member, true, nil
		}
	}
	return ports.BoardMember{}, false, nil
}

func (s *Store) SavePreference(_ context.Context, preference entities.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[strings.TrimSpace(preference.MemberID)] = preference
	return nil
}

func (s *Store) GetPreference(_ context.Context, memberID string) (entities.Preference, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	preference, ok := s.preferences[strings.TrimSpace(memberID)]
	return preference, ok, nil
}

func (s *Store) SaveNotification(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notificationID := strings.TrimSpace(notification.NotificationID)
	if _, exists := s.notifications[notificationID]; !exists {
		s.notificationOrder = append(s.notificationOrder, notificationID)
	}
	s.notifications[notificationID] = notification
	return nil
}

func (s *Store) GetNotification(_ context.Context, notificationID string) (entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notification, ok := s.notifications[strings.TrimSpace(notificationID)]
	if !ok {
		return entities.Notification{}, domainerrors.ErrNotificationNotFound
	}
	return notification, nil
}

func (s *Store) ListPendingNotifications(_ context.Context, limit int) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Notification
	for _, notificationID := range s.notificationOrder {
		notification := s.notifications[notificationID]
		if notification.Status == entities.NotificationStatusPending {
			items = append(items, notification)
		}
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) ListNotificationsByMember(_ context.Context, memberID string) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Notification
	for _, notificationID := range s.notificationOrder {
		notification := s.notifications[notificationID]
		if strings.EqualFold(notification.MemberID, strings.TrimSpace(memberID)) {
			items = append(items, notification)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// RecordedMail is one message captured by the fake mailer.
type RecordedMail struct {
	To      string
	Subject string
	Body    string
}

// FakeMailer records sends for tests; FailFor forces errors per address.
type FakeMailer struct {
	mu      sync.Mutex
	Sent    []RecordedMail
	FailFor map[string]error
}

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{FailFor: make(map[string]error)}
}

func (m *FakeMailer) Send(_ context.Context, to string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailFor[to]; ok && err != nil {
		return err
	}
	m.Sent = append(m.Sent, RecordedMail{To: to, Subject: subject, Body: body})
	return nil
}

var _ ports.MemberDirectory = (*Store)(nil)
var _ ports.PreferenceRepository = (*Store)(nil)
var _ ports.NotificationRepository = (*Store)(nil)
var _ ports.Mailer = (*FakeMailer)(nil)
