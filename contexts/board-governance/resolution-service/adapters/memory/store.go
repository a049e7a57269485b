package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	"boardgov/contexts/board-governance/resolution-service/ports"

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

	resolutions map[string]entities.Resolution
	ballots     map[string]entities.Ballot
	ballotOrder map[string][]string
	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRecord
	sequence    int
}

func NewStore(seed []entities.Resolution) *Store {
	resolutions := make(map[string]entities.Resolution, len(seed))
	for _, resolution := range seed {
		resolutions[resolution.ResolutionID] = resolution
	}
	return &Store{
		resolutions: resolutions,
		ballots:     make(map[string]entities.Ballot),
		ballotOrder: make(map[string][]string),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]outboxRecord),
	}
}

func (s *Store) SaveResolution(_ context.Context, resolution entities.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolutions[strings.TrimSpace(resolution.ResolutionID)] = resolution
	return nil
}

func (s *Store) GetResolution(_ context.Context, resolutionID string) (entities.Resolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resolution, ok := s.resolutions[strings.TrimSpace(resolutionID)]
	if !ok {
		return entities.Resolution{}, domainerrors.ErrResolutionNotFound
	}
	return resolution, nil
}

func (s *Store) ListResolutionsByStatus(_ context.Context, status entities.ResolutionStatus) ([]entities.Resolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Resolution
	for _, resolution := range s.resolutions {
		if resolution.Status == status {
			items = append(items, resolution)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ResolutionID < items[j].ResolutionID
	})
	return items, nil
}

func (s *Store) SaveBallot(_ context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ballotID := strings.TrimSpace(ballot.BallotID)
	if _, exists := s.ballots[ballotID]; !exists {
		resolutionID := strings.TrimSpace(ballot.ResolutionID)
		s.ballotOrder[resolutionID] = append(s.ballotOrder[resolutionID], ballotID)
	}
	s.ballots[ballotID] = ballot
	return nil
}

func (s *Store) GetBallot(_ context.Context, ballotID string) (entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.ballots[strings.TrimSpace(ballotID)]
	if !ok {
		return entities.Ballot{}, domainerrors.ErrBallotNotFound
	}
	return ballot, nil
}

func (s *Store) GetBallotByVoter(_ context.Context, resolutionID string, voterID string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ballotID := range s.ballotOrder[strings.TrimSpace(resolutionID)] {
		ballot := s.ballots[ballotID]
		if strings.EqualFold(ballot.VoterID, strings.TrimSpace(voterID)) {
			return ballot, true, nil
		}
	}
	return entities.Ballot{}, false, nil
}

func (s *Store) ListBallotsByResolution(_ context.Context, resolutionID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.ballotOrder[strings.TrimSpace(resolutionID)]
	items := make([]entities.Ballot, 0, len(order))
	for _, ballotID := range order {
		items = append(items, s.ballots[ballotID])
	}
	return items, nil
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
