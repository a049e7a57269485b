package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	"boardgov/contexts/board-governance/resolution-service/ports"
)

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

type sequenceIDGen struct {
	next int
}

func (g *sequenceIDGen) NewID(context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

// fakeStore implements the repository, idempotency, and outbox ports against
// plain maps, mirroring what the real adapters persist.
type fakeStore struct {
	resolutions map[string]entities.Resolution
	ballots     map[string]entities.Ballot
	ballotOrder []string
	idempotency map[string]ports.IdempotencyRecord
	appended    []ports.EventEnvelope
}

func newFakeStore(seed ...entities.Resolution) *fakeStore {
	store := &fakeStore{
		resolutions: make(map[string]entities.Resolution),
		ballots:     make(map[string]entities.Ballot),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
	for _, resolution := range seed {
		store.resolutions[resolution.ResolutionID] = resolution
	}
	return store
}

func (s *fakeStore) SaveResolution(_ context.Context, resolution entities.Resolution) error {
	s.resolutions[resolution.ResolutionID] = resolution
	return nil
}

func (s *fakeStore) GetResolution(_ context.Context, resolutionID string) (entities.Resolution, error) {
	resolution, ok := s.resolutions[resolutionID]
	if !ok {
		return entities.Resolution{}, domainerrors.ErrResolutionNotFound
	}
	return resolution, nil
}

func (s *fakeStore) ListResolutionsByStatus(_ context.Context, status entities.ResolutionStatus) ([]entities.Resolution, error) {
	var items []entities.Resolution
	for _, resolution := range s.resolutions {
		if resolution.Status == status {
			items = append(items, resolution)
		}
	}
	return items, nil
}

func (s *fakeStore) SaveBallot(_ context.Context, ballot entities.Ballot) error {
	if _, exists := s.ballots[ballot.BallotID]; !exists {
		s.ballotOrder = append(s.ballotOrder, ballot.BallotID)
	}
	s.ballots[ballot.BallotID] = ballot
	return nil
}

func (s *fakeStore) GetBallot(_ context.Context, ballotID string) (entities.Ballot, error) {
	ballot, ok := s.ballots[ballotID]
	if !ok {
		return entities.Ballot{}, domainerrors.ErrBallotNotFound
	}
	return ballot, nil
}

func (s *fakeStore) GetBallotByVoter(_ context.Context, resolutionID string, voterID string) (entities.Ballot, bool, error) {
	for _, ballotID := range s.ballotOrder {
		ballot := s.ballots[ballotID]
		if ballot.ResolutionID == resolutionID && strings.EqualFold(ballot.VoterID, voterID) {
			return ballot, true, nil
		}
	}
	return entities.Ballot{}, false, nil
}

func (s *fakeStore) ListBallotsByResolution(_ context.Context, resolutionID string) ([]entities.Ballot, error) {
	var items []entities.Ballot
	for _, ballotID := range s.ballotOrder {
		if s.ballots[ballotID].ResolutionID == resolutionID {
			items = append(items, s.ballots[ballotID])
		}
	}
	return items, nil
}

func (s *fakeStore) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	record, ok := s.idempotency[key]
	if !ok || record.ExpiresAt.Before(now) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *fakeStore) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.idempotency[record.Key] = record
	return nil
}

func (s *fakeStore) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.appended = append(s.appended, event)
	return nil
}
