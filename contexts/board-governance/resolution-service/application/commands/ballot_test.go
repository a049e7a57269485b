package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	"boardgov/contexts/board-governance/resolution-service/ports"
)

func ballotUseCase(store *fakeStore, now time.Time) BallotUseCase {
	return BallotUseCase{
		Resolutions: store,
		Ballots:     store,
		Idempotency: store,
		Outbox:      store,
		Clock:       fixedClock{at: now},
		IDGen:       &sequenceIDGen{},
	}
}

func votingResolution(deadline *time.Time) entities.Resolution {
	return entities.Resolution{
		ResolutionID:         "res-1",
		Title:                "Adopt reserve study",
		Status:               entities.ResolutionStatusVoting,
		TotalEligibleVoters:  5,
		MinimumQuorumPercent: 50,
		VotingDeadline:       deadline,
	}
}

func TestCastBallotStampsClockAndTrimsInput(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(votingResolution(nil))
	uc := ballotUseCase(store, now)

	result, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID:        "  member-4  ",
		IdempotencyKey: "idem-1",
		ResolutionID:   "res-1",
		Choice:         entities.ChoiceApprove,
		Comment:        "  supports with caveats  ",
	})
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	if result.Ballot.VoterID != "member-4" || result.Ballot.Comment != "supports with caveats" {
		t.Fatalf("input not trimmed: %+v", result.Ballot)
	}
	if !result.Ballot.CastAt.Equal(now) {
		t.Fatalf("cast_at: got %s, want clock time %s", result.Ballot.CastAt, now)
	}
	if len(store.appended) != 1 || store.appended[0].EventType != "ballot.cast" {
		t.Fatalf("expected one ballot.cast outbox event, got %+v", store.appended)
	}
}

func TestCastBallotRejectedAfterDeadline(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	deadline := now.Add(-time.Hour)
	store := newFakeStore(votingResolution(&deadline))
	uc := ballotUseCase(store, now)

	_, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID:        "member-4",
		IdempotencyKey: "idem-1",
		ResolutionID:   "res-1",
		Choice:         entities.ChoiceApprove,
	})
	if !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("got %v, want ErrVotingClosed", err)
	}
}

func TestCastBallotRejectedOutsideVotingStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	resolution := votingResolution(nil)
	resolution.Status = entities.ResolutionStatusUnderReview
	store := newFakeStore(resolution)
	uc := ballotUseCase(store, now)

	_, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID:        "member-4",
		IdempotencyKey: "idem-1",
		ResolutionID:   "res-1",
		Choice:         entities.ChoiceReject,
	})
	if !errors.Is(err, domainerrors.ErrVotingNotOpen) {
		t.Fatalf("got %v, want ErrVotingNotOpen", err)
	}
}

func TestCastBallotInputValidation(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(votingResolution(nil))
	uc := ballotUseCase(store, now)

	cases := []struct {
		name string
		cmd  CastBallotCommand
		want error
	}{
		{
			name: "unknown choice",
			cmd:  CastBallotCommand{VoterID: "member-1", IdempotencyKey: "k", ResolutionID: "res-1", Choice: "maybe"},
			want: domainerrors.ErrInvalidBallotInput,
		},
		{
			name: "blank voter",
			cmd:  CastBallotCommand{VoterID: "   ", IdempotencyKey: "k", ResolutionID: "res-1", Choice: entities.ChoiceApprove},
			want: domainerrors.ErrInvalidBallotInput,
		},
		{
			name: "missing idempotency key",
			cmd:  CastBallotCommand{VoterID: "member-1", ResolutionID: "res-1", Choice: entities.ChoiceApprove},
			want: domainerrors.ErrIdempotencyKeyRequired,
		},
	}
	for _, c := range cases {
		if _, err := uc.CastBallot(context.Background(), c.cmd); !errors.Is(err, c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestCastBallotReplayReturnsStoredBallot(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(votingResolution(nil))
	uc := ballotUseCase(store, now)
	cmd := CastBallotCommand{
		VoterID:        "member-4",
		IdempotencyKey: "idem-1",
		ResolutionID:   "res-1",
		Choice:         entities.ChoiceAbstain,
	}

	first, err := uc.CastBallot(context.Background(), cmd)
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	second, err := uc.CastBallot(context.Background(), cmd)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !second.Replayed || second.Ballot.BallotID != first.Ballot.BallotID {
		t.Fatalf("replay mismatch: %+v vs %+v", first, second)
	}
	if len(store.appended) != 1 {
		t.Fatalf("replay must not append another event, got %d", len(store.appended))
	}
}

func TestCastBallotExpiredIdempotencyRecordIsFresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(votingResolution(nil))
	store.idempotency["idem-1"] = ports.IdempotencyRecord{
		Key:         "idem-1",
		RequestHash: "stale",
		EntityID:    "ballot-old",
		ExpiresAt:   now.Add(-time.Minute),
	}
	uc := ballotUseCase(store, now)

	result, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID:        "member-4",
		IdempotencyKey: "idem-1",
		ResolutionID:   "res-1",
		Choice:         entities.ChoiceApprove,
	})
	if err != nil {
		t.Fatalf("cast with expired record failed: %v", err)
	}
	if result.Replayed {
		t.Fatalf("expired record must not count as a replay")
	}
	if record := store.idempotency["idem-1"]; record.EntityID != result.Ballot.BallotID {
		t.Fatalf("expired record not replaced: %+v", record)
	}
}

func TestCastBallotVoterMatchIsCaseInsensitive(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(votingResolution(nil))
	uc := ballotUseCase(store, now)

	if _, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID: "Member-4", IdempotencyKey: "idem-1", ResolutionID: "res-1", Choice: entities.ChoiceApprove,
	}); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}
	result, err := uc.CastBallot(context.Background(), CastBallotCommand{
		VoterID: "member-4", IdempotencyKey: "idem-2", ResolutionID: "res-1", Choice: entities.ChoiceReject,
	})
	if err != nil {
		t.Fatalf("second cast failed: %v", err)
	}
	if !result.WasUpdate {
		t.Fatalf("case-differing voter id created a second ballot: %+v", result)
	}
	if len(store.ballotOrder) != 1 {
		t.Fatalf("expected a single ballot, got %d", len(store.ballotOrder))
	}
}
