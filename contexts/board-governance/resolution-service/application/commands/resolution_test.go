package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
)

func resolutionUseCase(store *fakeStore, now time.Time) ResolutionUseCase {
	return ResolutionUseCase{
		Resolutions: store,
		Idempotency: store,
		Outbox:      store,
		Clock:       fixedClock{at: now},
		IDGen:       &sequenceIDGen{},
	}
}

func TestCreateResolutionValidation(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := resolutionUseCase(newFakeStore(), now)

	cases := []struct {
		name string
		cmd  CreateResolutionCommand
		want error
	}{
		{
			name: "blank title",
			cmd:  CreateResolutionCommand{ProposerID: "member-1", IdempotencyKey: "k", Title: "   "},
			want: domainerrors.ErrInvalidResolutionInput,
		},
		{
			name: "blank proposer",
			cmd:  CreateResolutionCommand{IdempotencyKey: "k", Title: "Budget"},
			want: domainerrors.ErrInvalidResolutionInput,
		},
		{
			name: "quorum above 100",
			cmd:  CreateResolutionCommand{ProposerID: "member-1", IdempotencyKey: "k", Title: "Budget", MinimumQuorumPercent: 110},
			want: domainerrors.ErrInvalidResolutionInput,
		},
		{
			name: "negative eligible voters",
			cmd:  CreateResolutionCommand{ProposerID: "member-1", IdempotencyKey: "k", Title: "Budget", TotalEligibleVoters: -1},
			want: domainerrors.ErrInvalidResolutionInput,
		},
		{
			name: "missing idempotency key",
			cmd:  CreateResolutionCommand{ProposerID: "member-1", Title: "Budget"},
			want: domainerrors.ErrIdempotencyKeyRequired,
		},
	}
	for _, c := range cases {
		if _, err := uc.CreateResolution(context.Background(), c.cmd); !errors.Is(err, c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestCreateResolutionReplayAndConflict(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := resolutionUseCase(newFakeStore(), now)
	cmd := CreateResolutionCommand{
		ProposerID:           "member-1",
		IdempotencyKey:       "idem-1",
		Title:                "Adopt 2027 budget",
		TotalEligibleVoters:  9,
		MinimumQuorumPercent: 60,
	}

	first, err := uc.CreateResolution(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	replay, err := uc.CreateResolution(context.Background(), cmd)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replay.ResolutionID != first.ResolutionID {
		t.Fatalf("replay created a second resolution: %s vs %s", replay.ResolutionID, first.ResolutionID)
	}

	conflicting := cmd
	conflicting.Title = "Adopt 2028 budget"
	if _, err := uc.CreateResolution(context.Background(), conflicting); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("got %v, want ErrIdempotencyConflict", err)
	}
}

func TestCreateResolutionConflictOnChangedVotingParameters(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := resolutionUseCase(newFakeStore(), now)
	cmd := CreateResolutionCommand{
		ProposerID:           "member-1",
		IdempotencyKey:       "idem-1",
		Title:                "Adopt 2027 budget",
		Body:                 "Version A",
		TotalEligibleVoters:  9,
		MinimumQuorumPercent: 50,
	}
	first, err := uc.CreateResolution(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Same title under the same key, but every other request-shaping field
	// differs; none of these may be silently replayed as the first request.
	cases := []struct {
		name   string
		mutate func(*CreateResolutionCommand)
	}{
		{"different body", func(c *CreateResolutionCommand) { c.Body = "Version B" }},
		{"different eligible voters", func(c *CreateResolutionCommand) { c.TotalEligibleVoters = 12 }},
		{"different quorum", func(c *CreateResolutionCommand) { c.MinimumQuorumPercent = 90 }},
		{"different majority mode", func(c *CreateResolutionCommand) { c.RequiresMajority = true }},
	}
	for _, c := range cases {
		conflicting := cmd
		c.mutate(&conflicting)
		if _, err := uc.CreateResolution(context.Background(), conflicting); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
			t.Fatalf("%s: got %v, want ErrIdempotencyConflict", c.name, err)
		}
	}

	replay, err := uc.CreateResolution(context.Background(), cmd)
	if err != nil {
		t.Fatalf("exact replay failed: %v", err)
	}
	if replay.ResolutionID != first.ResolutionID || replay.Body != "Version A" || replay.MinimumQuorumPercent != 50 {
		t.Fatalf("replay returned a different resolution: %+v", replay)
	}
}

func TestSubmitForReviewOnlyFromDraft(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(entities.Resolution{
		ResolutionID: "res-1",
		Title:        "Budget",
		Status:       entities.ResolutionStatusVoting,
	})
	uc := resolutionUseCase(store, now)

	_, err := uc.SubmitForReview(context.Background(), SubmitForReviewCommand{
		ResolutionID:   "res-1",
		ActorID:        "member-1",
		IdempotencyKey: "idem-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

func TestOpenVotingFreezesParametersAndEmitsEvent(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	deadline := now.Add(72 * time.Hour)
	store := newFakeStore(entities.Resolution{
		ResolutionID:         "res-1",
		Title:                "Budget",
		Status:               entities.ResolutionStatusUnderReview,
		TotalEligibleVoters:  9,
		MinimumQuorumPercent: 60,
		RequiresMajority:     true,
	})
	uc := resolutionUseCase(store, now)

	opened, err := uc.OpenVoting(context.Background(), OpenVotingCommand{
		ResolutionID:   "res-1",
		ActorID:        "chair-1",
		IdempotencyKey: "idem-1",
		VotingDeadline: &deadline,
	})
	if err != nil {
		t.Fatalf("open voting failed: %v", err)
	}
	if opened.Status != entities.ResolutionStatusVoting {
		t.Fatalf("status: got %s, want voting", opened.Status)
	}
	if opened.VotingDeadline == nil || !opened.VotingDeadline.Equal(deadline) {
		t.Fatalf("deadline not applied: %+v", opened.VotingDeadline)
	}
	if len(store.appended) != 1 || store.appended[0].EventType != "resolution.voting_opened" {
		t.Fatalf("expected resolution.voting_opened, got %+v", store.appended)
	}
	if store.appended[0].PartitionKey != "res-1" {
		t.Fatalf("partition key: got %s, want res-1", store.appended[0].PartitionKey)
	}
}

func TestOpenVotingConflictOnChangedEligibleOverride(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(entities.Resolution{
		ResolutionID:         "res-1",
		Title:                "Budget",
		Status:               entities.ResolutionStatusUnderReview,
		TotalEligibleVoters:  9,
		MinimumQuorumPercent: 60,
	})
	uc := resolutionUseCase(store, now)

	opened, err := uc.OpenVoting(context.Background(), OpenVotingCommand{
		ResolutionID:        "res-1",
		ActorID:             "chair-1",
		IdempotencyKey:      "idem-1",
		TotalEligibleVoters: 9,
	})
	if err != nil {
		t.Fatalf("open voting failed: %v", err)
	}

	_, err = uc.OpenVoting(context.Background(), OpenVotingCommand{
		ResolutionID:        "res-1",
		ActorID:             "chair-1",
		IdempotencyKey:      "idem-1",
		TotalEligibleVoters: 12,
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("changed override under same key: got %v, want ErrIdempotencyConflict", err)
	}

	replay, err := uc.OpenVoting(context.Background(), OpenVotingCommand{
		ResolutionID:        "res-1",
		ActorID:             "chair-1",
		IdempotencyKey:      "idem-1",
		TotalEligibleVoters: 9,
	})
	if err != nil {
		t.Fatalf("exact replay failed: %v", err)
	}
	if replay.TotalEligibleVoters != opened.TotalEligibleVoters {
		t.Fatalf("replay changed frozen parameters: %d vs %d", replay.TotalEligibleVoters, opened.TotalEligibleVoters)
	}
}

func TestOpenVotingRejectsPastDeadline(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	store := newFakeStore(entities.Resolution{
		ResolutionID:         "res-1",
		Title:                "Budget",
		Status:               entities.ResolutionStatusUnderReview,
		TotalEligibleVoters:  9,
		MinimumQuorumPercent: 60,
	})
	uc := resolutionUseCase(store, now)

	_, err := uc.OpenVoting(context.Background(), OpenVotingCommand{
		ResolutionID:   "res-1",
		ActorID:        "chair-1",
		IdempotencyKey: "idem-1",
		VotingDeadline: &past,
	})
	if !errors.Is(err, domainerrors.ErrInvalidResolutionInput) {
		t.Fatalf("got %v, want ErrInvalidResolutionInput", err)
	}
}

func TestOpenVotingRejectsMalformedVotingContext(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(entities.Resolution{
		ResolutionID:         "res-1",
		Title:                "Budget",
		Status:               entities.ResolutionStatusUnderReview,
		TotalEligibleVoters:  0,
		MinimumQuorumPercent: 60,
	})
	uc := resolutionUseCase(store, now)

	_, err := uc.OpenVoting(context.Background(), OpenVotingCommand{
		ResolutionID:   "res-1",
		ActorID:        "chair-1",
		IdempotencyKey: "idem-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidTallyContext) {
		t.Fatalf("got %v, want ErrInvalidTallyContext", err)
	}
}

func TestWithdrawAllowedUntilDecided(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(
		entities.Resolution{ResolutionID: "res-voting", Title: "A", Status: entities.ResolutionStatusVoting},
		entities.Resolution{ResolutionID: "res-approved", Title: "B", Status: entities.ResolutionStatusApproved},
	)
	uc := resolutionUseCase(store, now)

	withdrawn, err := uc.Withdraw(context.Background(), WithdrawResolutionCommand{
		ResolutionID:   "res-voting",
		ActorID:        "member-1",
		IdempotencyKey: "idem-1",
		Reason:         "superseded by res-9",
	})
	if err != nil {
		t.Fatalf("withdraw from voting failed: %v", err)
	}
	if withdrawn.Status != entities.ResolutionStatusWithdrawn {
		t.Fatalf("status: got %s, want withdrawn", withdrawn.Status)
	}
	if len(store.appended) != 1 || store.appended[0].EventType != "resolution.withdrawn" {
		t.Fatalf("expected resolution.withdrawn event, got %+v", store.appended)
	}

	_, err = uc.Withdraw(context.Background(), WithdrawResolutionCommand{
		ResolutionID:   "res-approved",
		ActorID:        "member-1",
		IdempotencyKey: "idem-2",
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("withdraw after decision: got %v, want ErrInvalidTransition", err)
	}
}
