package resolutionservice

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	"boardgov/contexts/board-governance/resolution-service/ports"
	httptransport "boardgov/contexts/board-governance/resolution-service/transport/http"
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

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, event := range p.events {
		names = append(names, event.EventType)
	}
	return names
}

func TestResolutionLifecycleToDecision(t *testing.T) {
	publisher := &recordingPublisher{}
	module := NewInMemoryModule(nil, publisher, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateResolutionHandler(ctx, "member-1", "idem-create-1", httptransport.CreateResolutionRequest{
		Title:                "Adopt 2027 budget",
		Body:                 "Full budget text.",
		TotalEligibleVoters:  3,
		MinimumQuorumPercent: 50,
	})
	if err != nil {
		t.Fatalf("create resolution failed: %v", err)
	}
	if created.Status != "draft" {
		t.Fatalf("new resolution status: got %s, want draft", created.Status)
	}

	if _, err := module.Handler.SubmitForReviewHandler(ctx, created.ResolutionID, "member-1", "idem-review-1"); err != nil {
		t.Fatalf("submit for review failed: %v", err)
	}
	opened, err := module.Handler.OpenVotingHandler(ctx, created.ResolutionID, "chair-1", "idem-open-1", httptransport.OpenVotingRequest{})
	if err != nil {
		t.Fatalf("open voting failed: %v", err)
	}
	if opened.Status != "voting" {
		t.Fatalf("status after open: got %s, want voting", opened.Status)
	}

	votes := []struct {
		voter, key, choice, comment string
	}{
		{"member-1", "idem-vote-1", "approve", "supports the reserve increase"},
		{"member-2", "idem-vote-2", "approve", ""},
		{"member-3", "idem-vote-3", "reject", "line 14 is underfunded"},
	}
	for _, vote := range votes {
		if _, err := module.Handler.CastBallotHandler(ctx, created.ResolutionID, vote.voter, vote.key, httptransport.CastBallotRequest{
			Choice:  vote.choice,
			Comment: vote.comment,
		}); err != nil {
			t.Fatalf("cast ballot for %s failed: %v", vote.voter, err)
		}
	}

	report, err := module.Handler.VotingReportHandler(ctx, created.ResolutionID)
	if err != nil {
		t.Fatalf("voting report failed: %v", err)
	}
	if report.TotalVotes != 3 || report.ApproveVotes != 2 || report.RejectVotes != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.ParticipationRate != 100 || report.QuorumStatus != "met" {
		t.Fatalf("unexpected participation/quorum: %+v", report)
	}
	if report.CommentAnalysis.Total != 2 || report.CommentAnalysis.Approve != 1 || report.CommentAnalysis.Reject != 1 {
		t.Fatalf("unexpected comment analysis: %+v", report.CommentAnalysis)
	}

	// Every eligible voter has voted, so one worker pass decides it.
	if err := module.Completer.RunOnce(ctx); err != nil {
		t.Fatalf("completion pass failed: %v", err)
	}
	decided, err := module.Handler.GetResolutionHandler(ctx, created.ResolutionID)
	if err != nil {
		t.Fatalf("get decided resolution failed: %v", err)
	}
	if decided.Status != "approved" {
		t.Fatalf("decided status: got %s, want approved (%s)", decided.Status, decided.PassedReason)
	}
	if decided.PassedReason == "" || decided.DecidedAt == nil {
		t.Fatalf("decided resolution missing outcome fields: %+v", decided)
	}

	if err := module.Relay.RunOnce(ctx); err != nil {
		t.Fatalf("outbox relay failed: %v", err)
	}
	wantTypes := []string{
		"resolution.voting_opened",
		"ballot.cast",
		"ballot.cast",
		"ballot.cast",
		"resolution.decided",
	}
	gotTypes := publisher.types()
	if len(gotTypes) != len(wantTypes) {
		t.Fatalf("published events: got %v, want %v", gotTypes, wantTypes)
	}
	for i := range wantTypes {
		if gotTypes[i] != wantTypes[i] {
			t.Fatalf("published event order: got %v, want %v", gotTypes, wantTypes)
		}
	}
}

func TestCastBallotReplayAndRecast(t *testing.T) {
	module := NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()
	resolutionID := openVotingResolution(t, module, 5)

	first, err := module.Handler.CastBallotHandler(ctx, resolutionID, "member-2", "idem-cast-1", httptransport.CastBallotRequest{Choice: "approve"})
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	replay, err := module.Handler.CastBallotHandler(ctx, resolutionID, "member-2", "idem-cast-1", httptransport.CastBallotRequest{Choice: "approve"})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replay.Replayed || replay.BallotID != first.BallotID {
		t.Fatalf("expected replay of ballot %s, got %+v", first.BallotID, replay)
	}

	// Same key with a different body is a conflict, not a silent overwrite.
	if _, err := module.Handler.CastBallotHandler(ctx, resolutionID, "member-2", "idem-cast-1", httptransport.CastBallotRequest{Choice: "reject"}); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}

	recast, err := module.Handler.CastBallotHandler(ctx, resolutionID, "member-2", "idem-cast-2", httptransport.CastBallotRequest{
		Choice:  "reject",
		Comment: "changed after discussion",
	})
	if err != nil {
		t.Fatalf("recast failed: %v", err)
	}
	if !recast.WasUpdate || recast.BallotID != first.BallotID {
		t.Fatalf("recast should update the existing ballot: %+v", recast)
	}

	report, err := module.Handler.VotingReportHandler(ctx, resolutionID)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.TotalVotes != 1 || report.RejectVotes != 1 || report.ApproveVotes != 0 {
		t.Fatalf("recast double-counted: %+v", report)
	}
}

func TestBallotRejectedOutsideVotingWindow(t *testing.T) {
	module := NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateResolutionHandler(ctx, "member-1", "idem-create-1", httptransport.CreateResolutionRequest{
		Title:                "Renew insurance policy",
		TotalEligibleVoters:  5,
		MinimumQuorumPercent: 50,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := module.Handler.CastBallotHandler(ctx, created.ResolutionID, "member-2", "idem-early-1", httptransport.CastBallotRequest{Choice: "approve"}); !errors.Is(err, domainerrors.ErrVotingNotOpen) {
		t.Fatalf("draft resolution accepted a ballot: %v", err)
	}

	eligibility, err := module.Handler.BallotEligibilityHandler(ctx, created.ResolutionID, "member-2")
	if err != nil {
		t.Fatalf("eligibility failed: %v", err)
	}
	if eligibility.Open || eligibility.Reason != "status_draft" {
		t.Fatalf("draft eligibility: %+v", eligibility)
	}

	if _, err := module.Handler.WithdrawResolutionHandler(ctx, created.ResolutionID, "member-1", "idem-withdraw-1", httptransport.WithdrawResolutionRequest{Reason: "superseded"}); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if _, err := module.Handler.CastBallotHandler(ctx, created.ResolutionID, "member-2", "idem-late-1", httptransport.CastBallotRequest{Choice: "approve"}); !errors.Is(err, domainerrors.ErrVotingNotOpen) {
		t.Fatalf("withdrawn resolution accepted a ballot: %v", err)
	}
	if _, err := module.Handler.VotingReportHandler(ctx, created.ResolutionID); !errors.Is(err, domainerrors.ErrVotingNotOpen) {
		t.Fatalf("withdrawn resolution served a report: %v", err)
	}
}

func TestOpenVotingRejectsMalformedParameters(t *testing.T) {
	module := NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateResolutionHandler(ctx, "member-1", "idem-create-1", httptransport.CreateResolutionRequest{
		Title:                "Repave parking lot",
		TotalEligibleVoters:  0,
		MinimumQuorumPercent: 50,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := module.Handler.SubmitForReviewHandler(ctx, created.ResolutionID, "member-1", "idem-review-1"); err != nil {
		t.Fatalf("submit for review failed: %v", err)
	}

	if _, err := module.Handler.OpenVotingHandler(ctx, created.ResolutionID, "chair-1", "idem-open-1", httptransport.OpenVotingRequest{}); !errors.Is(err, domainerrors.ErrInvalidTallyContext) {
		t.Fatalf("expected invalid voting parameters, got %v", err)
	}

	// Supplying the missing eligibility count at open time fixes it.
	opened, err := module.Handler.OpenVotingHandler(ctx, created.ResolutionID, "chair-1", "idem-open-2", httptransport.OpenVotingRequest{TotalEligibleVoters: 7})
	if err != nil {
		t.Fatalf("open with override failed: %v", err)
	}
	if opened.TotalEligibleVoters != 7 {
		t.Fatalf("override not applied: %+v", opened)
	}
}

func TestListBallotsPreservesInsertionOrder(t *testing.T) {
	module := NewInMemoryModule(nil, nil, nil)
	ctx := context.Background()
	resolutionID := openVotingResolution(t, module, 5)

	voters := []string{"member-3", "member-1", "member-5"}
	for i, voter := range voters {
		if _, err := module.Handler.CastBallotHandler(ctx, resolutionID, voter, "idem-order-"+voter, httptransport.CastBallotRequest{Choice: []string{"approve", "reject", "abstain"}[i]}); err != nil {
			t.Fatalf("cast for %s failed: %v", voter, err)
		}
	}

	listed, err := module.Handler.ListBallotsHandler(ctx, resolutionID)
	if err != nil {
		t.Fatalf("list ballots failed: %v", err)
	}
	if len(listed.Items) != len(voters) {
		t.Fatalf("listed %d ballots, want %d", len(listed.Items), len(voters))
	}
	for i, voter := range voters {
		if listed.Items[i].VoterID != voter {
			t.Fatalf("audit order broken at %d: got %s, want %s", i, listed.Items[i].VoterID, voter)
		}
	}
}

func openVotingResolution(t *testing.T, module Module, eligible int) string {
	t.Helper()
	ctx := context.Background()
	created, err := module.Handler.CreateResolutionHandler(ctx, "member-1", "idem-seed-create", httptransport.CreateResolutionRequest{
		Title:                "Test resolution",
		TotalEligibleVoters:  eligible,
		MinimumQuorumPercent: 50,
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if _, err := module.Handler.SubmitForReviewHandler(ctx, created.ResolutionID, "member-1", "idem-seed-review"); err != nil {
		t.Fatalf("seed review failed: %v", err)
	}
	if _, err := module.Handler.OpenVotingHandler(ctx, created.ResolutionID, "chair-1", "idem-seed-open", httptransport.OpenVotingRequest{}); err != nil {
		t.Fatalf("seed open failed: %v", err)
	}
	return created.ResolutionID
}
