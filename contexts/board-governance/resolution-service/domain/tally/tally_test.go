package tally

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
)

func ballots(approve, reject, abstain int) []entities.Ballot {
	var items []entities.Ballot
	add := func(count int, choice entities.BallotChoice) {
		for i := 0; i < count; i++ {
			items = append(items, entities.Ballot{
				BallotID:     fmt.Sprintf("%s-%d", choice, len(items)),
				ResolutionID: "res-1",
				VoterID:      fmt.Sprintf("voter-%d", len(items)),
				Choice:       choice,
			})
		}
	}
	add(approve, entities.ChoiceApprove)
	add(reject, entities.ChoiceReject)
	add(abstain, entities.ChoiceAbstain)
	return items
}

func mustEvaluate(t *testing.T, items []entities.Ballot, ctx Context) Report {
	t.Helper()
	report, err := Evaluate(items, ctx)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	return report
}

func TestCountConservation(t *testing.T) {
	cases := [][3]int{{0, 0, 0}, {1, 0, 0}, {3, 2, 1}, {10, 10, 10}, {0, 5, 2}}
	for _, c := range cases {
		items := ballots(c[0], c[1], c[2])
		report := mustEvaluate(t, items, Context{TotalEligibleVoters: 50, MinimumQuorumPercent: 0})
		if report.ApproveVotes+report.RejectVotes+report.AbstainVotes != report.TotalVotes {
			t.Fatalf("count conservation broken for %v: %+v", c, report)
		}
		if report.TotalVotes != len(items) {
			t.Fatalf("total votes %d != ballot count %d", report.TotalVotes, len(items))
		}
	}
}

func TestScenarioQuorumMetStrictMajorityPasses(t *testing.T) {
	report := mustEvaluate(t, ballots(6, 2, 1), Context{
		TotalEligibleVoters:  10,
		MinimumQuorumPercent: 50,
		RequiresMajority:     true,
	})
	if report.ParticipationRate != 90 {
		t.Fatalf("participation rate: got %d, want 90", report.ParticipationRate)
	}
	if report.QuorumStatus != QuorumMet {
		t.Fatalf("quorum status: got %s, want met", report.QuorumStatus)
	}
	if !report.Passed {
		t.Fatalf("expected passed with 6 of 9 in favor, reason %q", report.PassedReason)
	}
}

func TestScenarioQuorumNotMetFailsRegardlessOfSplit(t *testing.T) {
	report := mustEvaluate(t, ballots(3, 1, 0), Context{
		TotalEligibleVoters:  10,
		MinimumQuorumPercent: 50,
	})
	if report.ParticipationRate != 40 {
		t.Fatalf("participation rate: got %d, want 40", report.ParticipationRate)
	}
	if report.QuorumStatus != QuorumNotMet {
		t.Fatalf("quorum status: got %s, want not_met", report.QuorumStatus)
	}
	if report.Passed {
		t.Fatalf("expected failure when quorum is not met")
	}
}

func TestScenarioUnanimousApproval(t *testing.T) {
	report := mustEvaluate(t, ballots(5, 0, 0), Context{
		TotalEligibleVoters:  5,
		MinimumQuorumPercent: 50,
	})
	if !report.IsUnanimous {
		t.Fatalf("expected unanimous report")
	}
	if report.UnanimousChoice != entities.ChoiceApprove {
		t.Fatalf("unanimous choice: got %s, want approve", report.UnanimousChoice)
	}
	if report.ApprovalPercentage != 100 {
		t.Fatalf("approval percentage: got %d, want 100", report.ApprovalPercentage)
	}
	if report.ConsensusLevel != ConsensusStrong {
		t.Fatalf("consensus level: got %s, want strong", report.ConsensusLevel)
	}
}

func TestScenarioEvenSplitFailsStrictMajority(t *testing.T) {
	report := mustEvaluate(t, ballots(2, 2, 0), Context{
		TotalEligibleVoters:  4,
		MinimumQuorumPercent: 50,
		RequiresMajority:     true,
	})
	if report.VotingMargin != 0 {
		t.Fatalf("voting margin: got %d, want 0", report.VotingMargin)
	}
	if report.QuorumStatus != QuorumMet {
		t.Fatalf("quorum status: got %s, want met", report.QuorumStatus)
	}
	if report.Passed {
		t.Fatalf("2 of 4 must not be a strict majority")
	}
}

func TestZeroVotesBoundary(t *testing.T) {
	report := mustEvaluate(t, nil, Context{
		TotalEligibleVoters:  10,
		MinimumQuorumPercent: 0,
	})
	if report.ParticipationRate != 0 || report.ApprovalPercentage != 0 {
		t.Fatalf("zero-vote percentages must be 0: %+v", report)
	}
	if report.Passed {
		t.Fatalf("zero votes must not pass")
	}
	if report.IsUnanimous {
		t.Fatalf("zero votes cannot be unanimous")
	}
	if report.ConsensusLevel != ConsensusContested {
		t.Fatalf("zero-vote consensus: got %s, want contested", report.ConsensusLevel)
	}
	if report.NonVoters != 10 {
		t.Fatalf("non voters: got %d, want 10", report.NonVoters)
	}
}

func TestZeroVotesWithZeroQuorumStillFails(t *testing.T) {
	// minimum quorum 0 is technically met by no one voting; the plurality
	// rule then requires at least one approving vote.
	report := mustEvaluate(t, nil, Context{TotalEligibleVoters: 5, MinimumQuorumPercent: 0})
	if report.QuorumStatus != QuorumMet {
		t.Fatalf("0%% quorum should be met at 0%% participation")
	}
	if report.Passed {
		t.Fatalf("no approving votes must not pass")
	}
}

func TestParticipationMonotonicAsVotesArrive(t *testing.T) {
	ctx := Context{TotalEligibleVoters: 7, MinimumQuorumPercent: 50}
	previous := -1
	for n := 0; n <= 9; n++ {
		report := mustEvaluate(t, ballots(n, 0, 0), ctx)
		if report.ParticipationRate < previous {
			t.Fatalf("participation decreased at %d votes: %d -> %d", n, previous, report.ParticipationRate)
		}
		previous = report.ParticipationRate
	}
}

func TestParticipationClampedAtHundred(t *testing.T) {
	// More ballots than the supplied eligible count clamps rather than
	// reporting impossible participation.
	report := mustEvaluate(t, ballots(9, 0, 0), Context{TotalEligibleVoters: 7, MinimumQuorumPercent: 50})
	if report.ParticipationRate != 100 {
		t.Fatalf("participation rate: got %d, want clamped 100", report.ParticipationRate)
	}
	if report.NonVoters != 0 {
		t.Fatalf("non voters: got %d, want clamped 0", report.NonVoters)
	}
}

func TestUnanimityIffSingleChoice(t *testing.T) {
	cases := []struct {
		approve, reject, abstain int
		unanimous                bool
		choice                   entities.BallotChoice
	}{
		{3, 0, 0, true, entities.ChoiceApprove},
		{0, 4, 0, true, entities.ChoiceReject},
		{0, 0, 2, true, entities.ChoiceAbstain},
		{3, 1, 0, false, ""},
		{0, 0, 0, false, ""},
	}
	for _, c := range cases {
		report := mustEvaluate(t, ballots(c.approve, c.reject, c.abstain), Context{TotalEligibleVoters: 10})
		if report.IsUnanimous != c.unanimous {
			t.Fatalf("unanimity for %+v: got %v", c, report.IsUnanimous)
		}
		if report.UnanimousChoice != c.choice {
			t.Fatalf("unanimous choice for %+v: got %q", c, report.UnanimousChoice)
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	items := ballots(4, 3, 2)
	items[0].Comment = "needs budget review"
	items[5].Comment = "too costly"
	ctx := Context{TotalEligibleVoters: 12, MinimumQuorumPercent: 40, RequiresMajority: true}

	first := mustEvaluate(t, items, ctx)
	second := mustEvaluate(t, items, ctx)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("evaluator output differs between identical calls:\n%+v\n%+v", first, second)
	}
}

func TestOutcomeMonotonicInApprovals(t *testing.T) {
	for _, requiresMajority := range []bool{false, true} {
		passedBefore := false
		for approve := 0; approve <= 12; approve++ {
			report := mustEvaluate(t, ballots(approve, 3, 0), Context{
				TotalEligibleVoters:  20,
				MinimumQuorumPercent: 0,
				RequiresMajority:     requiresMajority,
			})
			if passedBefore && !report.Passed {
				t.Fatalf("passed flipped true->false at approve=%d (majority=%v)", approve, requiresMajority)
			}
			passedBefore = report.Passed
		}
	}
}

func TestUnknownChoiceExcludedFromAllCounts(t *testing.T) {
	items := ballots(2, 1, 0)
	items = append(items, entities.Ballot{
		BallotID: "legacy-1",
		VoterID:  "voter-x",
		Choice:   entities.BallotChoice("maybe"),
		Comment:  "ignored row",
	})
	report := mustEvaluate(t, items, Context{TotalEligibleVoters: 10})
	if report.TotalVotes != 3 {
		t.Fatalf("unknown choice leaked into totals: %d", report.TotalVotes)
	}
	if report.CommentAnalysis.Total != 0 {
		t.Fatalf("unknown choice leaked into comment analysis: %+v", report.CommentAnalysis)
	}
}

func TestMalformedContextRejected(t *testing.T) {
	cases := []Context{
		{TotalEligibleVoters: 0, MinimumQuorumPercent: 50},
		{TotalEligibleVoters: -3, MinimumQuorumPercent: 50},
		{TotalEligibleVoters: 5, MinimumQuorumPercent: -1},
		{TotalEligibleVoters: 5, MinimumQuorumPercent: 101},
	}
	for _, ctx := range cases {
		if _, err := Evaluate(nil, ctx); !errors.Is(err, domainerrors.ErrInvalidTallyContext) {
			t.Fatalf("context %+v: got err %v, want ErrInvalidTallyContext", ctx, err)
		}
	}
}

func TestConsensusLevelMonotonicInDistance(t *testing.T) {
	rank := map[ConsensusLevel]int{
		ConsensusContested: 0,
		ConsensusModerate:  1,
		ConsensusStrong:    2,
	}
	// Walking the split further from 50/50 must never weaken the label.
	previous := -1
	for approve := 10; approve <= 20; approve++ {
		report := mustEvaluate(t, ballots(approve, 20-approve, 0), Context{TotalEligibleVoters: 20})
		current := rank[report.ConsensusLevel]
		if current < previous {
			t.Fatalf("consensus weakened as distance grew at approve=%d", approve)
		}
		previous = current
	}
}

func TestEngagementScoreMonotonicInCommentDensity(t *testing.T) {
	base := ballots(4, 2, 0)
	ctx := Context{TotalEligibleVoters: 10}

	previous := -1
	for commented := 0; commented <= len(base); commented++ {
		items := make([]entities.Ballot, len(base))
		copy(items, base)
		for i := 0; i < commented; i++ {
			items[i].Comment = "discussed at length"
		}
		report := mustEvaluate(t, items, ctx)
		if report.EngagementScore < previous {
			t.Fatalf("engagement decreased as comments grew at %d comments", commented)
		}
		if report.EngagementScore < 0 || report.EngagementScore > 100 {
			t.Fatalf("engagement out of range: %d", report.EngagementScore)
		}
		previous = report.EngagementScore
	}
}

func TestCommentAnalysisGroupsByChoice(t *testing.T) {
	items := ballots(2, 2, 1)
	items[0].Comment = "in favor with caveats"
	items[2].Comment = "object to clause 3"
	items[4].Comment = "recusing"
	report := mustEvaluate(t, items, Context{TotalEligibleVoters: 10})

	analysis := report.CommentAnalysis
	if analysis.Total != 3 || analysis.Approve != 1 || analysis.Reject != 1 || analysis.Abstain != 1 {
		t.Fatalf("comment analysis wrong: %+v", analysis)
	}
}

func TestWhitespaceOnlyCommentsNotCounted(t *testing.T) {
	items := ballots(3, 0, 0)
	items[0].Comment = "in favor with caveats"
	items[1].Comment = "   "
	items[2].Comment = "\t\n"
	report := mustEvaluate(t, items, Context{TotalEligibleVoters: 10})

	if report.CommentAnalysis.Total != 1 || report.CommentAnalysis.Approve != 1 {
		t.Fatalf("whitespace-only comments counted: %+v", report.CommentAnalysis)
	}

	blank := ballots(3, 0, 0)
	blank[0].Comment = "in favor with caveats"
	blankReport := mustEvaluate(t, blank, Context{TotalEligibleVoters: 10})
	if report.EngagementScore != blankReport.EngagementScore {
		t.Fatalf("whitespace-only comments changed engagement: %d vs %d",
			report.EngagementScore, blankReport.EngagementScore)
	}
}

func TestPluralityTieInFavorPasses(t *testing.T) {
	report := mustEvaluate(t, ballots(2, 2, 0), Context{
		TotalEligibleVoters:  4,
		MinimumQuorumPercent: 50,
		RequiresMajority:     false,
	})
	if !report.Passed {
		t.Fatalf("plurality rule passes ties with at least one approval, reason %q", report.PassedReason)
	}
}
