package commands

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"boardgov/contexts/board-governance/resolution-service/ports"
)

// newGovernanceEnvelope builds canonical envelopes for command-produced
// events. Resolution ID is the partition key for every topic in this module.
func newGovernanceEnvelope(
	eventID string,
	eventType string,
	resolutionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "resolution-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "resolution_id",
		PartitionKey:     resolutionID,
		Data:             payload,
	}, nil
}

func hashCreateResolutionCommand(cmd CreateResolutionCommand) string {
	deadline := ""
	if cmd.VotingDeadline != nil {
		deadline = cmd.VotingDeadline.UTC().Format(time.RFC3339)
	}
	return hashPayload(map[string]string{
		"op":                "create_resolution",
		"proposer_id":       strings.TrimSpace(cmd.ProposerID),
		"title":             strings.TrimSpace(cmd.Title),
		"body":              strings.TrimSpace(cmd.Body),
		"meeting_id":        strings.TrimSpace(cmd.MeetingID),
		"eligible_voters":   strconv.Itoa(cmd.TotalEligibleVoters),
		"quorum_percent":    strconv.Itoa(cmd.MinimumQuorumPercent),
		"requires_majority": strconv.FormatBool(cmd.RequiresMajority),
		"deadline":          deadline,
	})
}

func hashOpenVotingCommand(cmd OpenVotingCommand) string {
	deadline := ""
	if cmd.VotingDeadline != nil {
		deadline = cmd.VotingDeadline.UTC().Format(time.RFC3339)
	}
	return hashPayload(map[string]string{
		"op":              "open_voting",
		"resolution_id":   strings.TrimSpace(cmd.ResolutionID),
		"actor_id":        strings.TrimSpace(cmd.ActorID),
		"eligible_voters": strconv.Itoa(cmd.TotalEligibleVoters),
		"deadline":        deadline,
	})
}

func hashTransitionCommand(op string, resolutionID string, actorID string, extra string) string {
	return hashPayload(map[string]string{
		"op":            op,
		"resolution_id": strings.TrimSpace(resolutionID),
		"actor_id":      strings.TrimSpace(actorID),
		"extra":         strings.TrimSpace(extra),
	})
}

func hashCastBallotCommand(cmd CastBallotCommand) string {
	return hashPayload(map[string]string{
		"op":            "cast_ballot",
		"voter_id":      strings.TrimSpace(cmd.VoterID),
		"resolution_id": strings.TrimSpace(cmd.ResolutionID),
		"choice":        string(cmd.Choice),
		"comment":       strings.TrimSpace(cmd.Comment),
	})
}

func hashPayload(payload map[string]string) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
