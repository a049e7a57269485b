package commands

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"boardgov/contexts/board-governance/meeting-service/ports"
)

// newGovernanceEnvelope builds canonical envelopes for command-produced
// events. Meeting ID is the partition key for every topic in this module.
func newGovernanceEnvelope(
	eventID string,
	eventType string,
	meetingID string,
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
		SourceService:    "meeting-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "meeting_id",
		PartitionKey:     meetingID,
		Data:             payload,
	}, nil
}

func hashScheduleMeetingCommand(cmd ScheduleMeetingCommand) string {
	return hashPayload(map[string]string{
		"op":           "schedule_meeting",
		"creator_id":   strings.TrimSpace(cmd.CreatorID),
		"title":        strings.TrimSpace(cmd.Title),
		"scheduled_at": cmd.ScheduledAt.UTC().Format(time.RFC3339),
		"location":     strings.TrimSpace(cmd.Location),
	})
}

func hashCancelMeetingCommand(cmd CancelMeetingCommand) string {
	return hashPayload(map[string]string{
		"op":         "cancel_meeting",
		"meeting_id": strings.TrimSpace(cmd.MeetingID),
		"actor_id":   strings.TrimSpace(cmd.ActorID),
		"reason":     strings.TrimSpace(cmd.Reason),
	})
}

func hashRecordRSVPCommand(cmd RecordRSVPCommand) string {
	return hashPayload(map[string]string{
		"op":         "record_rsvp",
		"meeting_id": strings.TrimSpace(cmd.MeetingID),
		"member_id":  strings.TrimSpace(cmd.MemberID),
		"reply":      string(cmd.Reply),
		"note":       strings.TrimSpace(cmd.Note),
	})
}

func hashSubmitMinutesCommand(cmd SubmitMinutesCommand) string {
	return hashPayload(map[string]string{
		"op":         "submit_minutes",
		"meeting_id": strings.TrimSpace(cmd.MeetingID),
		"actor_id":   strings.TrimSpace(cmd.ActorID),
		"content":    cmd.Content,
	})
}

func hashApproveMinutesCommand(cmd ApproveMinutesCommand) string {
	return hashPayload(map[string]string{
		"op":         "approve_minutes",
		"minutes_id": strings.TrimSpace(cmd.MinutesID),
		"actor_id":   strings.TrimSpace(cmd.ActorID),
	})
}

func hashPayload(payload map[string]string) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
