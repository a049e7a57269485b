package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"text/template"
	"time"

	application "boardgov/contexts/board-governance/notification-service/application"
	"boardgov/contexts/board-governance/notification-service/domain/entities"
	"boardgov/contexts/board-governance/notification-service/ports"
)

const consumerGroup = "notification-service"

// Governance topics this module consumes.
const (
	TopicVotingOpened      = "resolution.voting_opened"
	TopicResolutionDecided = "resolution.decided"
	TopicMeetingScheduled  = "meeting.scheduled"
	TopicMinutesApproved   = "minutes.approved"
)

// GovernanceEventConsumer turns governance events into queued notifications,
// one per roster member whose preferences allow the category. The decided
// summary is rendered from the report embedded in the event; none of its
// figures are ever recomputed here.
type GovernanceEventConsumer struct {
	Directory     ports.MemberDirectory
	Preferences   ports.PreferenceRepository
	Notifications ports.NotificationRepository
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// Register subscribes every handled topic on the bus.
func (c GovernanceEventConsumer) Register(ctx context.Context, bus ports.Subscriber) error {
	handlers := map[string]func(context.Context, ports.EventEnvelope) error{
		TopicVotingOpened:      c.HandleVotingOpened,
		TopicResolutionDecided: c.HandleResolutionDecided,
		TopicMeetingScheduled:  c.HandleMeetingScheduled,
		TopicMinutesApproved:   c.HandleMinutesApproved,
	}
	for topic, handler := range handlers {
		if err := bus.Subscribe(ctx, topic, consumerGroup, handler); err != nil {
			return err
		}
	}
	return nil
}

var votingOpenedBody = template.Must(template.New("voting_opened").Parse(
	`Voting is now open on "{{.Title}}".

{{if .VotingDeadline}}Ballots close at {{.VotingDeadline}}.{{else}}Voting stays open until every eligible member has voted.{{end}}
Cast your ballot from the resolutions page.
`))

type votingOpenedPayload struct {
	ResolutionID   string `json:"resolution_id"`
	Title          string `json:"title"`
	VotingDeadline string `json:"voting_deadline"`
}

func (c GovernanceEventConsumer) HandleVotingOpened(ctx context.Context, event ports.EventEnvelope) error {
	var payload votingOpenedPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	body, err := render(votingOpenedBody, payload)
	if err != nil {
		return err
	}
	return c.fanOut(ctx, entities.CategoryVotingOpened,
		"Voting open: "+payload.Title, body, event)
}

var decidedBody = template.Must(template.New("decided").Parse(
	`The board has {{if .Report.Passed}}approved{{else}}rejected{{end}} "{{.Title}}".

Outcome: {{.Report.PassedReason}}
Votes: {{.Report.ApproveVotes}} approve / {{.Report.RejectVotes}} reject / {{.Report.AbstainVotes}} abstain ({{.Report.TotalVotes}} total)
Participation: {{.Report.ParticipationRate}}% of eligible members ({{.Report.NonVoters}} did not vote)
Quorum: {{.Report.QuorumStatus}}
Consensus: {{.Report.ConsensusLevel}}
{{if .Report.IsUnanimous}}The vote was unanimous.{{end}}`))

type decidedReportPayload struct {
	TotalVotes        int    `json:"total_votes"`
	ApproveVotes      int    `json:"approve_votes"`
	RejectVotes       int    `json:"reject_votes"`
	AbstainVotes      int    `json:"abstain_votes"`
	ParticipationRate int    `json:"participation_rate"`
	IsUnanimous       bool   `json:"is_unanimous"`
	QuorumStatus      string `json:"quorum_status"`
	ConsensusLevel    string `json:"consensus_level"`
	NonVoters         int    `json:"non_voters"`
	Passed            bool   `json:"passed"`
	PassedReason      string `json:"passed_reason"`
}

type decidedPayload struct {
	ResolutionID string               `json:"resolution_id"`
	Title        string               `json:"title"`
	Status       string               `json:"status"`
	Report       decidedReportPayload `json:"report"`
}

func (c GovernanceEventConsumer) HandleResolutionDecided(ctx context.Context, event ports.EventEnvelope) error {
	var payload decidedPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	body, err := render(decidedBody, payload)
	if err != nil {
		return err
	}
	outcome := "rejected"
	if payload.Report.Passed {
		outcome = "approved"
	}
	return c.fanOut(ctx, entities.CategoryVoteDecided,
		"Resolution "+outcome+": "+payload.Title, body, event)
}

var meetingScheduledBody = template.Must(template.New("meeting_scheduled").Parse(
	`A board meeting has been scheduled: "{{.Title}}".

When: {{.ScheduledAt}}
{{if .Location}}Where: {{.Location}}
{{end}}Please RSVP from the meetings page.
`))

type meetingScheduledPayload struct {
	MeetingID   string `json:"meeting_id"`
	Title       string `json:"title"`
	ScheduledAt string `json:"scheduled_at"`
	Location    string `json:"location"`
}

func (c GovernanceEventConsumer) HandleMeetingScheduled(ctx context.Context, event ports.EventEnvelope) error {
	var payload meetingScheduledPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	body, err := render(meetingScheduledBody, payload)
	if err != nil {
		return err
	}
	return c.fanOut(ctx, entities.CategoryMeetingSchedule,
		"Meeting scheduled: "+payload.Title, body, event)
}

var minutesApprovedBody = template.Must(template.New("minutes_approved").Parse(
	`Minutes for meeting {{.MeetingID}} were approved by {{.ApprovedBy}}.

The approved record is available on the meeting page.
`))

type minutesApprovedPayload struct {
	MinutesID  string `json:"minutes_id"`
	MeetingID  string `json:"meeting_id"`
	ApprovedBy string `json:"approved_by"`
}

func (c GovernanceEventConsumer) HandleMinutesApproved(ctx context.Context, event ports.EventEnvelope) error {
	var payload minutesApprovedPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	body, err := render(minutesApprovedBody, payload)
	if err != nil {
		return err
	}
	return c.fanOut(ctx, entities.CategoryMinutesApproved,
		"Meeting minutes approved", body, event)
}

func (c GovernanceEventConsumer) fanOut(
	ctx context.Context,
	category string,
	subject string,
	body string,
	event ports.EventEnvelope,
) error {
	logger := application.ResolveLogger(c.Logger)
	members, err := c.Directory.ListBoardMembers(ctx)
	if err != nil {
		return err
	}
	now := c.now()

	queued := 0
	for _, member := range members {
		preference, found, err := c.Preferences.GetPreference(ctx, member.MemberID)
		if err != nil {
			return err
		}
		if !found {
			preference = entities.DefaultPreference(member.MemberID)
		}
		if !preference.Allows(category) {
			continue
		}

		notificationID, err := c.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		notification := entities.Notification{
			NotificationID: notificationID,
			MemberID:       member.MemberID,
			Category:       category,
			Subject:        subject,
			Body:           body,
			Status:         entities.NotificationStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := c.Notifications.SaveNotification(ctx, notification); err != nil {
			return err
		}
		queued++
	}

	logger.Info("governance event fanned out",
		"event", "notification_fanout",
		"module", "board-governance/notification-service",
		"layer", "worker",
		"source_event_id", event.EventID,
		"source_event_type", event.EventType,
		"category", category,
		"queued_count", queued,
		"roster_size", len(members),
	)
	return nil
}

func render(tmpl *template.Template, payload any) (string, error) {
	var builder strings.Builder
	if err := tmpl.Execute(&builder, payload); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func (c GovernanceEventConsumer) now() time.Time {
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}
	return now
}
