package workers

import (
	"context"
	"log/slog"
	"time"

	application "boardgov/contexts/board-governance/notification-service/application"
	"boardgov/contexts/board-governance/notification-service/domain/entities"
	"boardgov/contexts/board-governance/notification-service/ports"
)

// DeliveryWorker drains pending notifications through the mailer. A failed
// send keeps the row pending until the attempt cap, then marks it failed
// with the last error preserved for the member's notification history.
type DeliveryWorker struct {
	Notifications ports.NotificationRepository
	Directory     ports.MemberDirectory
	Mailer        ports.Mailer
	Clock         ports.Clock
	BatchSize     int
	MaxAttempts   int
	Logger        *slog.Logger
}

func (w DeliveryWorker) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	limit := w.BatchSize
	if limit <= 0 {
		limit = 50
	}
	maxAttempts := w.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	pending, err := w.Notifications.ListPendingNotifications(ctx, limit)
	if err != nil {
		logger.Error("notification list failed",
			"event", "notification_delivery_list_failed",
			"module", "board-governance/notification-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	sent, failed := 0, 0
	for _, notification := range pending {
		now := w.now()
		member, found, err := w.Directory.GetBoardMember(ctx, notification.MemberID)
		if err != nil {
			return err
		}
		if !found || member.Email == "" {
			// Member left the roster (or has no address); nothing to retry.
			notification.Status = entities.NotificationStatusFailed
			notification.LastError = "member has no deliverable address"
			notification.UpdatedAt = now
			if err := w.Notifications.SaveNotification(ctx, notification); err != nil {
				return err
			}
			failed++
			continue
		}

		notification.Attempts++
		if sendErr := w.Mailer.Send(ctx, member.Email, notification.Subject, notification.Body); sendErr != nil {
			notification.LastError = sendErr.Error()
			if notification.Attempts >= maxAttempts {
				notification.Status = entities.NotificationStatusFailed
				failed++
			}
			notification.UpdatedAt = now
			if err := w.Notifications.SaveNotification(ctx, notification); err != nil {
				return err
			}
			logger.Warn("notification send failed",
				"event", "notification_send_failed",
				"module", "board-governance/notification-service",
				"layer", "worker",
				"notification_id", notification.NotificationID,
				"member_id", notification.MemberID,
				"attempts", notification.Attempts,
				"error", sendErr.Error(),
			)
			continue
		}

		sentAt := now
		notification.Status = entities.NotificationStatusSent
		notification.LastError = ""
		notification.SentAt = &sentAt
		notification.UpdatedAt = now
		if err := w.Notifications.SaveNotification(ctx, notification); err != nil {
			return err
		}
		sent++
	}

	if len(pending) > 0 {
		logger.Info("notification delivery cycle completed",
			"event", "notification_delivery_completed",
			"module", "board-governance/notification-service",
			"layer", "worker",
			"sent_count", sent,
			"failed_count", failed,
			"batch_size", len(pending),
		)
	}
	return nil
}

func (w DeliveryWorker) now() time.Time {
	now := time.Now().UTC()
	if w.Clock != nil {
		now = w.Clock.Now().UTC()
	}
	return now
}
