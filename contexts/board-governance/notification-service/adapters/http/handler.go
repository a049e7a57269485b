package httpadapter

import (
	"context"
	"log/slog"

	"boardgov/contexts/board-governance/notification-service/application/commands"
	"boardgov/contexts/board-governance/notification-service/application/queries"
	httptransport "boardgov/contexts/board-governance/notification-service/transport/http"
)

type Handler struct {
	Preferences commands.PreferenceUseCase
	Queries     queries.NotificationUseCase
	Logger      *slog.Logger
}

func (h Handler) GetPreferenceHandler(ctx context.Context, memberID string) (httptransport.PreferenceResponse, error) {
	preference, err := h.Queries.Preference(ctx, memberID)
	if err != nil {
		return httptransport.PreferenceResponse{}, err
	}
	return httptransport.PreferenceResponse{
		MemberID:        preference.MemberID,
		EmailEnabled:    preference.EmailEnabled,
		MutedCategories: preference.MutedCategories,
	}, nil
}

func (h Handler) UpdatePreferenceHandler(
	ctx context.Context,
	memberID string,
	req httptransport.UpdatePreferenceRequest,
) (httptransport.PreferenceResponse, error) {
	preference, err := h.Preferences.UpdatePreference(ctx, commands.UpdatePreferenceCommand{
		MemberID:        memberID,
		EmailEnabled:    req.EmailEnabled,
		MutedCategories: req.MutedCategories,
	})
	if err != nil {
		return httptransport.PreferenceResponse{}, err
	}
	return httptransport.PreferenceResponse{
		MemberID:        preference.MemberID,
		EmailEnabled:    preference.EmailEnabled,
		MutedCategories: preference.MutedCategories,
	}, nil
}

func (h Handler) MemberNotificationsHandler(ctx context.Context, memberID string) (httptransport.NotificationListResponse, error) {
	notifications, err := h.Queries.MemberNotifications(ctx, memberID)
	if err != nil {
		return httptransport.NotificationListResponse{}, err
	}
	items := make([]httptransport.NotificationItem, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, httptransport.NotificationItem{
			NotificationID: notification.NotificationID,
			Category:       notification.Category,
			Subject:        notification.Subject,
			Status:         string(notification.Status),
			Attempts:       notification.Attempts,
			LastError:      notification.LastError,
			CreatedAt:      notification.CreatedAt,
			SentAt:         notification.SentAt,
		})
	}
	return httptransport.NotificationListResponse{
		MemberID: memberID,
		Items:    items,
	}, nil
}
