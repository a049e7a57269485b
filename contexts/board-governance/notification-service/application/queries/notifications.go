package queries

import (
	"context"
	"strings"

	"boardgov/contexts/board-governance/notification-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/notification-service/domain/errors"
	"boardgov/contexts/board-governance/notification-service/ports"
)

// NotificationUseCase is the read side: a member's preference (with the
// default fallback) and their notification history.
type NotificationUseCase struct {
	Preferences   ports.PreferenceRepository
	Notifications ports.NotificationRepository
}

func (uc NotificationUseCase) Preference(ctx context.Context, memberID string) (entities.Preference, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return entities.Preference{}, domainerrors.ErrInvalidPreferenceInput
	}
	preference, found, err := uc.Preferences.GetPreference(ctx, memberID)
	if err != nil {
		return entities.Preference{}, err
	}
	if !found {
		return entities.DefaultPreference(memberID), nil
	}
	return preference, nil
}

func (uc NotificationUseCase) MemberNotifications(ctx context.Context, memberID string) ([]entities.Notification, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, domainerrors.ErrInvalidPreferenceInput
	}
	return uc.Notifications.ListNotificationsByMember(ctx, memberID)
}
