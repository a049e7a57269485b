package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "boardgov/contexts/board-governance/notification-service/application"
	"boardgov/contexts/board-governance/notification-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/notification-service/domain/errors"
	"boardgov/contexts/board-governance/notification-service/ports"
)

type UpdatePreferenceCommand struct {
	MemberID        string
	EmailEnabled    bool
	MutedCategories []string
}

// PreferenceUseCase upserts delivery preferences. Preference writes are
// last-write-wins and need no idempotency key.
type PreferenceUseCase struct {
	Preferences ports.PreferenceRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc PreferenceUseCase) UpdatePreference(ctx context.Context, cmd UpdatePreferenceCommand) (entities.Preference, error) {
	logger := application.ResolveLogger(uc.Logger)
	memberID := strings.TrimSpace(cmd.MemberID)
	if memberID == "" {
		return entities.Preference{}, domainerrors.ErrInvalidPreferenceInput
	}

	muted := make([]string, 0, len(cmd.MutedCategories))
	for _, category := range cmd.MutedCategories {
		if trimmed := strings.ToLower(strings.TrimSpace(category)); trimmed != "" {
			muted = append(muted, trimmed)
		}
	}
	preference := entities.Preference{
		MemberID:        memberID,
		EmailEnabled:    cmd.EmailEnabled,
		MutedCategories: muted,
		UpdatedAt:       uc.now(),
	}
	if err := uc.Preferences.SavePreference(ctx, preference); err != nil {
		return entities.Preference{}, err
	}

	logger.Info("notification preference updated",
		"event", "notification_preference_updated",
		"module", "board-governance/notification-service",
		"layer", "application",
		"member_id", memberID,
		"email_enabled", preference.EmailEnabled,
		"muted_count", len(preference.MutedCategories),
	)
	return preference, nil
}

func (uc PreferenceUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
