package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/repository"
)

// SettingsService handles the timer/theme preferences page and the
// dashboard summary.
type SettingsService struct {
	settings  repository.SettingsRepository
	favorites repository.FavoriteRepository
	logger    *slog.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(
	settings repository.SettingsRepository,
	favorites repository.FavoriteRepository,
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		settings:  settings,
		favorites: favorites,
		logger:    logger,
	}
}

// Get returns the user's settings, creating the defaults row on first access.
func (s *SettingsService) Get(ctx context.Context, userID string) (*model.Settings, error) {
	settings, _, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/settings: loading settings for user %s: %w", userID, err)
	}
	return settings, nil
}

// SettingsUpdate is a partial edit: nil fields are left unchanged.
type SettingsUpdate struct {
	StudyDuration *int
	BreakDuration *int
	Theme         *string
}

// Update applies a partial settings edit. Durations must be positive — zero
// or negative minutes would wedge the timer.
func (s *SettingsService) Update(ctx context.Context, userID string, upd SettingsUpdate) (*model.Settings, error) {
	settings, _, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/settings: loading settings for user %s: %w", userID, err)
	}

	if upd.StudyDuration != nil {
		if *upd.StudyDuration <= 0 {
			return nil, apperror.ValidationFailed("study_duration", "Study duration must be a positive number of minutes")
		}
		settings.StudyDuration = *upd.StudyDuration
	}
	if upd.BreakDuration != nil {
		if *upd.BreakDuration <= 0 {
			return nil, apperror.ValidationFailed("break_duration", "Break duration must be a positive number of minutes")
		}
		settings.BreakDuration = *upd.BreakDuration
	}
	if upd.Theme != nil && *upd.Theme != "" {
		settings.Theme = *upd.Theme
	}

	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("service/settings: saving settings for user %s: %w", userID, err)
	}

	s.logger.Info("settings updated", slog.String("userID", userID))

	return settings, nil
}

// Dashboard is the summary shown on the landing segment after login.
type Dashboard struct {
	StudyDuration int `json:"studyDuration"`
	BreakDuration int `json:"breakDuration"`
	FavoriteCount int `json:"favoriteCount"`
}

// GetDashboard returns the user's timer settings plus their favorite count.
func (s *SettingsService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	settings, _, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/settings: loading settings for user %s: %w", userID, err)
	}

	count, err := s.favorites.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/settings: counting favorites for user %s: %w", userID, err)
	}

	return &Dashboard{
		StudyDuration: settings.StudyDuration,
		BreakDuration: settings.BreakDuration,
		FavoriteCount: count,
	}, nil
}
