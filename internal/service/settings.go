package service

import (
	"context"
	"fmt"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/model"
	"github.com/phatnt99/shelfwise/internal/repository"
)

type SaveSettingsParams struct {
	UserKey  string
	Username string
	Theme    model.Theme
}

type SettingsService interface {
	GetSettings(ctx context.Context, userKey string) (model.Settings, error)
	SaveSettings(ctx context.Context, params SaveSettingsParams) (model.Settings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	mirror       Mirror
}

// NewSettingsService creates the settings service. mirror may be nil when no
// replica backend is configured.
func NewSettingsService(settingsRepo repository.SettingsRepository, mirror Mirror) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		mirror:       mirror,
	}
}

func (s *settingsService) GetSettings(ctx context.Context, userKey string) (model.Settings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx, userKey)
	if err != nil {
		return model.Settings{}, fmt.Errorf("settings repository get settings: %w", err)
	}

	return settings, nil
}

func (s *settingsService) SaveSettings(ctx context.Context, params SaveSettingsParams) (model.Settings, error) {
	if err := params.Theme.Validate(); err != nil {
		return model.Settings{}, apperr.InvalidThemeErr.WrapParent(err)
	}

	settings, err := s.settingsRepo.SaveSettings(ctx, repository.SaveSettingsParams{
		UserKey:  params.UserKey,
		Username: params.Username,
		Theme:    params.Theme,
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("settings repository save settings: %w", err)
	}

	if s.mirror != nil {
		s.mirror.SettingsSaved(ctx, settings)
	}

	return settings, nil
}
