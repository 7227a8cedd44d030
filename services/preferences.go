package services

import (
	"context"
	"endify/models"
	"fmt"
	"log/slog"
)

const (
	themeKey     = "theme"
	ThemeLight   = "light"
	ThemeDark    = "dark"
	DefaultTheme = ThemeLight
)

// PreferenceService stores user preferences in the task backend
type PreferenceService struct {
	store  PreferenceStore
	logger *slog.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(store PreferenceStore, logger *slog.Logger) *PreferenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceService{store: store, logger: logger}
}

// Get returns the current preferences, filling in defaults
func (ps *PreferenceService) Get(ctx context.Context) (models.Preferences, error) {
	theme, err := ps.GetTheme(ctx)
	if err != nil {
		return models.Preferences{}, err
	}
	return models.Preferences{Theme: theme}, nil
}

// GetTheme returns the stored theme or the light theme when none is set
func (ps *PreferenceService) GetTheme(ctx context.Context) (string, error) {
	theme, ok, err := ps.store.GetPreference(ctx, themeKey)
	if err != nil {
		return "", fmt.Errorf("failed to read theme: %w", err)
	}
	if !ok || (theme != ThemeLight && theme != ThemeDark) {
		return DefaultTheme, nil
	}
	return theme, nil
}

// SetTheme persists the theme
func (ps *PreferenceService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := ps.store.SetPreference(ctx, themeKey, theme); err != nil {
		ps.logger.Error("failed to save theme", "theme", theme, "error", err)
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}
