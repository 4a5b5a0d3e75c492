// Package settings provides the application layer for user settings
package settings

import (
	"context"
	"sync"

	domain "github.com/meadcraft/meadery/internal/domain/settings"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"go.uber.org/zap"
)

// SettingsService implements the settings use cases
type SettingsService struct {
	repo     outbound.SettingsRepository
	logger   *zap.Logger
	mu       sync.RWMutex
	defaults domain.Settings
}

// NewSettingsService creates a settings service. defaults is returned until
// the first UpdateSettings call stores a row.
func NewSettingsService(repo outbound.SettingsRepository, defaults domain.Settings, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		defaults: defaults,
		logger:   logger.Named("settings-service"),
	}
}

var _ inbound.SettingsService = (*SettingsService)(nil)

// SetDefaults replaces the fallback returned while no settings are stored.
// Invalid defaults are rejected and the previous ones kept.
func (s *SettingsService) SetDefaults(defaults domain.Settings) error {
	if err := defaults.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.defaults = defaults
	s.mu.Unlock()
	return nil
}

// GetSettings returns the stored settings or the configured defaults
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	stored, found, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("load settings", err)
	}
	if !found {
		s.mu.RLock()
		defaults := s.defaults
		s.mu.RUnlock()
		return &defaults, nil
	}
	return &stored, nil
}

// UpdateSettings validates and replaces the stored settings
func (s *SettingsService) UpdateSettings(ctx context.Context, cmd inbound.UpdateSettingsCommand) (*domain.Settings, error) {
	updated, err := domain.New(cmd.CurrencySymbol, cmd.DefaultBatchSizeLiters)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, apperrors.NewDatabaseError("save settings", err)
	}

	s.logger.Info("Settings updated",
		zap.String("currency_symbol", updated.CurrencySymbol),
		zap.Float64("default_batch_size_liters", updated.DefaultBatchSizeLiters),
	)

	return &updated, nil
}
