package gorm

import (
	"context"
	"errors"

	"github.com/meadcraft/meadery/internal/domain/settings"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	"gorm.io/gorm"
)

// SettingsRepository stores the single settings row using GORM
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) outbound.SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get loads the settings row
func (r *SettingsRepository) Get(ctx context.Context) (settings.Settings, bool, error) {
	var model SettingsModel

	result := r.db.WithContext(ctx).First(&model, settingsRowID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return settings.Settings{}, false, nil
		}
		return settings.Settings{}, false, result.Error
	}

	return ModelToSettings(&model), true, nil
}

// Save upserts the settings row
func (r *SettingsRepository) Save(ctx context.Context, s settings.Settings) error {
	return r.db.WithContext(ctx).Save(SettingsToModel(s)).Error
}
