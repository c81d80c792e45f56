package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rec-webapp-backend/internal/settings/domain"
)

// SettingsRepository persists per-user preference rows.
type SettingsRepository interface {
	// Load returns the settings row for sub, creating it with defaults if
	// absent. Get-or-create is atomic from the caller's perspective: a lost
	// insert race falls through to a re-read of the winner's row.
	Load(sub string) (*domain.Settings, error)
	Save(settings *domain.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Load(sub string) (*domain.Settings, error) {
	settings, err := r.findBySub(sub)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = domain.Defaults(sub)
	settings.ID = uuid.New().String()
	settings.CreatedAt = time.Now()
	settings.UpdatedAt = time.Now()
	if err := r.db.Create(settings).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.findBySub(sub)
		}
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) Save(settings *domain.Settings) error {
	settings.UpdatedAt = time.Now()
	return r.db.Save(settings).Error
}

func (r *settingsRepository) findBySub(sub string) (*domain.Settings, error) {
	var settings domain.Settings
	err := r.db.Where("user_sub = ?", sub).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}
