package usecase

import (
	"fmt"

	"rec-webapp-backend/internal/httperr"
	"rec-webapp-backend/internal/settings/domain"
	"rec-webapp-backend/internal/settings/repository"
)

// UpdateRequest is a partial settings update. Nil fields keep their prior
// values.
type UpdateRequest struct {
	SimpleMode         *bool    `json:"simple_mode,omitempty"`
	FontScale          *float64 `json:"font_scale,omitempty"`
	EmailNotifications *bool    `json:"email_notifications,omitempty"`
	WebpushEnabled     *bool    `json:"webpush_enabled,omitempty"`
}

// SettingsUsecase exposes get-or-create and partial-update semantics over the
// per-user settings row.
type SettingsUsecase interface {
	Load(sub string) (*domain.Settings, error)
	Update(sub string, req UpdateRequest) (*domain.Settings, error)
	SetEmailNotifications(sub string, enabled bool) (*domain.Settings, error)
	SetWebpushEnabled(sub string, enabled bool) error
}

type settingsUsecase struct {
	repo repository.SettingsRepository
}

func NewSettingsUsecase(repo repository.SettingsRepository) SettingsUsecase {
	return &settingsUsecase{repo: repo}
}

func (u *settingsUsecase) Load(sub string) (*domain.Settings, error) {
	return u.repo.Load(sub)
}

// Update validates before any write, then overwrites only the supplied fields
// and returns the full post-update row.
func (u *settingsUsecase) Update(sub string, req UpdateRequest) (*domain.Settings, error) {
	if req.FontScale != nil {
		if *req.FontScale < domain.FontScaleMin || *req.FontScale > domain.FontScaleMax {
			return nil, fmt.Errorf("%w: font_scale must be between %.1f and %.1f",
				httperr.ErrValidation, domain.FontScaleMin, domain.FontScaleMax)
		}
	}

	settings, err := u.repo.Load(sub)
	if err != nil {
		return nil, err
	}

	if req.SimpleMode != nil {
		settings.SimpleMode = *req.SimpleMode
	}
	if req.FontScale != nil {
		settings.FontScale = *req.FontScale
	}
	if req.EmailNotifications != nil {
		settings.EmailNotifications = *req.EmailNotifications
	}
	if req.WebpushEnabled != nil {
		settings.WebpushEnabled = *req.WebpushEnabled
	}

	if err := u.repo.Save(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (u *settingsUsecase) SetEmailNotifications(sub string, enabled bool) (*domain.Settings, error) {
	return u.Update(sub, UpdateRequest{EmailNotifications: &enabled})
}

func (u *settingsUsecase) SetWebpushEnabled(sub string, enabled bool) error {
	_, err := u.Update(sub, UpdateRequest{WebpushEnabled: &enabled})
	return err
}
