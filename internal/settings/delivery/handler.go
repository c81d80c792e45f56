package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "rec-webapp-backend/internal/auth/delivery"
	"rec-webapp-backend/internal/httperr"
	"rec-webapp-backend/internal/settings/domain"
	"rec-webapp-backend/internal/settings/usecase"
)

// SettingsHandler serves the user display and notification preferences.
type SettingsHandler struct {
	settingsUsecase usecase.SettingsUsecase
}

func NewSettingsHandler(settingsUsecase usecase.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{settingsUsecase: settingsUsecase}
}

// NotificationPrefs is the nested notifications object of the settings payload.
type NotificationPrefs struct {
	EmailEnabled   *bool `json:"email_enabled,omitempty"`
	WebpushEnabled *bool `json:"webpush_enabled,omitempty"`
}

// UpdateSettingsRequest is a partial update; absent fields keep prior values.
type UpdateSettingsRequest struct {
	SimpleMode    *bool              `json:"simple_mode"`
	FontScale     *float64           `json:"font_scale"`
	Notifications *NotificationPrefs `json:"notifications"`
}

// SettingsResponse is the full settings view returned by both GET and PUT.
type SettingsResponse struct {
	SimpleMode    bool                  `json:"simple_mode"`
	FontScale     float64               `json:"font_scale"`
	Notifications NotificationsResponse `json:"notifications"`
}

type NotificationsResponse struct {
	EmailEnabled   bool `json:"email_enabled"`
	WebpushEnabled bool `json:"webpush_enabled"`
}

func toResponse(s *domain.Settings) SettingsResponse {
	return SettingsResponse{
		SimpleMode: s.SimpleMode,
		FontScale:  s.FontScale,
		Notifications: NotificationsResponse{
			EmailEnabled:   s.EmailNotifications,
			WebpushEnabled: s.WebpushEnabled,
		},
	}
}

// GetSettings returns the user's settings, creating defaults on first read.
// GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	identity := authdelivery.IdentityFromContext(c)

	settings, err := h.settingsUsecase.Load(identity.Sub)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(settings))
}

// UpdateSettings applies a partial update and echoes the full result.
// PUT /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	identity := authdelivery.IdentityFromContext(c)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := usecase.UpdateRequest{
		SimpleMode: req.SimpleMode,
		FontScale:  req.FontScale,
	}
	if req.Notifications != nil {
		update.EmailNotifications = req.Notifications.EmailEnabled
		update.WebpushEnabled = req.Notifications.WebpushEnabled
	}

	settings, err := h.settingsUsecase.Update(identity.Sub, update)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(settings))
}
