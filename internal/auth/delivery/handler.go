package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rec-webapp-backend/internal/auth/usecase"
	"rec-webapp-backend/internal/httperr"
	settingsUsecase "rec-webapp-backend/internal/settings/usecase"
)

// AuthHandler serves the identity surface: /me and the terms acceptance.
type AuthHandler struct {
	authUsecase     usecase.AuthUsecase
	settingsUsecase settingsUsecase.SettingsUsecase
	policyVersion   string
}

func NewAuthHandler(authUc usecase.AuthUsecase, settingsUc settingsUsecase.SettingsUsecase, policyVersion string) *AuthHandler {
	return &AuthHandler{
		authUsecase:     authUc,
		settingsUsecase: settingsUc,
		policyVersion:   policyVersion,
	}
}

// MeResponse aggregates everything the frontend needs to boot a session.
type MeResponse struct {
	User                   gin.H   `json:"user"`
	HasSmartMeter          bool    `json:"has_smart_meter"`
	TermsRequired          bool    `json:"terms_required"`
	PolicyVersion          string  `json:"policy_version"`
	AcceptedPolicyVersion  *string `json:"accepted_policy_version"`
	SimpleMode             bool    `json:"simple_mode"`
	FontScale              float64 `json:"font_scale"`
	NotificationPermission string  `json:"notification_permission"`
	WebpushConfigured      bool    `json:"webpush_configured"`
}

// AcceptTermsRequest is the body of POST /terms/accept.
type AcceptTermsRequest struct {
	Accept bool `json:"accept"`
}

// Me returns the current identity plus session bootstrap state.
// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity := IdentityFromContext(c)

	user, err := h.authUsecase.EnsureUser(identity)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	required, accepted, err := h.authUsecase.TermsStatus(identity.Sub)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	settings, err := h.settingsUsecase.Load(identity.Sub)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	var acceptedVersion *string
	if accepted != "" {
		acceptedVersion = &accepted
	}

	c.JSON(http.StatusOK, MeResponse{
		User: gin.H{
			"sub":   identity.Sub,
			"email": identity.Email,
			"name":  identity.Name,
		},
		HasSmartMeter:          user.HasSmartMeter,
		TermsRequired:          required,
		PolicyVersion:          h.policyVersion,
		AcceptedPolicyVersion:  acceptedVersion,
		SimpleMode:             settings.SimpleMode,
		FontScale:              settings.FontScale,
		NotificationPermission: notificationPermission(c),
		WebpushConfigured:      settings.WebpushEnabled,
	})
}

// AcceptTerms records acceptance of the current policy version. Idempotent.
// POST /api/terms/accept
func (h *AuthHandler) AcceptTerms(c *gin.Context) {
	identity := IdentityFromContext(c)

	var req AcceptTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Accept {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accept must be true"})
		return
	}

	if _, err := h.authUsecase.EnsureUser(identity); err != nil {
		httperr.JSON(c, err)
		return
	}

	if err := h.authUsecase.AcceptTerms(identity.Sub, clientIP(c)); err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// notificationPermission echoes the browser permission state the frontend
// reports alongside the request, normalized to default/granted/denied.
func notificationPermission(c *gin.Context) string {
	permission := c.GetHeader("X-REC-Notification-Permission")
	switch permission {
	case "granted", "denied":
		return permission
	default:
		return "default"
	}
}
