package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "rec-webapp-backend/internal/auth/delivery"
	"rec-webapp-backend/internal/httperr"
	"rec-webapp-backend/internal/notification/usecase"
	settingsUsecase "rec-webapp-backend/internal/settings/usecase"
)

// NotificationHandler serves the notification feed and web-push registration.
type NotificationHandler struct {
	notifications  usecase.NotificationService
	settings       settingsUsecase.SettingsUsecase
	vapidPublicKey string
}

func NewNotificationHandler(
	notifications usecase.NotificationService,
	settings settingsUsecase.SettingsUsecase,
	vapidPublicKey string,
) *NotificationHandler {
	return &NotificationHandler{
		notifications:  notifications,
		settings:       settings,
		vapidPublicKey: vapidPublicKey,
	}
}

// UnsubscribeRequest is the body of POST /notifications/webpush/unsubscribe.
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// List returns up to 50 most recent notifications, newest first.
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	identity := authdelivery.IdentityFromContext(c)

	items, err := h.notifications.List(c.Request.Context(), identity)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Enable turns the user's email notifications on.
// POST /api/notifications/enable
func (h *NotificationHandler) Enable(c *gin.Context) {
	h.setEmailNotifications(c, true)
}

// Disable turns the user's email notifications off.
// POST /api/notifications/disable
func (h *NotificationHandler) Disable(c *gin.Context) {
	h.setEmailNotifications(c, false)
}

func (h *NotificationHandler) setEmailNotifications(c *gin.Context, enabled bool) {
	identity := authdelivery.IdentityFromContext(c)

	if _, err := h.settings.SetEmailNotifications(identity.Sub, enabled); err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkRead marks one notification read. Idempotent.
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	identity := authdelivery.IdentityFromContext(c)
	id := c.Param("id")

	if err := h.notifications.MarkRead(c.Request.Context(), identity, id); err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkAllRead marks every unread notification read.
// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	identity := authdelivery.IdentityFromContext(c)

	if err := h.notifications.MarkAllRead(c.Request.Context(), identity); err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// VapidPublicKey returns the server's push public key.
// GET /api/notifications/webpush/vapid-public-key
func (h *NotificationHandler) VapidPublicKey(c *gin.Context) {
	if h.vapidPublicKey == "" {
		httperr.JSON(c, httperr.ErrUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_key": h.vapidPublicKey})
}

// Subscribe registers (or refreshes) a web-push subscription. The raw browser
// subscription object is passed through as the payload.
// POST /api/notifications/webpush/subscribe
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	identity := authdelivery.IdentityFromContext(c)

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notifications.Subscribe(c.Request.Context(), identity, payload); err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Unsubscribe removes the subscription for an endpoint. Unsubscribing an
// unknown endpoint still succeeds.
// POST /api/notifications/webpush/unsubscribe
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	identity := authdelivery.IdentityFromContext(c)

	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notifications.Unsubscribe(c.Request.Context(), identity, req.Endpoint); err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
