package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authDelivery "rec-webapp-backend/internal/auth/delivery"
	notificationDelivery "rec-webapp-backend/internal/notification/delivery"
	overviewDelivery "rec-webapp-backend/internal/overview/delivery"
	settingsDelivery "rec-webapp-backend/internal/settings/delivery"
)

// SetupRoutes registers the API surface. Everything except /health sits
// behind the auth middleware.
func SetupRoutes(
	r *gin.Engine,
	authHeaderName string,
	authHandler *authDelivery.AuthHandler,
	settingsHandler *settingsDelivery.SettingsHandler,
	notificationHandler *notificationDelivery.NotificationHandler,
	overviewHandler *overviewDelivery.OverviewHandler,
) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		authed := api.Group("")
		authed.Use(authDelivery.AuthMiddleware(authHeaderName))
		{
			authed.GET("/me", authHandler.Me)
			authed.POST("/terms/accept", authHandler.AcceptTerms)

			authed.GET("/overview", overviewHandler.Overview)

			authed.GET("/settings", settingsHandler.GetSettings)
			authed.PUT("/settings", settingsHandler.UpdateSettings)

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.POST("/enable", notificationHandler.Enable)
				notifications.POST("/disable", notificationHandler.Disable)
				// Literal segment registered before the :id route so
				// "read-all" never resolves as a notification id.
				notifications.POST("/read-all", notificationHandler.MarkAllRead)
				notifications.POST("/:id/read", notificationHandler.MarkRead)

				notifications.GET("/webpush/vapid-public-key", notificationHandler.VapidPublicKey)
				notifications.POST("/webpush/subscribe", notificationHandler.Subscribe)
				notifications.POST("/webpush/unsubscribe", notificationHandler.Unsubscribe)
			}
		}
	}
}
