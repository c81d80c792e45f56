package api

import (
	"github.com/gin-gonic/gin"

	authDelivery "rec-webapp-backend/internal/auth/delivery"
	authUsecase "rec-webapp-backend/internal/auth/usecase"
	notificationDelivery "rec-webapp-backend/internal/notification/delivery"
	notificationUsecase "rec-webapp-backend/internal/notification/usecase"
	overviewDelivery "rec-webapp-backend/internal/overview/delivery"
	overviewUsecase "rec-webapp-backend/internal/overview/usecase"
	settingsDelivery "rec-webapp-backend/internal/settings/delivery"
	settingsUsecase "rec-webapp-backend/internal/settings/usecase"
	"rec-webapp-backend/pkg/config"
)

// Handler owns the gin engine and the wired route handlers.
type Handler struct {
	engine *gin.Engine
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	settingsUc settingsUsecase.SettingsUsecase,
	notificationSvc notificationUsecase.NotificationService,
	overviewUc overviewUsecase.OverviewUsecase,
	cfg *config.Config,
) *Handler {
	engine := gin.Default()
	engine.Use(corsMiddleware(cfg.AllowedOrigins))

	SetupRoutes(
		engine,
		cfg.AuthHeaderName,
		authDelivery.NewAuthHandler(authUc, settingsUc, cfg.PolicyVersion),
		settingsDelivery.NewSettingsHandler(settingsUc),
		notificationDelivery.NewNotificationHandler(notificationSvc, settingsUc, cfg.VapidPublicKey),
		overviewDelivery.NewOverviewHandler(overviewUc, authUc),
	)

	return &Handler{engine: engine}
}

// Start blocks serving HTTP on addr.
func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}
