package main

import (
	"log"

	api "rec-webapp-backend/cmd/api"
	authdomain "rec-webapp-backend/internal/auth/domain"
	authRepo "rec-webapp-backend/internal/auth/repository"
	authUsecase "rec-webapp-backend/internal/auth/usecase"
	notificationdomain "rec-webapp-backend/internal/notification/domain"
	notificationRepo "rec-webapp-backend/internal/notification/repository"
	notificationUsecase "rec-webapp-backend/internal/notification/usecase"
	overviewUsecase "rec-webapp-backend/internal/overview/usecase"
	settingsdomain "rec-webapp-backend/internal/settings/domain"
	settingsRepo "rec-webapp-backend/internal/settings/repository"
	settingsUsecase "rec-webapp-backend/internal/settings/usecase"
	"rec-webapp-backend/pkg/config"
	"rec-webapp-backend/pkg/database"
	"rec-webapp-backend/pkg/digitaltwin"
	"rec-webapp-backend/pkg/nudging"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.PolicyAcceptance{},
		&settingsdomain.Settings{},
		&notificationdomain.Notification{},
		&notificationdomain.WebPushSubscription{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	policyRepository := authRepo.NewPolicyRepository(db)
	settingsRepository := settingsRepo.NewSettingsRepository(db)
	notificationRepository := notificationRepo.NewNotificationRepository(db)
	webPushRepository := notificationRepo.NewWebPushRepository(db)

	// Initialize use cases
	authUc := authUsecase.NewAuthUsecase(userRepository, policyRepository, cfg.PolicyVersion)
	settingsUc := settingsUsecase.NewSettingsUsecase(settingsRepository)

	// Notification façade: local tables by default, delegated to the
	// nudging service when selected.
	var notificationSvc notificationUsecase.NotificationService
	switch cfg.NotificationsBackend {
	case config.NotificationsNudging:
		if cfg.NudgingAPIURL == "" {
			log.Fatal("NOTIFICATIONS_BACKEND=nudging requires NUDGING_API_URL")
		}
		log.Printf("[DEBUG] Using nudging notification backend at %s", cfg.NudgingAPIURL)
		notificationSvc = notificationUsecase.NewNudgingService(nudging.NewClient(cfg.NudgingAPIURL), settingsUc)
	case config.NotificationsLocal:
		notificationSvc = notificationUsecase.NewLocalService(notificationRepository, webPushRepository, settingsUc)
		// Local backend seeds the welcome notification for first-seen users.
		authUc.SetWelcomeSeeder(notificationRepo.NewWelcomeSeeder(notificationRepository))
	default:
		log.Fatalf("Unknown NOTIFICATIONS_BACKEND %q", cfg.NotificationsBackend)
	}

	// Overview aggregator: digital twin when configured, stub otherwise.
	var energySource overviewUsecase.EnergySource
	if cfg.DigitalTwinAPIURL != "" {
		log.Printf("[DEBUG] Using digital twin at %s", cfg.DigitalTwinAPIURL)
		energySource = digitaltwin.NewClient(cfg.DigitalTwinAPIURL)
	} else {
		log.Printf("[WARN] DIGITAL_TWIN_API_URL not configured, serving stub overview data")
	}
	overviewUc := overviewUsecase.NewOverviewUsecase(energySource)

	if cfg.VapidPublicKey == "" {
		log.Printf("[WARN] VAPID_PUBLIC_KEY not configured, web push key endpoint disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUc, settingsUc, notificationSvc, overviewUc, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
