package repository

import (
	"time"

	"rec-webapp-backend/internal/notification/domain"
)

// WelcomeSeeder drops the initial notification into a first-seen user's feed.
type WelcomeSeeder struct {
	repo NotificationRepository
}

func NewWelcomeSeeder(repo NotificationRepository) *WelcomeSeeder {
	return &WelcomeSeeder{repo: repo}
}

func (s *WelcomeSeeder) SeedWelcome(sub string) error {
	return s.repo.Create(&domain.Notification{
		UserSub:   sub,
		Title:     "Welcome to the REC Webapp",
		Body:      "Learn more about the app from your energy community manager",
		Severity:  domain.SeverityInfo,
		CreatedAt: time.Now(),
	})
}
