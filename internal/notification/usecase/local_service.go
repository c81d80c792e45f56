package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	authdomain "rec-webapp-backend/internal/auth/domain"
	"rec-webapp-backend/internal/httperr"
	"rec-webapp-backend/internal/notification/domain"
	"rec-webapp-backend/internal/notification/repository"
)

// localService backs the façade with the application's own tables.
type localService struct {
	notifications repository.NotificationRepository
	subscriptions repository.WebPushRepository
	settings      SettingsToggler
}

func NewLocalService(
	notifications repository.NotificationRepository,
	subscriptions repository.WebPushRepository,
	settings SettingsToggler,
) NotificationService {
	return &localService{
		notifications: notifications,
		subscriptions: subscriptions,
		settings:      settings,
	}
}

func (s *localService) List(ctx context.Context, identity *authdomain.Identity) ([]Item, error) {
	notifications, err := s.notifications.ListRecent(identity.Sub)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, toItem(n))
	}
	return items, nil
}

func (s *localService) MarkRead(ctx context.Context, identity *authdomain.Identity, id string) error {
	return s.notifications.MarkRead(identity.Sub, id, time.Now().UTC())
}

func (s *localService) MarkAllRead(ctx context.Context, identity *authdomain.Identity) error {
	unread, err := s.notifications.ListUnread(identity.Sub)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, n := range unread {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.MarkRead(ctx, identity, id); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(n.ID)
	}
	wg.Wait()

	return firstErr
}

func (s *localService) Subscribe(ctx context.Context, identity *authdomain.Identity, payload map[string]interface{}) error {
	endpoint := endpointFromPayload(payload)
	if endpoint == "" {
		return fmt.Errorf("%w: subscription endpoint missing", httperr.ErrValidation)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	if err := s.subscriptions.Upsert(identity.Sub, endpoint, raw); err != nil {
		return err
	}
	return s.settings.SetWebpushEnabled(identity.Sub, true)
}

func (s *localService) Unsubscribe(ctx context.Context, identity *authdomain.Identity, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: subscription endpoint missing", httperr.ErrValidation)
	}

	if err := s.subscriptions.Delete(identity.Sub, endpoint); err != nil {
		return err
	}
	return s.settings.SetWebpushEnabled(identity.Sub, false)
}

func toItem(n domain.Notification) Item {
	item := Item{
		ID:        n.ID,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		Title:     n.Title,
		Body:      n.Body,
		Severity:  severityLabel(string(n.Severity)),
	}
	if n.ReadAt != nil {
		readAt := n.ReadAt.UTC().Format(time.RFC3339)
		item.ReadAt = &readAt
	}
	return item
}
