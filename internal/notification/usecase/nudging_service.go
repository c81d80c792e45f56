package usecase

import (
	"context"
	"fmt"
	"sync"

	authdomain "rec-webapp-backend/internal/auth/domain"
	"rec-webapp-backend/internal/httperr"
	"rec-webapp-backend/pkg/nudging"
)

// nudgingService delegates the façade to the external nudging service,
// acting on the caller's behalf with their forwarded bearer token. The
// webpush_enabled settings flag stays local either way.
type nudgingService struct {
	client   *nudging.Client
	settings SettingsToggler
}

func NewNudgingService(client *nudging.Client, settings SettingsToggler) NotificationService {
	return &nudgingService{client: client, settings: settings}
}

func (s *nudgingService) List(ctx context.Context, identity *authdomain.Identity) ([]Item, error) {
	notifications, err := s.client.ListNotifications(ctx, identity.Token)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, Item{
			ID:        n.ID,
			CreatedAt: n.CreatedAt,
			Title:     n.Title,
			Body:      n.Body,
			Severity:  severityLabel(n.Severity),
			ReadAt:    n.ReadAt,
		})
		if len(items) == 50 {
			break
		}
	}
	return items, nil
}

func (s *nudgingService) MarkRead(ctx context.Context, identity *authdomain.Identity, id string) error {
	return s.client.MarkRead(ctx, identity.Token, id)
}

// MarkAllRead lists what is currently unread and issues one concurrent
// mark-read call per item. The result does not depend on completion order,
// but any individual failure surfaces as the operation's failure.
func (s *nudgingService) MarkAllRead(ctx context.Context, identity *authdomain.Identity) error {
	notifications, err := s.client.ListNotifications(ctx, identity.Token)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, n := range notifications {
		if n.ReadAt != nil {
			continue
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.client.MarkRead(ctx, identity.Token, id); err != nil {
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

func (s *nudgingService) Subscribe(ctx context.Context, identity *authdomain.Identity, payload map[string]interface{}) error {
	if endpointFromPayload(payload) == "" {
		return fmt.Errorf("%w: subscription endpoint missing", httperr.ErrValidation)
	}

	if err := s.client.Subscribe(ctx, identity.Token, payload); err != nil {
		return err
	}
	return s.settings.SetWebpushEnabled(identity.Sub, true)
}

func (s *nudgingService) Unsubscribe(ctx context.Context, identity *authdomain.Identity, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: subscription endpoint missing", httperr.ErrValidation)
	}

	if err := s.client.Unsubscribe(ctx, identity.Token, endpoint); err != nil {
		return err
	}
	return s.settings.SetWebpushEnabled(identity.Sub, false)
}
