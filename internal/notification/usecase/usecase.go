package usecase

import (
	"context"

	authdomain "rec-webapp-backend/internal/auth/domain"
	"rec-webapp-backend/internal/notification/domain"
)

// Item is the notification view served to the frontend, regardless of
// whether notifications live in a local table or in the nudging service.
type Item struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Severity  string  `json:"severity"`
	ReadAt    *string `json:"read_at"`
}

// NotificationService is the notification façade. Two implementations exist,
// selected once at startup: a local-table store and a delegated client
// against the nudging service.
type NotificationService interface {
	// List returns up to the 50 most recent notifications, newest first.
	List(ctx context.Context, identity *authdomain.Identity) ([]Item, error)

	// MarkRead marks one notification read. Idempotent; unknown ids are
	// ErrNotFound.
	MarkRead(ctx context.Context, identity *authdomain.Identity, id string) error

	// MarkAllRead marks every unread notification read via concurrent
	// per-item calls. Completion order is unspecified; any individual
	// failure fails the whole operation.
	MarkAllRead(ctx context.Context, identity *authdomain.Identity) error

	// Subscribe upserts the push subscription carried in payload (keyed by
	// its endpoint) and flips the user's webpush_enabled setting on.
	Subscribe(ctx context.Context, identity *authdomain.Identity, payload map[string]interface{}) error

	// Unsubscribe removes the subscription for endpoint (no-op if absent)
	// and flips webpush_enabled off.
	Unsubscribe(ctx context.Context, identity *authdomain.Identity, endpoint string) error
}

// SettingsToggler is the slice of the settings usecase the façade needs for
// its webpush_enabled side effect.
type SettingsToggler interface {
	SetWebpushEnabled(sub string, enabled bool) error
}

func severityLabel(s string) string {
	switch domain.Severity(s) {
	case domain.SeverityCritical:
		return string(domain.SeverityCritical)
	case domain.SeverityWarning:
		return string(domain.SeverityWarning)
	default:
		return string(domain.SeverityInfo)
	}
}

func endpointFromPayload(payload map[string]interface{}) string {
	endpoint, _ := payload["endpoint"].(string)
	return endpoint
}
