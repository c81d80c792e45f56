package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rec-webapp-backend/internal/httperr"
	"rec-webapp-backend/internal/notification/domain"
)

// Listing cap for the notification feed.
const listLimit = 50

// NotificationRepository is the local notification table.
type NotificationRepository interface {
	// ListRecent returns the most recent notifications, newest first.
	ListRecent(sub string) ([]domain.Notification, error)
	// ListUnread returns every notification without a read timestamp.
	ListUnread(sub string) ([]domain.Notification, error)
	// MarkRead sets the read timestamp if unset. Marking an already-read
	// notification is a no-op; an unknown id is ErrNotFound.
	MarkRead(sub, id string, now time.Time) error
	Create(n *domain.Notification) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) ListRecent(sub string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.
		Where("user_sub = ?", sub).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) ListUnread(sub string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.
		Where("user_sub = ? AND read_at IS NULL", sub).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(sub, id string, now time.Time) error {
	var notification domain.Notification
	err := r.db.Where("id = ? AND user_sub = ?", id, sub).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrNotFound
		}
		return err
	}
	if notification.ReadAt != nil {
		return nil
	}
	return r.db.Model(&notification).Update("read_at", now).Error
}

func (r *notificationRepository) Create(n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return r.db.Create(n).Error
}
