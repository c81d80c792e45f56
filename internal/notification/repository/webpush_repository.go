package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rec-webapp-backend/internal/notification/domain"
)

// WebPushRepository stores browser push subscriptions.
type WebPushRepository interface {
	// Upsert inserts or, for an already-known (user, endpoint) pair, replaces
	// the stored payload (atomic INSERT ... ON CONFLICT DO UPDATE).
	Upsert(sub, endpoint string, payload datatypes.JSON) error
	// Delete removes the matching subscription; absent rows are a no-op.
	Delete(sub, endpoint string) error
	ListBySub(sub string) ([]domain.WebPushSubscription, error)
}

type webPushRepository struct {
	db *gorm.DB
}

func NewWebPushRepository(db *gorm.DB) WebPushRepository {
	return &webPushRepository{db: db}
}

func (r *webPushRepository) Upsert(sub, endpoint string, payload datatypes.JSON) error {
	subscription := &domain.WebPushSubscription{
		ID:        uuid.New().String(),
		UserSub:   sub,
		Endpoint:  endpoint,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_sub"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload"}),
	}).Create(subscription).Error
}

func (r *webPushRepository) Delete(sub, endpoint string) error {
	return r.db.
		Where("user_sub = ? AND endpoint = ?", sub, endpoint).
		Delete(&domain.WebPushSubscription{}).Error
}

func (r *webPushRepository) ListBySub(sub string) ([]domain.WebPushSubscription, error) {
	var subscriptions []domain.WebPushSubscription
	err := r.db.Where("user_sub = ?", sub).Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}
