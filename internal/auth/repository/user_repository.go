package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rec-webapp-backend/internal/auth/domain"
)

// UserRepository defines persistence for user records.
type UserRepository interface {
	// EnsureUser returns the record for the identity's subject, creating it
	// on first sight. Safe under concurrent first access: the unique index on
	// sub is the serialization point and the losing inserter re-reads.
	EnsureUser(identity *domain.Identity) (*domain.User, error)
	FindBySub(sub string) (*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindBySub(sub string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("sub = ?", sub).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EnsureUser(identity *domain.Identity) (*domain.User, error) {
	existing, err := r.FindBySub(identity.Sub)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Sub:       identity.Sub,
		Email:     identity.Email,
		Name:      identity.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := r.db.Create(user).Error; err != nil {
		// A concurrent request inserted the same subject first; their row wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.FindBySub(identity.Sub)
		}
		return nil, err
	}
	return user, nil
}
