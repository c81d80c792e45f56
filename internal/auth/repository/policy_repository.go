package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rec-webapp-backend/internal/auth/domain"
)

// PolicyRepository is the append-only acceptance ledger. Acceptances of
// earlier versions are kept forever; only new (user, version) pairs insert.
type PolicyRepository interface {
	AcceptedVersion(sub string) (string, error)
	Accept(sub, version, ip string, now time.Time) error
}

type policyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

// AcceptedVersion returns the most recently accepted policy version for the
// user, or "" if the user never accepted any.
func (r *policyRepository) AcceptedVersion(sub string) (string, error) {
	var acceptance domain.PolicyAcceptance
	err := r.db.
		Where("user_sub = ?", sub).
		Order("accepted_at DESC").
		First(&acceptance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return acceptance.PolicyVersion, nil
}

// Accept records the acceptance. Re-accepting an already-accepted version is
// a no-op; the composite unique index on (user_sub, policy_version) catches
// the duplicate regardless of interleaving.
func (r *policyRepository) Accept(sub, version, ip string, now time.Time) error {
	acceptance := &domain.PolicyAcceptance{
		ID:             uuid.New().String(),
		UserSub:        sub,
		PolicyVersion:  version,
		AcceptedAt:     now,
		AcceptedFromIP: ip,
	}
	err := r.db.Create(acceptance).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
