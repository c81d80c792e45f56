package domain

import "time"

// PolicyAcceptance is one row of the append-only acceptance ledger. Rows are
// never updated or deleted; the composite unique index on (user_sub,
// policy_version) makes re-acceptance of the same version a no-op.
type PolicyAcceptance struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserSub        string    `json:"user_sub" gorm:"index:idx_policy_user_version,unique;not null"`
	PolicyVersion  string    `json:"policy_version" gorm:"index:idx_policy_user_version,unique;not null"`
	AcceptedAt     time.Time `json:"accepted_at" gorm:"not null"`
	AcceptedFromIP string    `json:"accepted_from_ip,omitempty"`
}
