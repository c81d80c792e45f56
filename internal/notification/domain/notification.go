package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the three enumerated severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Notification is a locally stored per-user notification. Rows are only ever
// mutated to set the read timestamp, never deleted.
type Notification struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	UserSub   string     `json:"user_sub" gorm:"index;not null"`
	Title     string     `json:"title" gorm:"not null"`
	Body      string     `json:"body" gorm:"type:text;not null"`
	Severity  Severity   `json:"severity" gorm:"type:varchar(20);not null;default:'info'"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// WebPushSubscription stores a browser push subscription. The (user_sub,
// endpoint) pair is the effective identity: re-subscribing the same endpoint
// updates the payload instead of duplicating the row.
type WebPushSubscription struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	UserSub   string         `json:"user_sub" gorm:"index:idx_webpush_user_endpoint,unique;not null"`
	Endpoint  string         `json:"endpoint" gorm:"index:idx_webpush_user_endpoint,unique;not null;type:varchar(500)"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}
