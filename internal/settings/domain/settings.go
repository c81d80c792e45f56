package domain

import "time"

// Font scale bounds accepted by the frontend.
const (
	FontScaleMin = 0.9
	FontScaleMax = 1.3
)

// Settings holds per-user display and notification preferences. Exactly one
// row per user, created lazily with defaults on first read or write.
type Settings struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	UserSub            string    `json:"user_sub" gorm:"uniqueIndex;not null"`
	SimpleMode         bool      `json:"simple_mode" gorm:"not null;default:false"`
	FontScale          float64   `json:"font_scale" gorm:"not null;default:1.0"`
	EmailNotifications bool      `json:"email_notifications" gorm:"not null;default:false"`
	WebpushEnabled     bool      `json:"webpush_enabled" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Defaults returns a fresh settings row for a first-seen user.
func Defaults(sub string) *Settings {
	return &Settings{
		UserSub:            sub,
		SimpleMode:         false,
		FontScale:          1.0,
		EmailNotifications: false,
		WebpushEnabled:     false,
	}
}
