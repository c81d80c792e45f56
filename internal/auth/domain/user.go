package domain

import "time"

// Identity is what the reverse-proxy's JWT asserts about the caller.
// Token carries the raw bearer string so upstream clients acting on the
// user's behalf can forward it verbatim.
type Identity struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"-"`
}

// User is the persistent record behind an identity, created lazily on the
// first authenticated request seen for a subject. Never deleted.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Sub           string    `json:"sub" gorm:"uniqueIndex;not null"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	HasSmartMeter bool      `json:"has_smart_meter" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
