package models

import "time"

// AccessCodeModel is a shared bearer code that unlocks the file catalog.
// Codes are stored uppercase; comparison is exact match against the stored value.
type AccessCodeModel struct {
	Base
	Code      string     `json:"code"       gorm:"uniqueIndex;not null;size:32"`
	Label     string     `json:"label"`
	ExpiresAt *time.Time `json:"expires_at" gorm:"index"`
	UseCount  int        `json:"use_count"  gorm:"not null;default:0"`
}

func (AccessCodeModel) TableName() string { return "access_codes" }

// Expired reports whether the code has an expiry in the past. A nil ExpiresAt
// never expires.
func (m *AccessCodeModel) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}
