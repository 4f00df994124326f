package models

import "time"

// SettingModel is a flat key-value store for runtime configuration
// (notification toggle, WhatsApp destination and credential).
type SettingModel struct {
	ID        uint      `json:"-"          gorm:"primaryKey;autoIncrement"`
	Key       string    `json:"key"        gorm:"uniqueIndex;not null;size:191"`
	Value     string    `json:"value"      gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SettingModel) TableName() string { return "settings" }

// Setting keys used by the notification path.
const (
	SettingWhatsAppEnabled = "whatsapp_enabled"
	SettingWhatsAppPhone   = "whatsapp_phone"
	SettingWhatsAppAPIKey  = "whatsapp_api_key"
)
