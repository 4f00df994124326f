package settings

import (
	"context"
	"errors"
	"time"

	"github.com/driftv8/gate-core/internal/models"
	"github.com/driftv8/gate-core/internal/pkg/whatsapp"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotConfigured means the WhatsApp destination or credential is missing.
var ErrNotConfigured = errors.New("whatsapp not configured")

const testMessage = "DriftV8.xyz Test: WhatsApp notifications are working!"

// Service reads and writes the flat key-value settings table.
type Service struct {
	db *gorm.DB
	wa *whatsapp.Client
}

func NewService(db *gorm.DB, wa *whatsapp.Client) *Service {
	return &Service{db: db, wa: wa}
}

// GetAll reduces all setting rows to a flat map. Missing keys are absent;
// callers must default.
func (s *Service) GetAll() (map[string]string, error) {
	var rows []models.SettingModel
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// SetAll upserts each key in turn. Updates are applied best-effort per key:
// a failing key aborts the loop and surfaces the error, keys already written
// stay written.
func (s *Service) SetAll(values map[string]string) error {
	for key, value := range values {
		row := models.SettingModel{Key: key, Value: value, UpdatedAt: time.Now()}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// NotificationConfig resolves the redemption-alert settings. Any read failure
// degrades to disabled; alerting is never load-bearing.
func (s *Service) NotificationConfig() (enabled bool, phone, apiKey string) {
	all, err := s.GetAll()
	if err != nil {
		return false, "", ""
	}
	phone = all[models.SettingWhatsAppPhone]
	apiKey = all[models.SettingWhatsAppAPIKey]
	enabled = all[models.SettingWhatsAppEnabled] == "true" && phone != "" && apiKey != ""
	return enabled, phone, apiKey
}

// TestNotification sends a fixed test message synchronously and surfaces the
// dispatch result.
func (s *Service) TestNotification(ctx context.Context) error {
	all, err := s.GetAll()
	if err != nil {
		return err
	}
	phone := all[models.SettingWhatsAppPhone]
	apiKey := all[models.SettingWhatsAppAPIKey]
	if phone == "" || apiKey == "" {
		return ErrNotConfigured
	}
	return s.wa.Send(ctx, phone, apiKey, testMessage)
}
