package accesscode

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/driftv8/gate-core/internal/models"
	"github.com/driftv8/gate-core/internal/modules/settings"
	"github.com/driftv8/gate-core/internal/pkg/whatsapp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	settings *settings.Service
	wa       *whatsapp.Client
	logger   *zap.Logger
}

func NewService(db *gorm.DB, settingsSvc *settings.Service, wa *whatsapp.Client, logger *zap.Logger) *Service {
	return &Service{db: db, settings: settingsSvc, wa: wa, logger: logger}
}

// Verify redeems a code: it must match exactly and be unexpired. A successful
// redemption bumps use_count atomically, records an access log row, and fires
// the redemption alert without blocking the caller.
func (s *Service) Verify(ctx context.Context, code string) (*models.AccessCodeModel, error) {
	ac, err := s.Lookup(code)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.AccessCodeModel{}).
		Where("id = ?", ac.ID).
		UpdateColumn("use_count", gorm.Expr("use_count + 1")).Error; err != nil {
		return nil, err
	}
	ac.UseCount++

	logRow := models.AccessLogModel{AccessCodeID: ac.ID, CodeUsed: ac.Code}
	if err := s.db.Create(&logRow).Error; err != nil {
		s.logger.Warn("access log write failed", zap.Error(err))
	}

	go s.notifyRedemption(ac.Code, ac.Label)

	return ac, nil
}

// Lookup resolves a code without redeeming it. Expired codes are rejected but
// kept; expiry is a gate, not a deletion trigger.
func (s *Service) Lookup(code string) (*models.AccessCodeModel, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidCode
	}

	var ac models.AccessCodeModel
	if err := s.db.Where("code = ?", code).First(&ac).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if ac.Expired(time.Now()) {
		return nil, ErrCodeExpired
	}
	return &ac, nil
}

func (s *Service) notifyRedemption(code, label string) {
	enabled, phone, apiKey := s.settings.NotificationConfig()
	if !enabled {
		return
	}

	suffix := ""
	if label != "" {
		suffix = fmt.Sprintf(" (%s)", label)
	}
	message := fmt.Sprintf("🔔 DriftV8.xyz: Code %q%s was just used!", code, suffix)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.wa.Send(ctx, phone, apiKey, message); err != nil {
		s.logger.Warn("redemption alert failed", zap.Error(err))
	}
}

// List returns all codes, newest first.
func (s *Service) List() ([]models.AccessCodeModel, error) {
	var codes []models.AccessCodeModel
	if err := s.db.Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Create mints a fresh random code. The value is 4 random bytes hex-encoded
// and uppercased, 8 characters total.
func (s *Service) Create(dto CreateCodeDTO) (*models.AccessCodeModel, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	ac := models.AccessCodeModel{
		Code:  strings.ToUpper(hex.EncodeToString(b)),
		Label: strings.TrimSpace(dto.Label),
	}
	if dto.ExpiresInDays != nil && *dto.ExpiresInDays > 0 {
		expiry := time.Now().AddDate(0, 0, *dto.ExpiresInDays)
		ac.ExpiresAt = &expiry
	}

	if err := s.db.Create(&ac).Error; err != nil {
		return nil, err
	}
	return &ac, nil
}

// Update applies a partial update to a code's label and expiry.
func (s *Service) Update(id string, dto UpdateCodeDTO) error {
	updates := map[string]any{}
	if dto.Label != nil {
		updates["label"] = strings.TrimSpace(*dto.Label)
	}
	switch {
	case dto.ExpiresInDays != nil:
		if *dto.ExpiresInDays > 0 {
			updates["expires_at"] = time.Now().AddDate(0, 0, *dto.ExpiresInDays)
		} else {
			updates["expires_at"] = nil
		}
	case dto.ExpiresAt != nil:
		updates["expires_at"] = *dto.ExpiresAt
	}
	if len(updates) == 0 {
		return nil
	}

	return s.db.Model(&models.AccessCodeModel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a code permanently. Existing access and download log rows
// keep their code reference and stay readable.
func (s *Service) Delete(id string) error {
	return s.db.Unscoped().Where("id = ?", id).Delete(&models.AccessCodeModel{}).Error
}
