package auditlog

import (
	"github.com/driftv8/gate-core/internal/models"
	"github.com/driftv8/gate-core/internal/pkg/pagination"
	"github.com/driftv8/gate-core/internal/pkg/response"
	"gorm.io/gorm"
)

// Service exposes the append-only audit trails: code redemptions and file
// downloads. Rows are only ever written by the public endpoints; this side
// reads them newest first.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) AccessLogs(q pagination.Query) ([]models.AccessLogModel, response.Pagination, error) {
	var rows []models.AccessLogModel
	tx := s.db.Model(&models.AccessLogModel{}).Order("created_at DESC")
	page, err := pagination.Paginate(tx, q, &rows)
	return rows, page, err
}

func (s *Service) DownloadLogs(q pagination.Query) ([]models.DownloadLogModel, response.Pagination, error) {
	var rows []models.DownloadLogModel
	tx := s.db.Model(&models.DownloadLogModel{}).Order("created_at DESC")
	page, err := pagination.Paginate(tx, q, &rows)
	return rows, page, err
}
