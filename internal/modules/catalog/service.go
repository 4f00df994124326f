package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/driftv8/gate-core/internal/models"
	"github.com/driftv8/gate-core/internal/modules/accesscode"
	"github.com/driftv8/gate-core/internal/modules/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNoFile = errors.New("no file provided")

type Service struct {
	db     *gorm.DB
	store  storage.ObjectStore
	codes  *accesscode.Service
	logger *zap.Logger
}

func NewService(db *gorm.DB, store storage.ObjectStore, codes *accesscode.Service, logger *zap.Logger) *Service {
	return &Service{db: db, store: store, codes: codes, logger: logger}
}

// ListForCode re-validates the code and returns the full catalog, newest
// first. Listing is free: it never bumps use_count and writes no log row.
func (s *Service) ListForCode(code string) ([]models.FileModel, error) {
	if _, err := s.codes.Lookup(code); err != nil {
		return nil, err
	}
	return s.ListAll()
}

// ListAll returns every file, newest first.
func (s *Service) ListAll() ([]models.FileModel, error) {
	var files []models.FileModel
	if err := s.db.Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// RecordDownload writes a download log row and bumps the file's counter.
// The code is resolved to an id if it still exists; an unknown or deleted
// code degrades to a null reference, never an error. The counter bump is
// best-effort.
func (s *Service) RecordDownload(dto DownloadDTO) error {
	var codeID *string
	code := strings.ToUpper(strings.TrimSpace(dto.Code))
	if code != "" {
		var ac models.AccessCodeModel
		if err := s.db.Select("id").Where("code = ?", code).First(&ac).Error; err == nil {
			codeID = &ac.ID
		}
	}

	row := models.DownloadLogModel{FileID: dto.FileID, AccessCodeID: codeID}
	if err := s.db.Create(&row).Error; err != nil {
		return err
	}

	if err := s.db.Model(&models.FileModel{}).
		Where("id = ?", dto.FileID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		s.logger.Warn("download count bump failed",
			zap.String("file_id", dto.FileID), zap.Error(err))
	}
	return nil
}

// Upload stores the blob (and thumbnail, when present) and inserts the
// metadata row. Thumbnails live under the thumbnails/ prefix.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.FileModel, error) {
	if in.Name == "" || len(in.Payload) == 0 {
		return nil, ErrNoFile
	}

	blobURL, err := s.store.Put(ctx, in.Name, in.Payload, in.ContentType)
	if err != nil {
		return nil, err
	}

	thumbnailURL := ""
	if len(in.Thumbnail) > 0 {
		thumbnailURL, err = s.store.Put(ctx,
			fmt.Sprintf("thumbnails/%s", in.ThumbnailName),
			in.Thumbnail, in.ThumbnailContentType)
		if err != nil {
			return nil, err
		}
	}

	file := models.FileModel{
		Name:         in.Name,
		Description:  in.Description,
		BlobURL:      blobURL,
		ThumbnailURL: thumbnailURL,
		FileType:     in.ContentType,
		FileSize:     int64(len(in.Payload)),
	}
	if err := s.db.Create(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// Delete removes the metadata row and both stored objects. Storage deletion
// is best-effort; a dangling blob is cheaper than a catalog entry pointing
// at nothing.
func (s *Service) Delete(ctx context.Context, id string) error {
	var file models.FileModel
	if err := s.db.Where("id = ?", id).First(&file).Error; err == nil {
		if err := s.store.DeleteByURL(ctx, file.BlobURL); err != nil {
			s.logger.Warn("blob delete failed", zap.String("url", file.BlobURL), zap.Error(err))
		}
		if file.ThumbnailURL != "" {
			if err := s.store.DeleteByURL(ctx, file.ThumbnailURL); err != nil {
				s.logger.Warn("thumbnail delete failed", zap.String("url", file.ThumbnailURL), zap.Error(err))
			}
		}
	}

	return s.db.Unscoped().Where("id = ?", id).Delete(&models.FileModel{}).Error
}
