package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/driftv8/gate-core/internal/database"
	"github.com/driftv8/gate-core/internal/models"
	"github.com/driftv8/gate-core/internal/modules/accesscode"
	"github.com/driftv8/gate-core/internal/modules/settings"
	"github.com/driftv8/gate-core/internal/pkg/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeStore struct {
	puts    map[string][]byte
	deleted []string
	failDel bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: map[string][]byte{}}
}

func (f *fakeStore) Put(_ context.Context, key string, payload []byte, _ string) (string, error) {
	f.puts[key] = payload
	return "https://blob.test/" + key, nil
}

func (f *fakeStore) DeleteByURL(_ context.Context, rawURL string) error {
	if f.failDel {
		return errors.New("object store unavailable")
	}
	f.deleted = append(f.deleted, rawURL)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, store *fakeStore) *Service {
	t.Helper()
	wa := whatsapp.New("http://127.0.0.1:1")
	codes := accesscode.NewService(db, settings.NewService(db, wa), wa, zap.NewNop())
	return NewService(db, store, codes, zap.NewNop())
}

func TestListForCodeDoesNotRedeem(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, newFakeStore())

	require.NoError(t, db.Create(&models.AccessCodeModel{Code: "CAFED00D"}).Error)
	require.NoError(t, db.Create(&models.FileModel{Name: "a.zip", BlobURL: "https://blob.test/a.zip"}).Error)

	files, err := svc.ListForCode("cafed00d")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	var stored models.AccessCodeModel
	require.NoError(t, db.First(&stored, "code = ?", "CAFED00D").Error)
	assert.Equal(t, 0, stored.UseCount)

	var logs int64
	require.NoError(t, db.Model(&models.AccessLogModel{}).Count(&logs).Error)
	assert.EqualValues(t, 0, logs)
}

func TestListForCodeRejectsBadCodes(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, newFakeStore())

	_, err := svc.ListForCode("UNKNOWN1")
	assert.ErrorIs(t, err, accesscode.ErrInvalidCode)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Create(&models.AccessCodeModel{Code: "EXPIRED1", ExpiresAt: &past}).Error)

	_, err = svc.ListForCode("EXPIRED1")
	assert.ErrorIs(t, err, accesscode.ErrCodeExpired)
}

func TestListAllNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, newFakeStore())

	old := models.FileModel{Name: "old.zip", BlobURL: "u1"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).Update("created_at", time.Now().Add(-time.Hour)).Error)
	require.NoError(t, db.Create(&models.FileModel{Name: "new.zip", BlobURL: "u2"}).Error)

	files, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "new.zip", files[0].Name)
}

func TestRecordDownloadResolvesCode(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, newFakeStore())

	code := models.AccessCodeModel{Code: "FEEDFACE"}
	require.NoError(t, db.Create(&code).Error)
	file := models.FileModel{Name: "a.zip", BlobURL: "u"}
	require.NoError(t, db.Create(&file).Error)

	require.NoError(t, svc.RecordDownload(DownloadDTO{FileID: file.ID, Code: "feedface"}))

	var logs []models.DownloadLogModel
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, file.ID, logs[0].FileID)
	require.NotNil(t, logs[0].AccessCodeID)
	assert.Equal(t, code.ID, *logs[0].AccessCodeID)

	var stored models.FileModel
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Equal(t, 1, stored.DownloadCount)
}

func TestRecordDownloadUnknownCodeDegradesToNull(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, newFakeStore())

	file := models.FileModel{Name: "a.zip", BlobURL: "u"}
	require.NoError(t, db.Create(&file).Error)

	require.NoError(t, svc.RecordDownload(DownloadDTO{FileID: file.ID, Code: "GONE0000"}))

	var logs []models.DownloadLogModel
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].AccessCodeID)
}

func TestUploadStoresBlobAndThumbnail(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	svc := newTestService(t, db, store)

	file, err := svc.Upload(context.Background(), UploadInput{
		Name:                 "release.zip",
		Description:          "first drop",
		ContentType:          "application/zip",
		Payload:              []byte("zipbytes"),
		ThumbnailName:        "cover.png",
		ThumbnailContentType: "image/png",
		Thumbnail:            []byte("pngbytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://blob.test/release.zip", file.BlobURL)
	assert.Equal(t, "https://blob.test/thumbnails/cover.png", file.ThumbnailURL)
	assert.Equal(t, "application/zip", file.FileType)
	assert.EqualValues(t, 8, file.FileSize)
	assert.Contains(t, store.puts, "release.zip")
	assert.Contains(t, store.puts, "thumbnails/cover.png")

	var stored models.FileModel
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Equal(t, "first drop", stored.Description)
}

func TestUploadWithoutPayload(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, newFakeStore())

	_, err := svc.Upload(context.Background(), UploadInput{Name: "empty.zip"})
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestDeleteRemovesRowAndObjects(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	svc := newTestService(t, db, store)

	file := models.FileModel{Name: "a.zip", BlobURL: "https://blob.test/a.zip", ThumbnailURL: "https://blob.test/thumbnails/a.png"}
	require.NoError(t, db.Create(&file).Error)

	require.NoError(t, svc.Delete(context.Background(), file.ID))

	assert.ElementsMatch(t, []string{
		"https://blob.test/a.zip",
		"https://blob.test/thumbnails/a.png",
	}, store.deleted)

	var count int64
	require.NoError(t, db.Model(&models.FileModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteSurvivesStorageFailure(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStore()
	store.failDel = true
	svc := newTestService(t, db, store)

	file := models.FileModel{Name: "a.zip", BlobURL: "https://blob.test/a.zip"}
	require.NoError(t, db.Create(&file).Error)

	require.NoError(t, svc.Delete(context.Background(), file.ID))

	var count int64
	require.NoError(t, db.Model(&models.FileModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
