package auditlog

import (
	"fmt"
	"testing"

	"github.com/driftv8/gate-core/internal/database"
	"github.com/driftv8/gate-core/internal/models"
	"github.com/driftv8/gate-core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func TestAccessLogsPaginated(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&models.AccessLogModel{
			AccessCodeID: "code-1",
			CodeUsed:     "AB12CD34",
		}).Error)
	}

	rows, page, err := svc.AccessLogs(pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 10)
	assert.EqualValues(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPage)
	assert.True(t, page.HasNextPage)

	rows, page, err = svc.AccessLogs(pagination.Query{Page: 3, Size: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.False(t, page.HasNextPage)
}

func TestDownloadLogsKeepNullCodeRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	codeID := "code-1"
	require.NoError(t, db.Create(&models.DownloadLogModel{FileID: "file-1", AccessCodeID: &codeID}).Error)
	require.NoError(t, db.Create(&models.DownloadLogModel{FileID: "file-2"}).Error)

	rows, page, err := svc.DownloadLogs(pagination.Query{Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.EqualValues(t, 2, page.Total)
}
