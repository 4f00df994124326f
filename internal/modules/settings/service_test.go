package settings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/driftv8/gate-core/internal/database"
	"github.com/driftv8/gate-core/internal/models"
	"github.com/driftv8/gate-core/internal/pkg/whatsapp"
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

func TestSetAllUpserts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, whatsapp.New("http://127.0.0.1:1"))

	require.NoError(t, svc.SetAll(map[string]string{
		models.SettingWhatsAppPhone: "+1555000111",
		"site_title":                "DriftV8",
	}))
	require.NoError(t, svc.SetAll(map[string]string{
		models.SettingWhatsAppPhone: "+1555000222",
	}))

	all, err := svc.GetAll()
	require.NoError(t, err)
	assert.Equal(t, "+1555000222", all[models.SettingWhatsAppPhone])
	assert.Equal(t, "DriftV8", all["site_title"])

	var count int64
	require.NoError(t, db.Model(&models.SettingModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestNotificationConfigRequiresAllThreeKeys(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, whatsapp.New("http://127.0.0.1:1"))

	enabled, _, _ := svc.NotificationConfig()
	assert.False(t, enabled)

	require.NoError(t, svc.SetAll(map[string]string{
		models.SettingWhatsAppEnabled: "true",
		models.SettingWhatsAppPhone:   "+1555000111",
	}))
	enabled, _, _ = svc.NotificationConfig()
	assert.False(t, enabled)

	require.NoError(t, svc.SetAll(map[string]string{
		models.SettingWhatsAppAPIKey: "secret",
	}))
	enabled, phone, apiKey := svc.NotificationConfig()
	assert.True(t, enabled)
	assert.Equal(t, "+1555000111", phone)
	assert.Equal(t, "secret", apiKey)

	require.NoError(t, svc.SetAll(map[string]string{
		models.SettingWhatsAppEnabled: "false",
	}))
	enabled, _, _ = svc.NotificationConfig()
	assert.False(t, enabled)
}

func TestTestNotificationNotConfigured(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, whatsapp.New("http://127.0.0.1:1"))

	err := svc.TestNotification(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTestNotificationSendsFixedMessage(t *testing.T) {
	db := newTestDB(t)

	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
	}))
	defer server.Close()

	svc := NewService(db, whatsapp.New(server.URL))
	require.NoError(t, svc.SetAll(map[string]string{
		models.SettingWhatsAppPhone:  "+1555000111",
		models.SettingWhatsAppAPIKey: "secret",
	}))

	require.NoError(t, svc.TestNotification(context.Background()))
	require.NotNil(t, got)
	assert.Equal(t, "DriftV8.xyz Test: WhatsApp notifications are working!", got.Get("text"))
}

func TestTestNotificationSurfacesGatewayError(t *testing.T) {
	db := newTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad apikey", http.StatusForbidden)
	}))
	defer server.Close()

	svc := NewService(db, whatsapp.New(server.URL))
	require.NoError(t, svc.SetAll(map[string]string{
		models.SettingWhatsAppPhone:  "+1555000111",
		models.SettingWhatsAppAPIKey: "wrong",
	}))

	err := svc.TestNotification(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}
