package accesscode

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/driftv8/gate-core/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newVerifyRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(newTestService(t, db), zap.NewNop())
	h.RegisterPublicRoutes(r.Group("/api"))
	return r
}

func postVerify(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/verify-code", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyEndpointSuccess(t *testing.T) {
	db := newTestDB(t)
	r := newVerifyRouter(t, db)

	require.NoError(t, db.Create(&models.AccessCodeModel{Code: "AB12CD34", Label: "crew"}).Error)

	w := postVerify(r, `{"code":"ab12cd34"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Code    struct {
			Code     string `json:"code"`
			UseCount int    `json:"use_count"`
		} `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "AB12CD34", body.Code.Code)
	assert.Equal(t, 1, body.Code.UseCount)
}

func TestVerifyEndpointMissingCode(t *testing.T) {
	r := newVerifyRouter(t, newTestDB(t))

	w := postVerify(r, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Access code required")
}

func TestVerifyEndpointInvalidCode(t *testing.T) {
	r := newVerifyRouter(t, newTestDB(t))

	w := postVerify(r, `{"code":"WRONG123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid access code")
}

func TestVerifyEndpointExpiredCode(t *testing.T) {
	db := newTestDB(t)
	r := newVerifyRouter(t, db)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.AccessCodeModel{Code: "0LDC0DE1", ExpiresAt: &past}).Error)

	w := postVerify(r, `{"code":"0LDC0DE1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Access code has expired")
}
