package settings

import (
	"errors"

	"github.com/driftv8/gate-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/settings", h.get)
	admin.POST("/settings", h.set)
	admin.POST("/test-whatsapp", h.testWhatsApp)
}

func (h *Handler) get(c *gin.Context) {
	settings, err := h.svc.GetAll()
	if err != nil {
		h.logger.Error("settings read failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.OK(c, gin.H{"settings": settings})
}

func (h *Handler) set(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.SetAll(values); err != nil {
		h.logger.Error("settings write failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) testWhatsApp(c *gin.Context) {
	if err := h.svc.TestNotification(c.Request.Context()); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			response.BadRequest(c, "WhatsApp not configured")
			return
		}
		h.logger.Warn("test notification failed", zap.Error(err))
		response.InternalError(c, "Failed to send message")
		return
	}
	response.OK(c, gin.H{"success": true})
}
