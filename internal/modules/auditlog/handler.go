package auditlog

import (
	"github.com/driftv8/gate-core/internal/pkg/pagination"
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
	admin.GET("/access-logs", h.accessLogs)
	admin.GET("/download-logs", h.downloadLogs)
}

func (h *Handler) accessLogs(c *gin.Context) {
	rows, page, err := h.svc.AccessLogs(pagination.FromContext(c))
	if err != nil {
		h.logger.Error("access log read failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.Paged(c, rows, page)
}

func (h *Handler) downloadLogs(c *gin.Context) {
	rows, page, err := h.svc.DownloadLogs(pagination.FromContext(c))
	if err != nil {
		h.logger.Error("download log read failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.Paged(c, rows, page)
}
