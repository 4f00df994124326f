package accesscode

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

// RegisterPublicRoutes mounts the visitor-facing redemption endpoint.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/verify-code", h.verify)
}

// RegisterAdminRoutes mounts code management under the authenticated group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/access-codes", h.list)
	admin.POST("/access-codes", h.create)
	admin.PATCH("/access-codes/:id", h.update)
	admin.DELETE("/access-codes/:id", h.remove)
}

func (h *Handler) verify(c *gin.Context) {
	var dto VerifyDTO
	if err := c.ShouldBindJSON(&dto); err != nil || dto.Code == "" {
		response.BadRequest(c, "Access code required")
		return
	}

	ac, err := h.svc.Verify(c.Request.Context(), dto.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCode):
			response.UnauthorizedMsg(c, "Invalid access code")
		case errors.Is(err, ErrCodeExpired):
			response.UnauthorizedMsg(c, "Access code has expired")
		default:
			h.logger.Error("code verification failed", zap.Error(err))
			response.InternalError(c, "Server error")
		}
		return
	}

	response.OK(c, gin.H{"success": true, "code": ac})
}

func (h *Handler) list(c *gin.Context) {
	codes, err := h.svc.List()
	if err != nil {
		h.logger.Error("code list failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.OK(c, gin.H{"codes": codes})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCodeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ac, err := h.svc.Create(dto)
	if err != nil {
		h.logger.Error("code create failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.OK(c, gin.H{"code": ac})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCodeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.Update(c.Param("id"), dto); err != nil {
		h.logger.Error("code update failed", zap.Error(err))
		response.InternalError(c, "Update failed")
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		h.logger.Error("code delete failed", zap.Error(err))
		response.InternalError(c, "Delete failed")
		return
	}
	response.OK(c, gin.H{"success": true})
}
