package auth

import (
	"errors"

	"github.com/driftv8/gate-core/internal/middleware"
	"github.com/driftv8/gate-core/internal/models"
	"github.com/driftv8/gate-core/internal/pkg/response"
	sessionpkg "github.com/driftv8/gate-core/internal/pkg/session"
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

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	g := r.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/register", h.register)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/auth")
	g.POST("/logout", h.logout)
	g.GET("/session", h.session)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, u, err := h.svc.Login(dto.Email, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			response.UnauthorizedMsg(c, "Invalid email or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}

	c.SetCookie(middleware.AuthCookieName, token,
		int(sessionpkg.DefaultTTL.Seconds()), "/", "", false, true)
	response.OK(c, loginResponse{Token: token, User: toUserResponse(u)})
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Register(&dto)
	if err != nil {
		if errors.Is(err, errOwnerAlreadyExists) {
			response.BadRequest(c, "Admin account already exists")
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.OK(c, gin.H{"user": toUserResponse(u)})
}

func (h *Handler) logout(c *gin.Context) {
	if sid := middleware.CurrentSessionID(c); sid != "" {
		if err := h.svc.Logout(middleware.CurrentUserID(c), sid); err != nil {
			h.logger.Warn("session revoke failed", zap.Error(err))
		}
	}
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) session(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		h.logger.Error("session read failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	if u == nil {
		response.UnauthorizedMsg(c, "Unauthorized")
		return
	}
	response.OK(c, gin.H{"user": toUserResponse(u)})
}

func toUserResponse(u *models.UserModel) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		LastLoginTime: u.LastLoginTime,
		LastLoginIP:   u.LastLoginIP,
	}
}
