package catalog

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/driftv8/gate-core/internal/modules/accesscode"
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

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/files", h.listForCode)
	r.POST("/download", h.download)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/files", h.listAll)
	admin.POST("/files", h.upload)
	admin.DELETE("/files/:id", h.remove)
}

func (h *Handler) listForCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "Access code required")
		return
	}

	files, err := h.svc.ListForCode(code)
	if err != nil {
		switch {
		case errors.Is(err, accesscode.ErrInvalidCode):
			response.UnauthorizedMsg(c, "Invalid access code")
		case errors.Is(err, accesscode.ErrCodeExpired):
			response.UnauthorizedMsg(c, "Access code has expired")
		default:
			h.logger.Error("file list failed", zap.Error(err))
			response.InternalError(c, "Server error")
		}
		return
	}
	response.OK(c, gin.H{"files": files})
}

func (h *Handler) download(c *gin.Context) {
	var dto DownloadDTO
	if err := c.ShouldBindJSON(&dto); err != nil || dto.FileID == "" {
		response.BadRequest(c, "File id required")
		return
	}

	if err := h.svc.RecordDownload(dto); err != nil {
		h.logger.Error("download log failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) listAll(c *gin.Context) {
	files, err := h.svc.ListAll()
	if err != nil {
		h.logger.Error("file list failed", zap.Error(err))
		response.InternalError(c, "Server error")
		return
	}
	response.OK(c, gin.H{"files": files})
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file provided")
		return
	}

	in := UploadInput{
		Name:        fileHeader.Filename,
		Description: c.PostForm("description"),
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	if in.Payload, err = readMultipartFile(fileHeader); err != nil {
		h.logger.Error("upload read failed", zap.Error(err))
		response.InternalError(c, "Upload failed")
		return
	}

	if thumbHeader, err := c.FormFile("thumbnail"); err == nil {
		in.ThumbnailName = thumbHeader.Filename
		in.ThumbnailContentType = thumbHeader.Header.Get("Content-Type")
		if in.Thumbnail, err = readMultipartFile(thumbHeader); err != nil {
			h.logger.Error("thumbnail read failed", zap.Error(err))
			response.InternalError(c, "Upload failed")
			return
		}
	}

	file, err := h.svc.Upload(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrNoFile) {
			response.BadRequest(c, "No file provided")
			return
		}
		h.logger.Error("upload failed", zap.Error(err))
		response.InternalError(c, "Upload failed")
		return
	}
	response.OK(c, gin.H{"file": file})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("file delete failed", zap.Error(err))
		response.InternalError(c, "Delete failed")
		return
	}
	response.OK(c, gin.H{"success": true})
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
