package graphics

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumen-studio/backend/internal/models"
	"github.com/lumen-studio/backend/pkg/response"
	"github.com/lumen-studio/backend/pkg/storage"
)

// Handler handles graphic HTTP endpoints (staff only).
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a graphics handler. s3 may be nil when object storage
// is disabled; uploads are then rejected with 503.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

// Upload handles POST /bookings/:id/graphics (multipart file upload).
func (h *Handler) Upload(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "object storage not configured")
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	defer file.Close()
	if header.Size > storage.MaxGraphicFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateGraphicFileType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(header.Filename)
	}

	key := storage.GraphicKey(bookingID.String(), header.Filename)
	if _, err := h.s3.Upload(c.Request.Context(), h.s3.GraphicsBucket(), key, contentType, file, header.Size); err != nil {
		h.logger.Error("graphic upload failed", zap.Error(err), zap.String("booking_id", bookingID.String()))
		response.Internal(c, "failed to upload graphic")
		return
	}

	g := &models.Graphic{
		BookingID:   bookingID,
		FileName:    header.Filename,
		ContentType: contentType,
		S3Key:       key,
	}
	if err := h.repo.Create(c.Request.Context(), g); err != nil {
		h.logger.Error("create graphic failed", zap.Error(err))
		response.Internal(c, "failed to save graphic")
		return
	}
	response.Created(c, g)
}

// List handles GET /bookings/:id/graphics with presigned download URLs.
func (h *Handler) List(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	list, err := h.repo.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Internal(c, "failed to list graphics")
		return
	}
	if h.s3 != nil {
		for i := range list {
			url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), h.s3.GraphicsBucket(), list[i].S3Key, h.s3.PresignExpire())
			if err != nil {
				h.logger.Warn("presign graphic failed", zap.Error(err), zap.String("key", list[i].S3Key))
				continue
			}
			list[i].URL = url
		}
	}
	response.OK(c, list)
}

// Delete handles DELETE /graphics/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid graphic id")
		return
	}
	g, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "graphic not found")
		return
	}
	if h.s3 != nil {
		if err := h.s3.DeleteGraphic(c.Request.Context(), g.S3Key); err != nil {
			h.logger.Warn("delete graphic object failed", zap.Error(err), zap.String("key", g.S3Key))
		}
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete graphic")
		return
	}
	response.NoContent(c)
}
