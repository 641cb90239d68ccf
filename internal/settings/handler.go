package settings

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumen-studio/backend/internal/models"
	"github.com/lumen-studio/backend/pkg/response"
	"github.com/lumen-studio/backend/pkg/studio"
)

// UpdateRequest is the body for PUT /settings (admin only).
type UpdateRequest struct {
	OpenHour         int    `json:"open_hour"`
	CloseHour        int    `json:"close_hour"`
	SlotMinutes      int    `json:"slot_minutes"`
	KioskDefaultMode string `json:"kiosk_default_mode"`
}

// Handler handles studio settings endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a settings handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Get handles GET /settings.
func (h *Handler) Get(c *gin.Context) {
	s, err := h.repo.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("load settings failed", zap.Error(err))
		response.Internal(c, "failed to load settings")
		return
	}
	response.OK(c, s)
}

// Update handles PUT /settings (admin only).
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.OpenHour < 0 || req.CloseHour > 24 || req.OpenHour >= req.CloseHour {
		response.BadRequest(c, "invalid opening hours")
		return
	}
	if req.SlotMinutes <= 0 || req.SlotMinutes > 8*60 {
		response.BadRequest(c, "invalid slot length")
		return
	}
	if _, ok := studio.ParseDisplayMode(req.KioskDefaultMode); !ok {
		response.BadRequest(c, "invalid kiosk default mode")
		return
	}
	s := models.StudioSettings{
		OpenHour:         req.OpenHour,
		CloseHour:        req.CloseHour,
		SlotMinutes:      req.SlotMinutes,
		KioskDefaultMode: req.KioskDefaultMode,
	}
	if err := h.repo.Update(c.Request.Context(), s); err != nil {
		h.logger.Error("update settings failed", zap.Error(err))
		response.Internal(c, "failed to update settings")
		return
	}
	response.OK(c, s)
}
