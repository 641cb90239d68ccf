package sessions

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumen-studio/backend/pkg/response"
	"github.com/lumen-studio/backend/pkg/studio"
)

// ScriptRequest is the body for PUT /customer/:token/teleprompter/script.
type ScriptRequest struct {
	Text string `json:"text"`
}

// SpeedRequest is the body for PUT /customer/:token/teleprompter/speed.
// Out-of-range values are clamped rather than rejected, so no binding rule.
type SpeedRequest struct {
	Percent int `json:"percent"`
}

// ModeRequest is the body for PUT /customer/:token/display-mode.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// Handler serves the token-scoped customer session endpoints. The token in
// the path is the only credential: these routes carry no JWT because studio
// displays and the guest-join screen are unauthenticated surfaces.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a sessions handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Status handles GET /customer/status/:token.
func (h *Handler) Status(c *gin.Context) {
	st, err := h.store.Get(c.Request.Context(), c.Param("token"))
	if err == ErrNotFound {
		response.NotFound(c, "session not found")
		return
	}
	if err != nil {
		h.logger.Error("load session failed", zap.Error(err))
		response.Internal(c, "failed to load session")
		return
	}
	response.OK(c, st.Status())
}

// UpdateScript handles PUT /customer/:token/teleprompter/script.
func (h *Handler) UpdateScript(c *gin.Context) {
	var req ScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	err := h.store.SetTeleprompterScript(c.Request.Context(), c.Param("token"), req.Text)
	switch err {
	case nil:
		response.OK(c, gin.H{"saved": true})
	case ErrNotFound:
		response.NotFound(c, "session not found")
	case ErrScriptLocked:
		response.Conflict(c, err.Error())
	default:
		h.logger.Error("update script failed", zap.Error(err))
		response.Internal(c, "failed to update script")
	}
}

// UpdateSpeed handles PUT /customer/:token/teleprompter/speed. Out-of-range
// values are clamped, not rejected.
func (h *Handler) UpdateSpeed(c *gin.Context) {
	var req SpeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	err := h.store.SetTeleprompterSpeed(c.Request.Context(), c.Param("token"), req.Percent)
	switch err {
	case nil:
		response.OK(c, gin.H{"saved": true, "percent": studio.ClampScrollSpeed(req.Percent)})
	case ErrNotFound:
		response.NotFound(c, "session not found")
	default:
		h.logger.Error("update speed failed", zap.Error(err))
		response.Internal(c, "failed to update speed")
	}
}

// UpdateMode handles PUT /customer/:token/display-mode. Only recognized
// modes may be written; displays still tolerate unknown modes on read.
func (h *Handler) UpdateMode(c *gin.Context) {
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	mode, ok := studio.ParseDisplayMode(req.Mode)
	if !ok {
		response.BadRequest(c, "invalid display mode")
		return
	}
	err := h.store.SetDisplayMode(c.Request.Context(), c.Param("token"), mode)
	switch err {
	case nil:
		response.OK(c, gin.H{"saved": true, "mode": mode})
	case ErrNotFound:
		response.NotFound(c, "session not found")
	default:
		h.logger.Error("update mode failed", zap.Error(err))
		response.Internal(c, "failed to update mode")
	}
}
