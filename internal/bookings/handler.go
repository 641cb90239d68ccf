// Package bookings exposes the appointment endpoints: booking detail for the
// control panel, activation and completion (the session token lifecycle),
// and the kiosk calendar with walk-in creation.
package bookings

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumen-studio/backend/internal/graphics"
	"github.com/lumen-studio/backend/internal/models"
	"github.com/lumen-studio/backend/internal/sessions"
	"github.com/lumen-studio/backend/internal/settings"
	"github.com/lumen-studio/backend/pkg/response"
	"github.com/lumen-studio/backend/pkg/storage"
	"github.com/lumen-studio/backend/pkg/studio"
)

// WalkInRequest is the body for POST /bookings/walk-in (kiosk flow).
type WalkInRequest struct {
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerEmail string    `json:"customer_email"`
	Service       string    `json:"service" binding:"required"`
	StartsAt      time.Time `json:"starts_at"`
	Notes         string    `json:"notes"`
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	repo         *Repository
	settingsRepo *settings.Repository
	graphicsRepo *graphics.Repository
	store        sessions.Store
	s3           *storage.S3
	logger       *zap.Logger
}

// NewHandler creates a bookings handler. s3 may be nil; graphics then carry
// no download URLs.
func NewHandler(repo *Repository, settingsRepo *settings.Repository, graphicsRepo *graphics.Repository, store sessions.Store, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:         repo,
		settingsRepo: settingsRepo,
		graphicsRepo: graphicsRepo,
		store:        store,
		s3:           s3,
		logger:       logger,
	}
}

// GetAppointment handles GET /appointments/:id: the booking plus its
// graphics with presigned URLs.
func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid appointment id")
		return
	}
	b, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "appointment not found")
		return
	}
	list, err := h.graphicsRepo.ListByBooking(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load graphics")
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
	response.OK(c, gin.H{"booking": b, "graphics": list})
}

// Current handles GET /bookings/current: the active booking and its session
// token, if any.
func (h *Handler) Current(c *gin.Context) {
	b, err := h.repo.GetActive(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load current booking")
		return
	}
	if b == nil {
		response.OK(c, gin.H{"active": false})
		return
	}
	token, err := h.store.TokenForBooking(c.Request.Context(), b.ID)
	if err != nil {
		h.logger.Warn("session lookup failed", zap.Error(err), zap.String("booking_id", b.ID.String()))
	}
	response.OK(c, gin.H{"active": true, "booking": b, "access_token": token})
}

// Activate handles POST /bookings/:id/activate. It marks the booking active,
// creates the live session and returns the session token both as a
// structured field and embedded in the legacy activation message.
func (h *Handler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	b, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "booking not found")
		return
	}
	if b.Status == models.BookingStatusActive {
		response.Conflict(c, "booking is already active")
		return
	}
	if b.Status == models.BookingStatusCompleted || b.Status == models.BookingStatusCancelled {
		response.Conflict(c, "booking is "+b.Status)
		return
	}
	if existing, err := h.repo.GetActive(c.Request.Context()); err == nil && existing != nil {
		response.Conflict(c, "another booking is already active")
		return
	}

	token, err := generateToken()
	if err != nil {
		h.logger.Error("generate session token failed", zap.Error(err))
		response.Internal(c, "failed to generate session token")
		return
	}

	st := &sessions.State{
		Token:                   token,
		BookingID:               b.ID,
		DisplayMode:             string(defaultModeForService(b.Service)),
		TeleprompterScrollSpeed: studio.DefaultScrollSpeed,
		Booking: studio.BookingInfo{
			ID:           b.ID,
			CustomerName: b.CustomerName,
			Service:      b.Service,
			StartsAt:     b.StartsAt,
			EndsAt:       b.EndsAt,
		},
		Project: studio.ProjectInfo{
			Name:    b.CustomerName + " / " + b.Service,
			Service: b.Service,
		},
		ActivatedAt: time.Now(),
	}
	if err := h.store.Create(c.Request.Context(), st); err != nil {
		h.logger.Error("create session failed", zap.Error(err), zap.String("booking_id", b.ID.String()))
		response.Internal(c, "failed to create session")
		return
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), b.ID, models.BookingStatusActive); err != nil {
		_ = h.store.Delete(c.Request.Context(), token)
		response.Internal(c, "failed to activate booking")
		return
	}

	response.OK(c, gin.H{
		"message":      studio.ActivationMessage(token),
		"access_token": token,
	})
}

// Complete handles POST /bookings/:id/complete. It ends the session and
// invalidates its token; confirmation happens in the UI before this call.
func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	b, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "booking not found")
		return
	}
	if b.Status != models.BookingStatusActive {
		response.Conflict(c, "booking is not active")
		return
	}
	token, err := h.store.TokenForBooking(c.Request.Context(), b.ID)
	if err != nil {
		h.logger.Warn("session lookup failed", zap.Error(err), zap.String("booking_id", b.ID.String()))
	}
	if token != "" {
		if err := h.store.Delete(c.Request.Context(), token); err != nil {
			h.logger.Warn("delete session failed", zap.Error(err))
		}
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), b.ID, models.BookingStatusCompleted); err != nil {
		response.Internal(c, "failed to complete booking")
		return
	}
	response.NoContent(c)
}

// CalendarToday handles GET /calendar/today (kiosk, unauthenticated).
func (h *Handler) CalendarToday(c *gin.Context) {
	cfg, err := h.settingsRepo.Get(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load settings")
		return
	}
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	list, err := h.repo.ListBetween(c.Request.Context(), dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		response.Internal(c, "failed to load bookings")
		return
	}
	response.OK(c, BuildCalendarDay(now, cfg, list))
}

// WalkIn handles POST /bookings/walk-in (kiosk, unauthenticated).
func (h *Handler) WalkIn(c *gin.Context) {
	var req WalkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cfg, err := h.settingsRepo.Get(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load settings")
		return
	}
	startsAt := req.StartsAt
	if startsAt.IsZero() {
		startsAt = time.Now()
	}
	endsAt := startsAt.Add(time.Duration(cfg.SlotMinutes) * time.Minute)

	overlapping, err := h.repo.ListBetween(c.Request.Context(), startsAt, endsAt)
	if err != nil {
		response.Internal(c, "failed to check availability")
		return
	}
	if len(overlapping) > 0 {
		response.Conflict(c, "slot is not available")
		return
	}

	b := &models.Booking{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Service:       req.Service,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Status:        models.BookingStatusScheduled,
		WalkIn:        true,
		Notes:         req.Notes,
	}
	if err := h.repo.Create(c.Request.Context(), b); err != nil {
		h.logger.Error("create walk-in failed", zap.Error(err))
		response.Internal(c, "failed to create booking")
		return
	}
	response.Created(c, b)
}

// defaultModeForService seeds the session display mode from the booked
// service when the service name is itself a display mode (course, webinar).
func defaultModeForService(service string) studio.DisplayMode {
	if mode, ok := studio.ParseDisplayMode(service); ok {
		return mode
	}
	return studio.ModePodcast
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b)[:43], nil
}
