package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	bookingRepo "adwuma/database/repository/booking"
	identityRepo "adwuma/database/repository/identity"
	"adwuma/models"
	"adwuma/services/booking"
	"adwuma/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// respondBookingError maps domain errors onto HTTP responses. Domain
// violations get a descriptive 4xx; infrastructure failures fail loudly.
func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	var invalid *booking.InvalidStateTransitionError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusConflict, gin.H{
			"error":         fmt.Sprintf("booking is not ready for this operation, current status: %s", invalid.Current),
			"currentStatus": invalid.Current,
			"attempted":     invalid.Attempted,
		})
		return
	}
	var notEligible *booking.NotEligibleForConfirmationError
	if errors.As(err, &notEligible) {
		c.JSON(http.StatusConflict, gin.H{"error": notEligible.Error()})
		return
	}
	var unauthorized *booking.UnauthorizedActorError
	if errors.As(err, &unauthorized) {
		c.JSON(http.StatusForbidden, gin.H{"error": unauthorized.Error()})
		return
	}
	var captureFailed *booking.PaymentCaptureError
	if errors.As(err, &captureFailed) {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": captureFailed.Error()})
		return
	}
	if errors.Is(err, booking.ErrPersistenceConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if errors.Is(err, identityRepo.ErrRecipientNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.Logger.Error("booking operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error, please try again later"})
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Svc.CreateBooking(c.Request.Context(), input, time.Now())
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// AcceptBooking handles POST /api/bookings/:id/accept.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	providerID := c.GetString("actorID")
	b, err := h.Svc.AcceptBooking(c.Request.Context(), c.Param("id"), providerID, time.Now())
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// CapturePayment handles POST /api/bookings/:id/pay.
func (h *BookingHandler) CapturePayment(c *gin.Context) {
	var input struct {
		Method  string            `json:"method"`
		Details map[string]string `json:"details"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Svc.CapturePayment(c.Request.Context(), c.Param("id"), input.Method, input.Details, time.Now())
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// MarkServiceCompleted handles POST /api/bookings/:id/complete.
func (h *BookingHandler) MarkServiceCompleted(c *gin.Context) {
	var input struct {
		RequiresConfirmation bool `json:"requiresConfirmation"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Svc.MarkServiceCompleted(c.Request.Context(), c.Param("id"), input.RequiresConfirmation, time.Now())
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// ConfirmByClient handles POST /api/bookings/:id/confirm.
func (h *BookingHandler) ConfirmByClient(c *gin.Context) {
	clientID := c.GetString("actorID")
	b, err := h.Svc.ConfirmByClient(c.Request.Context(), c.Param("id"), clientID, time.Now())
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	actor := models.Recipient{
		Kind: models.RecipientKind(c.GetString("actorRole")),
		ID:   c.GetString("actorID"),
	}
	b, err := h.Svc.CancelBooking(c.Request.Context(), c.Param("id"), input.Reason, actor, time.Now())
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// ReleaseEscrow handles POST /api/bookings/:id/release.
func (h *BookingHandler) ReleaseEscrow(c *gin.Context) {
	b, err := h.Svc.ReleaseEscrow(c.Request.Context(), c.Param("id"), time.Now())
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// RunSweep handles POST /api/internal/sweep, invoked by an external scheduler
// in addition to the built-in periodic task.
func (h *BookingHandler) RunSweep(c *gin.Context) {
	summary, err := h.Svc.RunAutoConfirmSweep(c.Request.Context(), time.Now())
	if err != nil {
		h.Logger.Error("sweep endpoint failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"checkedCount":   summary.CheckedCount,
		"confirmedCount": summary.ConfirmedCount,
	})
}
