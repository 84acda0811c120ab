package handlers

import (
	"errors"
	"net/http"

	"slotwise/models"
	"slotwise/services/availability"
	"slotwise/services/booking"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking creation and cancellation.
type BookingHandler struct {
	Engine booking.BookingEngine
	Logger *zap.Logger
}

func NewBookingHandler(engine booking.BookingEngine, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Logger: logger}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	confirmation, err := h.Engine.Reserve(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrConfigNotFound):
			utils.JSONError(c, http.StatusNotFound, "host not bookable", "no scheduling configuration for this host")
		case errors.Is(err, availability.ErrConfigInactive):
			utils.JSONError(c, http.StatusForbidden, "host not bookable", "scheduling is currently disabled for this host")
		case errors.Is(err, booking.ErrInvalidWindow):
			utils.JSONError(c, http.StatusBadRequest, "invalid booking window", err.Error())
		case errors.Is(err, booking.ErrSlotTaken):
			utils.JSONError(c, http.StatusConflict, "slot taken", "the requested window is no longer available; refresh availability")
		default:
			h.Logger.Error("booking failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "booking failed", "please try again later")
		}
		return
	}

	c.JSON(http.StatusCreated, confirmation)
}

// CancelBooking handles POST /api/bookings/cancel/:token.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "cancellation token is required")
		return
	}

	cancelled, err := h.Engine.CancelByToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", "unknown cancellation token")
			return
		}
		h.Logger.Error("cancellation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "cancellation failed", "please try again later")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookingId":   cancelled.ID,
		"status":      cancelled.Status,
		"cancelledAt": cancelled.CancelledAt,
	})
}
