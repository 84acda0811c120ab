package handlers

import (
	"errors"
	"net/http"
	"time"

	"slotwise/services/availability"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes the slot-listing operation.
type AvailabilityHandler struct {
	Svc *availability.Service
}

func NewAvailabilityHandler(svc *availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

// GetDayAvailability handles GET /api/availability/:hostID?date=YYYY-MM-DD.
// A missing date defaults to today (UTC).
func (h *AvailabilityHandler) GetDayAvailability(c *gin.Context) {
	hostID := c.Param("hostID")
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format(availability.DateLayout)
	} else if _, err := time.Parse(availability.DateLayout, date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected format YYYY-MM-DD")
		return
	}

	result, err := h.Svc.ForDay(c.Request.Context(), hostID, date, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrConfigNotFound):
			utils.JSONError(c, http.StatusNotFound, "host not bookable", "no scheduling configuration for this host")
		case errors.Is(err, availability.ErrConfigInactive):
			utils.JSONError(c, http.StatusForbidden, "host not bookable", "scheduling is currently disabled for this host")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
