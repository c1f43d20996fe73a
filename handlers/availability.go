package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"connectify/services/booking"
	"connectify/utils"
)

// GetAvailableSlots returns bookable slots for a time window and duration.
// Query params: start_time, end_time (RFC3339), duration_minutes.
func GetAvailableSlots(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_time", "expected RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_time"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end_time", "expected RFC3339")
		return
	}
	durationMinutes, err := strconv.Atoi(c.Query("duration_minutes"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid duration_minutes", "expected integer")
		return
	}

	slots, err := BookingSvc.GetAvailableSlots(c.Request.Context(), start, end, durationMinutes)
	if err != nil {
		var ve *booking.ValidationError
		var nt *booking.NoMatchingPriceTierError
		switch {
		case errors.As(err, &ve), errors.As(err, &nt):
			utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
