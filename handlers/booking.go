package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"connectify/models"
	"connectify/services/booking"
	"connectify/services/gcal"
	"connectify/utils"
)

// BookSlot books a calendar slot directly, without going through payment.
// Intended for operator use; the route is admin-guarded.
func BookSlot(c *gin.Context) {
	var input struct {
		StartTime   string `json:"start_time" binding:"required"`
		EndTime     string `json:"end_time" binding:"required"`
		Summary     string `json:"summary"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	start, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_time", "expected RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, input.EndTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end_time", "expected RFC3339")
		return
	}

	referenceID := "manual-" + uuid.New().String()
	event, err := BookingSvc.Book(c.Request.Context(),
		models.TimeInterval{Start: start, End: end},
		input.Summary, input.Description, referenceID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event, "reference_id": referenceID})
}

// CancelBooking marks an event cancelled, keeping it on the calendar.
func CancelBooking(c *gin.Context) {
	eventID := c.Param("eventID")
	notify := c.DefaultQuery("notify", "true") == "true"

	if err := BookingSvc.Cancel(c.Request.Context(), eventID, notify); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "event_id": eventID})
}

// DeleteBooking removes an event entirely.
func DeleteBooking(c *gin.Context) {
	eventID := c.Param("eventID")
	notify := c.DefaultQuery("notify", "true") == "true"

	if err := BookingSvc.Delete(c.Request.Context(), eventID, notify); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "event_id": eventID})
}

// ListBookedEvents returns calendar events within a window.
func ListBookedEvents(c *gin.Context) {
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
	includeCancelled := c.DefaultQuery("include_cancelled", "false") == "true"

	events, err := BookingSvc.ListBooked(c.Request.Context(), start, end, includeCancelled)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func respondBookingError(c *gin.Context, err error) {
	var ve *booking.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, booking.ErrConflict):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, gcal.ErrEventNotFound):
		utils.JSONError(c, http.StatusNotFound, "event not found", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "calendar operation failed", err.Error())
	}
}
