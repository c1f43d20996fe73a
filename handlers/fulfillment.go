package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"connectify/models"
	"connectify/services/booking"
	"connectify/utils"
)

// FulfillBooking materializes a paid booking as a calendar event. The route
// is guarded by the shared-secret middleware; callers are our own webhook
// adapters or operators replaying from the audit trail.
func FulfillBooking(c *gin.Context) {
	var req models.FulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := FulfillmentSvc.Fulfill(c.Request.Context(), req)
	if err != nil {
		var ve *booking.ValidationError
		if errors.As(err, &ve) {
			utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "fulfillment failed", err.Error())
		return
	}

	switch result.Outcome {
	case models.FulfillmentCreated:
		c.JSON(http.StatusCreated, result)
	case models.FulfillmentAlreadyFulfilled:
		c.JSON(http.StatusOK, result)
	case models.FulfillmentConflict:
		c.JSON(http.StatusConflict, result)
	default:
		c.JSON(http.StatusInternalServerError, result)
	}
}

// ListFulfillments returns the most recent fulfillment audit records.
// Admin-guarded.
func ListFulfillments(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	records, err := FulfillmentDB.ListRecent(c.Request.Context(), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list fulfillments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetFulfillment returns the audit record for one reference id.
// Admin-guarded.
func GetFulfillment(c *gin.Context) {
	referenceID := c.Param("referenceID")

	record, err := FulfillmentDB.GetByReferenceID(c.Request.Context(), referenceID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch fulfillment", err.Error())
		return
	}
	if record == nil {
		utils.JSONError(c, http.StatusNotFound, "no fulfillment record", "")
		return
	}
	c.JSON(http.StatusOK, record)
}
