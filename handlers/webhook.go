package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"connectify/models"
	"connectify/services/payment"
	"connectify/utils"
)

// StripeWebhook receives Stripe events. A 2xx acknowledges the delivery and
// stops retries, so every terminal outcome (created, already fulfilled,
// conflict) must acknowledge; only transient failures return 5xx to make
// Stripe redeliver.
func StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read payload", err.Error())
		return
	}

	req, err := StripeSvc.ParseCompletedSession(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrSignature) {
			utils.JSONError(c, http.StatusBadRequest, "invalid signature", "")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if req == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	dispatchFulfillment(c, "stripe", *req)
}

// PayrexxWebhook receives Payrexx transaction webhooks. Same
// acknowledgement contract as the Stripe handler.
func PayrexxWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read payload", err.Error())
		return
	}

	req, err := PayrexxSvc.ResolveWebhook(c.Request.Context(), payload)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if req == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	dispatchFulfillment(c, "payrexx", *req)
}

func dispatchFulfillment(c *gin.Context, provider string, req models.FulfillmentRequest) {
	logger := utils.GetLogger()

	result, err := FulfillmentSvc.Fulfill(c.Request.Context(), req)
	if err != nil {
		// Malformed fulfillment data in a paid session will not improve on
		// redelivery; acknowledge and leave it to the audit trail.
		logger.Error("webhook carried invalid fulfillment request",
			zap.String("provider", provider),
			zap.String("referenceID", req.ReferenceID),
			zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"received": true, "error": err.Error()})
		return
	}

	if result.Outcome == models.FulfillmentFailed {
		logger.Warn("fulfillment failed, requesting redelivery",
			zap.String("provider", provider),
			zap.String("referenceID", req.ReferenceID),
			zap.String("message", result.Message))
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
