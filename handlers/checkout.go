package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"connectify/models"
	"connectify/services/booking"
	"connectify/services/payment"
	"connectify/utils"
)

// CreateCheckoutSession opens a Stripe Checkout Session for a chosen slot.
func CreateCheckoutSession(c *gin.Context) {
	var req models.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := StripeSvc.CreateCheckoutSession(req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreatePayrexxGateway opens a Payrexx hosted payment page for a chosen
// slot.
func CreatePayrexxGateway(c *gin.Context) {
	var req models.CreateGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := PayrexxSvc.CreateGateway(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InitiateAdhocSession opens checkout for a session starting after the
// preparation time.
func InitiateAdhocSession(c *gin.Context) {
	var req models.AdhocSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := AdhocSvc.InitiateSession(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func respondPaymentError(c *gin.Context, err error) {
	var ve *booking.ValidationError
	var nt *booking.NoMatchingPriceTierError
	var pe *payment.ProviderAPIError
	switch {
	case errors.As(err, &ve), errors.As(err, &nt):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, payment.ErrAdhocDisabled):
		utils.JSONError(c, http.StatusServiceUnavailable, err.Error(), "")
	case errors.Is(err, payment.ErrSlotUnavailable):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.As(err, &pe):
		utils.JSONError(c, http.StatusBadGateway, "payment provider error", pe.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "payment operation failed", err.Error())
	}
}
