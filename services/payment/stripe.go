package payment

import (
	"encoding/json"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"connectify/config"
	"connectify/models"
	"connectify/services/booking"
	"connectify/utils"
)

// StripeService creates Checkout Sessions that carry their fulfillment
// instructions in session metadata, and turns completed-session webhooks
// back into fulfillment requests. Stripe metadata is the only state between
// checkout and fulfillment; nothing is stored locally for the round trip.
type StripeService interface {
	CreateCheckoutSession(req models.CreateCheckoutSessionRequest) (models.CreateCheckoutSessionResponse, error)
	ParseCompletedSession(payload []byte, signatureHeader string) (*models.FulfillmentRequest, error)
}

type DefaultStripeService struct {
	Tiers []models.PriceTier
}

func NewDefaultStripeService(tiers []models.PriceTier) StripeService {
	return &DefaultStripeService{Tiers: tiers}
}

// checkoutFulfillmentData is the shape of the ff_data_json metadata value.
// It doubles as the wire format the fulfillment endpoint accepts, so the
// webhook can forward it unchanged.
type checkoutFulfillmentData struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	RoomName    string `json:"room_name,omitempty"`
}

// CreateCheckoutSession prices the requested slot by duration and opens a
// Stripe Checkout Session for it. The fulfillment kind and data ride along
// in metadata under ff_type and ff_data_json.
func (s *DefaultStripeService) CreateCheckoutSession(req models.CreateCheckoutSessionRequest) (models.CreateCheckoutSessionResponse, error) {
	logger := utils.GetLogger()

	dataJSON, err := json.Marshal(req.FulfillmentData)
	if err != nil {
		return models.CreateCheckoutSessionResponse{}, booking.NewValidationError("invalid fulfillment data: %v", err)
	}
	var data checkoutFulfillmentData
	if err := json.Unmarshal(dataJSON, &data); err != nil {
		return models.CreateCheckoutSessionResponse{}, booking.NewValidationError("invalid fulfillment data: %v", err)
	}

	start, err := time.Parse(time.RFC3339, data.StartTime)
	if err != nil {
		return models.CreateCheckoutSessionResponse{}, booking.NewValidationError("invalid start_time: %v", err)
	}
	end, err := time.Parse(time.RFC3339, data.EndTime)
	if err != nil {
		return models.CreateCheckoutSessionResponse{}, booking.NewValidationError("invalid end_time: %v", err)
	}
	if !end.After(start) {
		return models.CreateCheckoutSessionResponse{}, booking.NewValidationError("end time must be after start time")
	}

	durationMinutes := int(end.Sub(start) / time.Minute)
	tier, err := booking.MatchPriceTier(s.Tiers, durationMinutes)
	if err != nil {
		return models.CreateCheckoutSessionResponse{}, err
	}

	currency := tier.Currency
	if currency == "" {
		currency = config.AppConfig.DefaultCurrency
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(config.AppConfig.StripeSuccessURL),
		CancelURL:  stripe.String(config.AppConfig.StripeCancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(tier.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(tier.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ClientReferenceID)
	}
	params.AddMetadata("ff_type", req.FulfillmentType)
	params.AddMetadata("ff_data_json", string(dataJSON))

	sess, err := session.New(params)
	if err != nil {
		return models.CreateCheckoutSessionResponse{}, err
	}

	logger.Info("created stripe checkout session",
		zap.String("sessionID", sess.ID),
		zap.String("ffType", req.FulfillmentType),
		zap.Int("durationMinutes", durationMinutes))

	return models.CreateCheckoutSessionResponse{URL: sess.URL, SessionID: sess.ID}, nil
}

// ParseCompletedSession verifies the webhook signature and, for a paid
// checkout.session.completed event carrying fulfillment metadata, returns
// the fulfillment request it encodes. Other event types and unpaid sessions
// yield (nil, nil): acknowledged, nothing to fulfil.
func (s *DefaultStripeService) ParseCompletedSession(payload []byte, signatureHeader string) (*models.FulfillmentRequest, error) {
	logger := utils.GetLogger()

	event, err := webhook.ConstructEvent(payload, signatureHeader, config.AppConfig.StripeWebhookSecret)
	if err != nil {
		return nil, ErrSignature
	}

	if event.Type != "checkout.session.completed" {
		logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, booking.NewValidationError("malformed checkout session payload: %v", err)
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		logger.Info("checkout session completed but not paid",
			zap.String("sessionID", sess.ID),
			zap.String("paymentStatus", string(sess.PaymentStatus)))
		return nil, nil
	}

	ffType := sess.Metadata["ff_type"]
	ffData := sess.Metadata["ff_data_json"]
	if ffType == "" || ffData == "" {
		logger.Warn("paid session missing fulfillment metadata", zap.String("sessionID", sess.ID))
		return nil, nil
	}

	var data checkoutFulfillmentData
	if err := json.Unmarshal([]byte(ffData), &data); err != nil {
		return nil, booking.NewValidationError("malformed ff_data_json: %v", err)
	}

	referenceID := sess.ClientReferenceID
	if referenceID == "" {
		referenceID = sess.ID
	}

	return &models.FulfillmentRequest{
		Kind:        ffType,
		StartTime:   data.StartTime,
		EndTime:     data.EndTime,
		Summary:     data.Summary,
		Description: data.Description,
		ReferenceID: referenceID,
	}, nil
}
