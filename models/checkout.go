package models

// CreateCheckoutSessionRequest is what the frontend sends to start a Stripe
// checkout for a slot the user picked. FulfillmentData is forwarded into the
// session metadata and comes back on the webhook.
type CreateCheckoutSessionRequest struct {
	FulfillmentType   string                 `json:"fulfillment_type" binding:"required"`
	FulfillmentData   map[string]interface{} `json:"fulfillment_data" binding:"required"`
	ClientReferenceID string                 `json:"client_reference_id,omitempty"`
}

type CreateCheckoutSessionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// CreateGatewayRequest starts a Payrexx payment gateway for a picked slot.
// Payrexx cannot carry arbitrary metadata, so the fulfillment payload is
// parked in Redis under the gateway reference until the webhook arrives.
type CreateGatewayRequest struct {
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Summary     string `json:"summary" binding:"required"`
	Description string `json:"description,omitempty"`
	UserEmail   string `json:"user_email,omitempty"`
}

type CreateGatewayResponse struct {
	URL         string `json:"url"`
	ReferenceID string `json:"reference_id"`
}

// AdhocSessionRequest starts a "right now" session: the effective interval is
// now + preparation time, for the requested duration.
type AdhocSessionRequest struct {
	DurationMinutes int `json:"duration_minutes" binding:"required"`
}

type AdhocSessionResponse struct {
	CheckoutURL        string `json:"stripe_checkout_url"`
	SessionID          string `json:"stripe_session_id"`
	RoomName           string `json:"room_name"`
	EffectiveStartTime string `json:"effective_start_time"`
	EffectiveEndTime   string `json:"effective_end_time"`
}
