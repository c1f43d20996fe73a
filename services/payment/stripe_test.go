package payment

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	"connectify/config"
	"connectify/models"
)

const webhookSecret = "whsec_test_secret"

func signedHeader(payload []byte) string {
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, webhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func stripeTestConfig(t *testing.T) {
	prev := config.AppConfig
	t.Cleanup(func() { config.AppConfig = prev })
	config.AppConfig.StripeWebhookSecret = webhookSecret
}

func sessionEventPayload(paymentStatus, ffType, ffData string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2023-10-16",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"payment_status": %q,
				"client_reference_id": "ref-1",
				"metadata": {"ff_type": %q, "ff_data_json": %q}
			}
		}
	}`, paymentStatus, ffType, ffData))
}

func TestParseCompletedSessionPaid(t *testing.T) {
	stripeTestConfig(t)
	svc := &DefaultStripeService{}

	ffData := `{"start_time":"2025-06-04T10:00:00Z","end_time":"2025-06-04T11:00:00Z","summary":"Paid Session"}`
	payload := sessionEventPayload("paid", models.FulfillmentKindCalendarBooking, ffData)

	req, err := svc.ParseCompletedSession(payload, signedHeader(payload))
	require.NoError(t, err)
	require.NotNil(t, req)

	assert.Equal(t, models.FulfillmentKindCalendarBooking, req.Kind)
	assert.Equal(t, "ref-1", req.ReferenceID)
	assert.Equal(t, "2025-06-04T10:00:00Z", req.StartTime)
	assert.Equal(t, "Paid Session", req.Summary)
}

func TestParseCompletedSessionBadSignature(t *testing.T) {
	stripeTestConfig(t)
	svc := &DefaultStripeService{}

	payload := sessionEventPayload("paid", models.FulfillmentKindCalendarBooking, "{}")
	_, err := svc.ParseCompletedSession(payload, "t=1,v1=deadbeef")

	assert.ErrorIs(t, err, ErrSignature)
}

func TestParseCompletedSessionUnpaidIgnored(t *testing.T) {
	stripeTestConfig(t)
	svc := &DefaultStripeService{}

	payload := sessionEventPayload("unpaid", models.FulfillmentKindCalendarBooking, "{}")
	req, err := svc.ParseCompletedSession(payload, signedHeader(payload))

	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestParseCompletedSessionOtherEventIgnored(t *testing.T) {
	stripeTestConfig(t)
	svc := &DefaultStripeService{}

	payload := []byte(`{"id":"evt_2","object":"event","api_version":"2023-10-16","type":"invoice.paid","data":{"object":{}}}`)
	req, err := svc.ParseCompletedSession(payload, signedHeader(payload))

	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestParseCompletedSessionMissingMetadataIgnored(t *testing.T) {
	stripeTestConfig(t)
	svc := &DefaultStripeService{}

	payload := sessionEventPayload("paid", "", "")
	req, err := svc.ParseCompletedSession(payload, signedHeader(payload))

	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestCreateCheckoutSessionValidation(t *testing.T) {
	stripeTestConfig(t)
	config.AppConfig.PriceTiers = []models.PriceTier{{DurationMinutes: 60, UnitAmount: 9000}}
	svc := NewDefaultStripeService(config.AppConfig.PriceTiers)

	_, err := svc.CreateCheckoutSession(models.CreateCheckoutSessionRequest{
		FulfillmentType: models.FulfillmentKindCalendarBooking,
		FulfillmentData: map[string]interface{}{
			"start_time": "garbage",
			"end_time":   "2025-06-04T11:00:00Z",
		},
	})
	assert.Error(t, err)

	_, err = svc.CreateCheckoutSession(models.CreateCheckoutSessionRequest{
		FulfillmentType: models.FulfillmentKindCalendarBooking,
		FulfillmentData: map[string]interface{}{
			"start_time": "2025-06-04T11:00:00Z",
			"end_time":   "2025-06-04T10:00:00Z",
		},
	})
	assert.Error(t, err)

	// 45 minutes has no tier.
	_, err = svc.CreateCheckoutSession(models.CreateCheckoutSessionRequest{
		FulfillmentType: models.FulfillmentKindCalendarBooking,
		FulfillmentData: map[string]interface{}{
			"start_time": "2025-06-04T10:00:00Z",
			"end_time":   "2025-06-04T10:45:00Z",
		},
	})
	assert.Error(t, err)
}
