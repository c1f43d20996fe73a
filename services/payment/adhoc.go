package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"connectify/config"
	"connectify/models"
	"connectify/services/booking"
	"connectify/services/gcal"
	"connectify/utils"
)

// AdhocService starts paid sessions that begin right away, after the
// configured preparation time. The slot is checked against the calendar
// before checkout opens; the definitive conflict check still happens at
// fulfillment, like any other booking.
type AdhocService interface {
	InitiateSession(ctx context.Context, req models.AdhocSessionRequest) (models.AdhocSessionResponse, error)
}

type DefaultAdhocService struct {
	Gateway    gcal.CalendarGateway
	CalendarID string
	Stripe     StripeService

	// Clock is overridable in tests; nil means time.Now.
	Clock func() time.Time
}

func (s *DefaultAdhocService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// InitiateSession verifies the immediate slot is free, names a session
// room, and opens checkout for it.
func (s *DefaultAdhocService) InitiateSession(ctx context.Context, req models.AdhocSessionRequest) (models.AdhocSessionResponse, error) {
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if !cfg.AdhocEnabled {
		return models.AdhocSessionResponse{}, ErrAdhocDisabled
	}
	if req.DurationMinutes <= 0 {
		return models.AdhocSessionResponse{}, booking.NewValidationError("duration_minutes must be positive")
	}
	if _, err := booking.MatchPriceTier(cfg.PriceTiers, req.DurationMinutes); err != nil {
		return models.AdhocSessionResponse{}, err
	}

	start := s.now().Add(time.Duration(cfg.PreparationMinutes) * time.Minute).Truncate(time.Minute)
	interval := models.TimeInterval{
		Start: start,
		End:   start.Add(time.Duration(req.DurationMinutes) * time.Minute),
	}

	busy, err := s.Gateway.GetBusyTimes(ctx, s.CalendarID, interval.Start, interval.End)
	if err != nil {
		return models.AdhocSessionResponse{}, err
	}
	for _, b := range busy {
		if b.Valid() && interval.Overlaps(b) {
			return models.AdhocSessionResponse{}, ErrSlotUnavailable
		}
	}

	roomName := fmt.Sprintf("adhoc-%s", uuid.New().String())
	startStr := interval.Start.UTC().Format(time.RFC3339)
	endStr := interval.End.UTC().Format(time.RFC3339)

	checkout, err := s.Stripe.CreateCheckoutSession(models.CreateCheckoutSessionRequest{
		FulfillmentType: models.FulfillmentKindAdhocCalendarBooking,
		FulfillmentData: map[string]interface{}{
			"start_time":  startStr,
			"end_time":    endStr,
			"summary":     fmt.Sprintf("Adhoc Session (%d min)", req.DurationMinutes),
			"description": fmt.Sprintf("Adhoc session. Room: %s", roomName),
			"room_name":   roomName,
		},
		ClientReferenceID: roomName,
	})
	if err != nil {
		return models.AdhocSessionResponse{}, err
	}

	logger.Info("initiated adhoc session",
		zap.String("roomName", roomName),
		zap.Time("start", interval.Start),
		zap.Int("durationMinutes", req.DurationMinutes))

	return models.AdhocSessionResponse{
		CheckoutURL:        checkout.URL,
		SessionID:          checkout.SessionID,
		RoomName:           roomName,
		EffectiveStartTime: startStr,
		EffectiveEndTime:   endStr,
	}, nil
}
