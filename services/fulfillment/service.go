package fulfillment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	fulfillmentRepo "connectify/database/repository/fulfillment"
	"connectify/models"
	"connectify/services/booking"
	"connectify/utils"
)

// FulfillmentService turns a confirmed payment into a calendar event,
// exactly once per reference id. Callers may retry freely: the calendar is
// queried for the reference id before any write, so a redelivered webhook
// for an already-materialized payment acknowledges without a second event.
type FulfillmentService interface {
	Fulfill(ctx context.Context, req models.FulfillmentRequest) (models.FulfillmentResult, error)
}

// DefaultFulfillmentService implements FulfillmentService on top of the
// booking service and a Mongo audit trail.
type DefaultFulfillmentService struct {
	Booking    booking.BookingService
	Finder     ReferenceFinder
	CalendarID string
	Records    fulfillmentRepo.FulfillmentRecordRepository

	// EnqueueReminder schedules a reminder after a successful creation;
	// nil disables reminders.
	EnqueueReminder func(models.ReminderPayload) error
}

// ReferenceFinder locates a prior event carrying a reference id. It is the
// idempotency check; the audit records in Mongo are never consulted for it.
type ReferenceFinder interface {
	FindEventByReference(ctx context.Context, calendarID, referenceID string) (*models.CalendarEvent, error)
}

// Fulfill resolves one payment notification. The returned error is non-nil
// only for malformed requests; every processed request yields an outcome:
//
//	created            a new event was written
//	already_fulfilled  a confirmed event with this reference id exists
//	conflict           the paid slot is taken by something else (terminal)
//	failed             a transient upstream failure, safe to retry
func (s *DefaultFulfillmentService) Fulfill(ctx context.Context, req models.FulfillmentRequest) (models.FulfillmentResult, error) {
	logger := utils.GetLogger().With(zap.String("referenceID", req.ReferenceID))

	if err := s.validate(&req); err != nil {
		return models.FulfillmentResult{}, err
	}

	existing, err := s.Finder.FindEventByReference(ctx, s.CalendarID, req.ReferenceID)
	if err != nil {
		logger.Error("reference lookup failed", zap.Error(err))
		return s.record(ctx, req, models.FulfillmentResult{
			Outcome: models.FulfillmentFailed,
			Message: "reference lookup failed: " + err.Error(),
		}), nil
	}
	if existing != nil && existing.Status != models.EventStatusCancelled {
		logger.Info("fulfillment already satisfied", zap.String("eventID", existing.ID))
		return s.record(ctx, req, models.FulfillmentResult{
			Outcome: models.FulfillmentAlreadyFulfilled,
			EventID: existing.ID,
		}), nil
	}

	created, err := s.Booking.Book(ctx, req.Interval, req.Summary, req.Description, req.ReferenceID)
	switch {
	case errors.Is(err, booking.ErrConflict):
		logger.Warn("paid slot is no longer free",
			zap.Time("start", req.Interval.Start), zap.Time("end", req.Interval.End))
		return s.record(ctx, req, models.FulfillmentResult{
			Outcome: models.FulfillmentConflict,
			Message: "slot taken by a conflicting event",
		}), nil
	case err != nil:
		logger.Error("event creation failed", zap.Error(err))
		return s.record(ctx, req, models.FulfillmentResult{
			Outcome: models.FulfillmentFailed,
			Message: err.Error(),
		}), nil
	}

	logger.Info("fulfillment created event", zap.String("eventID", created.ID))

	if s.EnqueueReminder != nil {
		if err := s.EnqueueReminder(models.ReminderPayload{
			ReferenceID: req.ReferenceID,
			EventID:     created.ID,
			Summary:     req.Summary,
			StartTime:   req.Interval.Start,
		}); err != nil {
			logger.Warn("failed to enqueue reminder", zap.Error(err))
		}
	}

	return s.record(ctx, req, models.FulfillmentResult{
		Outcome: models.FulfillmentCreated,
		EventID: created.ID,
	}), nil
}

func (s *DefaultFulfillmentService) validate(req *models.FulfillmentRequest) error {
	switch req.Kind {
	case models.FulfillmentKindCalendarBooking, models.FulfillmentKindAdhocCalendarBooking:
	default:
		return booking.NewValidationError("unsupported fulfillment kind %q", req.Kind)
	}
	if req.ReferenceID == "" {
		return booking.NewValidationError("reference_id is required")
	}

	if req.Interval.Start.IsZero() {
		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return booking.NewValidationError("invalid start_time: %v", err)
		}
		end, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return booking.NewValidationError("invalid end_time: %v", err)
		}
		req.Interval = models.TimeInterval{Start: start, End: end}
	}
	if !req.Interval.Valid() {
		return booking.NewValidationError("end time must be after start time")
	}
	return nil
}

// record writes the audit trail entry. Failure to record never changes the
// outcome; the calendar already reflects the truth.
func (s *DefaultFulfillmentService) record(ctx context.Context, req models.FulfillmentRequest, result models.FulfillmentResult) models.FulfillmentResult {
	if s.Records == nil {
		return result
	}
	err := s.Records.Upsert(ctx, models.FulfillmentRecord{
		ReferenceID: req.ReferenceID,
		Kind:        req.Kind,
		Interval:    req.Interval,
		Summary:     req.Summary,
		Outcome:     result.Outcome,
		EventID:     result.EventID,
		Message:     result.Message,
	})
	if err != nil {
		utils.GetLogger().Warn("failed to persist fulfillment record",
			zap.String("referenceID", req.ReferenceID), zap.Error(err))
	}
	return result
}
