package booking

import (
	"context"
	"time"

	"connectify/models"
	"connectify/services/gcal"
)

// BookingService turns availability queries and slot picks into calendar
// reads and writes. All state lives in the remote calendar; the service is
// stateless and safe for concurrent use.
type BookingService interface {
	GetAvailableSlots(ctx context.Context, windowStart, windowEnd time.Time, durationMinutes int) ([]models.AvailableSlot, error)
	Book(ctx context.Context, interval models.TimeInterval, summary, description, referenceID string) (models.CalendarEvent, error)
	Cancel(ctx context.Context, eventID string, notifyAttendees bool) error
	Delete(ctx context.Context, eventID string, notifyAttendees bool) error
	ListBooked(ctx context.Context, windowStart, windowEnd time.Time, includeCancelled bool) ([]models.CalendarEvent, error)
}

// DefaultBookingService implements BookingService against a CalendarGateway.
type DefaultBookingService struct {
	Gateway    gcal.CalendarGateway
	CalendarID string
	Tiers      []models.PriceTier
	Settings   AvailabilitySettings

	// Clock is overridable in tests; nil means time.Now.
	Clock func() time.Time
}

// AvailabilitySettings are the business-hour constraints applied to slot
// computation.
type AvailabilitySettings struct {
	Location     *time.Location
	WorkStartMin int
	WorkEndMin   int
	WorkingDays  map[time.Weekday]bool
	Step         time.Duration
	BufferBefore time.Duration
	BufferAfter  time.Duration
	Preparation  time.Duration
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
