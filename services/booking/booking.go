package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"connectify/models"
	"connectify/utils"
)

// GetAvailableSlots computes bookable slots for the window, priced by the
// tier matching the requested duration. Slots are recomputed from a fresh
// busy-time fetch on every call and never cached.
func (s *DefaultBookingService) GetAvailableSlots(ctx context.Context, windowStart, windowEnd time.Time, durationMinutes int) ([]models.AvailableSlot, error) {
	if durationMinutes <= 0 {
		return nil, NewValidationError("duration_minutes must be positive")
	}
	if !windowStart.Before(windowEnd) {
		return nil, NewValidationError("window end must be after window start")
	}

	tier, err := MatchPriceTier(s.Tiers, durationMinutes)
	if err != nil {
		return nil, err
	}

	now := s.now()

	busy, err := s.Gateway.GetBusyTimes(ctx, s.CalendarID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	intervals := ComputeSlots(SlotParams{
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		Now:          now.Add(s.Settings.Preparation),
		BusyPeriods:  busy,
		SlotDuration: time.Duration(durationMinutes) * time.Minute,
		Step:         s.Settings.Step,
		Location:     s.Settings.Location,
		WorkStartMin: s.Settings.WorkStartMin,
		WorkEndMin:   s.Settings.WorkEndMin,
		WorkingDays:  s.Settings.WorkingDays,
		BufferBefore: s.Settings.BufferBefore,
		BufferAfter:  s.Settings.BufferAfter,
	})

	slots := make([]models.AvailableSlot, 0, len(intervals))
	for _, iv := range intervals {
		slots = append(slots, models.AvailableSlot{
			Start:           iv.Start.UTC().Format(time.RFC3339),
			End:             iv.End.UTC().Format(time.RFC3339),
			DurationMinutes: durationMinutes,
			Price:           tier,
		})
	}
	return slots, nil
}

// Book commits a client-chosen slot. Busy periods are re-fetched for the
// interval immediately before the write and the same strict overlap test the
// slot calculator uses is re-run; an overlap yields ErrConflict and no event
// is created. There is no lock around recheck-then-write: the remote
// calendar cannot be locked, and a narrow race between two passing rechecks
// remains. Callers that need uniqueness supply a reference id and go through
// the fulfillment path, which resolves retries idempotently.
func (s *DefaultBookingService) Book(ctx context.Context, interval models.TimeInterval, summary, description, referenceID string) (models.CalendarEvent, error) {
	logger := utils.GetLogger()

	if !interval.Valid() {
		return models.CalendarEvent{}, NewValidationError("end time must be after start time")
	}

	busy, err := s.Gateway.GetBusyTimes(ctx, s.CalendarID, interval.Start, interval.End)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	for _, b := range busy {
		if !b.Valid() {
			continue
		}
		if interval.Overlaps(b) {
			logger.Info("booking conflict on recheck",
				zap.Time("start", interval.Start), zap.Time("end", interval.End))
			return models.CalendarEvent{}, ErrConflict
		}
	}

	created, err := s.Gateway.CreateEvent(ctx, s.CalendarID, models.CalendarEvent{
		Interval:    interval,
		Summary:     summary,
		Description: description,
		Status:      models.EventStatusConfirmed,
		ReferenceID: referenceID,
	}, true)
	if err != nil {
		return models.CalendarEvent{}, err
	}

	logger.Info("booked calendar event",
		zap.String("eventID", created.ID),
		zap.Time("start", interval.Start))
	return created, nil
}

// Cancel marks the event cancelled without removing it.
func (s *DefaultBookingService) Cancel(ctx context.Context, eventID string, notifyAttendees bool) error {
	return s.Gateway.PatchEventStatus(ctx, s.CalendarID, eventID, models.EventStatusCancelled, notifyAttendees)
}

// Delete removes the event from the calendar entirely.
func (s *DefaultBookingService) Delete(ctx context.Context, eventID string, notifyAttendees bool) error {
	return s.Gateway.DeleteEvent(ctx, s.CalendarID, eventID, notifyAttendees)
}

// ListBooked returns events in the window, optionally including cancelled
// ones.
func (s *DefaultBookingService) ListBooked(ctx context.Context, windowStart, windowEnd time.Time, includeCancelled bool) ([]models.CalendarEvent, error) {
	if !windowStart.Before(windowEnd) {
		return nil, NewValidationError("window end must be after window start")
	}
	return s.Gateway.ListEvents(ctx, s.CalendarID, windowStart, windowEnd, includeCancelled)
}
