package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectify/models"
)

// fakeCalendarGateway is an in-memory CalendarGateway. Confirmed events
// count as busy time.
type fakeCalendarGateway struct {
	events     []models.CalendarEvent
	nextID     int
	failCreate error
}

func (f *fakeCalendarGateway) GetBusyTimes(ctx context.Context, calendarID string, start, end time.Time) ([]models.TimeInterval, error) {
	var busy []models.TimeInterval
	window := models.TimeInterval{Start: start, End: end}
	for _, ev := range f.events {
		if ev.Status == models.EventStatusCancelled {
			continue
		}
		if ev.Interval.Overlaps(window) {
			busy = append(busy, ev.Interval)
		}
	}
	return busy, nil
}

func (f *fakeCalendarGateway) CreateEvent(ctx context.Context, calendarID string, event models.CalendarEvent, notifyAttendees bool) (models.CalendarEvent, error) {
	if f.failCreate != nil {
		return models.CalendarEvent{}, f.failCreate
	}
	f.nextID++
	event.ID = fmt.Sprintf("evt-%d", f.nextID)
	if event.Status == "" {
		event.Status = models.EventStatusConfirmed
	}
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeCalendarGateway) FindEventByReference(ctx context.Context, calendarID, referenceID string) (*models.CalendarEvent, error) {
	var cancelled *models.CalendarEvent
	for i := range f.events {
		if f.events[i].ReferenceID != referenceID {
			continue
		}
		if f.events[i].Status != models.EventStatusCancelled {
			return &f.events[i], nil
		}
		if cancelled == nil {
			cancelled = &f.events[i]
		}
	}
	return cancelled, nil
}

func (f *fakeCalendarGateway) PatchEventStatus(ctx context.Context, calendarID, eventID, status string, notifyAttendees bool) error {
	for i := range f.events {
		if f.events[i].ID == eventID {
			f.events[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("event %s not found", eventID)
}

func (f *fakeCalendarGateway) DeleteEvent(ctx context.Context, calendarID, eventID string, notifyAttendees bool) error {
	for i := range f.events {
		if f.events[i].ID == eventID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	// Remote treats deleting a missing event as success.
	return nil
}

func (f *fakeCalendarGateway) ListEvents(ctx context.Context, calendarID string, start, end time.Time, includeCancelled bool) ([]models.CalendarEvent, error) {
	var out []models.CalendarEvent
	window := models.TimeInterval{Start: start, End: end}
	for _, ev := range f.events {
		if !includeCancelled && ev.Status == models.EventStatusCancelled {
			continue
		}
		if ev.Interval.Overlaps(window) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func testService(gw *fakeCalendarGateway) *DefaultBookingService {
	return &DefaultBookingService{
		Gateway:    gw,
		CalendarID: "primary",
		Tiers: []models.PriceTier{
			{DurationMinutes: 60, UnitAmount: 9000, Currency: "chf", ProductName: "Full Session"},
		},
		Settings: AvailabilitySettings{
			Location:     time.UTC,
			WorkStartMin: 9 * 60,
			WorkEndMin:   17 * 60,
			WorkingDays:  ParseWorkingDays([]string{"Mon", "Tue", "Wed", "Thu", "Fri"}),
			Step:         15 * time.Minute,
		},
		Clock: func() time.Time { return monday },
	}
}

func TestBookCreatesConfirmedEvent(t *testing.T) {
	gw := &fakeCalendarGateway{}
	svc := testService(gw)

	interval := models.TimeInterval{
		Start: monday.Add(10 * time.Hour),
		End:   monday.Add(11 * time.Hour),
	}
	event, err := svc.Book(context.Background(), interval, "Session", "notes", "ref-1")
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.EventStatusConfirmed, event.Status)
	assert.Equal(t, "ref-1", event.ReferenceID)
	assert.Len(t, gw.events, 1)
}

func TestBookConflictCreatesNothing(t *testing.T) {
	gw := &fakeCalendarGateway{}
	svc := testService(gw)

	interval := models.TimeInterval{
		Start: monday.Add(10 * time.Hour),
		End:   monday.Add(11 * time.Hour),
	}
	_, err := svc.Book(context.Background(), interval, "First", "", "ref-1")
	require.NoError(t, err)

	overlapping := models.TimeInterval{
		Start: monday.Add(10*time.Hour + 30*time.Minute),
		End:   monday.Add(11*time.Hour + 30*time.Minute),
	}
	_, err = svc.Book(context.Background(), overlapping, "Second", "", "ref-2")
	require.ErrorIs(t, err, ErrConflict)
	assert.Len(t, gw.events, 1)
}

func TestBookAdjacentSlotsAllowed(t *testing.T) {
	gw := &fakeCalendarGateway{}
	svc := testService(gw)

	first := models.TimeInterval{
		Start: monday.Add(10 * time.Hour),
		End:   monday.Add(11 * time.Hour),
	}
	_, err := svc.Book(context.Background(), first, "First", "", "ref-1")
	require.NoError(t, err)

	// Back to back with the first; half-open intervals do not collide.
	second := models.TimeInterval{
		Start: monday.Add(11 * time.Hour),
		End:   monday.Add(12 * time.Hour),
	}
	_, err = svc.Book(context.Background(), second, "Second", "", "ref-2")
	require.NoError(t, err)
	assert.Len(t, gw.events, 2)
}

func TestBookRejectsInvalidInterval(t *testing.T) {
	svc := testService(&fakeCalendarGateway{})

	bad := models.TimeInterval{
		Start: monday.Add(11 * time.Hour),
		End:   monday.Add(10 * time.Hour),
	}
	_, err := svc.Book(context.Background(), bad, "Bad", "", "ref-1")

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBookIgnoresCancelledEvents(t *testing.T) {
	gw := &fakeCalendarGateway{}
	svc := testService(gw)

	interval := models.TimeInterval{
		Start: monday.Add(10 * time.Hour),
		End:   monday.Add(11 * time.Hour),
	}
	event, err := svc.Book(context.Background(), interval, "First", "", "ref-1")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), event.ID, false))

	// The cancelled event no longer blocks the slot.
	_, err = svc.Book(context.Background(), interval, "Second", "", "ref-2")
	require.NoError(t, err)
}

func TestGetAvailableSlotsPricesByTier(t *testing.T) {
	gw := &fakeCalendarGateway{}
	svc := testService(gw)

	slots, err := svc.GetAvailableSlots(context.Background(),
		monday.Add(9*time.Hour), monday.Add(17*time.Hour), 60)
	require.NoError(t, err)
	require.Len(t, slots, 29)

	for _, s := range slots {
		assert.Equal(t, 60, s.DurationMinutes)
		assert.Equal(t, int64(9000), s.Price.UnitAmount)
	}
}

func TestGetAvailableSlotsExcludesBookedTime(t *testing.T) {
	gw := &fakeCalendarGateway{}
	svc := testService(gw)

	booked := models.TimeInterval{
		Start: monday.Add(10 * time.Hour),
		End:   monday.Add(11 * time.Hour),
	}
	_, err := svc.Book(context.Background(), booked, "Busy", "", "ref-1")
	require.NoError(t, err)

	slots, err := svc.GetAvailableSlots(context.Background(),
		monday.Add(9*time.Hour), monday.Add(17*time.Hour), 60)
	require.NoError(t, err)

	bookedStart := booked.Start.UTC().Format(time.RFC3339)
	for _, s := range slots {
		assert.NotEqual(t, bookedStart, s.Start)
	}
}

func TestGetAvailableSlotsUnknownDuration(t *testing.T) {
	svc := testService(&fakeCalendarGateway{})

	_, err := svc.GetAvailableSlots(context.Background(),
		monday.Add(9*time.Hour), monday.Add(17*time.Hour), 45)

	var nt *NoMatchingPriceTierError
	assert.ErrorAs(t, err, &nt)
}

func TestGetAvailableSlotsAppliesPreparationTime(t *testing.T) {
	gw := &fakeCalendarGateway{}
	svc := testService(gw)
	svc.Clock = func() time.Time { return monday.Add(9 * time.Hour) }
	svc.Settings.Preparation = 2 * time.Hour

	slots, err := svc.GetAvailableSlots(context.Background(),
		monday.Add(9*time.Hour), monday.Add(17*time.Hour), 60)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	earliest, err := time.Parse(time.RFC3339, slots[0].Start)
	require.NoError(t, err)
	assert.False(t, earliest.Before(monday.Add(11*time.Hour)))
}
