package gcal

import (
	"context"
	"time"

	"connectify/models"
)

// CalendarGateway is the capability surface of the remote calendar. All
// authoritative booking state lives behind it; the service holds no copy.
// Implementations: the Google Calendar client in this package, and an
// in-memory fake used by service tests.
type CalendarGateway interface {
	// GetBusyTimes fetches busy intervals for the calendar between start and
	// end, sorted ascending by start.
	GetBusyTimes(ctx context.Context, calendarID string, start, end time.Time) ([]models.TimeInterval, error)

	// CreateEvent inserts the event and returns it with the id assigned by
	// the calendar. The event's reference id, when set, is stored on the
	// remote event so FindEventByReference can recover it later.
	CreateEvent(ctx context.Context, calendarID string, event models.CalendarEvent, notifyAttendees bool) (models.CalendarEvent, error)

	// FindEventByReference looks up an event carrying the given reference id.
	// Returns (nil, nil) when no such event exists.
	FindEventByReference(ctx context.Context, calendarID, referenceID string) (*models.CalendarEvent, error)

	// PatchEventStatus sets the event status (confirmed or cancelled).
	// Returns ErrEventNotFound if the event does not exist.
	PatchEventStatus(ctx context.Context, calendarID, eventID, status string, notifyAttendees bool) error

	// DeleteEvent removes the event entirely. Deleting an event that does not
	// exist is not an error.
	DeleteEvent(ctx context.Context, calendarID, eventID string, notifyAttendees bool) error

	// ListEvents returns events between start and end, ordered by start time.
	ListEvents(ctx context.Context, calendarID string, start, end time.Time, includeCancelled bool) ([]models.CalendarEvent, error)
}
