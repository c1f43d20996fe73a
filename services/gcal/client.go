package gcal

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"connectify/models"
	"connectify/utils"
)

// referenceProperty is the private extended property that links a calendar
// event back to the payment that created it.
const referenceProperty = "connectifyRef"

// callTimeout bounds every outbound calendar call.
const callTimeout = 10 * time.Second

// GoogleCalendarGateway implements CalendarGateway against the Google
// Calendar v3 API using a service account.
type GoogleCalendarGateway struct {
	svc *calendar.Service
}

// NewGoogleCalendarGateway builds an authenticated client from a service
// account credentials file.
func NewGoogleCalendarGateway(ctx context.Context, credentialsFile string) (*GoogleCalendarGateway, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, &APIError{Op: "new service", Err: err}
	}
	return &GoogleCalendarGateway{svc: svc}, nil
}

func (g *GoogleCalendarGateway) GetBusyTimes(ctx context.Context, calendarID string, start, end time.Time) ([]models.TimeInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := &calendar.FreeBusyRequest{
		TimeMin:  start.UTC().Format(time.RFC3339),
		TimeMax:  end.UTC().Format(time.RFC3339),
		TimeZone: "UTC",
		Items:    []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}

	resp, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, &APIError{Op: "freebusy query", Err: err}
	}

	var busy []models.TimeInterval
	if cal, ok := resp.Calendars[calendarID]; ok {
		for _, period := range cal.Busy {
			iv, err := parseInterval(period.Start, period.End)
			if err != nil {
				utils.GetLogger().Warn("skipping busy period with unparseable bounds",
					zap.String("start", period.Start), zap.String("end", period.End))
				continue
			}
			busy = append(busy, iv)
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}

func (g *GoogleCalendarGateway) CreateEvent(ctx context.Context, calendarID string, event models.CalendarEvent, notifyAttendees bool) (models.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	ev := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.Interval.Start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: event.Interval.End.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}
	if event.ReferenceID != "" {
		ev.ExtendedProperties = &calendar.EventExtendedProperties{
			Private: map[string]string{referenceProperty: event.ReferenceID},
		}
	}

	created, err := g.svc.Events.Insert(calendarID, ev).
		SendUpdates(sendUpdates(notifyAttendees)).
		Context(ctx).Do()
	if err != nil {
		return models.CalendarEvent{}, &APIError{Op: "events insert", Err: err}
	}
	return fromAPIEvent(created), nil
}

func (g *GoogleCalendarGateway) FindEventByReference(ctx context.Context, calendarID, referenceID string) (*models.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := g.svc.Events.List(calendarID).
		PrivateExtendedProperty(referenceProperty + "=" + referenceID).
		ShowDeleted(true).
		SingleEvents(true).
		MaxResults(10).
		Context(ctx).Do()
	if err != nil {
		return nil, &APIError{Op: "events list by reference", Err: err}
	}

	// A cancel-then-rebook leaves several events with the same reference id.
	// A confirmed event wins over any cancelled sibling; a cancelled one is
	// returned only when nothing else carries the reference.
	var cancelled *models.CalendarEvent
	for _, item := range resp.Items {
		ev := fromAPIEvent(item)
		if ev.Status != models.EventStatusCancelled {
			return &ev, nil
		}
		if cancelled == nil {
			cancelled = &ev
		}
	}
	return cancelled, nil
}

func (g *GoogleCalendarGateway) PatchEventStatus(ctx context.Context, calendarID, eventID, status string, notifyAttendees bool) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	current, err := g.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return ErrEventNotFound
		}
		return &APIError{Op: "events get", Err: err}
	}

	// The API requires the sequence number to advance on status changes.
	patch := &calendar.Event{
		Status:   status,
		Sequence: current.Sequence + 1,
	}
	_, err = g.svc.Events.Patch(calendarID, eventID, patch).
		SendUpdates(sendUpdates(notifyAttendees)).
		Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return ErrEventNotFound
		}
		return &APIError{Op: "events patch", Err: err}
	}
	return nil
}

func (g *GoogleCalendarGateway) DeleteEvent(ctx context.Context, calendarID, eventID string, notifyAttendees bool) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	err := g.svc.Events.Delete(calendarID, eventID).
		SendUpdates(sendUpdates(notifyAttendees)).
		Context(ctx).Do()
	if err == nil || isNotFound(err) {
		return nil
	}

	// Cancelled events reject a plain delete. Restore to confirmed first,
	// then delete again.
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == 400 || apiErr.Code == 403) {
		if restoreErr := g.PatchEventStatus(ctx, calendarID, eventID, models.EventStatusConfirmed, false); restoreErr != nil {
			utils.GetLogger().Warn("could not restore cancelled event before delete",
				zap.String("eventID", eventID), zap.Error(restoreErr))
			return nil
		}
		err = g.svc.Events.Delete(calendarID, eventID).
			SendUpdates(sendUpdates(notifyAttendees)).
			Context(ctx).Do()
		if err == nil || isNotFound(err) {
			return nil
		}
	}
	return &APIError{Op: "events delete", Err: err}
}

func (g *GoogleCalendarGateway) ListEvents(ctx context.Context, calendarID string, start, end time.Time, includeCancelled bool) ([]models.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := g.svc.Events.List(calendarID).
		TimeMin(start.UTC().Format(time.RFC3339)).
		TimeMax(end.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(includeCancelled).
		Context(ctx).Do()
	if err != nil {
		return nil, &APIError{Op: "events list", Err: err}
	}

	events := make([]models.CalendarEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev := fromAPIEvent(item)
		if !includeCancelled && ev.Status == models.EventStatusCancelled {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func sendUpdates(notifyAttendees bool) string {
	if notifyAttendees {
		return "all"
	}
	return "none"
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}

func parseInterval(start, end string) (models.TimeInterval, error) {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return models.TimeInterval{}, &TimeParseError{Field: "start", Value: start, Err: err}
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return models.TimeInterval{}, &TimeParseError{Field: "end", Value: end, Err: err}
	}
	return models.TimeInterval{Start: s.UTC(), End: e.UTC()}, nil
}

func fromAPIEvent(ev *calendar.Event) models.CalendarEvent {
	out := models.CalendarEvent{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		Status:      ev.Status,
		Created:     ev.Created,
		Updated:     ev.Updated,
	}
	if out.Status == "" {
		out.Status = models.EventStatusConfirmed
	}
	if ev.Start != nil && ev.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, ev.Start.DateTime); err == nil {
			out.Interval.Start = t.UTC()
		}
	}
	if ev.End != nil && ev.End.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, ev.End.DateTime); err == nil {
			out.Interval.End = t.UTC()
		}
	}
	if ev.ExtendedProperties != nil && ev.ExtendedProperties.Private != nil {
		out.ReferenceID = ev.ExtendedProperties.Private[referenceProperty]
	}
	return out
}
