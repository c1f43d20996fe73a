package gcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"connectify/models"
)

func TestSendUpdates(t *testing.T) {
	assert.Equal(t, "all", sendUpdates(true))
	assert.Equal(t, "none", sendUpdates(false))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&googleapi.Error{Code: 404}))
	assert.False(t, isNotFound(&googleapi.Error{Code: 403}))
	assert.False(t, isNotFound(assert.AnError))
	assert.False(t, isNotFound(nil))
}

func TestParseInterval(t *testing.T) {
	iv, err := parseInterval("2025-06-04T10:00:00+02:00", "2025-06-04T11:00:00+02:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 4, 8, 0, 0, 0, time.UTC), iv.Start)
	assert.Equal(t, 60*time.Minute, iv.Duration())

	_, err = parseInterval("not-a-time", "2025-06-04T11:00:00Z")
	var tpe *TimeParseError
	require.ErrorAs(t, err, &tpe)
	assert.Equal(t, "start", tpe.Field)
}

func TestFromAPIEvent(t *testing.T) {
	ev := &calendar.Event{
		Id:          "evt-1",
		Summary:     "Session",
		Description: "notes",
		Start:       &calendar.EventDateTime{DateTime: "2025-06-04T10:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2025-06-04T11:00:00Z"},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{referenceProperty: "ref-1"},
		},
	}

	out := fromAPIEvent(ev)

	assert.Equal(t, "evt-1", out.ID)
	assert.Equal(t, "ref-1", out.ReferenceID)
	// The remote omits status on some responses; treat that as confirmed.
	assert.Equal(t, models.EventStatusConfirmed, out.Status)
	assert.Equal(t, time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC), out.Interval.Start)
}

func TestFromAPIEventCancelled(t *testing.T) {
	out := fromAPIEvent(&calendar.Event{Id: "evt-2", Status: "cancelled"})
	assert.Equal(t, models.EventStatusCancelled, out.Status)
}
