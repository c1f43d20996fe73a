package models

// Event status values as reported by the remote calendar.
const (
	EventStatusConfirmed = "confirmed"
	EventStatusCancelled = "cancelled"
)

// CalendarEvent is a transient view of an event owned by the remote calendar.
// The ID is empty until the calendar assigns one on create. ReferenceID links
// the event back to the payment that created it and is the idempotency key
// for fulfillment.
type CalendarEvent struct {
	ID          string       `json:"event_id"`
	Interval    TimeInterval `json:"interval"`
	Summary     string       `json:"summary"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status"`
	ReferenceID string       `json:"reference_id,omitempty"`
	Created     string       `json:"created,omitempty"`
	Updated     string       `json:"updated,omitempty"`
}
