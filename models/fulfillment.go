package models

import "time"

// Fulfillment kinds. Each kind names the side effect performed after a
// successful payment.
const (
	FulfillmentKindCalendarBooking      = "gcal_booking"
	FulfillmentKindAdhocCalendarBooking = "adhoc_gcal_booking"
)

// Fulfillment outcomes.
const (
	FulfillmentCreated          = "created"
	FulfillmentAlreadyFulfilled = "already_fulfilled"
	FulfillmentConflict         = "conflict"
	FulfillmentFailed           = "failed"
)

// FulfillmentRequest describes a paid-for side effect to execute. One request
// is built per webhook delivery attempt; ReferenceID must be stable across
// retries of the same payment (e.g. the payment intent id) so that repeated
// deliveries map to at most one calendar event.
type FulfillmentRequest struct {
	Kind        string       `json:"kind"`
	Interval    TimeInterval `json:"-"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Summary     string       `json:"summary"`
	Description string       `json:"description,omitempty"`
	ReferenceID string       `json:"reference_id"`
}

// FulfillmentResult reports what a fulfillment attempt did.
type FulfillmentResult struct {
	Outcome string `json:"outcome"`
	EventID string `json:"event_id,omitempty"`
	Message string `json:"message"`
}

// FulfillmentRecord is the durable audit entry written per fulfillment
// attempt, keyed by reference id. The remote calendar stays the source of
// truth for idempotency; records exist for reconciliation and admin review.
type FulfillmentRecord struct {
	ReferenceID string       `bson:"reference_id" json:"reference_id"`
	Kind        string       `bson:"kind" json:"kind"`
	Interval    TimeInterval `bson:"interval" json:"interval"`
	Summary     string       `bson:"summary" json:"summary"`
	Outcome     string       `bson:"outcome" json:"outcome"`
	EventID     string       `bson:"event_id,omitempty" json:"event_id,omitempty"`
	Message     string       `bson:"message,omitempty" json:"message,omitempty"`
	Attempts    int          `bson:"attempts" json:"attempts"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updated_at"`
}
