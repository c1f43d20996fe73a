package models

import "time"

// ReminderPayload is the asynq task body for a booking reminder.
type ReminderPayload struct {
	ReferenceID string    `json:"reference_id"`
	EventID     string    `json:"event_id"`
	Summary     string    `json:"summary"`
	StartTime   time.Time `json:"start_time"`
}
