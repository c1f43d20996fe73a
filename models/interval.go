package models

import "time"

// TimeInterval is a half-open interval [Start, End) in UTC.
type TimeInterval struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// Valid reports whether the interval is well formed (Start strictly before End).
func (iv TimeInterval) Valid() bool {
	return iv.Start.Before(iv.End)
}

// Duration returns End - Start.
func (iv TimeInterval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether two half-open intervals overlap.
// Touching boundaries do not count as overlap.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Padded returns the interval widened by the given buffers.
func (iv TimeInterval) Padded(before, after time.Duration) TimeInterval {
	return TimeInterval{
		Start: iv.Start.Add(-before),
		End:   iv.End.Add(after),
	}
}
