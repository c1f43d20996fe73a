package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"connectify/models"
)

// SlotParams are the inputs to ComputeSlots. Candidate starts are enumerated
// from WindowStart by Step; Now excludes candidates already in the past.
// Business-hour checks run in Location (work times are minutes of the local
// day), everything else is instant arithmetic.
type SlotParams struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Now         time.Time

	BusyPeriods []models.TimeInterval

	SlotDuration time.Duration
	Step         time.Duration

	Location     *time.Location
	WorkStartMin int
	WorkEndMin   int
	WorkingDays  map[time.Weekday]bool

	BufferBefore time.Duration
	BufferAfter  time.Duration
}

// ComputeSlots enumerates bookable slots. It is pure: no I/O, no clock reads,
// inputs are never mutated, and identical inputs yield identical output.
//
// A candidate survives when its weekday is a working day, the slot fits the
// work window in local minutes of day, and its padded interval
// [start-BufferBefore, end+BufferAfter) overlaps no busy period. The overlap
// test is strict on half-open intervals, so a busy period that merely abuts a
// slot boundary does not exclude it; zero-length busy periods are ignored.
//
// With non-zero buffers, candidates that would run into the previous emitted
// slot's padding are skipped, so emitted slots never overlap each other's
// padded intervals. With zero buffers enumeration is dense: a Step smaller
// than SlotDuration yields overlapping candidates on purpose.
func ComputeSlots(p SlotParams) []models.TimeInterval {
	var slots []models.TimeInterval

	if p.Step <= 0 || p.SlotDuration <= 0 || !p.WindowStart.Before(p.WindowEnd) {
		return slots
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	durationMin := int(p.SlotDuration / time.Minute)
	totalBuffer := p.BufferBefore + p.BufferAfter

	var lastEmittedEnd time.Time

	for start := p.WindowStart; start.Before(p.WindowEnd); start = start.Add(p.Step) {
		end := start.Add(p.SlotDuration)
		if end.After(p.WindowEnd) {
			break
		}
		if start.Before(p.Now) {
			continue
		}

		local := start.In(loc)
		if !p.WorkingDays[local.Weekday()] {
			continue
		}
		startMin := local.Hour()*60 + local.Minute()
		if startMin < p.WorkStartMin || startMin+durationMin > p.WorkEndMin {
			continue
		}

		// Consecutive appointments need the after-buffer of one plus the
		// before-buffer of the next between them.
		if totalBuffer > 0 && !lastEmittedEnd.IsZero() && start.Before(lastEmittedEnd.Add(totalBuffer)) {
			continue
		}

		padded := models.TimeInterval{
			Start: start.Add(-p.BufferBefore),
			End:   end.Add(p.BufferAfter),
		}
		blocked := false
		for _, busy := range p.BusyPeriods {
			if !busy.Valid() {
				continue
			}
			if padded.Overlaps(busy) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		slots = append(slots, models.TimeInterval{Start: start, End: end})
		lastEmittedEnd = end
	}

	return slots
}

// ParseMinutesOfDay parses "HH:MM" into minutes since local midnight.
func ParseMinutesOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

var weekdayNames = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// ParseWorkingDays maps configured day abbreviations to weekdays. Unknown
// names are skipped.
func ParseWorkingDays(days []string) map[time.Weekday]bool {
	out := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if wd, ok := weekdayNames[d]; ok {
			out[wd] = true
		}
	}
	return out
}
