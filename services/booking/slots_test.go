package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectify/models"
)

// Monday 2025-06-02, a plain working day.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func workdayParams() SlotParams {
	return SlotParams{
		WindowStart:  monday.Add(9 * time.Hour),
		WindowEnd:    monday.Add(17 * time.Hour),
		Now:          monday, // well before the window
		SlotDuration: 60 * time.Minute,
		Step:         15 * time.Minute,
		Location:     time.UTC,
		WorkStartMin: 9 * 60,
		WorkEndMin:   17 * 60,
		WorkingDays:  ParseWorkingDays([]string{"Mon", "Tue", "Wed", "Thu", "Fri"}),
	}
}

func TestComputeSlotsFullDay(t *testing.T) {
	slots := ComputeSlots(workdayParams())

	// 09:00 through 16:00 inclusive, every 15 minutes.
	require.Len(t, slots, 29)
	assert.Equal(t, monday.Add(9*time.Hour), slots[0].Start)
	assert.Equal(t, monday.Add(16*time.Hour), slots[len(slots)-1].Start)
	for _, s := range slots {
		assert.Equal(t, 60*time.Minute, s.Duration())
	}
}

func TestComputeSlotsBusyPeriodExcludesOverlaps(t *testing.T) {
	p := workdayParams()
	p.BusyPeriods = []models.TimeInterval{
		{Start: monday.Add(10 * time.Hour), End: monday.Add(10*time.Hour + 30*time.Minute)},
	}

	slots := ComputeSlots(p)

	// Five one-hour candidates overlap [10:00, 10:30).
	require.Len(t, slots, 24)

	starts := make(map[time.Time]bool, len(slots))
	for _, s := range slots {
		starts[s.Start] = true
	}
	// A slot ending exactly at the busy start survives, as does one starting
	// exactly at the busy end.
	assert.True(t, starts[monday.Add(9*time.Hour)])
	assert.True(t, starts[monday.Add(10*time.Hour+30*time.Minute)])
	assert.False(t, starts[monday.Add(10*time.Hour)])
	assert.False(t, starts[monday.Add(10*time.Hour+15*time.Minute)])
	assert.False(t, starts[monday.Add(9*time.Hour+15*time.Minute)])
}

func TestComputeSlotsZeroLengthBusyIgnored(t *testing.T) {
	p := workdayParams()
	p.BusyPeriods = []models.TimeInterval{
		{Start: monday.Add(11 * time.Hour), End: monday.Add(11 * time.Hour)},
	}

	assert.Len(t, ComputeSlots(p), 29)
}

func TestComputeSlotsExcludesPast(t *testing.T) {
	p := workdayParams()
	p.Now = monday.Add(12 * time.Hour)

	slots := ComputeSlots(p)

	require.NotEmpty(t, slots)
	assert.Equal(t, monday.Add(12*time.Hour), slots[0].Start)
	assert.Len(t, slots, 17)
}

func TestComputeSlotsSkipsNonWorkingDays(t *testing.T) {
	sunday := monday.AddDate(0, 0, -1)
	p := workdayParams()
	p.WindowStart = sunday.Add(9 * time.Hour)
	p.WindowEnd = sunday.Add(17 * time.Hour)

	assert.Empty(t, ComputeSlots(p))
}

func TestComputeSlotsRespectsWorkWindow(t *testing.T) {
	p := workdayParams()
	p.WindowStart = monday
	p.WindowEnd = monday.Add(24 * time.Hour)

	slots := ComputeSlots(p)

	require.NotEmpty(t, slots)
	for _, s := range slots {
		local := s.Start.In(time.UTC)
		startMin := local.Hour()*60 + local.Minute()
		assert.GreaterOrEqual(t, startMin, 9*60)
		assert.LessOrEqual(t, startMin+60, 17*60)
	}
}

func TestComputeSlotsBuffersSpaceOutEmittedSlots(t *testing.T) {
	p := workdayParams()
	p.BufferAfter = 30 * time.Minute

	slots := ComputeSlots(p)

	// 09:00, 10:30, 12:00, 13:30, 15:00.
	require.Len(t, slots, 5)
	for i := 1; i < len(slots); i++ {
		prev := slots[i-1].Padded(p.BufferBefore, p.BufferAfter)
		cur := slots[i].Padded(p.BufferBefore, p.BufferAfter)
		assert.False(t, prev.Overlaps(cur), "padded slots %d and %d overlap", i-1, i)
	}
}

func TestComputeSlotsPaddedIntervalCheckedAgainstBusy(t *testing.T) {
	p := workdayParams()
	p.BufferBefore = 15 * time.Minute
	p.BusyPeriods = []models.TimeInterval{
		// Abuts 10:00 slot itself but overlaps its before-padding.
		{Start: monday.Add(9*time.Hour + 30*time.Minute), End: monday.Add(10 * time.Hour)},
	}

	slots := ComputeSlots(p)
	for _, s := range slots {
		assert.NotEqual(t, monday.Add(10*time.Hour), s.Start)
	}
}

func TestComputeSlotsStepLargerThanDuration(t *testing.T) {
	p := workdayParams()
	p.Step = 2 * time.Hour

	slots := ComputeSlots(p)

	require.Len(t, slots, 4)
	assert.Equal(t, monday.Add(9*time.Hour), slots[0].Start)
	assert.Equal(t, monday.Add(15*time.Hour), slots[3].Start)
}

func TestComputeSlotsDeterministic(t *testing.T) {
	p := workdayParams()
	p.BusyPeriods = []models.TimeInterval{
		{Start: monday.Add(13 * time.Hour), End: monday.Add(14 * time.Hour)},
	}

	assert.Equal(t, ComputeSlots(p), ComputeSlots(p))
}

func TestComputeSlotsDegenerateInputs(t *testing.T) {
	p := workdayParams()
	p.Step = 0
	assert.Empty(t, ComputeSlots(p))

	p = workdayParams()
	p.WindowEnd = p.WindowStart
	assert.Empty(t, ComputeSlots(p))

	p = workdayParams()
	p.SlotDuration = 0
	assert.Empty(t, ComputeSlots(p))
}

func TestParseMinutesOfDay(t *testing.T) {
	min, err := ParseMinutesOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, min)

	_, err = ParseMinutesOfDay("24:00")
	assert.Error(t, err)
	_, err = ParseMinutesOfDay("0900")
	assert.Error(t, err)
	_, err = ParseMinutesOfDay("09:61")
	assert.Error(t, err)
}

func TestParseWorkingDays(t *testing.T) {
	days := ParseWorkingDays([]string{"Mon", "Wed", "Nope"})
	assert.True(t, days[time.Monday])
	assert.True(t, days[time.Wednesday])
	assert.False(t, days[time.Tuesday])
	assert.Len(t, days, 2)
}
