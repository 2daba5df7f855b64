package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func day(date string) time.Time {
	t, _ := time.Parse(schedule.DateLayout, date)
	return t
}

func TestSummarize(t *testing.T) {
	slot := schedule.WorkSchedule{ID: "slot", ShiftStart: "09:00", ShiftEnd: "17:00"}
	// 2025-03-01 is a Saturday.
	days, err := schedule.ResolveMonth(slot, []int{1, 2, 3, 4, 5}, 3, 2025, time.UTC)
	require.NoError(t, err)
	days = days[:7] // 1st..7th: Sat, Sun, Mon-Fri

	records := []Attendance{
		// Monday on time, full day.
		{Date: day("2025-03-03"), FirstEntry: at("2025-03-03T09:05:00Z"), LastExit: at("2025-03-03T17:00:00Z")},
		// Tuesday 20 minutes late, over a 10 minute grace.
		{Date: day("2025-03-04"), FirstEntry: at("2025-03-04T09:20:00Z"), LastExit: at("2025-03-04T17:00:00Z"),
			OvertimeStart: at("2025-03-04T17:30:00Z"), OvertimeEnd: at("2025-03-04T19:00:00Z")},
		// Wednesday forgot to punch out.
		{Date: day("2025-03-05"), FirstEntry: at("2025-03-05T09:00:00Z")},
		// Saturday overtime on a day off.
		{Date: day("2025-03-01"), OvertimeStart: at("2025-03-01T10:00:00Z"), OvertimeEnd: at("2025-03-01T11:00:00Z")},
	}

	s := Summarize(days, records, 10)

	assert.Equal(t, 5, s.ScheduledDays)
	assert.Equal(t, 3, s.PresentDays)
	assert.Equal(t, 2, s.AbsentDays)
	assert.Equal(t, 5*8*60, s.ScheduledMinutes)
	assert.Equal(t, 475+460, s.WorkedMinutes)
	assert.Equal(t, 20, s.LateMinutes)
	assert.Equal(t, 90+60, s.OvertimeMinutes)
	assert.Equal(t, 1, s.MissingPunches)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, nil, 0))
}

func TestResolvePunchTime_LastExitRollsOver(t *testing.T) {
	existing := Attendance{FirstEntry: at("2025-03-03T22:00:00Z")}
	clock, _ := time.Parse("15:04", "06:00")

	got := ResolvePunchTime(day("2025-03-03"), clock, PunchLastExit, existing, time.UTC)
	assert.Equal(t, "2025-03-04T06:00:00Z", got.Format(time.RFC3339))
}

func TestResolvePunchTime_SameDay(t *testing.T) {
	existing := Attendance{FirstEntry: at("2025-03-03T09:00:00Z")}
	clock, _ := time.Parse("15:04", "17:30")

	got := ResolvePunchTime(day("2025-03-03"), clock, PunchLastExit, existing, time.UTC)
	assert.Equal(t, "2025-03-03T17:30:00Z", got.Format(time.RFC3339))

	// First entries never roll.
	early, _ := time.Parse("15:04", "01:00")
	got = ResolvePunchTime(day("2025-03-03"), early, PunchFirstEntry, existing, time.UTC)
	assert.Equal(t, "2025-03-03T01:00:00Z", got.Format(time.RFC3339))
}

func TestApplyPunch(t *testing.T) {
	var a Attendance
	ts := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)

	require.NoError(t, a.ApplyPunch(PunchOvertimeStart, ts))
	require.NotNil(t, a.OvertimeStart)
	assert.True(t, a.OvertimeStart.Equal(ts))

	assert.ErrorIs(t, a.ApplyPunch(PunchType("lunch"), ts), ErrInvalidPunchType)
}
