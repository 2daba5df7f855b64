package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
)

// Summary aggregates a period of attendance against the resolved schedule.
type Summary struct {
	ScheduledDays    int `json:"scheduled_days"`
	PresentDays      int `json:"present_days"`
	AbsentDays       int `json:"absent_days"`
	ScheduledMinutes int `json:"scheduled_minutes"`
	WorkedMinutes    int `json:"worked_minutes"`
	LateMinutes      int `json:"late_minutes"`
	OvertimeMinutes  int `json:"overtime_minutes"`
	MissingPunches   int `json:"missing_punches"`
}

// Summarize walks days in order. A working day without any entry or exit is absent;
// a working day with only one of them counts as present with a missing punch. Late
// minutes are measured from the shift start once the grace period has been exceeded.
// Overtime on days off is still counted.
func Summarize(days []schedule.DaySchedule, records []Attendance, graceMinutes int) Summary {
	byDate := make(map[string]Attendance, len(records))
	for _, r := range records {
		byDate[r.Date.Format(schedule.DateLayout)] = r
	}

	var s Summary
	grace := time.Duration(graceMinutes) * time.Minute

	for _, day := range days {
		record, found := byDate[day.Date]

		if found {
			s.OvertimeMinutes += record.OvertimeMinutes()
			if (record.OvertimeStart == nil) != (record.OvertimeEnd == nil) {
				s.MissingPunches++
			}
		}

		if day.IsDayOff {
			continue
		}
		s.ScheduledDays++
		s.ScheduledMinutes += day.ScheduledMinutes()

		if !found || (record.FirstEntry == nil && record.LastExit == nil) {
			s.AbsentDays++
			continue
		}
		s.PresentDays++

		if record.FirstEntry == nil || record.LastExit == nil {
			s.MissingPunches++
		} else {
			s.WorkedMinutes += record.WorkedMinutes()
		}

		if record.FirstEntry != nil && day.Start != nil && record.FirstEntry.After(day.Start.Add(grace)) {
			s.LateMinutes += int(record.FirstEntry.Sub(*day.Start).Minutes())
		}
	}

	return s
}

// ResolvePunchTime places a HH:MM punch on date. Exit punches earlier than the
// punch they close roll over to the next day, matching overnight shifts.
func ResolvePunchTime(date time.Time, clock time.Time, punchType PunchType, existing Attendance, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	at := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc)

	var reference *time.Time
	switch punchType {
	case PunchLastExit:
		reference = existing.FirstEntry
	case PunchOvertimeEnd:
		reference = existing.OvertimeStart
		if reference == nil {
			reference = existing.FirstEntry
		}
	}

	if reference != nil && at.Before(*reference) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}
