package schedule

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

const DateLayout = "2006-01-02"

// ResolveWindow places a start and end wall clock on date. When end is earlier than
// start the end moves to the following day and dayChanged is set.
func ResolveWindow(date time.Time, startClock, endClock string, loc *time.Location) (start, end time.Time, dayChanged bool, err error) {
	startTOD, ok := validator.IsValidTime(startClock)
	if !ok {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidClock, startClock)
	}
	endTOD, ok := validator.IsValidTime(endClock)
	if !ok {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidClock, endClock)
	}
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := date.Date()
	start = time.Date(y, m, d, startTOD.Hour(), startTOD.Minute(), 0, 0, loc)
	end = time.Date(y, m, d, endTOD.Hour(), endTOD.Minute(), 0, 0, loc)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
		dayChanged = true
	}
	return start, end, dayChanged, nil
}

// ResolveDay resolves slot as a working day on date, regardless of the slot's work days.
func ResolveDay(date time.Time, slot WorkSchedule, loc *time.Location) (DaySchedule, error) {
	start, end, changed, err := ResolveWindow(date, slot.ShiftStart, slot.ShiftEnd, loc)
	if err != nil {
		return DaySchedule{}, err
	}
	slotID := slot.ID
	return DaySchedule{
		Date:           date.Format(DateLayout),
		Start:          &start,
		End:            &end,
		DayChanged:     changed,
		WorkScheduleID: &slotID,
	}, nil
}

// ResolveMonth produces one entry per calendar day of month/year. Days whose weekday
// is not in workDays are days off with no start or end.
func ResolveMonth(slot WorkSchedule, workDays []int, month, year int, loc *time.Location) ([]DaySchedule, error) {
	if !validator.IsValidPeriod(month, year) {
		return nil, fmt.Errorf("invalid period %d/%d", month, year)
	}
	if loc == nil {
		loc = time.UTC
	}

	working := make(map[time.Weekday]bool, len(workDays))
	for _, wd := range workDays {
		working[time.Weekday(wd)] = true
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	days := make([]DaySchedule, 0, daysInMonth)
	for i := 0; i < daysInMonth; i++ {
		date := first.AddDate(0, 0, i)
		if !working[date.Weekday()] {
			days = append(days, DaySchedule{Date: date.Format(DateLayout), IsDayOff: true})
			continue
		}
		day, err := ResolveDay(date, slot, loc)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// DayEdit is a change applied to one day. IsDayOff wins over Slot and explicit times.
type DayEdit struct {
	IsDayOff *bool
	Slot     *WorkSchedule
	Start    *string
	End      *string
	Notes    *string
}

// ApplyDayEdit returns day with edit applied.
func ApplyDayEdit(day DaySchedule, edit DayEdit, loc *time.Location) (DaySchedule, error) {
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation(DateLayout, day.Date, loc)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, day.Date)
	}

	out := day
	switch {
	case edit.IsDayOff != nil && *edit.IsDayOff:
		out.IsDayOff = true
		out.Start = nil
		out.End = nil
		out.DayChanged = false
		out.WorkScheduleID = nil
	case edit.Start != nil && edit.End != nil:
		start, end, changed, err := ResolveWindow(date, *edit.Start, *edit.End, loc)
		if err != nil {
			return DaySchedule{}, err
		}
		out.IsDayOff = false
		out.Start = &start
		out.End = &end
		out.DayChanged = changed
		if edit.Slot != nil {
			id := edit.Slot.ID
			out.WorkScheduleID = &id
		}
	case edit.Slot != nil:
		resolved, err := ResolveDay(date, *edit.Slot, loc)
		if err != nil {
			return DaySchedule{}, err
		}
		resolved.Notes = out.Notes
		out = resolved
	default:
		// Turning a day off back on needs times from somewhere.
		if edit.IsDayOff != nil && out.IsDayOff && (out.Start == nil || out.End == nil) {
			return DaySchedule{}, ErrTimeSlotRequired
		}
		if edit.IsDayOff != nil {
			out.IsDayOff = false
		}
	}

	if edit.Notes != nil {
		notes := *edit.Notes
		out.Notes = &notes
	}
	return out, nil
}

// DaySelection picks days of one employee's schedule.
type DaySelection struct {
	EmployeeID string   `json:"employee_id"`
	Dates      []string `json:"dates"`
}

// ApplyBatch applies edit to every selected (employee, day) pair. schedules is keyed by
// employee ID and left untouched; the changed copies are returned. Any selection that
// does not resolve rejects the whole batch.
func ApplyBatch(schedules map[string]EmployeeSchedule, selections []DaySelection, edit DayEdit, loc *time.Location) (map[string]EmployeeSchedule, error) {
	var errs validator.ValidationErrors
	updated := make(map[string]EmployeeSchedule, len(selections))

	for i, sel := range selections {
		sched, ok := updated[sel.EmployeeID]
		if !ok {
			original, found := schedules[sel.EmployeeID]
			if !found {
				errs.Add(fmt.Sprintf("selections[%d].employee_id", i), ErrEmployeeScheduleNotFound.Error())
				continue
			}
			sched = original.Clone()
		}

		for j, date := range sel.Dates {
			idx := sched.DayIndex(date)
			if idx < 0 {
				errs.Add(fmt.Sprintf("selections[%d].dates[%d]", i, j), ErrDayNotInSchedule.Error())
				continue
			}
			day, err := ApplyDayEdit(sched.Days[idx], edit, loc)
			if err != nil {
				errs.Add(fmt.Sprintf("selections[%d].dates[%d]", i, j), err.Error())
				continue
			}
			sched.Days[idx] = day
		}
		updated[sel.EmployeeID] = sched
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return updated, nil
}
