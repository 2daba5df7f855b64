package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkSchedule is a reusable time slot assigned to employees.
type WorkSchedule struct {
	ID                 string
	CompanyID          string
	Name               string
	ShiftStart         string // "HH:MM"
	ShiftEnd           string // "HH:MM", earlier than ShiftStart means the shift ends the next day
	WorkDays           []int  // 0=Sunday, ..., 6=Saturday
	GracePeriodMinutes int
	MinimumHours       decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

// IsOvernight reports whether the shift crosses midnight.
func (w WorkSchedule) IsOvernight() bool {
	return w.ShiftEnd < w.ShiftStart
}

// DaySchedule is one calendar day of an employee's month. Stored as JSONB.
type DaySchedule struct {
	Date           string     `json:"date"` // "2006-01-02"
	IsDayOff       bool       `json:"is_day_off"`
	Start          *time.Time `json:"start"`
	End            *time.Time `json:"end"`
	DayChanged     bool       `json:"day_changed"`
	WorkScheduleID *string    `json:"work_schedule_id,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

// ScheduledMinutes is the length of the shift, 0 for days off.
func (d DaySchedule) ScheduledMinutes() int {
	if d.IsDayOff || d.Start == nil || d.End == nil {
		return 0
	}
	return int(d.End.Sub(*d.Start).Minutes())
}

// EmployeeSchedule holds the resolved days of one employee for one month.
type EmployeeSchedule struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Month      int
	Year       int
	Days       []DaySchedule
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// DayIndex returns the position of date in Days or -1.
func (s EmployeeSchedule) DayIndex(date string) int {
	for i, d := range s.Days {
		if d.Date == date {
			return i
		}
	}
	return -1
}

// WorkingDays counts the days that are not off.
func (s EmployeeSchedule) WorkingDays() int {
	n := 0
	for _, d := range s.Days {
		if !d.IsDayOff {
			n++
		}
	}
	return n
}

// Clone returns a copy whose Days slice can be mutated independently.
func (s EmployeeSchedule) Clone() EmployeeSchedule {
	out := s
	out.Days = make([]DaySchedule, len(s.Days))
	copy(out.Days, s.Days)
	return out
}
