package attendance

import (
	"time"
)

// Attendance is the daily punch record of one employee.
type Attendance struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	Date          time.Time
	FirstEntry    *time.Time
	LastExit      *time.Time
	OvertimeStart *time.Time
	OvertimeEnd   *time.Time
	Source        Source
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

type Source string

const (
	SourceDevice Source = "device"
	SourcePunch  Source = "punch_request"
)

type PunchType string

const (
	PunchFirstEntry    PunchType = "firstEntry"
	PunchLastExit      PunchType = "lastExit"
	PunchOvertimeStart PunchType = "overtimeStart"
	PunchOvertimeEnd   PunchType = "overtimeEnd"
)

var PunchTypeValues = []string{
	string(PunchFirstEntry),
	string(PunchLastExit),
	string(PunchOvertimeStart),
	string(PunchOvertimeEnd),
}

func (p PunchType) IsValid() bool {
	switch p {
	case PunchFirstEntry, PunchLastExit, PunchOvertimeStart, PunchOvertimeEnd:
		return true
	}
	return false
}

// Field returns the timestamp slot of a that t is written to.
func (a *Attendance) Field(t PunchType) **time.Time {
	switch t {
	case PunchFirstEntry:
		return &a.FirstEntry
	case PunchLastExit:
		return &a.LastExit
	case PunchOvertimeStart:
		return &a.OvertimeStart
	case PunchOvertimeEnd:
		return &a.OvertimeEnd
	}
	return nil
}

// ApplyPunch writes at into the slot for t.
func (a *Attendance) ApplyPunch(t PunchType, at time.Time) error {
	field := a.Field(t)
	if field == nil {
		return ErrInvalidPunchType
	}
	*field = &at
	return nil
}

// WorkedMinutes is the span from first entry to last exit, 0 when either is missing.
func (a Attendance) WorkedMinutes() int {
	return spanMinutes(a.FirstEntry, a.LastExit)
}

// OvertimeMinutes is the span from overtime start to overtime end.
func (a Attendance) OvertimeMinutes() int {
	return spanMinutes(a.OvertimeStart, a.OvertimeEnd)
}

func spanMinutes(from, to *time.Time) int {
	if from == nil || to == nil || !to.After(*from) {
		return 0
	}
	return int(to.Sub(*from).Minutes())
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
