package attendance

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	DateFrom   *string `json:"date_from,omitempty"`
	DateTo     *string `json:"date_to,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 31
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.DateFrom != nil && *f.DateFrom != "" {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs.Add("date_from", "invalid date format, use YYYY-MM-DD")
		}
	}
	if f.DateTo != nil && *f.DateTo != "" {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs.Add("date_to", "invalid date format, use YYYY-MM-DD")
		}
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	Date            string  `json:"date"`
	FirstEntry      *string `json:"first_entry"`
	LastExit        *string `json:"last_exit"`
	OvertimeStart   *string `json:"overtime_start"`
	OvertimeEnd     *string `json:"overtime_end"`
	WorkedMinutes   int     `json:"worked_minutes"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	Source          string  `json:"source"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type SummaryResponse struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Summary
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		EmployeeName:    a.EmployeeName,
		Date:            a.Date.Format("2006-01-02"),
		FirstEntry:      formatTime(a.FirstEntry),
		LastExit:        formatTime(a.LastExit),
		OvertimeStart:   formatTime(a.OvertimeStart),
		OvertimeEnd:     formatTime(a.OvertimeEnd),
		WorkedMinutes:   a.WorkedMinutes(),
		OvertimeMinutes: a.OvertimeMinutes(),
		Source:          string(a.Source),
	}
}
