package schedule

import "errors"

var (
	// Work Schedule Errors
	ErrWorkScheduleNotFound   = errors.New("work schedule not found")
	ErrWorkScheduleNameExists = errors.New("work schedule with this name already exists")
	ErrWorkScheduleInUse      = errors.New("work schedule is assigned to employees and cannot be deleted")
	ErrInvalidClock           = errors.New("invalid time, use HH:MM")

	// Employee Schedule Errors
	ErrEmployeeScheduleNotFound = errors.New("employee schedule not found")
	ErrEmployeeScheduleExists   = errors.New("employee schedule already exists for this period")
	ErrScheduleVersionConflict  = errors.New("employee schedule was modified concurrently, reload and retry")
	ErrDayNotInSchedule         = errors.New("date is not part of the schedule period")
	ErrTimeSlotRequired         = errors.New("a work schedule or explicit start and end is required for a working day")

	// Validation Errors
	ErrEmployeeIDRequired = errors.New("employee ID is required")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
)
