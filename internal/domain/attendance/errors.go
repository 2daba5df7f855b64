package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
	ErrInvalidPunchType   = errors.New("punch type must be one of: firstEntry, lastExit, overtimeStart, overtimeEnd")
)
