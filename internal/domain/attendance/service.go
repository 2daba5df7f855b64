package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ListAttendance retrieves attendance records with filters
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetSummary summarizes one employee's month against the stored schedule
	GetSummary(ctx context.Context, employeeID string, month, year int) (SummaryResponse, error)
}
