package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include companyID parameter to prevent cross-company data access attacks.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns ErrAttendanceNotFound when no record exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (Attendance, error)

	// Upsert inserts or replaces the punch fields of the (employee, date) record
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByEmployeePeriod returns records with from <= date <= to ordered by date
	ListByEmployeePeriod(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]Attendance, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)
}
