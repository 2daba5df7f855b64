package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             string
	CompanyID      string
	WorkScheduleID *string
	EmployeeCode   string
	FullName       string
	Department     string
	Designation    string
	// WorkDays overrides the work schedule's days when non-empty. 0 = Sunday.
	WorkDays         []int
	PayrollType      PayrollType
	GrossSalary      decimal.Decimal
	HourlyRate       decimal.Decimal
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time

	// Joined fields
	WorkScheduleName *string
	ScheduleWorkDays []int
}

type PayrollType string

const (
	PayrollTypeHourly  PayrollType = "hourly"
	PayrollTypeMonthly PayrollType = "monthly"
)

func (p PayrollType) IsValid() bool {
	return p == PayrollTypeHourly || p == PayrollTypeMonthly
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// EffectiveWorkDays returns the employee's own work days, falling back to the
// assigned work schedule's days.
func (e Employee) EffectiveWorkDays() []int {
	if len(e.WorkDays) > 0 {
		return e.WorkDays
	}
	return e.ScheduleWorkDays
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive && e.DeletedAt == nil
}
