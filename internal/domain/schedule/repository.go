package schedule

import "context"

type WorkScheduleRepository interface {
	Create(ctx context.Context, workSchedule WorkSchedule) (WorkSchedule, error)
	GetByID(ctx context.Context, id string, companyID string) (WorkSchedule, error)
	GetByCompanyID(ctx context.Context, companyID string, filter WorkScheduleFilter) ([]WorkSchedule, int64, error)
	Update(ctx context.Context, workSchedule WorkSchedule) (WorkSchedule, error)
	SoftDelete(ctx context.Context, id, companyID string) error
}

type EmployeeScheduleRepository interface {
	Get(ctx context.Context, employeeID string, month, year int, companyID string) (EmployeeSchedule, error)
	GetForUpdate(ctx context.Context, employeeIDs []string, month, year int, companyID string) ([]EmployeeSchedule, error)
	Exists(ctx context.Context, employeeID string, month, year int) (bool, error)
	Create(ctx context.Context, schedule EmployeeSchedule) (EmployeeSchedule, error)
	// Upsert replaces the days of an existing (employee, month, year) row.
	Upsert(ctx context.Context, schedule EmployeeSchedule) (EmployeeSchedule, error)
	// UpdateDays writes days only if the stored version still equals schedule.Version.
	UpdateDays(ctx context.Context, schedule EmployeeSchedule) (EmployeeSchedule, error)
	Delete(ctx context.Context, employeeID string, month, year int, companyID string) error
}
