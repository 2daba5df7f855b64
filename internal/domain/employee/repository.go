package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string, companyID string) ([]Employee, error)
	List(ctx context.Context, filter EmployeeFilter, companyID string) ([]Employee, int64, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	// GetActiveWithWorkSchedule spans all companies; used by background jobs.
	GetActiveWithWorkSchedule(ctx context.Context) ([]Employee, error)
	CountByWorkScheduleID(ctx context.Context, workScheduleID string, companyID string) (int64, error)
}
