package adjustment

import "context"

type AdjustmentRepository interface {
	Create(ctx context.Context, adj Adjustment) (Adjustment, error)
	GetByID(ctx context.Context, id string, kind Kind, companyID string) (Adjustment, error)
	List(ctx context.Context, filter AdjustmentFilter, companyID string) ([]Adjustment, int64, error)
	Update(ctx context.Context, adj Adjustment) (Adjustment, error)
	Delete(ctx context.Context, id string, kind Kind, companyID string) error

	// ListUnprocessed returns every unprocessed adjustment of kind for one employee.
	ListUnprocessed(ctx context.Context, employeeID string, kind Kind, companyID string) ([]Adjustment, error)
	// MarkProcessed links ids to payrollID. It fails with ErrAlreadyProcessed when any
	// of them was consumed by another payroll.
	MarkProcessed(ctx context.Context, ids []string, payrollID string, companyID string) error
	// ReleaseByPayroll clears the processed flag of everything linked to payrollID.
	ReleaseByPayroll(ctx context.Context, payrollID string, companyID string) error
}
