package advancedsalary

import "context"

type AdvancedSalaryRepository interface {
	Create(ctx context.Context, advance AdvancedSalary) (AdvancedSalary, error)
	GetByID(ctx context.Context, id string, companyID string) (AdvancedSalary, error)
	List(ctx context.Context, filter AdvancedSalaryFilter, companyID string) ([]AdvancedSalary, int64, error)
	Update(ctx context.Context, advance AdvancedSalary) (AdvancedSalary, error)
	Delete(ctx context.Context, id string, companyID string) error

	// ListOutstanding returns Approved, unprocessed advances of one employee.
	ListOutstanding(ctx context.Context, employeeID string, companyID string) ([]AdvancedSalary, error)
	// ListOutstandingForUpdate is ListOutstanding with the rows locked until the
	// surrounding transaction ends. Must run inside a transaction.
	ListOutstandingForUpdate(ctx context.Context, employeeID string, companyID string) ([]AdvancedSalary, error)
	// RecordRecovery stores the installment and advances the paid counters, completing
	// the advance when the last installment is recovered.
	RecordRecovery(ctx context.Context, recovery Recovery) error
	// ReleaseByPayroll undoes every recovery booked by payrollID.
	ReleaseByPayroll(ctx context.Context, payrollID string, companyID string) error
}
