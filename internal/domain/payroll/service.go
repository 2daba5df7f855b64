package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
)

type PayrollService interface {
	// Settings
	GetSettings(ctx context.Context) (PayrollSettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdatePayrollSettingsRequest) (PayrollSettingsResponse, error)

	// Calculator, nothing persisted
	CalculateHourly(ctx context.Context, req CalculateHourlyRequest) (CalculateResponse, error)
	CalculateMonthly(ctx context.Context, req CalculateMonthlyRequest) (CalculateResponse, error)

	// Salary deltas
	GetDeltas(ctx context.Context, query DeltasQuery) (DeltasResponse, error)

	// Payroll Records
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)
	GetPayrollRecord(ctx context.Context, payrollType employee.PayrollType, id string) (PayrollRecordResponse, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	UpdatePayrollRecord(ctx context.Context, req UpdatePayrollRecordRequest) (PayrollRecordResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (PayrollRecordResponse, error)
	DeletePayrollRecord(ctx context.Context, payrollType employee.PayrollType, id string) error
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
