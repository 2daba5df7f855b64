package payroll

import "errors"

var (
	ErrPayrollSettingsNotFound    = errors.New("payroll settings not found")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordNotEditable   = errors.New("only generated payroll records can be modified")
	ErrInvalidStatusTransition    = errors.New("invalid payroll status transition")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrInvalidPayrollType         = errors.New("payroll type must be hourly or monthly")
	ErrEmployeeHasNoSalary        = errors.New("employee has no salary or hourly rate configured")
	ErrEmployeeHasNoSchedule      = errors.New("employee has no schedule for this period")
	ErrCannotDeletePaidRecord     = errors.New("cannot delete paid payroll record")
	ErrEmployeeNotFound           = errors.New("employee not found")
	ErrPayrollGenerationFailed    = errors.New("payroll generation failed for this employee")
)
