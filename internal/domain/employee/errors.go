package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrUnauthorized        = errors.New("unauthorized to access this employee")
	ErrNoWorkSchedule      = errors.New("employee has no work schedule assigned")
	ErrInvalidPayrollType  = errors.New("payroll type must be hourly or monthly")
	ErrPayrollTypeMismatch = errors.New("employee payroll type does not match the requested payroll")
	ErrEmployeeNotActive   = errors.New("employee is not active")
)
