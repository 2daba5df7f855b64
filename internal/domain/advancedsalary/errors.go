package advancedsalary

import "errors"

var (
	ErrAdvancedSalaryNotFound   = errors.New("advanced salary request not found")
	ErrNotPending               = errors.New("advanced salary request has already been reviewed")
	ErrApprovedExceedsRequested = errors.New("approved amount cannot exceed the requested amount")
	ErrCannotDelete             = errors.New("advanced salary already recovered by payroll and cannot be deleted")
	ErrUnauthorized             = errors.New("unauthorized to access this advanced salary request")
	ErrEmployeeIDRequired       = errors.New("employee ID is required")
)
