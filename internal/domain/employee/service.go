package employee

import "context"

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists employees of the caller's company
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// GetEmployee retrieves a single employee (employees may only read themselves)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
}
