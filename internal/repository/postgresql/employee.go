package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.company_id, e.work_schedule_id, e.employee_code, e.full_name,
		   e.department, e.designation, e.work_days, e.payroll_type,
		   e.gross_salary, e.hourly_rate, e.employment_status, e.hire_date,
		   e.created_at, e.updated_at, e.deleted_at,
		   ws.name AS work_schedule_name, ws.work_days AS schedule_work_days
	FROM employees e
	LEFT JOIN work_schedules ws ON ws.id = e.work_schedule_id AND ws.deleted_at IS NULL
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var scheduleWorkDays []int
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.WorkScheduleID, &emp.EmployeeCode, &emp.FullName,
		&emp.Department, &emp.Designation, &emp.WorkDays, &emp.PayrollType,
		&emp.GrossSalary, &emp.HourlyRate, &emp.EmploymentStatus, &emp.HireDate,
		&emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
		&emp.WorkScheduleName, &scheduleWorkDays,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	emp.ScheduleWorkDays = scheduleWorkDays
	return emp, nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeSelect + ` WHERE e.id = $1 AND e.company_id = $2 AND e.deleted_at IS NULL`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByIDs implements employee.EmployeeRepository. Unknown IDs are left out of the result.
func (r *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string, companyID string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := employeeSelect + `
		WHERE e.id = ANY($1::uuid[]) AND e.company_id = $2 AND e.deleted_at IS NULL
		ORDER BY e.full_name ASC
	`

	rows, err := q.Query(ctx, query, ids, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees by ids: %w", err)
	}
	return collectEmployees(rows)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter, companyID string) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"e.company_id = $1", "e.deleted_at IS NULL"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		where = append(where, fmt.Sprintf("(e.full_name ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		where = append(where, fmt.Sprintf("e.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.PayrollType != nil && *filter.PayrollType != "" {
		where = append(where, fmt.Sprintf("e.payroll_type = $%d", argIdx))
		args = append(args, *filter.PayrollType)
		argIdx++
	}
	if filter.WorkScheduleID != nil && *filter.WorkScheduleID != "" {
		where = append(where, fmt.Sprintf("e.work_schedule_id = $%d", argIdx))
		args = append(args, *filter.WorkScheduleID)
		argIdx++
	}
	if filter.EmploymentStatus != nil && *filter.EmploymentStatus != "" {
		where = append(where, fmt.Sprintf("e.employment_status = $%d", argIdx))
		args = append(args, *filter.EmploymentStatus)
		argIdx++
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM employees e" + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	sortColumn := "e.full_name"
	allowedColumns := map[string]string{
		"full_name":     "e.full_name",
		"employee_code": "e.employee_code",
		"department":    "e.department",
		"hire_date":     "e.hire_date",
		"created_at":    "e.created_at",
	}
	if col, ok := allowedColumns[filter.SortBy]; ok {
		sortColumn = col
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		employeeSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeSelect + `
		WHERE e.company_id = $1 AND e.deleted_at IS NULL AND e.employment_status = 'active'
		ORDER BY e.full_name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}
	return collectEmployees(rows)
}

// GetActiveWithWorkSchedule implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActiveWithWorkSchedule(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeSelect + `
		WHERE e.deleted_at IS NULL AND e.employment_status = 'active'
		  AND ws.id IS NOT NULL
		ORDER BY e.company_id, e.full_name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled employees: %w", err)
	}
	return collectEmployees(rows)
}

// CountByWorkScheduleID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountByWorkScheduleID(ctx context.Context, workScheduleID string, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM employees
		WHERE work_schedule_id = $1 AND company_id = $2 AND deleted_at IS NULL
	`, workScheduleID, companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees by work schedule: %w", err)
	}
	return count, nil
}
