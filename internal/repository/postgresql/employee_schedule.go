package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeScheduleRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeScheduleRepository(db *database.DB) schedule.EmployeeScheduleRepository {
	return &employeeScheduleRepositoryImpl{db: db}
}

const employeeScheduleSelect = `
	SELECT es.id, es.employee_id, es.company_id, es.month, es.year, es.days, es.version,
		   es.created_at, es.updated_at, e.full_name, e.employee_code
	FROM employee_schedules es
	JOIN employees e ON e.id = es.employee_id
`

func scanEmployeeSchedule(row pgx.Row) (schedule.EmployeeSchedule, error) {
	var es schedule.EmployeeSchedule
	var daysBytes []byte
	err := row.Scan(
		&es.ID, &es.EmployeeID, &es.CompanyID, &es.Month, &es.Year, &daysBytes, &es.Version,
		&es.CreatedAt, &es.UpdatedAt, &es.EmployeeName, &es.EmployeeCode,
	)
	if err != nil {
		return schedule.EmployeeSchedule{}, err
	}
	if err := json.Unmarshal(daysBytes, &es.Days); err != nil {
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to parse schedule days: %w", err)
	}
	return es, nil
}

// Get implements schedule.EmployeeScheduleRepository.
func (r *employeeScheduleRepositoryImpl) Get(ctx context.Context, employeeID string, month, year int, companyID string) (schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeScheduleSelect + `
		WHERE es.employee_id = $1 AND es.month = $2 AND es.year = $3 AND es.company_id = $4
	`

	es, err := scanEmployeeSchedule(q.QueryRow(ctx, query, employeeID, month, year, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.EmployeeSchedule{}, schedule.ErrEmployeeScheduleNotFound
		}
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to get employee schedule: %w", err)
	}
	return es, nil
}

// GetForUpdate implements schedule.EmployeeScheduleRepository. Rows are locked until
// the surrounding transaction ends.
func (r *employeeScheduleRepositoryImpl) GetForUpdate(ctx context.Context, employeeIDs []string, month, year int, companyID string) ([]schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeScheduleSelect + `
		WHERE es.employee_id = ANY($1::uuid[]) AND es.month = $2 AND es.year = $3 AND es.company_id = $4
		ORDER BY es.employee_id
		FOR UPDATE OF es
	`

	rows, err := q.Query(ctx, query, employeeIDs, month, year, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock employee schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.EmployeeSchedule
	for rows.Next() {
		es, err := scanEmployeeSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee schedule: %w", err)
		}
		schedules = append(schedules, es)
	}
	return schedules, rows.Err()
}

// Exists implements schedule.EmployeeScheduleRepository.
func (r *employeeScheduleRepositoryImpl) Exists(ctx context.Context, employeeID string, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM employee_schedules WHERE employee_id = $1 AND month = $2 AND year = $3)
	`, employeeID, month, year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee schedule: %w", err)
	}
	return exists, nil
}

// Create implements schedule.EmployeeScheduleRepository.
func (r *employeeScheduleRepositoryImpl) Create(ctx context.Context, es schedule.EmployeeSchedule) (schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	daysBytes, err := json.Marshal(es.Days)
	if err != nil {
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to encode schedule days: %w", err)
	}

	query := `
		INSERT INTO employee_schedules (employee_id, company_id, month, year, days, version)
		VALUES ($1, $2, $3, $4, $5, 1)
		RETURNING id, version, created_at, updated_at
	`

	err = q.QueryRow(ctx, query, es.EmployeeID, es.CompanyID, es.Month, es.Year, daysBytes).Scan(
		&es.ID, &es.Version, &es.CreatedAt, &es.UpdatedAt,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return schedule.EmployeeSchedule{}, schedule.ErrEmployeeScheduleExists
		}
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to create employee schedule: %w", err)
	}
	return es, nil
}

// Upsert implements schedule.EmployeeScheduleRepository.
func (r *employeeScheduleRepositoryImpl) Upsert(ctx context.Context, es schedule.EmployeeSchedule) (schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	daysBytes, err := json.Marshal(es.Days)
	if err != nil {
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to encode schedule days: %w", err)
	}

	query := `
		INSERT INTO employee_schedules (employee_id, company_id, month, year, days, version)
		VALUES ($1, $2, $3, $4, $5, 1)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			days = EXCLUDED.days,
			version = employee_schedules.version + 1,
			updated_at = NOW()
		RETURNING id, version, created_at, updated_at
	`

	err = q.QueryRow(ctx, query, es.EmployeeID, es.CompanyID, es.Month, es.Year, daysBytes).Scan(
		&es.ID, &es.Version, &es.CreatedAt, &es.UpdatedAt,
	)
	if err != nil {
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to upsert employee schedule: %w", err)
	}
	return es, nil
}

// UpdateDays implements schedule.EmployeeScheduleRepository.
func (r *employeeScheduleRepositoryImpl) UpdateDays(ctx context.Context, es schedule.EmployeeSchedule) (schedule.EmployeeSchedule, error) {
	q := GetQuerier(ctx, r.db)

	daysBytes, err := json.Marshal(es.Days)
	if err != nil {
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to encode schedule days: %w", err)
	}

	query := `
		UPDATE employee_schedules
		SET days = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND version = $4
		RETURNING version, updated_at
	`

	err = q.QueryRow(ctx, query, daysBytes, es.ID, es.CompanyID, es.Version).Scan(&es.Version, &es.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.EmployeeSchedule{}, schedule.ErrScheduleVersionConflict
		}
		return schedule.EmployeeSchedule{}, fmt.Errorf("failed to update employee schedule: %w", err)
	}
	return es, nil
}

// Delete implements schedule.EmployeeScheduleRepository.
func (r *employeeScheduleRepositoryImpl) Delete(ctx context.Context, employeeID string, month, year int, companyID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		DELETE FROM employee_schedules
		WHERE employee_id = $1 AND month = $2 AND year = $3 AND company_id = $4
	`, employeeID, month, year, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete employee schedule: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return schedule.ErrEmployeeScheduleNotFound
	}
	return nil
}
