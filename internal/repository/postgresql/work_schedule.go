package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workScheduleRepositoryImpl struct {
	db *database.DB
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}

const workScheduleColumns = `id, company_id, name, shift_start, shift_end, work_days,
	grace_period_minutes, minimum_hours, created_at, updated_at, deleted_at`

func scanWorkSchedule(row pgx.Row) (schedule.WorkSchedule, error) {
	var ws schedule.WorkSchedule
	err := row.Scan(
		&ws.ID, &ws.CompanyID, &ws.Name, &ws.ShiftStart, &ws.ShiftEnd, &ws.WorkDays,
		&ws.GracePeriodMinutes, &ws.MinimumHours, &ws.CreatedAt, &ws.UpdatedAt, &ws.DeletedAt,
	)
	return ws, err
}

// Create implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) Create(ctx context.Context, workSchedule schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		INSERT INTO work_schedules (
			company_id, name, shift_start, shift_end, work_days, grace_period_minutes, minimum_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + workScheduleColumns

	ws, err := scanWorkSchedule(q.QueryRow(ctx, query,
		workSchedule.CompanyID, workSchedule.Name, workSchedule.ShiftStart, workSchedule.ShiftEnd,
		workSchedule.WorkDays, workSchedule.GracePeriodMinutes, workSchedule.MinimumHours,
	))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNameExists
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to create work schedule: %w", err)
	}

	return ws, nil
}

// GetByID implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)
	query := `SELECT ` + workScheduleColumns + `
		FROM work_schedules
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	ws, err := scanWorkSchedule(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	return ws, nil
}

// GetByCompanyID implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string, filter schedule.WorkScheduleFilter) ([]schedule.WorkSchedule, int64, error) {
	q := GetQuerier(ctx, w.db)

	baseWhere := "company_id = $1 AND deleted_at IS NULL"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Name != nil && *filter.Name != "" {
		baseWhere += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM work_schedules WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work schedules: %w", err)
	}

	orderByField := "name"
	switch filter.SortBy {
	case "shift_start":
		orderByField = "shift_start"
	case "created_at":
		orderByField = "created_at"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM work_schedules
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, workScheduleColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query work schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.WorkSchedule
	for rows.Next() {
		ws, err := scanWorkSchedule(rows)
		if err != nil {
			return nil, total, fmt.Errorf("failed to scan row: %w", err)
		}
		schedules = append(schedules, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, total, err
	}

	return schedules, total, nil
}

// Update implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) Update(ctx context.Context, workSchedule schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		UPDATE work_schedules SET
			name = $1, shift_start = $2, shift_end = $3, work_days = $4,
			grace_period_minutes = $5, minimum_hours = $6, updated_at = NOW()
		WHERE id = $7 AND company_id = $8 AND deleted_at IS NULL
		RETURNING ` + workScheduleColumns

	ws, err := scanWorkSchedule(q.QueryRow(ctx, query,
		workSchedule.Name, workSchedule.ShiftStart, workSchedule.ShiftEnd, workSchedule.WorkDays,
		workSchedule.GracePeriodMinutes, workSchedule.MinimumHours,
		workSchedule.ID, workSchedule.CompanyID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		if isPgError(err, pgUniqueViolation) {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNameExists
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to update work schedule: %w", err)
	}

	return ws, nil
}

// SoftDelete implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) SoftDelete(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, w.db)
	query := `
		UPDATE work_schedules
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`
	commandTag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete work schedule: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return schedule.ErrWorkScheduleNotFound
	}
	return nil
}
