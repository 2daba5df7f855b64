package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// Incentives, arrears and fines share one table keyed by kind.
type adjustmentRepositoryImpl struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) adjustment.AdjustmentRepository {
	return &adjustmentRepositoryImpl{db: db}
}

const adjustmentSelect = `
	SELECT s.id, s.employee_id, s.company_id, s.kind, s.amount, s.date, s.status,
		   s.reason, s.rejection_reason, s.processed, s.payroll_id, s.reviewed_by, s.reviewed_at,
		   s.created_at, s.updated_at, e.full_name
	FROM salary_adjustments s
	JOIN employees e ON e.id = s.employee_id
`

func scanAdjustment(row pgx.Row) (adjustment.Adjustment, error) {
	var a adjustment.Adjustment
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.Kind, &a.Amount, &a.Date, &a.Status,
		&a.Reason, &a.RejectionReason, &a.Processed, &a.PayrollID, &a.ReviewedBy, &a.ReviewedAt,
		&a.CreatedAt, &a.UpdatedAt, &a.EmployeeName,
	)
	return a, err
}

func collectAdjustments(rows pgx.Rows) ([]adjustment.Adjustment, error) {
	defer rows.Close()

	var adjustments []adjustment.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (r *adjustmentRepositoryImpl) Create(ctx context.Context, adj adjustment.Adjustment) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_adjustments (employee_id, company_id, kind, amount, date, status, reason)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		adj.EmployeeID, adj.CompanyID, adj.Kind, adj.Amount, adj.Date, adj.Status, adj.Reason,
	).Scan(&adj.ID, &adj.CreatedAt, &adj.UpdatedAt)
	if err != nil {
		return adjustment.Adjustment{}, fmt.Errorf("failed to create %s: %w", adj.Kind, err)
	}

	return adj, nil
}

func (r *adjustmentRepositoryImpl) GetByID(ctx context.Context, id string, kind adjustment.Kind, companyID string) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := adjustmentSelect + ` WHERE s.id = $1 AND s.kind = $2 AND s.company_id = $3`

	a, err := scanAdjustment(q.QueryRow(ctx, query, id, kind, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.Adjustment{}, fmt.Errorf("failed to get %s: %w", kind, err)
	}
	return a, nil
}

func (r *adjustmentRepositoryImpl) List(ctx context.Context, filter adjustment.AdjustmentFilter, companyID string) ([]adjustment.Adjustment, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"s.company_id = $1", "s.kind = $2"}
	args := []interface{}{companyID, filter.Kind}
	argIdx := 3

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where = append(where, fmt.Sprintf("s.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		where = append(where, fmt.Sprintf("s.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		where = append(where, fmt.Sprintf("s.date >= $%d::date", argIdx))
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		where = append(where, fmt.Sprintf("s.date <= $%d::date", argIdx))
		args = append(args, *filter.DateTo)
		argIdx++
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM salary_adjustments s"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", filter.Kind, err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s%s ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d",
		adjustmentSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", filter.Kind, err)
	}
	adjustments, err := collectAdjustments(rows)
	if err != nil {
		return nil, 0, err
	}
	return adjustments, total, nil
}

func (r *adjustmentRepositoryImpl) Update(ctx context.Context, adj adjustment.Adjustment) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_adjustments SET
			amount = $1, date = $2::date, status = $3, reason = $4, rejection_reason = $5,
			reviewed_by = $6, reviewed_at = $7, updated_at = NOW()
		WHERE id = $8 AND kind = $9 AND company_id = $10 AND processed = FALSE
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		adj.Amount, adj.Date, adj.Status, adj.Reason, adj.RejectionReason,
		adj.ReviewedBy, adj.ReviewedAt, adj.ID, adj.Kind, adj.CompanyID,
	).Scan(&adj.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.Adjustment{}, fmt.Errorf("failed to update %s: %w", adj.Kind, err)
	}

	return adj, nil
}

func (r *adjustmentRepositoryImpl) Delete(ctx context.Context, id string, kind adjustment.Kind, companyID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		DELETE FROM salary_adjustments
		WHERE id = $1 AND kind = $2 AND company_id = $3 AND processed = FALSE
	`, id, kind, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if commandTag.RowsAffected() == 0 {
		return adjustment.ErrAdjustmentNotFound
	}
	return nil
}

func (r *adjustmentRepositoryImpl) ListUnprocessed(ctx context.Context, employeeID string, kind adjustment.Kind, companyID string) ([]adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := adjustmentSelect + `
		WHERE s.employee_id = $1 AND s.kind = $2 AND s.company_id = $3
		  AND s.processed = FALSE
		ORDER BY s.date ASC NULLS LAST, s.created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, kind, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed %s: %w", kind, err)
	}
	return collectAdjustments(rows)
}

func (r *adjustmentRepositoryImpl) MarkProcessed(ctx context.Context, ids []string, payrollID string, companyID string) error {
	if len(ids) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE salary_adjustments
		SET processed = TRUE, payroll_id = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[]) AND company_id = $3 AND processed = FALSE
	`, payrollID, ids, companyID)
	if err != nil {
		return fmt.Errorf("failed to mark adjustments processed: %w", err)
	}
	if commandTag.RowsAffected() != int64(len(ids)) {
		return adjustment.ErrAlreadyProcessed
	}
	return nil
}

func (r *adjustmentRepositoryImpl) ReleaseByPayroll(ctx context.Context, payrollID string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE salary_adjustments
		SET processed = FALSE, payroll_id = NULL, updated_at = NOW()
		WHERE payroll_id = $1 AND company_id = $2
	`, payrollID, companyID)
	if err != nil {
		return fmt.Errorf("failed to release adjustments: %w", err)
	}
	return nil
}
