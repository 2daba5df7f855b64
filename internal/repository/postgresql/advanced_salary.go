package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/advancedsalary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type advancedSalaryRepositoryImpl struct {
	db *database.DB
}

func NewAdvancedSalaryRepository(db *database.DB) advancedsalary.AdvancedSalaryRepository {
	return &advancedSalaryRepositoryImpl{db: db}
}

const advancedSalarySelect = `
	SELECT a.id, a.employee_id, a.company_id, a.requested_amount, a.approved_amount, a.status,
		   a.required_date, a.installments, a.installments_paid, a.recovered_amount, a.processed,
		   a.reason, a.rejection_reason, a.reviewed_by, a.reviewed_at, a.created_at, a.updated_at,
		   e.full_name, e.employee_code
	FROM advanced_salaries a
	JOIN employees e ON e.id = a.employee_id
`

func scanAdvancedSalary(row pgx.Row) (advancedsalary.AdvancedSalary, error) {
	var a advancedsalary.AdvancedSalary
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.CompanyID, &a.RequestedAmount, &a.ApprovedAmount, &a.Status,
		&a.RequiredDate, &a.Installments, &a.InstallmentsPaid, &a.RecoveredAmount, &a.Processed,
		&a.Reason, &a.RejectionReason, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeCode,
	)
	return a, err
}

func collectAdvancedSalaries(rows pgx.Rows) ([]advancedsalary.AdvancedSalary, error) {
	defer rows.Close()

	var advances []advancedsalary.AdvancedSalary
	for rows.Next() {
		a, err := scanAdvancedSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advanced salary: %w", err)
		}
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

func (r *advancedSalaryRepositoryImpl) Create(ctx context.Context, advance advancedsalary.AdvancedSalary) (advancedsalary.AdvancedSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advanced_salaries (
			employee_id, company_id, requested_amount, status, required_date, installments, reason
		) VALUES ($1, $2, $3, $4, $5::date, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		advance.EmployeeID, advance.CompanyID, advance.RequestedAmount, advance.Status,
		advance.RequiredDate.Format("2006-01-02"), advance.Installments, advance.Reason,
	).Scan(&advance.ID, &advance.CreatedAt, &advance.UpdatedAt)
	if err != nil {
		return advancedsalary.AdvancedSalary{}, fmt.Errorf("failed to create advanced salary: %w", err)
	}

	return advance, nil
}

func (r *advancedSalaryRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (advancedsalary.AdvancedSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := advancedSalarySelect + ` WHERE a.id = $1 AND a.company_id = $2`

	a, err := scanAdvancedSalary(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return advancedsalary.AdvancedSalary{}, advancedsalary.ErrAdvancedSalaryNotFound
		}
		return advancedsalary.AdvancedSalary{}, fmt.Errorf("failed to get advanced salary: %w", err)
	}
	return a, nil
}

func (r *advancedSalaryRepositoryImpl) List(ctx context.Context, filter advancedsalary.AdvancedSalaryFilter, companyID string) ([]advancedsalary.AdvancedSalary, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"a.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where = append(where, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		where = append(where, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM advanced_salaries a"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count advanced salaries: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s%s ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d",
		advancedSalarySelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list advanced salaries: %w", err)
	}
	advances, err := collectAdvancedSalaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return advances, total, nil
}

func (r *advancedSalaryRepositoryImpl) Update(ctx context.Context, advance advancedsalary.AdvancedSalary) (advancedsalary.AdvancedSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE advanced_salaries SET
			requested_amount = $1, approved_amount = $2, status = $3, required_date = $4::date,
			installments = $5, reason = $6, rejection_reason = $7, reviewed_by = $8, reviewed_at = $9,
			updated_at = NOW()
		WHERE id = $10 AND company_id = $11
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		advance.RequestedAmount, advance.ApprovedAmount, advance.Status, advance.RequiredDate.Format("2006-01-02"),
		advance.Installments, advance.Reason, advance.RejectionReason, advance.ReviewedBy, advance.ReviewedAt,
		advance.ID, advance.CompanyID,
	).Scan(&advance.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return advancedsalary.AdvancedSalary{}, advancedsalary.ErrAdvancedSalaryNotFound
		}
		return advancedsalary.AdvancedSalary{}, fmt.Errorf("failed to update advanced salary: %w", err)
	}

	return advance, nil
}

func (r *advancedSalaryRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		DELETE FROM advanced_salaries
		WHERE id = $1 AND company_id = $2 AND installments_paid = 0
	`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete advanced salary: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return advancedsalary.ErrAdvancedSalaryNotFound
	}
	return nil
}

func (r *advancedSalaryRepositoryImpl) ListOutstanding(ctx context.Context, employeeID string, companyID string) ([]advancedsalary.AdvancedSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := advancedSalarySelect + `
		WHERE a.employee_id = $1 AND a.company_id = $2
		  AND a.status = 'Approved' AND a.processed = FALSE
		ORDER BY a.required_date ASC, a.created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding advances: %w", err)
	}
	return collectAdvancedSalaries(rows)
}

func (r *advancedSalaryRepositoryImpl) ListOutstandingForUpdate(ctx context.Context, employeeID string, companyID string) ([]advancedsalary.AdvancedSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := advancedSalarySelect + `
		WHERE a.employee_id = $1 AND a.company_id = $2
		  AND a.status = 'Approved' AND a.processed = FALSE
		ORDER BY a.required_date ASC, a.created_at ASC
		FOR UPDATE OF a
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock outstanding advances: %w", err)
	}
	return collectAdvancedSalaries(rows)
}

func (r *advancedSalaryRepositoryImpl) RecordRecovery(ctx context.Context, recovery advancedsalary.Recovery) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO advanced_salary_recoveries (advanced_salary_id, payroll_id, company_id, installment_no, amount)
		VALUES ($1, $2, $3, $4, $5)
	`, recovery.AdvancedSalaryID, recovery.PayrollID, recovery.CompanyID, recovery.InstallmentNo, recovery.Amount)
	if err != nil {
		return fmt.Errorf("failed to record advance recovery: %w", err)
	}

	commandTag, err := q.Exec(ctx, `
		UPDATE advanced_salaries SET
			installments_paid = installments_paid + 1,
			recovered_amount = recovered_amount + $1,
			processed = (installments_paid + 1 >= installments OR recovered_amount + $1 >= approved_amount),
			status = CASE
				WHEN installments_paid + 1 >= installments OR recovered_amount + $1 >= approved_amount THEN 'Completed'
				ELSE status
			END,
			updated_at = NOW()
		WHERE id = $2 AND company_id = $3
	`, recovery.Amount, recovery.AdvancedSalaryID, recovery.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update advance counters: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return advancedsalary.ErrAdvancedSalaryNotFound
	}
	return nil
}

// ReleaseByPayroll reverses the counters first, then drops the recovery rows.
func (r *advancedSalaryRepositoryImpl) ReleaseByPayroll(ctx context.Context, payrollID string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE advanced_salaries a SET
			installments_paid = a.installments_paid - rec.cnt,
			recovered_amount = a.recovered_amount - rec.total,
			processed = FALSE,
			status = 'Approved',
			updated_at = NOW()
		FROM (
			SELECT advanced_salary_id, COUNT(*) AS cnt, SUM(amount) AS total
			FROM advanced_salary_recoveries
			WHERE payroll_id = $1 AND company_id = $2
			GROUP BY advanced_salary_id
		) rec
		WHERE a.id = rec.advanced_salary_id
	`, payrollID, companyID)
	if err != nil {
		return fmt.Errorf("failed to release advance counters: %w", err)
	}

	_, err = q.Exec(ctx, `
		DELETE FROM advanced_salary_recoveries WHERE payroll_id = $1 AND company_id = $2
	`, payrollID, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete advance recoveries: %w", err)
	}
	return nil
}
