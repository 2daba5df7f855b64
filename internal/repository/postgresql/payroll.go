package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== SETTINGS ==========

const settingsColumns = `id, company_id, late_fine_per_minute, overtime_rate_multiplier,
	missing_punch_penalty, absent_deduction_enabled, created_at, updated_at`

func scanSettings(row pgx.Row) (payroll.PayrollSettings, error) {
	var s payroll.PayrollSettings
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.LateFinePerMinute, &s.OvertimeRateMultiplier,
		&s.MissingPunchPenalty, &s.AbsentDeductionEnabled, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *payrollRepository) GetSettings(ctx context.Context, companyID string) (payroll.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingsColumns + ` FROM payroll_settings WHERE company_id = $1`

	s, err := scanSettings(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollSettings{}, payroll.ErrPayrollSettingsNotFound
		}
		return payroll.PayrollSettings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) UpsertSettings(ctx context.Context, settings payroll.PayrollSettings) (payroll.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_settings (
			company_id, late_fine_per_minute, overtime_rate_multiplier,
			missing_punch_penalty, absent_deduction_enabled
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id) DO UPDATE SET
			late_fine_per_minute = EXCLUDED.late_fine_per_minute,
			overtime_rate_multiplier = EXCLUDED.overtime_rate_multiplier,
			missing_punch_penalty = EXCLUDED.missing_punch_penalty,
			absent_deduction_enabled = EXCLUDED.absent_deduction_enabled,
			updated_at = NOW()
		RETURNING ` + settingsColumns

	s, err := scanSettings(q.QueryRow(ctx, query,
		settings.CompanyID, settings.LateFinePerMinute, settings.OvertimeRateMultiplier,
		settings.MissingPunchPenalty, settings.AbsentDeductionEnabled,
	))
	if err != nil {
		return payroll.PayrollSettings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}

	return s, nil
}

// ========== PAYROLL RECORDS ==========

const payrollRecordColumns = `id, company_id, employee_id, type, period_month, period_year,
	period_start, period_end, employee_name, employee_code, department, designation, hourly_rate,
	scheduled_days, present_days, absent_days, worked_minutes, late_minutes, overtime_minutes,
	missing_punches, gross_salary, late_fines, overtime_pay, absent_deductions, missing_deduction,
	other_deductions, other_incentives, arrears, fine_deductions, advanced_salary, net_salary,
	status, notes, reviewed_by, reviewed_at, paid_by, paid_at, created_at, updated_at`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.Type, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.PeriodStart, &rec.PeriodEnd, &rec.EmployeeName, &rec.EmployeeCode, &rec.Department, &rec.Designation, &rec.HourlyRate,
		&rec.ScheduledDays, &rec.PresentDays, &rec.AbsentDays, &rec.WorkedMinutes, &rec.LateMinutes, &rec.OvertimeMinutes,
		&rec.MissingPunches, &rec.GrossSalary, &rec.LateFines, &rec.OvertimePay, &rec.AbsentDeductions, &rec.MissingDeduction,
		&rec.OtherDeductions, &rec.OtherIncentives, &rec.Arrears, &rec.FineDeductions, &rec.AdvancedSalary, &rec.NetSalary,
		&rec.Status, &rec.Notes, &rec.ReviewedBy, &rec.ReviewedAt, &rec.PaidBy, &rec.PaidAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func (r *payrollRepository) CreatePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			company_id, employee_id, type, period_month, period_year, period_start, period_end,
			employee_name, employee_code, department, designation, hourly_rate,
			scheduled_days, present_days, absent_days, worked_minutes, late_minutes, overtime_minutes,
			missing_punches, gross_salary, late_fines, overtime_pay, absent_deductions, missing_deduction,
			other_deductions, other_incentives, arrears, fine_deductions, advanced_salary, net_salary,
			status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32
		)
		RETURNING ` + payrollRecordColumns

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.CompanyID, record.EmployeeID, record.Type, record.PeriodMonth, record.PeriodYear,
		record.PeriodStart, record.PeriodEnd,
		record.EmployeeName, record.EmployeeCode, record.Department, record.Designation, record.HourlyRate,
		record.ScheduledDays, record.PresentDays, record.AbsentDays, record.WorkedMinutes, record.LateMinutes, record.OvertimeMinutes,
		record.MissingPunches, record.GrossSalary, record.LateFines, record.OvertimePay, record.AbsentDeductions, record.MissingDeduction,
		record.OtherDeductions, record.OtherIncentives, record.Arrears, record.FineDeductions, record.AdvancedSalary, record.NetSalary,
		record.Status, record.Notes,
	))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string, companyID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + ` FROM payroll_records WHERE id = $1 AND company_id = $2`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ExistsForEmployeePeriod(ctx context.Context, employeeID string, month, year int, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM payroll_records
			WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 AND company_id = $4
		)
	`, employeeID, month, year, companyID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll record: %w", err)
	}
	return exists, nil
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_records WHERE company_id = $1`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Type != "" {
		baseQuery += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}
	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseQuery += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		baseQuery += fmt.Sprintf(" AND department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	sortColumn := "created_at"
	allowedColumns := map[string]string{
		"created_at":    "created_at",
		"period":        "period_year DESC, period_month",
		"employee_name": "employee_name",
		"net_salary":    "net_salary",
	}
	if col, ok := allowedColumns[filter.SortBy]; ok {
		sortColumn = col
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		payrollRecordColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, totalCount, nil
}

// UpdatePayrollRecord rewrites every editable input together with the recalculated
// net salary and the review columns.
func (r *payrollRepository) UpdatePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			gross_salary = $1, late_fines = $2, overtime_pay = $3, absent_deductions = $4,
			missing_deduction = $5, other_deductions = $6, other_incentives = $7, arrears = $8,
			fine_deductions = $9, advanced_salary = $10, net_salary = $11,
			status = $12, notes = $13, reviewed_by = $14, reviewed_at = $15, paid_by = $16, paid_at = $17,
			updated_at = NOW()
		WHERE id = $18 AND company_id = $19
		RETURNING ` + payrollRecordColumns

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.GrossSalary, record.LateFines, record.OvertimePay, record.AbsentDeductions,
		record.MissingDeduction, record.OtherDeductions, record.OtherIncentives, record.Arrears,
		record.FineDeductions, record.AdvancedSalary, record.NetSalary,
		record.Status, record.Notes, record.ReviewedBy, record.ReviewedAt, record.PaidBy, record.PaidAt,
		record.ID, record.CompanyID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) DeletePayrollRecord(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx, `
		DELETE FROM payroll_records WHERE id = $1 AND company_id = $2 AND status <> 'Paid'
		RETURNING id
	`, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}

	return nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetPayrollSummary(ctx context.Context, companyID string, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS total_records,
			COUNT(*) FILTER (WHERE type = 'hourly') AS hourly_count,
			COUNT(*) FILTER (WHERE type = 'monthly') AS monthly_count,
			COALESCE(SUM(gross_salary), 0) AS total_gross_salary,
			COALESCE(SUM(other_incentives), 0) AS total_incentives,
			COALESCE(SUM(arrears), 0) AS total_arrears,
			COALESCE(SUM(fine_deductions), 0) AS total_fines,
			COALESCE(SUM(advanced_salary), 0) AS total_advanced_salary,
			COALESCE(SUM(net_salary), 0) AS total_net_salary,
			COUNT(*) FILTER (WHERE status = 'Generated') AS generated_count,
			COUNT(*) FILTER (WHERE status = 'Approved') AS approved_count,
			COUNT(*) FILTER (WHERE status = 'Paid') AS paid_count,
			COUNT(*) FILTER (WHERE status = 'Rejected') AS rejected_count
		FROM payroll_records
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, companyID, month, year).Scan(
		&summary.TotalRecords, &summary.HourlyCount, &summary.MonthlyCount,
		&summary.TotalGrossSalary, &summary.TotalIncentives, &summary.TotalArrears,
		&summary.TotalFines, &summary.TotalAdvancedSalary, &summary.TotalNetSalary,
		&summary.GeneratedCount, &summary.ApprovedCount, &summary.PaidCount, &summary.RejectedCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.PeriodMonth = month
	summary.PeriodYear = year

	return summary, nil
}
