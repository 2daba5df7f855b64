package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTINGS DTOs ==========

type PayrollSettingsResponse struct {
	ID                     string          `json:"id,omitempty"`
	CompanyID              string          `json:"company_id"`
	LateFinePerMinute      decimal.Decimal `json:"late_fine_per_minute"`
	OvertimeRateMultiplier decimal.Decimal `json:"overtime_rate_multiplier"`
	MissingPunchPenalty    decimal.Decimal `json:"missing_punch_penalty"`
	AbsentDeductionEnabled bool            `json:"absent_deduction_enabled"`
}

func ToSettingsResponse(s PayrollSettings) PayrollSettingsResponse {
	return PayrollSettingsResponse{
		ID:                     s.ID,
		CompanyID:              s.CompanyID,
		LateFinePerMinute:      s.LateFinePerMinute,
		OvertimeRateMultiplier: s.OvertimeRateMultiplier,
		MissingPunchPenalty:    s.MissingPunchPenalty,
		AbsentDeductionEnabled: s.AbsentDeductionEnabled,
	}
}

type UpdatePayrollSettingsRequest struct {
	LateFinePerMinute      *decimal.Decimal `json:"late_fine_per_minute,omitempty"`
	OvertimeRateMultiplier *decimal.Decimal `json:"overtime_rate_multiplier,omitempty"`
	MissingPunchPenalty    *decimal.Decimal `json:"missing_punch_penalty,omitempty"`
	AbsentDeductionEnabled *bool            `json:"absent_deduction_enabled,omitempty"`
}

func (r *UpdatePayrollSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsNonNegative(r.LateFinePerMinute) {
		errs.Add("late_fine_per_minute", "must be non-negative")
	}
	if !validator.IsNonNegative(r.OvertimeRateMultiplier) {
		errs.Add("overtime_rate_multiplier", "must be non-negative")
	}
	if !validator.IsNonNegative(r.MissingPunchPenalty) {
		errs.Add("missing_punch_penalty", "must be non-negative")
	}

	return errs.Err()
}

// Apply merges the request into s.
func (r *UpdatePayrollSettingsRequest) Apply(s PayrollSettings) PayrollSettings {
	if r.LateFinePerMinute != nil {
		s.LateFinePerMinute = *r.LateFinePerMinute
	}
	if r.OvertimeRateMultiplier != nil {
		s.OvertimeRateMultiplier = *r.OvertimeRateMultiplier
	}
	if r.MissingPunchPenalty != nil {
		s.MissingPunchPenalty = *r.MissingPunchPenalty
	}
	if r.AbsentDeductionEnabled != nil {
		s.AbsentDeductionEnabled = *r.AbsentDeductionEnabled
	}
	return s
}

// ========== CALCULATOR DTOs ==========

type CalculateHourlyRequest struct {
	HourlyInputs
}

type CalculateMonthlyRequest struct {
	MonthlyInputs
}

type CalculateResponse struct {
	Type      string          `json:"type"`
	NetSalary decimal.Decimal `json:"net_salary"`
	Display   string          `json:"display"`
}

func NewCalculateResponse(t employee.PayrollType, net decimal.Decimal) CalculateResponse {
	return CalculateResponse{Type: string(t), NetSalary: net, Display: net.StringFixed(2)}
}

// ========== PAYROLL RECORD DTOs ==========

type GeneratePayrollRequest struct {
	Type        employee.PayrollType `json:"-"`
	PeriodMonth int                  `json:"month"`
	PeriodYear  int                  `json:"year"`
	EmployeeIDs []string             `json:"employee_ids,omitempty"` // Empty = all active employees of the type
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Type.IsValid() {
		errs.Add("type", ErrInvalidPayrollType.Error())
	}
	if !validator.IsValidPeriod(r.PeriodMonth, r.PeriodYear) {
		errs.Add("period", "month must be 1-12 and year 2000-2100")
	}
	for i, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("employee_ids["+validator.Itoa(i)+"]", "must be a valid UUID")
		}
	}

	return errs.Err()
}

type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type GeneratePayrollResponse struct {
	Generated []PayrollRecordResponse `json:"generated"`
	Skipped   []SkippedEmployee       `json:"skipped"`
}

type UpdatePayrollRecordRequest struct {
	ID               string               `json:"-"`
	Type             employee.PayrollType `json:"-"`
	GrossSalary      *decimal.Decimal     `json:"gross_salary,omitempty"`
	LateFines        *decimal.Decimal     `json:"late_fines,omitempty"`
	OvertimePay      *decimal.Decimal     `json:"overtime_pay,omitempty"`
	AbsentDeductions *decimal.Decimal     `json:"absent_deductions,omitempty"`
	MissingDeduction *decimal.Decimal     `json:"missing_deduction,omitempty"`
	OtherDeductions  *decimal.Decimal     `json:"other_deductions,omitempty"`
	OtherIncentives  *decimal.Decimal     `json:"other_incentives,omitempty"`
	Arrears          *decimal.Decimal     `json:"arrears,omitempty"`
	FineDeductions   *decimal.Decimal     `json:"fine_deductions,omitempty"`
	AdvancedSalary   *decimal.Decimal     `json:"advanced_salary,omitempty"`
	Notes            *string              `json:"notes,omitempty"`
}

func (r *UpdatePayrollRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if !r.Type.IsValid() {
		errs.Add("type", ErrInvalidPayrollType.Error())
	}
	amounts := []struct {
		field  string
		amount *decimal.Decimal
	}{
		{"gross_salary", r.GrossSalary},
		{"late_fines", r.LateFines},
		{"overtime_pay", r.OvertimePay},
		{"absent_deductions", r.AbsentDeductions},
		{"missing_deduction", r.MissingDeduction},
		{"other_deductions", r.OtherDeductions},
	}
	for _, a := range amounts {
		if !validator.IsNonNegative(a.amount) {
			errs.Add(a.field, "must be non-negative")
		}
	}
	// These totals are booked against the consumed adjustments and advance installments.
	deltaTotals := []struct {
		field  string
		amount *decimal.Decimal
	}{
		{"other_incentives", r.OtherIncentives},
		{"arrears", r.Arrears},
		{"fine_deductions", r.FineDeductions},
		{"advanced_salary", r.AdvancedSalary},
	}
	for _, d := range deltaTotals {
		if d.amount != nil {
			errs.Add(d.field, "is derived from processed adjustments and cannot be edited")
		}
	}
	if r.Type == employee.PayrollTypeMonthly && (r.LateFines != nil || r.OvertimePay != nil) {
		errs.Add("type", "late_fines and overtime_pay apply to hourly payroll only")
	}

	return errs.Err()
}

// Apply merges the editable inputs into record and recomputes the net salary.
func (r *UpdatePayrollRecordRequest) Apply(record PayrollRecord) PayrollRecord {
	set := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = RoundCurrency(*src)
		}
	}
	set(&record.GrossSalary, r.GrossSalary)
	set(&record.LateFines, r.LateFines)
	set(&record.OvertimePay, r.OvertimePay)
	set(&record.AbsentDeductions, r.AbsentDeductions)
	set(&record.MissingDeduction, r.MissingDeduction)
	set(&record.OtherDeductions, r.OtherDeductions)
	if r.Notes != nil {
		record.Notes = r.Notes
	}
	record.Recalculate()
	return record
}

type UpdateStatusRequest struct {
	ID     string               `json:"-"`
	Type   employee.PayrollType `json:"-"`
	Status string               `json:"status"`
	Notes  *string              `json:"notes,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if !validator.IsInSlice(r.Status, PayrollStatusValues) {
		errs.Add("status", "status must be one of: Generated, Approved, Paid, Rejected")
	}

	return errs.Err()
}

type PayrollRecordResponse struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	EmployeeCode     string          `json:"employee_code"`
	Department       string          `json:"department"`
	Designation      string          `json:"designation"`
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
	HourlyRate       decimal.Decimal `json:"hourly_rate"`
	ScheduledDays    int             `json:"scheduled_days"`
	PresentDays      int             `json:"present_days"`
	AbsentDays       int             `json:"absent_days"`
	WorkedMinutes    int             `json:"worked_minutes"`
	LateMinutes      int             `json:"late_minutes"`
	OvertimeMinutes  int             `json:"overtime_minutes"`
	MissingPunches   int             `json:"missing_punches"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	LateFines        decimal.Decimal `json:"late_fines"`
	OvertimePay      decimal.Decimal `json:"overtime_pay"`
	AbsentDeductions decimal.Decimal `json:"absent_deductions"`
	MissingDeduction decimal.Decimal `json:"missing_deduction"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	OtherIncentives  decimal.Decimal `json:"other_incentives"`
	Arrears          decimal.Decimal `json:"arrears"`
	FineDeductions   decimal.Decimal `json:"fine_deductions"`
	AdvancedSalary   decimal.Decimal `json:"advanced_salary"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	Status           string          `json:"status"`
	Notes            *string         `json:"notes,omitempty"`
	ReviewedBy       *string         `json:"reviewed_by,omitempty"`
	ReviewedAt       *string         `json:"reviewed_at,omitempty"`
	PaidAt           *string         `json:"paid_at,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

func ToRecordResponse(r PayrollRecord) PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:               r.ID,
		Type:             string(r.Type),
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		EmployeeCode:     r.EmployeeCode,
		Department:       r.Department,
		Designation:      r.Designation,
		PeriodMonth:      r.PeriodMonth,
		PeriodYear:       r.PeriodYear,
		PeriodStart:      r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:        r.PeriodEnd.Format("2006-01-02"),
		HourlyRate:       r.HourlyRate,
		ScheduledDays:    r.ScheduledDays,
		PresentDays:      r.PresentDays,
		AbsentDays:       r.AbsentDays,
		WorkedMinutes:    r.WorkedMinutes,
		LateMinutes:      r.LateMinutes,
		OvertimeMinutes:  r.OvertimeMinutes,
		MissingPunches:   r.MissingPunches,
		GrossSalary:      r.GrossSalary,
		LateFines:        r.LateFines,
		OvertimePay:      r.OvertimePay,
		AbsentDeductions: r.AbsentDeductions,
		MissingDeduction: r.MissingDeduction,
		OtherDeductions:  r.OtherDeductions,
		OtherIncentives:  r.OtherIncentives,
		Arrears:          r.Arrears,
		FineDeductions:   r.FineDeductions,
		AdvancedSalary:   r.AdvancedSalary,
		NetSalary:        r.NetSalary,
		Status:           string(r.Status),
		Notes:            r.Notes,
		ReviewedBy:       r.ReviewedBy,
		CreatedAt:        r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format("2006-01-02 15:04:05")
		resp.ReviewedAt = &s
	}
	if r.PaidAt != nil {
		s := r.PaidAt.Format("2006-01-02 15:04:05")
		resp.PaidAt = &s
	}
	return resp
}

type PayrollFilter struct {
	Type        employee.PayrollType `json:"-"`
	PeriodMonth *int                 `json:"period_month,omitempty"`
	PeriodYear  *int                 `json:"period_year,omitempty"`
	Status      *string              `json:"status,omitempty"`
	EmployeeID  *string              `json:"employee_id,omitempty"`
	Department  *string              `json:"department,omitempty"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	SortBy      string               `json:"sort_by"`
	SortOrder   string               `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.PeriodMonth != nil && (*f.PeriodMonth < 1 || *f.PeriodMonth > 12) {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if f.Status != nil && *f.Status != "" && !validator.IsInSlice(*f.Status, PayrollStatusValues) {
		errs.Add("status", "status must be one of: Generated, Approved, Paid, Rejected")
	}
	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	return errs.Err()
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodMonth         int             `json:"period_month"`
	PeriodYear          int             `json:"period_year"`
	TotalRecords        int             `json:"total_records"`
	HourlyCount         int             `json:"hourly_count"`
	MonthlyCount        int             `json:"monthly_count"`
	TotalGrossSalary    decimal.Decimal `json:"total_gross_salary"`
	TotalIncentives     decimal.Decimal `json:"total_incentives"`
	TotalArrears        decimal.Decimal `json:"total_arrears"`
	TotalFines          decimal.Decimal `json:"total_fines"`
	TotalAdvancedSalary decimal.Decimal `json:"total_advanced_salary"`
	TotalNetSalary      decimal.Decimal `json:"total_net_salary"`
	GeneratedCount      int             `json:"generated_count"`
	ApprovedCount       int             `json:"approved_count"`
	PaidCount           int             `json:"paid_count"`
	RejectedCount       int             `json:"rejected_count"`
}

// ========== DELTA DTOs ==========

type DeltasQuery struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func (q *DeltasQuery) Validate() (Period, error) {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(q.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	from, okFrom := validator.IsValidDate(q.From)
	if !okFrom {
		errs.Add("from", "invalid date format, use YYYY-MM-DD")
	}
	to, okTo := validator.IsValidDate(q.To)
	if !okTo {
		errs.Add("to", "invalid date format, use YYYY-MM-DD")
	}
	if okFrom && okTo && to.Before(from) {
		errs.Add("to", "to must not be before from")
	}

	if err := errs.Err(); err != nil {
		return Period{}, err
	}
	return Period{From: from, To: to}, nil
}

type DeltasResponse struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	DeltaSet
}
