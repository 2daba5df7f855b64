package employee

import (
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeFilter struct {
	Search           *string `json:"search,omitempty"`
	Department       *string `json:"department,omitempty"`
	PayrollType      *string `json:"payroll_type,omitempty"`
	WorkScheduleID   *string `json:"work_schedule_id,omitempty"`
	EmploymentStatus *string `json:"employment_status,omitempty"`
	Page             int     `json:"page"`
	Limit            int     `json:"limit"`
	SortBy           string  `json:"sort_by"`
	SortOrder        string  `json:"sort_order"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "must not exceed 100")
	}
	if f.PayrollType != nil && *f.PayrollType != "" && !PayrollType(*f.PayrollType).IsValid() {
		errs.Add("payroll_type", "must be 'hourly' or 'monthly'")
	}
	if f.WorkScheduleID != nil && *f.WorkScheduleID != "" && !validator.IsValidUUID(*f.WorkScheduleID) {
		errs.Add("work_schedule_id", "must be a valid UUID")
	}
	if f.EmploymentStatus != nil && *f.EmploymentStatus != "" &&
		!validator.IsInSlice(*f.EmploymentStatus, []string{string(EmploymentStatusActive), string(EmploymentStatusResigned), string(EmploymentStatusTerminated)}) {
		errs.Add("employment_status", "must be one of: active, resigned, terminated")
	}
	if f.SortOrder != "" && !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "must be 'asc' or 'desc'")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	EmployeeCode     string          `json:"employee_code"`
	FullName         string          `json:"full_name"`
	Department       string          `json:"department"`
	Designation      string          `json:"designation"`
	WorkScheduleID   *string         `json:"work_schedule_id,omitempty"`
	WorkScheduleName *string         `json:"work_schedule_name,omitempty"`
	WorkDays         []int           `json:"work_days"`
	PayrollType      string          `json:"payroll_type"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	HourlyRate       decimal.Decimal `json:"hourly_rate"`
	EmploymentStatus string          `json:"employment_status"`
	HireDate         string          `json:"hire_date"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}

func ToResponse(emp Employee) EmployeeResponse {
	workDays := emp.EffectiveWorkDays()
	if workDays == nil {
		workDays = []int{}
	}
	return EmployeeResponse{
		ID:               emp.ID,
		CompanyID:        emp.CompanyID,
		EmployeeCode:     emp.EmployeeCode,
		FullName:         emp.FullName,
		Department:       emp.Department,
		Designation:      emp.Designation,
		WorkScheduleID:   emp.WorkScheduleID,
		WorkScheduleName: emp.WorkScheduleName,
		WorkDays:         workDays,
		PayrollType:      string(emp.PayrollType),
		GrossSalary:      emp.GrossSalary,
		HourlyRate:       emp.HourlyRate,
		EmploymentStatus: string(emp.EmploymentStatus),
		HireDate:         emp.HireDate.Format("2006-01-02"),
		CreatedAt:        emp.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        emp.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
