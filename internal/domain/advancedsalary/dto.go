package advancedsalary

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdvancedSalaryRequest struct {
	EmployeeID      string          `json:"employee_id,omitempty"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	RequiredDate    string          `json:"required_date"`
	Installments    int             `json:"installments"`
	Reason          *string         `json:"reason,omitempty"`
}

func (r *CreateAdvancedSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if !r.RequestedAmount.IsPositive() {
		errs.Add("requested_amount", "requested_amount must be greater than 0")
	}
	if _, ok := validator.IsValidDate(r.RequiredDate); !ok {
		errs.Add("required_date", "invalid date format, use YYYY-MM-DD")
	}
	if r.Installments == 0 {
		r.Installments = 1
	}
	if r.Installments < 1 || r.Installments > 24 {
		errs.Add("installments", "installments must be between 1 and 24")
	}

	return errs.Err()
}

type UpdateAdvancedSalaryRequest struct {
	ID              string           `json:"-"`
	RequestedAmount *decimal.Decimal `json:"requested_amount,omitempty"`
	RequiredDate    *string          `json:"required_date,omitempty"`
	Installments    *int             `json:"installments,omitempty"`
	Reason          *string          `json:"reason,omitempty"`
}

func (r *UpdateAdvancedSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.RequestedAmount != nil && !r.RequestedAmount.IsPositive() {
		errs.Add("requested_amount", "requested_amount must be greater than 0")
	}
	if r.RequiredDate != nil {
		if _, ok := validator.IsValidDate(*r.RequiredDate); !ok {
			errs.Add("required_date", "invalid date format, use YYYY-MM-DD")
		}
	}
	if r.Installments != nil && (*r.Installments < 1 || *r.Installments > 24) {
		errs.Add("installments", "installments must be between 1 and 24")
	}

	return errs.Err()
}

type ApproveRequest struct {
	ID             string          `json:"-"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	Installments   *int            `json:"installments,omitempty"`
}

func (r *ApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if !r.ApprovedAmount.IsPositive() {
		errs.Add("approved_amount", "approved_amount must be greater than 0")
	}
	if r.Installments != nil && (*r.Installments < 1 || *r.Installments > 24) {
		errs.Add("installments", "installments must be between 1 and 24")
	}

	return errs.Err()
}

type RejectRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}

	return errs.Err()
}

type AdvancedSalaryFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *AdvancedSalaryFilter) Validate() error {
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
	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Status != nil && *f.Status != "" && !validator.IsInSlice(*f.Status, StatusValues) {
		errs.Add("status", "status must be one of: Pending, Approved, Rejected, Completed")
	}

	return errs.Err()
}

type AdvancedSalaryResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employee_id"`
	EmployeeName     *string          `json:"employee_name,omitempty"`
	EmployeeCode     *string          `json:"employee_code,omitempty"`
	RequestedAmount  decimal.Decimal  `json:"requested_amount"`
	ApprovedAmount   *decimal.Decimal `json:"approved_amount"`
	Status           string           `json:"status"`
	RequiredDate     string           `json:"required_date"`
	Installments     int              `json:"installments"`
	InstallmentsPaid int              `json:"installments_paid"`
	RecoveredAmount  decimal.Decimal  `json:"recovered_amount"`
	NextInstallment  decimal.Decimal  `json:"next_installment"`
	Processed        bool             `json:"processed"`
	Reason           *string          `json:"reason,omitempty"`
	RejectionReason  *string          `json:"rejection_reason,omitempty"`
	ReviewedBy       *string          `json:"reviewed_by,omitempty"`
	ReviewedAt       *string          `json:"reviewed_at,omitempty"`
	CreatedAt        string           `json:"created_at"`
}

func ToResponse(a AdvancedSalary) AdvancedSalaryResponse {
	resp := AdvancedSalaryResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		EmployeeName:     a.EmployeeName,
		EmployeeCode:     a.EmployeeCode,
		RequestedAmount:  a.RequestedAmount,
		ApprovedAmount:   a.ApprovedAmount,
		Status:           string(a.Status),
		RequiredDate:     a.RequiredDate.Format("2006-01-02"),
		Installments:     a.Installments,
		InstallmentsPaid: a.InstallmentsPaid,
		RecoveredAmount:  a.RecoveredAmount,
		NextInstallment:  a.DueAmount(),
		Processed:        a.Processed,
		Reason:           a.Reason,
		RejectionReason:  a.RejectionReason,
		ReviewedBy:       a.ReviewedBy,
		CreatedAt:        a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.ReviewedAt != nil {
		s := a.ReviewedAt.Format("2006-01-02 15:04:05")
		resp.ReviewedAt = &s
	}
	return resp
}

type ListAdvancedSalaryResponse struct {
	TotalCount int64                    `json:"total_count"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	Requests   []AdvancedSalaryResponse `json:"requests"`
}
