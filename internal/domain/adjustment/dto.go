package adjustment

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdjustmentRequest struct {
	Kind       Kind            `json:"-"`
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Reason     *string         `json:"reason,omitempty"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Kind.IsValid() {
		errs.Add("kind", ErrInvalidKind.Error())
	}
	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if !r.Amount.IsPositive() {
		errs.Add("amount", "amount must be greater than 0")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "invalid date format, use YYYY-MM-DD")
	}

	return errs.Err()
}

type UpdateAdjustmentRequest struct {
	ID     string           `json:"-"`
	Kind   Kind             `json:"-"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Date   *string          `json:"date,omitempty"`
	Reason *string          `json:"reason,omitempty"`
}

func (r *UpdateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if !r.Kind.IsValid() {
		errs.Add("kind", ErrInvalidKind.Error())
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		errs.Add("amount", "amount must be greater than 0")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "invalid date format, use YYYY-MM-DD")
		}
	}

	return errs.Err()
}

type ReviewRequest struct {
	ID     string  `json:"-"`
	Kind   Kind    `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

func (r *ReviewRequest) Validate(requireReason bool) error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if !r.Kind.IsValid() {
		errs.Add("kind", ErrInvalidKind.Error())
	}
	if requireReason && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		errs.Add("reason", "reason is required")
	}

	return errs.Err()
}

type AdjustmentFilter struct {
	Kind       Kind    `json:"-"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	DateFrom   *string `json:"date_from,omitempty"`
	DateTo     *string `json:"date_to,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *AdjustmentFilter) Validate() error {
	var errs validator.ValidationErrors

	if !f.Kind.IsValid() {
		errs.Add("kind", ErrInvalidKind.Error())
	}
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
		errs.Add("status", "status must be one of: Pending, Approved, Rejected")
	}
	if f.DateFrom != nil && *f.DateFrom != "" {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs.Add("date_from", "invalid date format, use YYYY-MM-DD")
		}
	}
	if f.DateTo != nil && *f.DateTo != "" {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs.Add("date_to", "invalid date format, use YYYY-MM-DD")
		}
	}

	return errs.Err()
}

type AdjustmentResponse struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Date            *string         `json:"date"`
	Status          string          `json:"status"`
	Reason          *string         `json:"reason,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	Processed       bool            `json:"processed"`
	PayrollID       *string         `json:"payroll_id,omitempty"`
	ReviewedBy      *string         `json:"reviewed_by,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

func ToResponse(a Adjustment) AdjustmentResponse {
	resp := AdjustmentResponse{
		ID:              a.ID,
		Kind:            string(a.Kind),
		EmployeeID:      a.EmployeeID,
		EmployeeName:    a.EmployeeName,
		Amount:          a.Amount,
		Status:          string(a.Status),
		Reason:          a.Reason,
		RejectionReason: a.RejectionReason,
		Processed:       a.Processed,
		PayrollID:       a.PayrollID,
		ReviewedBy:      a.ReviewedBy,
		CreatedAt:       a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.Date != nil {
		s := a.Date.Format("2006-01-02")
		resp.Date = &s
	}
	return resp
}

type ListAdjustmentResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	Adjustments []AdjustmentResponse `json:"adjustments"`
}
