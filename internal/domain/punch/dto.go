package punch

import (
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type CreatePunchRequest struct {
	EmployeeID    string `json:"employee_id,omitempty"`
	Date          string `json:"date"`
	PunchType     string `json:"punch_type"`
	RequestedTime string `json:"requested_time"`
	Reason        string `json:"reason"`
}

func (r *CreatePunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "invalid date format, use YYYY-MM-DD")
	}
	if !attendance.PunchType(r.PunchType).IsValid() {
		errs.Add("punch_type", "punch_type must be one of: "+strings.Join(attendance.PunchTypeValues, ", "))
	}
	if _, ok := validator.IsValidTime(r.RequestedTime); !ok {
		errs.Add("requested_time", "requested_time must be in HH:MM format")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}

	return errs.Err()
}

type UpdatePunchRequest struct {
	ID            string  `json:"-"`
	Date          *string `json:"date,omitempty"`
	PunchType     *string `json:"punch_type,omitempty"`
	RequestedTime *string `json:"requested_time,omitempty"`
	Reason        *string `json:"reason,omitempty"`
}

func (r *UpdatePunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "invalid date format, use YYYY-MM-DD")
		}
	}
	if r.PunchType != nil && !attendance.PunchType(*r.PunchType).IsValid() {
		errs.Add("punch_type", "punch_type must be one of: "+strings.Join(attendance.PunchTypeValues, ", "))
	}
	if r.RequestedTime != nil {
		if _, ok := validator.IsValidTime(*r.RequestedTime); !ok {
			errs.Add("requested_time", "requested_time must be in HH:MM format")
		}
	}
	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs.Add("reason", "reason cannot be empty")
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

type PunchFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	DateFrom   *string `json:"date_from,omitempty"`
	DateTo     *string `json:"date_to,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *PunchFilter) Validate() error {
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

type PunchResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	Date            string  `json:"date"`
	PunchType       string  `json:"punch_type"`
	RequestedTime   string  `json:"requested_time"`
	ResolvedAt      *string `json:"resolved_at,omitempty"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func ToResponse(p PunchRequest) PunchResponse {
	resp := PunchResponse{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		EmployeeName:    p.EmployeeName,
		Date:            p.Date.Format("2006-01-02"),
		PunchType:       string(p.PunchType),
		RequestedTime:   p.RequestedTime,
		Reason:          p.Reason,
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason,
		ReviewedBy:      p.ReviewedBy,
		CreatedAt:       p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.ResolvedAt != nil {
		s := p.ResolvedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ResolvedAt = &s
	}
	if p.ReviewedAt != nil {
		s := p.ReviewedAt.Format("2006-01-02 15:04:05")
		resp.ReviewedAt = &s
	}
	return resp
}

type ListPunchResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Requests   []PunchResponse `json:"requests"`
}
