package advancedsalary

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCompleted Status = "Completed"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusCompleted),
}

// AdvancedSalary is a salary draw recovered over one or more payroll runs.
type AdvancedSalary struct {
	ID               string
	EmployeeID       string
	CompanyID        string
	RequestedAmount  decimal.Decimal
	ApprovedAmount   *decimal.Decimal
	Status           Status
	RequiredDate     time.Time
	Installments     int
	InstallmentsPaid int
	RecoveredAmount  decimal.Decimal
	Processed        bool
	Reason           *string
	RejectionReason  *string
	ReviewedBy       *string
	ReviewedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

// Recovery is one installment deducted by a payroll run.
type Recovery struct {
	ID               string
	AdvancedSalaryID string
	PayrollID        string
	CompanyID        string
	InstallmentNo    int
	Amount           decimal.Decimal
	CreatedAt        time.Time
}

// DueAmount is the installment owed in the next payroll run. Installments are the
// approved amount split evenly at two decimals; the last one takes the remainder.
func (a AdvancedSalary) DueAmount() decimal.Decimal {
	if a.Status != StatusApproved || a.ApprovedAmount == nil || a.Installments <= 0 {
		return decimal.Zero
	}
	remaining := a.ApprovedAmount.Sub(a.RecoveredAmount)
	if !remaining.IsPositive() {
		return decimal.Zero
	}
	if a.InstallmentsPaid >= a.Installments-1 {
		return remaining
	}
	installment := a.ApprovedAmount.Div(decimal.NewFromInt(int64(a.Installments))).Round(2)
	if installment.GreaterThan(remaining) {
		return remaining
	}
	return installment
}

// IsEditable reports whether the requester may still change or withdraw it.
func (a AdvancedSalary) IsEditable() bool {
	return a.Status == StatusPending
}

// CanDelete refuses once any installment has been recovered.
func (a AdvancedSalary) CanDelete() bool {
	return !a.Processed && a.InstallmentsPaid == 0 && a.Status != StatusCompleted
}
