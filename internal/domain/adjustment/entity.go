package adjustment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind separates the three collections that share this shape.
type Kind string

const (
	KindIncentive Kind = "incentive"
	KindArrears   Kind = "arrears"
	KindFine      Kind = "fine"
)

var KindValues = []string{string(KindIncentive), string(KindArrears), string(KindFine)}

func (k Kind) IsValid() bool {
	return k == KindIncentive || k == KindArrears || k == KindFine
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var StatusValues = []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}

// Adjustment is an incentive, arrears payment or fine deduction on one employee's pay.
type Adjustment struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Kind            Kind
	Amount          decimal.Decimal
	Date            *time.Time
	Status          Status
	Reason          *string
	RejectionReason *string
	Processed       bool
	PayrollID       *string
	ReviewedBy      *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}

// IsEditable reports whether the adjustment is still pending and unconsumed.
func (a Adjustment) IsEditable() bool {
	return a.Status == StatusPending && !a.Processed
}
