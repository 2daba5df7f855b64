package punch

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var StatusValues = []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}

// PunchRequest asks a reviewer to correct one punch of an attendance day.
type PunchRequest struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Date            time.Time
	PunchType       attendance.PunchType
	RequestedTime   string // "HH:MM"
	ResolvedAt      *time.Time
	Reason          string
	Status          Status
	RejectionReason *string
	ReviewedBy      *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}

func (p PunchRequest) IsPending() bool {
	return p.Status == StatusPending
}
