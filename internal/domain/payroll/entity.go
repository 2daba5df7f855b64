package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// PayrollSettings - Company payroll configuration
type PayrollSettings struct {
	ID                     string
	CompanyID              string
	LateFinePerMinute      decimal.Decimal
	OvertimeRateMultiplier decimal.Decimal
	MissingPunchPenalty    decimal.Decimal
	AbsentDeductionEnabled bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DefaultSettings applies when a company never saved its own.
func DefaultSettings(companyID string) PayrollSettings {
	return PayrollSettings{
		CompanyID:              companyID,
		LateFinePerMinute:      decimal.Zero,
		OvertimeRateMultiplier: decimal.NewFromFloat(1.5),
		MissingPunchPenalty:    decimal.Zero,
		AbsentDeductionEnabled: true,
	}
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusGenerated PayrollStatus = "Generated"
	PayrollStatusApproved  PayrollStatus = "Approved"
	PayrollStatusPaid      PayrollStatus = "Paid"
	PayrollStatusRejected  PayrollStatus = "Rejected"
)

var PayrollStatusValues = []string{
	string(PayrollStatusGenerated),
	string(PayrollStatusApproved),
	string(PayrollStatusPaid),
	string(PayrollStatusRejected),
}

var allowedTransitions = map[PayrollStatus][]PayrollStatus{
	PayrollStatusGenerated: {PayrollStatusApproved, PayrollStatusRejected},
	PayrollStatusApproved:  {PayrollStatusPaid},
}

// CanTransition reports whether a record may move from s to next.
func (s PayrollStatus) CanTransition(next PayrollStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PayrollRecord - Generated payroll result. GrossSalary is the actual (worked) gross
// for hourly records and the contractual gross for monthly ones.
type PayrollRecord struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Type        employee.PayrollType
	PeriodMonth int
	PeriodYear  int
	PeriodStart time.Time
	PeriodEnd   time.Time

	// Employee snapshot
	EmployeeName string
	EmployeeCode string
	Department   string
	Designation  string
	HourlyRate   decimal.Decimal

	// Attendance counters
	ScheduledDays   int
	PresentDays     int
	AbsentDays      int
	WorkedMinutes   int
	LateMinutes     int
	OvertimeMinutes int
	MissingPunches  int

	GrossSalary      decimal.Decimal
	LateFines        decimal.Decimal
	OvertimePay      decimal.Decimal
	AbsentDeductions decimal.Decimal
	MissingDeduction decimal.Decimal
	OtherDeductions  decimal.Decimal
	OtherIncentives  decimal.Decimal
	Arrears          decimal.Decimal
	FineDeductions   decimal.Decimal
	AdvancedSalary   decimal.Decimal
	NetSalary        decimal.Decimal

	Status     PayrollStatus
	Notes      *string
	ReviewedBy *string
	ReviewedAt *time.Time
	PaidBy     *string
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r PayrollRecord) HourlyInputs() HourlyInputs {
	return HourlyInputs{
		ActualGrossSalary: r.GrossSalary,
		LateFines:         r.LateFines,
		OtherDeductions:   r.OtherDeductions,
		OvertimePay:       r.OvertimePay,
		OtherIncentives:   r.OtherIncentives,
		Arrears:           r.Arrears,
		FineDeductions:    r.FineDeductions,
		AdvancedSalary:    r.AdvancedSalary,
		AbsentDeductions:  r.AbsentDeductions,
		MissingDeduction:  r.MissingDeduction,
	}
}

func (r PayrollRecord) MonthlyInputs() MonthlyInputs {
	return MonthlyInputs{
		GrossSalary:      r.GrossSalary,
		AbsentDeductions: r.AbsentDeductions,
		OtherDeductions:  r.OtherDeductions,
		OtherIncentives:  r.OtherIncentives,
		Arrears:          r.Arrears,
		FineDeductions:   r.FineDeductions,
		AdvancedSalary:   r.AdvancedSalary,
		MissingDeduction: r.MissingDeduction,
	}
}

// Recalculate sets NetSalary from the stored inputs. Every write path calls it.
func (r *PayrollRecord) Recalculate() {
	if r.Type == employee.PayrollTypeHourly {
		r.NetSalary = RoundCurrency(r.HourlyInputs().NetSalary())
		return
	}
	// Late fines and overtime are not part of the monthly formula.
	r.LateFines = decimal.Zero
	r.OvertimePay = decimal.Zero
	r.NetSalary = RoundCurrency(r.MonthlyInputs().NetSalary())
}

// IsEditable reports whether inputs may still change.
func (r PayrollRecord) IsEditable() bool {
	return r.Status == PayrollStatusGenerated
}
