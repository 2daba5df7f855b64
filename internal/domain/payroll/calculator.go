package payroll

import (
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// HourlyInputs are the components of an hourly payroll.
type HourlyInputs struct {
	ActualGrossSalary decimal.Decimal `json:"actual_gross_salary"`
	LateFines         decimal.Decimal `json:"late_fines"`
	OtherDeductions   decimal.Decimal `json:"other_deductions"`
	OvertimePay       decimal.Decimal `json:"overtime_pay"`
	OtherIncentives   decimal.Decimal `json:"other_incentives"`
	Arrears           decimal.Decimal `json:"arrears"`
	FineDeductions    decimal.Decimal `json:"fine_deductions"`
	AdvancedSalary    decimal.Decimal `json:"advanced_salary"`
	AbsentDeductions  decimal.Decimal `json:"absent_deductions"`
	MissingDeduction  decimal.Decimal `json:"missing_deduction"`
}

// NetSalary = actual gross - late fines - other deductions + overtime + incentives
// + arrears - fines - advance - absent deductions - missing punch deduction.
func (in HourlyInputs) NetSalary() decimal.Decimal {
	credits := decimal.Sum(in.ActualGrossSalary, in.OvertimePay, in.OtherIncentives, in.Arrears)
	debits := decimal.Sum(in.LateFines, in.OtherDeductions, in.FineDeductions, in.AdvancedSalary, in.AbsentDeductions, in.MissingDeduction)
	return credits.Sub(debits)
}

// MonthlyInputs are the components of a monthly payroll.
type MonthlyInputs struct {
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	AbsentDeductions decimal.Decimal `json:"absent_deductions"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	OtherIncentives  decimal.Decimal `json:"other_incentives"`
	Arrears          decimal.Decimal `json:"arrears"`
	FineDeductions   decimal.Decimal `json:"fine_deductions"`
	AdvancedSalary   decimal.Decimal `json:"advanced_salary"`
	MissingDeduction decimal.Decimal `json:"missing_deduction"`
}

// NetSalary = gross - absent deductions - other deductions + incentives + arrears
// - fines - advance - missing punch deduction.
func (in MonthlyInputs) NetSalary() decimal.Decimal {
	credits := decimal.Sum(in.GrossSalary, in.OtherIncentives, in.Arrears)
	debits := decimal.Sum(in.AbsentDeductions, in.OtherDeductions, in.FineDeductions, in.AdvancedSalary, in.MissingDeduction)
	return credits.Sub(debits)
}

// HourlyGross pays worked minutes at rate per hour.
func HourlyGross(workedMinutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	return RoundCurrency(hourlyRate.Mul(decimal.NewFromInt(int64(workedMinutes))).Div(minutesPerHour))
}

// OvertimePay pays overtime minutes at rate per hour times multiplier.
func OvertimePay(overtimeMinutes int, hourlyRate, multiplier decimal.Decimal) decimal.Decimal {
	return RoundCurrency(hourlyRate.Mul(multiplier).Mul(decimal.NewFromInt(int64(overtimeMinutes))).Div(minutesPerHour))
}

// LateFines charges perMinute for every late minute.
func LateFines(lateMinutes int, perMinute decimal.Decimal) decimal.Decimal {
	return RoundCurrency(perMinute.Mul(decimal.NewFromInt(int64(lateMinutes))))
}

// MonthlyAbsentDeduction prorates gross over the scheduled days.
func MonthlyAbsentDeduction(gross decimal.Decimal, absentDays, scheduledDays int) decimal.Decimal {
	if scheduledDays <= 0 || absentDays <= 0 {
		return decimal.Zero
	}
	if absentDays > scheduledDays {
		absentDays = scheduledDays
	}
	return RoundCurrency(gross.Mul(decimal.NewFromInt(int64(absentDays))).Div(decimal.NewFromInt(int64(scheduledDays))))
}

// MissingDeduction charges penalty per missing punch.
func MissingDeduction(missingPunches int, penalty decimal.Decimal) decimal.Decimal {
	return RoundCurrency(penalty.Mul(decimal.NewFromInt(int64(missingPunches))))
}

// RoundCurrency rounds half away from zero to 2 decimal places.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
