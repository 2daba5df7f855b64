package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/advancedsalary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID  = "0b9a3c1e-4d5f-4a6b-8c7d-1e2f3a4b5c6d"
	hourlyEmp  = "11111111-1111-4111-8111-111111111111"
	monthlyEmp = "22222222-2222-4222-8222-222222222222"
	noSchedEmp = "33333333-3333-4333-8333-333333333333"
	recordID   = "88888888-8888-4888-8888-888888888888"
)

type txKey struct{}

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txKey{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

type fakePayrollRepo struct {
	payroll.PayrollRepository
	settings *payroll.PayrollSettings
	records  map[string]payroll.PayrollRecord
	existing map[string]bool
	deleted  []string
}

func (f *fakePayrollRepo) GetSettings(_ context.Context, _ string) (payroll.PayrollSettings, error) {
	if f.settings == nil {
		return payroll.PayrollSettings{}, payroll.ErrPayrollSettingsNotFound
	}
	return *f.settings, nil
}

func (f *fakePayrollRepo) UpsertSettings(_ context.Context, s payroll.PayrollSettings) (payroll.PayrollSettings, error) {
	f.settings = &s
	return s, nil
}

func (f *fakePayrollRepo) CreatePayrollRecord(_ context.Context, r payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.ID = "payroll-" + r.EmployeeID
	f.records[r.ID] = r
	return r, nil
}

func (f *fakePayrollRepo) GetPayrollRecordByID(_ context.Context, id, _ string) (payroll.PayrollRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) ExistsForEmployeePeriod(_ context.Context, employeeID string, _, _ int, _ string) (bool, error) {
	return f.existing[employeeID], nil
}

func (f *fakePayrollRepo) UpdatePayrollRecord(_ context.Context, r payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	f.records[r.ID] = r
	return r, nil
}

func (f *fakePayrollRepo) DeletePayrollRecord(_ context.Context, id, _ string) error {
	f.deleted = append(f.deleted, id)
	delete(f.records, id)
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f fakeEmployeeRepo) GetByID(_ context.Context, id, _ string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f fakeEmployeeRepo) GetByIDs(_ context.Context, ids []string, _ string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if e, err := f.GetByID(context.Background(), id, ""); err == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, _ string) ([]employee.Employee, error) {
	return f.employees, nil
}

type fakeAdjustmentRepo struct {
	adjustment.AdjustmentRepository
	items     map[adjustment.Kind][]adjustment.Adjustment
	processed map[string]string
	released  []string
}

func (f *fakeAdjustmentRepo) ListUnprocessed(_ context.Context, employeeID string, kind adjustment.Kind, _ string) ([]adjustment.Adjustment, error) {
	var out []adjustment.Adjustment
	for _, a := range f.items[kind] {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAdjustmentRepo) MarkProcessed(_ context.Context, ids []string, payrollID, _ string) error {
	for _, id := range ids {
		f.processed[id] = payrollID
	}
	return nil
}

func (f *fakeAdjustmentRepo) ReleaseByPayroll(_ context.Context, payrollID, _ string) error {
	f.released = append(f.released, payrollID)
	return nil
}

type fakeAdvanceRepo struct {
	advancedsalary.AdvancedSalaryRepository
	outstanding  []advancedsalary.AdvancedSalary
	recoveries   []advancedsalary.Recovery
	released     []string
	lockedOutTx  bool
	recoveryErrs map[string]error
}

func (f *fakeAdvanceRepo) ListOutstanding(_ context.Context, employeeID, _ string) ([]advancedsalary.AdvancedSalary, error) {
	var out []advancedsalary.AdvancedSalary
	for _, a := range f.outstanding {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAdvanceRepo) ListOutstandingForUpdate(ctx context.Context, employeeID, companyID string) ([]advancedsalary.AdvancedSalary, error) {
	if !inTx(ctx) {
		f.lockedOutTx = true
	}
	return f.ListOutstanding(ctx, employeeID, companyID)
}

func (f *fakeAdvanceRepo) RecordRecovery(_ context.Context, r advancedsalary.Recovery) error {
	if err := f.recoveryErrs[r.AdvancedSalaryID]; err != nil {
		return err
	}
	f.recoveries = append(f.recoveries, r)
	return nil
}

func (f *fakeAdvanceRepo) ReleaseByPayroll(_ context.Context, payrollID, _ string) error {
	f.released = append(f.released, payrollID)
	return nil
}

type fakeAttendanceService struct {
	summaries map[string]attendance.Summary
}

func (f fakeAttendanceService) ListAttendance(_ context.Context, _ attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return attendance.ListAttendanceResponse{}, nil
}

func (f fakeAttendanceService) GetSummary(_ context.Context, employeeID string, month, year int) (attendance.SummaryResponse, error) {
	s, ok := f.summaries[employeeID]
	if !ok {
		return attendance.SummaryResponse{}, schedule.ErrEmployeeScheduleNotFound
	}
	return attendance.SummaryResponse{EmployeeID: employeeID, Month: month, Year: year, Summary: s}, nil
}

type fixture struct {
	svc         *PayrollServiceImpl
	payrolls    *fakePayrollRepo
	adjustments *fakeAdjustmentRepo
	advances    *fakeAdvanceRepo
}

func day(d int) *time.Time {
	t := time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture() fixture {
	settings := payroll.DefaultSettings(companyID)
	settings.LateFinePerMinute = dec("10")
	settings.MissingPunchPenalty = dec("50")

	payrolls := &fakePayrollRepo{settings: &settings, records: map[string]payroll.PayrollRecord{}, existing: map[string]bool{}}
	adjustments := &fakeAdjustmentRepo{
		processed: map[string]string{},
		items: map[adjustment.Kind][]adjustment.Adjustment{
			adjustment.KindIncentive: {
				{ID: "inc-1", EmployeeID: hourlyEmp, Kind: adjustment.KindIncentive, Amount: dec("500"), Date: day(10), Status: adjustment.StatusApproved},
				{ID: "inc-2", EmployeeID: hourlyEmp, Kind: adjustment.KindIncentive, Amount: dec("999"), Date: day(11), Status: adjustment.StatusPending},
			},
			adjustment.KindArrears: {
				{ID: "arr-1", EmployeeID: hourlyEmp, Kind: adjustment.KindArrears, Amount: dec("200"), Date: day(12), Status: adjustment.StatusApproved},
			},
			adjustment.KindFine: {
				{ID: "fine-1", EmployeeID: hourlyEmp, Kind: adjustment.KindFine, Amount: dec("100"), Date: day(13), Status: adjustment.StatusApproved},
			},
		},
	}
	approved := dec("1000")
	advances := &fakeAdvanceRepo{outstanding: []advancedsalary.AdvancedSalary{{
		ID: "adv-1", EmployeeID: hourlyEmp, Status: advancedsalary.StatusApproved, ApprovedAmount: &approved,
		RequiredDate: *day(1), Installments: 2,
	}}}

	emps := fakeEmployeeRepo{employees: []employee.Employee{
		{ID: hourlyEmp, CompanyID: companyID, FullName: "Hana", PayrollType: employee.PayrollTypeHourly, HourlyRate: dec("100"), EmploymentStatus: employee.EmploymentStatusActive},
		{ID: monthlyEmp, CompanyID: companyID, FullName: "Mira", PayrollType: employee.PayrollTypeMonthly, GrossSalary: dec("30000"), EmploymentStatus: employee.EmploymentStatusActive},
		{ID: noSchedEmp, CompanyID: companyID, FullName: "Nia", PayrollType: employee.PayrollTypeHourly, HourlyRate: dec("80"), EmploymentStatus: employee.EmploymentStatusActive},
	}}
	summaries := fakeAttendanceService{summaries: map[string]attendance.Summary{
		hourlyEmp:  {ScheduledDays: 20, PresentDays: 20, WorkedMinutes: 9600, LateMinutes: 30, OvertimeMinutes: 120, MissingPunches: 1},
		monthlyEmp: {ScheduledDays: 22, PresentDays: 20, AbsentDays: 2},
	}}

	svc := NewPayrollService(fakeTx{}, payrolls, emps, adjustments, advances, summaries, events.NewNopPublisher(), time.UTC).(*PayrollServiceImpl)
	return fixture{svc: svc, payrolls: payrolls, adjustments: adjustments, advances: advances}
}

func managerCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, err := jwt.ContextWithClaims(context.Background(), jwt.NewJWTService("test-secret"), user.Claims{
		UserID: "manager-1", CompanyID: companyID, Role: user.RoleOwner,
	})
	require.NoError(t, err)
	return ctx
}

func TestGeneratePayroll_Hourly(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GeneratePayroll(managerCtx(t), payroll.GeneratePayrollRequest{
		Type: employee.PayrollTypeHourly, PeriodMonth: 6, PeriodYear: 2025,
	})

	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	rec := resp.Generated[0]
	assert.Equal(t, hourlyEmp, rec.EmployeeID)
	assert.Equal(t, "16000.00", rec.GrossSalary.StringFixed(2))
	assert.Equal(t, "300.00", rec.LateFines.StringFixed(2))
	assert.Equal(t, "300.00", rec.OvertimePay.StringFixed(2))
	assert.Equal(t, "50.00", rec.MissingDeduction.StringFixed(2))
	assert.Equal(t, "500.00", rec.OtherIncentives.StringFixed(2))
	assert.Equal(t, "200.00", rec.Arrears.StringFixed(2))
	assert.Equal(t, "100.00", rec.FineDeductions.StringFixed(2))
	assert.Equal(t, "500.00", rec.AdvancedSalary.StringFixed(2))
	assert.Equal(t, "16050.00", rec.NetSalary.StringFixed(2))

	// The monthly employee is filtered by type, the unscheduled one is skipped.
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, noSchedEmp, resp.Skipped[0].EmployeeID)
	assert.Equal(t, payroll.ErrEmployeeHasNoSchedule.Error(), resp.Skipped[0].Reason)

	assert.Equal(t, map[string]string{"inc-1": rec.ID, "arr-1": rec.ID, "fine-1": rec.ID}, f.adjustments.processed)
	require.Len(t, f.advances.recoveries, 1)
	assert.Equal(t, 1, f.advances.recoveries[0].InstallmentNo)
	assert.Equal(t, "500.00", f.advances.recoveries[0].Amount.StringFixed(2))
}

func TestGeneratePayroll_Monthly(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GeneratePayroll(managerCtx(t), payroll.GeneratePayrollRequest{
		Type: employee.PayrollTypeMonthly, PeriodMonth: 6, PeriodYear: 2025, EmployeeIDs: []string{monthlyEmp, hourlyEmp},
	})

	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	rec := resp.Generated[0]
	assert.Equal(t, "2727.27", rec.AbsentDeductions.StringFixed(2))
	assert.True(t, rec.LateFines.IsZero())
	assert.Equal(t, "27272.73", rec.NetSalary.StringFixed(2))

	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, employee.ErrPayrollTypeMismatch.Error(), resp.Skipped[0].Reason)
}

func TestGeneratePayroll_ExistingRecordSkipped(t *testing.T) {
	f := newFixture()
	f.payrolls.existing[monthlyEmp] = true

	resp, err := f.svc.GeneratePayroll(managerCtx(t), payroll.GeneratePayrollRequest{
		Type: employee.PayrollTypeMonthly, PeriodMonth: 6, PeriodYear: 2025,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Generated)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, payroll.ErrPayrollRecordAlreadyExists.Error(), resp.Skipped[0].Reason)
}

func TestGeneratePayroll_InstallmentFromLockedRead(t *testing.T) {
	f := newFixture()
	// A run for the previous month already booked the first installment.
	f.advances.outstanding[0].InstallmentsPaid = 1
	f.advances.outstanding[0].RecoveredAmount = dec("500")

	resp, err := f.svc.GeneratePayroll(managerCtx(t), payroll.GeneratePayrollRequest{
		Type: employee.PayrollTypeHourly, PeriodMonth: 7, PeriodYear: 2025, EmployeeIDs: []string{hourlyEmp},
	})

	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	assert.False(t, f.advances.lockedOutTx)
	require.Len(t, f.advances.recoveries, 1)
	assert.Equal(t, 2, f.advances.recoveries[0].InstallmentNo)
	assert.Equal(t, "500.00", f.advances.recoveries[0].Amount.StringFixed(2))
}

func TestGeneratePayroll_UnexpectedFailureSkipsEmployee(t *testing.T) {
	f := newFixture()
	approved := dec("300")
	f.advances.outstanding = append(f.advances.outstanding, advancedsalary.AdvancedSalary{
		ID: "adv-2", EmployeeID: monthlyEmp, Status: advancedsalary.StatusApproved, ApprovedAmount: &approved,
		RequiredDate: *day(1), Installments: 1,
	})
	f.advances.recoveryErrs = map[string]error{"adv-1": errors.New("duplicate installment")}
	monthly := f.svc.employeeRepo.(fakeEmployeeRepo)
	monthly.employees[1].PayrollType = employee.PayrollTypeHourly
	monthly.employees[1].HourlyRate = dec("90")
	f.svc.attendanceSvc.(fakeAttendanceService).summaries[monthlyEmp] = attendance.Summary{ScheduledDays: 1, PresentDays: 1, WorkedMinutes: 60}

	resp, err := f.svc.GeneratePayroll(managerCtx(t), payroll.GeneratePayrollRequest{
		Type: employee.PayrollTypeHourly, PeriodMonth: 6, PeriodYear: 2025, EmployeeIDs: []string{hourlyEmp, monthlyEmp},
	})

	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	assert.Equal(t, monthlyEmp, resp.Generated[0].EmployeeID)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, hourlyEmp, resp.Skipped[0].EmployeeID)
	assert.Equal(t, payroll.ErrPayrollGenerationFailed.Error(), resp.Skipped[0].Reason)
}

func TestGetDeltas(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetDeltas(managerCtx(t), payroll.DeltasQuery{EmployeeID: hourlyEmp, From: "2025-06-11", To: "2025-06-30"})

	require.NoError(t, err)
	assert.Empty(t, resp.Incentives)
	assert.Len(t, resp.Arrears, 1)
	assert.Len(t, resp.Fines, 1)
	assert.Len(t, resp.AdvancedSalary, 1)
	assert.Equal(t, "500.00", resp.Totals.AdvancedSalary.StringFixed(2))
}

func TestGetSettings_DefaultsWhenMissing(t *testing.T) {
	f := newFixture()
	f.payrolls.settings = nil

	resp, err := f.svc.GetSettings(managerCtx(t))

	require.NoError(t, err)
	assert.Equal(t, "1.5", resp.OvertimeRateMultiplier.String())
	assert.True(t, resp.AbsentDeductionEnabled)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	f := newFixture()
	f.payrolls.records[recordID] = payroll.PayrollRecord{ID: recordID, Type: employee.PayrollTypeMonthly, Status: payroll.PayrollStatusGenerated}
	ctx := managerCtx(t)

	_, err := f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: recordID, Type: employee.PayrollTypeMonthly, Status: "Paid"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	_, err = f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: recordID, Type: employee.PayrollTypeHourly, Status: "Approved"})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)

	resp, err := f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: recordID, Type: employee.PayrollTypeMonthly, Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Approved", resp.Status)
	assert.Equal(t, "manager-1", *resp.ReviewedBy)

	resp, err = f.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: recordID, Type: employee.PayrollTypeMonthly, Status: "Paid"})
	require.NoError(t, err)
	assert.NotNil(t, resp.PaidAt)

	err = f.svc.DeletePayrollRecord(ctx, employee.PayrollTypeMonthly, recordID)
	assert.ErrorIs(t, err, payroll.ErrCannotDeletePaidRecord)
}

func TestUpdatePayrollRecord_RecalculatesNet(t *testing.T) {
	f := newFixture()
	f.payrolls.records[recordID] = payroll.PayrollRecord{
		ID: recordID, Type: employee.PayrollTypeMonthly, Status: payroll.PayrollStatusGenerated, GrossSalary: dec("30000"),
	}
	deduction := dec("1000")

	resp, err := f.svc.UpdatePayrollRecord(managerCtx(t), payroll.UpdatePayrollRecordRequest{
		ID: recordID, Type: employee.PayrollTypeMonthly, OtherDeductions: &deduction,
	})

	require.NoError(t, err)
	assert.Equal(t, "29000.00", resp.NetSalary.StringFixed(2))
}

func TestUpdatePayrollRecord_DeltaTotalsReadOnly(t *testing.T) {
	f := newFixture()
	resp, err := f.svc.GeneratePayroll(managerCtx(t), payroll.GeneratePayrollRequest{
		Type: employee.PayrollTypeHourly, PeriodMonth: 6, PeriodYear: 2025,
	})
	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	generated := f.payrolls.records[resp.Generated[0].ID]
	generated.ID = recordID
	f.payrolls.records[recordID] = generated
	zero := decimal.Zero

	_, err = f.svc.UpdatePayrollRecord(managerCtx(t), payroll.UpdatePayrollRecordRequest{
		ID: recordID, Type: employee.PayrollTypeHourly, AdvancedSalary: &zero, Arrears: &zero,
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Equal(t, []string{"arrears", "advanced_salary"}, fieldsOf(validationErrs))

	stored := f.payrolls.records[recordID]
	assert.Equal(t, "500.00", stored.AdvancedSalary.StringFixed(2))
	assert.Equal(t, "200.00", stored.Arrears.StringFixed(2))
	assert.Equal(t, "16050.00", stored.NetSalary.StringFixed(2))
	assert.Equal(t, resp.Generated[0].ID, f.adjustments.processed["arr-1"])
	require.Len(t, f.advances.recoveries, 1)
}

func TestUpdatePayrollRecordRequest_ValidationOrder(t *testing.T) {
	negative := dec("-1")
	req := payroll.UpdatePayrollRecordRequest{
		ID: recordID, Type: employee.PayrollTypeHourly,
		GrossSalary: &negative, LateFines: &negative, OvertimePay: &negative,
		AbsentDeductions: &negative, MissingDeduction: &negative, OtherDeductions: &negative,
	}

	for i := 0; i < 5; i++ {
		var validationErrs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &validationErrs)
		assert.Equal(t, []string{
			"gross_salary", "late_fines", "overtime_pay", "absent_deductions", "missing_deduction", "other_deductions",
		}, fieldsOf(validationErrs))
	}
}

func fieldsOf(errs validator.ValidationErrors) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestDeletePayrollRecord_ReleasesDeltas(t *testing.T) {
	f := newFixture()
	f.payrolls.records[recordID] = payroll.PayrollRecord{ID: recordID, Type: employee.PayrollTypeHourly, Status: payroll.PayrollStatusRejected}

	require.NoError(t, f.svc.DeletePayrollRecord(managerCtx(t), employee.PayrollTypeHourly, recordID))

	assert.Equal(t, []string{recordID}, f.payrolls.deleted)
	assert.Equal(t, []string{recordID}, f.adjustments.released)
	assert.Equal(t, []string{recordID}, f.advances.released)
}

func TestCalculate(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CalculateMonthly(context.Background(), payroll.CalculateMonthlyRequest{MonthlyInputs: payroll.MonthlyInputs{
		GrossSalary: dec("5000"), AbsentDeductions: dec("250.505"),
	}})

	require.NoError(t, err)
	assert.Equal(t, "monthly", resp.Type)
	assert.Equal(t, "4749.50", resp.Display)
}
