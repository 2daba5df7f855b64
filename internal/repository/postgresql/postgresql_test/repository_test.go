package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/advancedsalary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkScheduleRepository_CreateDuplicateName(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewWorkScheduleRepository(setup.DB)
	companyID := uuid.NewString()

	ws := schedule.WorkSchedule{
		CompanyID:    companyID,
		Name:         "Night",
		ShiftStart:   "22:00",
		ShiftEnd:     "06:00",
		WorkDays:     []int{1, 2, 3, 4, 5},
		MinimumHours: decimal.NewFromInt(8),
	}
	created, err := repo.Create(ctx, ws)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, created.WorkDays)

	ws.Name = "night"
	_, err = repo.Create(ctx, ws)
	assert.ErrorIs(t, err, schedule.ErrWorkScheduleNameExists)

	require.NoError(t, repo.SoftDelete(ctx, created.ID, companyID))
	_, err = repo.GetByID(ctx, created.ID, companyID)
	assert.ErrorIs(t, err, schedule.ErrWorkScheduleNotFound)
}

func TestEmployeeScheduleRepository_UpdateDaysVersion(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeScheduleRepository(setup.DB)
	companyID := uuid.NewString()
	empID := setup.createTestEmployee(t, ctx, companyID, "")

	created, err := repo.Create(ctx, schedule.EmployeeSchedule{
		EmployeeID: empID,
		CompanyID:  companyID,
		Month:      3,
		Year:       2025,
		Days:       []schedule.DaySchedule{{Date: "2025-03-01", IsDayOff: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	_, err = repo.Create(ctx, created)
	assert.ErrorIs(t, err, schedule.ErrEmployeeScheduleExists)

	edited := created.Clone()
	edited.Days[0].IsDayOff = false
	updated, err := repo.UpdateDays(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	// A writer still holding version 1 loses.
	_, err = repo.UpdateDays(ctx, edited)
	assert.ErrorIs(t, err, schedule.ErrScheduleVersionConflict)

	got, err := repo.Get(ctx, empID, 3, 2025, companyID)
	require.NoError(t, err)
	assert.False(t, got.Days[0].IsDayOff)
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Test Employee", *got.EmployeeName)

	require.NoError(t, repo.Delete(ctx, empID, 3, 2025, companyID))
	assert.ErrorIs(t, repo.Delete(ctx, empID, 3, 2025, companyID), schedule.ErrEmployeeScheduleNotFound)
}

func TestAttendanceRepository_Upsert(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	companyID := uuid.NewString()
	empID := setup.createTestEmployee(t, ctx, companyID, "")

	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	entry := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	exit := time.Date(2025, 3, 3, 17, 0, 0, 0, time.UTC)

	_, err := repo.Upsert(ctx, attendance.Attendance{EmployeeID: empID, CompanyID: companyID, Date: date, FirstEntry: &entry})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, attendance.Attendance{
		EmployeeID: empID, CompanyID: companyID, Date: date, FirstEntry: &entry, LastExit: &exit,
		Source: attendance.SourcePunch,
	})
	require.NoError(t, err)

	records, err := repo.ListByEmployeePeriod(ctx, empID, date, date.AddDate(0, 0, 30), companyID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 480, records[0].WorkedMinutes())
	assert.Equal(t, attendance.SourcePunch, records[0].Source)
}

func TestPayrollRepository_RecoveryAndRelease(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	companyID := uuid.NewString()
	empID := setup.createTestEmployee(t, ctx, companyID, "")

	payrollRepo := postgresql.NewPayrollRepository(setup.DB)
	advanceRepo := postgresql.NewAdvancedSalaryRepository(setup.DB)
	adjustmentRepo := postgresql.NewAdjustmentRepository(setup.DB)

	approved := decimal.NewFromInt(1000)
	advance, err := advanceRepo.Create(ctx, advancedsalary.AdvancedSalary{
		EmployeeID:      empID,
		CompanyID:       companyID,
		RequestedAmount: approved,
		Status:          advancedsalary.StatusPending,
		RequiredDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Installments:    2,
	})
	require.NoError(t, err)
	advance.ApprovedAmount = &approved
	advance.Status = advancedsalary.StatusApproved
	_, err = advanceRepo.Update(ctx, advance)
	require.NoError(t, err)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	bonus, err := adjustmentRepo.Create(ctx, adjustment.Adjustment{
		EmployeeID: empID, CompanyID: companyID, Kind: adjustment.KindIncentive,
		Amount: decimal.NewFromInt(250), Date: &date, Status: adjustment.StatusApproved,
	})
	require.NoError(t, err)

	record, err := payrollRepo.CreatePayrollRecord(ctx, payroll.PayrollRecord{
		CompanyID:    companyID,
		EmployeeID:   empID,
		Type:         employee.PayrollTypeMonthly,
		PeriodMonth:  3,
		PeriodYear:   2025,
		PeriodStart:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		EmployeeName: "Test Employee",
		EmployeeCode: "EMP",
		GrossSalary:  decimal.NewFromInt(30000),
		NetSalary:    decimal.NewFromInt(29750),
		Status:       payroll.PayrollStatusGenerated,
	})
	require.NoError(t, err)

	_, err = payrollRepo.CreatePayrollRecord(ctx, record)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	require.NoError(t, adjustmentRepo.MarkProcessed(ctx, []string{bonus.ID}, record.ID, companyID))
	assert.ErrorIs(t, adjustmentRepo.MarkProcessed(ctx, []string{bonus.ID}, record.ID, companyID), adjustment.ErrAlreadyProcessed)

	err = postgresql.NewTransactor(setup.DB).WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := advanceRepo.ListOutstandingForUpdate(ctx, empID, companyID)
		if err != nil {
			return err
		}
		require.Len(t, locked, 1)
		return advanceRepo.RecordRecovery(ctx, advancedsalary.Recovery{
			AdvancedSalaryID: locked[0].ID,
			PayrollID:        record.ID,
			CompanyID:        companyID,
			InstallmentNo:    locked[0].InstallmentsPaid + 1,
			Amount:           decimal.NewFromInt(500),
		})
	})
	require.NoError(t, err)

	got, err := advanceRepo.GetByID(ctx, advance.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.InstallmentsPaid)
	assert.True(t, got.RecoveredAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, advancedsalary.StatusApproved, got.Status)

	pending, err := adjustmentRepo.ListUnprocessed(ctx, empID, adjustment.KindIncentive, companyID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, adjustmentRepo.ReleaseByPayroll(ctx, record.ID, companyID))
	require.NoError(t, advanceRepo.ReleaseByPayroll(ctx, record.ID, companyID))
	require.NoError(t, payrollRepo.DeletePayrollRecord(ctx, record.ID, companyID))

	got, err = advanceRepo.GetByID(ctx, advance.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.InstallmentsPaid)
	assert.True(t, got.RecoveredAmount.IsZero())

	pending, err = adjustmentRepo.ListUnprocessed(ctx, empID, adjustment.KindIncentive, companyID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestPayrollRepository_SettingsUpsert(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(setup.DB)
	companyID := uuid.NewString()

	_, err := repo.GetSettings(ctx, companyID)
	assert.ErrorIs(t, err, payroll.ErrPayrollSettingsNotFound)

	settings := payroll.DefaultSettings(companyID)
	settings.LateFinePerMinute = decimal.NewFromInt(10)
	saved, err := repo.UpsertSettings(ctx, settings)
	require.NoError(t, err)
	assert.True(t, saved.LateFinePerMinute.Equal(decimal.NewFromInt(10)))

	settings.AbsentDeductionEnabled = false
	saved, err = repo.UpsertSettings(ctx, settings)
	require.NoError(t, err)
	assert.False(t, saved.AbsentDeductionEnabled)
}
