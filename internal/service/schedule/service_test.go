package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID = "0b9a3c1e-4d5f-4a6b-8c7d-1e2f3a4b5c6d"
	slotID    = "7f1e2d3c-4b5a-4968-8776-655443322110"
	empAlice  = "11111111-1111-4111-8111-111111111111"
	empBob    = "22222222-2222-4222-8222-222222222222"
	empCarol  = "33333333-3333-4333-8333-333333333333"
)

func managerCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, err := jwt.ContextWithClaims(context.Background(), jwt.NewJWTService("test-secret"), user.Claims{
		UserID:    "manager-1",
		CompanyID: companyID,
		Role:      user.RoleManager,
	})
	require.NoError(t, err)
	return ctx
}

func employeeCtx(t *testing.T, employeeID string) context.Context {
	t.Helper()
	ctx, err := jwt.ContextWithClaims(context.Background(), jwt.NewJWTService("test-secret"), user.Claims{
		UserID:     "user-" + employeeID,
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Role:       user.RoleEmployee,
	})
	require.NoError(t, err)
	return ctx
}

func dayShift() schedule.WorkSchedule {
	return schedule.WorkSchedule{
		ID:                 slotID,
		CompanyID:          companyID,
		Name:               "Day",
		ShiftStart:         "09:00",
		ShiftEnd:           "17:00",
		WorkDays:           []int{1, 2, 3, 4, 5},
		GracePeriodMinutes: 10,
	}
}

func slotRepo() *fakeWorkScheduleRepo {
	return &fakeWorkScheduleRepo{
		getFn: func(_ context.Context, id, _ string) (schedule.WorkSchedule, error) {
			if id == slotID {
				return dayShift(), nil
			}
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		},
	}
}

func withSlot(emp employee.Employee) employee.Employee {
	id := slotID
	emp.WorkScheduleID = &id
	emp.CompanyID = companyID
	return emp
}

func resolvedJune(t *testing.T, employeeID string) schedule.EmployeeSchedule {
	t.Helper()
	days, err := schedule.ResolveMonth(dayShift(), dayShift().WorkDays, 6, 2025, time.UTC)
	require.NoError(t, err)
	return schedule.EmployeeSchedule{ID: "sched-" + employeeID, EmployeeID: employeeID, CompanyID: companyID, Month: 6, Year: 2025, Days: days, Version: 1}
}

func newService(repo *memScheduleRepo, emps *fakeEmployeeRepo, pub events.Publisher) (*ScheduleServiceImpl, *fakeTx) {
	tx := &fakeTx{}
	if pub == nil {
		pub = events.NewNopPublisher()
	}
	svc := NewScheduleService(tx, slotRepo(), repo, emps, pub, time.UTC).(*ScheduleServiceImpl)
	return svc, tx
}

func TestCreateWorkSchedule_ValidationError(t *testing.T) {
	svc, _ := newService(newMemScheduleRepo(), &fakeEmployeeRepo{}, nil)

	_, err := svc.CreateWorkSchedule(managerCtx(t), schedule.CreateWorkScheduleRequest{Name: "Night", ShiftStart: "25:00", ShiftEnd: "06:00"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "shift_start")
	assert.Contains(t, verrs.ToMap(), "grace_period_minutes")
}

func TestCreateWorkSchedule_Overnight(t *testing.T) {
	svc, _ := newService(newMemScheduleRepo(), &fakeEmployeeRepo{}, nil)
	svc.workScheduleRepo = &fakeWorkScheduleRepo{
		createFn: func(_ context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
			assert.Equal(t, companyID, ws.CompanyID)
			ws.ID = slotID
			return ws, nil
		},
	}
	grace := 5

	resp, err := svc.CreateWorkSchedule(managerCtx(t), schedule.CreateWorkScheduleRequest{
		Name: " Night ", ShiftStart: "22:00", ShiftEnd: "06:00", WorkDays: []int{1, 2, 3}, GracePeriodMinutes: &grace,
	})

	require.NoError(t, err)
	assert.Equal(t, "Night", resp.Name)
	assert.True(t, resp.IsOvernight)
}

func TestDeleteWorkSchedule_InUse(t *testing.T) {
	svc, _ := newService(newMemScheduleRepo(), &fakeEmployeeRepo{inUse: 3}, nil)

	err := svc.DeleteWorkSchedule(managerCtx(t), slotID)

	assert.ErrorIs(t, err, schedule.ErrWorkScheduleInUse)
}

func TestGenerateEmployeeSchedules_SkipsAndGenerates(t *testing.T) {
	repo := newMemScheduleRepo(resolvedJune(t, empBob))
	emps := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		empAlice: withSlot(employee.Employee{ID: empAlice, FullName: "Alice", EmployeeCode: "E-1"}),
		empBob:   withSlot(employee.Employee{ID: empBob, FullName: "Bob"}),
		empCarol: {ID: empCarol, CompanyID: companyID, FullName: "Carol"},
	}}
	svc, _ := newService(repo, emps, nil)
	missing := "44444444-4444-4444-8444-444444444444"

	resp, err := svc.GenerateEmployeeSchedules(managerCtx(t), schedule.GenerateSchedulesRequest{
		EmployeeIDs: []string{empAlice, empBob, empCarol, missing},
		Month:       6,
		Year:        2025,
	})

	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	assert.Equal(t, empAlice, resp.Generated[0].EmployeeID)
	assert.Len(t, resp.Generated[0].Days, 30)
	assert.Equal(t, 21, resp.Generated[0].WorkingDays)

	reasons := map[string]string{}
	for _, s := range resp.Skipped {
		reasons[s.EmployeeID] = s.Reason
	}
	assert.Equal(t, schedule.ErrEmployeeScheduleExists.Error(), reasons[empBob])
	assert.Equal(t, employee.ErrNoWorkSchedule.Error(), reasons[empCarol])
	assert.Equal(t, employee.ErrEmployeeNotFound.Error(), reasons[missing])
}

func TestGenerateEmployeeSchedules_Overwrite(t *testing.T) {
	existing := resolvedJune(t, empBob)
	existing.Days = existing.Days[:1]
	repo := newMemScheduleRepo(existing)
	emps := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		empBob: withSlot(employee.Employee{ID: empBob}),
	}}
	svc, _ := newService(repo, emps, nil)

	resp, err := svc.GenerateEmployeeSchedules(managerCtx(t), schedule.GenerateSchedulesRequest{
		EmployeeIDs: []string{empBob}, Month: 6, Year: 2025, Overwrite: true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	assert.Len(t, repo.schedules[empBob].Days, 30)
}

func TestGetEmployeeSchedule_EmployeeCannotReadOthers(t *testing.T) {
	svc, _ := newService(newMemScheduleRepo(resolvedJune(t, empBob)), &fakeEmployeeRepo{}, nil)

	_, err := svc.GetEmployeeSchedule(employeeCtx(t, empAlice), empBob, schedule.PeriodQuery{Month: 6, Year: 2025})
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	resp, err := svc.GetEmployeeSchedule(employeeCtx(t, empBob), empBob, schedule.PeriodQuery{Month: 6, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, empBob, resp.EmployeeID)
}

func TestFetchEmployeeSchedules_PartialFailure(t *testing.T) {
	repo := newMemScheduleRepo(resolvedJune(t, empAlice), resolvedJune(t, empCarol))
	svc, _ := newService(repo, &fakeEmployeeRepo{}, nil)

	resp, err := svc.FetchEmployeeSchedules(managerCtx(t), schedule.FetchSchedulesRequest{
		EmployeeIDs: []string{empAlice, empBob, empCarol},
		Month:       6,
		Year:        2025,
	})

	require.NoError(t, err)
	require.Len(t, resp.Schedules, 2)
	assert.Equal(t, empAlice, resp.Schedules[0].EmployeeID)
	assert.Equal(t, empCarol, resp.Schedules[1].EmployeeID)
	assert.Equal(t, 1, resp.FailedCount)
	assert.Equal(t, empBob, resp.Failed[0].EmployeeID)
}

func TestUpdateScheduleDay_DayOffAndBack(t *testing.T) {
	repo := newMemScheduleRepo(resolvedJune(t, empAlice))
	svc, tx := newService(repo, &fakeEmployeeRepo{}, nil)
	ctx := managerCtx(t)

	off, on := true, false
	resp, err := svc.UpdateScheduleDay(ctx, schedule.UpdateScheduleDayRequest{
		EmployeeID: empAlice, Month: 6, Year: 2025, Date: "2025-06-02", IsDayOff: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.WorkingDays)
	assert.Equal(t, 2, resp.Version)
	assert.Equal(t, 1, tx.calls)

	_, err = svc.UpdateScheduleDay(ctx, schedule.UpdateScheduleDayRequest{
		EmployeeID: empAlice, Month: 6, Year: 2025, Date: "2025-06-02", IsDayOff: &on,
	})
	assert.ErrorIs(t, err, schedule.ErrTimeSlotRequired)

	start, end := "22:00", "06:00"
	resp, err = svc.UpdateScheduleDay(ctx, schedule.UpdateScheduleDayRequest{
		EmployeeID: empAlice, Month: 6, Year: 2025, Date: "2025-06-02", Start: &start, End: &end,
	})
	require.NoError(t, err)
	day := resp.Days[1]
	assert.False(t, day.IsDayOff)
	assert.True(t, day.DayChanged)
	assert.Equal(t, 3, day.End.Day())
}

func TestUpdateScheduleDay_NotesOnlyKeepsDayOff(t *testing.T) {
	repo := newMemScheduleRepo(resolvedJune(t, empAlice))
	svc, _ := newService(repo, &fakeEmployeeRepo{}, nil)
	ctx := managerCtx(t)

	// 2025-06-01 is a Sunday and starts as a day off.
	note := "public holiday"
	resp, err := svc.UpdateScheduleDay(ctx, schedule.UpdateScheduleDayRequest{
		EmployeeID: empAlice, Month: 6, Year: 2025, Date: "2025-06-01", Notes: &note,
	})

	require.NoError(t, err)
	day := resp.Days[0]
	assert.True(t, day.IsDayOff)
	require.NotNil(t, day.Notes)
	assert.Equal(t, note, *day.Notes)
}

func TestUpdateScheduleDay_DateOutsideMonth(t *testing.T) {
	svc, _ := newService(newMemScheduleRepo(resolvedJune(t, empAlice)), &fakeEmployeeRepo{}, nil)
	note := "training"

	_, err := svc.UpdateScheduleDay(managerCtx(t), schedule.UpdateScheduleDayRequest{
		EmployeeID: empAlice, Month: 6, Year: 2025, Date: "2025-07-01", Notes: &note,
	})

	assert.ErrorIs(t, err, schedule.ErrDayNotInSchedule)
}

func TestBatchUpdateSchedules_AllOrNothing(t *testing.T) {
	repo := newMemScheduleRepo(resolvedJune(t, empAlice))
	svc, _ := newService(repo, &fakeEmployeeRepo{}, nil)
	off := true

	_, err := svc.BatchUpdateSchedules(managerCtx(t), schedule.BatchUpdateRequest{
		Month: 6, Year: 2025, IsDayOff: &off,
		Selections: []schedule.DaySelection{
			{EmployeeID: empAlice, Dates: []string{"2025-06-02"}},
			{EmployeeID: empBob, Dates: []string{"2025-06-02"}},
		},
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "selections[1].employee_id")
	assert.Equal(t, 1, repo.schedules[empAlice].Version)
	assert.False(t, repo.schedules[empAlice].Days[1].IsDayOff)
}

func TestBatchUpdateSchedules_PublishesEvent(t *testing.T) {
	repo := newMemScheduleRepo(resolvedJune(t, empAlice), resolvedJune(t, empBob))
	pub := &recordingPublisher{}
	svc, _ := newService(repo, &fakeEmployeeRepo{}, pub)
	off := true

	resp, err := svc.BatchUpdateSchedules(managerCtx(t), schedule.BatchUpdateRequest{
		Month: 6, Year: 2025, IsDayOff: &off,
		Selections: []schedule.DaySelection{
			{EmployeeID: empAlice, Dates: []string{"2025-06-02", "2025-06-03"}},
			{EmployeeID: empBob, Dates: []string{"2025-06-04"}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.UpdatedDays)
	assert.Len(t, resp.Schedules, 2)
	assert.Equal(t, 19, repo.schedules[empAlice].WorkingDays())
	assert.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.events) == 1 && pub.events[0].Type == events.TypeSchedulesBatchEdited
	}, time.Second, 10*time.Millisecond)
}

func TestBatchUpdateSchedules_VersionConflict(t *testing.T) {
	repo := newMemScheduleRepo(resolvedJune(t, empAlice))
	repo.updateErr = schedule.ErrScheduleVersionConflict
	svc, _ := newService(repo, &fakeEmployeeRepo{}, nil)
	notes := "stocktake"

	_, err := svc.BatchUpdateSchedules(managerCtx(t), schedule.BatchUpdateRequest{
		Month: 6, Year: 2025, Notes: &notes,
		Selections: []schedule.DaySelection{{EmployeeID: empAlice, Dates: []string{"2025-06-02"}}},
	})

	assert.True(t, errors.Is(err, schedule.ErrScheduleVersionConflict))
}

func TestPregenerateMonth_NextMonthOnly(t *testing.T) {
	repo := newMemScheduleRepo()
	emps := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		empAlice: withSlot(employee.Employee{ID: empAlice}),
		empCarol: {ID: empCarol, CompanyID: companyID},
	}}
	svc, _ := newService(repo, emps, nil)

	n, err := svc.PregenerateMonth(context.Background(), time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got := repo.schedules[empAlice]
	assert.Equal(t, 2, got.Month)
	assert.Equal(t, 2025, got.Year)
	assert.Len(t, got.Days, 28)

	n, err = svc.PregenerateMonth(context.Background(), time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)
}
