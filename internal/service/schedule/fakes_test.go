package schedule

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeWorkScheduleRepo struct {
	createFn func(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error)
	getFn    func(ctx context.Context, id, companyID string) (schedule.WorkSchedule, error)
	listFn   func(ctx context.Context, companyID string, filter schedule.WorkScheduleFilter) ([]schedule.WorkSchedule, int64, error)
	updateFn func(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error)
	deleteFn func(ctx context.Context, id, companyID string) error
}

func (f *fakeWorkScheduleRepo) Create(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	return f.createFn(ctx, ws)
}

func (f *fakeWorkScheduleRepo) GetByID(ctx context.Context, id, companyID string) (schedule.WorkSchedule, error) {
	return f.getFn(ctx, id, companyID)
}

func (f *fakeWorkScheduleRepo) GetByCompanyID(ctx context.Context, companyID string, filter schedule.WorkScheduleFilter) ([]schedule.WorkSchedule, int64, error) {
	return f.listFn(ctx, companyID, filter)
}

func (f *fakeWorkScheduleRepo) Update(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	return f.updateFn(ctx, ws)
}

func (f *fakeWorkScheduleRepo) SoftDelete(ctx context.Context, id, companyID string) error {
	return f.deleteFn(ctx, id, companyID)
}

// memScheduleRepo keeps employee schedules in memory keyed by employee ID.
type memScheduleRepo struct {
	mu        sync.Mutex
	schedules map[string]schedule.EmployeeSchedule
	updateErr error
}

func newMemScheduleRepo(items ...schedule.EmployeeSchedule) *memScheduleRepo {
	r := &memScheduleRepo{schedules: make(map[string]schedule.EmployeeSchedule)}
	for _, s := range items {
		r.schedules[s.EmployeeID] = s
	}
	return r
}

func (r *memScheduleRepo) Get(_ context.Context, employeeID string, month, year int, _ string) (schedule.EmployeeSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[employeeID]
	if !ok || s.Month != month || s.Year != year {
		return schedule.EmployeeSchedule{}, schedule.ErrEmployeeScheduleNotFound
	}
	return s.Clone(), nil
}

func (r *memScheduleRepo) GetForUpdate(ctx context.Context, employeeIDs []string, month, year int, companyID string) ([]schedule.EmployeeSchedule, error) {
	var out []schedule.EmployeeSchedule
	for _, id := range employeeIDs {
		if s, err := r.Get(ctx, id, month, year, companyID); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memScheduleRepo) Exists(ctx context.Context, employeeID string, month, year int) (bool, error) {
	_, err := r.Get(ctx, employeeID, month, year, "")
	return err == nil, nil
}

func (r *memScheduleRepo) Create(_ context.Context, s schedule.EmployeeSchedule) (schedule.EmployeeSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = "sched-" + s.EmployeeID
	s.Version = 1
	r.schedules[s.EmployeeID] = s
	return s, nil
}

func (r *memScheduleRepo) Upsert(ctx context.Context, s schedule.EmployeeSchedule) (schedule.EmployeeSchedule, error) {
	return r.Create(ctx, s)
}

func (r *memScheduleRepo) UpdateDays(_ context.Context, s schedule.EmployeeSchedule) (schedule.EmployeeSchedule, error) {
	if r.updateErr != nil {
		return schedule.EmployeeSchedule{}, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.schedules[s.EmployeeID]; !ok || current.Version != s.Version {
		return schedule.EmployeeSchedule{}, schedule.ErrScheduleVersionConflict
	}
	s.Version++
	r.schedules[s.EmployeeID] = s
	return s, nil
}

func (r *memScheduleRepo) Delete(_ context.Context, employeeID string, month, year int, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[employeeID]; !ok {
		return schedule.ErrEmployeeScheduleNotFound
	}
	delete(r.schedules, employeeID)
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	inUse     int64
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id, _ string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByIDs(_ context.Context, ids []string, _ string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if emp, ok := f.employees[id]; ok {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter, _ string) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, _ string) ([]employee.Employee, error) {
	return f.all(), nil
}

func (f *fakeEmployeeRepo) GetActiveWithWorkSchedule(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.all() {
		if emp.WorkScheduleID != nil {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) CountByWorkScheduleID(_ context.Context, _, _ string) (int64, error) {
	return f.inUse, nil
}

func (f *fakeEmployeeRepo) all() []employee.Employee {
	out := make([]employee.Employee, 0, len(f.employees))
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
