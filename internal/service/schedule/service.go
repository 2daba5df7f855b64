package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

const fetchConcurrency = 8

type ScheduleServiceImpl struct {
	tx                   database.Transactor
	workScheduleRepo     schedule.WorkScheduleRepository
	employeeScheduleRepo schedule.EmployeeScheduleRepository
	employeeRepo         employee.EmployeeRepository
	publisher            events.Publisher
	loc                  *time.Location
}

func NewScheduleService(
	tx database.Transactor,
	workScheduleRepo schedule.WorkScheduleRepository,
	employeeScheduleRepo schedule.EmployeeScheduleRepository,
	employeeRepo employee.EmployeeRepository,
	publisher events.Publisher,
	loc *time.Location,
) schedule.ScheduleService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleServiceImpl{
		tx:                   tx,
		workScheduleRepo:     workScheduleRepo,
		employeeScheduleRepo: employeeScheduleRepo,
		employeeRepo:         employeeRepo,
		publisher:            publisher,
		loc:                  loc,
	}
}

// ========== WORK SCHEDULE ==========

// CreateWorkSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) CreateWorkSchedule(ctx context.Context, req schedule.CreateWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	ws := schedule.WorkSchedule{
		CompanyID:          claims.CompanyID,
		Name:               strings.TrimSpace(req.Name),
		ShiftStart:         req.ShiftStart,
		ShiftEnd:           req.ShiftEnd,
		WorkDays:           req.WorkDays,
		GracePeriodMinutes: *req.GracePeriodMinutes,
	}
	if req.MinimumHours != nil {
		ws.MinimumHours = *req.MinimumHours
	}

	created, err := s.workScheduleRepo.Create(ctx, ws)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}
	return schedule.ToWorkScheduleResponse(created), nil
}

// GetWorkSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GetWorkSchedule(ctx context.Context, id string) (schedule.WorkScheduleResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	ws, err := s.workScheduleRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}
	return schedule.ToWorkScheduleResponse(ws), nil
}

// ListWorkSchedules implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListWorkSchedules(ctx context.Context, filter schedule.WorkScheduleFilter) (schedule.ListWorkScheduleResponse, error) {
	if err := filter.Validate(); err != nil {
		return schedule.ListWorkScheduleResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.ListWorkScheduleResponse{}, err
	}

	schedules, total, err := s.workScheduleRepo.GetByCompanyID(ctx, claims.CompanyID, filter)
	if err != nil {
		return schedule.ListWorkScheduleResponse{}, fmt.Errorf("failed to list work schedules: %w", err)
	}

	responses := make([]schedule.WorkScheduleResponse, 0, len(schedules))
	for _, ws := range schedules {
		responses = append(responses, schedule.ToWorkScheduleResponse(ws))
	}

	start := (filter.Page-1)*filter.Limit + 1
	end := min(filter.Page*filter.Limit, int(total))
	showing := fmt.Sprintf("%d-%d of %d results", start, end, total)
	if total == 0 {
		showing = "0 of 0 results"
	}

	return schedule.ListWorkScheduleResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    int(math.Ceil(float64(total) / float64(filter.Limit))),
		Showing:       showing,
		WorkSchedules: responses,
	}, nil
}

// UpdateWorkSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) UpdateWorkSchedule(ctx context.Context, req schedule.UpdateWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	current, err := s.workScheduleRepo.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	merged, err := req.Apply(current)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	updated, err := s.workScheduleRepo.Update(ctx, merged)
	if err != nil {
		return schedule.WorkScheduleResponse{}, err
	}
	return schedule.ToWorkScheduleResponse(updated), nil
}

// DeleteWorkSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteWorkSchedule(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.workScheduleRepo.GetByID(ctx, id, claims.CompanyID); err != nil {
		return err
	}

	inUse, err := s.employeeRepo.CountByWorkScheduleID(ctx, id, claims.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to count employees on work schedule: %w", err)
	}
	if inUse > 0 {
		return schedule.ErrWorkScheduleInUse
	}

	return s.workScheduleRepo.SoftDelete(ctx, id, claims.CompanyID)
}

// ========== EMPLOYEE SCHEDULE ==========

// slotCache memoizes work schedule lookups within one call.
type slotCache struct {
	repo  schedule.WorkScheduleRepository
	slots map[string]schedule.WorkSchedule
}

func newSlotCache(repo schedule.WorkScheduleRepository) *slotCache {
	return &slotCache{repo: repo, slots: make(map[string]schedule.WorkSchedule)}
}

func (c *slotCache) get(ctx context.Context, id, companyID string) (schedule.WorkSchedule, error) {
	key := companyID + "/" + id
	if ws, ok := c.slots[key]; ok {
		return ws, nil
	}
	ws, err := c.repo.GetByID(ctx, id, companyID)
	if err != nil {
		return schedule.WorkSchedule{}, err
	}
	c.slots[key] = ws
	return ws, nil
}

// generateFor resolves and stores one month for emp. A non-empty skip reason means
// nothing was written.
func (s *ScheduleServiceImpl) generateFor(ctx context.Context, slots *slotCache, emp employee.Employee, month, year int, overwrite bool) (schedule.EmployeeSchedule, string, error) {
	if emp.WorkScheduleID == nil {
		return schedule.EmployeeSchedule{}, employee.ErrNoWorkSchedule.Error(), nil
	}

	slot, err := slots.get(ctx, *emp.WorkScheduleID, emp.CompanyID)
	if err != nil {
		if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
			return schedule.EmployeeSchedule{}, err.Error(), nil
		}
		return schedule.EmployeeSchedule{}, "", err
	}

	exists, err := s.employeeScheduleRepo.Exists(ctx, emp.ID, month, year)
	if err != nil {
		return schedule.EmployeeSchedule{}, "", fmt.Errorf("failed to check existing schedule: %w", err)
	}
	if exists && !overwrite {
		return schedule.EmployeeSchedule{}, schedule.ErrEmployeeScheduleExists.Error(), nil
	}

	workDays := emp.EffectiveWorkDays()
	if len(workDays) == 0 {
		workDays = slot.WorkDays
	}
	days, err := schedule.ResolveMonth(slot, workDays, month, year, s.loc)
	if err != nil {
		return schedule.EmployeeSchedule{}, "", err
	}

	sched := schedule.EmployeeSchedule{
		EmployeeID:   emp.ID,
		CompanyID:    emp.CompanyID,
		Month:        month,
		Year:         year,
		Days:         days,
		EmployeeName: &emp.FullName,
		EmployeeCode: &emp.EmployeeCode,
	}
	var saved schedule.EmployeeSchedule
	if exists {
		saved, err = s.employeeScheduleRepo.Upsert(ctx, sched)
	} else {
		saved, err = s.employeeScheduleRepo.Create(ctx, sched)
	}
	if err != nil {
		return schedule.EmployeeSchedule{}, "", fmt.Errorf("failed to save schedule for employee %s: %w", emp.ID, err)
	}
	return saved, "", nil
}

// GenerateEmployeeSchedules implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GenerateEmployeeSchedules(ctx context.Context, req schedule.GenerateSchedulesRequest) (schedule.GenerateSchedulesResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.GenerateSchedulesResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.GenerateSchedulesResponse{}, err
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, req.EmployeeIDs, claims.CompanyID)
	if err != nil {
		return schedule.GenerateSchedulesResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	resp := schedule.GenerateSchedulesResponse{
		Generated: []schedule.EmployeeScheduleResponse{},
		Skipped:   []schedule.SkippedEmployee{},
	}
	slots := newSlotCache(s.workScheduleRepo)

	for _, id := range req.EmployeeIDs {
		emp, ok := byID[id]
		if !ok {
			resp.Skipped = append(resp.Skipped, schedule.SkippedEmployee{EmployeeID: id, Reason: employee.ErrEmployeeNotFound.Error()})
			continue
		}

		saved, reason, err := s.generateFor(ctx, slots, emp, req.Month, req.Year, req.Overwrite)
		if err != nil {
			return schedule.GenerateSchedulesResponse{}, err
		}
		if reason != "" {
			resp.Skipped = append(resp.Skipped, schedule.SkippedEmployee{EmployeeID: id, Reason: reason})
			continue
		}
		resp.Generated = append(resp.Generated, schedule.ToEmployeeScheduleResponse(saved))
	}

	return resp, nil
}

// GetEmployeeSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GetEmployeeSchedule(ctx context.Context, employeeID string, period schedule.PeriodQuery) (schedule.EmployeeScheduleResponse, error) {
	if err := period.Validate(); err != nil {
		return schedule.EmployeeScheduleResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.EmployeeScheduleResponse{}, err
	}
	if claims.Role == user.RoleEmployee && claims.EmployeeID != employeeID {
		return schedule.EmployeeScheduleResponse{}, employee.ErrUnauthorized
	}

	sched, err := s.employeeScheduleRepo.Get(ctx, employeeID, period.Month, period.Year, claims.CompanyID)
	if err != nil {
		return schedule.EmployeeScheduleResponse{}, err
	}
	return schedule.ToEmployeeScheduleResponse(sched), nil
}

// FetchEmployeeSchedules implements schedule.ScheduleService. Each employee is fetched
// independently; failures are reported per employee and never fail the call.
func (s *ScheduleServiceImpl) FetchEmployeeSchedules(ctx context.Context, req schedule.FetchSchedulesRequest) (schedule.FetchSchedulesResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.FetchSchedulesResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.FetchSchedulesResponse{}, err
	}
	if claims.Role == user.RoleEmployee {
		for _, id := range req.EmployeeIDs {
			if id != claims.EmployeeID {
				return schedule.FetchSchedulesResponse{}, employee.ErrUnauthorized
			}
		}
	}

	type result struct {
		sched schedule.EmployeeSchedule
		err   error
	}
	results := make([]result, len(req.EmployeeIDs))

	var g errgroup.Group
	g.SetLimit(fetchConcurrency)
	for i, id := range req.EmployeeIDs {
		g.Go(func() error {
			sched, err := s.employeeScheduleRepo.Get(ctx, id, req.Month, req.Year, claims.CompanyID)
			results[i] = result{sched: sched, err: err}
			return nil
		})
	}
	_ = g.Wait()

	resp := schedule.FetchSchedulesResponse{
		Schedules: []schedule.EmployeeScheduleResponse{},
		Failed:    []schedule.FailedFetch{},
	}
	for i, r := range results {
		if r.err != nil {
			if !errors.Is(r.err, schedule.ErrEmployeeScheduleNotFound) {
				slog.Warn("employee schedule fetch failed", "employee_id", req.EmployeeIDs[i], "error", r.err)
			}
			resp.Failed = append(resp.Failed, schedule.FailedFetch{EmployeeID: req.EmployeeIDs[i], Error: r.err.Error()})
			continue
		}
		resp.Schedules = append(resp.Schedules, schedule.ToEmployeeScheduleResponse(r.sched))
	}
	resp.FailedCount = len(resp.Failed)

	return resp, nil
}

// UpdateScheduleDay implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) UpdateScheduleDay(ctx context.Context, req schedule.UpdateScheduleDayRequest) (schedule.EmployeeScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.EmployeeScheduleResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.EmployeeScheduleResponse{}, err
	}

	edit := schedule.DayEdit{
		IsDayOff: req.IsDayOff,
		Start:    req.Start,
		End:      req.End,
		Notes:    req.Notes,
	}
	if req.WorkScheduleID != nil && (req.IsDayOff == nil || !*req.IsDayOff) {
		slot, err := s.workScheduleRepo.GetByID(ctx, *req.WorkScheduleID, claims.CompanyID)
		if err != nil {
			return schedule.EmployeeScheduleResponse{}, err
		}
		edit.Slot = &slot
	}

	var saved schedule.EmployeeSchedule
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sched, err := s.employeeScheduleRepo.Get(ctx, req.EmployeeID, req.Month, req.Year, claims.CompanyID)
		if err != nil {
			return err
		}

		idx := sched.DayIndex(req.Date)
		if idx < 0 {
			return schedule.ErrDayNotInSchedule
		}
		day, err := schedule.ApplyDayEdit(sched.Days[idx], edit, s.loc)
		if err != nil {
			return err
		}

		sched = sched.Clone()
		sched.Days[idx] = day
		saved, err = s.employeeScheduleRepo.UpdateDays(ctx, sched)
		return err
	})
	if err != nil {
		return schedule.EmployeeScheduleResponse{}, err
	}

	return schedule.ToEmployeeScheduleResponse(saved), nil
}

// BatchUpdateSchedules implements schedule.ScheduleService. All selected days are
// written in one transaction or none are.
func (s *ScheduleServiceImpl) BatchUpdateSchedules(ctx context.Context, req schedule.BatchUpdateRequest) (schedule.BatchUpdateResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.BatchUpdateResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return schedule.BatchUpdateResponse{}, err
	}

	edit := schedule.DayEdit{IsDayOff: req.IsDayOff, Notes: req.Notes}
	dayOff := req.IsDayOff != nil && *req.IsDayOff
	if req.WorkScheduleID != nil && !dayOff {
		slot, err := s.workScheduleRepo.GetByID(ctx, *req.WorkScheduleID, claims.CompanyID)
		if err != nil {
			return schedule.BatchUpdateResponse{}, err
		}
		edit.Slot = &slot
	}

	employeeIDs := make([]string, 0, len(req.Selections))
	seen := make(map[string]bool, len(req.Selections))
	updatedDays := 0
	for _, sel := range req.Selections {
		updatedDays += len(sel.Dates)
		if !seen[sel.EmployeeID] {
			seen[sel.EmployeeID] = true
			employeeIDs = append(employeeIDs, sel.EmployeeID)
		}
	}

	var saved []schedule.EmployeeSchedule
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.employeeScheduleRepo.GetForUpdate(ctx, employeeIDs, req.Month, req.Year, claims.CompanyID)
		if err != nil {
			return err
		}
		byEmployee := make(map[string]schedule.EmployeeSchedule, len(current))
		for _, sched := range current {
			byEmployee[sched.EmployeeID] = sched
		}

		updated, err := schedule.ApplyBatch(byEmployee, req.Selections, edit, s.loc)
		if err != nil {
			return err
		}

		for _, id := range employeeIDs {
			out, err := s.employeeScheduleRepo.UpdateDays(ctx, updated[id])
			if err != nil {
				return err
			}
			saved = append(saved, out)
		}
		return nil
	})
	if err != nil {
		return schedule.BatchUpdateResponse{}, err
	}

	resp := schedule.BatchUpdateResponse{
		UpdatedDays: updatedDays,
		Schedules:   make([]schedule.EmployeeScheduleResponse, 0, len(saved)),
	}
	for _, sched := range saved {
		resp.Schedules = append(resp.Schedules, schedule.ToEmployeeScheduleResponse(sched))
	}

	events.PublishAsync(s.publisher, events.NewEvent(
		events.TypeSchedulesBatchEdited, claims.CompanyID, "employee_schedule",
		fmt.Sprintf("%04d-%02d", req.Year, req.Month),
		map[string]interface{}{"employee_ids": employeeIDs, "updated_days": updatedDays, "by": claims.UserID},
	))

	return resp, nil
}

// DeleteEmployeeSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteEmployeeSchedule(ctx context.Context, employeeID string, period schedule.PeriodQuery) error {
	if err := period.Validate(); err != nil {
		return err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	return s.employeeScheduleRepo.Delete(ctx, employeeID, period.Month, period.Year, claims.CompanyID)
}

// PregenerateMonth implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) PregenerateMonth(ctx context.Context, now time.Time) (int, error) {
	next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, 1, 0)
	month, year := int(next.Month()), next.Year()

	employees, err := s.employeeRepo.GetActiveWithWorkSchedule(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get employees with work schedule: %w", err)
	}

	slots := newSlotCache(s.workScheduleRepo)
	generated := 0
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return generated, err
		}
		_, reason, err := s.generateFor(ctx, slots, emp, month, year, false)
		if err != nil {
			slog.Warn("schedule pre-generation failed", "employee_id", emp.ID, "month", month, "year", year, "error", err)
			continue
		}
		if reason == "" {
			generated++
		}
	}

	slog.Info("schedules pre-generated", "month", month, "year", year, "generated", generated, "employees", len(employees))
	return generated, nil
}
