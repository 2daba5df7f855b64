package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/advancedsalary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var adjustmentKinds = []adjustment.Kind{adjustment.KindIncentive, adjustment.KindArrears, adjustment.KindFine}

type PayrollServiceImpl struct {
	tx             database.Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	adjustmentRepo adjustment.AdjustmentRepository
	advanceRepo    advancedsalary.AdvancedSalaryRepository
	attendanceSvc  attendance.AttendanceService
	publisher      events.Publisher
	loc            *time.Location
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	adjustmentRepo adjustment.AdjustmentRepository,
	advanceRepo advancedsalary.AdvancedSalaryRepository,
	attendanceSvc attendance.AttendanceService,
	publisher events.Publisher,
	loc *time.Location,
) payroll.PayrollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		adjustmentRepo: adjustmentRepo,
		advanceRepo:    advanceRepo,
		attendanceSvc:  attendanceSvc,
		publisher:      publisher,
		loc:            loc,
	}
}

// ========== SETTINGS ==========

func (s *PayrollServiceImpl) settings(ctx context.Context, companyID string) (payroll.PayrollSettings, error) {
	settings, err := s.payrollRepo.GetSettings(ctx, companyID)
	if errors.Is(err, payroll.ErrPayrollSettingsNotFound) {
		return payroll.DefaultSettings(companyID), nil
	}
	return settings, err
}

// GetSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSettings(ctx context.Context) (payroll.PayrollSettingsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	settings, err := s.settings(ctx, claims.CompanyID)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	return payroll.ToSettingsResponse(settings), nil
}

// UpdateSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdatePayrollSettingsRequest) (payroll.PayrollSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	current, err := s.settings(ctx, claims.CompanyID)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	saved, err := s.payrollRepo.UpsertSettings(ctx, req.Apply(current))
	if err != nil {
		return payroll.PayrollSettingsResponse{}, fmt.Errorf("failed to save payroll settings: %w", err)
	}
	return payroll.ToSettingsResponse(saved), nil
}

// ========== CALCULATOR ==========

// CalculateHourly implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateHourly(_ context.Context, req payroll.CalculateHourlyRequest) (payroll.CalculateResponse, error) {
	net := payroll.RoundCurrency(req.HourlyInputs.NetSalary())
	return payroll.NewCalculateResponse(employee.PayrollTypeHourly, net), nil
}

// CalculateMonthly implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateMonthly(_ context.Context, req payroll.CalculateMonthlyRequest) (payroll.CalculateResponse, error) {
	net := payroll.RoundCurrency(req.MonthlyInputs.NetSalary())
	return payroll.NewCalculateResponse(employee.PayrollTypeMonthly, net), nil
}

// ========== DELTAS ==========

// pendingDeltas is the aggregated set plus the advances it was built from, needed to
// book recoveries.
type pendingDeltas struct {
	set      payroll.DeltaSet
	advances map[string]advancedsalary.AdvancedSalary
}

// collectDeltas loads every unprocessed adjustment kind and the outstanding advances
// concurrently and aggregates them for period.
func (s *PayrollServiceImpl) collectDeltas(ctx context.Context, employeeID, companyID string, period payroll.Period) (pendingDeltas, error) {
	adjustments := make([][]adjustment.Adjustment, len(adjustmentKinds))
	var advances []advancedsalary.AdvancedSalary

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range adjustmentKinds {
		g.Go(func() error {
			items, err := s.adjustmentRepo.ListUnprocessed(gctx, employeeID, kind, companyID)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", kind, err)
			}
			adjustments[i] = items
			return nil
		})
	}
	g.Go(func() error {
		items, err := s.advanceRepo.ListOutstanding(gctx, employeeID, companyID)
		if err != nil {
			return fmt.Errorf("failed to list outstanding advances: %w", err)
		}
		advances = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return pendingDeltas{}, err
	}

	return buildDeltas(period, adjustments, advances), nil
}

// lockDeltas is the transactional counterpart of collectDeltas. The advances are
// locked so a concurrent run books installments against the committed counters.
// Reads are sequential because a transaction holds a single connection.
func (s *PayrollServiceImpl) lockDeltas(ctx context.Context, employeeID, companyID string, period payroll.Period) (pendingDeltas, error) {
	advances, err := s.advanceRepo.ListOutstandingForUpdate(ctx, employeeID, companyID)
	if err != nil {
		return pendingDeltas{}, fmt.Errorf("failed to lock outstanding advances: %w", err)
	}

	adjustments := make([][]adjustment.Adjustment, len(adjustmentKinds))
	for i, kind := range adjustmentKinds {
		items, err := s.adjustmentRepo.ListUnprocessed(ctx, employeeID, kind, companyID)
		if err != nil {
			return pendingDeltas{}, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		adjustments[i] = items
	}

	return buildDeltas(period, adjustments, advances), nil
}

func buildDeltas(period payroll.Period, adjustments [][]adjustment.Adjustment, advances []advancedsalary.AdvancedSalary) pendingDeltas {
	var entries []payroll.DeltaEntry
	for _, items := range adjustments {
		for _, a := range items {
			entries = append(entries, payroll.DeltaEntry{
				ID:        a.ID,
				Kind:      payroll.DeltaKind(a.Kind),
				Amount:    a.Amount,
				Date:      a.Date,
				Status:    string(a.Status),
				Processed: a.Processed,
				Reason:    a.Reason,
			})
		}
	}

	byID := make(map[string]advancedsalary.AdvancedSalary, len(advances))
	for _, a := range advances {
		due := a.DueAmount()
		if !due.IsPositive() {
			continue
		}
		byID[a.ID] = a
		date := a.RequiredDate
		entries = append(entries, payroll.DeltaEntry{
			ID:        a.ID,
			Kind:      payroll.DeltaAdvance,
			Amount:    due,
			Date:      &date,
			Status:    string(a.Status),
			Processed: a.Processed,
			Reason:    a.Reason,
		})
	}

	return pendingDeltas{set: payroll.AggregateDeltas(period, entries), advances: byID}
}

// GetDeltas implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetDeltas(ctx context.Context, query payroll.DeltasQuery) (payroll.DeltasResponse, error) {
	period, err := query.Validate()
	if err != nil {
		return payroll.DeltasResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.DeltasResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, query.EmployeeID, claims.CompanyID); err != nil {
		return payroll.DeltasResponse{}, err
	}

	deltas, err := s.collectDeltas(ctx, query.EmployeeID, claims.CompanyID, period)
	if err != nil {
		return payroll.DeltasResponse{}, err
	}

	return payroll.DeltasResponse{
		EmployeeID: query.EmployeeID,
		From:       query.From,
		To:         query.To,
		DeltaSet:   deltas.set,
	}, nil
}

// ========== PAYROLL RECORDS ==========

// GeneratePayroll implements payroll.PayrollService. Each employee is generated in its
// own transaction; an employee that fails is reported as skipped.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	settings, err := s.settings(ctx, claims.CompanyID)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	resp := payroll.GeneratePayrollResponse{
		Generated: []payroll.PayrollRecordResponse{},
		Skipped:   []payroll.SkippedEmployee{},
	}
	skip := func(id string, reason error) {
		resp.Skipped = append(resp.Skipped, payroll.SkippedEmployee{EmployeeID: id, Reason: reason.Error()})
	}

	var employees []employee.Employee
	if len(req.EmployeeIDs) == 0 {
		all, err := s.employeeRepo.GetActiveByCompanyID(ctx, claims.CompanyID)
		if err != nil {
			return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to get employees: %w", err)
		}
		for _, emp := range all {
			if emp.PayrollType == req.Type {
				employees = append(employees, emp)
			}
		}
	} else {
		found, err := s.employeeRepo.GetByIDs(ctx, req.EmployeeIDs, claims.CompanyID)
		if err != nil {
			return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to get employees: %w", err)
		}
		byID := make(map[string]employee.Employee, len(found))
		for _, emp := range found {
			byID[emp.ID] = emp
		}
		for _, id := range req.EmployeeIDs {
			emp, ok := byID[id]
			if !ok {
				skip(id, payroll.ErrEmployeeNotFound)
				continue
			}
			employees = append(employees, emp)
		}
	}

	period := payroll.MonthPeriod(req.PeriodMonth, req.PeriodYear, s.loc)
	for _, emp := range employees {
		record, err := s.generateFor(ctx, emp, req, settings, period)
		if err != nil {
			if ctx.Err() != nil {
				return payroll.GeneratePayrollResponse{}, ctx.Err()
			}
			if isSkippable(err) {
				skip(emp.ID, err)
				continue
			}
			// Earlier employees are already committed, so the run carries on.
			slog.Error("failed to generate payroll", "employee_id", emp.ID, "type", req.Type, "error", err)
			skip(emp.ID, payroll.ErrPayrollGenerationFailed)
			continue
		}
		resp.Generated = append(resp.Generated, payroll.ToRecordResponse(record))
	}

	if len(resp.Generated) > 0 {
		events.PublishAsync(s.publisher, events.NewEvent(
			events.TypePayrollGenerated, claims.CompanyID, "payroll",
			fmt.Sprintf("%s-%04d-%02d", req.Type, req.PeriodYear, req.PeriodMonth),
			map[string]interface{}{"type": req.Type, "generated": len(resp.Generated), "skipped": len(resp.Skipped)},
		))
	}

	return resp, nil
}

// isSkippable reports the per-employee precondition failures that do not abort the run.
func isSkippable(err error) bool {
	return errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) ||
		errors.Is(err, payroll.ErrEmployeeHasNoSalary) ||
		errors.Is(err, payroll.ErrEmployeeHasNoSchedule) ||
		errors.Is(err, employee.ErrPayrollTypeMismatch) ||
		errors.Is(err, employee.ErrEmployeeNotActive) ||
		errors.Is(err, adjustment.ErrAlreadyProcessed)
}

func (s *PayrollServiceImpl) generateFor(ctx context.Context, emp employee.Employee, req payroll.GeneratePayrollRequest, settings payroll.PayrollSettings, period payroll.Period) (payroll.PayrollRecord, error) {
	if emp.PayrollType != req.Type {
		return payroll.PayrollRecord{}, employee.ErrPayrollTypeMismatch
	}
	if !emp.IsActive() {
		return payroll.PayrollRecord{}, employee.ErrEmployeeNotActive
	}
	if (req.Type == employee.PayrollTypeHourly && !emp.HourlyRate.IsPositive()) ||
		(req.Type == employee.PayrollTypeMonthly && !emp.GrossSalary.IsPositive()) {
		return payroll.PayrollRecord{}, payroll.ErrEmployeeHasNoSalary
	}

	exists, err := s.payrollRepo.ExistsForEmployeePeriod(ctx, emp.ID, req.PeriodMonth, req.PeriodYear, emp.CompanyID)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to check existing payroll: %w", err)
	}
	if exists {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
	}

	summary, err := s.attendanceSvc.GetSummary(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		if errors.Is(err, schedule.ErrEmployeeScheduleNotFound) {
			return payroll.PayrollRecord{}, payroll.ErrEmployeeHasNoSchedule
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to summarize attendance for %s: %w", emp.ID, err)
	}

	var record payroll.PayrollRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		deltas, err := s.lockDeltas(ctx, emp.ID, emp.CompanyID, period)
		if err != nil {
			return err
		}

		created, err := s.payrollRepo.CreatePayrollRecord(ctx, buildRecord(emp, req, settings, period, summary.Summary, deltas.set))
		if err != nil {
			return err
		}

		var adjustmentIDs []string
		for _, kind := range []payroll.DeltaKind{payroll.DeltaIncentive, payroll.DeltaArrears, payroll.DeltaFine} {
			adjustmentIDs = append(adjustmentIDs, deltas.set.IDs(kind)...)
		}
		if len(adjustmentIDs) > 0 {
			if err := s.adjustmentRepo.MarkProcessed(ctx, adjustmentIDs, created.ID, emp.CompanyID); err != nil {
				return fmt.Errorf("failed to mark adjustments processed: %w", err)
			}
		}

		for _, entry := range deltas.set.AdvancedSalary {
			advance := deltas.advances[entry.ID]
			if err := s.advanceRepo.RecordRecovery(ctx, advancedsalary.Recovery{
				AdvancedSalaryID: advance.ID,
				PayrollID:        created.ID,
				CompanyID:        emp.CompanyID,
				InstallmentNo:    advance.InstallmentsPaid + 1,
				Amount:           entry.Amount,
			}); err != nil {
				return fmt.Errorf("failed to record advance recovery: %w", err)
			}
		}

		record = created
		return nil
	})
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	slog.Info("payroll generated", "employee_id", emp.ID, "type", req.Type, "month", req.PeriodMonth, "year", req.PeriodYear, "net_salary", record.NetSalary.StringFixed(2))
	return record, nil
}

// buildRecord derives every amount of a fresh record from attendance, settings and
// deltas.
func buildRecord(emp employee.Employee, req payroll.GeneratePayrollRequest, settings payroll.PayrollSettings, period payroll.Period, summary attendance.Summary, deltas payroll.DeltaSet) payroll.PayrollRecord {
	record := payroll.PayrollRecord{
		CompanyID:        emp.CompanyID,
		EmployeeID:       emp.ID,
		Type:             req.Type,
		PeriodMonth:      req.PeriodMonth,
		PeriodYear:       req.PeriodYear,
		PeriodStart:      period.From,
		PeriodEnd:        period.To,
		EmployeeName:     emp.FullName,
		EmployeeCode:     emp.EmployeeCode,
		Department:       emp.Department,
		Designation:      emp.Designation,
		HourlyRate:       emp.HourlyRate,
		ScheduledDays:    summary.ScheduledDays,
		PresentDays:      summary.PresentDays,
		AbsentDays:       summary.AbsentDays,
		WorkedMinutes:    summary.WorkedMinutes,
		LateMinutes:      summary.LateMinutes,
		OvertimeMinutes:  summary.OvertimeMinutes,
		MissingPunches:   summary.MissingPunches,
		LateFines:        decimal.Zero,
		OvertimePay:      decimal.Zero,
		AbsentDeductions: decimal.Zero,
		OtherDeductions:  decimal.Zero,
		MissingDeduction: payroll.MissingDeduction(summary.MissingPunches, settings.MissingPunchPenalty),
		OtherIncentives:  deltas.Totals.Incentives,
		Arrears:          deltas.Totals.Arrears,
		FineDeductions:   deltas.Totals.Fines,
		AdvancedSalary:   deltas.Totals.AdvancedSalary,
		Status:           payroll.PayrollStatusGenerated,
	}

	switch req.Type {
	case employee.PayrollTypeHourly:
		record.GrossSalary = payroll.HourlyGross(summary.WorkedMinutes, emp.HourlyRate)
		record.LateFines = payroll.LateFines(summary.LateMinutes, settings.LateFinePerMinute)
		record.OvertimePay = payroll.OvertimePay(summary.OvertimeMinutes, emp.HourlyRate, settings.OvertimeRateMultiplier)
	case employee.PayrollTypeMonthly:
		record.GrossSalary = emp.GrossSalary
		if settings.AbsentDeductionEnabled {
			record.AbsentDeductions = payroll.MonthlyAbsentDeduction(emp.GrossSalary, summary.AbsentDays, summary.ScheduledDays)
		}
	}

	record.Recalculate()
	return record
}

// getTyped loads id and treats a record of the other payroll type as missing.
func (s *PayrollServiceImpl) getTyped(ctx context.Context, payrollType employee.PayrollType, id, companyID string) (payroll.PayrollRecord, error) {
	if !payrollType.IsValid() {
		return payroll.PayrollRecord{}, payroll.ErrInvalidPayrollType
	}
	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	if record.Type != payrollType {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return record, nil
}

// GetPayrollRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, payrollType employee.PayrollType, id string) (payroll.PayrollRecordResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.getTyped(ctx, payrollType, id, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.ToRecordResponse(record), nil
}

// ListPayrollRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if !filter.Type.IsValid() {
		return payroll.ListPayrollRecordResponse{}, payroll.ErrInvalidPayrollType
	}
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, total, err := s.payrollRepo.ListPayrollRecords(ctx, claims.CompanyID, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	resp := payroll.ListPayrollRecordResponse{
		Data:       make([]payroll.PayrollRecordResponse, 0, len(records)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, r := range records {
		resp.Data = append(resp.Data, payroll.ToRecordResponse(r))
	}
	return resp, nil
}

// UpdatePayrollRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdatePayrollRecord(ctx context.Context, req payroll.UpdatePayrollRecordRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.getTyped(ctx, req.Type, req.ID, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !record.IsEditable() {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotEditable
	}

	updated, err := s.payrollRepo.UpdatePayrollRecord(ctx, req.Apply(record))
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.ToRecordResponse(updated), nil
}

// UpdateStatus implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, req payroll.UpdateStatusRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.getTyped(ctx, req.Type, req.ID, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	previous := record.Status
	next := payroll.PayrollStatus(req.Status)
	if !previous.CanTransition(next) {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("%w: %s to %s", payroll.ErrInvalidStatusTransition, previous, next)
	}

	now := time.Now()
	record.Status = next
	switch next {
	case payroll.PayrollStatusApproved, payroll.PayrollStatusRejected:
		record.ReviewedBy = &claims.UserID
		record.ReviewedAt = &now
	case payroll.PayrollStatusPaid:
		record.PaidBy = &claims.UserID
		record.PaidAt = &now
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	updated, err := s.payrollRepo.UpdatePayrollRecord(ctx, record)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	events.PublishAsync(s.publisher, events.NewEvent(
		events.TypePayrollStatusChanged, claims.CompanyID, "payroll", updated.ID,
		map[string]interface{}{
			"employee_id": updated.EmployeeID,
			"type":        updated.Type,
			"from":        previous,
			"to":          updated.Status,
			"net_salary":  updated.NetSalary.StringFixed(2),
			"by":          claims.UserID,
		},
	))

	return payroll.ToRecordResponse(updated), nil
}

// DeletePayrollRecord implements payroll.PayrollService. The deltas it consumed are
// released so the next run picks them up again.
func (s *PayrollServiceImpl) DeletePayrollRecord(ctx context.Context, payrollType employee.PayrollType, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	record, err := s.getTyped(ctx, payrollType, id, claims.CompanyID)
	if err != nil {
		return err
	}
	if record.Status == payroll.PayrollStatusPaid {
		return payroll.ErrCannotDeletePaidRecord
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.adjustmentRepo.ReleaseByPayroll(ctx, record.ID, claims.CompanyID); err != nil {
			return fmt.Errorf("failed to release adjustments: %w", err)
		}
		if err := s.advanceRepo.ReleaseByPayroll(ctx, record.ID, claims.CompanyID); err != nil {
			return fmt.Errorf("failed to release advance recoveries: %w", err)
		}
		return s.payrollRepo.DeletePayrollRecord(ctx, record.ID, claims.CompanyID)
	})
}

// GetPayrollSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	if !validator.IsValidPeriod(month, year) {
		var errs validator.ValidationErrors
		errs.Add("period", "month must be 1-12 and year 2000-2100")
		return payroll.PayrollSummaryResponse{}, errs.Err()
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	summary, err := s.payrollRepo.GetPayrollSummary(ctx, claims.CompanyID, month, year)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	return summary, nil
}
