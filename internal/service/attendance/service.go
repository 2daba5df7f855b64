package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendanceRepo       attendance.AttendanceRepository
	employeeRepo         employee.EmployeeRepository
	employeeScheduleRepo schedule.EmployeeScheduleRepository
	workScheduleRepo     schedule.WorkScheduleRepository
	loc                  *time.Location
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	employeeScheduleRepo schedule.EmployeeScheduleRepository,
	workScheduleRepo schedule.WorkScheduleRepository,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo:       attendanceRepo,
		employeeRepo:         employeeRepo,
		employeeScheduleRepo: employeeScheduleRepo,
		workScheduleRepo:     workScheduleRepo,
		loc:                  loc,
	}
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	// Employees only ever see their own records.
	if claims.Role == user.RoleEmployee {
		if claims.EmployeeID == "" {
			return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
		}
		filter.EmployeeID = &claims.EmployeeID
	}

	records, total, err := s.attendanceRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		responses = append(responses, attendance.ToResponse(a))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, employeeID string, month, year int) (attendance.SummaryResponse, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(employeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if !validator.IsValidPeriod(month, year) {
		errs.Add("period", "month must be 1-12 and year 2000-2100")
	}
	if err := errs.Err(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}
	if claims.Role == user.RoleEmployee && claims.EmployeeID != employeeID {
		return attendance.SummaryResponse{}, attendance.ErrUnauthorized
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, claims.CompanyID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	sched, err := s.employeeScheduleRepo.Get(ctx, employeeID, month, year, claims.CompanyID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	grace := 0
	if emp.WorkScheduleID != nil {
		ws, err := s.workScheduleRepo.GetByID(ctx, *emp.WorkScheduleID, claims.CompanyID)
		switch {
		case err == nil:
			grace = ws.GracePeriodMinutes
		case !errors.Is(err, schedule.ErrWorkScheduleNotFound):
			return attendance.SummaryResponse{}, err
		}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, -1)
	records, err := s.attendanceRepo.ListByEmployeePeriod(ctx, employeeID, from, to, claims.CompanyID)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance for summary: %w", err)
	}

	return attendance.SummaryResponse{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		Summary:    attendance.Summarize(sched.Days, records, grace),
	}, nil
}
