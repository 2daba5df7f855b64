package punch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/punch"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

type PunchServiceImpl struct {
	tx             database.Transactor
	punchRepo      punch.PunchRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	publisher      events.Publisher
	loc            *time.Location
	now            func() time.Time
}

func NewPunchService(
	tx database.Transactor,
	punchRepo punch.PunchRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	publisher events.Publisher,
	loc *time.Location,
) punch.PunchService {
	if loc == nil {
		loc = time.UTC
	}
	return &PunchServiceImpl{
		tx:             tx,
		punchRepo:      punchRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		publisher:      publisher,
		loc:            loc,
		now:            time.Now,
	}
}

// List implements punch.PunchService.
func (s *PunchServiceImpl) List(ctx context.Context, filter punch.PunchFilter) (punch.ListPunchResponse, error) {
	if err := filter.Validate(); err != nil {
		return punch.ListPunchResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return punch.ListPunchResponse{}, err
	}
	if claims.Role == user.RoleEmployee {
		filter.EmployeeID = &claims.EmployeeID
	}

	requests, total, err := s.punchRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return punch.ListPunchResponse{}, fmt.Errorf("failed to list punch requests: %w", err)
	}

	resp := punch.ListPunchResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   make([]punch.PunchResponse, 0, len(requests)),
	}
	for _, p := range requests {
		resp.Requests = append(resp.Requests, punch.ToResponse(p))
	}
	return resp, nil
}

// Get implements punch.PunchService.
func (s *PunchServiceImpl) Get(ctx context.Context, id string) (punch.PunchResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	p, err := s.getOwned(ctx, id, claims)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	return punch.ToResponse(p), nil
}

func (s *PunchServiceImpl) getOwned(ctx context.Context, id string, claims user.Claims) (punch.PunchRequest, error) {
	p, err := s.punchRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return punch.PunchRequest{}, err
	}
	if claims.Role == user.RoleEmployee && p.EmployeeID != claims.EmployeeID {
		return punch.PunchRequest{}, punch.ErrUnauthorized
	}
	return p, nil
}

// parseDate rejects dates after today in the company's location.
func (s *PunchServiceImpl) parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := s.now().In(s.loc).Date()
	if date.After(time.Date(y, m, d, 0, 0, 0, 0, s.loc)) {
		return time.Time{}, punch.ErrFutureDate
	}
	return date, nil
}

// Create implements punch.PunchService.
func (s *PunchServiceImpl) Create(ctx context.Context, req punch.CreatePunchRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	employeeID := req.EmployeeID
	if claims.Role == user.RoleEmployee || employeeID == "" {
		employeeID = claims.EmployeeID
	}
	if employeeID == "" {
		return punch.PunchResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, claims.CompanyID)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	date, err := s.parseDate(req.Date)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	created, err := s.punchRepo.Create(ctx, punch.PunchRequest{
		EmployeeID:    emp.ID,
		CompanyID:     claims.CompanyID,
		Date:          date,
		PunchType:     attendance.PunchType(req.PunchType),
		RequestedTime: req.RequestedTime,
		Reason:        req.Reason,
		Status:        punch.StatusPending,
	})
	if err != nil {
		return punch.PunchResponse{}, fmt.Errorf("failed to create punch request: %w", err)
	}
	created.EmployeeName = &emp.FullName

	return punch.ToResponse(created), nil
}

// Update implements punch.PunchService.
func (s *PunchServiceImpl) Update(ctx context.Context, req punch.UpdatePunchRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	p, err := s.getOwned(ctx, req.ID, claims)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	if !p.IsPending() {
		return punch.PunchResponse{}, punch.ErrNotPending
	}

	if req.Date != nil {
		if p.Date, err = s.parseDate(*req.Date); err != nil {
			return punch.PunchResponse{}, err
		}
	}
	if req.PunchType != nil {
		p.PunchType = attendance.PunchType(*req.PunchType)
	}
	if req.RequestedTime != nil {
		p.RequestedTime = *req.RequestedTime
	}
	if req.Reason != nil {
		p.Reason = *req.Reason
	}

	updated, err := s.punchRepo.Update(ctx, p)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	return punch.ToResponse(updated), nil
}

// Approve implements punch.PunchService.
func (s *PunchServiceImpl) Approve(ctx context.Context, id string) (punch.PunchResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	var approved punch.PunchRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.punchRepo.GetByID(ctx, id, claims.CompanyID)
		if err != nil {
			return err
		}
		if !p.IsPending() {
			return punch.ErrNotPending
		}

		record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, p.EmployeeID, p.Date, claims.CompanyID)
		if err != nil {
			if !errors.Is(err, attendance.ErrAttendanceNotFound) {
				return err
			}
			record = attendance.Attendance{
				EmployeeID: p.EmployeeID,
				CompanyID:  claims.CompanyID,
				Date:       p.Date,
			}
		}

		clock, err := time.ParseInLocation("15:04", p.RequestedTime, s.loc)
		if err != nil {
			return fmt.Errorf("invalid requested time %q: %w", p.RequestedTime, err)
		}
		at := attendance.ResolvePunchTime(p.Date, clock, p.PunchType, record, s.loc)
		if err := record.ApplyPunch(p.PunchType, at); err != nil {
			return err
		}
		record.Source = attendance.SourcePunch

		if _, err := s.attendanceRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to write attendance: %w", err)
		}

		now := s.now()
		p.Status = punch.StatusApproved
		p.ResolvedAt = &at
		p.ReviewedBy = &claims.UserID
		p.ReviewedAt = &now
		approved, err = s.punchRepo.Update(ctx, p)
		return err
	})
	if err != nil {
		return punch.PunchResponse{}, err
	}

	events.PublishAsync(s.publisher, events.NewEvent(
		events.TypePunchApproved, claims.CompanyID, "punch_request", approved.ID,
		map[string]interface{}{
			"employee_id": approved.EmployeeID,
			"date":        approved.Date.Format("2006-01-02"),
			"punch_type":  approved.PunchType,
			"resolved_at": approved.ResolvedAt,
		},
	))

	return punch.ToResponse(approved), nil
}

// Reject implements punch.PunchService.
func (s *PunchServiceImpl) Reject(ctx context.Context, req punch.RejectRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return punch.PunchResponse{}, err
	}

	p, err := s.punchRepo.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	if !p.IsPending() {
		return punch.PunchResponse{}, punch.ErrNotPending
	}

	now := s.now()
	p.Status = punch.StatusRejected
	p.RejectionReason = &req.Reason
	p.ReviewedBy = &claims.UserID
	p.ReviewedAt = &now

	updated, err := s.punchRepo.Update(ctx, p)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	return punch.ToResponse(updated), nil
}

// Delete implements punch.PunchService.
func (s *PunchServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := s.getOwned(ctx, id, claims)
	if err != nil {
		return err
	}
	if !p.IsPending() {
		return punch.ErrNotPending
	}

	return s.punchRepo.Delete(ctx, id, claims.CompanyID)
}
