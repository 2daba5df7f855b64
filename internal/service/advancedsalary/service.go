package advancedsalary

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/advancedsalary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type AdvancedSalaryServiceImpl struct {
	advanceRepo  advancedsalary.AdvancedSalaryRepository
	employeeRepo employee.EmployeeRepository
	publisher    events.Publisher
	loc          *time.Location
}

func NewAdvancedSalaryService(
	advanceRepo advancedsalary.AdvancedSalaryRepository,
	employeeRepo employee.EmployeeRepository,
	publisher events.Publisher,
	loc *time.Location,
) advancedsalary.AdvancedSalaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdvancedSalaryServiceImpl{
		advanceRepo:  advanceRepo,
		employeeRepo: employeeRepo,
		publisher:    publisher,
		loc:          loc,
	}
}

// List implements advancedsalary.AdvancedSalaryService.
func (s *AdvancedSalaryServiceImpl) List(ctx context.Context, filter advancedsalary.AdvancedSalaryFilter) (advancedsalary.ListAdvancedSalaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return advancedsalary.ListAdvancedSalaryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return advancedsalary.ListAdvancedSalaryResponse{}, err
	}
	if claims.Role == user.RoleEmployee {
		filter.EmployeeID = &claims.EmployeeID
	}

	advances, total, err := s.advanceRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return advancedsalary.ListAdvancedSalaryResponse{}, fmt.Errorf("failed to list advanced salary requests: %w", err)
	}

	requests := make([]advancedsalary.AdvancedSalaryResponse, 0, len(advances))
	for _, a := range advances {
		requests = append(requests, advancedsalary.ToResponse(a))
	}

	return advancedsalary.ListAdvancedSalaryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   requests,
	}, nil
}

// Get implements advancedsalary.AdvancedSalaryService.
func (s *AdvancedSalaryServiceImpl) Get(ctx context.Context, id string) (advancedsalary.AdvancedSalaryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	advance, err := s.getOwned(ctx, id, claims)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}
	return advancedsalary.ToResponse(advance), nil
}

// getOwned loads id and hides other employees' requests from the employee role.
func (s *AdvancedSalaryServiceImpl) getOwned(ctx context.Context, id string, claims user.Claims) (advancedsalary.AdvancedSalary, error) {
	advance, err := s.advanceRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return advancedsalary.AdvancedSalary{}, err
	}
	if claims.Role == user.RoleEmployee && advance.EmployeeID != claims.EmployeeID {
		return advancedsalary.AdvancedSalary{}, advancedsalary.ErrUnauthorized
	}
	return advance, nil
}

// Create implements advancedsalary.AdvancedSalaryService.
func (s *AdvancedSalaryServiceImpl) Create(ctx context.Context, req advancedsalary.CreateAdvancedSalaryRequest) (advancedsalary.AdvancedSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	employeeID := req.EmployeeID
	if claims.Role == user.RoleEmployee || employeeID == "" {
		employeeID = claims.EmployeeID
	}
	if employeeID == "" {
		return advancedsalary.AdvancedSalaryResponse{}, advancedsalary.ErrEmployeeIDRequired
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, claims.CompanyID)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}
	if !emp.IsActive() {
		return advancedsalary.AdvancedSalaryResponse{}, employee.ErrEmployeeNotActive
	}

	requiredDate, _ := time.ParseInLocation("2006-01-02", req.RequiredDate, s.loc)

	created, err := s.advanceRepo.Create(ctx, advancedsalary.AdvancedSalary{
		EmployeeID:      emp.ID,
		CompanyID:       claims.CompanyID,
		RequestedAmount: req.RequestedAmount.Round(2),
		Status:          advancedsalary.StatusPending,
		RequiredDate:    requiredDate,
		Installments:    req.Installments,
		Reason:          req.Reason,
	})
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, fmt.Errorf("failed to create advanced salary request: %w", err)
	}
	created.EmployeeName = &emp.FullName
	created.EmployeeCode = &emp.EmployeeCode

	return advancedsalary.ToResponse(created), nil
}

// Update implements advancedsalary.AdvancedSalaryService.
func (s *AdvancedSalaryServiceImpl) Update(ctx context.Context, req advancedsalary.UpdateAdvancedSalaryRequest) (advancedsalary.AdvancedSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	advance, err := s.getOwned(ctx, req.ID, claims)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}
	if !advance.IsEditable() {
		return advancedsalary.AdvancedSalaryResponse{}, advancedsalary.ErrNotPending
	}

	if req.RequestedAmount != nil {
		advance.RequestedAmount = req.RequestedAmount.Round(2)
	}
	if req.RequiredDate != nil {
		advance.RequiredDate, _ = time.ParseInLocation("2006-01-02", *req.RequiredDate, s.loc)
	}
	if req.Installments != nil {
		advance.Installments = *req.Installments
	}
	if req.Reason != nil {
		advance.Reason = req.Reason
	}

	updated, err := s.advanceRepo.Update(ctx, advance)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}
	return advancedsalary.ToResponse(updated), nil
}

// Approve implements advancedsalary.AdvancedSalaryService.
func (s *AdvancedSalaryServiceImpl) Approve(ctx context.Context, req advancedsalary.ApproveRequest) (advancedsalary.AdvancedSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	advance, err := s.advanceRepo.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}
	if !advance.IsEditable() {
		return advancedsalary.AdvancedSalaryResponse{}, advancedsalary.ErrNotPending
	}

	approved := req.ApprovedAmount.Round(2)
	if approved.GreaterThan(advance.RequestedAmount) {
		var errs validator.ValidationErrors
		errs.Add("approved_amount", advancedsalary.ErrApprovedExceedsRequested.Error())
		return advancedsalary.AdvancedSalaryResponse{}, errs.Err()
	}

	now := time.Now()
	advance.Status = advancedsalary.StatusApproved
	advance.ApprovedAmount = &approved
	if req.Installments != nil {
		advance.Installments = *req.Installments
	}
	advance.ReviewedBy = &claims.UserID
	advance.ReviewedAt = &now

	updated, err := s.advanceRepo.Update(ctx, advance)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	s.publishReviewed(claims, updated)
	return advancedsalary.ToResponse(updated), nil
}

// Reject implements advancedsalary.AdvancedSalaryService.
func (s *AdvancedSalaryServiceImpl) Reject(ctx context.Context, req advancedsalary.RejectRequest) (advancedsalary.AdvancedSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	advance, err := s.advanceRepo.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}
	if !advance.IsEditable() {
		return advancedsalary.AdvancedSalaryResponse{}, advancedsalary.ErrNotPending
	}

	now := time.Now()
	advance.Status = advancedsalary.StatusRejected
	advance.RejectionReason = &req.Reason
	advance.ReviewedBy = &claims.UserID
	advance.ReviewedAt = &now

	updated, err := s.advanceRepo.Update(ctx, advance)
	if err != nil {
		return advancedsalary.AdvancedSalaryResponse{}, err
	}

	s.publishReviewed(claims, updated)
	return advancedsalary.ToResponse(updated), nil
}

func (s *AdvancedSalaryServiceImpl) publishReviewed(claims user.Claims, a advancedsalary.AdvancedSalary) {
	events.PublishAsync(s.publisher, events.NewEvent(
		events.TypeAdvanceReviewed, claims.CompanyID, "advanced_salary", a.ID,
		map[string]interface{}{
			"employee_id":     a.EmployeeID,
			"status":          a.Status,
			"approved_amount": a.ApprovedAmount,
			"reviewed_by":     claims.UserID,
		},
	))
}

// Delete implements advancedsalary.AdvancedSalaryService.
func (s *AdvancedSalaryServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	advance, err := s.getOwned(ctx, id, claims)
	if err != nil {
		return err
	}
	if !advance.CanDelete() {
		return advancedsalary.ErrCannotDelete
	}
	if claims.Role == user.RoleEmployee && !advance.IsEditable() {
		return advancedsalary.ErrNotPending
	}

	return s.advanceRepo.Delete(ctx, id, claims.CompanyID)
}
