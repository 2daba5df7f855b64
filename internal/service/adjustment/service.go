package adjustment

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

type AdjustmentServiceImpl struct {
	adjustmentRepo adjustment.AdjustmentRepository
	employeeRepo   employee.EmployeeRepository
	loc            *time.Location
}

func NewAdjustmentService(adjustmentRepo adjustment.AdjustmentRepository, employeeRepo employee.EmployeeRepository, loc *time.Location) adjustment.AdjustmentService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdjustmentServiceImpl{adjustmentRepo: adjustmentRepo, employeeRepo: employeeRepo, loc: loc}
}

// List implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) List(ctx context.Context, filter adjustment.AdjustmentFilter) (adjustment.ListAdjustmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return adjustment.ListAdjustmentResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return adjustment.ListAdjustmentResponse{}, err
	}

	items, total, err := s.adjustmentRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return adjustment.ListAdjustmentResponse{}, fmt.Errorf("failed to list %s adjustments: %w", filter.Kind, err)
	}

	resp := adjustment.ListAdjustmentResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		Adjustments: make([]adjustment.AdjustmentResponse, 0, len(items)),
	}
	for _, a := range items {
		resp.Adjustments = append(resp.Adjustments, adjustment.ToResponse(a))
	}
	return resp, nil
}

// Get implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Get(ctx context.Context, kind adjustment.Kind, id string) (adjustment.AdjustmentResponse, error) {
	if !kind.IsValid() {
		return adjustment.AdjustmentResponse{}, adjustment.ErrInvalidKind
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	adj, err := s.adjustmentRepo.GetByID(ctx, id, kind, claims.CompanyID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}
	return adjustment.ToResponse(adj), nil
}

// Create implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Create(ctx context.Context, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, claims.CompanyID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	created, err := s.adjustmentRepo.Create(ctx, adjustment.Adjustment{
		EmployeeID: emp.ID,
		CompanyID:  claims.CompanyID,
		Kind:       req.Kind,
		Amount:     req.Amount.Round(2),
		Date:       &date,
		Status:     adjustment.StatusPending,
		Reason:     req.Reason,
	})
	if err != nil {
		return adjustment.AdjustmentResponse{}, fmt.Errorf("failed to create %s: %w", req.Kind, err)
	}
	created.EmployeeName = &emp.FullName

	return adjustment.ToResponse(created), nil
}

// Update implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Update(ctx context.Context, req adjustment.UpdateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	adj, err := s.pending(ctx, req.ID, req.Kind, claims.CompanyID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	if req.Amount != nil {
		adj.Amount = req.Amount.Round(2)
	}
	if req.Date != nil {
		date, _ := time.ParseInLocation("2006-01-02", *req.Date, s.loc)
		adj.Date = &date
	}
	if req.Reason != nil {
		adj.Reason = req.Reason
	}

	updated, err := s.adjustmentRepo.Update(ctx, adj)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}
	return adjustment.ToResponse(updated), nil
}

// pending loads an adjustment that may still be edited or reviewed.
func (s *AdjustmentServiceImpl) pending(ctx context.Context, id string, kind adjustment.Kind, companyID string) (adjustment.Adjustment, error) {
	adj, err := s.adjustmentRepo.GetByID(ctx, id, kind, companyID)
	if err != nil {
		return adjustment.Adjustment{}, err
	}
	if adj.Processed {
		return adjustment.Adjustment{}, adjustment.ErrAlreadyProcessed
	}
	if adj.Status != adjustment.StatusPending {
		return adjustment.Adjustment{}, adjustment.ErrNotPending
	}
	return adj, nil
}

// Approve implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Approve(ctx context.Context, req adjustment.ReviewRequest) (adjustment.AdjustmentResponse, error) {
	return s.review(ctx, req, adjustment.StatusApproved)
}

// Reject implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Reject(ctx context.Context, req adjustment.ReviewRequest) (adjustment.AdjustmentResponse, error) {
	return s.review(ctx, req, adjustment.StatusRejected)
}

func (s *AdjustmentServiceImpl) review(ctx context.Context, req adjustment.ReviewRequest, status adjustment.Status) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(status == adjustment.StatusRejected); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	adj, err := s.pending(ctx, req.ID, req.Kind, claims.CompanyID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	now := time.Now()
	adj.Status = status
	adj.ReviewedBy = &claims.UserID
	adj.ReviewedAt = &now
	if status == adjustment.StatusRejected {
		adj.RejectionReason = req.Reason
	}

	updated, err := s.adjustmentRepo.Update(ctx, adj)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}
	return adjustment.ToResponse(updated), nil
}

// Delete implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Delete(ctx context.Context, kind adjustment.Kind, id string) error {
	if !kind.IsValid() {
		return adjustment.ErrInvalidKind
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	adj, err := s.adjustmentRepo.GetByID(ctx, id, kind, claims.CompanyID)
	if err != nil {
		return err
	}
	if adj.Processed {
		return adjustment.ErrAlreadyProcessed
	}

	return s.adjustmentRepo.Delete(ctx, id, kind, claims.CompanyID)
}
