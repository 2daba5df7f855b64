package adjustment

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID    = "0b9a3c1e-4d5f-4a6b-8c7d-1e2f3a4b5c6d"
	employeeID   = "11111111-1111-4111-8111-111111111111"
	adjustmentID = "77777777-7777-4777-8777-777777777777"
)

type fakeAdjustmentRepo struct {
	adjustment.AdjustmentRepository
	items   map[string]adjustment.Adjustment
	deleted []string
}

func (f *fakeAdjustmentRepo) Create(_ context.Context, a adjustment.Adjustment) (adjustment.Adjustment, error) {
	a.ID = adjustmentID
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAdjustmentRepo) GetByID(_ context.Context, id string, kind adjustment.Kind, _ string) (adjustment.Adjustment, error) {
	a, ok := f.items[id]
	if !ok || a.Kind != kind {
		return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
	}
	return a, nil
}

func (f *fakeAdjustmentRepo) Update(_ context.Context, a adjustment.Adjustment) (adjustment.Adjustment, error) {
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAdjustmentRepo) Delete(_ context.Context, id string, _ adjustment.Kind, _ string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
}

func (fakeEmployeeRepo) GetByID(_ context.Context, id, _ string) (employee.Employee, error) {
	if id != employeeID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id, FullName: "Alice"}, nil
}

func managerCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, err := jwt.ContextWithClaims(context.Background(), jwt.NewJWTService("test-secret"), user.Claims{
		UserID: "manager-1", CompanyID: companyID, Role: user.RoleManager,
	})
	require.NoError(t, err)
	return ctx
}

func TestCreate(t *testing.T) {
	repo := &fakeAdjustmentRepo{items: map[string]adjustment.Adjustment{}}
	svc := NewAdjustmentService(repo, fakeEmployeeRepo{}, time.UTC)

	resp, err := svc.Create(managerCtx(t), adjustment.CreateAdjustmentRequest{
		Kind: adjustment.KindIncentive, EmployeeID: employeeID, Amount: decimal.RequireFromString("150.555"), Date: "2025-06-15",
	})

	require.NoError(t, err)
	assert.Equal(t, "150.56", resp.Amount.StringFixed(2))
	assert.Equal(t, string(adjustment.StatusPending), resp.Status)
	assert.Equal(t, adjustment.KindIncentive, repo.items[adjustmentID].Kind)
}

func TestCreate_UnknownEmployee(t *testing.T) {
	svc := NewAdjustmentService(&fakeAdjustmentRepo{items: map[string]adjustment.Adjustment{}}, fakeEmployeeRepo{}, time.UTC)

	_, err := svc.Create(managerCtx(t), adjustment.CreateAdjustmentRequest{
		Kind: adjustment.KindFine, EmployeeID: "22222222-2222-4222-8222-222222222222", Amount: decimal.NewFromInt(10), Date: "2025-06-15",
	})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestReview(t *testing.T) {
	tests := []struct {
		name    string
		current adjustment.Adjustment
		reject  bool
		reason  *string
		wantErr error
		wantVal bool
	}{
		{name: "approve pending", current: adjustment.Adjustment{Status: adjustment.StatusPending}},
		{name: "reject needs reason", current: adjustment.Adjustment{Status: adjustment.StatusPending}, reject: true, wantVal: true},
		{name: "already approved", current: adjustment.Adjustment{Status: adjustment.StatusApproved}, wantErr: adjustment.ErrNotPending},
		{name: "processed", current: adjustment.Adjustment{Status: adjustment.StatusApproved, Processed: true}, wantErr: adjustment.ErrAlreadyProcessed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.current.ID = adjustmentID
			tt.current.Kind = adjustment.KindArrears
			repo := &fakeAdjustmentRepo{items: map[string]adjustment.Adjustment{adjustmentID: tt.current}}
			svc := NewAdjustmentService(repo, fakeEmployeeRepo{}, time.UTC)
			req := adjustment.ReviewRequest{ID: adjustmentID, Kind: adjustment.KindArrears, Reason: tt.reason}

			var err error
			if tt.reject {
				_, err = svc.Reject(managerCtx(t), req)
			} else {
				_, err = svc.Approve(managerCtx(t), req)
			}

			switch {
			case tt.wantVal:
				var verrs validator.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, adjustment.StatusApproved, repo.items[adjustmentID].Status)
				assert.Equal(t, "manager-1", *repo.items[adjustmentID].ReviewedBy)
			}
		})
	}
}

func TestGet_KindMismatchIsNotFound(t *testing.T) {
	repo := &fakeAdjustmentRepo{items: map[string]adjustment.Adjustment{adjustmentID: {ID: adjustmentID, Kind: adjustment.KindFine}}}
	svc := NewAdjustmentService(repo, fakeEmployeeRepo{}, time.UTC)

	_, err := svc.Get(managerCtx(t), adjustment.KindIncentive, adjustmentID)

	assert.ErrorIs(t, err, adjustment.ErrAdjustmentNotFound)
}

func TestDelete_ProcessedRefused(t *testing.T) {
	repo := &fakeAdjustmentRepo{items: map[string]adjustment.Adjustment{adjustmentID: {ID: adjustmentID, Kind: adjustment.KindFine, Processed: true}}}
	svc := NewAdjustmentService(repo, fakeEmployeeRepo{}, time.UTC)

	err := svc.Delete(managerCtx(t), adjustment.KindFine, adjustmentID)

	assert.ErrorIs(t, err, adjustment.ErrAlreadyProcessed)
	assert.Empty(t, repo.deleted)
}
