package advancedsalary

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/advancedsalary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID  = "0b9a3c1e-4d5f-4a6b-8c7d-1e2f3a4b5c6d"
	employeeID = "11111111-1111-4111-8111-111111111111"
	advanceID  = "66666666-6666-4666-8666-666666666666"
)

type fakeAdvanceRepo struct {
	advancedsalary.AdvancedSalaryRepository
	items   map[string]advancedsalary.AdvancedSalary
	deleted []string
}

func (f *fakeAdvanceRepo) Create(_ context.Context, a advancedsalary.AdvancedSalary) (advancedsalary.AdvancedSalary, error) {
	a.ID = advanceID
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAdvanceRepo) GetByID(_ context.Context, id, _ string) (advancedsalary.AdvancedSalary, error) {
	a, ok := f.items[id]
	if !ok {
		return advancedsalary.AdvancedSalary{}, advancedsalary.ErrAdvancedSalaryNotFound
	}
	return a, nil
}

func (f *fakeAdvanceRepo) Update(_ context.Context, a advancedsalary.AdvancedSalary) (advancedsalary.AdvancedSalary, error) {
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAdvanceRepo) Delete(_ context.Context, id, _ string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	status employee.EmploymentStatus
}

func (f fakeEmployeeRepo) GetByID(_ context.Context, id, _ string) (employee.Employee, error) {
	return employee.Employee{ID: id, FullName: "Alice", EmploymentStatus: f.status}, nil
}

func ctxFor(t *testing.T, role user.Role) context.Context {
	t.Helper()
	claims := user.Claims{UserID: "user-1", CompanyID: companyID, Role: role}
	if role == user.RoleEmployee {
		claims.EmployeeID = employeeID
	}
	ctx, err := jwt.ContextWithClaims(context.Background(), jwt.NewJWTService("test-secret"), claims)
	require.NoError(t, err)
	return ctx
}

func newService(repo *fakeAdvanceRepo) advancedsalary.AdvancedSalaryService {
	return NewAdvancedSalaryService(repo, fakeEmployeeRepo{status: employee.EmploymentStatusActive}, events.NewNopPublisher(), time.UTC)
}

func pending(amount int64) advancedsalary.AdvancedSalary {
	return advancedsalary.AdvancedSalary{
		ID: advanceID, EmployeeID: employeeID, RequestedAmount: decimal.NewFromInt(amount),
		Status: advancedsalary.StatusPending, Installments: 1,
	}
}

func TestCreate_ManagerMustNameEmployee(t *testing.T) {
	svc := newService(&fakeAdvanceRepo{items: map[string]advancedsalary.AdvancedSalary{}})

	_, err := svc.Create(ctxFor(t, user.RoleManager), advancedsalary.CreateAdvancedSalaryRequest{
		RequestedAmount: decimal.NewFromInt(500), RequiredDate: "2025-06-20",
	})

	assert.ErrorIs(t, err, advancedsalary.ErrEmployeeIDRequired)
}

func TestCreate_EmployeeDefaultsToOneInstallment(t *testing.T) {
	svc := newService(&fakeAdvanceRepo{items: map[string]advancedsalary.AdvancedSalary{}})

	resp, err := svc.Create(ctxFor(t, user.RoleEmployee), advancedsalary.CreateAdvancedSalaryRequest{
		RequestedAmount: decimal.NewFromInt(500), RequiredDate: "2025-06-20",
	})

	require.NoError(t, err)
	assert.Equal(t, employeeID, resp.EmployeeID)
	assert.Equal(t, 1, resp.Installments)
	assert.Equal(t, string(advancedsalary.StatusPending), resp.Status)
}

func TestApprove_CannotExceedRequested(t *testing.T) {
	repo := &fakeAdvanceRepo{items: map[string]advancedsalary.AdvancedSalary{advanceID: pending(500)}}
	svc := newService(repo)

	_, err := svc.Approve(ctxFor(t, user.RoleManager), advancedsalary.ApproveRequest{ID: advanceID, ApprovedAmount: decimal.NewFromInt(600)})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "approved_amount")
}

func TestApprove_SplitsInstallments(t *testing.T) {
	repo := &fakeAdvanceRepo{items: map[string]advancedsalary.AdvancedSalary{advanceID: pending(1000)}}
	svc := newService(repo)
	three := 3

	resp, err := svc.Approve(ctxFor(t, user.RoleManager), advancedsalary.ApproveRequest{ID: advanceID, ApprovedAmount: decimal.NewFromInt(1000), Installments: &three})

	require.NoError(t, err)
	assert.Equal(t, string(advancedsalary.StatusApproved), resp.Status)
	assert.Equal(t, "333.33", resp.NextInstallment.StringFixed(2))
	assert.Equal(t, "user-1", *resp.ReviewedBy)

	_, err = svc.Reject(ctxFor(t, user.RoleManager), advancedsalary.RejectRequest{ID: advanceID, Reason: "late"})
	assert.ErrorIs(t, err, advancedsalary.ErrNotPending)
}

func TestDelete_RecoveredAdvanceIsKept(t *testing.T) {
	recovered := pending(1000)
	recovered.Status = advancedsalary.StatusApproved
	recovered.InstallmentsPaid = 1
	repo := &fakeAdvanceRepo{items: map[string]advancedsalary.AdvancedSalary{advanceID: recovered}}
	svc := newService(repo)

	err := svc.Delete(ctxFor(t, user.RoleOwner), advanceID)

	assert.ErrorIs(t, err, advancedsalary.ErrCannotDelete)
	assert.Empty(t, repo.deleted)
}

func TestDelete_EmployeeOwnPending(t *testing.T) {
	repo := &fakeAdvanceRepo{items: map[string]advancedsalary.AdvancedSalary{advanceID: pending(100)}}
	svc := newService(repo)

	require.NoError(t, svc.Delete(ctxFor(t, user.RoleEmployee), advanceID))
	assert.Equal(t, []string{advanceID}, repo.deleted)
}
