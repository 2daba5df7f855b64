package advancedsalary

import "context"

type AdvancedSalaryService interface {
	List(ctx context.Context, filter AdvancedSalaryFilter) (ListAdvancedSalaryResponse, error)
	Get(ctx context.Context, id string) (AdvancedSalaryResponse, error)
	Create(ctx context.Context, req CreateAdvancedSalaryRequest) (AdvancedSalaryResponse, error)
	Update(ctx context.Context, req UpdateAdvancedSalaryRequest) (AdvancedSalaryResponse, error)
	Approve(ctx context.Context, req ApproveRequest) (AdvancedSalaryResponse, error)
	Reject(ctx context.Context, req RejectRequest) (AdvancedSalaryResponse, error)
	Delete(ctx context.Context, id string) error
}
