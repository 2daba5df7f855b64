package punch

import "context"

type PunchService interface {
	List(ctx context.Context, filter PunchFilter) (ListPunchResponse, error)
	Get(ctx context.Context, id string) (PunchResponse, error)
	Create(ctx context.Context, req CreatePunchRequest) (PunchResponse, error)
	Update(ctx context.Context, req UpdatePunchRequest) (PunchResponse, error)
	// Approve writes the punch into the attendance record in the same transaction.
	Approve(ctx context.Context, id string) (PunchResponse, error)
	Reject(ctx context.Context, req RejectRequest) (PunchResponse, error)
	Delete(ctx context.Context, id string) error
}
