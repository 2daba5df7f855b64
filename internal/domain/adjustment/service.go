package adjustment

import "context"

type AdjustmentService interface {
	List(ctx context.Context, filter AdjustmentFilter) (ListAdjustmentResponse, error)
	Get(ctx context.Context, kind Kind, id string) (AdjustmentResponse, error)
	Create(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	Update(ctx context.Context, req UpdateAdjustmentRequest) (AdjustmentResponse, error)
	Approve(ctx context.Context, req ReviewRequest) (AdjustmentResponse, error)
	Reject(ctx context.Context, req ReviewRequest) (AdjustmentResponse, error)
	Delete(ctx context.Context, kind Kind, id string) error
}
