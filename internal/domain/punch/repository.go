package punch

import "context"

type PunchRepository interface {
	Create(ctx context.Context, req PunchRequest) (PunchRequest, error)
	GetByID(ctx context.Context, id string, companyID string) (PunchRequest, error)
	List(ctx context.Context, filter PunchFilter, companyID string) ([]PunchRequest, int64, error)
	Update(ctx context.Context, req PunchRequest) (PunchRequest, error)
	Delete(ctx context.Context, id string, companyID string) error
}
