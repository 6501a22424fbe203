package pricing

import (
	"context"

	domain "memberdesk/internal/domain/pricing"
)

// Store persists the gym price list.
type Store interface {
	Get(ctx context.Context, memberType, plan string) (domain.Price, error)
	List(ctx context.Context) ([]domain.Price, error)
	Upsert(ctx context.Context, prices []domain.Price) error
	Count(ctx context.Context) (int, error)
}
