package renewal

import (
	"context"

	domain "memberdesk/internal/domain/renewal"
)

// Store persists renewal requests.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Request, error)
	Save(ctx context.Context, value domain.Request) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Request, error)
	HasPending(ctx context.Context, memberID string) (bool, error)
}
