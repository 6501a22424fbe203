package memberlog

import (
	"context"
	"time"

	domain "memberdesk/internal/domain/membershiplog"
)

// Store persists membership log entries. Entries are append-only.
type Store interface {
	Append(ctx context.Context, entry domain.Entry) error
	ListSince(ctx context.Context, since time.Time) ([]domain.Entry, error)
}
