// Package txn runs membership writes in one SQLite transaction.
package txn

import (
	"context"

	"memberdesk/internal/adapters/storage"
	"memberdesk/internal/adapters/storage/member"
	"memberdesk/internal/adapters/storage/memberlog"
	"memberdesk/internal/adapters/storage/renewal"
	"memberdesk/internal/application/orchestrators"
)

// UnitOfWork implements orchestrators.UnitOfWork over SQLite.
type UnitOfWork struct {
	db storage.SQLDB
}

var _ orchestrators.UnitOfWork = (*UnitOfWork)(nil)

// New creates a unit of work over db.
func New(db storage.SQLDB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do hands fn member, renewal and log stores bound to one transaction.
// PRE: fn writes only through the stores it is given
// POST: every write fn made is committed, or none is when fn returns an error
func (u *UnitOfWork) Do(ctx context.Context, fn func(orchestrators.WriteStores) error) error {
	return storage.WithTx(ctx, u.db, func(q storage.Querier) error {
		return fn(orchestrators.WriteStores{
			Members:  member.NewSQLiteStore(q),
			Renewals: renewal.NewSQLiteStore(q),
			Logs:     memberlog.NewSQLiteStore(q),
		})
	})
}
