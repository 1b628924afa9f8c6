package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Transactor abstracts the transaction boundary so services can be tested
// without a live database.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

var _ Transactor = (*Connection)(nil)
