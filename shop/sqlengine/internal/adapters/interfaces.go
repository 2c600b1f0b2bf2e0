package adapters

import (
	"context"
	"errors"
)

// ErrLastInsertIDNotSupported is returned by drivers that can not report
// the last inserted id; such engines must use RETURNING instead.
var ErrLastInsertIDNotSupported = errors.New("last insert id is not supported by this driver")

// DBSession defines the query operations shared by a plain connection and
// an open transaction.
type DBSession interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	QueryRow(ctx context.Context, query string, args ...any) DBRow
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the
// storage engine.
type DBAdapter interface {
	DBSession
	BeginTx(ctx context.Context) (DBTx, error)
}

// DBTx is an open transaction. It offers the same query operations as the
// adapter it was started from, plus commit and rollback.
type DBTx interface {
	DBSession
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// DBRow defines the interface for a single-row query result.
type DBRow interface {
	Scan(dest ...any) error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}
