package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine/internal/adapters"
)

// Supported goqu dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

const (
	tableMembers       = "members"
	tableItems         = "items"
	tableDeliveries    = "deliveries"
	tableOrders        = "orders"
	tableOrderItems    = "order_items"
	tableSchemaVersion = "schema_version"

	colMemberID      = "member_id"
	colItemID        = "item_id"
	colDeliveryID    = "delivery_id"
	colOrderID       = "order_id"
	colOrderItemID   = "order_item_id"
	colName          = "name"
	colCity          = "city"
	colStreet        = "street"
	colZipcode       = "zipcode"
	colItemType      = "item_type"
	colPrice         = "price"
	colStockQuantity = "stock_quantity"
	colAuthor        = "author"
	colISBN          = "isbn"
	colStatus        = "status"
	colOrderDate     = "order_date"
	colOrderPrice    = "order_price"
	colCount         = "count"
	colVersion       = "version"

	itemTypeBook = "BOOK"
)

const (
	logMsgBuildQueryFailed = "failed to build sql query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgDBExecFailed     = "database statement execution failed"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgRollbackFailed   = "failed to roll back transaction"
	logMsgSQLExecuted      = "executed sql for: "
	logMsgOperation        = "shopstore operation: "

	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrOperation    = "operation"
	logAttrDurationMS   = "duration_ms"
	logAttrRowsAffected = "rows_affected"
)

const (
	metricQueriesTotal         = "shopstore_queries_total"
	metricQueryDurationSeconds = "shopstore_query_duration_seconds"
	metricStorageErrorsTotal   = "shopstore_storage_errors_total"

	labelOperation = "operation"
	labelStatus    = "status"

	statusSuccess = "success"
	statusError   = "error"
)

// Store is the storage engine handle. It carries the database adapter,
// the goqu dialect, and the optional observability collaborators; all
// repositories are obtained from it (pool-bound) or from a UnitOfWork
// (transaction-bound).
type Store struct {
	db               adapters.DBAdapter
	dialect          string
	tablePrefix      string
	logger           shop.Logger
	contextualLogger shop.ContextualLogger
	metricsCollector shop.MetricsCollector
	rowLocking       bool
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional
// configuration. The dialect is postgres and SELECT ... FOR UPDATE row
// locking is enabled.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, shop.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional
// configuration. The dialect defaults to postgres; pass
// WithDialect(DialectSQLite) when the handle is a SQLite database.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, shop.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional
// configuration. The dialect defaults to postgres.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, shop.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (*Store, error) {
	store := &Store{
		db:         db,
		dialect:    DialectPostgres,
		rowLocking: true,
	}

	for _, option := range options {
		if err := option(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Members returns a member repository bound to the connection pool.
func (s *Store) Members() *MemberRepository {
	return &MemberRepository{store: s, session: s.db}
}

// Items returns an item repository bound to the connection pool.
func (s *Store) Items() *ItemRepository {
	return &ItemRepository{store: s, session: s.db}
}

// Orders returns an order repository bound to the connection pool.
func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{store: s, session: s.db}
}

// OrderQueries returns the read-only order report repository bound to the
// connection pool.
func (s *Store) OrderQueries() *OrderQueryRepository {
	return &OrderQueryRepository{store: s, session: s.db}
}

func (s *Store) builder() goqu.DialectWrapper {
	return goqu.Dialect(s.dialect)
}

func (s *Store) table(name string) string {
	return s.tablePrefix + name
}

// query builds nothing itself; it executes an already rendered SQL query
// with bound args on the given session, with logging and metrics.
func (s *Store) query(
	ctx context.Context,
	session adapters.DBSession,
	operation string,
	sqlQuery string,
	args []any,
) (adapters.DBRows, error) {

	start := time.Now()
	rows, queryErr := session.Query(ctx, sqlQuery, args...)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrOperation, operation, logAttrQuery, sqlQuery)
		s.recordStatement(operation, duration, statusError)

		return nil, errors.Join(shop.ErrQueryingFailed, queryErr)
	}

	s.recordStatement(operation, duration, statusSuccess)

	return rows, nil
}

// exec executes an already rendered SQL statement with bound args on the
// given session and returns the number of affected rows.
func (s *Store) exec(
	ctx context.Context,
	session adapters.DBSession,
	operation string,
	sqlQuery string,
	args []any,
) (int64, error) {

	start := time.Now()
	result, execErr := session.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrOperation, operation, logAttrQuery, sqlQuery)
		s.recordStatement(operation, duration, statusError)

		return 0, errors.Join(shop.ErrExecutingFailed, execErr)
	}

	s.recordStatement(operation, duration, statusSuccess)

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		return 0, errors.Join(shop.ErrExecutingFailed, rowsAffectedErr)
	}

	s.logOperation(ctx, operation, logAttrRowsAffected, rowsAffected, logAttrDurationMS, s.toMilliseconds(duration))

	return rowsAffected, nil
}

// insertReturningID runs an insert statement and reports the generated
// identity. Postgres reports it through a RETURNING clause, SQLite
// through the driver's last-insert-id.
func (s *Store) insertReturningID(
	ctx context.Context,
	session adapters.DBSession,
	operation string,
	insertStmt *goqu.InsertDataset,
	idColumn string,
) (int64, error) {

	if s.dialect == DialectPostgres {
		sqlQuery, args, toSQLErr := insertStmt.Returning(goqu.C(idColumn)).Prepared(true).ToSQL()
		if toSQLErr != nil {
			s.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, operation)
			return 0, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
		}

		start := time.Now()
		row := session.QueryRow(ctx, sqlQuery, args...)

		var id int64
		scanErr := row.Scan(&id)
		duration := time.Since(start)
		s.logQueryWithDuration(ctx, sqlQuery, operation, duration)

		if scanErr != nil {
			s.logError(ctx, logMsgDBExecFailed, scanErr, logAttrOperation, operation, logAttrQuery, sqlQuery)
			s.recordStatement(operation, duration, statusError)

			return 0, errors.Join(shop.ErrExecutingFailed, scanErr)
		}

		s.recordStatement(operation, duration, statusSuccess)

		return id, nil
	}

	sqlQuery, args, toSQLErr := insertStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, operation)
		return 0, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	result, execErr := session.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrOperation, operation, logAttrQuery, sqlQuery)
		s.recordStatement(operation, duration, statusError)

		return 0, errors.Join(shop.ErrExecutingFailed, execErr)
	}

	s.recordStatement(operation, duration, statusSuccess)

	id, idErr := result.LastInsertId()
	if idErr != nil {
		return 0, errors.Join(shop.ErrExecutingFailed, idErr)
	}

	return id, nil
}

// closeRows safely closes database rows and logs any errors.
func (s *Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}
