// Package sqlitewrapper provides an in-memory SQLite backed Store for
// tests, so the repository and service test suites run without any
// external database.
package sqlitewrapper

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shoplab/ordershop-go/shop/sqlengine"
)

// Wrapper owns the in-memory database for one test and the Store built
// on top of it.
type Wrapper struct {
	db    *sql.DB
	store *sqlengine.Store
}

// GetStore returns the Store bound to this wrapper's database.
func (w *Wrapper) GetStore() *sqlengine.Store {
	return w.store
}

// DB exposes the raw connection for test assertions that need to look
// at the tables directly.
func (w *Wrapper) DB() *sql.DB {
	return w.db
}

// Close releases the in-memory database.
func (w *Wrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapper builds a fresh in-memory SQLite database, applies all
// migrations, and returns a wrapper around the resulting Store.
//
// The connection pool is pinned to a single connection: every pooled
// connection of an in-memory SQLite DSN would otherwise see its own
// empty database.
func CreateWrapper(t testing.TB, options ...sqlengine.Option) *Wrapper {
	t.Helper()

	db, err := sql.Open(sqlengine.SQLiteDriverName, "file::memory:")
	require.NoError(t, err, "error opening in-memory db in test setup")
	db.SetMaxOpenConns(1)

	options = append([]sqlengine.Option{sqlengine.WithDialect(sqlengine.DialectSQLite)}, options...)

	store, err := sqlengine.NewStoreFromSQLDB(db, options...)
	require.NoError(t, err, "error building store in test setup")

	err = store.ApplyMigrations(context.Background())
	require.NoError(t, err, "error applying migrations in test setup")

	return &Wrapper{db: db, store: store}
}

// CleanUp empties all shop tables so a wrapper can be reused between
// test cases.
func CleanUp(t testing.TB, wrapper *Wrapper) {
	t.Helper()

	for _, table := range []string{"order_items", "orders", "deliveries", "items", "members"} {
		_, err := wrapper.db.Exec(fmt.Sprintf(`DELETE FROM %s`, table))
		require.NoError(t, err, "error cleaning up the shop tables")
	}
}

// CountRows returns the number of rows in the given table.
func CountRows(t testing.TB, wrapper *Wrapper, table string) int {
	t.Helper()

	var cnt int
	err := wrapper.db.QueryRow(fmt.Sprintf(`SELECT count(*) FROM %s`, table)).Scan(&cnt)
	require.NoError(t, err, "error counting rows in test assertion")

	return cnt
}
