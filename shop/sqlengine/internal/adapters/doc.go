// Package adapters provides database adapter implementations for the SQL
// storage engine.
//
// This package implements the adapter pattern to support multiple database
// libraries: pgxpool.Pool, sql.DB, and sqlx.DB. All adapters provide
// equivalent functionality through a common DBAdapter interface, allowing
// the storage engine to work seamlessly with any supported connection type,
// including transactional sessions via DBTx.
//
// The adapters handle the specifics of each database library while
// presenting a unified interface for query execution, single-row reads,
// statement execution, and transactions.
package adapters
