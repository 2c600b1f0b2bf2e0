// Package sqlengine implements the relational storage engine of the shop
// backend: schema migrations, repositories for members, items and orders,
// the read-only order report projection, and an explicit unit of work
// wrapping every multi-statement operation in one transaction.
//
// The engine works against PostgreSQL (via pgxpool.Pool, sql.DB or
// sqlx.DB) and against SQLite (via sql.DB with either the pure-Go or the
// cgo driver), selected through the goqu dialect. All SQL is built with
// goqu and executed through the adapter interfaces in internal/adapters.
//
// Every SQL statement the engine issues is counted per repository
// operation through the optional shop.MetricsCollector, which makes
// query-shaping differences (like the naive 1+N order report versus the
// batched 2-query variant) observable in tests and in production.
package sqlengine
