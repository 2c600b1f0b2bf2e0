//go:build !sqlite_cgo

package sqlengine

// This file is compiled by default and when building without CGO.
// It uses the pure Go SQLite implementation, which requires no C
// compiler and cross-compiles cleanly.
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite" // driver import
)

// SQLiteDriverName is the database/sql driver name to use for SQLite
// connections handed to NewStoreFromSQLDB.
const SQLiteDriverName = "sqlite"
