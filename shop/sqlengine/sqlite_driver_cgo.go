//go:build sqlite_cgo

package sqlengine

// This file is compiled with the sqlite_cgo build tag. It uses the cgo
// SQLite driver, which is faster but requires a C compiler.
//
// Build command:
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3" // driver import
)

// SQLiteDriverName is the database/sql driver name to use for SQLite
// connections handed to NewStoreFromSQLDB.
const SQLiteDriverName = "sqlite3"
