package config

import (
	"database/sql"
	"log"

	"github.com/shoplab/ordershop-go/shop/sqlengine"
)

// SQLiteInMemoryConfig creates a single-connection in-memory SQLite
// database. Every pooled connection of an in-memory DSN would see its
// own empty database, so the pool is pinned to one connection.
func SQLiteInMemoryConfig() *sql.DB {
	db, err := sql.Open(sqlengine.SQLiteDriverName, "file::memory:")
	if err != nil {
		log.Fatal("Failed to open database connection, error: ", err)
	}

	db.SetMaxOpenConns(1)

	return db
}
