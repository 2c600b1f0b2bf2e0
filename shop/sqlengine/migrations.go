package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/doug-martin/goqu/v9"

	"github.com/shoplab/ordershop-go/shop"
)

const opApplyMigrations = "apply_migrations"

// Migration is one schema version with its per-dialect DDL statements.
type Migration struct {
	Version  string
	Postgres []string
	SQLite   []string
}

// allMigrations contains all schema migrations. They are applied in
// semver order; already applied versions are skipped.
var allMigrations = []Migration{
	{
		Version:  "1.0.0",
		Postgres: migrationV1Postgres,
		SQLite:   migrationV1SQLite,
	},
}

var migrationV1Postgres = []string{
	`CREATE TABLE IF NOT EXISTS %[1]smembers (
		member_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		street TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_%[1]smembers_name ON %[1]smembers (name)`,
	`CREATE TABLE IF NOT EXISTS %[1]sitems (
		item_id BIGSERIAL PRIMARY KEY,
		item_type TEXT NOT NULL,
		name TEXT NOT NULL,
		price BIGINT NOT NULL,
		stock_quantity BIGINT NOT NULL CHECK (stock_quantity >= 0),
		author TEXT NOT NULL DEFAULT '',
		isbn TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS %[1]sdeliveries (
		delivery_id BIGSERIAL PRIMARY KEY,
		city TEXT NOT NULL DEFAULT '',
		street TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS %[1]sorders (
		order_id BIGSERIAL PRIMARY KEY,
		member_id BIGINT NOT NULL REFERENCES %[1]smembers (member_id),
		delivery_id BIGINT NOT NULL REFERENCES %[1]sdeliveries (delivery_id),
		order_date TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_%[1]sorders_member ON %[1]sorders (member_id)`,
	`CREATE TABLE IF NOT EXISTS %[1]sorder_items (
		order_item_id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES %[1]sorders (order_id),
		item_id BIGINT NOT NULL REFERENCES %[1]sitems (item_id),
		order_price BIGINT NOT NULL,
		count BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_%[1]sorder_items_order ON %[1]sorder_items (order_id)`,
}

var migrationV1SQLite = []string{
	`CREATE TABLE IF NOT EXISTS %[1]smembers (
		member_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		street TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_%[1]smembers_name ON %[1]smembers (name)`,
	`CREATE TABLE IF NOT EXISTS %[1]sitems (
		item_id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_type TEXT NOT NULL,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		stock_quantity INTEGER NOT NULL CHECK (stock_quantity >= 0),
		author TEXT NOT NULL DEFAULT '',
		isbn TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS %[1]sdeliveries (
		delivery_id INTEGER PRIMARY KEY AUTOINCREMENT,
		city TEXT NOT NULL DEFAULT '',
		street TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS %[1]sorders (
		order_id INTEGER PRIMARY KEY AUTOINCREMENT,
		member_id INTEGER NOT NULL REFERENCES %[1]smembers (member_id),
		delivery_id INTEGER NOT NULL REFERENCES %[1]sdeliveries (delivery_id),
		order_date TIMESTAMP NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_%[1]sorders_member ON %[1]sorders (member_id)`,
	`CREATE TABLE IF NOT EXISTS %[1]sorder_items (
		order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES %[1]sorders (order_id),
		item_id INTEGER NOT NULL REFERENCES %[1]sitems (item_id),
		order_price INTEGER NOT NULL,
		count INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_%[1]sorder_items_order ON %[1]sorder_items (order_id)`,
}

const versionTablePostgres = `CREATE TABLE IF NOT EXISTS %[1]sschema_version (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const versionTableSQLite = `CREATE TABLE IF NOT EXISTS %[1]sschema_version (
	version TEXT PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// ApplyMigrations brings the database schema up to the latest version.
// It is safe to call on every startup.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	if err := s.createVersionTable(ctx); err != nil {
		return err
	}

	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return err
	}

	migrations, err := sortedMigrations()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		if err := s.applyMigration(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) createVersionTable(ctx context.Context) error {
	ddl := versionTablePostgres
	if s.dialect == DialectSQLite {
		ddl = versionTableSQLite
	}

	_, err := s.exec(ctx, s.db, opApplyMigrations, fmt.Sprintf(ddl, s.tablePrefix), nil)

	return err
}

func (s *Store) appliedVersions(ctx context.Context) (map[string]bool, error) {
	selectStmt := s.builder().
		From(s.table(tableSchemaVersion)).
		Select(colVersion)

	sqlQuery, args, toSQLErr := selectStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		return nil, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, s.db, opApplyMigrations, sqlQuery, args)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	applied := make(map[string]bool)

	for rows.Next() {
		var version string
		if scanErr := rows.Scan(&version); scanErr != nil {
			return nil, errors.Join(shop.ErrScanningRowFailed, scanErr)
		}

		applied[version] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return applied, nil
}

func (s *Store) applyMigration(ctx context.Context, migration Migration) error {
	statements := migration.Postgres
	if s.dialect == DialectSQLite {
		statements = migration.SQLite
	}

	for _, statement := range statements {
		if _, err := s.exec(ctx, s.db, opApplyMigrations, fmt.Sprintf(statement, s.tablePrefix), nil); err != nil {
			return err
		}
	}

	insertStmt := s.builder().
		Insert(s.table(tableSchemaVersion)).
		Rows(goqu.Record{colVersion: migration.Version})

	sqlQuery, args, toSQLErr := insertStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		return errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := s.exec(ctx, s.db, opApplyMigrations, sqlQuery, args)

	return execErr
}

// sortedMigrations returns all migrations ordered by semantic version.
func sortedMigrations() ([]Migration, error) {
	migrations := make([]Migration, len(allMigrations))
	copy(migrations, allMigrations)

	versions := make(map[string]*semver.Version, len(migrations))

	for _, migration := range migrations {
		version, parseErr := semver.NewVersion(migration.Version)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid migration version %q: %w", migration.Version, parseErr)
		}

		versions[migration.Version] = version
	}

	sort.Slice(migrations, func(i, j int) bool {
		return versions[migrations[i].Version].LessThan(versions[migrations[j].Version])
	})

	return migrations, nil
}
