package sqlengine

import (
	"github.com/shoplab/ordershop-go/shop"
)

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithDialect sets the goqu dialect of the Store. Only DialectPostgres
// and DialectSQLite are supported.
//
// On SQLite, SELECT ... FOR UPDATE row locking is disabled because the
// engine serializes writers on its own.
func WithDialect(dialect string) Option {
	return func(s *Store) error {
		switch dialect {
		case DialectPostgres:
			s.dialect = dialect
			s.rowLocking = true
		case DialectSQLite:
			s.dialect = dialect
			s.rowLocking = false
		default:
			return shop.ErrUnsupportedDialect
		}

		return nil
	}
}

// WithRowLocking overrides the dialect's row-locking default and must be
// applied after WithDialect. SQLite has no FOR UPDATE syntax, so locking
// must stay disabled there; on postgres, disabling it trades the
// serialization of concurrent stock writes for throughput.
func WithRowLocking(enabled bool) Option {
	return func(s *Store) error {
		s.rowLocking = enabled
		return nil
	}
}

// WithTablePrefix prefixes every table name the Store touches, which
// allows multiple shops (or parallel test runs) to share one database.
func WithTablePrefix(prefix string) Option {
	return func(s *Store) error {
		if prefix == "" {
			return shop.ErrEmptyTablePrefix
		}

		s.tablePrefix = prefix

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: operation outcomes and row counts (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger shop.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// The contextual logger will receive log messages with context information
// including automatic trace/span correlation when tracing is enabled.
func WithContextualLogger(logger shop.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// The collector will receive one counter increment and one duration
// sample per issued SQL statement, labeled with the repository operation,
// plus an error counter for failed statements.
func WithMetrics(collector shop.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}
