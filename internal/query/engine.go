// Package query executes the dashboard's fixed aggregate statements and
// exposes their results as single-pass row sets.
package query

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverDuckDB = "duckdb"
)

// Engine runs statements against a read-only sales database.
type Engine struct {
	db     *sql.DB
	driver string
	path   string
	log    zerolog.Logger
}

// Open opens the database at path read-only and checks that it is reachable.
func Open(ctx context.Context, driver, path string, log zerolog.Logger) (*Engine, error) {
	dsn, err := dataSourceName(driver, path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s %s: %w", driver, path, err)
	}
	// One UI thread issues queries one at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s %s: %w", driver, path, err)
	}

	log.Info().Str("driver", driver).Str("path", path).Msg("database opened")
	return &Engine{db: db, driver: driver, path: path, log: log}, nil
}

func dataSourceName(driver, path string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "file:" + path + "?mode=ro", nil
	case DriverDuckDB:
		return path + "?access_mode=read_only", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Driver returns the driver name.
func (e *Engine) Driver() string {
	return e.driver
}

// Path returns the database path.
func (e *Engine) Path() string {
	return e.path
}

// Run executes stmt. A failing query yields an empty row set whose Err
// reports the failure; callers that only iterate see no rows.
func (e *Engine) Run(ctx context.Context, stmt Statement) *RowSet {
	rows, err := e.db.QueryContext(ctx, stmt.Text(e.driver))
	if err != nil {
		e.log.Error().Err(err).Str("statement", stmt.Name).Msg("query failed")
		return failed(fmt.Errorf("query %s: %w", stmt.Name, err))
	}

	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		e.log.Error().Err(err).Str("statement", stmt.Name).Msg("reading columns failed")
		return failed(fmt.Errorf("query %s columns: %w", stmt.Name, err))
	}

	e.log.Debug().Str("statement", stmt.Name).Strs("columns", cols).Msg("query executed")
	return newRowSet(rows, cols)
}

// Close closes the database.
func (e *Engine) Close() error {
	return e.db.Close()
}
