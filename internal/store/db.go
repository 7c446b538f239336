package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrConnect marks failures to reach or initialise the database. Callers
// treat it as fatal.
var ErrConnect = errors.New("database connection failed")

type DB struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to the database described by opts, verifies the connection
// and creates the tables if they do not exist. The handle holds a single
// connection; the exporter is the only writer.
func Open(ctx context.Context, opts Options) (*DB, error) {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}
	d, ok := dialects[opts.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: unknown database driver %q", ErrConnect, opts.Driver)
	}

	dsn, err := opts.DSN()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	if d.name == DriverSQLite {
		dir := filepath.Dir(opts.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create db dir: %w", ErrConnect, err)
		}
	}

	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrConnect, d.name, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrConnect, d.name, err)
	}

	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: init schema: %w", ErrConnect, err)
		}
	}

	return &DB{db: db, dialect: d, now: time.Now}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Driver returns the dialect name the handle was opened with.
func (d *DB) Driver() string {
	return d.dialect.name
}

func (d *DB) MessageCount(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM message").Scan(&n)
	return n, err
}

func (d *DB) DoneCount(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM done_file").Scan(&n)
	return n, err
}
