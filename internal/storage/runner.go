package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/ftsearch/pkg/types"
)

// ErrNotExecutable is returned for queries that cannot render statements
var ErrNotExecutable = errors.New("query cannot be executed")

// Statementer is a query that renders executable statements
type Statementer interface {
	Statement() (string, []any, error)
	CountStatement() (string, []any, error)
}

// Result holds one page of rows and the total row count
type Result struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Total   int64            `json:"total"`
}

// Runner executes queries against a database
type Runner struct {
	db  *sql.DB
	log *slog.Logger
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// A single connection keeps :memory: databases shared
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// Open opens the SQLite database at dsn
func Open(dsn string, log *slog.Logger) (*Runner, error) {
	db, err := openDatabase(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db, log), nil
}

// New wraps an open database
func New(db *sql.DB, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{db: db, log: log}
}

// DB returns the underlying database
func (r *Runner) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Runner) Close() error {
	return r.db.Close()
}

// Exec runs a statement that returns no rows
func (r *Runner) Exec(ctx context.Context, stmt string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// Run executes the page query and its count concurrently
func (r *Runner) Run(ctx context.Context, q types.Query) (*Result, error) {
	st, ok := q.(Statementer)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotExecutable, q)
	}

	rowsSQL, rowsArgs, err := st.Statement()
	if err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	countSQL, countArgs, err := st.CountStatement()
	if err != nil {
		return nil, fmt.Errorf("failed to render count statement: %w", err)
	}

	r.log.Debug("running query", "sql", rowsSQL, "args", len(rowsArgs))

	var res Result
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cols, rows, err := r.queryRows(gctx, rowsSQL, rowsArgs)
		if err != nil {
			return err
		}
		res.Columns = cols
		res.Rows = rows
		return nil
	})

	g.Go(func() error {
		if err := r.db.QueryRowContext(gctx, countSQL, countArgs...).Scan(&res.Total); err != nil {
			return fmt.Errorf("failed to count rows: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Runner) queryRows(ctx context.Context, stmt string, args []any) ([]string, []map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return cols, out, nil
}
