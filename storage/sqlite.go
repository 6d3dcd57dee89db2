package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"

	"github.com/nijaru/yt-shorts/errors"
)

// SQLiteStrategy persists rows in a single SQLite table. Every column is
// typed TEXT; the id column is the primary key, which enforces uniqueness at
// the storage level. This is the only backend with true multi-row atomicity:
// SaveBatch wraps the whole batch in one transaction.
type SQLiteStrategy struct {
	path   string
	schema Schema
}

func NewSQLiteStrategy(path string, schema Schema) *SQLiteStrategy {
	return &SQLiteStrategy{path: path, schema: schema}
}

// open creates a fresh connection for a single operation. No handle is held
// across calls.
func (s *SQLiteStrategy) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, pkgerrors.Wrapf(err, "creating directory for %s", s.path)
	}
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "opening %s", s.path)
	}
	return db, nil
}

func (s *SQLiteStrategy) Initialize(ctx context.Context) error {
	const op = "SQLiteStrategy.Initialize"

	db, err := s.open()
	if err != nil {
		return errors.Internal(op, err, "failed to initialize sqlite storage")
	}
	defer db.Close()

	existing, err := s.tableColumns(ctx, db)
	if err != nil {
		return errors.Internal(op, pkgerrors.Wrapf(err, "inspecting %s", s.path),
			"failed to initialize sqlite storage")
	}
	if existing != nil {
		if !columnsMatch(s.schema.Columns, existing) {
			return errors.Internal(op, nil, fmt.Sprintf(
				"schema mismatch at %s: table %s has columns %v, schema declares %v",
				s.path, s.schema.Table, existing, s.schema.Columns))
		}
		return nil
	}

	if _, err := db.ExecContext(ctx, s.createTableSQL()); err != nil {
		return errors.Internal(op, pkgerrors.Wrapf(err, "creating table in %s", s.path),
			"failed to initialize sqlite storage")
	}
	return nil
}

func (s *SQLiteStrategy) GetAll(ctx context.Context) ([]Row, error) {
	const op = "SQLiteStrategy.GetAll"

	db, err := s.open()
	if err != nil {
		return nil, errors.Internal(op, err, "failed to read from sqlite storage")
	}
	defer db.Close()

	cols := s.schema.Columns
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), s.schema.Table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Internal(op, pkgerrors.Wrapf(err, "querying %s", s.path),
			"failed to read from sqlite storage")
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Internal(op, pkgerrors.Wrapf(err, "scanning row from %s", s.path),
				"failed to read from sqlite storage")
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = values[i].String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, pkgerrors.Wrapf(err, "iterating rows from %s", s.path),
			"failed to read from sqlite storage")
	}
	return out, nil
}

func (s *SQLiteStrategy) SaveBatch(ctx context.Context, batch []Row) error {
	const op = "SQLiteStrategy.SaveBatch"

	if len(batch) == 0 {
		return nil
	}

	db, err := s.open()
	if err != nil {
		return errors.Internal(op, err, "failed to write to sqlite storage")
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Internal(op, pkgerrors.Wrapf(err, "beginning transaction on %s", s.path),
			"failed to write to sqlite storage")
	}

	stmt, err := tx.PrepareContext(ctx, s.upsertSQL())
	if err != nil {
		tx.Rollback()
		return errors.Internal(op, pkgerrors.Wrapf(err, "preparing upsert on %s", s.path),
			"failed to write to sqlite storage")
	}
	defer stmt.Close()

	for _, row := range batch {
		args := make([]any, len(s.schema.Columns))
		for i, c := range s.schema.Columns {
			// A column absent from the row map becomes NULL, so a row
			// missing its id fails the NOT NULL primary key and aborts
			// the whole batch.
			if v, ok := row[c]; ok {
				args[i] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return errors.Internal(op, pkgerrors.Wrapf(err, "writing to %s", s.path),
				fmt.Sprintf("failed to save batch of %d rows", len(batch)))
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return errors.Internal(op, pkgerrors.Wrapf(err, "committing to %s", s.path),
			fmt.Sprintf("failed to save batch of %d rows", len(batch)))
	}
	return nil
}

func (s *SQLiteStrategy) createTableSQL() string {
	parts := make([]string, 0, len(s.schema.Columns))
	for _, c := range s.schema.Columns {
		if c == s.schema.IDColumn {
			parts = append(parts, c+" TEXT PRIMARY KEY NOT NULL")
		} else {
			parts = append(parts, c+" TEXT")
		}
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", s.schema.Table, strings.Join(parts, ", "))
}

func (s *SQLiteStrategy) upsertSQL() string {
	cols := s.schema.Columns
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		s.schema.Table, strings.Join(cols, ", "), placeholders)
}

// tableColumns returns the columns of the schema's table in creation order,
// or nil if the table does not exist yet.
func (s *SQLiteStrategy) tableColumns(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", s.schema.Table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			name       string
			typ        string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}
