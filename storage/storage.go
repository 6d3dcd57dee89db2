// Package storage provides generic row-based persistence behind a single
// contract with three interchangeable backends: SQLite, CSV, and XLSX.
//
// The layer is deliberately untyped: every persisted value is a string, and
// typed conversion is the entity layer's sole responsibility. Each operation
// opens and closes its own handle to the medium; no rows are cached between
// calls, so the medium is the only source of truth.
package storage

import (
	"context"
	"fmt"
	"slices"

	"github.com/nijaru/yt-shorts/errors"
)

// Row is one persisted record: a flat mapping of column name to string value.
type Row map[string]string

// Schema declares the shape of a storage container: the table (or sheet)
// name, the identity column, and the ordered column list. It drives table and
// file creation and the column order of every rewrite.
type Schema struct {
	Table    string
	IDColumn string
	Columns  []string
}

func (s Schema) Validate() error {
	const op = "Schema.Validate"

	if len(s.Columns) == 0 {
		return errors.InvalidInput(op, nil, "schema must declare at least one column")
	}
	if !slices.Contains(s.Columns, s.IDColumn) {
		return errors.InvalidInput(op, nil,
			fmt.Sprintf("id column %q is not among the declared columns %v", s.IDColumn, s.Columns))
	}
	return nil
}

// Strategy is the uniform persistence contract satisfied by every backend.
//
// SaveBatch uses upsert-by-id semantics: rows whose id already exists in the
// medium are replaced, new ids are appended. Only the SQLite backend commits
// a batch atomically; the file backends rewrite the whole file and a crash
// mid-write can leave it truncated. Concurrent writers on a file medium can
// race; serialize access externally if that matters.
type Strategy interface {
	// Initialize idempotently ensures the medium exists and matches the
	// declared schema. An existing medium whose columns differ from the
	// schema fails loudly.
	Initialize(ctx context.Context) error

	// GetAll returns every persisted row in backend-defined order. Each row
	// contains a value for every schema column; file backends blank-fill
	// cells the underlying file lacks.
	GetAll(ctx context.Context) ([]Row, error)

	// SaveBatch persists rows with upsert-by-id semantics. No-op on empty
	// input; an empty batch never creates the medium.
	SaveBatch(ctx context.Context, rows []Row) error
}

// columnsMatch compares two column lists as sets. Order is not significant:
// reads reindex by name and rewrites always force the declared order.
func columnsMatch(declared, existing []string) bool {
	if len(declared) != len(existing) {
		return false
	}
	a := slices.Clone(declared)
	b := slices.Clone(existing)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
