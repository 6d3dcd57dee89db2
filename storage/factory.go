package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nijaru/yt-shorts/errors"
)

// NewStrategy picks a storage backend from the path's file extension:
// .db/.sqlite/.sqlite3 for SQLite, .csv for delimited text, .xlsx for a
// spreadsheet. Pure dispatch; no I/O happens here.
func NewStrategy(path string, schema Schema) (Strategy, error) {
	const op = "storage.NewStrategy"

	if err := schema.Validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStrategy(path, schema), nil
	case ".csv":
		return NewCSVStrategy(path, schema), nil
	case ".xlsx":
		return NewXLSXStrategy(path, schema), nil
	default:
		return nil, errors.InvalidInput(op, nil, fmt.Sprintf(
			"unsupported storage path %q: use .db/.sqlite/.sqlite3 for SQLite, .csv for CSV, .xlsx for Excel", path))
	}
}
