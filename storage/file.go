package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"

	"github.com/nijaru/yt-shorts/errors"
)

// tableCodec reads and writes a whole table of string cells. The first record
// is the header row. Implementations: csvCodec, xlsxCodec.
type tableCodec interface {
	Read(path string) ([][]string, error)
	Write(path string, records [][]string) error
}

// FileStrategy persists rows in a single delimited-text or spreadsheet file.
// Every operation reads or rewrites the whole file; there are no partial
// updates and no transaction log. A crash mid-write can truncate the file,
// and concurrent writers can lose data. That is the contract of the file
// backends, not a bug: use the SQLite backend when atomicity matters.
type FileStrategy struct {
	path   string
	schema Schema
	codec  tableCodec
}

func NewCSVStrategy(path string, schema Schema) *FileStrategy {
	return &FileStrategy{path: path, schema: schema, codec: csvCodec{}}
}

func NewXLSXStrategy(path string, schema Schema) *FileStrategy {
	return &FileStrategy{path: path, schema: schema, codec: xlsxCodec{sheet: defaultSheet}}
}

// Initialize writes a header-only table if the file is absent. An existing
// file whose header columns differ from the schema fails loudly.
func (s *FileStrategy) Initialize(_ context.Context) error {
	const op = "FileStrategy.Initialize"

	if _, err := os.Stat(s.path); err != nil {
		if !os.IsNotExist(err) {
			return errors.Internal(op, pkgerrors.Wrapf(err, "checking %s", s.path),
				"failed to initialize file storage")
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return errors.Internal(op, pkgerrors.Wrapf(err, "creating directory for %s", s.path),
				"failed to initialize file storage")
		}
		if err := s.codec.Write(s.path, [][]string{s.schema.Columns}); err != nil {
			return errors.Internal(op, pkgerrors.Wrapf(err, "writing header to %s", s.path),
				"failed to initialize file storage")
		}
		return nil
	}

	records, err := s.codec.Read(s.path)
	if err != nil {
		return errors.Internal(op, pkgerrors.Wrapf(err, "reading %s", s.path),
			"failed to initialize file storage")
	}
	if len(records) > 0 && !columnsMatch(s.schema.Columns, records[0]) {
		return errors.Internal(op, nil, fmt.Sprintf(
			"schema mismatch at %s: file has columns %v, schema declares %v",
			s.path, records[0], s.schema.Columns))
	}
	return nil
}

// GetAll returns every row in the file, reindexed to the declared column
// order. An absent file is an empty table, not an error. Cells the file lacks
// come back as empty strings; columns the schema does not declare are dropped.
func (s *FileStrategy) GetAll(_ context.Context) ([]Row, error) {
	const op = "FileStrategy.GetAll"

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}

	records, err := s.codec.Read(s.path)
	if err != nil {
		return nil, errors.Internal(op, pkgerrors.Wrapf(err, "reading %s", s.path),
			"failed to read from file storage")
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	var out []Row
	for _, record := range records[1:] {
		row := make(Row, len(s.schema.Columns))
		for _, c := range s.schema.Columns {
			row[c] = ""
		}
		for i, name := range header {
			if i >= len(record) {
				break
			}
			if _, declared := row[name]; declared {
				row[name] = record[i]
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// SaveBatch emulates upsert-by-id via filter and append: existing rows whose
// id matches an incoming row are dropped, the incoming rows are appended, and
// the whole file is rewritten in schema column order.
func (s *FileStrategy) SaveBatch(ctx context.Context, batch []Row) error {
	const op = "FileStrategy.SaveBatch"

	if len(batch) == 0 {
		return nil
	}

	incomingIDs := make(map[string]struct{}, len(batch))
	for _, row := range batch {
		incomingIDs[row[s.schema.IDColumn]] = struct{}{}
	}

	var kept []Row
	if _, err := os.Stat(s.path); err == nil {
		existing, err := s.GetAll(ctx)
		if err != nil {
			return errors.Internal(op, err, fmt.Sprintf("failed to save batch of %d rows", len(batch)))
		}
		for _, row := range existing {
			if _, replaced := incomingIDs[row[s.schema.IDColumn]]; !replaced {
				kept = append(kept, row)
			}
		}
	}

	records := make([][]string, 0, len(kept)+len(batch)+1)
	records = append(records, s.schema.Columns)
	for _, row := range kept {
		records = append(records, s.record(row))
	}
	for _, row := range batch {
		records = append(records, s.record(row))
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Internal(op, pkgerrors.Wrapf(err, "creating directory for %s", s.path),
			fmt.Sprintf("failed to save batch of %d rows", len(batch)))
	}
	if err := s.codec.Write(s.path, records); err != nil {
		return errors.Internal(op, pkgerrors.Wrapf(err, "writing %s", s.path),
			fmt.Sprintf("failed to save batch of %d rows", len(batch)))
	}
	return nil
}

// record flattens a row to schema column order, blank-filling absent values.
func (s *FileStrategy) record(row Row) []string {
	record := make([]string, len(s.schema.Columns))
	for i, c := range s.schema.Columns {
		record[i] = row[c]
	}
	return record
}
