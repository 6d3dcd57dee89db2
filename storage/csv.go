package storage

import (
	"encoding/csv"
	"os"
)

// csvCodec stores the table as RFC 4180 delimited text, header row first.
type csvCodec struct{}

func (csvCodec) Read(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Legacy files may carry fewer or more columns than the schema declares;
	// GetAll reindexes, so don't reject ragged records here.
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (csvCodec) Write(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
