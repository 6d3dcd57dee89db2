package storage

import (
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// xlsxCodec stores the table on one worksheet, header row first.
type xlsxCodec struct {
	sheet string
}

func (c xlsxCodec) Read(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetRows(c.sheet)
}

func (c xlsxCodec) Write(path string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(c.sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
