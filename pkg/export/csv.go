package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// utf8BOM makes spreadsheet tools detect UTF-8 instead of the system code page.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is tabular export content. Every row must have len(Headers) cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// CSVOptions tunes the encoding.
type CSVOptions struct {
	BOM bool
}

// WriteCSV encodes the table to w.
func WriteCSV(w io.Writer, table Table, opts CSVOptions) error {
	if len(table.Headers) == 0 {
		return errors.New("csv requires at least one header")
	}
	if opts.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("write csv bom: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Headers) {
			return fmt.Errorf("csv row %d has %d cells, want %d", i, len(row), len(table.Headers))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
