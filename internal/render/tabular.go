package render

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/parquet-go/parquet-go"
)

// readCSV returns the header and at most limit data rows of a CSV file.
func readCSV(path string, limit int) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, readFailure(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, decodeFailure(path, errors.New("no columns to parse"))
		}
		return nil, nil, decodeFailure(path, err)
	}
	if err := validRecord(header); err != nil {
		return nil, nil, decodeFailure(path, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	rows := make([][]string, 0, min(limit, 64))
	for len(rows) < limit {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, decodeFailure(path, err)
		}
		if err := validRecord(rec); err != nil {
			return nil, nil, decodeFailure(path, err)
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, nil, decodeFailure(path, fmt.Errorf("record on line %d: %d fields, header has %d", line, len(rec), len(header)))
		}
		// short rows are padded with empty cells
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

func validRecord(rec []string) error {
	for _, field := range rec {
		if !utf8.ValidString(field) {
			return errInvalidUTF8
		}
	}
	return nil
}

// readParquet returns the column paths and at most limit rows of a parquet
// file. Repeated values in one cell are joined with ", ".
func readParquet(path string, limit int) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, readFailure(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, readFailure(path, err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, nil, decodeFailure(path, fmt.Errorf("open parquet: %w", err))
	}

	var cols []string
	for _, p := range pf.Schema().Columns() {
		cols = append(cols, strings.Join(p, "."))
	}

	reader := parquet.NewReader(pf)
	defer reader.Close()

	rows := make([][]string, 0, min(limit, 64))
	buf := make([]parquet.Row, 64)
	for len(rows) < limit {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			if len(rows) == limit {
				break
			}
			rows = append(rows, parquetCells(row, len(cols)))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, decodeFailure(path, fmt.Errorf("read parquet rows: %w", err))
		}
		if n == 0 {
			break
		}
	}
	return cols, rows, nil
}

func parquetCells(row parquet.Row, width int) []string {
	cells := make([]string, width)
	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= width {
			continue
		}
		s := "null"
		if !v.IsNull() {
			s = v.String()
		}
		if cells[c] != "" {
			cells[c] += ", "
		}
		cells[c] += s
	}
	return cells
}
