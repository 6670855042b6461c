package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Parse decodes an uploaded file into a Document. The format is chosen by
// file extension: .xlsx and .xlsm go through excelize, everything else is
// treated as CSV. The first non-empty row is the header; fully empty rows
// are skipped.
func Parse(filename string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, &ParseError{Reason: "empty file"}
	}

	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = parseXLSX(data)
	default:
		records, err = parseCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return buildDocument(records)
}

// parseCSV reads comma-separated bytes. Invalid UTF-8 sequences are replaced
// with the Unicode replacement rune before decoding. The reader enforces
// consistent arity across records (FieldsPerRecord is set from the first
// record), so a ragged file fails the parse.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(sanitizeUTF8(data)))
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Reason: "invalid csv", Err: err}
	}
	return records, nil
}

// parseXLSX reads the first sheet of a workbook. excelize trims trailing
// empty cells per row, so short rows are padded to header arity instead of
// failing the way a ragged CSV does.
func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Reason: "invalid xlsx", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Reason: "read sheet rows", Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Reason: "empty sheet"}
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) > width {
			return nil, &ParseError{
				Reason: "inconsistent row arity",
				Err:    &arityError{line: i + 1, got: len(row), want: width},
			}
		}
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}
	return rows, nil
}

type arityError struct {
	line, got, want int
}

func (e *arityError) Error() string {
	return fmt.Sprintf("line %d: %d fields, expected %d", e.line, e.got, e.want)
}

// buildDocument splits records into header and data rows, dropping fully
// empty rows but preserving original line numbers.
func buildDocument(records [][]string) (*Document, error) {
	headerIdx := -1
	for i, rec := range records {
		if !isEmptyRow(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &ParseError{Reason: "no header row found"}
	}

	doc := &Document{Header: records[headerIdx]}
	for i := headerIdx + 1; i < len(records); i++ {
		if isEmptyRow(records[i]) {
			continue
		}
		doc.Rows = append(doc.Rows, Row{Line: i + 1, Fields: records[i]})
	}
	return doc, nil
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune.
// Valid input is returned unchanged without copying.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
