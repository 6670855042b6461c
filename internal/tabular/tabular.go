// Package tabular parses uploaded spreadsheet bytes into ordered rows with
// named columns. It accepts CSV and XLSX input and normalizes both into the
// same Document shape so the mapping layer never cares about the source
// format.
package tabular

import (
	"fmt"
	"strings"
)

// Document is one parsed upload: a header row plus its data rows in file
// order. The header establishes the column-name contract; every row has the
// same arity as the header.
type Document struct {
	Header []string
	Rows   []Row
}

// Row is a single data row with its 1-based line number in the source file
// for error reporting.
type Row struct {
	Line   int
	Fields []string
}

// HeaderIndex maps lowercased column names to their position in a row.
type HeaderIndex map[string]int

// Index builds a HeaderIndex from the document header.
// Keys are lowercased for case-insensitive matching.
func (d *Document) Index() HeaderIndex {
	idx := make(HeaderIndex, len(d.Header))
	for i, h := range d.Header {
		key := strings.ToLower(CleanCell(h))
		idx[key] = i
	}
	return idx
}

// ParseError indicates the uploaded bytes could not be decoded into rows:
// not a recognized format, structurally broken, or inconsistent row arity.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Reason, e.Err)
	}
	return "parse: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// CleanCell removes common spreadsheet artifacts from a cell value:
// whitespace, Excel formula prefixes (="..."), and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return s
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
