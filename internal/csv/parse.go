// Package csv parses the CSV exports of a published spreadsheet into
// header-keyed records.
//
// The parser is deliberately lenient. It never returns an error: ragged
// rows are padded or truncated to the header, blank rows are dropped, and an
// unterminated quote simply absorbs the rest of the input into one field.
// Spreadsheet exports are edited by hand upstream, so a best-effort result is
// always preferred over a failed page section.
//
// The package is pure and holds no state between calls; every function is
// safe for concurrent use.
package csv

import "strings"

// Record is one data row keyed by header name.
//
// When the header repeats a name, the value from the right-most column
// with that name wins.
type Record map[string]string

// Table is the result of parsing a CSV document with its header kept in
// column order. Records is never nil.
type Table struct {
	Header  []string `json:"header"`
	Records []Record `json:"records"`
}

// Parse converts raw CSV text into an ordered list of records.
//
// The first retained row is the header. Every later retained row becomes a
// Record holding exactly one entry per header name; short rows map missing
// columns to "" and extra columns are dropped. Input with no data rows
// yields an empty, non-nil slice.
func Parse(text string) []Record {
	return ParseTable(text).Records
}

// ParseTable is Parse with the header returned alongside the records.
// A header-only document returns the header and no records.
func ParseTable(text string) Table {
	rows := Tokenize(text)
	if len(rows) == 0 {
		return Table{Records: []Record{}}
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, toRecord(header, row))
	}

	return Table{Header: header, Records: records}
}

// toRecord maps row values onto header positions.
func toRecord(header, row []string) Record {
	rec := make(Record, len(header))
	for i, name := range header {
		if i < len(row) {
			rec[name] = row[i]
		} else {
			rec[name] = ""
		}
	}
	return rec
}

// Tokenize splits text into rows of trimmed fields in a single pass.
//
// Rows end at "\n", "\r\n" or a bare "\r" outside quotes. A doubled quote
// inside a quoted field is a literal quote. Rows whose fields are all empty
// after trimming are not returned.
//
// Scanning is byte-wise: the separators and the quote are ASCII, and no
// byte of a multi-byte UTF-8 sequence falls in the ASCII range.
func Tokenize(text string) [][]string {
	t := tokenizer{}

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '"':
			if t.quoted && i+1 < len(text) && text[i+1] == '"' {
				t.field.WriteByte('"')
				i++
			} else {
				t.quoted = !t.quoted
			}
			t.pending = true

		case t.quoted:
			t.field.WriteByte(c)

		case c == ',':
			t.endField()
			t.pending = true

		case c == '\n' || c == '\r':
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			t.endRow()

		default:
			t.field.WriteByte(c)
			t.pending = true
		}
	}

	if t.pending {
		t.endRow()
	}

	return t.rows
}

// tokenizer holds the scan state of one Tokenize call.
type tokenizer struct {
	rows    [][]string
	row     []string
	field   strings.Builder
	quoted  bool
	pending bool // input consumed since the last row break
}

func (t *tokenizer) endField() {
	t.row = append(t.row, strings.TrimSpace(t.field.String()))
	t.field.Reset()
}

func (t *tokenizer) endRow() {
	t.endField()
	if hasContent(t.row) {
		t.rows = append(t.rows, t.row)
	}
	t.row = nil
	t.pending = false
}

// hasContent reports whether any field is non-empty. Fields are already trimmed.
func hasContent(row []string) bool {
	for _, f := range row {
		if f != "" {
			return true
		}
	}
	return false
}
