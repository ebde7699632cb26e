package sheets

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Names of the logical tables of the spreadsheet layout.
const (
	Inventory = "Inventory"
	Locations = "Locations"
)

// JournalName returns the per-member journal tab name.
func JournalName(cardNumber int) string {
	return "Journal-" + strconv.Itoa(cardNumber)
}

// Record is one data row keyed by header.
type Record map[string]string

// Get returns the first non-empty value among the given header aliases.
func (r Record) Get(headers ...string) string {
	for _, h := range headers {
		if v := strings.TrimSpace(r[h]); v != "" {
			return v
		}
	}
	return ""
}

// Table is a header row plus the records below it.
type Table struct {
	Name    string
	Headers []string
	Records []Record
}

// ParseTable turns raw rows (header first) into records. Fully blank rows are
// skipped. For the Inventory table rows without an ISBN are dropped too, since
// they aren't part of the inventory. Short rows are padded with empty cells.
func ParseTable(name string, rows [][]string) *Table {
	t := &Table{Name: name}
	if len(rows) == 0 {
		return t
	}

	for _, h := range rows[0] {
		t.Headers = append(t.Headers, strings.TrimSpace(h))
	}

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := Record{}
		for i, h := range t.Headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		if name == Inventory && rec.Get("ISBN", "isbn") == "" {
			continue
		}
		t.Records = append(t.Records, rec)
	}

	return t
}

// Rows returns the table as raw rows, header first, cells in header order.
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.Records)+1)
	rows = append(rows, append([]string(nil), t.Headers...))
	for _, rec := range t.Records {
		row := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			row[i] = rec[h]
		}
		rows = append(rows, row)
	}
	return rows
}

// ReadCSV reads a CSV export of one tab. An empty input is an empty table.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s csv", name)
	}
	return ParseTable(name, rows), nil
}

// WriteCSV writes the table header first.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Rows()); err != nil {
		return errors.Wrapf(err, "failed to write %s csv", t.Name)
	}
	return nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
