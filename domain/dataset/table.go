// Package dataset holds the raw tabular form every input file is read into.
package dataset

// Row is one raw record keyed by column header
type Row map[string]string

// Table is a raw tabular dataset as read from disk
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the table has the named header
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns every value of the named column in row order
func (t *Table) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Without returns a copy of the table lacking the named columns. The
// receiver is left untouched.
func (t *Table) Without(columns []string) *Table {
	drop := make(map[string]bool, len(columns))
	for _, c := range columns {
		drop[c] = true
	}

	headers := make([]string, 0, len(t.Headers))
	for _, h := range t.Headers {
		if !drop[h] {
			headers = append(headers, h)
		}
	}

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		kept := make(Row, len(headers))
		for _, h := range headers {
			kept[h] = row[h]
		}
		rows[i] = kept
	}
	return &Table{Headers: headers, Rows: rows}
}

// Distinct counts the distinct raw values of a column, empty cells included
func (t *Table) Distinct(name string) int {
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		seen[row[name]] = struct{}{}
	}
	return len(seen)
}
