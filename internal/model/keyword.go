package model

import (
	"fmt"
	"maps"
	"slices"
)

// Keywords holds key:value metadata found in a task's text
type Keywords map[string]string

// Get returns the value stored under name
func (k Keywords) Get(name string) (string, bool) {
	v, ok := k[name]
	return v, ok
}

// Set stores value under name, allocating the map on first use
func (k *Keywords) Set(name, value string) {
	if *k == nil {
		*k = make(Keywords)
	}
	(*k)[name] = value
}

// Delete removes name
func (k Keywords) Delete(name string) {
	delete(k, name)
}

// Names returns the keyword names in sorted order
func (k Keywords) Names() []string {
	return slices.Sorted(maps.Keys(k))
}

// Len returns the number of keywords
func (k Keywords) Len() int {
	return len(k)
}

// Clone returns an independent copy
func (k Keywords) Clone() Keywords {
	if k == nil {
		return nil
	}
	return maps.Clone(k)
}

// KeywordColumn identifies one of the two columns of a keyword table
type KeywordColumn int

const (
	ColumnName KeywordColumn = iota
	ColumnValue
)

func (c KeywordColumn) String() string {
	switch c {
	case ColumnName:
		return "name"
	case ColumnValue:
		return "value"
	default:
		return "unknown"
	}
}

// KeywordRow is one editable name/value pair
type KeywordRow struct {
	Name  string
	Value string
}

// Complete reports whether both cells are filled in
func (r KeywordRow) Complete() bool {
	return r.Name != "" && r.Value != ""
}

// KeywordTable is an editable, ordered list of keyword rows. Rows may be
// incomplete while they are being edited; only complete rows make it into
// Keywords().
type KeywordTable struct {
	rows []KeywordRow
}

// NewKeywordTable creates a table holding kw, one row per name in sorted order
func NewKeywordTable(kw Keywords) *KeywordTable {
	t := &KeywordTable{}
	t.Load(kw)
	return t
}

// Load replaces all rows with the content of kw
func (t *KeywordTable) Load(kw Keywords) {
	t.rows = t.rows[:0]
	for _, name := range kw.Names() {
		t.rows = append(t.rows, KeywordRow{Name: name, Value: kw[name]})
	}
}

// Append adds an empty row and returns its index
func (t *KeywordTable) Append() int {
	t.rows = append(t.rows, KeywordRow{})
	return len(t.rows) - 1
}

// Delete removes the row at index
func (t *KeywordTable) Delete(row int) error {
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("keyword row %d out of range", row)
	}
	t.rows = slices.Delete(t.rows, row, row+1)
	return nil
}

// Edit sets one cell of a row
func (t *KeywordTable) Edit(row int, column KeywordColumn, text string) error {
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("keyword row %d out of range", row)
	}
	switch column {
	case ColumnName:
		t.rows[row].Name = text
	case ColumnValue:
		t.rows[row].Value = text
	default:
		return fmt.Errorf("unknown keyword column %d", column)
	}
	return nil
}

// Rows returns a copy of the rows in table order
func (t *KeywordTable) Rows() []KeywordRow {
	return slices.Clone(t.rows)
}

// Keywords collects the complete rows. Later rows win on duplicate names.
func (t *KeywordTable) Keywords() Keywords {
	kw := Keywords{}
	for _, r := range t.rows {
		if r.Complete() {
			kw[r.Name] = r.Value
		}
	}
	return kw
}
