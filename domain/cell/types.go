package cell

import (
	"fmt"
	"time"
)

// Canonical column/field names; the validation config can override the first two.
const (
	DefaultCapacityColumn    = "Capacity/mA.h"
	DefaultMassField         = "WE Active Material Mass (mg)"
	NormalizedCapacityColumn = "Normalized Capacity (mAh/g)"
)

// RequiredMetadataFields are the headers every metadata partition must carry.
func RequiredMetadataFields() []string {
	return []string{"Cell ID", "Working Electrode", DefaultMassField}
}

// RawRow is one data row keyed by normalized column name
type RawRow map[string]string

// RawTable is an ordered sequence of rows with named columns.
// Column names are unique after normalization and at least one
// data row remains after fully-empty rows are dropped.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// HasColumn reports whether the table has a column with the given name
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns the values of the named column in row order.
// Missing cells are returned as empty strings.
func (t *RawTable) Column(name string) ([]string, bool) {
	if !t.HasColumn(name) {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values, true
}

// Clone returns a deep copy of the table
func (t *RawTable) Clone() *RawTable {
	out := &RawTable{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([]RawRow, len(t.Rows)),
	}
	for i, row := range t.Rows {
		copied := make(RawRow, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Rows[i] = copied
	}
	return out
}

// AddColumn appends a new column with one value per row
func (t *RawTable) AddColumn(name string, values []string) error {
	if t.HasColumn(name) {
		return fmt.Errorf("column '%s' already exists", name)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column '%s' has %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Headers = append(t.Headers, name)
	for i := range t.Rows {
		t.Rows[i][name] = values[i]
	}
	return nil
}

// MetadataRecord is a flat record of named string fields for one cell
type MetadataRecord map[string]string

// Get returns the value for a field name
func (m MetadataRecord) Get(field string) (string, bool) {
	v, ok := m[field]
	return v, ok
}

// NormalizeKeys returns a copy of the record with every key header-normalized
func (m MetadataRecord) NormalizeKeys() MetadataRecord {
	out := make(MetadataRecord, len(m))
	for k, v := range m {
		out[NormalizeHeader(k)] = v
	}
	return out
}

// FileDescriptor is an opaque remote-file reference returned by a listing
type FileDescriptor struct {
	ID       string
	Name     string
	Modified time.Time
	Size     int64
}

// CellCatalog maps each known cell identifier to its file descriptor.
// Built fresh on each enumeration; first-seen identifier wins on duplicates.
type CellCatalog map[CellID]FileDescriptor

// IDs returns the catalog's identifiers in unspecified order
func (c CellCatalog) IDs() []CellID {
	ids := make([]CellID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}

// NormalizedCellData pairs an augmented raw table with its metadata record.
// Never mutated after normalization.
type NormalizedCellData struct {
	CellID   CellID
	Table    *RawTable
	Metadata MetadataRecord
}
