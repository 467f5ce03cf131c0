package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "celldata/internal/errors"
)

func tableWithCapacity(values ...string) *RawTable {
	t := &RawTable{Headers: []string{"time/s", DefaultCapacityColumn}}
	for _, v := range values {
		t.Rows = append(t.Rows, RawRow{"time/s": "1", DefaultCapacityColumn: v})
	}
	return t
}

func TestValidateRawTableMissingColumn(t *testing.T) {
	table := &RawTable{
		Headers: []string{"time/s", "Ewe/V"},
		Rows:    []RawRow{{"time/s": "0.1", "Ewe/V": "3.2"}},
	}

	err := ValidateRawTable(table, DefaultCapacityColumn)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeMissingColumn, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), DefaultCapacityColumn)
	assert.Contains(t, err.Error(), "Ewe/V") // lists available columns
}

func TestValidateRawTableNonNumeric(t *testing.T) {
	table := tableWithCapacity("1.5", "abc", "also-bad")

	err := ValidateRawTable(table, DefaultCapacityColumn)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNonNumericData, apperrors.GetCode(err))
	// first failing cell is identified
	assert.Contains(t, err.Error(), "row 1")
	assert.Contains(t, err.Error(), "abc")
}

func TestValidateRawTableEmptyCellIsNonNumeric(t *testing.T) {
	table := tableWithCapacity("1.5", "")
	err := ValidateRawTable(table, DefaultCapacityColumn)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNonNumericData, apperrors.GetCode(err))
}

func TestValidateRawTableOK(t *testing.T) {
	table := tableWithCapacity("0", "1.5", "2.75e-1", "  3.0 ")
	assert.NoError(t, ValidateRawTable(table, DefaultCapacityColumn))
}

func TestValidateMetadata(t *testing.T) {
	tests := []struct {
		name     string
		record   MetadataRecord
		wantMass float64
		wantCode string
	}{
		{
			name:     "valid",
			record:   MetadataRecord{DefaultMassField: "250"},
			wantMass: 250,
		},
		{
			name:     "whitespace trimmed",
			record:   MetadataRecord{DefaultMassField: "  12.5 \n"},
			wantMass: 12.5,
		},
		{
			name:     "missing field",
			record:   MetadataRecord{"Working Electrode": "LFP"},
			wantCode: apperrors.CodeMissingField,
		},
		{
			name:     "non numeric",
			record:   MetadataRecord{DefaultMassField: "n/a"},
			wantCode: apperrors.CodeNonNumericMass,
		},
		{
			name:     "zero mass",
			record:   MetadataRecord{DefaultMassField: "0"},
			wantCode: apperrors.CodeNonPositiveMass,
		},
		{
			name:     "negative mass",
			record:   MetadataRecord{DefaultMassField: "-3.5"},
			wantCode: apperrors.CodeNonPositiveMass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mass, err := ValidateMetadata(tt.record, DefaultMassField)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMass, mass)
		})
	}
}

func TestNewlineHeaderNormalizesAndValidates(t *testing.T) {
	// A record keyed by a raw upstream header with an embedded newline
	// passes validation once keys are normalized.
	raw := MetadataRecord{
		"Cell ID":                       "MEN0001",
		"Working Electrode":             "LFP",
		"WE Active Material\nMass (mg)": "250",
	}
	record := raw.NormalizeKeys()

	mass, err := ValidateMetadata(record, DefaultMassField)
	require.NoError(t, err)
	assert.Equal(t, 250.0, mass)
}
