package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellID(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"MEN0001", true},
		{"AB1234", true},
		{"ABCD00001", true},
		{" MEN0001 ", true},
		{"xx12", false},     // digits too short
		{"M0001", false},    // initials too short
		{"MEN001", false},   // digits too short
		{"0001MEN", false},  // wrong order
		{"MEN_0001", false}, // separator inside
		{"", false},
	}
	for _, tt := range tests {
		id, err := ParseCellID(tt.input)
		if tt.valid {
			assert.NoError(t, err, "input %q", tt.input)
			assert.NotEmpty(t, id)
		} else {
			assert.Error(t, err, "input %q", tt.input)
		}
	}
}

func TestCellIDFromFilename(t *testing.T) {
	id, err := CellIDFromFilename("MEN0001_cycling_01.txt")
	require.NoError(t, err)
	assert.Equal(t, CellID("MEN0001"), id)

	// 2-letter initials and 4-letter initials are both valid
	id, err = CellIDFromFilename("AB1234_test.txt")
	require.NoError(t, err)
	assert.Equal(t, CellID("AB1234"), id)

	// initials length 2, digits length 2: rejected, not a crash
	_, err = CellIDFromFilename("xx12_foo.txt")
	assert.Error(t, err)

	_, err = CellIDFromFilename("nounderscore0001.txt")
	assert.Error(t, err)
}

func TestPartitionDerivation(t *testing.T) {
	tests := []struct {
		id        CellID
		partition string
	}{
		{"MEN0001", "MEN"},
		{"AB1234", "AB"},      // first-3-chars rule would give "AB1"
		{"ABCD00001", "ABCD"}, // first-3-chars rule would give "ABC"
	}
	for _, tt := range tests {
		assert.Equal(t, tt.partition, tt.id.Partition(), "id %s", tt.id)
	}
}
