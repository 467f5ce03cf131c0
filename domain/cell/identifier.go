package cell

import (
	"fmt"
	"regexp"
	"strings"
)

// A cell identifier is 2+ letters (experimenter initials) followed by
// 4+ digits, e.g. MEN0001. Data filenames carry the identifier as an
// underscore-separated prefix, e.g. MEN0001_cycling_01.txt.
var (
	idPattern       = regexp.MustCompile(`^([A-Za-z]{2,})(\d{4,})$`)
	filenamePattern = regexp.MustCompile(`^([A-Za-z]{2,}\d{4,})_`)
)

// CellID identifies a single electrochemical test sample
type CellID string

// ParseCellID validates and returns a cell identifier
func ParseCellID(s string) (CellID, error) {
	s = strings.TrimSpace(s)
	if !idPattern.MatchString(s) {
		return "", fmt.Errorf("invalid cell identifier '%s': want 2+ letters followed by 4+ digits", s)
	}
	return CellID(s), nil
}

// CellIDFromFilename extracts the identifier prefix from a data filename
func CellIDFromFilename(name string) (CellID, error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", fmt.Errorf("filename '%s' does not start with <initials><digits>_", name)
	}
	return CellID(m[1]), nil
}

// String returns the string representation
func (id CellID) String() string {
	return string(id)
}

// Partition derives the metadata partition key from the identifier's
// letters prefix. Pure derivation, recomputed per lookup. The captured
// prefix is used rather than a fixed first-3-characters slice so that
// 2- and 4-letter initials resolve to the right partition.
func (id CellID) Partition() string {
	if m := idPattern.FindStringSubmatch(string(id)); m != nil {
		return m[1]
	}
	// Unchecked identifier: take the leading letters.
	s := string(id)
	for i, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return s[:i]
		}
	}
	return s
}
