package cell

import (
	"strconv"

	"github.com/montanaflynn/stats"

	apperrors "celldata/internal/errors"
)

const previewRows = 3

// Normalizer derives the mass-normalized capacity column from a validated
// raw table and metadata record. Deterministic and order-preserving; the
// input table is never mutated.
type Normalizer struct {
	cfg     ValidationConfig
	preview func(format string, args ...interface{})
}

// NewNormalizer creates a normalizer. preview, if non-nil, receives a
// human-readable summary of the last few transformed rows (diagnostic
// only); pass a leveled logger's Info method.
func NewNormalizer(cfg ValidationConfig, preview func(string, ...interface{})) *Normalizer {
	return &Normalizer{cfg: cfg, preview: preview}
}

// Normalize returns a copy of the table augmented with the
// "Normalized Capacity (mAh/g)" column, where per row
// normalized = capacity_mAh / (mass_mg / 1000).
//
// Preconditions are enforced, not assumed: the capacity column and mass
// field are re-validated, and a capacity that is missing or negative
// after numeric coercion fails with an InvalidCapacity error.
func (n *Normalizer) Normalize(t *RawTable, meta MetadataRecord) (*RawTable, error) {
	if err := ValidateRawTable(t, n.cfg.CapacityColumn); err != nil {
		return nil, err
	}
	massMg, err := ValidateMetadata(meta, n.cfg.MassField)
	if err != nil {
		return nil, err
	}
	massG := massMg / 1000.0

	raw, _ := t.Column(n.cfg.CapacityColumn)
	capacities := make([]float64, len(raw))
	normalized := make([]float64, len(raw))
	values := make([]string, len(raw))
	for i, v := range raw {
		capacity, ok := parseNumeric(v)
		if !ok || capacity < 0 {
			return nil, apperrors.InvalidCapacity(i, v)
		}
		capacities[i] = capacity
		normalized[i] = capacity / massG
		values[i] = strconv.FormatFloat(normalized[i], 'g', -1, 64)
	}

	out := t.Clone()
	if err := out.AddColumn(NormalizedCapacityColumn, values); err != nil {
		return nil, apperrors.Wrap(err, "augmenting raw table")
	}

	n.logPreview(massG, capacities, normalized)
	return out, nil
}

// logPreview emits the last few rows plus a min/mean/max digest of the
// normalized column. Not part of the contract.
func (n *Normalizer) logPreview(massG float64, capacities, normalized []float64) {
	if n.preview == nil || len(normalized) == 0 {
		return
	}
	n.preview("  using WE active material mass: %g g", massG)
	n.preview("  capacity & normalized capacity preview (last %d rows):", previewRows)
	start := len(normalized) - previewRows
	if start < 0 {
		start = 0
	}
	for i := start; i < len(normalized); i++ {
		n.preview("     row %d: capacity=%g mAh, normalized=%g mAh/g", i, capacities[i], normalized[i])
	}
	min, errMin := stats.Min(normalized)
	mean, errMean := stats.Mean(normalized)
	max, errMax := stats.Max(normalized)
	if errMin == nil && errMean == nil && errMax == nil {
		n.preview("  normalized capacity digest: min=%g mean=%g max=%g mAh/g", min, mean, max)
	}
}
