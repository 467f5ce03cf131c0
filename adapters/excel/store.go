// Package excel loads cell metadata records from a local workbook whose
// sheets are the metadata partitions. Offline mirror of the Sheets source.
package excel

import (
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"celldata/domain/cell"
	"celldata/internal"
	apperrors "celldata/internal/errors"
)

const cellIDHeader = "Cell ID"

// Store implements ports.MetadataStore over one .xlsx file
type Store struct {
	path     string
	required []string
	log      *internal.Logger
}

// NewStore builds a workbook-backed metadata store. required defaults
// to the canonical required field set when nil.
func NewStore(path string, required []string, logger *internal.Logger) *Store {
	if required == nil {
		required = cell.RequiredMetadataFields()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{path: path, required: required, log: logger}
}

// FetchMetadata loads the metadata record for one cell from the sheet
// selected by the identifier's partition key.
func (s *Store) FetchMetadata(ctx context.Context, id cell.CellID) (cell.MetadataRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "opening metadata workbook '%s'", s.path)
	}
	defer f.Close()

	partition := id.Partition()
	idx, err := f.GetSheetIndex(partition)
	if err != nil || idx < 0 {
		return nil, apperrors.PartitionNotFound(partition)
	}

	rows, err := f.GetRows(partition)
	if err != nil {
		return nil, apperrors.Wrapf(err, "reading partition '%s'", partition)
	}
	if len(rows) == 0 {
		return nil, apperrors.MissingRequiredHeaders(partition, s.required, nil)
	}

	headers := cell.NormalizeHeaders(rows[0])
	if missing := cell.MissingHeaders(headers, s.required); len(missing) > 0 {
		return nil, apperrors.MissingRequiredHeaders(partition, missing, headers)
	}

	idCol := -1
	for i, h := range headers {
		if h == cellIDHeader {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, apperrors.MissingRequiredHeaders(partition, []string{cellIDHeader}, headers)
	}

	for _, row := range rows[1:] {
		if idCol >= len(row) || strings.TrimSpace(row[idCol]) != id.String() {
			continue
		}
		record := make(cell.MetadataRecord, len(headers))
		for j, h := range headers {
			if j < len(row) {
				record[h] = strings.TrimSpace(row[j])
			}
		}
		return record, nil
	}
	return nil, apperrors.NotFound("cell", id.String())
}
