// Package sheets loads cell metadata records from a Google Sheets
// spreadsheet whose tabs are the metadata partitions.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"celldata/domain/cell"
	"celldata/internal"
	apperrors "celldata/internal/errors"
)

const cellIDHeader = "Cell ID"

// Store implements ports.MetadataStore over one spreadsheet
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	required      []string
	log           *internal.Logger
}

// NewStore builds a Sheets metadata store. required defaults to the
// canonical required field set when nil.
func NewStore(ctx context.Context, creds option.ClientOption, spreadsheetID string, required []string, logger *internal.Logger) (*Store, error) {
	if spreadsheetID == "" {
		return nil, apperrors.ConfigInvalid("spreadsheet ID is not set")
	}
	svc, err := sheets.NewService(ctx, creds)
	if err != nil {
		return nil, apperrors.ExternalServiceError("sheets", err)
	}
	if required == nil {
		required = cell.RequiredMetadataFields()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID, required: required, log: logger}, nil
}

// FetchMetadata loads the metadata record for one cell from the tab
// selected by the identifier's partition key.
func (s *Store) FetchMetadata(ctx context.Context, id cell.CellID) (cell.MetadataRecord, error) {
	partition := id.Partition()
	headers, rows, err := s.readPartition(ctx, partition)
	if err != nil {
		return nil, err
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

	for _, row := range rows {
		if idCol >= len(row) || strings.TrimSpace(row[idCol]) != id.String() {
			continue
		}
		record := make(cell.MetadataRecord, len(headers))
		for j, h := range headers {
			if j < len(row) {
				record[h] = row[j]
			}
		}
		s.warnOnBadMass(id, record)
		return record, nil
	}
	return nil, apperrors.NotFound("cell", id.String())
}

// ValidateAccess probes the spreadsheet with a single-cell read
func (s *Store) ValidateAccess(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, "A1").Context(ctx).Do()
	if err != nil {
		return apperrors.ExternalServiceError("sheets", err)
	}
	return nil
}

// readPartition fetches one tab, normalizes its headers, and checks the
// required field set is present.
func (s *Store) readPartition(ctx context.Context, partition string) ([]string, [][]string, error) {
	rng := fmt.Sprintf("'%s'!A:ZZ", partition)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		// A range referencing a missing tab comes back as a 400.
		if gerr, ok := err.(*googleapi.Error); ok && (gerr.Code == 400 || gerr.Code == 404) {
			return nil, nil, apperrors.PartitionNotFound(partition)
		}
		return nil, nil, apperrors.ExternalServiceError("sheets", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, apperrors.MissingRequiredHeaders(partition, s.required, nil)
	}

	rawHeaders := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		rawHeaders[i] = fmt.Sprint(v)
	}
	headers := cell.NormalizeHeaders(rawHeaders)

	if missing := cell.MissingHeaders(headers, s.required); len(missing) > 0 {
		return nil, nil, apperrors.MissingRequiredHeaders(partition, missing, headers)
	}

	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// warnOnBadMass flags a non-usable mass value at fetch time; validation
// proper happens in the pipeline.
func (s *Store) warnOnBadMass(id cell.CellID, record cell.MetadataRecord) {
	if _, err := cell.ValidateMetadata(record, cell.DefaultMassField); err != nil {
		s.log.Warn("mass for %s is not usable: %v; normalization will fail for this cell", id, err)
	}
}
