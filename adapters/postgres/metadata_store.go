// Package postgres serves cell metadata from a database mirror of the
// spreadsheet, for deployments that sync metadata into Postgres.
//
// Expected schema:
//
//	CREATE TABLE cell_metadata (
//	    partition TEXT NOT NULL,
//	    cell_id   TEXT NOT NULL,
//	    fields    JSONB NOT NULL,
//	    PRIMARY KEY (partition, cell_id)
//	);
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"celldata/domain/cell"
	apperrors "celldata/internal/errors"
)

// MetadataStore implements ports.MetadataStore over a cell_metadata table
type MetadataStore struct {
	db *sqlx.DB
}

// NewMetadataStore creates a database-backed metadata store
func NewMetadataStore(db *sqlx.DB) *MetadataStore {
	return &MetadataStore{db: db}
}

// FetchMetadata loads the metadata record for one cell from the rows of
// the partition derived from its identifier prefix.
func (s *MetadataStore) FetchMetadata(ctx context.Context, id cell.CellID) (cell.MetadataRecord, error) {
	partition := id.Partition()

	var fieldsJSON []byte
	query := `SELECT fields FROM cell_metadata WHERE partition = $1 AND cell_id = $2`
	err := s.db.QueryRowContext(ctx, query, partition, id.String()).Scan(&fieldsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyMiss(ctx, partition, id)
		}
		return nil, apperrors.ExternalServiceError("postgres", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
		return nil, apperrors.Wrapf(err, "decoding metadata for %s", id)
	}
	return cell.MetadataRecord(fields).NormalizeKeys(), nil
}

// classifyMiss distinguishes a missing cell from a missing partition
func (s *MetadataStore) classifyMiss(ctx context.Context, partition string, id cell.CellID) error {
	var count int
	query := `SELECT COUNT(*) FROM cell_metadata WHERE partition = $1`
	if err := s.db.GetContext(ctx, &count, query, partition); err != nil {
		return apperrors.ExternalServiceError("postgres", err)
	}
	if count == 0 {
		return apperrors.PartitionNotFound(partition)
	}
	return apperrors.NotFound("cell", id.String())
}
