// Package ports defines the collaborator interfaces the core consumes.
// Implementations live in adapters; tests substitute fakes. Instances
// are constructed explicitly and passed in (no process-global caches).
package ports

import (
	"context"

	"celldata/domain/cell"
)

// RawTableStore fetches the raw tabular rows recorded for one cell.
// Fails with a NOT_FOUND error if no matching source exists.
type RawTableStore interface {
	FetchRawTable(ctx context.Context, id cell.CellID) (*cell.RawTable, error)
}

// MetadataStore fetches the single metadata record for one cell.
// Fails with NOT_FOUND if the identifier is absent from its partition,
// PARTITION_NOT_FOUND if the partition itself does not exist.
type MetadataStore interface {
	FetchMetadata(ctx context.Context, id cell.CellID) (cell.MetadataRecord, error)
}

// Catalog enumerates the available cell identifiers from a remote
// listing, one descriptor per identifier.
type Catalog interface {
	ListAvailable(ctx context.Context) (cell.CellCatalog, error)
}
