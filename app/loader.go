// Package app orchestrates the per-cell load pipeline over the
// collaborator ports.
package app

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"celldata/domain/cell"
	"celldata/internal"
	apperrors "celldata/internal/errors"
	"celldata/ports"
)

// LoadState tracks a cell's progress through the pipeline
type LoadState string

const (
	StateFetching    LoadState = "fetching"
	StateValidating  LoadState = "validating"
	StateNormalizing LoadState = "normalizing"
	StateLoaded      LoadState = "loaded"
	StateFailed      LoadState = "failed"
)

// CellResult is the terminal outcome for one requested identifier:
// either Data is set and State is loaded, or Err carries a typed error
// and FailedAt names the stage that produced it.
type CellResult struct {
	CellID   cell.CellID
	State    LoadState
	FailedAt LoadState
	Data     *cell.NormalizedCellData
	Err      error
}

// BatchResult maps every requested identifier to its outcome
type BatchResult struct {
	BatchID string
	Results map[cell.CellID]CellResult
	Loaded  int
	Failed  int
}

// LoaderOptions configures the batch policy
type LoaderOptions struct {
	Validation cell.ValidationConfig
	// FailFast aborts the whole batch on the first cell's failure,
	// matching the legacy behavior. Default is to isolate failures and
	// collect a per-identifier result set.
	FailFast bool
	// Parallelism bounds concurrent per-cell pipelines; <=1 means sequential.
	Parallelism int
}

// Loader runs the fetch -> validate -> normalize pipeline per cell
type Loader struct {
	tables     ports.RawTableStore
	metadata   ports.MetadataStore
	opts       LoaderOptions
	normalizer *cell.Normalizer
	log        *internal.Logger
}

// NewLoader creates a loader over the given collaborators
func NewLoader(tables ports.RawTableStore, metadata ports.MetadataStore, opts LoaderOptions, logger *internal.Logger) *Loader {
	if opts.Validation.CapacityColumn == "" {
		opts.Validation = cell.DefaultValidationConfig()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{
		tables:     tables,
		metadata:   metadata,
		opts:       opts,
		normalizer: cell.NewNormalizer(opts.Validation, logger.Info),
		log:        logger,
	}
}

// LoadCell runs the full pipeline for one identifier
func (l *Loader) LoadCell(ctx context.Context, id cell.CellID) (*cell.NormalizedCellData, error) {
	res := l.loadOne(ctx, id)
	return res.Data, res.Err
}

// LoadAll processes the requested identifiers and reports a result per
// identifier. One cell's failure never aborts the batch unless FailFast
// is set; with FailFast the partial results gathered so far are returned
// together with the failing cell's error.
func (l *Loader) LoadAll(ctx context.Context, ids []cell.CellID) (*BatchResult, error) {
	batch := &BatchResult{
		BatchID: uuid.NewString(),
		Results: make(map[cell.CellID]CellResult, len(ids)),
	}
	l.log.Info("batch %s: loading %d cells", batch.BatchID, len(ids))

	var err error
	if l.opts.Parallelism > 1 {
		err = l.loadParallel(ctx, ids, batch)
	} else {
		err = l.loadSequential(ctx, ids, batch)
	}

	for _, res := range batch.Results {
		if res.Err != nil {
			batch.Failed++
		} else {
			batch.Loaded++
		}
	}
	l.log.Info("batch %s: %d loaded, %d failed", batch.BatchID, batch.Loaded, batch.Failed)
	return batch, err
}

// LoadCatalog enumerates the catalog and loads every known identifier
// in sorted order.
func (l *Loader) LoadCatalog(ctx context.Context, catalog ports.Catalog) (*BatchResult, error) {
	known, err := catalog.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	ids := known.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return l.LoadAll(ctx, ids)
}

func (l *Loader) loadSequential(ctx context.Context, ids []cell.CellID, batch *BatchResult) error {
	for _, id := range ids {
		// Stop issuing further per-cell work once the caller abandons the batch.
		if err := ctx.Err(); err != nil {
			return err
		}
		res := l.loadOne(ctx, id)
		batch.Results[id] = res
		if l.opts.FailFast && res.Err != nil {
			return res.Err
		}
	}
	return nil
}

func (l *Loader) loadParallel(ctx context.Context, ids []cell.CellID, batch *BatchResult) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Parallelism)

	var mu sync.Mutex // guards batch.Results; one writer per key
	for _, id := range ids {
		g.Go(func() error {
			res := l.loadOne(gctx, id)
			mu.Lock()
			batch.Results[id] = res
			mu.Unlock()
			if l.opts.FailFast && res.Err != nil {
				return res.Err
			}
			return nil
		})
	}
	return g.Wait()
}

// loadOne drives the per-cell state machine to a terminal state
func (l *Loader) loadOne(ctx context.Context, id cell.CellID) CellResult {
	res := CellResult{CellID: id, State: StateFetching}
	fail := func(err error) CellResult {
		res.FailedAt = res.State
		res.State = StateFailed
		res.Err = err
		l.log.Error("%s failed while %s: %v", id, res.FailedAt, err)
		return res
	}

	table, err := l.tables.FetchRawTable(ctx, id)
	if err != nil {
		return fail(apperrors.Wrapf(err, "fetching raw table for %s", id))
	}
	l.log.Section("headers for "+id.String()+" (.txt)", table.Headers)

	meta, err := l.metadata.FetchMetadata(ctx, id)
	if err != nil {
		return fail(apperrors.Wrapf(err, "fetching metadata for %s", id))
	}

	res.State = StateValidating
	if err := cell.ValidateRawTable(table, l.opts.Validation.CapacityColumn); err != nil {
		return fail(err)
	}
	if _, err := cell.ValidateMetadata(meta, l.opts.Validation.MassField); err != nil {
		return fail(err)
	}

	res.State = StateNormalizing
	augmented, err := l.normalizer.Normalize(table, meta)
	if err != nil {
		return fail(err)
	}

	res.State = StateLoaded
	res.Data = &cell.NormalizedCellData{CellID: id, Table: augmented, Metadata: meta}
	l.log.Info("loaded & normalized: %s", id)
	return res
}
