package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"celldata/domain/cell"
	apperrors "celldata/internal/errors"
)

// Mock implementations for testing
type MockRawTableStore struct {
	mock.Mock
}

func (m *MockRawTableStore) FetchRawTable(ctx context.Context, id cell.CellID) (*cell.RawTable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cell.RawTable), args.Error(1)
}

type MockMetadataStore struct {
	mock.Mock
}

func (m *MockMetadataStore) FetchMetadata(ctx context.Context, id cell.CellID) (cell.MetadataRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cell.MetadataRecord), args.Error(1)
}

func goodTable() *cell.RawTable {
	return &cell.RawTable{
		Headers: []string{"time/s", cell.DefaultCapacityColumn},
		Rows: []cell.RawRow{
			{"time/s": "0.1", cell.DefaultCapacityColumn: "5"},
		},
	}
}

func goodMetadata(id string) cell.MetadataRecord {
	return cell.MetadataRecord{
		"Cell ID":             id,
		"Working Electrode":   "LFP",
		cell.DefaultMassField: "250",
	}
}

func TestLoadCellSuccess(t *testing.T) {
	tables := new(MockRawTableStore)
	metadata := new(MockMetadataStore)
	id := cell.CellID("MEN0001")
	tables.On("FetchRawTable", mock.Anything, id).Return(goodTable(), nil)
	metadata.On("FetchMetadata", mock.Anything, id).Return(goodMetadata("MEN0001"), nil)

	loader := NewLoader(tables, metadata, LoaderOptions{}, nil)
	data, err := loader.LoadCell(context.Background(), id)
	require.NoError(t, err)

	require.NotNil(t, data)
	assert.Equal(t, id, data.CellID)
	assert.Equal(t, "20", data.Table.Rows[0][cell.NormalizedCapacityColumn])
	tables.AssertExpectations(t)
	metadata.AssertExpectations(t)
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	tables := new(MockRawTableStore)
	metadata := new(MockMetadataStore)
	good := cell.CellID("MEN0001")
	bad := cell.CellID("MEN0002")

	tables.On("FetchRawTable", mock.Anything, good).Return(goodTable(), nil)
	tables.On("FetchRawTable", mock.Anything, bad).Return(goodTable(), nil)
	metadata.On("FetchMetadata", mock.Anything, good).Return(goodMetadata("MEN0001"), nil)
	metadata.On("FetchMetadata", mock.Anything, bad).Return(cell.MetadataRecord{
		"Cell ID":             "MEN0002",
		"Working Electrode":   "LFP",
		cell.DefaultMassField: "0", // fails validation
	}, nil)

	loader := NewLoader(tables, metadata, LoaderOptions{}, nil)
	batch, err := loader.LoadAll(context.Background(), []cell.CellID{bad, good})
	require.NoError(t, err) // batch itself succeeds

	assert.Equal(t, 1, batch.Loaded)
	assert.Equal(t, 1, batch.Failed)
	assert.NotEmpty(t, batch.BatchID)

	require.NotNil(t, batch.Results[good].Data)
	assert.Equal(t, StateLoaded, batch.Results[good].State)

	failed := batch.Results[bad]
	assert.Equal(t, StateFailed, failed.State)
	assert.Equal(t, StateValidating, failed.FailedAt)
	assert.Equal(t, apperrors.CodeNonPositiveMass, apperrors.GetCode(failed.Err))
}

func TestLoadAllFailFast(t *testing.T) {
	tables := new(MockRawTableStore)
	metadata := new(MockMetadataStore)
	bad := cell.CellID("MEN0001")
	never := cell.CellID("MEN0002")

	tables.On("FetchRawTable", mock.Anything, bad).
		Return(nil, apperrors.NotFound("data file for cell", bad.String()))

	loader := NewLoader(tables, metadata, LoaderOptions{FailFast: true}, nil)
	batch, err := loader.LoadAll(context.Background(), []cell.CellID{bad, never})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
	// the second cell was never attempted
	_, attempted := batch.Results[never]
	assert.False(t, attempted)
	tables.AssertNotCalled(t, "FetchRawTable", mock.Anything, never)
}

func TestLoadAllParallel(t *testing.T) {
	tables := new(MockRawTableStore)
	metadata := new(MockMetadataStore)

	ids := []cell.CellID{"MEN0001", "MEN0002", "MEN0003", "MEN0004"}
	for _, id := range ids {
		tables.On("FetchRawTable", mock.Anything, id).Return(goodTable(), nil)
		metadata.On("FetchMetadata", mock.Anything, id).Return(goodMetadata(id.String()), nil)
	}

	loader := NewLoader(tables, metadata, LoaderOptions{Parallelism: 3}, nil)
	batch, err := loader.LoadAll(context.Background(), ids)
	require.NoError(t, err)

	assert.Equal(t, len(ids), batch.Loaded)
	assert.Zero(t, batch.Failed)
	for _, id := range ids {
		require.Contains(t, batch.Results, id)
		assert.Equal(t, StateLoaded, batch.Results[id].State)
	}
}

func TestLoadCellPropagatesCollaboratorErrors(t *testing.T) {
	tables := new(MockRawTableStore)
	metadata := new(MockMetadataStore)
	id := cell.CellID("ZZ0001")

	tables.On("FetchRawTable", mock.Anything, id).Return(goodTable(), nil)
	metadata.On("FetchMetadata", mock.Anything, id).
		Return(nil, apperrors.PartitionNotFound("ZZ"))

	loader := NewLoader(tables, metadata, LoaderOptions{}, nil)
	_, err := loader.LoadCell(context.Background(), id)

	require.Error(t, err)
	// typed code survives wrapping with loader context
	assert.Equal(t, apperrors.CodePartitionNotFound, apperrors.GetCode(err))
}

type fakeCatalog struct {
	catalog cell.CellCatalog
}

func (f *fakeCatalog) ListAvailable(ctx context.Context) (cell.CellCatalog, error) {
	return f.catalog, nil
}

func TestLoadCatalog(t *testing.T) {
	tables := new(MockRawTableStore)
	metadata := new(MockMetadataStore)
	ids := []cell.CellID{"MEN0001", "AB1234"}
	catalog := cell.CellCatalog{}
	for _, id := range ids {
		catalog[id] = cell.FileDescriptor{ID: "f-" + id.String(), Name: id.String() + "_run.txt"}
		tables.On("FetchRawTable", mock.Anything, id).Return(goodTable(), nil)
		metadata.On("FetchMetadata", mock.Anything, id).Return(goodMetadata(id.String()), nil)
	}

	loader := NewLoader(tables, metadata, LoaderOptions{}, nil)
	batch, err := loader.LoadCatalog(context.Background(), &fakeCatalog{catalog: catalog})
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Loaded)
	assert.Zero(t, batch.Failed)
}

func TestLoadAllStopsOnCancelledContext(t *testing.T) {
	tables := new(MockRawTableStore)
	metadata := new(MockMetadataStore)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(tables, metadata, LoaderOptions{}, nil)
	_, err := loader.LoadAll(ctx, []cell.CellID{"MEN0001"})

	require.Error(t, err)
	tables.AssertNotCalled(t, "FetchRawTable", mock.Anything, mock.Anything)
}
