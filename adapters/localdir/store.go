// Package localdir serves raw test data files from a local directory,
// mirroring the remote folder layout for offline runs and tests.
package localdir

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"celldata/adapters/delimited"
	"celldata/domain/cell"
	"celldata/internal"
	apperrors "celldata/internal/errors"
)

// Store implements ports.Catalog and ports.RawTableStore over one directory
type Store struct {
	dir string
	log *internal.Logger
}

// NewStore builds a directory-backed store
func NewStore(dir string, logger *internal.Logger) *Store {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{dir: dir, log: logger}
}

// ListAvailable enumerates the directory's files, newest first, and
// builds a catalog with one descriptor per cell identifier.
func (s *Store) ListAvailable(ctx context.Context) (cell.CellCatalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.Wrapf(err, "listing data directory '%s'", s.dir)
	}

	var files []cell.FileDescriptor
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, cell.FileDescriptor{
			ID:       filepath.Join(s.dir, entry.Name()),
			Name:     entry.Name(),
			Modified: info.ModTime(),
			Size:     info.Size(),
		})
	}
	// Newest first, so first-wins dedup keeps the latest file.
	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})

	return cell.BuildCatalog(files, func(name, reason string) {
		s.log.Warn("skipping file %s: %s", name, reason)
	}), nil
}

// FetchRawTable parses the data file for one cell
func (s *Store) FetchRawTable(ctx context.Context, id cell.CellID) (*cell.RawTable, error) {
	catalog, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	desc, ok := catalog[id]
	if !ok {
		return nil, apperrors.NotFound("data file for cell", id.String())
	}

	f, err := os.Open(desc.ID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "opening %s", desc.Name)
	}
	defer f.Close()

	table, err := delimited.Parse(f)
	if err != nil {
		return nil, apperrors.Wrapf(err, "parsing %s", desc.Name)
	}
	return table, nil
}
