// Command loader enumerates the available cells, runs the full load
// pipeline for each, and prints a per-cell summary.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"celldata/adapters/drive"
	"celldata/adapters/excel"
	"celldata/adapters/googleauth"
	"celldata/adapters/localdir"
	"celldata/adapters/postgres"
	"celldata/adapters/sheets"
	"celldata/app"
	"celldata/domain/cell"
	"celldata/internal"
	"celldata/internal/config"
	"celldata/ports"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "loader run FAILED: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	catalog, tables, metadata, err := buildCollaborators(ctx, cfg, logger)
	if err != nil {
		return err
	}

	known, err := catalog.ListAvailable(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("found %d .txt files in the data folder\n\n", len(known))

	loader := app.NewLoader(tables, metadata, app.LoaderOptions{
		Validation:  cfg.ValidationConfig(),
		FailFast:    cfg.Loader.FailFast,
		Parallelism: cfg.Loader.Parallelism,
	}, logger)

	ids := known.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	batch, err := loader.LoadAll(ctx, ids)
	if err != nil {
		return err
	}

	printSummary(batch, ids)
	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d cells failed to load", batch.Failed, len(ids))
	}
	fmt.Println("\nloader run PASSED")
	return nil
}

func buildCollaborators(ctx context.Context, cfg *config.Config, logger *internal.Logger) (ports.Catalog, ports.RawTableStore, ports.MetadataStore, error) {
	switch cfg.Loader.Source {
	case config.SourceLocal:
		store := localdir.NewStore(cfg.Local.DataDir, logger)
		meta := excel.NewStore(cfg.Local.MetadataFile, cfg.Loader.RequiredFields, logger)
		return store, store, meta, nil

	case config.SourcePostgres:
		store := localdir.NewStore(cfg.Local.DataDir, logger)
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, postgres.NewMetadataStore(db), nil

	default:
		creds, err := googleauth.Load(ctx, cfg.Google.CredentialsFile)
		if err != nil {
			return nil, nil, nil, err
		}
		client, err := drive.NewClient(ctx, creds, cfg.Google.DriveFolderID, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		meta, err := sheets.NewStore(ctx, creds, cfg.Google.SpreadsheetID, cfg.Loader.RequiredFields, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return client, client, meta, nil
	}
}

func printSummary(batch *app.BatchResult, ids []cell.CellID) {
	for _, id := range ids {
		res, ok := batch.Results[id]
		if !ok {
			continue
		}
		if res.Err != nil {
			fmt.Printf("%s: FAILED while %s: %v\n", id, res.FailedAt, res.Err)
			continue
		}
		we := res.Data.Metadata["Working Electrode"]
		if we == "" {
			we = "N/A"
		}
		fmt.Printf("%s: %s | %d rows loaded | columns: %d\n",
			id, we, len(res.Data.Table.Rows), len(res.Data.Table.Headers))
	}
}
