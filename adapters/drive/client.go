// Package drive lists and downloads raw test data files from a Google
// Drive folder.
package drive

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"celldata/adapters/delimited"
	"celldata/domain/cell"
	"celldata/internal"
	apperrors "celldata/internal/errors"
)

// Client implements ports.Catalog and ports.RawTableStore over one
// Drive folder.
type Client struct {
	svc      *drive.Service
	folderID string
	log      *internal.Logger

	// Listing snapshot reused across fetches within this client.
	// ListAvailable always lists fresh; RefreshCatalog resets this.
	mu      sync.Mutex
	catalog cell.CellCatalog
}

// NewClient builds a Drive client for the given folder
func NewClient(ctx context.Context, creds option.ClientOption, folderID string, logger *internal.Logger) (*Client, error) {
	svc, err := drive.NewService(ctx, creds)
	if err != nil {
		return nil, apperrors.ExternalServiceError("drive", err)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Client{svc: svc, folderID: folderID, log: logger}, nil
}

// ListAvailable enumerates the folder's plain-text files, newest first,
// and builds a catalog with one descriptor per cell identifier.
func (c *Client) ListAvailable(ctx context.Context) (cell.CellCatalog, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='text/plain' and trashed=false", c.folderID)

	var files []cell.FileDescriptor
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(query).
			OrderBy("modifiedTime desc").
			Fields("nextPageToken", "files(id, name, modifiedTime, size)").
			PageSize(1000).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, apperrors.ExternalServiceError("drive", err)
		}
		for _, f := range resp.Files {
			modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
			files = append(files, cell.FileDescriptor{
				ID:       f.Id,
				Name:     f.Name,
				Modified: modified,
				Size:     f.Size,
			})
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	catalog := cell.BuildCatalog(files, func(name, reason string) {
		c.log.Warn("skipping drive file %s: %s", name, reason)
	})
	c.log.Info("found %d cell data files in drive folder", len(catalog))
	return catalog, nil
}

// FetchRawTable downloads and parses the data file for one cell
func (c *Client) FetchRawTable(ctx context.Context, id cell.CellID) (*cell.RawTable, error) {
	desc, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Files.Get(desc.ID).Context(ctx).Download()
	if err != nil {
		if isNotFoundStatus(err) {
			return nil, apperrors.NotFound("data file for cell", id.String())
		}
		return nil, apperrors.ExternalServiceError("drive", err)
	}
	defer resp.Body.Close()

	table, err := delimited.Parse(resp.Body)
	if err != nil {
		return nil, apperrors.Wrapf(err, "parsing %s", desc.Name)
	}
	return table, nil
}

// RefreshCatalog discards the cached listing snapshot
func (c *Client) RefreshCatalog() {
	c.mu.Lock()
	c.catalog = nil
	c.mu.Unlock()
}

// ValidateAccess probes the Drive API with a minimal listing call
func (c *Client) ValidateAccess(ctx context.Context) error {
	_, err := c.svc.Files.List().PageSize(1).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return apperrors.ExternalServiceError("drive", err)
	}
	return nil
}

func (c *Client) lookup(ctx context.Context, id cell.CellID) (cell.FileDescriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalog == nil {
		catalog, err := c.ListAvailable(ctx)
		if err != nil {
			return cell.FileDescriptor{}, err
		}
		c.catalog = catalog
	}
	desc, ok := c.catalog[id]
	if !ok {
		return cell.FileDescriptor{}, apperrors.NotFound("data file for cell", id.String())
	}
	return desc, nil
}

// isNotFoundStatus reports whether err is an HTTP 404 from the API
func isNotFoundStatus(err error) bool {
	if gerr, ok := err.(*googleapi.Error); ok {
		return gerr.Code == 404
	}
	return false
}
