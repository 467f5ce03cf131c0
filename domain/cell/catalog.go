package cell

import "strings"

// BuildCatalog assembles a catalog from listed files in arrival order.
// Files without a .txt extension are skipped silently. Files whose name
// does not carry a valid identifier prefix are skipped and reported via
// skip. The first file seen for an identifier wins, so a listing ordered
// most-recently-modified first makes "first wins" approximate "newest wins".
func BuildCatalog(files []FileDescriptor, skip func(name, reason string)) CellCatalog {
	catalog := make(CellCatalog)
	for _, f := range files {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			continue
		}
		id, err := CellIDFromFilename(f.Name)
		if err != nil {
			if skip != nil {
				skip(f.Name, err.Error())
			}
			continue
		}
		if _, seen := catalog[id]; seen {
			continue
		}
		catalog[id] = f
	}
	return catalog
}
