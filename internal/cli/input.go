package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/zonecut/pkg/page"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// stdinPath selects standard input as the page source.
const stdinPath = "-"

// readPage reads a single page from path, or from standard input when path
// is "-" or empty.
func readPage(ctx context.Context, path string, opts page.ImportOptions) (*page.Page, error) {
	logger := loggerFromContext(ctx)
	if path == "" || path == stdinPath {
		if opts.Encoding == "" {
			opts.Encoding = page.JSON
		}
		p, err := page.Read(os.Stdin, opts)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		if p.ID == "" {
			p.ID = "stdin"
		}
		logger.Debug("read page", "source", "stdin", "zones", len(p.Zones))
		return p, nil
	}
	p, err := page.ReadFile(path, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("read page", "source", path, "page", p.ID, "zones", len(p.Zones))
	return p, nil
}

// readInputs expands the input paths into entries. Manifest files
// contribute all of their pages; any other file is a single page.
func readInputs(ctx context.Context, paths []string, opts page.ImportOptions) ([]page.Entry, error) {
	logger := loggerFromContext(ctx)
	var entries []page.Entry
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		isManifest, err := page.IsManifestFile(path)
		if err != nil {
			return nil, err
		}
		if isManifest {
			es, err := page.ReadManifest(path, opts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			logger.Debug("read manifest", "source", path, "pages", len(es))
			entries = append(entries, es...)
			continue
		}
		p, err := readPage(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page.Entry{Image: path, Page: p})
	}
	return entries, nil
}

// warnDropped logs the zones left out of an analysis.
func warnDropped(ctx context.Context, pageID string, dropped []zone.Dropped) {
	logger := loggerFromContext(ctx)
	for _, d := range dropped {
		logger.Warn("dropped zone", "page", pageID, "zone", d.ID, "reason", d.Reason)
	}
}
