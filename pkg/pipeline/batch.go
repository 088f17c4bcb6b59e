package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/zonecut/pkg/page"
)

// AnalyzeBatch analyzes pages in parallel, at most opts.Workers at a time.
// Results are returned in page order. The first failure cancels the
// remaining pages and is returned. opts.Progress, if set, is called after
// every finished page, never concurrently.
func (r *Runner) AnalyzeBatch(ctx context.Context, pages []*page.Page, opts Options) ([]*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	var (
		mu   sync.Mutex
		done int
	)
	results := make([]*Result, len(pages))
	for i, p := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Analyze(ctx, p, opts)
			if err != nil {
				return fmt.Errorf("page %s: %w", pageName(p, i), err)
			}
			results[i] = res
			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(pages))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func pageName(p *page.Page, i int) string {
	if p == nil || p.ID == "" {
		return fmt.Sprintf("#%d", i)
	}
	return p.ID
}
