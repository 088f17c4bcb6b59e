package pipeline

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/cache"
	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/observability"
	"github.com/matzehuels/zonecut/pkg/page"
	"github.com/matzehuels/zonecut/pkg/store"
	"github.com/matzehuels/zonecut/pkg/xycut"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// Runner encapsulates page analysis with caching and persistence.
// Both CLI and API use it so they share the same behavior.
//
// The Runner holds no per-page state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If st is nil, a NullStore is used (nothing is persisted).
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if st == nil {
		st = store.NullStore{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Analyze computes the reading order and the articles of p.
//
// Results are cached by the content hash of the page and the options; a
// cached result is returned with CacheHit set and its original RunID.
// Fresh results get a new RunID and are saved to the store.
func (r *Runner) Analyze(ctx context.Context, p *page.Page, opts Options) (res *Result, err error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "page is required")
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, p.ID, len(p.Zones))
	defer func() { hooks.OnAnalyzeComplete(ctx, p.ID, time.Since(start), err) }()

	hash, err := cache.HashJSON(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash page %s", p.ID)
	}
	key := r.Keyer.ResultKey(hash, opts.KeyOpts())

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key); ok {
			opts.Logger.Debug("cache hit", "page", p.ID, "run", cached.RunID)
			return cached, nil
		}
	}

	zones, dropped, err := Prepare(p.Zones, opts.Strict)
	if err != nil {
		return nil, err
	}
	for _, d := range dropped {
		opts.Logger.Warn("dropped zone", "page", p.ID, "zone", d.ID, "reason", d.Reason)
	}

	res, err = analyze(ctx, p.ID, zones, opts)
	if err != nil {
		return nil, err
	}
	res.RunID = uuid.NewString()
	res.Page = p.ID
	res.PageHash = hash
	res.CreatedAt = time.Now().UTC()
	res.Dropped = dropped
	res.Stats.Dropped = len(dropped)

	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Store.Save(ctx, res.Record())
	})
	if err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	r.remember(ctx, key, p.ID, res)

	opts.Logger.Info("analyzed page",
		"page", p.ID,
		"zones", res.Stats.Zones,
		"articles", res.Stats.Articles,
		"unclustered", res.Stats.Unclustered,
		"duration", time.Since(start))
	return res, nil
}

// Prepare returns the zones an analysis runs on. In strict mode the first
// invalid or duplicated zone rejects the page; otherwise such zones are
// dropped and reported.
func Prepare(zones []zone.Zone, strict bool) ([]zone.Zone, []zone.Dropped, error) {
	if strict {
		if err := zone.Validate(zones); err != nil {
			return nil, nil, err
		}
		return zones, nil, nil
	}
	kept, dropped := zone.Filter(zones)
	return kept, dropped, nil
}

// Order returns the reading order of prepared zones with the configured
// strategy. With TextOnly set, only text-like zones take part. XY-cut
// rejects pages too large to rasterize with an INVALID_ZONE error.
func Order(zones []zone.Zone, opts Options) ([]string, error) {
	if opts.TextOnly {
		zones = slices.DeleteFunc(slices.Clone(zones), func(z zone.Zone) bool { return !z.Label.IsText() })
	}
	if opts.Strategy == xycut.StrategyBands {
		return xycut.Bands(zones), nil
	}
	cutter := xycut.New(opts.CutterOptions())
	if err := xycut.CheckExtent(zone.Boxes(zones), cutter.Options().Resolution); err != nil {
		return nil, err
	}
	return cutter.Order(zones), nil
}

// Cluster reconstructs the articles of prepared zones.
func Cluster(zones []zone.Zone, opts Options) (article.Result, *article.Graph, article.Trace) {
	return article.Reconstruct(zones, opts.WeightConfig(), opts.ClusterOptions())
}

// analyze runs ordering and clustering concurrently; they only read zones.
// A panic in either stage is returned as an INTERNAL error.
func analyze(ctx context.Context, pageID string, zones []zone.Zone, opts Options) (*Result, error) {
	hooks := observability.Pipeline()
	res := &Result{}

	var wg sync.WaitGroup
	var orderErr, clusterErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		orderErr = guard("reading order", func() error {
			start := time.Now()
			order, err := Order(zones, opts)
			if err != nil {
				return err
			}
			res.Order = order
			d := time.Since(start)
			res.Stats.OrderMS = ms(d)
			hooks.OnOrderComplete(ctx, pageID, d)
			return nil
		})
	}()
	go func() {
		defer wg.Done()
		clusterErr = guard("clustering", func() error {
			start := time.Now()
			clusters, g, trace := Cluster(zones, opts)
			res.Articles = clusters.Articles
			res.Unclustered = clusters.Unclustered
			res.Edges = g.AllEdges()
			if res.Edges == nil {
				res.Edges = []article.Edge{}
			}
			if opts.IncludeTrace {
				res.Trace = trace.Entries()
			}
			d := time.Since(start)
			res.Stats.ClusterMS = ms(d)
			res.Stats.Edges = g.EdgeCount()
			hooks.OnClusterComplete(ctx, pageID, len(clusters.Articles), len(clusters.Unclustered), d)
			return nil
		})
	}()
	wg.Wait()

	if err := cmp.Or(orderErr, clusterErr); err != nil {
		return nil, err
	}
	res.Stats.Zones = len(zones)
	res.Stats.Articles = len(res.Articles)
	res.Stats.Unclustered = len(res.Unclustered)
	return res, nil
}

// guard runs fn, turning a panic into an INTERNAL error.
func guard(stage string, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New(errors.ErrCodeInternal, "%s panicked: %v", stage, p)
		}
	}()
	return fn()
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// lookup loads a cached result. Unreadable entries count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "result")
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		hooks.OnCacheMiss(ctx, "result")
		return nil, false
	}
	hooks.OnCacheHit(ctx, "result")
	res.CacheHit = true
	return &res, true
}

// remember caches res under key and points the page's latest entry at it.
// Cache failures are logged, never returned.
func (r *Runner) remember(ctx context.Context, key, pageID string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		r.Logger.Warn("encode result for cache", "page", pageID, "err", err)
		return
	}
	hooks := observability.Cache()
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
		r.Logger.Warn("cache result", "page", pageID, "err", err)
		return
	}
	hooks.OnCacheSet(ctx, "result", len(data))
	if pageID == "" {
		return
	}
	if err := r.Cache.Set(ctx, r.Keyer.PageKey(pageID), []byte(key), cache.TTLLatest); err != nil {
		r.Logger.Warn("cache latest pointer", "page", pageID, "err", err)
		return
	}
	hooks.OnCacheSet(ctx, "page", len(key))
}

// Get loads a stored result by run ID.
func (r *Runner) Get(ctx context.Context, runID string) (*Result, error) {
	if err := errors.ValidateRunID(runID); err != nil {
		return nil, err
	}
	rec, err := r.Store.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	return FromRecord(rec), nil
}

// Latest returns the most recent result of a page: first through the
// cache's latest pointer, then from the store. It returns a NOT_FOUND
// error when the page was never analyzed.
func (r *Runner) Latest(ctx context.Context, pageID string) (*Result, error) {
	if err := errors.ValidateID("page", pageID); err != nil {
		return nil, err
	}
	if key, hit, err := r.Cache.Get(ctx, r.Keyer.PageKey(pageID)); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "page")
		if res, ok := r.lookup(ctx, string(key)); ok {
			return res, nil
		}
	} else {
		observability.Cache().OnCacheMiss(ctx, "page")
	}

	recs, err := r.Store.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no analysis of page %s", pageID)
	}
	return FromRecord(recs[0]), nil
}

// Close releases resources held by the runner. Both the cache and the
// store are closed; the first error is returned.
func (r *Runner) Close(ctx context.Context) error {
	cerr := r.Cache.Close()
	if err := r.Store.Close(ctx); err != nil && cerr == nil {
		return err
	}
	return cerr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
