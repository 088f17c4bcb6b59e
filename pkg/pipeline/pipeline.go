// Package pipeline runs the complete page analysis used by the CLI and the
// HTTP API: validate the zones, compute the reading order, reconstruct the
// articles, then cache and persist the result.
//
// # Architecture
//
// The analysis of a page consists of three stages:
//
//  1. Prepare: reject (Strict) or drop invalid and duplicated zones
//  2. Order: reading order over the kept zones, XY-cut or bands depending
//     on Strategy (text zones only when TextOnly is set)
//  3. Cluster: build the weighted spatial graph and grow one article per
//     headline
//
// Ordering and clustering are independent and run concurrently. The core
// packages ([xycut], [article]) are pure; this package adds the caching,
// persistence, logging and observability around them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	opts := pipeline.DefaultOptions()
//	opts.IncludeTrace = true
//	result, err := runner.Analyze(ctx, page, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Order, result.Articles)
//
// Analyze many pages with bounded parallelism:
//
//	results, err := runner.AnalyzeBatch(ctx, pages, opts)
//
// [xycut]: github.com/matzehuels/zonecut/pkg/xycut
// [article]: github.com/matzehuels/zonecut/pkg/article
package pipeline

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/cache"
	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/store"
	"github.com/matzehuels/zonecut/pkg/xycut"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMinValue is the histogram occupancy a position must exceed to
	// count as occupied.
	DefaultMinValue = xycut.DefaultMinValue

	// DefaultMinGap is the longest empty run that does not split a band.
	DefaultMinGap = xycut.DefaultMinGap

	// DefaultResolution is the number of histogram bins per coordinate unit.
	DefaultResolution = xycut.DefaultResolution

	// DefaultDistanceScale is the corner distance at which edge weights
	// reach zero.
	DefaultDistanceScale = article.DefaultDistanceScale

	// DefaultAlignmentBonus multiplies the weight of horizontally
	// overlapping pairs.
	DefaultAlignmentBonus = article.DefaultAlignmentBonus

	// DefaultOrphans is the default policy for zones no headline reaches.
	DefaultOrphans = article.OrphansBucket

	// DefaultStrategy is the default reading-order algorithm.
	DefaultStrategy = xycut.StrategyXYCut
)

// DefaultWorkers is the default number of pages analyzed in parallel.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// =============================================================================
// Options - Analysis Configuration
// =============================================================================

// Options contains all configuration for a page analysis.
// This struct supports JSON serialization for API requests.
//
// Zero is a meaningful MinValue and MinGap, so those two are never replaced
// by defaults; start from [DefaultOptions] and override what differs.
type Options struct {
	// Reading order
	Strategy   xycut.Strategy `json:"strategy,omitempty"`
	MinValue   int            `json:"min_value"`
	MinGap     int            `json:"min_gap"` // in histogram positions
	Resolution float64        `json:"resolution,omitempty"`
	TextOnly   bool           `json:"text_only,omitempty"` // order only Text, Headline, SubHeadline and Author zones

	// Article reconstruction
	DistanceScale  float64              `json:"distance_scale,omitempty"`
	AlignmentBonus float64              `json:"alignment_bonus,omitempty"`
	LabelBonuses   []article.LabelBonus `json:"label_bonuses,omitempty"`
	MaxDistance    float64              `json:"max_distance,omitempty"`
	Orphans        article.OrphanPolicy `json:"orphans,omitempty"`

	// Input handling and output
	Strict       bool `json:"strict,omitempty"` // reject the page on an invalid zone instead of dropping it
	IncludeTrace bool `json:"include_trace,omitempty"`

	// Runtime options (not serialized)
	Workers  int                   `json:"-"`
	Refresh  bool                  `json:"-"` // bypass the cache lookup
	Logger   *log.Logger           `json:"-"`
	Progress func(done, total int) `json:"-"` // called by AnalyzeBatch after each page
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	o := Options{MinValue: DefaultMinValue, MinGap: DefaultMinGap}
	o.SetDefaults()
	return o
}

// SetDefaults fills the fields whose zero value means "unset".
// A nil LabelBonuses gets the default table; an empty non-nil slice keeps
// label bonuses disabled.
func (o *Options) SetDefaults() {
	if o.Resolution == 0 {
		o.Resolution = DefaultResolution
	}
	if o.DistanceScale == 0 {
		o.DistanceScale = DefaultDistanceScale
	}
	if o.AlignmentBonus == 0 {
		o.AlignmentBonus = DefaultAlignmentBonus
	}
	if o.LabelBonuses == nil {
		o.LabelBonuses = article.DefaultLabelBonuses()
	}
	if o.Orphans == "" {
		o.Orphans = DefaultOrphans
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
}

// Validate reports the first invalid option as an INVALID_CONFIG error.
func (o *Options) Validate() error {
	if o.MinGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min gap must not be negative (got %d)", o.MinGap)
	}
	if o.Resolution < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "resolution must be positive (got %g)", o.Resolution)
	}
	if _, err := xycut.ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if _, err := article.ParseOrphanPolicy(string(o.Orphans)); err != nil {
		return err
	}
	return o.WeightConfig().Validate()
}

// CutterOptions returns the reading-order options.
func (o *Options) CutterOptions() xycut.Options {
	return xycut.Options{MinValue: o.MinValue, MinGap: o.MinGap, Resolution: o.Resolution}
}

// WeightConfig returns the edge weighting configuration.
func (o *Options) WeightConfig() article.WeightConfig {
	return article.WeightConfig{
		DistanceScale:  o.DistanceScale,
		AlignmentBonus: o.AlignmentBonus,
		LabelBonuses:   o.LabelBonuses,
		MaxDistance:    o.MaxDistance,
	}
}

// ClusterOptions returns the clustering options.
func (o *Options) ClusterOptions() article.Options {
	return article.Options{Orphans: o.Orphans}
}

// KeyOpts returns cache key options covering everything that changes the
// result of an analysis.
func (o *Options) KeyOpts() cache.ResultKeyOpts {
	bonuses := make([]string, len(o.LabelBonuses))
	for i, b := range o.LabelBonuses {
		bonuses[i] = fmt.Sprintf("%s>%s:%g", b.From, b.To, b.Factor)
	}
	return cache.ResultKeyOpts{
		Strategy:       string(o.Strategy),
		MinValue:       o.MinValue,
		MinGap:         o.MinGap,
		Resolution:     o.Resolution,
		DistanceScale:  o.DistanceScale,
		AlignmentBonus: o.AlignmentBonus,
		Bonuses:        bonuses,
		MaxDistance:    o.MaxDistance,
		Orphans:        string(o.Orphans),
		TextOnly:       o.TextOnly,
		Strict:         o.Strict,
		IncludeTrace:   o.IncludeTrace,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of analyzing one page.
type Result struct {
	RunID       string               `json:"run_id"`
	Page        string               `json:"page"`
	PageHash    string               `json:"page_hash"`
	CreatedAt   time.Time            `json:"created_at"`
	Order       []string             `json:"order"`
	Articles    []article.Article    `json:"articles"`
	Unclustered []string             `json:"unclustered"`
	Edges       []article.Edge       `json:"edges"`
	Trace       []article.TraceEntry `json:"trace,omitempty"`
	Dropped     []zone.Dropped       `json:"dropped,omitempty"`
	Stats       store.Stats          `json:"stats"`
	CacheHit    bool                 `json:"cache_hit"`
}

// Clusters returns the article part of the result.
func (r *Result) Clusters() article.Result {
	return article.Result{Articles: r.Articles, Unclustered: r.Unclustered}
}

// Record converts the result to its stored form. The trace is not
// persisted.
func (r *Result) Record() *store.Record {
	return &store.Record{
		RunID:       r.RunID,
		PageID:      r.Page,
		PageHash:    r.PageHash,
		CreatedAt:   r.CreatedAt,
		Order:       r.Order,
		Articles:    r.Articles,
		Unclustered: r.Unclustered,
		Edges:       r.Edges,
		Dropped:     r.Dropped,
		Stats:       r.Stats,
	}
}

// FromRecord rebuilds a result from its stored form.
func FromRecord(rec *store.Record) *Result {
	return &Result{
		RunID:       rec.RunID,
		Page:        rec.PageID,
		PageHash:    rec.PageHash,
		CreatedAt:   rec.CreatedAt,
		Order:       rec.Order,
		Articles:    rec.Articles,
		Unclustered: rec.Unclustered,
		Edges:       rec.Edges,
		Dropped:     rec.Dropped,
		Stats:       rec.Stats,
	}
}
