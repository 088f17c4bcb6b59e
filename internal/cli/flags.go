package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/page"
	"github.com/matzehuels/zonecut/pkg/pipeline"
	"github.com/matzehuels/zonecut/pkg/xycut"
)

// inputFlags controls how input files are read.
type inputFlags struct {
	from     string  // input format: canonical, labelstudio or detector
	toPixels bool    // scale Label Studio percentages to pixels
	minScore float64 // detector score threshold
	id       string  // page ID override
}

func (f *inputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.from, "from", "f", "", "input format: canonical (default), labelstudio, detector")
	fs.BoolVar(&f.toPixels, "to-pixels", false, "scale Label Studio percentages by the original image size")
	fs.Float64Var(&f.minScore, "min-score", 0, "drop detector blocks scoring below this")
	fs.StringVar(&f.id, "id", "", "page ID (default: derived from the input)")
}

// importOptions converts the flags to page import options.
func (f *inputFlags) importOptions(strict bool) (page.ImportOptions, error) {
	format, err := page.ParseFormat(f.from)
	if err != nil {
		return page.ImportOptions{}, err
	}
	return page.ImportOptions{
		Format:       format,
		StrictLabels: strict,
		ToPixels:     f.toPixels,
		MinScore:     f.minScore,
		ID:           f.id,
	}, nil
}

// analysisFlags mirrors the analysis options. A flag only overrides the
// config file when it was set on the command line.
type analysisFlags struct {
	strategy       string
	minValue       int
	minGap         int
	resolution     float64
	distanceScale  float64
	alignmentBonus float64
	maxDistance    float64
	orphans        string
	textOnly       bool
	strict         bool
	workers        int
	noLabelBonus   bool
}

func (f *analysisFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.strategy, "strategy", string(pipeline.DefaultStrategy), "reading order: xycut, bands")
	fs.IntVar(&f.minValue, "min-value", pipeline.DefaultMinValue, "histogram occupancy a position must exceed")
	fs.IntVar(&f.minGap, "min-gap", pipeline.DefaultMinGap, "longest empty run that does not split a band, in histogram bins")
	fs.Float64Var(&f.resolution, "resolution", pipeline.DefaultResolution, "histogram bins per coordinate unit")
	fs.Float64Var(&f.distanceScale, "distance-scale", pipeline.DefaultDistanceScale, "corner distance at which edge weights reach zero")
	fs.Float64Var(&f.alignmentBonus, "alignment-bonus", pipeline.DefaultAlignmentBonus, "weight multiplier for horizontally overlapping zones")
	fs.Float64Var(&f.maxDistance, "max-distance", 0, "skip pairs whose corners are farther apart (0: no limit)")
	fs.StringVar(&f.orphans, "orphans", string(pipeline.DefaultOrphans), "zones no headline reaches: bucket, singletons")
	fs.BoolVar(&f.textOnly, "text-only", false, "order text zones only")
	fs.BoolVar(&f.strict, "strict", false, "reject pages with invalid zones or unknown labels")
	fs.IntVarP(&f.workers, "workers", "j", 0, "pages analyzed in parallel (default: number of CPUs)")
	fs.BoolVar(&f.noLabelBonus, "no-label-bonus", false, "disable the label bonus table")
}

// options merges the flags that were set over the config defaults.
func (f *analysisFlags) options(cmd *cobra.Command, cfg AnalysisConfig) (pipeline.Options, error) {
	opts := cfg.Options()
	changed := cmd.Flags().Changed

	if changed("strategy") {
		st, err := xycut.ParseStrategy(f.strategy)
		if err != nil {
			return opts, err
		}
		opts.Strategy = st
	}
	if changed("min-value") {
		opts.MinValue = f.minValue
	}
	if changed("min-gap") {
		opts.MinGap = f.minGap
	}
	if changed("resolution") {
		opts.Resolution = f.resolution
	}
	if changed("distance-scale") {
		opts.DistanceScale = f.distanceScale
	}
	if changed("alignment-bonus") {
		opts.AlignmentBonus = f.alignmentBonus
	}
	if changed("max-distance") {
		opts.MaxDistance = f.maxDistance
	}
	if changed("orphans") {
		policy, err := article.ParseOrphanPolicy(f.orphans)
		if err != nil {
			return opts, err
		}
		opts.Orphans = policy
	}
	if changed("text-only") {
		opts.TextOnly = f.textOnly
	}
	if changed("strict") {
		opts.Strict = f.strict
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	if f.noLabelBonus {
		opts.LabelBonuses = []article.LabelBonus{}
	}

	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
