package article

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// Default weighting parameters.
const (
	DefaultDistanceScale  = 100.0
	DefaultAlignmentBonus = 1.5
	DefaultHeadlineBonus  = 2.0
)

// LabelBonus multiplies the weight of edges from a zone labeled From to a
// zone labeled To.
type LabelBonus struct {
	From   zone.Label `json:"from" toml:"from"`
	To     zone.Label `json:"to" toml:"to"`
	Factor float64    `json:"factor" toml:"factor"`
}

// DefaultLabelBonuses returns the built-in bonus table: a headline flows
// into its body text.
func DefaultLabelBonuses() []LabelBonus {
	return []LabelBonus{{From: zone.LabelHeadline, To: zone.LabelText, Factor: DefaultHeadlineBonus}}
}

// WeightConfig parameterizes the edge weight function.
type WeightConfig struct {
	// DistanceScale is the corner distance at which the distance factor
	// reaches zero. It must match the coordinate space of the zones.
	DistanceScale float64 `json:"distance_scale"`

	// AlignmentBonus multiplies the weight of horizontally overlapping pairs.
	AlignmentBonus float64 `json:"alignment_bonus"`

	// LabelBonuses is consulted in order; the first matching pair applies.
	LabelBonuses []LabelBonus `json:"label_bonuses"`

	// MaxDistance skips pairs whose corner distance exceeds it. Zero
	// disables the cutoff.
	MaxDistance float64 `json:"max_distance,omitempty"`
}

// DefaultWeightConfig returns the standard weighting.
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		DistanceScale:  DefaultDistanceScale,
		AlignmentBonus: DefaultAlignmentBonus,
		LabelBonuses:   DefaultLabelBonuses(),
	}
}

// SetDefaults fills zero-valued fields. A nil bonus table gets the default
// table; an empty non-nil table disables label bonuses.
func (c *WeightConfig) SetDefaults() {
	if c.DistanceScale == 0 {
		c.DistanceScale = DefaultDistanceScale
	}
	if c.AlignmentBonus == 0 {
		c.AlignmentBonus = DefaultAlignmentBonus
	}
	if c.LabelBonuses == nil {
		c.LabelBonuses = DefaultLabelBonuses()
	}
}

// Validate rejects configurations that would produce meaningless weights.
func (c WeightConfig) Validate() error {
	if !(c.DistanceScale > 0) || math.IsInf(c.DistanceScale, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "distance scale must be a positive number (got %g)", c.DistanceScale)
	}
	if !(c.AlignmentBonus > 0) || math.IsInf(c.AlignmentBonus, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "alignment bonus must be a positive number (got %g)", c.AlignmentBonus)
	}
	if c.MaxDistance < 0 || math.IsNaN(c.MaxDistance) {
		return errors.New(errors.ErrCodeInvalidConfig, "max distance must not be negative (got %g)", c.MaxDistance)
	}
	for _, b := range c.LabelBonuses {
		if !(b.Factor > 0) || math.IsInf(b.Factor, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "bonus %s -> %s must be a positive number (got %g)", b.From, b.To, b.Factor)
		}
	}
	return nil
}

func (c WeightConfig) labelBonus(from, to zone.Label) float64 {
	for _, b := range c.LabelBonuses {
		if b.From == from && b.To == to {
			return b.Factor
		}
	}
	return 1
}

// Pair identifies a directed zone pair.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Explanation records how an edge weight was derived.
type Explanation struct {
	Distance       float64 `json:"distance"`
	DistanceFactor float64 `json:"distance_factor"`
	Alignment      bool    `json:"alignment"`
	AlignmentBonus float64 `json:"alignment_bonus,omitempty"`
	TypeMatch      float64 `json:"type_match"`
	Weight         float64 `json:"weight"`
}

// Strings renders the explanation the way it is shown to users:
//
//	distance:   "20.0px → 0.80"
//	alignment:  "1.5x"   (only when applied)
//	type_match: "2.0x"   (only when applied)
func (e Explanation) Strings() map[string]string {
	m := map[string]string{
		"distance": fmt.Sprintf("%.1fpx → %.2f", e.Distance, e.DistanceFactor),
	}
	if e.Alignment {
		m["alignment"] = fmt.Sprintf("%.1fx", e.AlignmentBonus)
	}
	if e.TypeMatch != 1 {
		m["type_match"] = fmt.Sprintf("%.1fx", e.TypeMatch)
	}
	return m
}

// Trace maps every evaluated zone pair to the explanation of its weight,
// including pairs whose weight was zero and produced no edge. Only pairs
// whose tops are less than DistanceScale apart vertically (and, when set,
// whose corners are within MaxDistance) are evaluated; the rest are absent.
type Trace map[Pair]Explanation

// TraceEntry is a serializable trace row.
type TraceEntry struct {
	From    string            `json:"from"`
	To      string            `json:"to"`
	Weight  float64           `json:"weight"`
	Details map[string]string `json:"details"`
}

// Entries returns the trace as rows sorted by (From, To).
func (t Trace) Entries() []TraceEntry {
	pairs := slices.SortedFunc(maps.Keys(t), func(a, b Pair) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
	out := make([]TraceEntry, len(pairs))
	for i, p := range pairs {
		e := t[p]
		out[i] = TraceEntry{From: p.From, To: p.To, Weight: e.Weight, Details: e.Strings()}
	}
	return out
}

// Weigh computes the weight of the directed pair (a, b) and its explanation.
//
// The weight starts at 1, is scaled by max(0, 1 - d/DistanceScale) where d is
// the distance of the top-left corners, multiplied by AlignmentBonus when
// the boxes overlap horizontally and by the first matching label bonus.
func (c WeightConfig) Weigh(a, b zone.Zone) (float64, Explanation) {
	d := a.BBox.CornerDistance(b.BBox)
	factor := math.Max(0, 1-d/c.DistanceScale)
	e := Explanation{Distance: d, DistanceFactor: factor, TypeMatch: 1}

	w := 1.0 * factor
	if a.BBox.XOverlap(b.BBox) > 0 {
		w *= c.AlignmentBonus
		e.Alignment = true
		e.AlignmentBonus = c.AlignmentBonus
	}
	if bonus := c.labelBonus(a.Label, b.Label); bonus != 1 {
		w *= bonus
		e.TypeMatch = bonus
	}
	e.Weight = w
	return w, e
}
