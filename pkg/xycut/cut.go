package xycut

import (
	"cmp"
	"slices"

	"github.com/matzehuels/zonecut/pkg/zone"
)

// Default parameter values.
const (
	DefaultMinValue   = 0
	DefaultMinGap     = 1
	DefaultResolution = 1.0
)

// Options configures a [Cutter]. The zero value cuts with the defaults.
type Options struct {
	// MinValue is the occupancy a histogram position must exceed to count
	// as occupied.
	MinValue int `json:"min_value"`

	// MinGap is the longest run of unoccupied positions that does not
	// separate two bands or columns. It counts histogram positions, not
	// coordinate units: at Resolution r it covers MinGap/r units.
	MinGap int `json:"min_gap"`

	// Resolution is the number of histogram positions per coordinate
	// unit. Zero means DefaultResolution.
	Resolution float64 `json:"resolution,omitempty"`
}

// Cutter computes reading orders. It holds no state besides its options and
// is safe for concurrent use.
type Cutter struct {
	opts Options
}

// New returns a cutter with the given options. A negative MinGap is treated
// as zero.
func New(opts Options) *Cutter {
	if opts.MinGap < 0 {
		opts.MinGap = 0
	}
	if opts.Resolution <= 0 {
		opts.Resolution = DefaultResolution
	}
	return &Cutter{opts: opts}
}

// Default returns a cutter with MinValue 0 and MinGap 1.
func Default() *Cutter {
	return New(Options{MinValue: DefaultMinValue, MinGap: DefaultMinGap})
}

// Order returns the zone IDs of zones in reading order using the default
// options.
func Order(zones []zone.Zone) []string {
	return Default().Order(zones)
}

// Options returns the effective options.
func (c *Cutter) Options() Options { return c.opts }

// Order returns the zone IDs in reading order. The result is a permutation
// of the input IDs; an empty input yields an empty result.
func (c *Cutter) Order(zones []zone.Zone) []string {
	ids := make([]string, 0, len(zones))
	for _, i := range c.OrderIndices(zone.Boxes(zones)) {
		ids = append(ids, zones[i].ID)
	}
	return ids
}

// OrderIndices returns the permutation of box indices in reading order.
func (c *Cutter) OrderIndices(boxes []zone.BBox) []int {
	idx := make([]int, len(boxes))
	for i := range idx {
		idx[i] = i
	}
	return c.cut(boxes, idx, make([]int, 0, len(boxes)))
}

func (c *Cutter) cut(boxes []zone.BBox, idx, out []int) []int {
	if len(idx) <= 1 {
		return append(out, idx...)
	}

	bands, ok := SplitProfile(project(boxes, idx, AxisY, c.opts.Resolution), c.opts.MinValue, c.opts.MinGap)
	if !ok {
		return append(out, c.leaf(boxes, idx)...)
	}

	for _, members := range c.assign(boxes, idx, bands, AxisY) {
		cols, ok := SplitProfile(project(boxes, members, AxisX, c.opts.Resolution), c.opts.MinValue, c.opts.MinGap)
		if !ok || len(cols) == 1 {
			out = append(out, c.leaf(boxes, members)...)
			continue
		}
		for _, col := range c.assign(boxes, members, cols, AxisX) {
			if len(col) == len(idx) {
				out = append(out, c.leaf(boxes, col)...)
				continue
			}
			out = c.cut(boxes, col, out)
		}
	}
	return out
}

// assign distributes idx over segs by each box's leading edge on axis: a box
// belongs to the last segment starting at or before its rasterized start.
// With MinValue 0 that is exactly the segment containing the edge; with a
// higher threshold boxes starting in a sub-threshold run still land in a
// neighbouring segment, so no zone is lost. Empty groups are omitted.
func (c *Cutter) assign(boxes []zone.BBox, idx []int, segs []Segment, axis Axis) [][]int {
	groups := make([][]int, len(segs))
	for _, i := range idx {
		start, _ := span(boxes[i], axis, c.opts.Resolution)
		k, found := slices.BinarySearchFunc(segs, start, func(s Segment, p int) int {
			return cmp.Compare(s.Start, p)
		})
		if !found {
			k--
		}
		if k < 0 {
			k = 0
		}
		groups[k] = append(groups[k], i)
	}
	return slices.DeleteFunc(groups, func(g []int) bool { return len(g) == 0 })
}

// leaf orders an unsplittable region by top, then left, then input index.
func (c *Cutter) leaf(boxes []zone.BBox, idx []int) []int {
	out := slices.Clone(idx)
	slices.SortFunc(out, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(boxes[a].Top(), boxes[b].Top()),
			cmp.Compare(boxes[a].Left(), boxes[b].Left()),
			cmp.Compare(a, b),
		)
	})
	return out
}
