package xycut

import (
	"math"

	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// MaxPositions bounds the histogram length on either axis. Box edges beyond
// it are clamped by the cutter; [CheckExtent] rejects such pages up front.
const MaxPositions = 1 << 20

// Axis selects the projection direction.
type Axis int

const (
	// AxisX projects onto the horizontal axis using each box's x-extent.
	AxisX Axis = 0
	// AxisY projects onto the vertical axis using each box's y-extent.
	AxisY Axis = 1
)

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Segment is a maximal run of occupied positions, End exclusive.
type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of positions covered by the segment.
func (s Segment) Len() int { return s.End - s.Start }

// Project builds the occupancy histogram of boxes along axis at unit
// resolution. Position i counts the boxes whose extent covers [i, i+1).
// The histogram spans 0 to the largest end coordinate; coordinates below
// zero are clamped, as are coordinates beyond MaxPositions.
func Project(boxes []zone.BBox, axis Axis) []int {
	return project(boxes, nil, axis, 1)
}

// project is Project restricted to boxes[idx] (all boxes when idx is nil)
// with coordinates multiplied by res.
func project(boxes []zone.BBox, idx []int, axis Axis, res float64) []int {
	length := 0
	each(boxes, idx, func(b zone.BBox) {
		if _, end := span(b, axis, res); end > length {
			length = end
		}
	})
	if length == 0 {
		return nil
	}

	hist := make([]int, length)
	each(boxes, idx, func(b zone.BBox) {
		start, end := span(b, axis, res)
		for p := start; p < end; p++ {
			hist[p]++
		}
	})
	return hist
}

func each(boxes []zone.BBox, idx []int, fn func(zone.BBox)) {
	if idx == nil {
		for _, b := range boxes {
			fn(b)
		}
		return
	}
	for _, i := range idx {
		fn(boxes[i])
	}
}

// span rasterizes a box's extent on axis to the integer positions
// [start, end) it touches.
func span(b zone.BBox, axis Axis, res float64) (start, end int) {
	lo, hi := b.Left(), b.Right()
	if axis == AxisY {
		lo, hi = b.Top(), b.Bottom()
	}
	start = int(math.Floor(clamp(lo * res)))
	end = int(math.Ceil(clamp(hi * res)))
	if end <= start && hi > lo && hi > 0 {
		end = start + 1
	}
	return start, end
}

func clamp(v float64) float64 {
	return math.Min(math.Max(0, v), MaxPositions)
}

// CheckExtent returns an INVALID_ZONE error for the first box whose far
// edge, at res histogram positions per unit, lies beyond MaxPositions.
func CheckExtent(boxes []zone.BBox, res float64) error {
	if res <= 0 {
		res = DefaultResolution
	}
	for _, b := range boxes {
		if edge := math.Max(b.Right(), b.Bottom()); edge*res > MaxPositions {
			return errors.New(errors.ErrCodeInvalidZone,
				"zone at (%g, %g) extends to %g, beyond %d histogram positions at resolution %g",
				b.X, b.Y, edge, MaxPositions, res)
		}
	}
	return nil
}

// SplitProfile returns the maximal runs of positions whose value exceeds
// minValue. Runs separated by at most minGap unoccupied positions are merged
// into one segment.
//
// The second return value is false when no position exceeds minValue: the
// profile cannot be split at all, which is different from an empty result.
func SplitProfile(profile []int, minValue, minGap int) ([]Segment, bool) {
	var segs []Segment
	last := -1
	for i, v := range profile {
		if v <= minValue {
			continue
		}
		switch {
		case last < 0:
			segs = append(segs, Segment{Start: i})
		case i-last-1 > minGap:
			segs[len(segs)-1].End = last + 1
			segs = append(segs, Segment{Start: i})
		}
		last = i
	}
	if last < 0 {
		return nil, false
	}
	segs[len(segs)-1].End = last + 1
	return segs, true
}
