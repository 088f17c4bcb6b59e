package xycut

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// Strategy names a reading-order algorithm.
type Strategy string

const (
	// StrategyXYCut orders zones with the recursive [Cutter].
	StrategyXYCut Strategy = "xycut"
	// StrategyBands orders zones line by line with [Bands].
	StrategyBands Strategy = "bands"
)

// ParseStrategy accepts "xycut" or "bands"; the empty string selects
// StrategyXYCut.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "", StrategyXYCut:
		return StrategyXYCut, nil
	case StrategyBands:
		return StrategyBands, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown ordering strategy %q (want xycut or bands)", s)
	}
}

// BandThreshold is the fraction of the median box height within which two
// vertical centers belong to the same band.
const BandThreshold = 0.5

// Bands returns the zone IDs in reading order by grouping zones into
// horizontal bands, without any histogram.
//
// Zones are visited in input order; each zone not yet grouped starts a band
// and pulls in every later ungrouped zone whose vertical center lies less
// than BandThreshold times the median height away from its own. Bands are
// read in order of their mean top coordinate, zones within a band from left
// to right. Ties keep input order.
func Bands(zones []zone.Zone) []string {
	ids := make([]string, 0, len(zones))
	for _, i := range BandIndices(zone.Boxes(zones)) {
		ids = append(ids, zones[i].ID)
	}
	return ids
}

// BandIndices is [Bands] over boxes, returning a permutation of indices.
func BandIndices(boxes []zone.BBox) []int {
	if len(boxes) == 0 {
		return []int{}
	}
	threshold := BandThreshold * medianHeight(boxes)

	type band struct {
		members []int
		meanTop float64
	}
	var bands []band
	used := make([]bool, len(boxes))
	for i := range boxes {
		if used[i] {
			continue
		}
		used[i] = true
		members := []int{i}
		mid := boxes[i].CenterY()
		for j := i + 1; j < len(boxes); j++ {
			if !used[j] && math.Abs(boxes[j].CenterY()-mid) < threshold {
				used[j] = true
				members = append(members, j)
			}
		}
		var sum float64
		for _, m := range members {
			sum += boxes[m].Top()
		}
		bands = append(bands, band{members: members, meanTop: sum / float64(len(members))})
	}

	slices.SortStableFunc(bands, func(a, b band) int { return cmp.Compare(a.meanTop, b.meanTop) })

	out := make([]int, 0, len(boxes))
	for _, b := range bands {
		slices.SortStableFunc(b.members, func(x, y int) int {
			return cmp.Compare(boxes[x].Left(), boxes[y].Left())
		})
		out = append(out, b.members...)
	}
	return out
}

// medianHeight averages the two middle heights of an even-sized set.
func medianHeight(boxes []zone.BBox) float64 {
	h := make([]float64, len(boxes))
	for i, b := range boxes {
		h[i] = b.Height
	}
	slices.Sort(h)
	n := len(h)
	if n%2 == 1 {
		return h[n/2]
	}
	return (h[n/2-1] + h[n/2]) / 2
}
