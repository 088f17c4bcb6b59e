package article

import (
	"cmp"
	"slices"

	"github.com/matzehuels/zonecut/pkg/zone"
)

// Edge is a directed, positively weighted link between two zones.
type Edge struct {
	From   string  `json:"from" bson:"from"`
	To     string  `json:"to" bson:"to"`
	Weight float64 `json:"weight" bson:"weight"`
}

// Graph is the forward-only spatial graph of a page. Nodes are kept in scan
// order (top coordinate ascending, input order on ties) and every edge
// points from an earlier node to a later one.
type Graph struct {
	order []string
	adj   map[string][]Edge
	edges int
}

// Nodes returns the zone IDs in scan order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Edges returns the outgoing edges of id in insertion order. The returned
// slice must not be modified.
func (g *Graph) Edges(id string) []Edge { return g.adj[id] }

// Weight returns the weight of the edge from -> to, if present.
func (g *Graph) Weight(from, to string) (float64, bool) {
	for _, e := range g.adj[from] {
		if e.To == to {
			return e.Weight, true
		}
	}
	return 0, false
}

// AllEdges returns every edge, grouped by source in scan order.
func (g *Graph) AllEdges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, id := range g.order {
		out = append(out, g.adj[id]...)
	}
	return out
}

// BuildGraph computes the weighted forward-only graph of zones.
//
// Zones are scanned in order of their top coordinate (stable, so equal tops
// keep input order) and every pair (earlier, later) is weighed with
// [WeightConfig.Weigh]. Pairs with a weight of zero or less produce no edge.
// Because the distance factor vanishes once the vertical offset alone
// reaches DistanceScale, the scan for an earlier zone stops there. The
// returned trace explains every pair that was weighed, zero weights
// included; pairs cut off vertically or by MaxDistance are not traced.
//
// Zero-valued fields of cfg are replaced by their defaults.
func BuildGraph(zones []zone.Zone, cfg WeightConfig) (*Graph, Trace) {
	cfg.SetDefaults()

	sorted := slices.Clone(zones)
	slices.SortStableFunc(sorted, func(a, b zone.Zone) int {
		return cmp.Compare(a.BBox.Top(), b.BBox.Top())
	})

	g := &Graph{
		order: zone.IDs(sorted),
		adj:   make(map[string][]Edge, len(sorted)),
	}
	trace := make(Trace)

	for i, a := range sorted {
		for _, b := range sorted[i+1:] {
			if b.BBox.Top()-a.BBox.Top() >= cfg.DistanceScale {
				break
			}
			if cfg.MaxDistance > 0 && a.BBox.CornerDistance(b.BBox) > cfg.MaxDistance {
				continue
			}
			w, e := cfg.Weigh(a, b)
			trace[Pair{From: a.ID, To: b.ID}] = e
			if w <= 0 {
				continue
			}
			g.adj[a.ID] = append(g.adj[a.ID], Edge{From: a.ID, To: b.ID, Weight: w})
			g.edges++
		}
	}
	return g, trace
}
