package article

import (
	"strings"

	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// OrphanPolicy decides what happens to zones no headline reaches.
type OrphanPolicy string

const (
	// OrphansBucket lists unreached zones in Result.Unclustered.
	OrphansBucket OrphanPolicy = "bucket"
	// OrphansSingletons turns every unreached zone into its own article.
	OrphansSingletons OrphanPolicy = "singletons"
)

// ParseOrphanPolicy accepts "bucket" or "singletons"; the empty string
// selects OrphansBucket.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch p := OrphanPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", OrphansBucket:
		return OrphansBucket, nil
	case OrphansSingletons:
		return OrphansSingletons, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown orphan policy %q (want bucket or singletons)", s)
	}
}

// Options configures [Cluster].
type Options struct {
	Orphans OrphanPolicy `json:"orphans,omitempty"`
}

// Article is one reconstructed story. Zones starts with Seed and lists the
// zones in the order they were absorbed.
type Article struct {
	Seed  string   `json:"seed" bson:"seed"`
	Zones []string `json:"zones" bson:"zones"`
}

// Result is the outcome of clustering a page.
type Result struct {
	Articles    []Article `json:"articles" bson:"articles"`
	Unclustered []string  `json:"unclustered" bson:"unclustered"`
}

// Index maps each clustered zone ID to the index of its article.
func (r Result) Index() map[string]int {
	m := make(map[string]int)
	for i, a := range r.Articles {
		for _, id := range a.Zones {
			m[id] = i
		}
	}
	return m
}

// Cluster groups zones into articles by best-first traversal of g.
//
// Headlines are taken in input order. Each unvisited headline seeds an
// article; the heaviest edge on the article's frontier is followed next,
// with ties going to the edge that entered the frontier first. A zone joins
// at most one article. Zones no headline reaches are handled according to
// opts.Orphans.
//
// g must have been built from the same zones.
func Cluster(zones []zone.Zone, g *Graph, opts Options) Result {
	res := Result{Articles: []Article{}, Unclustered: []string{}}
	visited := make(map[string]bool, len(zones))

	for _, h := range zones {
		if h.Label != zone.LabelHeadline || visited[h.ID] {
			continue
		}
		visited[h.ID] = true
		a := Article{Seed: h.ID, Zones: []string{h.ID}}

		var f frontier
		f.push(g.Edges(h.ID))
		for f.Len() > 0 {
			e := f.pop()
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			a.Zones = append(a.Zones, e.To)
			f.push(g.Edges(e.To))
		}
		res.Articles = append(res.Articles, a)
	}

	for _, z := range zones {
		if visited[z.ID] {
			continue
		}
		if opts.Orphans == OrphansSingletons {
			res.Articles = append(res.Articles, Article{Seed: z.ID, Zones: []string{z.ID}})
			continue
		}
		res.Unclustered = append(res.Unclustered, z.ID)
	}
	return res
}

// Reconstruct builds the graph of zones and clusters it in one step.
func Reconstruct(zones []zone.Zone, cfg WeightConfig, opts Options) (Result, *Graph, Trace) {
	g, trace := BuildGraph(zones, cfg)
	return Cluster(zones, g, opts), g, trace
}
