package article

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/zonecut/pkg/errors"
	"github.com/matzehuels/zonecut/pkg/zone"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func scenario() []zone.Zone {
	return []zone.Zone{
		zone.New("h", 0, 0, 100, 20, zone.LabelHeadline),
		zone.New("t", 0, 20, 100, 200, zone.LabelText),
		zone.New("p", 200, 0, 100, 100, zone.LabelPhotograph),
	}
}

func TestScenarioHeadlineTextPhotograph(t *testing.T) {
	zones := scenario()
	g, trace := BuildGraph(zones, DefaultWeightConfig())

	w, ok := g.Weight("h", "t")
	if !ok || !approx(w, 2.4) {
		t.Fatalf("weight(h, t) = %v, %v; want 2.4", w, ok)
	}
	if _, ok := g.Weight("h", "p"); ok {
		t.Error("unexpected edge h -> p")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}

	got := trace[Pair{From: "h", To: "t"}].Strings()
	want := map[string]string{"distance": "20.0px → 0.80", "alignment": "1.5x", "type_match": "2.0x"}
	if !maps.Equal(got, want) {
		t.Errorf("trace(h, t) = %v, want %v", got, want)
	}
	if e, ok := trace[Pair{From: "h", To: "p"}]; !ok || e.Weight != 0 {
		t.Errorf("trace(h, p) = %+v, %v; want zero-weight entry", e, ok)
	}

	res := Cluster(zones, g, Options{})
	if len(res.Articles) != 1 || !slices.Equal(res.Articles[0].Zones, []string{"h", "t"}) {
		t.Errorf("articles = %+v, want [[h t]]", res.Articles)
	}
	if !slices.Equal(res.Unclustered, []string{"p"}) {
		t.Errorf("unclustered = %v, want [p]", res.Unclustered)
	}
}

func TestOrphanSingletons(t *testing.T) {
	res, _, _ := Reconstruct(scenario(), DefaultWeightConfig(), Options{Orphans: OrphansSingletons})

	want := []Article{{Seed: "h", Zones: []string{"h", "t"}}, {Seed: "p", Zones: []string{"p"}}}
	if len(res.Articles) != len(want) {
		t.Fatalf("articles = %+v, want %+v", res.Articles, want)
	}
	for i := range want {
		if res.Articles[i].Seed != want[i].Seed || !slices.Equal(res.Articles[i].Zones, want[i].Zones) {
			t.Errorf("article %d = %+v, want %+v", i, res.Articles[i], want[i])
		}
	}
	if len(res.Unclustered) != 0 {
		t.Errorf("unclustered = %v, want empty", res.Unclustered)
	}
}

func TestEmptyInput(t *testing.T) {
	g, trace := BuildGraph(nil, WeightConfig{})
	if g.Len() != 0 || g.EdgeCount() != 0 || len(trace) != 0 {
		t.Errorf("graph of nothing: nodes=%d edges=%d trace=%d", g.Len(), g.EdgeCount(), len(trace))
	}
	res := Cluster(nil, g, Options{})
	if res.Articles == nil || len(res.Articles) != 0 || len(res.Unclustered) != 0 {
		t.Errorf("Cluster(nil) = %+v", res)
	}
}

func TestForwardOnlyEdges(t *testing.T) {
	zones := []zone.Zone{
		zone.New("c", 0, 60, 100, 20, zone.LabelText),
		zone.New("a", 0, 0, 100, 20, zone.LabelText),
		zone.New("b", 10, 30, 100, 20, zone.LabelText),
	}
	g, _ := BuildGraph(zones, DefaultWeightConfig())

	if got, want := g.Nodes(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("Nodes = %v, want %v", got, want)
	}
	pos := map[string]int{"a": 0, "b": 1, "c": 2}
	for _, e := range g.AllEdges() {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("backward edge %s -> %s", e.From, e.To)
		}
		if e.Weight <= 0 {
			t.Errorf("non-positive edge %+v", e)
		}
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount = %d, want 3", g.EdgeCount())
	}
}

func TestTypeMatchBonusIsStrictlyLarger(t *testing.T) {
	cfg := DefaultWeightConfig()
	h := zone.New("h", 0, 0, 100, 20, zone.LabelHeadline)
	text := zone.New("x", 0, 25, 100, 50, zone.LabelText)
	photo := zone.New("x", 0, 25, 100, 50, zone.LabelPhotograph)

	wt, _ := cfg.Weigh(h, text)
	wp, _ := cfg.Weigh(h, photo)
	if !(wt > wp) || !(wp > 0) {
		t.Errorf("headline->text %v must exceed headline->photograph %v > 0", wt, wp)
	}
}

func TestWeighComponents(t *testing.T) {
	tests := []struct {
		name string
		cfg  WeightConfig
		a, b zone.Zone
		want float64
	}{
		{
			name: "distance only",
			cfg:  DefaultWeightConfig(),
			a:    zone.New("a", 0, 0, 10, 10, zone.LabelText),
			b:    zone.New("b", 30, 40, 10, 10, zone.LabelText),
			want: 0.5,
		},
		{
			name: "beyond distance scale",
			cfg:  DefaultWeightConfig(),
			a:    zone.New("a", 0, 0, 10, 10, zone.LabelHeadline),
			b:    zone.New("b", 0, 100, 10, 10, zone.LabelText),
			want: 0,
		},
		{
			name: "custom scale",
			cfg:  WeightConfig{DistanceScale: 200, AlignmentBonus: 1.5, LabelBonuses: []LabelBonus{}},
			a:    zone.New("a", 0, 0, 10, 10, zone.LabelHeadline),
			b:    zone.New("b", 0, 100, 10, 10, zone.LabelText),
			want: 0.75,
		},
		{
			name: "custom label rule",
			cfg: WeightConfig{DistanceScale: 100, AlignmentBonus: 1, LabelBonuses: []LabelBonus{
				{From: zone.LabelPhotograph, To: zone.LabelCaption, Factor: 3},
			}},
			a:    zone.New("a", 0, 0, 10, 10, zone.LabelPhotograph),
			b:    zone.New("b", 0, 50, 10, 10, zone.LabelCaption),
			want: 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, e := tt.cfg.Weigh(tt.a, tt.b)
			if !approx(got, tt.want) || !approx(e.Weight, tt.want) {
				t.Errorf("Weigh = %v (explanation %v), want %v", got, e.Weight, tt.want)
			}
		})
	}
}

func TestBestFirstPrefersStrongEdge(t *testing.T) {
	zones := []zone.Zone{
		zone.New("h", 0, 0, 100, 10, zone.LabelHeadline),
		zone.New("photo", 50, 5, 10, 10, zone.LabelPhotograph),
		zone.New("body", 0, 30, 100, 10, zone.LabelText),
	}
	res, _, _ := Reconstruct(zones, DefaultWeightConfig(), Options{})

	if len(res.Articles) != 1 {
		t.Fatalf("articles = %+v", res.Articles)
	}
	if got, want := res.Articles[0].Zones, []string{"h", "body", "photo"}; !slices.Equal(got, want) {
		t.Errorf("zones = %v, want %v", got, want)
	}
}

func TestEqualWeightsPopInInsertionOrder(t *testing.T) {
	zones := []zone.Zone{
		zone.New("h", 0, 0, 100, 10, zone.LabelHeadline),
		zone.New("first", 0, 50, 100, 10, zone.LabelText),
		zone.New("second", 0, 50, 100, 10, zone.LabelText),
	}
	res, _, _ := Reconstruct(zones, DefaultWeightConfig(), Options{})

	if got, want := res.Articles[0].Zones, []string{"h", "first", "second"}; !slices.Equal(got, want) {
		t.Errorf("zones = %v, want %v", got, want)
	}
}

func TestHeadlinesSeedInInputOrder(t *testing.T) {
	h1 := zone.New("h1", 0, 0, 100, 10, zone.LabelHeadline)
	body := zone.New("t", 0, 20, 100, 10, zone.LabelText)
	h2 := zone.New("h2", 0, 30, 100, 10, zone.LabelHeadline)

	t.Run("upper headline first absorbs the lower one", func(t *testing.T) {
		res, _, _ := Reconstruct([]zone.Zone{h1, h2, body}, DefaultWeightConfig(), Options{})
		if len(res.Articles) != 1 || !slices.Equal(res.Articles[0].Zones, []string{"h1", "t", "h2"}) {
			t.Errorf("articles = %+v", res.Articles)
		}
	})

	t.Run("lower headline first keeps its own article", func(t *testing.T) {
		res, _, _ := Reconstruct([]zone.Zone{h2, h1, body}, DefaultWeightConfig(), Options{})
		if len(res.Articles) != 2 {
			t.Fatalf("articles = %+v", res.Articles)
		}
		if !slices.Equal(res.Articles[0].Zones, []string{"h2"}) || !slices.Equal(res.Articles[1].Zones, []string{"h1", "t"}) {
			t.Errorf("articles = %+v", res.Articles)
		}
	})
}

func TestNoHeadlines(t *testing.T) {
	zones := []zone.Zone{
		zone.New("a", 0, 0, 100, 10, zone.LabelText),
		zone.New("b", 0, 20, 100, 10, zone.LabelText),
	}
	res, _, _ := Reconstruct(zones, DefaultWeightConfig(), Options{})
	if len(res.Articles) != 0 || !slices.Equal(res.Unclustered, []string{"a", "b"}) {
		t.Errorf("result = %+v", res)
	}
}

func TestMaxDistanceAndVerticalCutoff(t *testing.T) {
	zones := scenario()

	g, trace := BuildGraph(zones, WeightConfig{MaxDistance: 10})
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0 with MaxDistance 10", g.EdgeCount())
	}
	if _, ok := trace[Pair{From: "h", To: "t"}]; ok {
		t.Error("pair beyond MaxDistance must not be traced")
	}

	far := []zone.Zone{
		zone.New("top", 0, 0, 10, 10, zone.LabelHeadline),
		zone.New("bottom", 0, 150, 10, 10, zone.LabelText),
	}
	_, trace = BuildGraph(far, WeightConfig{})
	if len(trace) != 0 {
		t.Errorf("trace = %v, want empty beyond the distance scale", trace)
	}

	// Side by side but far apart: weighed, traced, no edge.
	wide := []zone.Zone{
		zone.New("left", 0, 0, 10, 10, zone.LabelHeadline),
		zone.New("right", 200, 5, 10, 10, zone.LabelText),
	}
	g, trace = BuildGraph(wide, WeightConfig{})
	e, ok := trace[Pair{From: "left", To: "right"}]
	if !ok {
		t.Fatal("zero-weight pair within the vertical window must be traced")
	}
	if e.Weight != 0 || g.EdgeCount() != 0 {
		t.Errorf("weight = %g, edges = %d, want 0 and 0", e.Weight, g.EdgeCount())
	}
}

// reachable returns every zone reachable from any headline.
func reachable(zones []zone.Zone, g *Graph) map[string]bool {
	seen := make(map[string]bool)
	var stack []string
	for _, z := range zones {
		if z.Label == zone.LabelHeadline {
			stack = append(stack, z.ID)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, e := range g.Edges(id) {
			stack = append(stack, e.To)
		}
	}
	return seen
}

func TestClusteringCompleteness(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	labels := []zone.Label{zone.LabelHeadline, zone.LabelText, zone.LabelText, zone.LabelPhotograph, zone.LabelCaption}

	for trial := 0; trial < 100; trial++ {
		n := r.IntN(30)
		zones := make([]zone.Zone, n)
		for i := range zones {
			zones[i] = zone.New(
				string(rune('a'+i%26))+string(rune('0'+i/26)),
				float64(r.IntN(300)), float64(r.IntN(400)),
				float64(10+r.IntN(150)), float64(5+r.IntN(60)),
				labels[r.IntN(len(labels))],
			)
		}
		g, _ := BuildGraph(zones, DefaultWeightConfig())
		res := Cluster(zones, g, Options{})

		seen := make(map[string]int)
		for _, a := range res.Articles {
			if len(a.Zones) == 0 || a.Zones[0] != a.Seed {
				t.Fatalf("trial %d: article %+v does not start with its seed", trial, a)
			}
			for _, id := range a.Zones {
				seen[id]++
			}
		}
		for _, id := range res.Unclustered {
			seen[id]++
		}
		for _, z := range zones {
			if seen[z.ID] != 1 {
				t.Fatalf("trial %d: zone %s appears %d times", trial, z.ID, seen[z.ID])
			}
		}

		idx := res.Index()
		for id := range reachable(zones, g) {
			if _, ok := idx[id]; !ok {
				t.Fatalf("trial %d: reachable zone %s left unclustered", trial, id)
			}
		}
	}
}

func TestWeightConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     WeightConfig
		wantErr bool
	}{
		{"defaults", DefaultWeightConfig(), false},
		{"zero scale", WeightConfig{AlignmentBonus: 1}, true},
		{"negative max distance", WeightConfig{DistanceScale: 1, AlignmentBonus: 1, MaxDistance: -1}, true},
		{"zero bonus factor", WeightConfig{DistanceScale: 1, AlignmentBonus: 1, LabelBonuses: []LabelBonus{{Factor: 0}}}, true},
		{"nan scale", WeightConfig{DistanceScale: math.NaN(), AlignmentBonus: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestParseOrphanPolicy(t *testing.T) {
	for in, want := range map[string]OrphanPolicy{"": OrphansBucket, "Bucket": OrphansBucket, " singletons ": OrphansSingletons} {
		if got, err := ParseOrphanPolicy(in); err != nil || got != want {
			t.Errorf("ParseOrphanPolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseOrphanPolicy("drop"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ParseOrphanPolicy(drop) = %v", err)
	}
}

func TestTraceEntriesSorted(t *testing.T) {
	_, trace := BuildGraph(scenario(), DefaultWeightConfig())
	entries := trace.Entries()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.From > cur.From || (prev.From == cur.From && prev.To >= cur.To) {
			t.Errorf("entries not sorted at %d: %+v then %+v", i, prev, cur)
		}
	}
}
