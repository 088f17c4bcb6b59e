package cache

// ResultKeyOpts lists every option that changes an analysis result.
type ResultKeyOpts struct {
	Strategy       string   `json:"strategy"`
	MinValue       int      `json:"min_value"`
	MinGap         int      `json:"min_gap"`
	Resolution     float64  `json:"resolution"`
	DistanceScale  float64  `json:"distance_scale"`
	AlignmentBonus float64  `json:"alignment_bonus"`
	Bonuses        []string `json:"bonuses"`
	MaxDistance    float64  `json:"max_distance"`
	Orphans        string   `json:"orphans"`
	TextOnly       bool     `json:"text_only"`
	Strict         bool     `json:"strict"`
	IncludeTrace   bool     `json:"include_trace"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey identifies the analysis of a page (by content hash) under
	// the given options.
	ResultKey(pageHash string, opts ResultKeyOpts) string

	// PageKey identifies the pointer from a page ID to its most recent
	// result key.
	PageKey(pageID string) string
}

// DefaultKeyer produces unscoped keys of the form "result:<sha256>" and
// "page:<id>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey hashes the page hash together with the options.
func (DefaultKeyer) ResultKey(pageHash string, opts ResultKeyOpts) string {
	return hashKey("result", pageHash, opts)
}

// PageKey returns "page:<id>".
func (DefaultKeyer) PageKey(pageID string) string {
	return "page:" + pageID
}

// ScopedKeyer prefixes every key of an inner keyer, so that deployments
// sharing one backend keep separate namespaces:
//
//	staging := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey returns the prefixed result key.
func (k *ScopedKeyer) ResultKey(pageHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(pageHash, opts)
}

// PageKey returns the prefixed page key.
func (k *ScopedKeyer) PageKey(pageID string) string {
	return k.prefix + k.inner.PageKey(pageID)
}
