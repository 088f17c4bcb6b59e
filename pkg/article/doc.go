// Package article reconstructs newspaper articles from labeled page zones.
//
// # Graph
//
// [BuildGraph] scans zones from top to bottom and links every zone to the
// zones below it with a weight in the range [0, ∞):
//
//	w = max(0, 1 - d/DistanceScale) × alignment × label bonus
//
// where d is the distance of the top-left corners, the alignment bonus
// applies when both boxes overlap horizontally, and the label bonus comes
// from a table of (from, to, factor) rules (Headline → Text doubles the
// weight by default). Only positive weights become edges, so the graph is
// forward-only: no edge points from a lower zone to a higher one.
//
// The weight derivation of every pair is returned as a [Trace] instead of
// being stored on the zones, which stay immutable values.
//
// # Clustering
//
// [Cluster] seeds one article per headline, in input order, and grows it
// best-first: the heaviest edge leaving the article so far is followed next.
// A strong type or alignment bonus can therefore pull in a zone before a
// closer but weakly connected one. The frontier is a binary heap; equal
// weights pop in insertion order.
//
// Zones no headline reaches are reported in [Result.Unclustered], or become
// one-zone articles with [OrphansSingletons].
package article
