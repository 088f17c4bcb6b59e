// Package nodelink draws the spatial graph of a page as a node-link diagram.
//
// # Overview
//
// Every zone becomes a box and every weighted edge an arrow from the upper
// zone to the lower one. Each reconstructed article is drawn as a Graphviz
// cluster seeded by its headline; unclustered zones are grey and dashed.
// Edges that stay inside one article are solid, edges the traversal did not
// follow across articles are dotted.
//
// # Usage
//
//	res, g, _ := article.Reconstruct(zones, article.DefaultWeightConfig(), article.Options{})
//	dot := nodelink.ToDOT(zones, g.AllEdges(), res, nodelink.Options{Weights: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, convert the SVG with the render package:
//
//	pdf, err := render.ToPDF(ctx, svg)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
