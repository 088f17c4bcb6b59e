// Package render turns analysis results into pictures.
//
// The [nodelink] subpackage draws the spatial graph of a page with Graphviz,
// one cluster per reconstructed article. This package holds the format
// conversion shared by renderers: [ToPDF] and [ToPNG] convert SVG using the
// external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/zonecut/pkg/render/nodelink
package render
