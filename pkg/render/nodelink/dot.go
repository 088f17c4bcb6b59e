package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/zone"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the label and the box to every node.
	// When false, only the zone ID is shown.
	Detailed bool

	// Weights prints the weight on every edge.
	Weights bool

	// Title is drawn above the diagram when set.
	Title string
}

// clusterColors cycles through article outlines.
var clusterColors = []string{"#1f77b4", "#d62728", "#2ca02c", "#9467bd", "#ff7f0e", "#17becf", "#8c564b", "#e377c2"}

// ToDOT converts zones, their graph edges and the clustering of a page to
// Graphviz DOT format. The result can be rendered with [RenderSVG].
func ToDOT(zones []zone.Zone, edges []article.Edge, res article.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	unclustered := make(map[string]bool, len(res.Unclustered))
	for _, id := range res.Unclustered {
		unclustered[id] = true
	}
	for _, z := range zones {
		attrs := fmtAttrs(z, fmtLabel(z, opts.Detailed), unclustered[z.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", z.ID, strings.Join(attrs, ", "))
	}

	for i, a := range res.Articles {
		color := clusterColors[i%len(clusterColors)]
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("article %d", i+1))
		fmt.Fprintf(&buf, "    style=rounded;\n    color=%q;\n    penwidth=2;\n", color)
		for _, id := range a.Zones {
			fmt.Fprintf(&buf, "    %q;\n", id)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	index := res.Index()
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e, index, opts.Weights), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(z zone.Zone, detailed bool) string {
	if !detailed {
		return z.ID
	}
	b := z.BBox
	return fmt.Sprintf("%s\n%s\n%.0f,%.0f %.0fx%.0f", z.ID, z.Label, b.X, b.Y, b.Width, b.Height)
}

func fmtAttrs(z zone.Zone, label string, unclustered bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case unclustered:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case z.Label == zone.LabelHeadline:
		attrs = append(attrs, "style=\"rounded,filled,bold\"", "penwidth=3")
	}
	return attrs
}

func edgeAttrs(e article.Edge, index map[string]int, weights bool) []string {
	attrs := []string{fmt.Sprintf("penwidth=%.2f", 1+e.Weight)}
	from, ok1 := index[e.From]
	to, ok2 := index[e.To]
	if !ok1 || !ok2 || from != to {
		attrs = append(attrs, "style=dotted", "color=grey")
	}
	if weights {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(e.Weight, 'f', 2, 64)))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// viewBox-only one so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
