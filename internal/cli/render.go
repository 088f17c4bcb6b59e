package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/pipeline"
	"github.com/matzehuels/zonecut/pkg/render"
	"github.com/matzehuels/zonecut/pkg/render/nodelink"
	"github.com/matzehuels/zonecut/pkg/zone"
)

const formatDOT = "dot"

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, render.FormatSVG: true, render.FormatPDF: true, render.FormatPNG: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input    inputFlags
	analysis analysisFlags
	output   string // output file path
	format   string // dot, svg, pdf or png
	detailed bool   // show label and box on every node
	weights  bool   // print edge weights
	title    string // diagram title
}

// renderCommand creates the render command for drawing the article graph.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the article graph of a page",
		Long: `Draw the weighted spatial graph of a page with one box per article.

Zones no article reached are drawn dashed; edges between articles are
dotted. The format follows --format, then the extension of --output, and
defaults to SVG. PDF and PNG output require rsvg-convert.`,
		Example: `  zonecut render page.json
  zonecut render --detailed --weights -o page.pdf page.json
  zonecut render --format dot page.json | dot -Tpng > page.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			opts.format = format
			return c.runRender(cmd, firstArg(args), &opts)
		},
	}

	opts.input.register(cmd.Flags())
	opts.analysis.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format extension, stdout for stdin)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: svg (default), dot, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show label and bounding box on every node")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "print the weight on every edge")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title (default: page ID)")

	return cmd
}

// resolveFormat picks the output format from the flag, then the output
// extension.
func resolveFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if !validFormats[format] {
			format = render.FormatSVG
		}
	}
	format = strings.ToLower(format)
	if !validFormats[format] {
		return "", fmt.Errorf("invalid format: %s (must be 'svg', 'dot', 'pdf', or 'png')", format)
	}
	return format, nil
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts, err := opts.analysis.options(cmd, c.Config.Analysis)
	if err != nil {
		return err
	}
	iopts, err := opts.input.importOptions(popts.Strict)
	if err != nil {
		return err
	}
	p, err := readPage(ctx, path, iopts)
	if err != nil {
		return err
	}
	zones, dropped, err := pipeline.Prepare(p.Zones, popts.Strict)
	if err != nil {
		return fmt.Errorf("page %s: %w", p.ID, err)
	}
	warnDropped(ctx, p.ID, dropped)

	res, g, _ := pipeline.Cluster(zones, popts)
	logger.Infof("Clustered %s: %d zones, %d edges, %d articles", p.ID, len(zones), g.EdgeCount(), len(res.Articles))

	title := opts.title
	if title == "" {
		title = p.ID
	}
	data, err := renderGraph(ctx, zones, g.AllEdges(), res, opts.format, nodelink.Options{
		Detailed: opts.detailed,
		Weights:  opts.weights,
		Title:    title,
	})
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		if path == "" || path == stdinPath {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + opts.format
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printSuccess("Rendered %s", p.ID)
	printFile(out)
	return nil
}

// renderGraph produces the diagram in the requested format.
func renderGraph(ctx context.Context, zones []zone.Zone, edges []article.Edge, res article.Result, format string, opts nodelink.Options) ([]byte, error) {
	dot := nodelink.ToDOT(zones, edges, res, opts)
	if format == formatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, format)
}
