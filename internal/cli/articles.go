package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/pipeline"
)

type articlesOpts struct {
	input    inputFlags
	analysis analysisFlags
	json     bool
	trace    bool
}

// articlesOutput is the JSON form of the articles command.
type articlesOutput struct {
	Page        string               `json:"page"`
	Articles    []article.Article    `json:"articles"`
	Unclustered []string             `json:"unclustered"`
	Edges       []article.Edge       `json:"edges"`
	Trace       []article.TraceEntry `json:"trace,omitempty"`
}

// articlesCommand creates the articles command, which reconstructs the
// articles of one page.
func (c *CLI) articlesCommand() *cobra.Command {
	var opts articlesOpts

	cmd := &cobra.Command{
		Use:   "articles [file]",
		Short: "Reconstruct the articles of a page",
		Long: `Group the zones of a page into articles.

Every pair of zones is weighted by corner distance, horizontal alignment and
label bonuses. Each headline then grows an article by repeatedly absorbing
the zone behind the heaviest edge on its frontier. Reads standard input when
no file or "-" is given.`,
		Example: `  zonecut articles page.json
  zonecut articles --trace page.json
  zonecut articles --orphans singletons --json page.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runArticles(cmd, firstArg(args), &opts)
		},
	}

	opts.input.register(cmd.Flags())
	opts.analysis.register(cmd.Flags())
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "include the weight explanation of every zone pair")

	return cmd
}

func (c *CLI) runArticles(cmd *cobra.Command, path string, opts *articlesOpts) error {
	ctx := cmd.Context()
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

	res, g, trace := pipeline.Cluster(zones, popts)
	out := articlesOutput{
		Page:        p.ID,
		Articles:    res.Articles,
		Unclustered: res.Unclustered,
		Edges:       g.AllEdges(),
	}
	if out.Edges == nil {
		out.Edges = []article.Edge{}
	}
	if opts.trace {
		out.Trace = trace.Entries()
	}

	w := cmd.OutOrStdout()
	if opts.json {
		return writeJSON(w, out)
	}
	printArticles(w, out)
	return nil
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// printArticles renders the articles, the unclustered zones and, when
// present, the weight trace as tables.
func printArticles(w io.Writer, out articlesOutput) {
	rows := make([][]string, 0, len(out.Articles))
	for i, a := range out.Articles {
		rows = append(rows, []string{fmt.Sprint(i + 1), a.Seed, fmt.Sprint(len(a.Zones)), strings.Join(a.Zones, " ")})
	}
	fmt.Fprintln(w, newTable("#", "Seed", "Size", "Zones").Rows(rows...).Render())

	if len(out.Unclustered) > 0 {
		fmt.Fprintln(w, StyleWarning.Render("unclustered: ")+strings.Join(out.Unclustered, " "))
	}

	if len(out.Trace) == 0 {
		return
	}
	rows = rows[:0]
	for _, e := range out.Trace {
		rows = append(rows, []string{
			e.From, e.To, fmt.Sprintf("%.2f", e.Weight),
			e.Details["distance"], e.Details["alignment"], e.Details["type_match"],
		})
	}
	fmt.Fprintln(w, newTable("From", "To", "Weight", "Distance", "Alignment", "Labels").Rows(rows...).Render())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
