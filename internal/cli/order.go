package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zonecut/pkg/pipeline"
)

type orderOpts struct {
	input    inputFlags
	analysis analysisFlags
	json     bool
}

// orderCommand creates the order command, which prints the reading order of
// one page.
func (c *CLI) orderCommand() *cobra.Command {
	var opts orderOpts

	cmd := &cobra.Command{
		Use:   "order [file]",
		Short: "Print the reading order of a page",
		Long: `Print the zone IDs of a page in reading order, one per line.

By default the order is computed with a recursive XY-cut: the page is cut
into horizontal bands at every empty run longer than --min-gap, each band
into columns the same way, and the columns are cut again. A region that no
longer splits into several columns is read by top, then left coordinate.
With --strategy bands, zones are grouped into lines by their vertical
centers instead and read left to right.

Reads standard input when no file or "-" is given.`,
		Example: `  zonecut order page.json
  zonecut order --from labelstudio --to-pixels page_annotations.json
  zonecut order --text-only --json page.yaml
  zonecut order --strategy bands --text-only page.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOrder(cmd, firstArg(args), &opts)
		},
	}

	opts.input.register(cmd.Flags())
	opts.analysis.register(cmd.Flags())
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of one ID per line")

	return cmd
}

func (c *CLI) runOrder(cmd *cobra.Command, path string, opts *orderOpts) error {
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

	order, err := pipeline.Order(zones, popts)
	if err != nil {
		return fmt.Errorf("page %s: %w", p.ID, err)
	}
	if opts.json {
		return writeJSON(cmd.OutOrStdout(), struct {
			Page  string   `json:"page"`
			Order []string `json:"order"`
		}{p.ID, order})
	}
	for _, id := range order {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
