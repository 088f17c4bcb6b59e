package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zonecut/pkg/page"
	"github.com/matzehuels/zonecut/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	input       inputFlags
	analysis    analysisFlags
	output      string // output file (one page) or directory (several)
	json        bool   // print results as JSON on stdout
	trace       bool   // include weight explanations
	refresh     bool   // recompute even when cached
	noCache     bool   // disable the result cache
	interactive bool   // choose pages in a picker
}

// analyzeCommand creates the analyze command, which runs the complete
// pipeline over pages and manifests.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Compute reading order and articles of pages",
		Long: `Run the complete analysis over one or more pages.

Inputs may be single pages in any supported format or manifests grouping
the Label Studio annotations of whole publications. Pages are analyzed in
parallel; results are cached by page content and options, and persisted
when a store is configured.`,
		Example: `  zonecut analyze page.json
  zonecut analyze -o results/ manifest.json
  zonecut analyze -i --trace manifest.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args, &opts)
		},
	}

	opts.input.register(cmd.Flags())
	opts.analysis.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single page) or directory")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "include the weight explanation of every zone pair")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute results even when cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose the pages to analyze interactively")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, paths []string, opts *analyzeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts, err := opts.analysis.options(cmd, c.Config.Analysis)
	if err != nil {
		return err
	}
	popts.IncludeTrace = opts.trace
	popts.Refresh = opts.refresh
	popts.Logger = logger

	iopts, err := opts.input.importOptions(popts.Strict)
	if err != nil {
		return err
	}
	entries, err := readInputs(ctx, paths, iopts)
	if err != nil {
		return err
	}
	if opts.interactive && len(entries) > 1 {
		if entries, err = pickPages(entries); err != nil {
			return err
		}
		if len(entries) == 0 {
			printInfo("Nothing selected")
			return nil
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache, backendNone)
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("close runner", "err", err)
		}
	}()

	pages := make([]*page.Page, len(entries))
	for i, e := range entries {
		pages[i] = e.Page
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing %s...", plural(len(pages), "page")))
	popts.Progress = func(done, total int) {
		spinner.SetMessage(fmt.Sprintf("Analyzing pages (%d/%d)...", done, total))
	}
	spinner.Start()
	results, err := runner.AnalyzeBatch(ctx, pages, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %s", plural(len(results), "page")))

	switch {
	case opts.output != "":
		return writeResults(opts.output, results)
	case opts.json:
		if len(results) == 1 {
			return writeJSON(cmd.OutOrStdout(), results[0])
		}
		return writeJSON(cmd.OutOrStdout(), results)
	}

	for i, res := range results {
		name := res.Page
		if pub := entries[i].Publication; pub != "" {
			name = pub + "/" + name
		}
		printSuccess("%s %s", name, StyleDim.Render(res.RunID))
		printStats(res.Stats, res.CacheHit)
	}
	printNewline()
	printNextStep("Render the article graph", "zonecut render "+paths[0])
	return nil
}

// writeResults writes one result to a file, or every result to
// <dir>/<page>.json when several pages were analyzed or output is a
// directory.
func writeResults(output string, results []*pipeline.Result) error {
	info, err := os.Stat(output)
	isDir := err == nil && info.IsDir()
	if len(results) == 1 && !isDir && !strings.HasSuffix(output, string(filepath.Separator)) {
		return writeResultFile(output, results[0])
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, res := range results {
		if err := writeResultFile(filepath.Join(output, res.Page+".json"), res); err != nil {
			return err
		}
	}
	return nil
}

func writeResultFile(path string, res *pipeline.Result) error {
	var buf bytes.Buffer
	if err := writeJSON(&buf, res); err != nil {
		return fmt.Errorf("encode %s: %w", res.Page, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
