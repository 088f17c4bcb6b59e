package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zonecut/pkg/server"
)

type serveOpts struct {
	analysis analysisFlags
	addr     string
	noCache  bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the analysis over HTTP.

Endpoints:
  POST /v1/order                 reading order of a page
  POST /v1/articles              articles of a page
  POST /v1/analyze               full analysis, cached and persisted
  GET  /v1/analyses/{runID}      a persisted analysis
  GET  /v1/pages/{pageID}/latest the newest analysis of a page
  GET  /healthz                  liveness

Analysis flags set the defaults requests may override. Analyses are kept in
memory unless the config file selects another store.`,
		Example: `  zonecut serve --addr :9090
  zonecut serve --config prod.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	opts.analysis.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	defaults, err := opts.analysis.options(cmd, c.Config.Analysis)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache, backendMemory)
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("close runner", "err", err)
		}
	}()

	cfg := c.Config.Server
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	srv := server.New(runner, defaults, cfg, logger.WithPrefix("http"))
	logger.Info("listening", "addr", srv.Addr())
	return srv.ListenAndServe(ctx)
}
