package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tensorcubes/pkg/pipeline"
	"github.com/matzehuels/tensorcubes/pkg/server"
)

// serveFlags holds flags for the serve command.
type serveFlags struct {
	addr     string
	redisURL string
	noCache  bool
	maxBoxes int
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Start an HTTP server exposing the layout engine as a JSON API.

Scenes are cached in the local cache directory, or in Redis when --redis-url
is given. The server stops gracefully on interrupt.`,
		Example: `  tensorcubes serve
  tensorcubes serve --addr :9000 --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "cache scenes in Redis at this URL")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&f.maxBoxes, "max-boxes", server.DefaultMaxBoxes, "largest layout a request may produce")
	cmd.MarkFlagsMutuallyExclusive("redis-url", "no-cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, f serveFlags) error {
	ctx := cmd.Context()

	var (
		runner *pipeline.Runner
		err    error
	)
	if f.redisURL != "" {
		runner, err = c.newRedisRunner(ctx, f.redisURL)
	} else {
		runner, err = c.newRunner(f.noCache)
	}
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger, server.WithMaxBoxes(f.maxBoxes))
	printInfo("Serving on http://%s", f.addr)
	printDetail("Press Ctrl+C to stop")
	return srv.Run(ctx, f.addr)
}
