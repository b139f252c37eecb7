package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlive/pkg/metrics"
	"github.com/matzehuels/graphlive/pkg/observability"
	"github.com/matzehuels/graphlive/pkg/scene"
	"github.com/matzehuels/graphlive/pkg/server"
	"github.com/matzehuels/graphlive/pkg/storage"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	algorithm string
	noCache   bool
	noStore   bool
}

// serveCommand creates the serve command for the HTTP editing API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [scene.json]",
		Short: "Serve an editor over HTTP",
		Long: `Serve an editor over HTTP.

The editor starts empty, or with the given scene. Mutations are applied
through the JSON API, graph changes are streamed on /events, and the
current drawing is available at /graph.svg. Saved scenes live in the
configured store (file or MongoDB) under /scenes. Prometheus metrics are
exposed on /metrics unless disabled in the config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: from config)")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", algorithmUsage())
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "disable the /scenes routes")

	return cmd
}

// runServe wires the editor, store and metrics into a server and runs it
// until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if opts.addr == "" {
		opts.addr = cfg.Server.Addr
	}

	var reg *metrics.Registry
	if cfg.Server.Metrics {
		// Hooks must be in place before the editor's first layout run.
		reg = metrics.DefaultRegistry()
		observability.SetLayoutHooks(reg)
		observability.SetCacheHooks(reg)
	}

	var sc *scene.Scene
	if input != "" {
		if sc, err = scene.ReadFile(input); err != nil {
			return fmt.Errorf("load scene %s: %w", input, err)
		}
	}

	sess, err := c.newSession(ctx, pickAlgorithm(opts.algorithm, sc), opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize editor: %w", err)
	}
	defer sess.Close()

	if sc != nil {
		if _, _, err := scene.Load(sess.ed, sc); err != nil {
			return fmt.Errorf("load scene %s: %w", input, err)
		}
	}

	srvOpts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithResolver(c.resolver(sess.cache)),
	}
	if reg != nil {
		srvOpts = append(srvOpts, server.WithMetrics(reg))
	}
	if !opts.noStore {
		st, err := cfg.Storage.OpenStore(ctx)
		if err != nil {
			return fmt.Errorf("open scene store: %w", err)
		}
		defer closeStore(c, st)
		srvOpts = append(srvOpts, server.WithStore(st))
	}

	srv := server.New(sess.ed, srvOpts...)
	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	return srv.Run(ctx, opts.addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}

func closeStore(c *CLI, st storage.Store) {
	if err := st.Close(); err != nil {
		c.Logger.Warn("close scene store", "err", err)
	}
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
