package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlive/pkg/generate"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	output    string
	name      string
	algorithm string
	noCache   bool
	params    generate.Params
}

// generateCommand creates the generate command for random graphs.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:       "generate [family]",
		Short:     "Generate a random graph and write it as a scene",
		ValidArgs: generate.Families,
		Long: fmt.Sprintf(`Generate a random graph and write it as a scene.

Families: %s

The graph is built in one batch and laid out once with the selected
algorithm before it is written.`, strings.Join(generate.Families, ", ")),
		Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "graph.json", "output scene file")
	cmd.Flags().StringVar(&opts.name, "name", "", "scene name")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", algorithmUsage())
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().IntVarP(&opts.params.Nodes, "nodes", "n", 10, "number of nodes")
	cmd.Flags().IntVarP(&opts.params.Edges, "edges", "m", 15, "number of edges (random, simple, biconnected, hierarchy)")
	cmd.Flags().IntVar(&opts.params.MaxDegree, "max-degree", 3, "maximum children per node (tree)")
	cmd.Flags().IntVar(&opts.params.MaxWidth, "max-width", 0, "maximum nodes per depth, 0 for unbounded (tree)")
	cmd.Flags().Float64VarP(&opts.params.Probability, "probability", "p", 0.2, "edge probability (digraph) or split probability (triconnected)")
	cmd.Flags().Float64Var(&opts.params.Density, "density", 0.5, "share of extra neighbours moved by a split (triconnected)")
	cmd.Flags().BoolVar(&opts.params.SingleSource, "single-source", false, "one source node (hierarchy)")
	cmd.Flags().BoolVar(&opts.params.LongEdges, "long-edges", false, "allow edges that skip layers (hierarchy)")
	cmd.Flags().BoolVar(&opts.params.Planar, "planar", false, "no crossings between adjacent layers (hierarchy)")
	cmd.Flags().Uint64Var(&opts.params.Seed, "seed", 0, "random seed (0 picks one)")

	return cmd
}

// runGenerate builds the graph in an editor and writes the captured scene.
func (c *CLI) runGenerate(ctx context.Context, family string, opts generateOpts) error {
	gen, err := generate.New(family, opts.params)
	if err != nil {
		return err
	}

	sess, err := c.newSession(ctx, opts.algorithm, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize editor: %w", err)
	}
	defer sess.Close()

	prog := newProgress(loggerFromContext(ctx))
	if err := sess.ed.Generate(gen); err != nil {
		return fmt.Errorf("generate %s: %w", family, err)
	}
	if !sess.ed.LayoutValid() {
		// Automatic layout is off in the config; lay out once anyway.
		if err := layoutScene(sess, scene.Capture(sess.ed)); err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
	}

	sc := scene.Capture(sess.ed)
	sc.Name = opts.name
	if err := scene.WriteFile(opts.output, sc); err != nil {
		return fmt.Errorf("write output %s: %w", opts.output, err)
	}
	prog.done(fmt.Sprintf("Generated %s graph", gen.Name()))

	printSuccess("Generated %s graph", family)
	printSceneFile(opts.output)
	printStats(statsOfEditor(sess.ed))
	printHint("Render", appName+" render "+opts.output)
	return nil
}
