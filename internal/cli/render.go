package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlive/pkg/render"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output path, or base path when several formats are requested
	formats   []string // output formats: dot, svg, pdf, png
	algorithm string   // lay the scene out before drawing
	noCache   bool
	render    render.Options
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: []string{string(render.FormatSVG)}}

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Draw a scene as DOT, SVG, PDF or PNG",
		Long: `Draw a scene as DOT, SVG, PDF or PNG.

Nodes are drawn at their stored positions. Pass --algorithm to lay the scene
out first. PDF and PNG output need rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", opts.formats, "output formats: dot, svg, pdf, png")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "lay out with this algorithm before drawing")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.render.Labels, "labels", false, "print node indices")
	cmd.Flags().BoolVar(&opts.render.Splines, "splines", false, "route edges around nodes")

	return cmd
}

// runRender reads the scene, optionally lays it out, and writes one file
// per requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	formats := make([]render.Format, 0, len(opts.formats))
	for _, name := range opts.formats {
		f, err := render.ParseFormat(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	sc, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	if opts.algorithm != "" {
		sess, err := c.newSession(ctx, opts.algorithm, opts.noCache)
		if err != nil {
			return fmt.Errorf("initialize editor: %w", err)
		}
		defer sess.Close()
		if err := layoutScene(sess, sc); err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
		sc = scene.Capture(sess.ed)
	}

	prog := newProgress(loggerFromContext(ctx))
	paths := outputPaths(input, opts.output, formats)
	for i, f := range formats {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var data []byte
		err := newSpinner(fmt.Sprintf("Rendering %s", f)).run(ctx, func() (err error) {
			data, err = render.Render(sc, f, opts.render)
			return err
		})
		if err != nil {
			return fmt.Errorf("render %s: %w", f, err)
		}
		if err := os.WriteFile(paths[i], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[i], err)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d formats", len(formats)))

	printSuccess("Render complete")
	for i, p := range paths {
		printOutput(p, string(formats[i]))
	}
	printStats(statsOfScene(sc))
	return nil
}

// outputPaths names one file per format. A single format writes to output
// verbatim; several formats share its base name.
func outputPaths(input, output string, formats []render.Format) []string {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if len(formats) > 1 {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}

	paths := make([]string, len(formats))
	for i, f := range formats {
		if output != "" && len(formats) == 1 {
			paths[i] = output
			continue
		}
		paths[i] = base + "." + string(f)
	}
	return paths
}
