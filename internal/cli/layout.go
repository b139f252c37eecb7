package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// layoutOpts holds the flags of the layout command.
type layoutOpts struct {
	output    string
	algorithm string
	noCache   bool
	watch     bool
}

// layoutCommand creates the layout command for laying out scene files.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [scene.json]",
		Short: "Lay out a scene file",
		Long: `Lay out a scene file.

The scene is loaded into an editor in a single batch, so the layout algorithm
runs exactly once. The algorithm is taken from --algorithm, then from the
scene itself, then from the config file. The result is written as a scene
file (JSON, or YAML for .yaml/.yml outputs).

With --watch the command keeps running and lays the scene out again every
time the input file changes.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if opts.output == "" {
				opts.output = defaultOutput(input, ".layout")
			}
			if !opts.watch {
				return c.runLayout(cmd.Context(), input, opts)
			}
			return c.watchLayout(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", algorithmUsage())
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "lay out again whenever the input changes")

	return cmd
}

// runLayout loads the scene, runs the algorithm once and writes the result.
func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	sc, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	sess, err := c.newSession(ctx, pickAlgorithm(opts.algorithm, sc), opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize editor: %w", err)
	}
	defer sess.Close()

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinner(fmt.Sprintf("Computing %s layout", sess.ed.Algorithm().Name()))
	if err := spin.run(ctx, func() error { return layoutScene(sess, sc) }); err != nil {
		printError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := scene.Capture(sess.ed)
	out.ID, out.Name = sc.ID, sc.Name
	if err := scene.WriteFile(opts.output, out); err != nil {
		return fmt.Errorf("write output %s: %w", opts.output, err)
	}
	prog.done(fmt.Sprintf("Laid out %d nodes with %s", len(out.Nodes), out.Algorithm))

	printSuccess("Layout complete")
	printSceneFile(opts.output)
	printStats(statsOfEditor(sess.ed))
	printHint("Render", appName+" render "+opts.output)

	return nil
}

// watchLayout runs the layout once and again on every write to input,
// until ctx is done.
func (c *CLI) watchLayout(ctx context.Context, input string, opts layoutOpts) error {
	inAbs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	outAbs, err := filepath.Abs(opts.output)
	if err != nil {
		return err
	}
	if inAbs == outAbs {
		return errors.New(errors.ErrCodeInvalidArgument, "--watch needs an output different from the input")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace files instead of writing them.
	if err := watcher.Add(filepath.Dir(inAbs)); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	logger := loggerFromContext(ctx)
	relayout := func() {
		if err := c.runLayout(ctx, input, opts); err != nil {
			printError("%s", errors.UserMessage(err))
		}
	}
	relayout()
	printInfo("Watching %s (Ctrl+C to stop)", input)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != inAbs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("input changed", "op", ev.Op.String())
			timer = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer:
			timer = nil
			relayout()
		}
	}
}

// layoutScene loads sc into the session's editor with automatic layout on,
// so the batch closes with exactly one run.
func layoutScene(sess *session, sc *scene.Scene) error {
	if err := sess.ed.SetAutoLayout(true); err != nil {
		return err
	}
	_, _, err := scene.Load(sess.ed, sc)
	return err
}

// pickAlgorithm prefers the flag, then the scene's own algorithm. An empty
// result selects the configured default.
func pickAlgorithm(flag string, sc *scene.Scene) string {
	if flag != "" {
		return flag
	}
	if sc != nil {
		return sc.Algorithm
	}
	return ""
}

// defaultOutput derives an output path next to input, keeping its format.
func defaultOutput(input, suffix string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".json"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix + ext
}
