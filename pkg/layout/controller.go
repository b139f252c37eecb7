package layout

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/graph"
	"github.com/matzehuels/graphlive/pkg/observability"
)

// Sink is told once after every successful layout run.
type Sink interface {
	AttributesChanged()
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *log.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHooks sets per-instance layout hooks. Without it the controller
// reports to observability.Layout().
func WithHooks(h observability.LayoutHooks) ControllerOption {
	return func(c *Controller) { c.hooks = h }
}

// Controller decides when the layout algorithm runs.
//
// The state starts Invalid with a counter of zero. Invalidate runs the
// algorithm only when the counter is zero; Suspend and Resume move the
// counter. The zero value is not usable - use NewController.
type Controller struct {
	graph  *graph.Graph
	store  *attr.Store
	alg    Algorithm
	sinks  []*sinkEntry
	logger *log.Logger
	hooks  observability.LayoutHooks

	valid   bool
	depth   int
	runs    int
	running bool
}

type sinkEntry struct{ sink Sink }

// NewController creates a controller for g and s. A nil algorithm selects
// [None].
func NewController(g *graph.Graph, s *attr.Store, alg Algorithm, opts ...ControllerOption) *Controller {
	if alg == nil {
		alg = None{}
	}
	c := &Controller{
		graph:  g,
		store:  s,
		alg:    alg,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Valid reports whether the store is known to match the current topology.
func (c *Controller) Valid() bool { return c.valid }

// Suspended reports whether runs are currently deferred.
func (c *Controller) Suspended() bool { return c.depth > 0 }

// Depth returns the re-entrancy counter.
func (c *Controller) Depth() int { return c.depth }

// Runs returns how many times the algorithm has been invoked.
func (c *Controller) Runs() int { return c.runs }

// Algorithm returns the current algorithm.
func (c *Controller) Algorithm() Algorithm { return c.alg }

// AddSink registers s and returns a function that unregisters it.
func (c *Controller) AddSink(s Sink) (remove func()) {
	entry := &sinkEntry{sink: s}
	c.sinks = append(c.sinks, entry)
	return func() {
		c.sinks = slices.DeleteFunc(c.sinks, func(e *sinkEntry) bool { return e == entry })
	}
}

// Notify calls every sink once without running the algorithm.
func (c *Controller) Notify() {
	for _, e := range slices.Clone(c.sinks) {
		e.sink.AttributesChanged()
	}
}

// MarkInvalid flips the state to Invalid without scheduling a run.
func (c *Controller) MarkInvalid() { c.valid = false }

// Invalidate marks the state Invalid and, when the counter is zero, runs the
// algorithm over the whole graph. Every call at counter zero is a full run,
// even if nothing changed.
//
// Calls made from inside a run (by the algorithm or by a sink) only mark
// the state Invalid.
func (c *Controller) Invalidate() error {
	c.valid = false
	deferred := c.depth > 0 || c.running
	c.hooksOrGlobal().OnInvalidate(deferred)
	if deferred {
		return nil
	}
	return c.run()
}

// Suspend increments the counter.
func (c *Controller) Suspend() {
	c.depth++
}

// Resume decrements the counter and invalidates if the state is Invalid,
// so a batch of any size ends in at most one run. Returns an
// INVALID_ARGUMENT error without a matching Suspend.
func (c *Controller) Resume() error {
	if c.depth == 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "resume without matching suspend")
	}
	c.depth--
	if c.valid {
		return nil
	}
	return c.Invalidate()
}

// SetAlgorithm replaces the algorithm and invalidates. A nil algorithm
// selects [None].
func (c *Controller) SetAlgorithm(a Algorithm) error {
	if a == nil {
		a = None{}
	}
	c.alg = a
	return c.Invalidate()
}

func (c *Controller) run() error {
	name := c.alg.Name()
	nodes, edges := c.graph.NodeCount(), c.graph.EdgeCount()
	hooks := c.hooksOrGlobal()

	hooks.OnLayoutStart(name, nodes, edges)
	start := time.Now()
	c.runs++
	err := c.apply()
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(name, elapsed, err)

	if err != nil {
		c.logger.Warn("layout failed", "algorithm", name, "error", err)
		return err
	}
	c.logger.Debug("layout complete",
		"algorithm", name,
		"nodes", nodes,
		"edges", edges,
		"duration", elapsed)

	c.valid = true
	c.running = true
	defer func() { c.running = false }()
	c.Notify()
	return nil
}

// apply invokes the algorithm and turns errors, panics and topology
// changes into LAYOUT_FAILURE.
func (c *Controller) apply() (err error) {
	version := c.graph.Version()
	c.running = true
	defer func() {
		c.running = false
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeLayoutFailure, "%s layout panicked: %v", c.alg.Name(), r)
		}
	}()

	if err := c.alg.Apply(c.graph, c.store); err != nil {
		if errors.Is(err, errors.ErrCodeLayoutFailure) {
			return err
		}
		return errors.Wrap(errors.ErrCodeLayoutFailure, err, "%s layout", c.alg.Name())
	}
	if c.graph.Version() != version {
		return errors.New(errors.ErrCodeLayoutFailure, "%s layout changed the graph topology", c.alg.Name())
	}
	return nil
}

func (c *Controller) hooksOrGlobal() observability.LayoutHooks {
	if c.hooks != nil {
		return c.hooks
	}
	return observability.Layout()
}

// String summarizes the controller state for debugging.
func (c *Controller) String() string {
	state := "invalid"
	if c.valid {
		state = "valid"
	}
	return fmt.Sprintf("layout(%s, %s, depth=%d, runs=%d)", c.alg.Name(), state, c.depth, c.runs)
}
