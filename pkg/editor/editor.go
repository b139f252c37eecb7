package editor

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/generate"
	"github.com/matzehuels/graphlive/pkg/graph"
	"github.com/matzehuels/graphlive/pkg/layout"
	"github.com/matzehuels/graphlive/pkg/observability"
	"github.com/matzehuels/graphlive/pkg/view"
)

// InvalidIndex is returned in place of an index when an operation fails.
const InvalidIndex = -1

// Option configures an Editor.
type Option func(*Editor)

// WithAlgorithm sets the initial layout algorithm. The default is
// layout.None.
func WithAlgorithm(a layout.Algorithm) Option {
	return func(e *Editor) { e.initialAlg = a }
}

// WithLogger sets the logger for diagnostics and layout runs.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDiagnostics replaces the diagnostic channel. fn receives every error
// a public method returns.
func WithDiagnostics(fn func(error)) Option {
	return func(e *Editor) { e.diag = fn }
}

// WithHooks sets per-editor layout hooks.
func WithHooks(h observability.LayoutHooks) Option {
	return func(e *Editor) { e.hooks = h }
}

// Editor composes graph, attribute store, layout controller and views.
// It is not safe for concurrent use.
type Editor struct {
	graph *graph.Graph
	store *attr.Store
	ctrl  *layout.Controller
	nodes *view.Nodes
	edges *view.Edges
	auto  bool
	// held counts open Suspend calls, apart from the suspension held while
	// automatic layout is off.
	held int

	logger     *log.Logger
	diag       func(error)
	hooks      observability.LayoutHooks
	initialAlg layout.Algorithm
}

// New creates an empty editor with automatic layout on.
func New(opts ...Option) *Editor {
	e := &Editor{
		auto:   true,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.diag == nil {
		e.diag = func(err error) {
			e.logger.Warn(errors.UserMessage(err), "code", errors.GetCode(err))
		}
	}

	e.graph = graph.New()
	e.store = attr.NewStore(e.graph)
	ctrlOpts := []layout.ControllerOption{layout.WithLogger(e.logger)}
	if e.hooks != nil {
		ctrlOpts = append(ctrlOpts, layout.WithHooks(e.hooks))
	}
	e.ctrl = layout.NewController(e.graph, e.store, e.initialAlg, ctrlOpts...)
	e.nodes = view.NewNodes(e.graph, e.store)
	e.edges = view.NewEdges(e.graph, e.store)
	e.ctrl.AddSink(e.nodes)
	e.ctrl.AddSink(e.edges)
	return e
}

// report forwards a non-nil error to the diagnostic channel and returns it.
func (e *Editor) report(err error) error {
	if err != nil {
		e.diag(err)
	}
	return err
}

func (e *Editor) invalidate() error {
	return e.report(e.ctrl.Invalidate())
}

func (e *Editor) node(idx int) (*graph.Node, error) {
	n, ok := e.graph.Node(idx)
	if !ok {
		return nil, e.report(errors.New(errors.ErrCodeNotFound, "no node with index %d", idx))
	}
	return n, nil
}

func (e *Editor) edge(idx int) (*graph.Edge, error) {
	ed, ok := e.graph.Edge(idx)
	if !ok {
		return nil, e.report(errors.New(errors.ErrCodeNotFound, "no edge with index %d", idx))
	}
	return ed, nil
}

// =============================================================================
// Mutations
// =============================================================================

// AddNode creates a node and returns its index. A nil record gives zero
// geometry and a rectangle. A record with non-finite coordinates or
// negative sizes is rejected with INVALID_ARGUMENT.
//
// A LAYOUT_FAILURE from the triggered run is returned together with the
// new, valid index.
func (e *Editor) AddNode(rec *attr.Node) (int, error) {
	if rec != nil && !rec.Valid() {
		return InvalidIndex, e.report(errors.New(errors.ErrCodeInvalidArgument, "node geometry must be finite with non-negative size"))
	}
	n := e.graph.AddNode()
	if rec != nil {
		e.store.SetNode(n, *rec)
	}
	return n.Index(), e.invalidate()
}

// RemoveNode deletes node idx and its incident edges.
func (e *Editor) RemoveNode(idx int) error {
	n, err := e.node(idx)
	if err != nil {
		return err
	}
	if err := e.graph.RemoveNode(n); err != nil {
		return e.report(err)
	}
	return e.invalidate()
}

// AddEdge creates an edge from source to target. If either index does not
// name a live node it returns InvalidIndex and INVALID_ENDPOINT and leaves
// the graph unchanged.
func (e *Editor) AddEdge(source, target int) (int, error) {
	s, okS := e.graph.Node(source)
	t, okT := e.graph.Node(target)
	if !okS || !okT {
		return InvalidIndex, e.report(errors.New(errors.ErrCodeInvalidEndpoint,
			"edge %d -> %d: one node index does not exist", source, target))
	}
	ed, err := e.graph.AddEdge(s, t)
	if err != nil {
		return InvalidIndex, e.report(err)
	}
	return ed.Index(), e.invalidate()
}

// RemoveEdge deletes edge idx.
func (e *Editor) RemoveEdge(idx int) error {
	ed, err := e.edge(idx)
	if err != nil {
		return err
	}
	if err := e.graph.RemoveEdge(ed); err != nil {
		return e.report(err)
	}
	return e.invalidate()
}

// ModifyNode replaces the record of node idx with the setter's result and
// invalidates, even when the record did not change.
func (e *Editor) ModifyNode(idx int, set attr.Setter) error {
	n, err := e.node(idx)
	if err != nil {
		return err
	}
	rec, err := set.Resolve(e.store.Node(n))
	if err != nil {
		return e.report(err)
	}
	if !rec.Valid() {
		return e.report(errors.New(errors.ErrCodeInvalidArgument, "node %d: geometry must be finite with non-negative size", idx))
	}
	// An update function may have removed the node.
	if !e.store.SetNode(n, rec) {
		return e.report(errors.New(errors.ErrCodeNotFound, "node %d was removed during update", idx))
	}
	return e.invalidate()
}

// PatchNode changes only the fields set in p.
func (e *Editor) PatchNode(idx int, p attr.Patch) error {
	n, err := e.node(idx)
	if err != nil {
		return err
	}
	if !p.Apply(e.store.Node(n)).Valid() {
		return e.report(errors.New(errors.ErrCodeInvalidArgument, "node %d: geometry must be finite with non-negative size", idx))
	}
	e.store.PatchNode(n, p)
	return e.invalidate()
}

// Clear removes every node and edge. The layout becomes invalid and both
// views fire once, but no layout runs. While layout is suspended the
// signal is left to the run at the end of the suspension.
func (e *Editor) Clear() {
	e.graph.Clear()
	e.ctrl.MarkInvalid()
	if !e.ctrl.Suspended() {
		e.ctrl.Notify()
	}
}

// Generate replaces the graph with the generator's output and invalidates
// once.
func (e *Editor) Generate(gen generate.Generator) error {
	if gen == nil {
		return e.report(errors.New(errors.ErrCodeInvalidArgument, "nil generator"))
	}
	if err := gen.Generate(e.graph); err != nil {
		return e.report(err)
	}
	e.logger.Debug("generated graph",
		"family", gen.Name(),
		"nodes", e.graph.NodeCount(),
		"edges", e.graph.EdgeCount())
	return e.invalidate()
}

// =============================================================================
// Iteration and batching
// =============================================================================

// EachNode calls fn with the index of every live node inside one batch.
// fn may mutate the editor; nodes removed before their turn are skipped
// and nodes added during the traversal are not visited.
func (e *Editor) EachNode(fn func(idx int)) error {
	if fn == nil {
		return e.report(errors.New(errors.ErrCodeInvalidArgument, "expected a visitor function"))
	}
	return e.Batch(func() error {
		for _, idx := range e.graph.NodeIndices() {
			if _, ok := e.graph.Node(idx); ok {
				fn(idx)
			}
		}
		return nil
	})
}

// EachEdge calls fn with the index of every live edge inside one batch,
// with the same snapshot rules as EachNode.
func (e *Editor) EachEdge(fn func(idx int)) error {
	if fn == nil {
		return e.report(errors.New(errors.ErrCodeInvalidArgument, "expected a visitor function"))
	}
	return e.Batch(func() error {
		for _, idx := range e.graph.EdgeIndices() {
			if _, ok := e.graph.Edge(idx); ok {
				fn(idx)
			}
		}
		return nil
	})
}

// Batch runs fn with layout suspended and resumes afterwards, so fn's
// mutations cost at most one run. fn's error is returned unless resuming
// fails with a layout failure, which takes precedence.
func (e *Editor) Batch(fn func() error) error {
	e.ctrl.Suspend()
	done := false
	defer func() {
		if !done {
			// fn panicked; keep the counter balanced on the way out.
			_ = e.ctrl.Resume()
		}
	}()
	fnErr := fn()
	done = true
	if err := e.ctrl.Resume(); err != nil {
		return e.report(err)
	}
	return fnErr
}

// Suspend defers layout runs until the matching Resume.
func (e *Editor) Suspend() {
	e.held++
	e.ctrl.Suspend()
}

// Resume ends a Suspend. If anything changed meanwhile and no other
// suspension is open, the layout runs once. A Resume without a matching
// Suspend is INVALID_ARGUMENT; it never ends the suspension held by
// SetAutoLayout(false).
func (e *Editor) Resume() error {
	if e.held == 0 {
		return e.report(errors.New(errors.ErrCodeInvalidArgument, "resume without matching suspend"))
	}
	e.held--
	return e.report(e.ctrl.Resume())
}

// SetAutoLayout turns automatic layout on or off. Turning it off is one
// extra Suspend; turning it on is the matching Resume. Setting the current
// value does nothing.
func (e *Editor) SetAutoLayout(on bool) error {
	if on == e.auto {
		return nil
	}
	e.auto = on
	if !on {
		e.ctrl.Suspend()
		return nil
	}
	return e.report(e.ctrl.Resume())
}

// AutoLayout reports whether automatic layout is on.
func (e *Editor) AutoLayout() bool { return e.auto }

// SetAlgorithm replaces the layout algorithm and invalidates.
func (e *Editor) SetAlgorithm(a layout.Algorithm) error {
	return e.report(e.ctrl.SetAlgorithm(a))
}

// Relayout forces a layout run if no suspension is open.
func (e *Editor) Relayout() error { return e.invalidate() }

// =============================================================================
// Queries
// =============================================================================

// Algorithm returns the current layout algorithm.
func (e *Editor) Algorithm() layout.Algorithm { return e.ctrl.Algorithm() }

// LayoutValid reports whether the stored geometry matches the topology.
func (e *Editor) LayoutValid() bool { return e.ctrl.Valid() }

// LayoutRuns returns how many times the layout algorithm has run.
func (e *Editor) LayoutRuns() int { return e.ctrl.Runs() }

// NodeAttributes returns the record of node idx.
func (e *Editor) NodeAttributes(idx int) (attr.Node, error) {
	n, err := e.node(idx)
	if err != nil {
		return attr.Node{}, err
	}
	return e.store.Node(n), nil
}

// EdgeAttributes returns the record of edge idx.
func (e *Editor) EdgeAttributes(idx int) (attr.Edge, error) {
	ed, err := e.edge(idx)
	if err != nil {
		return attr.Edge{}, err
	}
	return e.store.Edge(ed), nil
}

// EdgeEndpoints returns the source and target indices of edge idx.
func (e *Editor) EdgeEndpoints(idx int) (source, target int, err error) {
	ed, err := e.edge(idx)
	if err != nil {
		return InvalidIndex, InvalidIndex, err
	}
	return ed.Source().Index(), ed.Target().Index(), nil
}

// NodeCount returns the number of live nodes.
func (e *Editor) NodeCount() int { return e.graph.NodeCount() }

// EdgeCount returns the number of live edges.
func (e *Editor) EdgeCount() int { return e.graph.EdgeCount() }

// NodeIndices returns live node indices in ascending order.
func (e *Editor) NodeIndices() []int { return e.graph.NodeIndices() }

// EdgeIndices returns live edge indices in ascending order.
func (e *Editor) EdgeIndices() []int { return e.graph.EdgeIndices() }

// Nodes returns the node view.
func (e *Editor) Nodes() *view.Nodes { return e.nodes }

// Edges returns the edge view.
func (e *Editor) Edges() *view.Edges { return e.edges }

// Graph returns the underlying graph. Mutating it directly bypasses
// layout invalidation.
func (e *Editor) Graph() *graph.Graph { return e.graph }

// Store returns the underlying attribute store.
func (e *Editor) Store() *attr.Store { return e.store }
