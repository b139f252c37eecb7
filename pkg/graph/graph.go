package graph

import (
	"slices"

	"github.com/matzehuels/graphlive/pkg/errors"
)

// Node is a vertex handle. Handles are lightweight references: geometry
// lives in an attribute store, not on the node. A handle stays valid until
// the node is removed from its graph.
type Node struct {
	index int
	out   []*Edge
	in    []*Edge
	owner *Graph
}

// Index returns the node's stable external index.
func (n *Node) Index() int { return n.index }

// Outgoing returns the edges whose source is n, in insertion order.
// The returned slice must not be modified.
func (n *Node) Outgoing() []*Edge { return n.out }

// Incoming returns the edges whose target is n, in insertion order.
// The returned slice must not be modified.
func (n *Node) Incoming() []*Edge { return n.in }

// Degree returns the number of incident edge ends. A self-loop counts twice.
func (n *Node) Degree() int { return len(n.out) + len(n.in) }

// Edge is a directed edge handle between two live nodes.
type Edge struct {
	index  int
	source *Node
	target *Node
	owner  *Graph
}

// Index returns the edge's stable external index.
func (e *Edge) Index() int { return e.index }

// Source returns the tail node.
func (e *Edge) Source() *Node { return e.source }

// Target returns the head node.
func (e *Edge) Target() *Node { return e.target }

// IsSelfLoop reports whether both endpoints are the same node.
func (e *Edge) IsSelfLoop() bool { return e.source == e.target }

// Graph is a mutable directed multigraph.
//
// Every live edge's endpoints are live nodes of the same graph: RemoveNode
// deletes incident edges before the node itself. Parallel edges and
// self-loops are permitted.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes     Registry[*Node]
	edges     Registry[*Edge]
	observers []Observer
	version   uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// Observe registers o to be told about every structural change.
// Observers are called synchronously, after the change is applied for
// additions and before the handle is invalidated for removals.
func (g *Graph) Observe(o Observer) {
	g.observers = append(g.observers, o)
}

// Version returns a counter that changes on every structural mutation.
// Comparing versions is a cheap way to detect topology changes.
func (g *Graph) Version() uint64 { return g.version }

// AddNode creates a node and returns its handle. O(1) amortized.
func (g *Graph) AddNode() *Node {
	n := &Node{owner: g}
	n.index = g.nodes.Register(n)
	g.version++
	for _, o := range g.observers {
		o.NodeAdded(n)
	}
	return n
}

// AddEdge creates a directed edge from source to target. O(1) amortized.
// Returns an INVALID_ENDPOINT error if either argument is nil or is not a
// live node of g; the graph is not modified in that case.
func (g *Graph) AddEdge(source, target *Node) (*Edge, error) {
	if !g.ContainsNode(source) {
		return nil, errors.New(errors.ErrCodeInvalidEndpoint, "source is not a live node")
	}
	if !g.ContainsNode(target) {
		return nil, errors.New(errors.ErrCodeInvalidEndpoint, "target is not a live node")
	}
	e := &Edge{source: source, target: target, owner: g}
	e.index = g.edges.Register(e)
	source.out = append(source.out, e)
	target.in = append(target.in, e)
	g.version++
	for _, o := range g.observers {
		o.EdgeAdded(e)
	}
	return e, nil
}

// RemoveEdge deletes e. Returns a NOT_FOUND error if e is not a live edge
// of g. O(degree) in the endpoints' adjacency lists.
func (g *Graph) RemoveEdge(e *Edge) error {
	if !g.ContainsEdge(e) {
		return errors.New(errors.ErrCodeNotFound, "edge is not live")
	}
	g.removeEdge(e)
	return nil
}

// RemoveNode deletes n together with every incident edge, which are
// removed first so no edge ever dangles. Returns a NOT_FOUND error if n is
// not a live node of g. O(degree).
func (g *Graph) RemoveNode(n *Node) error {
	if !g.ContainsNode(n) {
		return errors.New(errors.ErrCodeNotFound, "node is not live")
	}
	for len(n.out) > 0 {
		g.removeEdge(n.out[len(n.out)-1])
	}
	for len(n.in) > 0 {
		g.removeEdge(n.in[len(n.in)-1])
	}
	for _, o := range g.observers {
		o.NodeRemoved(n)
	}
	g.nodes.Unregister(n.index)
	n.owner = nil
	g.version++
	return nil
}

func (g *Graph) removeEdge(e *Edge) {
	for _, o := range g.observers {
		o.EdgeRemoved(e)
	}
	e.source.out = slices.DeleteFunc(e.source.out, func(x *Edge) bool { return x == e })
	e.target.in = slices.DeleteFunc(e.target.in, func(x *Edge) bool { return x == e })
	g.edges.Unregister(e.index)
	e.owner = nil
	g.version++
}

// Clear removes all nodes and edges. Indices issued before Clear are never
// reused afterwards.
func (g *Graph) Clear() {
	for _, n := range g.nodes.Values() {
		n.owner = nil
		n.out, n.in = nil, nil
	}
	for _, e := range g.edges.Values() {
		e.owner = nil
	}
	g.nodes.Clear()
	g.edges.Clear()
	g.version++
	for _, o := range g.observers {
		o.Cleared()
	}
}

// ContainsNode reports whether n is a live node of g.
func (g *Graph) ContainsNode(n *Node) bool { return n != nil && n.owner == g }

// ContainsEdge reports whether e is a live edge of g.
func (g *Graph) ContainsEdge(e *Edge) bool { return e != nil && e.owner == g }

// Node resolves an external index to a live node.
func (g *Graph) Node(index int) (*Node, bool) { return g.nodes.Resolve(index) }

// Edge resolves an external index to a live edge.
func (g *Graph) Edge(index int) (*Edge, bool) { return g.edges.Resolve(index) }

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return g.nodes.Len() }

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int { return g.edges.Len() }

// Nodes returns all live nodes in ascending index order.
func (g *Graph) Nodes() []*Node { return g.nodes.Values() }

// Edges returns all live edges in ascending index order.
func (g *Graph) Edges() []*Edge { return g.edges.Values() }

// NodeIndices returns the indices of all live nodes in ascending order.
func (g *Graph) NodeIndices() []int { return g.nodes.Indices() }

// EdgeIndices returns the indices of all live edges in ascending order.
func (g *Graph) EdgeIndices() []int { return g.edges.Indices() }

// Validate checks the structural invariant that every live edge connects
// two live nodes of g and appears in both endpoints' adjacency lists.
// It exists for tests and debugging; a correctly used Graph always passes.
func (g *Graph) Validate() error {
	for _, e := range g.edges.Values() {
		if !g.ContainsNode(e.source) || !g.ContainsNode(e.target) {
			return errors.New(errors.ErrCodeInvalidEndpoint, "edge %d has a dangling endpoint", e.index)
		}
		if !slices.Contains(e.source.out, e) || !slices.Contains(e.target.in, e) {
			return errors.New(errors.ErrCodeInternal, "edge %d missing from adjacency", e.index)
		}
	}
	return nil
}
