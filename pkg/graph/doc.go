// Package graph provides the mutable graph structure at the heart of
// graphlive, together with the identity registry that gives every element a
// stable external index.
//
// # Overview
//
// A [Graph] owns nodes and directed edges. Callers hold lightweight handles
// ([*Node], [*Edge]) or, across API boundaries, plain integer indices that
// resolve back to handles through [Graph.Node] and [Graph.Edge].
//
//	g := graph.New()
//	a := g.AddNode()          // index 0
//	b := g.AddNode()          // index 1
//	e, _ := g.AddEdge(a, b)   // index 0
//	_ = g.RemoveNode(a)       // also removes e
//
// # Identity
//
// The [Registry] hands out indices monotonically. Removing an element leaves
// a gap rather than renumbering the survivors, and an index is never issued
// twice - not even after [Graph.Clear]. A caller holding a stale index gets
// a clean "not found" instead of silently addressing a different element.
//
// # Structural Invariant
//
// Every live edge connects two live nodes of the same graph. [Graph.AddEdge]
// rejects endpoints that are nil, removed or foreign with an
// INVALID_ENDPOINT error, and [Graph.RemoveNode] deletes all incident edges
// before the node. Parallel edges and self-loops are allowed.
//
// # Observers
//
// Components that keep per-element data (attribute stores, caches) register
// an [Observer] with [Graph.Observe] to stay in step with the topology.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package graph
