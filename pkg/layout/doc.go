// Package layout decides when node positions are recomputed and ships the
// algorithms that recompute them.
//
// # Controller
//
// A [Controller] owns two pieces of state: a validity flag, true only after
// a successful run, and a re-entrancy counter. [Controller.Invalidate] runs
// the configured [Algorithm] immediately when the counter is zero and
// otherwise only marks the state invalid. [Controller.Suspend] and
// [Controller.Resume] bracket a batch so that any number of mutations
// costs a single run:
//
//	ctrl.Suspend()
//	for i := 0; i < 1000; i++ {
//	    g.AddNode()
//	    ctrl.Invalidate() // deferred
//	}
//	err := ctrl.Resume() // one run
//
// After each successful run the controller calls every registered [Sink]
// exactly once. A run that returns an error, panics, or changes the graph's
// topology leaves the state invalid and yields a LAYOUT_FAILURE error.
//
// # Algorithms
//
// [New] resolves an algorithm by name:
//
//   - none: keeps stored positions
//   - circular: places nodes on a circle in index order
//   - force: Fruchterman-Reingold style spring embedding
//   - hierarchical: breadth-first layering from the sources
//   - dot, neato, fdp, sfdp, circo, twopi: Graphviz engines, which also
//     route edges and fill in bend points
//
// [Cached] wraps any algorithm with a byte cache keyed by a fingerprint of
// the topology and node sizes.
package layout
