// Package editor is the single entry point for editing a laid-out graph.
//
// An [Editor] owns one graph, its attribute store, a layout controller and
// the node and edge views. Every mutation changes the graph or the store
// and then invalidates the layout; with automatic layout on and no batch
// open, that means one synchronous layout run per call.
//
// # Batching
//
// Wrap many mutations in [Editor.Batch] (or Suspend/Resume) to pay for a
// single run:
//
//	err := ed.Batch(func() error {
//	    for i := 0; i < 100; i++ {
//	        ed.AddNode(nil)
//	    }
//	    return nil
//	})
//
// [Editor.EachNode] and [Editor.EachEdge] batch implicitly, so a visitor
// that edits every node costs one run, not one per node.
//
// # Errors
//
// Mutations that name a missing element or carry an unusable argument are
// no-ops. They return a coded error from pkg/errors and also send it to
// the diagnostic channel, which by default logs a warning; an interactive
// caller may ignore the return value. LAYOUT_FAILURE is returned from
// whichever call triggered the run and leaves [Editor.LayoutValid] false.
package editor
