// Package pkg provides the libraries behind graphlive, a graph editor whose
// layout is recomputed lazily as the graph changes.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Model - [graph], [attr], [layout] and [view] hold topology, geometry,
//     the deferred layout controller and change-signalling views.
//  2. Facade - [editor] composes the model behind index-based operations;
//     [scene] converts an editor to and from a portable document.
//  3. Infrastructure - [cache], [storage], [render], [server], [metrics],
//     [observability] and [config].
//
// # Architecture
//
// A mutation flows through the editor like this:
//
//	editor.AddEdge(0, 1)
//	         ↓
//	    [graph] records the edge, [attr] gets an empty record
//	         ↓
//	    [layout] controller invalidates: runs now, or defers while suspended
//	         ↓
//	    [view] listeners fire once per run
//	         ↓
//	    websocket clients, TUI, scene files
//
// # Quick Start
//
//	ed := editor.New(editor.WithAlgorithm(layout.NewCircular(layout.DefaultConfig)))
//	_ = ed.Batch(func() error {
//	    a, _ := ed.AddNode(nil)
//	    b, _ := ed.AddNode(nil)
//	    _, err := ed.AddEdge(a, b)
//	    return err
//	})
//	svg, _ := render.Render(scene.Capture(ed), render.FormatSVG, render.Options{})
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/graph
// [attr]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/attr
// [layout]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/layout
// [view]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/view
// [editor]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/editor
// [scene]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/scene
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/storage
// [render]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/server
// [metrics]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/observability
// [config]: https://pkg.go.dev/github.com/matzehuels/graphlive/pkg/config
package pkg
