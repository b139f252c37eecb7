// Package render draws a positioned scene.
//
// Positions come from the layout controller; rendering never moves a node.
// [ToDOT] pins every node at its stored center and size, and [RenderSVG]
// lets Graphviz's neato engine draw the pinned graph:
//
//	sc := scene.Capture(ed)
//	svg, err := render.RenderSVG(render.ToDOT(sc, render.Options{Labels: true}))
//
// [ToPDF] and [ToPNG] convert SVG with the external rsvg-convert tool
// (librsvg); [Render] dispatches on a [Format].
package render
