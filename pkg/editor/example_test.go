package editor_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/editor"
	"github.com/matzehuels/graphlive/pkg/layout"
)

func ExampleEditor_Batch() {
	circular, _ := layout.New(layout.NameCircular, layout.Config{Width: 200, Height: 200, Padding: 20})
	ed := editor.New(
		editor.WithAlgorithm(circular),
		editor.WithLogger(log.New(io.Discard)),
	)

	_ = ed.Batch(func() error {
		prev := editor.InvalidIndex
		for i := 0; i < 4; i++ {
			idx, _ := ed.AddNode(&attr.Node{Width: 30, Height: 20})
			if prev != editor.InvalidIndex {
				ed.AddEdge(prev, idx)
			}
			prev = idx
		}
		return nil
	})

	rec, _ := ed.NodeAttributes(0)
	fmt.Printf("nodes=%d edges=%d runs=%d\n", ed.NodeCount(), ed.EdgeCount(), ed.LayoutRuns())
	fmt.Printf("node 0 at (%.0f, %.0f)\n", rec.X, rec.Y)
	// Output:
	// nodes=4 edges=3 runs=1
	// node 0 at (180, 100)
}

func ExampleEditor_AddEdge() {
	var reported []string
	ed := editor.New(editor.WithDiagnostics(func(err error) {
		reported = append(reported, err.Error())
	}))

	a, _ := ed.AddNode(nil)
	idx, err := ed.AddEdge(a, 99)
	fmt.Println(idx, err != nil, len(reported))
	// Output:
	// -1 true 1
}
