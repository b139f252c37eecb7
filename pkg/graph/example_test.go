package graph_test

import (
	"fmt"

	"github.com/matzehuels/graphlive/pkg/graph"
)

func ExampleGraph_RemoveNode() {
	g := graph.New()
	a := g.AddNode()
	b := g.AddNode()
	_, _ = g.AddEdge(a, b)

	// Removing an endpoint removes the edge first.
	_ = g.RemoveNode(a)

	_, ok := g.Node(0)
	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Index 0 resolves:", ok)
	fmt.Println("Live indices:", g.NodeIndices())
	// Output:
	// Nodes: 1
	// Edges: 0
	// Index 0 resolves: false
	// Live indices: [1]
}

func ExampleRegistry() {
	var r graph.Registry[string]
	r.Register("first")
	second := r.Register("second")
	r.Unregister(0)

	v, _ := r.Resolve(second)
	fmt.Println(second, v)
	fmt.Println("next:", r.Register("third"))
	// Output:
	// 1 second
	// next: 2
}
