package view

import (
	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// Nodes is the view over live nodes.
type Nodes struct {
	list
	store *attr.Store
}

// NewNodes creates a node view over g and s.
func NewNodes(g *graph.Graph, s *attr.Store) *Nodes {
	return &Nodes{
		list:  list{graph: g, indices: g.NodeIndices},
		store: s,
	}
}

// Attributes returns the record of the node with external index idx.
func (v *Nodes) Attributes(idx int) (attr.Node, bool) {
	n, ok := v.graph.Node(idx)
	if !ok {
		return attr.Node{}, false
	}
	return v.store.Node(n), true
}

// Degree returns the number of edges incident to node idx.
// A self-loop counts twice.
func (v *Nodes) Degree(idx int) (int, bool) {
	n, ok := v.graph.Node(idx)
	if !ok {
		return 0, false
	}
	return n.Degree(), true
}
