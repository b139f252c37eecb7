package view

import (
	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// Edges is the view over live edges.
type Edges struct {
	list
	store *attr.Store
}

// NewEdges creates an edge view over g and s.
func NewEdges(g *graph.Graph, s *attr.Store) *Edges {
	return &Edges{
		list:  list{graph: g, indices: g.EdgeIndices},
		store: s,
	}
}

// Endpoints returns the external indices of the source and target of
// edge idx.
func (v *Edges) Endpoints(idx int) (source, target int, ok bool) {
	e, ok := v.graph.Edge(idx)
	if !ok {
		return -1, -1, false
	}
	return e.Source().Index(), e.Target().Index(), true
}

// Attributes returns the record of edge idx.
func (v *Edges) Attributes(idx int) (attr.Edge, bool) {
	e, ok := v.graph.Edge(idx)
	if !ok {
		return attr.Edge{}, false
	}
	return v.store.Edge(e), true
}
