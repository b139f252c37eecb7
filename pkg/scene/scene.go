package scene

import (
	"time"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/editor"
	"github.com/matzehuels/graphlive/pkg/errors"
)

// =============================================================================
// Types
// =============================================================================

// Scene is a graph with node geometry, edge bends and layout settings.
type Scene struct {
	ID         string    `json:"id,omitempty" yaml:"id,omitempty" bson:"_id,omitempty"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Algorithm  string    `json:"algorithm,omitempty" yaml:"algorithm,omitempty" bson:"algorithm,omitempty"`
	AutoLayout bool      `json:"auto_layout" yaml:"auto_layout" bson:"auto_layout"`
	Nodes      []Node    `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges      []Edge    `json:"edges" yaml:"edges" bson:"edges"`
	UpdatedAt  time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Node is one node record.
type Node struct {
	Index     int `json:"index" yaml:"index" bson:"index"`
	attr.Node `yaml:",inline" bson:",inline"`
}

// Edge is one edge with its endpoints.
type Edge struct {
	Index     int `json:"index" yaml:"index" bson:"index"`
	Source    int `json:"source" yaml:"source" bson:"source"`
	Target    int `json:"target" yaml:"target" bson:"target"`
	attr.Edge `yaml:",inline" bson:",inline"`
}

// =============================================================================
// Editor <-> Scene
// =============================================================================

// Capture copies the current contents of ed. Nodes and edges are listed in
// ascending index order.
func Capture(ed *editor.Editor) *Scene {
	g, s := ed.Graph(), ed.Store()
	sc := &Scene{
		Algorithm:  ed.Algorithm().Name(),
		AutoLayout: ed.AutoLayout(),
		Nodes:      make([]Node, 0, g.NodeCount()),
		Edges:      make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		sc.Nodes = append(sc.Nodes, Node{Index: n.Index(), Node: s.Node(n)})
	}
	for _, e := range g.Edges() {
		sc.Edges = append(sc.Edges, Edge{
			Index:  e.Index(),
			Source: e.Source().Index(),
			Target: e.Target().Index(),
			Edge:   s.Edge(e),
		})
	}
	return sc
}

// Load replaces the contents of ed with sc inside one batch, so the current
// algorithm runs at most once afterwards. Nodes and edges are created in
// scene order. The returned maps translate scene indices to the editor's
// new indices.
//
// The scene is validated first; an invalid scene leaves ed untouched. A
// LAYOUT_FAILURE from the closing run is returned with complete maps.
// Algorithm and AutoLayout are not applied - resolving an algorithm name
// needs layout configuration the caller owns.
func Load(ed *editor.Editor, sc *Scene) (nodes, edges map[int]int, err error) {
	if err := sc.Validate(); err != nil {
		return nil, nil, err
	}
	nodes = make(map[int]int, len(sc.Nodes))
	edges = make(map[int]int, len(sc.Edges))

	err = ed.Batch(func() error {
		ed.Clear()
		for _, n := range sc.Nodes {
			rec := n.Node
			idx, err := ed.AddNode(&rec)
			if err != nil {
				return err
			}
			nodes[n.Index] = idx
		}
		g, s := ed.Graph(), ed.Store()
		for _, e := range sc.Edges {
			idx, err := ed.AddEdge(nodes[e.Source], nodes[e.Target])
			if err != nil {
				return err
			}
			edges[e.Index] = idx
			if len(e.Bends) > 0 {
				he, _ := g.Edge(idx)
				s.SetEdge(he, e.Edge)
			}
		}
		return nil
	})
	return nodes, edges, err
}

// Validate checks that indices are unique, edges reference listed nodes,
// geometry is finite and shapes are known. Errors carry INVALID_FORMAT.
func (sc *Scene) Validate() error {
	seen := make(map[int]bool, len(sc.Nodes))
	for _, n := range sc.Nodes {
		if seen[n.Index] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate node index %d", n.Index)
		}
		seen[n.Index] = true
		if !n.Valid() {
			return errors.New(errors.ErrCodeInvalidFormat, "node %d: geometry must be finite with non-negative size", n.Index)
		}
		if _, err := attr.ParseShape(string(n.Shape)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", n.Index)
		}
	}

	edgeSeen := make(map[int]bool, len(sc.Edges))
	for _, e := range sc.Edges {
		if edgeSeen[e.Index] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate edge index %d", e.Index)
		}
		edgeSeen[e.Index] = true
		if !seen[e.Source] || !seen[e.Target] {
			return errors.New(errors.ErrCodeInvalidFormat, "edge %d: endpoint %d -> %d is not a listed node", e.Index, e.Source, e.Target)
		}
	}
	return nil
}
