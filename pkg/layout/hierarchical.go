package layout

import (
	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// Hierarchical arranges nodes in horizontal layers. Layer 0 holds the
// sources (nodes without incoming edges other than self-loops); each later
// layer holds the unvisited successors of the previous one. Nodes that no
// source reaches go to the last layer.
type Hierarchical struct {
	cfg Config
}

// NewHierarchical creates a layered layout.
func NewHierarchical(cfg Config) *Hierarchical {
	return &Hierarchical{cfg: cfg.withDefaults()}
}

// Config returns the canvas settings in use.
func (h *Hierarchical) Config() Config { return h.cfg }

// Name returns "hierarchical".
func (h *Hierarchical) Name() string { return NameHierarchical }

// Apply assigns layers breadth-first and spaces nodes evenly within each.
func (h *Hierarchical) Apply(g *graph.Graph, s *attr.Store) error {
	nodes := g.Nodes()
	s.ClearBends()
	if len(nodes) == 0 {
		return nil
	}

	levels := layers(nodes)

	levelH := (h.cfg.Height - 2*h.cfg.Padding) / float64(len(levels))
	levelW := h.cfg.Width - 2*h.cfg.Padding
	for li, level := range levels {
		y := h.cfg.Padding + float64(li)*levelH + levelH/2
		spacing := levelW / float64(len(level)+1)
		for ni, n := range level {
			s.SetPosition(n, h.cfg.Padding+spacing*float64(ni+1), y)
		}
	}
	return nil
}

func layers(nodes []*graph.Node) [][]*graph.Node {
	var roots []*graph.Node
	for _, n := range nodes {
		if !hasForeignIncoming(n) {
			roots = append(roots, n)
		}
	}
	if len(roots) == 0 {
		roots = []*graph.Node{nodes[0]}
	}

	visited := make(map[*graph.Node]bool, len(nodes))
	for _, r := range roots {
		visited[r] = true
	}

	var levels [][]*graph.Node
	for cur := roots; len(cur) > 0; {
		levels = append(levels, cur)
		var next []*graph.Node
		for _, n := range cur {
			for _, e := range n.Outgoing() {
				if t := e.Target(); !visited[t] {
					visited[t] = true
					next = append(next, t)
				}
			}
		}
		cur = next
	}

	last := len(levels) - 1
	for _, n := range nodes {
		if !visited[n] {
			levels[last] = append(levels[last], n)
		}
	}
	return levels
}

func hasForeignIncoming(n *graph.Node) bool {
	for _, e := range n.Incoming() {
		if !e.IsSelfLoop() {
			return true
		}
	}
	return false
}
