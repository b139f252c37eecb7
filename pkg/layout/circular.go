package layout

import (
	"math"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// Circular arranges nodes on a circle in ascending index order.
type Circular struct {
	cfg Config
}

// NewCircular creates a circular layout.
func NewCircular(cfg Config) *Circular {
	return &Circular{cfg: cfg.withDefaults()}
}

// Config returns the canvas settings in use.
func (c *Circular) Config() Config { return c.cfg }

// Name returns "circular".
func (c *Circular) Name() string { return NameCircular }

// Apply places nodes on a circle around the canvas center.
func (c *Circular) Apply(g *graph.Graph, s *attr.Store) error {
	nodes := g.Nodes()
	s.ClearBends()
	if len(nodes) == 0 {
		return nil
	}

	cx, cy := c.cfg.Width/2, c.cfg.Height/2
	if len(nodes) == 1 {
		s.SetPosition(nodes[0], cx, cy)
		return nil
	}

	radius := math.Min(cx, cy) - c.cfg.Padding
	step := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		angle := float64(i) * step
		s.SetPosition(n, cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
	}
	return nil
}
