package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// Force is a Fruchterman-Reingold style spring embedder. Connected nodes
// attract, all pairs repel, and the step size cools every iteration.
//
// Starting positions come from a PRNG seeded with Config.Seed, so the same
// graph always yields the same layout.
type Force struct {
	cfg Config
}

// NewForce creates a force-directed layout.
func NewForce(cfg Config) *Force {
	return &Force{cfg: cfg.withDefaults()}
}

// Config returns the canvas settings in use.
func (f *Force) Config() Config { return f.cfg }

// Name returns "force".
func (f *Force) Name() string { return NameForce }

// Apply runs cfg.Iterations rounds and normalizes the result to the canvas.
func (f *Force) Apply(g *graph.Graph, s *attr.Store) error {
	nodes := g.Nodes()
	s.ClearBends()
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		s.SetPosition(nodes[0], f.cfg.Width/2, f.cfg.Height/2)
		return nil
	}

	slot := make(map[*graph.Node]int, len(nodes))
	for i, n := range nodes {
		slot[n] = i
	}

	rng := rand.New(rand.NewPCG(f.cfg.Seed, f.cfg.Seed))
	innerW := f.cfg.Width - 2*f.cfg.Padding
	innerH := f.cfg.Height - 2*f.cfg.Padding
	pos := make([]point, len(nodes))
	for i := range pos {
		pos[i] = point{
			x: rng.Float64()*innerW + f.cfg.Padding,
			y: rng.Float64()*innerH + f.cfg.Padding,
		}
	}

	// One spring per edge; parallel edges add up.
	var springs [][2]int
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			continue
		}
		springs = append(springs, [2]int{slot[e.Source()], slot[e.Target()]})
	}

	k := math.Sqrt(f.cfg.Width * f.cfg.Height / float64(len(nodes)))
	temperature := f.cfg.Width / 10
	force := make([]point, len(nodes))

	for iter := 0; iter < f.cfg.Iterations; iter++ {
		clear(force)

		// Repulsion between all pairs
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				dx, dy, dist := delta(pos[i], pos[j])
				if dist < 0.01 {
					dist = 0.01
				}
				rep := k * k / dist
				fx, fy := dx/dist*rep, dy/dist*rep
				force[i].x += fx
				force[i].y += fy
				force[j].x -= fx
				force[j].y -= fy
			}
		}

		// Attraction along edges
		for _, sp := range springs {
			i, j := sp[0], sp[1]
			dx, dy, dist := delta(pos[i], pos[j])
			if dist < 0.01 {
				continue
			}
			att := dist * dist / k
			fx, fy := dx/dist*att, dy/dist*att
			force[i].x -= fx
			force[i].y -= fy
			force[j].x += fx
			force[j].y += fy
		}

		cool := 1 - float64(iter)/float64(f.cfg.Iterations)
		for i, fv := range force {
			mag := math.Hypot(fv.x, fv.y)
			if mag == 0 {
				continue
			}
			step := math.Min(mag, temperature) * cool
			pos[i].x += fv.x / mag * step
			pos[i].y += fv.y / mag * step
		}
		temperature *= 0.95
	}

	normalize(pos, f.cfg)
	for i, n := range nodes {
		s.SetPosition(n, pos[i].x, pos[i].y)
	}
	return nil
}

func delta(a, b point) (dx, dy, dist float64) {
	dx, dy = a.x-b.x, a.y-b.y
	return dx, dy, math.Hypot(dx, dy)
}
