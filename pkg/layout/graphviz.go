package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// GraphvizEngines lists the Graphviz layout engines New accepts.
var GraphvizEngines = []string{"circo", "dot", "fdp", "neato", "sfdp", "twopi"}

// pointsPerInch converts Graphviz inches to store units.
const pointsPerInch = 72.0

// Graphviz delegates layout to a Graphviz engine. Node sizes and shapes
// from the store are passed as fixed sizes; positions and edge spline
// control points are read back from the "plain" output format.
type Graphviz struct {
	engine string
}

// NewGraphviz creates a layout backed by the named Graphviz engine.
func NewGraphviz(engine string) *Graphviz {
	return &Graphviz{engine: engine}
}

// Name returns the engine name.
func (v *Graphviz) Name() string { return v.engine }

// Apply runs the engine and writes node centers and edge bends to s.
func (v *Graphviz) Apply(g *graph.Graph, s *attr.Store) error {
	s.ClearBends()
	if g.NodeCount() == 0 {
		return nil
	}

	out, err := runGraphviz(v.engine, ToDOT(g, s))
	if err != nil {
		return err
	}
	res, err := parsePlain(out)
	if err != nil {
		return err
	}
	res.apply(g, s)
	return nil
}

// ToDOT writes g as a DOT digraph with node n<index> for every node.
// Sizes are converted to inches and fixed so that the engine respects them.
func ToDOT(g *graph.Graph, s *attr.Store) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  node [fixedsize=true, label=\"\"];\n")
	for _, n := range g.Nodes() {
		rec := s.Node(n)
		fmt.Fprintf(&buf, "  n%d [width=%s, height=%s, shape=%s];\n",
			n.Index(), inches(rec.Width, 0.75), inches(rec.Height, 0.5), dotShape(rec.Shape))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.Source().Index(), e.Target().Index())
	}
	buf.WriteString("}\n")
	return buf.String()
}

func inches(v, fallback float64) string {
	if v <= 0 {
		return strconv.FormatFloat(fallback, 'f', -1, 64)
	}
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}

func dotShape(s attr.Shape) string {
	switch s {
	case attr.ShapeEllipse:
		return "ellipse"
	default:
		return "box"
	}
}

func runGraphviz(engine, dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(engine))

	pg, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer pg.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, pg, graphviz.Format("plain"), &buf); err != nil {
		return nil, fmt.Errorf("%s layout: %w", engine, err)
	}
	return buf.Bytes(), nil
}

// plainResult is the parsed content of Graphviz "plain" output, already
// converted to store units with y growing downwards.
type plainResult struct {
	nodes map[int]attr.Point
	edges map[[2]int][][]attr.Point
}

// parsePlain reads the "plain" format:
//
//	graph scale width height
//	node name x y width height ...
//	edge tail head n x1 y1 ... xn yn ...
//	stop
func parsePlain(out []byte) (*plainResult, error) {
	res := &plainResult{
		nodes: make(map[int]attr.Point),
		edges: make(map[[2]int][][]attr.Point),
	}
	var height float64

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "graph":
			if len(f) < 4 {
				return nil, plainErr("graph", sc.Text())
			}
			h, err := strconv.ParseFloat(f[3], 64)
			if err != nil {
				return nil, plainErr("graph", sc.Text())
			}
			height = h
		case "node":
			if len(f) < 4 {
				return nil, plainErr("node", sc.Text())
			}
			idx, ok := nodeIndex(f[1])
			if !ok {
				continue
			}
			x, errX := strconv.ParseFloat(f[2], 64)
			y, errY := strconv.ParseFloat(f[3], 64)
			if errX != nil || errY != nil {
				return nil, plainErr("node", sc.Text())
			}
			res.nodes[idx] = attr.Point{X: x * pointsPerInch, Y: (height - y) * pointsPerInch}
		case "edge":
			if len(f) < 4 {
				return nil, plainErr("edge", sc.Text())
			}
			tail, ok1 := nodeIndex(f[1])
			head, ok2 := nodeIndex(f[2])
			n, err := strconv.Atoi(f[3])
			if !ok1 || !ok2 || err != nil || len(f) < 4+2*n {
				return nil, plainErr("edge", sc.Text())
			}
			pts := make([]attr.Point, 0, n)
			for i := 0; i < n; i++ {
				x, errX := strconv.ParseFloat(f[4+2*i], 64)
				y, errY := strconv.ParseFloat(f[5+2*i], 64)
				if errX != nil || errY != nil {
					return nil, plainErr("edge", sc.Text())
				}
				pts = append(pts, attr.Point{X: x * pointsPerInch, Y: (height - y) * pointsPerInch})
			}
			key := [2]int{tail, head}
			res.edges[key] = append(res.edges[key], pts)
		case "stop":
			return res, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "read graphviz output")
	}
	return res, nil
}

func plainErr(kind, line string) error {
	return errors.New(errors.ErrCodeLayoutFailure, "malformed graphviz %s line: %q", kind, line)
}

func nodeIndex(name string) (int, bool) {
	name = strings.Trim(name, `"`)
	if !strings.HasPrefix(name, "n") {
		return 0, false
	}
	i, err := strconv.Atoi(name[1:])
	return i, err == nil
}

// apply writes positions and bends. Parallel edges are matched to spline
// records in index order; the first and last control points lie on the
// node boundaries and are dropped.
func (r *plainResult) apply(g *graph.Graph, s *attr.Store) {
	for _, n := range g.Nodes() {
		if p, ok := r.nodes[n.Index()]; ok {
			s.SetPosition(n, p.X, p.Y)
		}
	}
	for _, e := range g.Edges() {
		key := [2]int{e.Source().Index(), e.Target().Index()}
		queue := r.edges[key]
		if len(queue) == 0 {
			continue
		}
		pts := queue[0]
		r.edges[key] = queue[1:]
		if len(pts) > 2 {
			s.SetEdge(e, attr.Edge{Bends: pts[1 : len(pts)-1]})
		}
	}
}
