package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// pointsPerInch converts scene units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures diagram generation.
type Options struct {
	// Labels prints each node's index inside it.
	Labels bool
	// Splines routes edges around nodes instead of drawing straight lines.
	Splines bool
}

// ToDOT converts a scene to Graphviz DOT with every node pinned at its
// position. The y axis is flipped, since scene y grows downwards.
func ToDOT(sc *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  notranslate=true;\n")
	if opts.Splines {
		buf.WriteString("  splines=true;\n")
	} else {
		buf.WriteString("  splines=line;\n")
	}
	buf.WriteString("  node [fixedsize=true, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range sc.Nodes {
		label := ""
		if opts.Labels {
			label = strconv.Itoa(n.Index)
		}
		fmt.Fprintf(&buf, "  n%d [pos=\"%s,%s!\", width=%s, height=%s, %s, label=%q];\n",
			n.Index, inches(n.X), inches(0 - n.Y), inches(n.Width), inches(n.Height), shapeAttrs(n.Shape), label)
	}

	buf.WriteString("\n")
	for _, e := range sc.Edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}

func shapeAttrs(s attr.Shape) string {
	switch s {
	case attr.ShapeEllipse:
		return "shape=ellipse"
	case attr.ShapeRounded:
		return "shape=box, style=\"rounded,filled\""
	default:
		return "shape=box"
	}
}

// RenderSVG renders DOT produced by ToDOT with the neato engine, which
// keeps pinned positions.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed-unit <svg> tag with one that
// scales: a 0-origin viewBox with pixel width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
