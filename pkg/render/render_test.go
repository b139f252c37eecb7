package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphlive/pkg/attr"
	gerrors "github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/scene"
)

func sampleScene() *scene.Scene {
	return &scene.Scene{
		Nodes: []scene.Node{
			{Index: 0, Node: attr.Node{X: 72, Y: 144, Width: 72, Height: 36, Shape: attr.ShapeRectangle}},
			{Index: 3, Node: attr.Node{X: 216, Y: 36, Width: 36, Height: 36, Shape: attr.ShapeEllipse}},
			{Index: 4, Node: attr.Node{X: 0, Y: 0, Width: 36, Height: 36, Shape: attr.ShapeRounded}},
		},
		Edges: []scene.Edge{{Index: 0, Source: 0, Target: 3}, {Index: 1, Source: 3, Target: 3}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleScene(), Options{})

	for _, want := range []string{
		"digraph G {",
		"splines=line;",
		`n0 [pos="1.0000,-2.0000!", width=1.0000, height=0.5000, shape=box, label=""];`,
		`n3 [pos="3.0000,-0.5000!", width=0.5000, height=0.5000, shape=ellipse, label=""];`,
		`shape=box, style="rounded,filled"`,
		"n0 -> n3;",
		"n3 -> n3;",
	} {
		assert.Contains(t, dot, want)
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(sampleScene(), Options{Labels: true, Splines: true})
	assert.Contains(t, dot, `label="3"`)
	assert.Contains(t, dot, "splines=true;")
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml?><svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`)
	assert.NotContains(t, out, "pt\"")

	plain := []byte(`<svg><g/></svg>`)
	assert.Equal(t, plain, normalizeViewBox(plain))
}

func TestRenderSVG(t *testing.T) {
	svg, err := Render(sampleScene(), FormatSVG, Options{Labels: true})
	if err != nil {
		t.Skipf("graphviz unavailable: %v", err)
	}
	s := string(svg)
	assert.True(t, strings.Contains(s, "<svg"))
	assert.Contains(t, s, "viewBox=\"0 0 ")
}

func TestRenderDOT(t *testing.T) {
	out, err := Render(sampleScene(), FormatDOT, Options{})
	require.NoError(t, err)
	assert.Equal(t, ToDOT(sampleScene(), Options{}), string(out))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = ParseFormat("gif")
	assert.True(t, gerrors.Is(err, gerrors.ErrCodeUnsupported))
}

func TestConvertWithoutRsvg(t *testing.T) {
	orig := lookPath
	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	t.Cleanup(func() { lookPath = orig })

	_, err := ToPDF([]byte("<svg/>"))
	assert.True(t, gerrors.Is(err, gerrors.ErrCodeUnsupported))
	assert.Contains(t, err.Error(), "librsvg")
}
