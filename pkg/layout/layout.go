package layout

import (
	"slices"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// Algorithm computes geometry for every live element of g and writes it to
// s. It must not add or remove nodes or edges and must terminate.
type Algorithm interface {
	Name() string
	Apply(g *graph.Graph, s *attr.Store) error
}

// Func adapts a plain function to the Algorithm interface.
type Func struct {
	Label string
	Fn    func(g *graph.Graph, s *attr.Store) error
}

// Name returns f.Label, or "func" when empty.
func (f Func) Name() string {
	if f.Label == "" {
		return "func"
	}
	return f.Label
}

// Apply calls f.Fn.
func (f Func) Apply(g *graph.Graph, s *attr.Store) error { return f.Fn(g, s) }

// None keeps whatever positions are stored. It is the default algorithm of
// an editor that only tracks validity.
type None struct{}

// Name returns "none".
func (None) Name() string { return NameNone }

// Apply does nothing.
func (None) Apply(*graph.Graph, *attr.Store) error { return nil }

// Algorithm names accepted by New.
const (
	NameNone         = "none"
	NameCircular     = "circular"
	NameForce        = "force"
	NameHierarchical = "hierarchical"
)

// Config holds the canvas and iteration parameters shared by the built-in
// algorithms. Zero fields take the values of DefaultConfig.
type Config struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Iterations int     `toml:"iterations"`
	Padding    float64 `toml:"padding"`
	Seed       uint64  `toml:"seed"`
}

// DefaultConfig is an 800x600 canvas with 50 force iterations and 50 units
// of padding.
var DefaultConfig = Config{
	Width:      800,
	Height:     600,
	Iterations: 50,
	Padding:    50,
	Seed:       1,
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultConfig.Width
	}
	if c.Height <= 0 {
		c.Height = DefaultConfig.Height
	}
	if c.Iterations <= 0 {
		c.Iterations = DefaultConfig.Iterations
	}
	if c.Padding <= 0 {
		c.Padding = DefaultConfig.Padding
	}
	if c.Seed == 0 {
		c.Seed = DefaultConfig.Seed
	}
	return c
}

// Names returns every name New accepts, sorted.
func Names() []string {
	names := []string{NameNone, NameCircular, NameForce, NameHierarchical}
	names = append(names, GraphvizEngines...)
	slices.Sort(names)
	return names
}

// New returns the algorithm registered under name.
// Unknown names yield an UNSUPPORTED error.
func New(name string, cfg Config) (Algorithm, error) {
	cfg = cfg.withDefaults()
	switch name {
	case NameNone, "":
		return None{}, nil
	case NameCircular:
		return NewCircular(cfg), nil
	case NameForce:
		return NewForce(cfg), nil
	case NameHierarchical:
		return NewHierarchical(cfg), nil
	}
	if slices.Contains(GraphvizEngines, name) {
		return NewGraphviz(name), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown layout algorithm %q", name)
}
