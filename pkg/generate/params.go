package generate

import (
	"github.com/matzehuels/graphlive/pkg/errors"
)

// Family names accepted by New.
const (
	FamilyRandom       = "random"
	FamilySimple       = "simple"
	FamilyBiconnected  = "biconnected"
	FamilyTriconnected = "triconnected"
	FamilyTree         = "tree"
	FamilyDiGraph      = "digraph"
	FamilyHierarchy    = "hierarchy"
)

// Families lists every family name New accepts.
var Families = []string{
	FamilyRandom, FamilySimple, FamilyBiconnected, FamilyTriconnected,
	FamilyTree, FamilyDiGraph, FamilyHierarchy,
}

// Size limits enforced by every family.
const (
	MaxNodes = 100_000
	MaxEdges = 1_000_000

	// maxDigraphPairs bounds n*(n-1), the number of coin flips a digraph
	// makes.
	maxDigraphPairs = 25_000_000
)

// Params carries the parameters of every family; each family reads the
// fields it needs. A zero Seed picks a random one.
//
// Probability is the edge probability of a digraph and the split
// probability of a triconnected graph; Density is the share of extra
// neighbours a split moves.
type Params struct {
	Nodes        int     `json:"nodes" yaml:"nodes" validate:"gte=0,lte=100000"`
	Edges        int     `json:"edges,omitempty" yaml:"edges,omitempty" validate:"gte=0,lte=1000000"`
	MaxDegree    int     `json:"max_degree,omitempty" yaml:"max_degree,omitempty"`
	MaxWidth     int     `json:"max_width,omitempty" yaml:"max_width,omitempty"`
	Probability  float64 `json:"probability,omitempty" yaml:"probability,omitempty" validate:"gte=0,lte=1"`
	Density      float64 `json:"density,omitempty" yaml:"density,omitempty" validate:"gte=0,lte=1"`
	SingleSource bool    `json:"single_source,omitempty" yaml:"single_source,omitempty"`
	LongEdges    bool    `json:"long_edges,omitempty" yaml:"long_edges,omitempty"`
	Planar       bool    `json:"planar,omitempty" yaml:"planar,omitempty"`
	Seed         uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// New builds the generator for a family name. Unknown names yield an
// UNSUPPORTED error; parameter errors surface from Generate.
func New(name string, p Params) (Generator, error) {
	var opts []Option
	if p.Seed != 0 {
		opts = append(opts, WithSeed(p.Seed))
	}
	switch name {
	case FamilyRandom:
		return Random(p.Nodes, p.Edges, opts...), nil
	case FamilySimple:
		return RandomSimple(p.Nodes, p.Edges, opts...), nil
	case FamilyBiconnected:
		return RandomBiconnected(p.Nodes, p.Edges, opts...), nil
	case FamilyTriconnected:
		return RandomTriconnected(p.Nodes, p.Probability, p.Density, opts...), nil
	case FamilyTree:
		return RandomTree(p.Nodes, p.MaxDegree, p.MaxWidth, opts...), nil
	case FamilyDiGraph:
		return RandomDiGraph(p.Nodes, p.Probability, opts...), nil
	case FamilyHierarchy:
		return RandomHierarchy(p.Nodes, p.Edges, p.SingleSource, p.LongEdges, p.Planar, opts...), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown graph family %q", name)
}
