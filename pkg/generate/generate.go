// Package generate builds random graphs of several families.
//
// Every generator replaces the contents of the graph it is given. Parameters
// are validated first, so an INVALID_ARGUMENT error leaves the graph
// untouched. Randomness comes from a PCG source seeded through [WithSeed];
// two generators with the same parameters and seed build the same graph.
package generate

import (
	"math/rand/v2"

	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/graph"
)

// Generator replaces the contents of a graph.
type Generator interface {
	Name() string
	Generate(g *graph.Graph) error
}

// Option configures a generator.
type Option func(*family)

// WithSeed fixes the random seed. Without it every run differs.
func WithSeed(seed uint64) Option {
	return func(f *family) { f.seed, f.seeded = seed, true }
}

// family is the shared Generator implementation: a parameter check and a
// builder that runs on a cleared graph.
type family struct {
	name     string
	seed     uint64
	seeded   bool
	validate func() error
	build    func(g *graph.Graph, r *rand.Rand)
}

func newFamily(name string, validate func() error, build func(*graph.Graph, *rand.Rand), opts []Option) *family {
	f := &family{name: name, validate: validate, build: build}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the family name.
func (f *family) Name() string { return f.name }

// Generate clears g and builds a new random graph into it.
func (f *family) Generate(g *graph.Graph) error {
	if err := f.validate(); err != nil {
		return err
	}
	seed := f.seed
	if !f.seeded {
		seed = rand.Uint64()
	}
	g.Clear()
	f.build(g, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidArgument, format, args...)
}

// checkSize rejects negative counts and counts above MaxNodes or MaxEdges.
func checkSize(family string, n, m int) error {
	if n < 0 || m < 0 {
		return invalid("%s graph needs n >= 0 and m >= 0, got n=%d m=%d", family, n, m)
	}
	if n > MaxNodes {
		return invalid("%s graph: %d nodes exceeds the limit of %d", family, n, MaxNodes)
	}
	if m > MaxEdges {
		return invalid("%s graph: %d edges exceeds the limit of %d", family, m, MaxEdges)
	}
	return nil
}

func addNodes(g *graph.Graph, n int) []*graph.Node {
	nodes := make([]*graph.Node, n)
	for i := range nodes {
		nodes[i] = g.AddNode()
	}
	return nodes
}

// connect adds an edge between nodes the generator created itself, which
// are always live.
func connect(g *graph.Graph, a, b *graph.Node) {
	if _, err := g.AddEdge(a, b); err != nil {
		panic(err)
	}
}

// Random builds n nodes and m edges with uniformly chosen endpoints.
// Self-loops and parallel edges may occur.
func Random(n, m int, opts ...Option) Generator {
	return newFamily("random",
		func() error {
			if err := checkSize("random", n, m); err != nil {
				return err
			}
			if n == 0 && m > 0 {
				return invalid("cannot place %d edges without nodes", m)
			}
			return nil
		},
		func(g *graph.Graph, r *rand.Rand) {
			nodes := addNodes(g, n)
			for i := 0; i < m; i++ {
				connect(g, nodes[r.IntN(n)], nodes[r.IntN(n)])
			}
		}, opts)
}

// RandomSimple builds n nodes and m edges without self-loops or parallel
// edges (in either direction). Fails when m > n(n-1)/2.
func RandomSimple(n, m int, opts ...Option) Generator {
	return newFamily("simple",
		func() error {
			if err := checkSize("simple", n, m); err != nil {
				return err
			}
			if limit := int64(n) * int64(n-1) / 2; int64(m) > limit {
				return invalid("cannot generate a simple graph with %d nodes and %d edges", n, m)
			}
			return nil
		},
		func(g *graph.Graph, r *rand.Rand) {
			nodes := addNodes(g, n)
			for _, p := range samplePairs(n, m, r) {
				a, b := nodes[p[0]], nodes[p[1]]
				if r.IntN(2) == 0 {
					a, b = b, a
				}
				connect(g, a, b)
			}
		}, opts)
}

// samplePairs picks m distinct unordered pairs i<j out of n. Dense requests
// shuffle the full pair list, which holds fewer than 2*MaxEdges pairs;
// sparse ones use rejection sampling.
func samplePairs(n, m int, r *rand.Rand) [][2]int {
	total := int(int64(n) * int64(n-1) / 2)
	if 2*m > total {
		all := make([][2]int, 0, total)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				all = append(all, [2]int{i, j})
			}
		}
		r.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		return all[:m]
	}
	seen := make(map[[2]int]bool, m)
	out := make([][2]int, 0, m)
	for len(out) < m {
		i, j := r.IntN(n), r.IntN(n)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		p := [2]int{i, j}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// RandomBiconnected builds a biconnected graph: a Hamiltonian cycle over a
// random permutation of n nodes plus m-n random chords. Requires n >= 3
// and m >= n.
func RandomBiconnected(n, m int, opts ...Option) Generator {
	return newFamily("biconnected",
		func() error {
			if err := checkSize("biconnected", n, m); err != nil {
				return err
			}
			if n < 3 {
				return invalid("biconnected graph needs at least 3 nodes, got %d", n)
			}
			if m < n {
				return invalid("biconnected graph with %d nodes needs at least %d edges, got %d", n, n, m)
			}
			return nil
		},
		func(g *graph.Graph, r *rand.Rand) {
			nodes := addNodes(g, n)
			perm := r.Perm(n)
			for i := range perm {
				connect(g, nodes[perm[i]], nodes[perm[(i+1)%n]])
			}
			for i := n; i < m; i++ {
				a := r.IntN(n)
				b := r.IntN(n - 1)
				if b >= a {
					b++
				}
				connect(g, nodes[a], nodes[b])
			}
		}, opts)
}

// RandomTree builds a rooted tree of n nodes with edges directed from
// parent to child. Each node has at most maxDegree children and each depth
// holds at most maxWidth nodes; zero or a negative value leaves a bound
// off.
func RandomTree(n, maxDegree, maxWidth int, opts ...Option) Generator {
	return newFamily("tree",
		func() error {
			return checkSize("tree", n, 0)
		},
		func(g *graph.Graph, r *rand.Rand) {
			if n == 0 {
				return
			}
			nodes := addNodes(g, n)
			children := make([]int, n)
			depth := make([]int, n)
			width := []int{1}
			full := func(d int) bool {
				return maxWidth > 0 && d < len(width) && width[d] >= maxWidth
			}
			// open holds nodes that may still get children. The deepest
			// node always qualifies, so the loop never runs dry.
			open := []int{0}
			drop := func(k int) {
				open[k] = open[len(open)-1]
				open = open[:len(open)-1]
			}
			for i := 1; i < n; {
				k := r.IntN(len(open))
				parent := open[k]
				if full(depth[parent] + 1) {
					drop(k)
					continue
				}
				connect(g, nodes[parent], nodes[i])
				children[parent]++
				depth[i] = depth[parent] + 1
				if depth[i] == len(width) {
					width = append(width, 0)
				}
				width[depth[i]]++
				if maxDegree > 0 && children[parent] >= maxDegree {
					drop(k)
				}
				open = append(open, i)
				i++
			}
		}, opts)
}

// RandomDiGraph adds each ordered pair of distinct nodes as an edge with
// probability p.
func RandomDiGraph(n int, p float64, opts ...Option) Generator {
	return newFamily("digraph",
		func() error {
			if err := checkSize("digraph", n, 0); err != nil {
				return err
			}
			if float64(n)*float64(n-1) > maxDigraphPairs {
				return invalid("digraph with %d nodes has too many candidate edges", n)
			}
			if p < 0 || p > 1 {
				return invalid("edge probability must be in [0, 1], got %g", p)
			}
			return nil
		},
		func(g *graph.Graph, r *rand.Rand) {
			nodes := addNodes(g, n)
			for i := range nodes {
				for j := range nodes {
					if i != j && r.Float64() < p {
						connect(g, nodes[i], nodes[j])
					}
				}
			}
		}, opts)
}
