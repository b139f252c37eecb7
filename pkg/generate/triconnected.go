package generate

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/graphlive/pkg/graph"
)

// splitAttempts bounds the search for a node of degree four or more.
const splitAttempts = 8

// RandomTriconnected builds a simple 3-connected graph of n >= 4 nodes.
// It starts from K4 and adds one node at a time, either by splitting an
// existing node of degree four or more (with probability p1) or by
// attaching the new node to three distinct existing nodes. A split keeps
// two neighbours on the old node, moves two to the new one, and moves
// each further neighbour with probability p2. Both steps preserve
// 3-connectivity.
func RandomTriconnected(n int, p1, p2 float64, opts ...Option) Generator {
	return newFamily("triconnected",
		func() error {
			if err := checkSize("triconnected", n, 0); err != nil {
				return err
			}
			if n < 4 {
				return invalid("triconnected graph needs at least 4 nodes, got %d", n)
			}
			if p1 < 0 || p1 > 1 || p2 < 0 || p2 > 1 {
				return invalid("probabilities must be in [0, 1], got %g and %g", p1, p2)
			}
			return nil
		},
		func(g *graph.Graph, r *rand.Rand) {
			b := newSimpleBuilder(g, n)
			for i := 0; i < 4; i++ {
				for j := i + 1; j < 4; j++ {
					b.link(i, j)
				}
			}
			for u := 4; u < n; u++ {
				if r.Float64() < p1 {
					if v, ok := b.splittable(u, r); ok {
						b.split(v, u, p2, r)
						continue
					}
				}
				b.attach(u, r)
			}
		}, opts)
}

// simpleBuilder tracks adjacency so a generator can keep its graph simple
// and move edges between nodes.
type simpleBuilder struct {
	g     *graph.Graph
	nodes []*graph.Node
	edges map[[2]int]*graph.Edge
	nbrs  []map[int]bool
}

func newSimpleBuilder(g *graph.Graph, n int) *simpleBuilder {
	b := &simpleBuilder{
		g:     g,
		nodes: addNodes(g, n),
		edges: make(map[[2]int]*graph.Edge),
		nbrs:  make([]map[int]bool, n),
	}
	for i := range b.nbrs {
		b.nbrs[i] = make(map[int]bool)
	}
	return b
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func (b *simpleBuilder) link(a, c int) {
	e, err := b.g.AddEdge(b.nodes[a], b.nodes[c])
	if err != nil {
		panic(err)
	}
	b.edges[pairKey(a, c)] = e
	b.nbrs[a][c] = true
	b.nbrs[c][a] = true
}

func (b *simpleBuilder) unlink(a, c int) {
	k := pairKey(a, c)
	if err := b.g.RemoveEdge(b.edges[k]); err != nil {
		panic(err)
	}
	delete(b.edges, k)
	delete(b.nbrs[a], c)
	delete(b.nbrs[c], a)
}

// neighbours returns v's neighbours in ascending order, so that seeded
// runs do not depend on map iteration order.
func (b *simpleBuilder) neighbours(v int) []int {
	out := make([]int, 0, len(b.nbrs[v]))
	for w := range b.nbrs[v] {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// splittable picks a random node below u with degree four or more.
func (b *simpleBuilder) splittable(u int, r *rand.Rand) (int, bool) {
	for range splitAttempts {
		if v := r.IntN(u); len(b.nbrs[v]) >= 4 {
			return v, true
		}
	}
	return 0, false
}

// split links the new node u to v and moves part of v's neighbours to u,
// leaving each with at least three neighbours.
func (b *simpleBuilder) split(v, u int, p float64, r *rand.Rand) {
	nb := b.neighbours(v)
	r.Shuffle(len(nb), func(i, j int) { nb[i], nb[j] = nb[j], nb[i] })
	b.link(v, u)
	for i, w := range nb[2:] {
		if i < 2 || r.Float64() < p {
			b.unlink(v, w)
			b.link(u, w)
		}
	}
}

// attach links the new node u to three distinct nodes below it.
func (b *simpleBuilder) attach(u int, r *rand.Rand) {
	for len(b.nbrs[u]) < 3 {
		if w := r.IntN(u); !b.nbrs[u][w] {
			b.link(u, w)
		}
	}
}
