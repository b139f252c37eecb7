package generate

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/graphlive/pkg/graph"
)

// RandomHierarchy builds a layered DAG of n nodes and m edges. Every edge
// points from a lower layer to a higher one. Without longEdges, edges
// only connect adjacent layers.
//
// With singleSource, layer 0 holds exactly one node and every other node
// gets an incoming edge from the layer above, so m must be at least n-1.
//
// With planar, layers hold consecutive node indices and edges between
// two adjacent layers never cross when both layers are drawn in index
// order. Planar hierarchies have no long edges and no parallel edges, so
// m is bounded by the sum of |L_i| + |L_i+1| - 1 over adjacent layers.
func RandomHierarchy(n, m int, singleSource, longEdges, planar bool, opts ...Option) Generator {
	layersFor := func() int {
		if n <= 1 {
			return n
		}
		return min(n, max(2, int(math.Ceil(math.Sqrt(float64(n))))))
	}
	return newFamily("hierarchy",
		func() error {
			if err := checkSize("hierarchy", n, m); err != nil {
				return err
			}
			if m > 0 && layersFor() < 2 {
				return invalid("hierarchy with %d nodes has no room for edges", n)
			}
			if singleSource && n > 0 && m < n-1 {
				return invalid("single-source hierarchy with %d nodes needs at least %d edges, got %d", n, n-1, m)
			}
			if planar && longEdges {
				return invalid("planar hierarchy cannot have long edges")
			}
			if planar && n > 0 {
				if limit := planarCapacity(evenLayers(n, layersFor(), singleSource)); m > limit {
					return invalid("planar hierarchy with %d nodes holds at most %d edges, got %d", n, limit, m)
				}
			}
			return nil
		},
		func(g *graph.Graph, r *rand.Rand) {
			if n == 0 {
				return
			}
			nodes := addNodes(g, n)
			if planar {
				buildPlanarHierarchy(g, nodes, evenLayers(n, layersFor(), singleSource), m, singleSource, r)
				return
			}
			layerOf, members := assignLayers(n, layersFor(), singleSource, r)
			last := len(members) - 1

			placed := 0
			if singleSource {
				for v := 1; v < n; v++ {
					above := members[layerOf[v]-1]
					connect(g, nodes[above[r.IntN(len(above))]], nodes[v])
					placed++
				}
			}

			var sources []int
			for v := range nodes {
				if layerOf[v] < last {
					sources = append(sources, v)
				}
			}
			for ; placed < m; placed++ {
				u := sources[r.IntN(len(sources))]
				target := layerOf[u] + 1
				if longEdges {
					target += r.IntN(last - layerOf[u])
				}
				below := members[target]
				connect(g, nodes[u], nodes[below[r.IntN(len(below))]])
			}
		}, opts)
}

// evenLayers splits n nodes over k layers whose sizes differ by at most
// one. With singleSource, layer 0 has exactly one node.
func evenLayers(n, k int, singleSource bool) []int {
	sizes := make([]int, k)
	first := 0
	if singleSource {
		sizes[0] = 1
		first = 1
	}
	rest, slots := n-first, k-first
	for l := first; l < k; l++ {
		sizes[l] = rest / slots
		if l-first < rest%slots {
			sizes[l]++
		}
	}
	return sizes
}

// planarCapacity is the largest crossing-free edge count between adjacent
// layers of the given sizes.
func planarCapacity(sizes []int) int {
	total := 0
	for l := 0; l+1 < len(sizes); l++ {
		total += sizes[l] + sizes[l+1] - 1
	}
	return total
}

// buildPlanarHierarchy draws a random monotone staircase between every
// pair of adjacent layers and keeps m of its edges. Any subset of a
// staircase is crossing-free. With singleSource, the first staircase edge
// reaching each node is kept so that every node below layer 0 has a
// parent.
func buildPlanarHierarchy(g *graph.Graph, nodes []*graph.Node, sizes []int, m int, singleSource bool, r *rand.Rand) {
	first := make([]int, len(sizes))
	for l := 1; l < len(sizes); l++ {
		first[l] = first[l-1] + sizes[l-1]
	}

	var required, optional [][2]int
	for l := 0; l+1 < len(sizes); l++ {
		reached := make([]bool, sizes[l+1])
		for _, p := range staircase(sizes[l], sizes[l+1], r) {
			e := [2]int{first[l] + p[0], first[l+1] + p[1]}
			if singleSource && !reached[p[1]] {
				reached[p[1]] = true
				required = append(required, e)
				continue
			}
			optional = append(optional, e)
		}
	}
	r.Shuffle(len(optional), func(i, j int) { optional[i], optional[j] = optional[j], optional[i] })

	for _, e := range required {
		connect(g, nodes[e[0]], nodes[e[1]])
	}
	for _, e := range optional[:m-len(required)] {
		connect(g, nodes[e[0]], nodes[e[1]])
	}
}

// staircase returns a random lattice path from (0, 0) to (a-1, b-1) that
// steps in one coordinate at a time: a+b-1 distinct pairs, none of which
// cross when read as edges between two ordered rows.
func staircase(a, b int, r *rand.Rand) [][2]int {
	path := make([][2]int, 1, a+b-1)
	i, j := 0, 0
	for i < a-1 || j < b-1 {
		switch {
		case i == a-1:
			j++
		case j == b-1:
			i++
		case r.IntN(2) == 0:
			i++
		default:
			j++
		}
		path = append(path, [2]int{i, j})
	}
	return path
}

// assignLayers spreads n nodes over k layers so that no layer is empty.
// With singleSource, node 0 is alone in layer 0.
func assignLayers(n, k int, singleSource bool, r *rand.Rand) ([]int, [][]int) {
	layerOf := make([]int, n)
	members := make([][]int, k)
	place := func(v, l int) {
		layerOf[v] = l
		members[l] = append(members[l], v)
	}

	first := 0
	if singleSource {
		place(0, 0)
		first = 1
	}
	// Seed every remaining layer, then scatter the rest.
	v := first
	for l := first; l < k; l++ {
		place(v, l)
		v++
	}
	for ; v < n; v++ {
		place(v, first+r.IntN(k-first))
	}
	return layerOf, members
}
