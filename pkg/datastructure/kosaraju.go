package datastructure

import (
	"github.com/lintang-b-s/cityroute/pkg/util"
)

// RunKosaraju. runs kosaraju's algorithm to find strongly connected components (SCCs) of the street graph.
// returns scc id of every vertex and the number of components.
func (g *Graph) RunKosaraju() ([]Index, int) {
	n := g.NumberOfVertices()

	// reversed adjacency for the second pass
	revAdj := make([][]Index, n)
	g.ForEdges(func(e *Edge) {
		revAdj[e.head] = append(revAdj[e.head], e.tail)
	})

	order := make([]Index, 0, n)
	visited := make([]bool, n)
	for v := 0; v < n; v++ {
		if !visited[v] {
			g.dfs(Index(v), &order, visited, nil)
		}
	}

	order = util.ReverseG[Index](order)

	// reset visited
	visited = make([]bool, n)
	sccs := make([]Index, n)
	numComponents := 0

	for _, v := range order {
		if !visited[v] {
			component := make([]Index, 0, 10)
			g.dfs(v, &component, visited, revAdj)
			for _, node := range component {
				sccs[node] = Index(numComponents)
			}
			numComponents++
		}
	}

	return sccs, numComponents
}

// dfs iterative post-order dfs. revAdj == nil means forward edges.
func (g *Graph) dfs(s Index, output *[]Index, visited []bool, revAdj [][]Index) {
	type frame struct {
		v    Index
		next int
	}

	neighbors := func(v Index) []Index {
		if revAdj != nil {
			return revAdj[v]
		}
		out := make([]Index, 0, g.GetOutDegree(v))
		g.ForOutEdgesOf(v, func(e *Edge) {
			out = append(out, e.head)
		})
		return out
	}

	visited[s] = true
	stack := []frame{{v: s}}
	adj := map[Index][]Index{s: neighbors(s)}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		ns := adj[top.v]
		if top.next < len(ns) {
			w := ns[top.next]
			top.next++
			if !visited[w] {
				visited[w] = true
				adj[w] = neighbors(w)
				stack = append(stack, frame{v: w})
			}
			continue
		}

		*output = append(*output, top.v)
		delete(adj, top.v)
		stack = stack[:len(stack)-1]
	}
}
