package routing

import (
	"github.com/lintang-b-s/cityroute/pkg"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/util"
)

// Dijkstra point-to-point shortest path on the randomized street graph.
// The struct holds no per-query state, every ShortestPath call allocates its own labels & heap,
// so one Dijkstra can serve concurrent requests.
type Dijkstra struct {
	graph *da.Graph
}

func NewDijkstra(graph *da.Graph) *Dijkstra {
	return &Dijkstra{
		graph: graph,
	}
}

/*
ShortestPath. textbook dijkstra with a binary heap and lazy deletion (no decrease-key):
a vertex may sit in the heap several times, stale entries are skipped when popped because the vertex is already settled.
search stops as soon as the destination is settled.

for parallel edges u->v only the first one (key 0, enumeration order) is relaxed, and a label is only replaced when
strictly smaller, so equal-cost ties keep the first predecessor found.

time complexity: O((V+E) log V), space O(V)

returns (path, cost, true) or (nil, 0, false) when destination is unreachable.
*/
func (d *Dijkstra) ShortestPath(origin, destination da.Index) ([]da.Index, float64, bool) {
	if !d.graph.IsValidVertex(origin) || !d.graph.IsValidVertex(destination) {
		return nil, 0, false
	}
	if origin == destination {
		return []da.Index{origin}, 0, true
	}

	info := newVertexInfos(d.graph.NumberOfVertices())
	pq := da.NewBinaryHeap[da.Index]()
	pq.Preallocate(d.graph.GetOutDegree(origin) + 1)

	info[origin].dist = 0
	pq.Insert(da.NewPriorityQueueNode(0, origin))

	found := false
	for !pq.IsEmpty() {
		node, _ := pq.ExtractMin()
		u := node.GetItem()
		if info[u].settled {
			continue
		}
		info[u].settled = true

		if u == destination {
			found = true
			break
		}

		d.graph.ForOutEdgesOf(u, func(e *da.Edge) {
			if e.GetKey() != 0 {
				// parallel edge, the first one already represents (u, v)
				return
			}
			v := e.GetHead()
			if info[v].settled {
				return
			}

			newDist := info[u].dist + e.GetWeight()
			if newDist < info[v].dist {
				info[v].dist = newDist
				info[v].parent = u
				pq.Insert(da.NewPriorityQueueNode(newDist, v))
			}
		})
	}

	if !found {
		return nil, 0, false
	}

	path := make([]da.Index, 0, 16)
	for v := destination; v != da.INVALID_VERTEX_ID; v = info[v].parent {
		path = append(path, v)
	}

	return util.ReverseG(path), info[destination].dist, true
}

// PathCost sums the first-parallel-edge weights along path. pkg.INF_WEIGHT when two consecutive vertices are not adjacent.
func PathCost(g *da.Graph, path []da.Index) float64 {
	cost := 0.0
	for i := 0; i+1 < len(path); i++ {
		e := g.GetEdge(path[i], path[i+1])
		if e == nil {
			return pkg.INF_WEIGHT
		}
		cost += e.GetWeight()
	}
	return cost
}
