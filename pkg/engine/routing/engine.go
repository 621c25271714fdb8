package routing

import (
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"go.uber.org/zap"
)

// RoutingEngine bundles the read-only graph with its query algorithms.
type RoutingEngine struct {
	graph        *da.Graph
	logger       *zap.Logger
	dijkstra     *Dijkstra
	pathUnpacker *PathUnpacker
}

func NewRoutingEngine(graph *da.Graph, logger *zap.Logger) *RoutingEngine {
	return &RoutingEngine{
		graph:        graph,
		logger:       logger,
		dijkstra:     NewDijkstra(graph),
		pathUnpacker: NewPathUnpacker(graph, logger),
	}
}

func (re *RoutingEngine) GetGraph() *da.Graph {
	return re.graph
}

func (re *RoutingEngine) GetShortestPathFinder() ShortestPathFinder {
	return re.dijkstra
}

func (re *RoutingEngine) GetGeometryReconstructor() GeometryReconstructor {
	return re.pathUnpacker
}
