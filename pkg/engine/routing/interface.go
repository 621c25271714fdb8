package routing

import (
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/geo"
)

type ShortestPathFinder interface {
	ShortestPath(origin, destination da.Index) ([]da.Index, float64, bool)
}

type GeometryReconstructor interface {
	ReconstructGeometry(path []da.Index) []geo.Coordinate
}
