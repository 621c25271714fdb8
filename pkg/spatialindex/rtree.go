package spatialindex

import (
	"errors"
	"math"

	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

var ErrNodeNotFound = errors.New("no street network node found near the given coordinate")

// NodeLocator snaps coordinates to the nearest graph vertex.
// points are stored as (x, y): projected meters when a projection is set, (lon, lat) degrees otherwise.
type NodeLocator struct {
	tr         *rtree.RTreeG[da.Index]
	projection geo.Projection
	size       int
}

func NewNodeLocator(projection geo.Projection) *NodeLocator {
	var tr rtree.RTreeG[da.Index]
	return &NodeLocator{
		tr:         &tr,
		projection: projection,
	}
}

// Build. inserts every vertex of the graph, using the graph projection if any.
func (nl *NodeLocator) Build(graph *da.Graph, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("Building R-tree spatial index...", zap.Bool("projected", nl.projection != nil))

	graph.ForVertices(func(v *da.Vertex) {
		nl.Insert(v.GetID(), v.GetLat(), v.GetLon())
	})

	log.Info("R-tree spatial index built.", zap.Int("vertices", nl.size))
}

func (nl *NodeLocator) Insert(id da.Index, lat, lon float64) {
	p := nl.point(lat, lon)
	nl.tr.Insert(p, p, id)
	nl.size++
}

func (nl *NodeLocator) Len() int {
	return nl.size
}

func (nl *NodeLocator) point(lat, lon float64) [2]float64 {
	if nl.projection != nil {
		x, y := nl.projection.Project(lat, lon)
		return [2]float64{x, y}
	}
	return [2]float64{lon, lat}
}

/*
NearestNode. best-first nearest neighbour search on the r-tree with euclidean distance in index space.
vertices at exactly the same distance resolve to the lowest vertex id, so equal input always gives equal output.
*/
func (nl *NodeLocator) NearestNode(lat, lon float64) (da.Index, error) {
	if nl.size == 0 {
		return da.INVALID_VERTEX_ID, ErrNodeNotFound
	}
	if !util.IsFinite(lat) || !util.IsFinite(lon) {
		return da.INVALID_VERTEX_ID, ErrNodeNotFound
	}

	q := nl.point(lat, lon)
	best := da.INVALID_VERTEX_ID
	bestDist := math.Inf(1)

	nl.tr.Nearby(
		func(min, max [2]float64, data da.Index, item bool) float64 {
			return boxDist(q, min, max)
		},
		func(min, max [2]float64, data da.Index, dist float64) bool {
			if dist > bestDist {
				return false
			}
			if dist < bestDist || data < best {
				best = data
				bestDist = dist
			}
			return true
		},
	)

	if best == da.INVALID_VERTEX_ID {
		return da.INVALID_VERTEX_ID, ErrNodeNotFound
	}
	return best, nil
}

// boxDist squared euclidean distance from p to the rectangle [min, max]. zero when p is inside.
func boxDist(p, min, max [2]float64) float64 {
	dist := 0.0
	for i := 0; i < 2; i++ {
		var d float64
		if p[i] < min[i] {
			d = min[i] - p[i]
		} else if p[i] > max[i] {
			d = p[i] - max[i]
		}
		dist += d * d
	}
	return dist
}
