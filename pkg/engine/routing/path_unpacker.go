package routing

import (
	"math"

	"github.com/lintang-b-s/cityroute/pkg"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"go.uber.org/zap"
)

// PathUnpacker turns a vertex path into the (lat, lon) polyline of the streets actually traversed.
type PathUnpacker struct {
	graph  *da.Graph
	logger *zap.Logger
}

func NewPathUnpacker(graph *da.Graph, logger *zap.Logger) *PathUnpacker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PathUnpacker{
		graph:  graph,
		logger: logger,
	}
}

/*
ReconstructGeometry. for every consecutive (u, v) of path take the first parallel edge u->v (same edge the dijkstra relaxes).
edge geometry is stored (lng, lat) and emitted (lat, lng). the first point of an edge geometry is dropped if it is exactly the last emitted point.
edges without geometry emit the coordinates of u and v.

after stitching, points with non-finite coordinates are dropped and so are points within GEOMETRY_DEDUP_EPS degrees
(on both axes) of the previous kept point.
*/
func (pu *PathUnpacker) ReconstructGeometry(path []da.Index) []geo.Coordinate {
	if len(path) == 0 {
		return []geo.Coordinate{}
	}

	stitched := make([]geo.Coordinate, 0, 2*len(path))
	appendPoint := func(c geo.Coordinate, skipExactRepeat bool) {
		if skipExactRepeat && len(stitched) > 0 && stitched[len(stitched)-1] == c {
			return
		}
		stitched = append(stitched, c)
	}

	if len(path) == 1 {
		appendPoint(pu.vertexCoordinate(path[0]), false)
	}

	for i := 0; i+1 < len(path); i++ {
		u, v := path[i], path[i+1]
		e := pu.graph.GetEdge(u, v)

		if e == nil || !e.HasGeometry() {
			if e == nil {
				pu.logger.Debug("no edge between consecutive path vertices, using vertex coordinates",
					zap.Uint32("from", uint32(u)), zap.Uint32("to", uint32(v)))
			}
			appendPoint(pu.vertexCoordinate(u), true)
			appendPoint(pu.vertexCoordinate(v), true)
			continue
		}

		for j, p := range e.GetGeometry() {
			// orb.Point is (lng, lat)
			appendPoint(geo.NewCoordinate(p.Lat(), p.Lon()), j == 0)
		}
	}

	return pu.dedup(stitched)
}

func (pu *PathUnpacker) vertexCoordinate(u da.Index) geo.Coordinate {
	lat, lon := pu.graph.GetVertexCoordinates(u)
	return geo.NewCoordinate(lat, lon)
}

func (pu *PathUnpacker) dedup(points []geo.Coordinate) []geo.Coordinate {
	out := make([]geo.Coordinate, 0, len(points))
	for _, p := range points {
		if !util.IsFinite(p.Lat) || !util.IsFinite(p.Lon) {
			pu.logger.Debug("dropping non-finite geometry point",
				zap.Float64("lat", p.Lat), zap.Float64("lon", p.Lon))
			continue
		}
		if len(out) > 0 && nearlyEqual(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func nearlyEqual(a, b geo.Coordinate) bool {
	return math.Abs(a.Lat-b.Lat) < pkg.GEOMETRY_DEDUP_EPS && math.Abs(a.Lon-b.Lon) < pkg.GEOMETRY_DEDUP_EPS
}
