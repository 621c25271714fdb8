package usecases

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/lintang-b-s/cityroute/pkg"
	"github.com/lintang-b-s/cityroute/pkg/engine"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrGraphNotLoaded = errors.New("street graph is not loaded yet")
	ErrPathNotFound   = errors.New("path not found")
)

const (
	ALGORITHM_NAME       = "Dijkstra (binary heap, early exit)"
	ALGORITHM_COMPLEXITY = "O((V + E) log V)"
	ALGORITHM_SPACE      = "O(V)"
)

type Route struct {
	Distance  float64          // weighted cost, meter
	Path      []geo.Coordinate // (lat, lon)
	Polyline  string
	NodeCount int
	Mode      pkg.TravelMode
	Eta       float64 // minute, average city speed of Mode
}

type GraphInfo struct {
	CityName                   string
	NumberOfVertices           int
	NumberOfEdges              int
	NumberOfRandomizedEdges    int
	RandomizationActive        bool
	MeanRandomFactor           float64
	StronglyConnectedComponent int
	Projected                  bool
	Bounds                     [2]geo.Coordinate // south-west, north-east corner of the street nodes
	Algorithm                  string
	TimeComplexity             string
	SpaceComplexity            string
}

// RoutingService answers in-city shortest path queries. The engine is set once it finished loading,
// queries before that fail with ErrGraphNotLoaded.
type RoutingService struct {
	log    *zap.Logger
	engine atomic.Pointer[engine.Engine]
}

func NewRoutingService(log *zap.Logger, e *engine.Engine) *RoutingService {
	rs := &RoutingService{log: log}
	if e != nil {
		rs.engine.Store(e)
	}
	return rs
}

func (rs *RoutingService) SetEngine(e *engine.Engine) {
	rs.engine.Store(e)
}

func (rs *RoutingService) IsReady() bool {
	return rs.engine.Load() != nil
}

func (rs *RoutingService) ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64,
	mode pkg.TravelMode) (*Route, error) {
	e := rs.engine.Load()
	if e == nil {
		return nil, util.WrapErrorf(ErrGraphNotLoaded, util.ErrServiceUnavailable, "routing engine is still loading")
	}

	re := e.GetRoutingEngine()
	bb := re.GetGraph().GetBoundingBox()
	if !bb.Contains(origLat, origLon) || !bb.Contains(dstLat, dstLon) {
		rs.log.Warn("query point outside the city bounds, snapping to the closest street node",
			zap.Float64("origin_lat", origLat), zap.Float64("origin_lon", origLon),
			zap.Float64("destination_lat", dstLat), zap.Float64("destination_lon", dstLon))
	}

	locator := e.GetNodeLocator()
	origin, err := locator.NearestNode(origLat, origLon)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "no street node near origin %f,%f", origLat, origLon)
	}
	destination, err := locator.NearestNode(dstLat, dstLon)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "no street node near destination %f,%f", dstLat, dstLon)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, cost, found := re.GetShortestPathFinder().ShortestPath(origin, destination)
	if !found {
		return nil, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound, "no path found from %f,%f to %f,%f",
			origLat, origLon, dstLat, dstLon)
	}

	coords := re.GetGeometryReconstructor().ReconstructGeometry(path)

	rs.log.Debug("shortest path found",
		zap.Uint32("origin", uint32(origin)), zap.Uint32("destination", uint32(destination)),
		zap.Float64("cost", cost), zap.Int("nodes", len(path)))

	return &Route{
		Distance:  cost,
		Path:      coords,
		Polyline:  geo.PoylineFromCoords(coords),
		NodeCount: len(path),
		Mode:      mode,
		Eta:       EstimateTravelTime(cost, mode),
	}, nil
}

// EstimateTravelTime minutes needed to travel distance meters at the average speed of mode.
func EstimateTravelTime(distance float64, mode pkg.TravelMode) float64 {
	speed := pkg.GetTravelModeSpeed(mode) // km/h
	return util.RoundFloat(distance/1000.0/speed*60.0, 2)
}

func (rs *RoutingService) GraphInfo() (*GraphInfo, error) {
	e := rs.engine.Load()
	if e == nil {
		return nil, util.WrapErrorf(ErrGraphNotLoaded, util.ErrServiceUnavailable, "routing engine is still loading")
	}

	g := e.GetRoutingEngine().GetGraph()
	stats := e.GetRandomizationStats()
	bb := g.GetBoundingBox()
	bounds := [2]geo.Coordinate{
		geo.NewCoordinate(bb.GetMinLat(), bb.GetMinLon()),
		geo.NewCoordinate(bb.GetMaxLat(), bb.GetMaxLon()),
	}
	return &GraphInfo{
		CityName:                   e.GetCityName(),
		NumberOfVertices:           g.NumberOfVertices(),
		NumberOfEdges:              g.NumberOfEdges(),
		NumberOfRandomizedEdges:    g.NumberOfCustomizedEdges(),
		RandomizationActive:        g.NumberOfCustomizedEdges() > 0,
		MeanRandomFactor:           stats.MeanFactor,
		StronglyConnectedComponent: e.NumberOfStronglyConnectedComponents(),
		Projected:                  g.IsProjected(),
		Bounds:                     bounds,
		Algorithm:                  ALGORITHM_NAME,
		TimeComplexity:             ALGORITHM_COMPLEXITY,
		SpaceComplexity:            ALGORITHM_SPACE,
	}, nil
}
