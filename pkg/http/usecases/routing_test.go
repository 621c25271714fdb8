package usecases

import (
	"context"
	"math"
	"testing"

	"github.com/lintang-b-s/cityroute/pkg"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/engine"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/spatialindex"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// 0 <-> 1 -> 2 <- 3, nothing leaves 2 so 3 is unreachable from it.
func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	vertices := []*da.Vertex{
		da.NewVertex(-22.910, -42.800, 0),
		da.NewVertex(-22.915, -42.805, 1),
		da.NewVertex(-22.920, -42.810, 2),
		da.NewVertex(-22.950, -42.850, 3),
	}
	edges := []*da.Edge{
		da.NewEdge(0, 1, 1000, nil),
		da.NewEdge(1, 0, 1000, nil),
		da.NewEdge(1, 2, 500, nil),
		da.NewEdge(3, 2, 200, nil),
	}
	g, err := da.NewGraph(vertices, edges)
	require.NoError(t, err)

	e, err := engine.NewEngineFromGraph(g, engine.Config{
		CityName:        "Maricá, Rio de Janeiro, Brazil",
		RandomFactorMin: 0.8,
		RandomFactorMax: 1.2,
		RandomSeed:      11,
	}, zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestShortestPath(t *testing.T) {
	rs := NewRoutingService(zap.NewNop(), newTestEngine(t))

	route, err := rs.ShortestPath(context.Background(), -22.9101, -42.8001, -22.9199, -42.8099, pkg.WALKING)
	require.NoError(t, err)

	assert.Equal(t, 3, route.NodeCount)
	assert.Len(t, route.Path, 3)
	assert.InDelta(t, -22.910, route.Path[0].Lat, 1e-12)
	assert.InDelta(t, -42.810, route.Path[2].Lon, 1e-12)
	assert.GreaterOrEqual(t, route.Distance, 0.8*1500)
	assert.LessOrEqual(t, route.Distance, 1.2*1500)
	assert.Equal(t, pkg.WALKING, route.Mode)
	assert.InDelta(t, route.Distance/1000/5*60, route.Eta, 0.01)
	assert.NotEmpty(t, route.Polyline)
}

func TestShortestPathSameNode(t *testing.T) {
	rs := NewRoutingService(zap.NewNop(), newTestEngine(t))

	route, err := rs.ShortestPath(context.Background(), -22.910, -42.800, -22.9101, -42.8001, pkg.DRIVING)
	require.NoError(t, err)
	assert.Equal(t, 1, route.NodeCount)
	assert.Equal(t, 0.0, route.Distance)
	assert.Len(t, route.Path, 1)
}

func TestShortestPathErrors(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		name     string
		engine   *engine.Engine
		coords   [4]float64
		wantErr  error
		wantCode error
	}{
		{
			name:     "engine not loaded",
			engine:   nil,
			coords:   [4]float64{-22.91, -42.80, -22.92, -42.81},
			wantErr:  ErrGraphNotLoaded,
			wantCode: util.ErrServiceUnavailable,
		},
		{
			name:     "origin cannot be resolved",
			engine:   e,
			coords:   [4]float64{math.NaN(), -42.80, -22.92, -42.81},
			wantErr:  spatialindex.ErrNodeNotFound,
			wantCode: util.ErrNotFound,
		},
		{
			name:     "destination cannot be resolved",
			engine:   e,
			coords:   [4]float64{-22.91, -42.80, -22.92, math.Inf(1)},
			wantErr:  spatialindex.ErrNodeNotFound,
			wantCode: util.ErrNotFound,
		},
		{
			name:     "destination unreachable",
			engine:   e,
			coords:   [4]float64{-22.92, -42.81, -22.95, -42.85},
			wantErr:  ErrPathNotFound,
			wantCode: util.ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs := NewRoutingService(zap.NewNop(), tc.engine)
			route, err := rs.ShortestPath(context.Background(), tc.coords[0], tc.coords[1], tc.coords[2], tc.coords[3], pkg.DRIVING)
			require.Error(t, err)
			assert.Nil(t, route)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, tc.wantCode)
		})
	}
}

func TestSetEngine(t *testing.T) {
	rs := NewRoutingService(zap.NewNop(), nil)
	assert.False(t, rs.IsReady())

	_, err := rs.GraphInfo()
	assert.ErrorIs(t, err, ErrGraphNotLoaded)

	rs.SetEngine(newTestEngine(t))
	assert.True(t, rs.IsReady())

	_, err = rs.ShortestPath(context.Background(), -22.91, -42.80, -22.92, -42.81, pkg.DRIVING)
	assert.NoError(t, err)
}

func TestShortestPathOutsideCityBounds(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rs := NewRoutingService(zap.New(core), newTestEngine(t))

	// south-west of every node, snaps to node 3
	route, err := rs.ShortestPath(context.Background(), -23.5, -43.0, -22.920, -42.810, pkg.DRIVING)
	require.NoError(t, err)
	assert.Equal(t, 2, route.NodeCount)
	assert.Equal(t, 1, logs.FilterMessageSnippet("outside the city bounds").Len())

	_, err = rs.ShortestPath(context.Background(), -22.910, -42.800, -22.920, -42.810, pkg.DRIVING)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
}

func TestGraphInfo(t *testing.T) {
	rs := NewRoutingService(zap.NewNop(), newTestEngine(t))

	info, err := rs.GraphInfo()
	require.NoError(t, err)
	assert.Equal(t, "Maricá, Rio de Janeiro, Brazil", info.CityName)
	assert.Equal(t, 4, info.NumberOfVertices)
	assert.Equal(t, 4, info.NumberOfEdges)
	assert.Equal(t, 4, info.NumberOfRandomizedEdges)
	assert.True(t, info.RandomizationActive)
	// {0,1} {2} {3}
	assert.Equal(t, 3, info.StronglyConnectedComponent)
	assert.False(t, info.Projected)
	assert.Equal(t, [2]geo.Coordinate{
		{Lat: -22.950, Lon: -42.850},
		{Lat: -22.910, Lon: -42.800},
	}, info.Bounds)
	assert.Equal(t, ALGORITHM_COMPLEXITY, info.TimeComplexity)
	assert.GreaterOrEqual(t, info.MeanRandomFactor, 0.8)
	assert.LessOrEqual(t, info.MeanRandomFactor, 1.2)
}

func TestEstimateTravelTime(t *testing.T) {
	cases := []struct {
		mode     pkg.TravelMode
		distance float64
		want     float64
	}{
		{pkg.DRIVING, 1500, 3},
		{pkg.WALKING, 1500, 18},
		{pkg.CYCLING, 1500, 6},
		{pkg.TravelMode("boat"), 1500, 3},
		{pkg.DRIVING, 0, 0},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			assert.InDelta(t, tc.want, EstimateTravelTime(tc.distance, tc.mode), 1e-9)
		})
	}
}
