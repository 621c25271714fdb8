package routing

import (
	"math"
	"testing"

	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeometryGraph(t *testing.T, coords [][2]float64, edges []*da.Edge) *da.Graph {
	t.Helper()
	vertices := make([]*da.Vertex, len(coords))
	for i, c := range coords {
		vertices[i] = da.NewVertex(c[0], c[1], da.Index(i))
	}
	g, err := da.NewGraph(vertices, edges)
	require.NoError(t, err)
	return g
}

func TestReconstructGeometryLngLatToLatLng(t *testing.T) {
	g := newGeometryGraph(t, [][2]float64{{-22.91, -42.80}, {-22.915, -42.805}}, []*da.Edge{
		da.NewEdge(0, 1, 700, orb.LineString{{-42.80, -22.91}, {-42.805, -22.915}}),
	})
	pu := NewPathUnpacker(g, nil)

	got := pu.ReconstructGeometry([]da.Index{0, 1})
	assert.Equal(t, []geo.Coordinate{
		geo.NewCoordinate(-22.91, -42.80),
		geo.NewCoordinate(-22.915, -42.805),
	}, got)
}

func TestReconstructGeometry(t *testing.T) {
	coords := [][2]float64{
		{-22.90, -42.80},
		{-22.91, -42.81},
		{-22.92, -42.82},
		{-22.93, -42.83},
	}

	tests := []struct {
		name  string
		edges []*da.Edge
		path  []da.Index
		want  []geo.Coordinate
	}{
		{
			name: "shared junction point emitted once",
			edges: []*da.Edge{
				da.NewEdge(0, 1, 1, orb.LineString{{-42.80, -22.90}, {-42.805, -22.905}, {-42.81, -22.91}}),
				da.NewEdge(1, 2, 1, orb.LineString{{-42.81, -22.91}, {-42.82, -22.92}}),
			},
			path: []da.Index{0, 1, 2},
			want: []geo.Coordinate{
				{Lat: -22.90, Lon: -42.80},
				{Lat: -22.905, Lon: -42.805},
				{Lat: -22.91, Lon: -42.81},
				{Lat: -22.92, Lon: -42.82},
			},
		},
		{
			name: "no geometry falls back to vertices",
			edges: []*da.Edge{
				da.NewEdge(0, 1, 1, nil),
				da.NewEdge(1, 2, 1, nil),
			},
			path: []da.Index{0, 1, 2},
			want: []geo.Coordinate{
				{Lat: -22.90, Lon: -42.80},
				{Lat: -22.91, Lon: -42.81},
				{Lat: -22.92, Lon: -42.82},
			},
		},
		{
			name: "mixed geometry and vertex fallback",
			edges: []*da.Edge{
				da.NewEdge(0, 1, 1, orb.LineString{{-42.80, -22.90}, {-42.81, -22.91}}),
				da.NewEdge(1, 2, 1, nil),
				da.NewEdge(2, 3, 1, orb.LineString{{-42.82, -22.92}, {-42.825, -22.925}, {-42.83, -22.93}}),
			},
			path: []da.Index{0, 1, 2, 3},
			want: []geo.Coordinate{
				{Lat: -22.90, Lon: -42.80},
				{Lat: -22.91, Lon: -42.81},
				{Lat: -22.92, Lon: -42.82},
				{Lat: -22.925, Lon: -42.825},
				{Lat: -22.93, Lon: -42.83},
			},
		},
		{
			name: "near duplicate from float noise removed",
			edges: []*da.Edge{
				da.NewEdge(0, 1, 1, orb.LineString{{-42.80, -22.90}, {-42.81, -22.91}}),
				da.NewEdge(1, 2, 1, orb.LineString{{-42.8100000001, -22.9100000001}, {-42.82, -22.92}}),
			},
			path: []da.Index{0, 1, 2},
			want: []geo.Coordinate{
				{Lat: -22.90, Lon: -42.80},
				{Lat: -22.91, Lon: -42.81},
				{Lat: -22.92, Lon: -42.82},
			},
		},
		{
			name: "non-finite point dropped",
			edges: []*da.Edge{
				da.NewEdge(0, 1, 1, orb.LineString{{-42.80, -22.90}, {math.NaN(), -22.905}, {-42.81, math.Inf(1)}, {-42.81, -22.91}}),
			},
			path: []da.Index{0, 1},
			want: []geo.Coordinate{
				{Lat: -22.90, Lon: -42.80},
				{Lat: -22.91, Lon: -42.81},
			},
		},
		{
			name: "first parallel edge geometry",
			edges: []*da.Edge{
				da.NewEdge(0, 1, 5, orb.LineString{{-42.80, -22.90}, {-42.90, -22.95}, {-42.81, -22.91}}),
				da.NewEdge(0, 1, 1, orb.LineString{{-42.80, -22.90}, {-42.81, -22.91}}),
			},
			path: []da.Index{0, 1},
			want: []geo.Coordinate{
				{Lat: -22.90, Lon: -42.80},
				{Lat: -22.95, Lon: -42.90},
				{Lat: -22.91, Lon: -42.81},
			},
		},
		{
			name:  "single vertex",
			edges: []*da.Edge{},
			path:  []da.Index{2},
			want:  []geo.Coordinate{{Lat: -22.92, Lon: -42.82}},
		},
		{
			name:  "empty path",
			edges: []*da.Edge{},
			path:  []da.Index{},
			want:  []geo.Coordinate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGeometryGraph(t, coords, tt.edges)
			pu := NewPathUnpacker(g, nil)
			assert.Equal(t, tt.want, pu.ReconstructGeometry(tt.path))
		})
	}
}

func TestReconstructGeometryNoConsecutiveNearDuplicates(t *testing.T) {
	// loop of edges whose geometry repeats the endpoints and jitters slightly
	coords := [][2]float64{{-22.90, -42.80}, {-22.90, -42.80}, {-22.91, -42.81}}
	g := newGeometryGraph(t, coords, []*da.Edge{
		da.NewEdge(0, 1, 1, orb.LineString{{-42.80, -22.90}, {-42.8000004, -22.9000004}}),
		da.NewEdge(1, 2, 1, nil),
		da.NewEdge(2, 0, 1, orb.LineString{{-42.81, -22.91}, {-42.81, -22.91}, {-42.80, -22.90}}),
	})
	pu := NewPathUnpacker(g, nil)

	got := pu.ReconstructGeometry([]da.Index{0, 1, 2, 0})
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		closeLat := math.Abs(got[i].Lat-got[i-1].Lat) < 1e-6
		closeLon := math.Abs(got[i].Lon-got[i-1].Lon) < 1e-6
		assert.False(t, closeLat && closeLon, "points %d and %d are near duplicates", i-1, i)
	}
}
