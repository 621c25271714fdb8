package spatialindex

import (
	"testing"

	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T, coords [][2]float64) *da.Graph {
	t.Helper()
	vertices := make([]*da.Vertex, len(coords))
	for i, c := range coords {
		vertices[i] = da.NewVertex(c[0], c[1], da.Index(i))
	}
	g, err := da.NewGraph(vertices, []*da.Edge{})
	require.NoError(t, err)
	return g
}

var maricaVertices = [][2]float64{
	{-22.9190, -42.8186},
	{-22.9300, -42.8000},
	{-22.9500, -42.8300},
	{-22.9100, -42.7900},
	{-22.9650, -42.9000},
}

func TestNearestNode(t *testing.T) {
	g := newTestGraph(t, maricaVertices)

	projections := map[string]geo.Projection{
		"unprojected": nil,
		"mercator":    geo.NewMercatorProjection(),
	}

	tests := []struct {
		name     string
		lat, lon float64
		want     da.Index
	}{
		{"exact vertex", -22.9300, -42.8000, 1},
		{"close to vertex 0", -22.9191, -42.8185, 0},
		{"close to vertex 4", -22.9600, -42.8950, 4},
		{"outside bounding box", -22.8000, -42.7000, 3},
	}

	for pname, p := range projections {
		nl := NewNodeLocator(p)
		nl.Build(g, nil)
		assert.Equal(t, len(maricaVertices), nl.Len())

		for _, tt := range tests {
			t.Run(pname+"/"+tt.name, func(t *testing.T) {
				got, err := nl.NearestNode(tt.lat, tt.lon)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestNearestNodeDeterministicTie(t *testing.T) {
	// 2 and 5 sit on the same point
	g := newTestGraph(t, [][2]float64{
		{0, 0},
		{1, 0},
		{5, 5},
		{-1, 0},
		{9, 9},
		{5, 5},
	})
	nl := NewNodeLocator(nil)
	nl.Build(g, nil)

	for i := 0; i < 20; i++ {
		got, err := nl.NearestNode(5, 5)
		require.NoError(t, err)
		assert.Equal(t, da.Index(2), got)

		got, err = nl.NearestNode(0, 0)
		require.NoError(t, err)
		assert.Equal(t, da.Index(0), got)
	}

	// 1 and 3 are equidistant from the query
	g2 := newTestGraph(t, [][2]float64{{9, 9}, {1, 0}, {8, 8}, {-1, 0}})
	nl2 := NewNodeLocator(nil)
	nl2.Build(g2, nil)
	got, err := nl2.NearestNode(0, 0)
	require.NoError(t, err)
	assert.Equal(t, da.Index(1), got)
}

func TestNearestNodeEmptyIndex(t *testing.T) {
	nl := NewNodeLocator(geo.NewMercatorProjection())
	_, err := nl.NearestNode(-22.91, -42.81)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestNearestNodeProjectedDiffersFromDegrees(t *testing.T) {
	// at lat 60 one degree of longitude is about half a degree of latitude on the ground.
	// vertex 0 is 0.4 deg north (~44km), vertex 1 is 0.6 deg east (~33km)
	g := newTestGraph(t, [][2]float64{
		{60.4, 10.0},
		{60.0, 10.6},
		{70.0, 30.0},
	})

	raw := NewNodeLocator(nil)
	raw.Build(g, nil)
	merc := NewNodeLocator(geo.NewMercatorProjection())
	merc.Build(g, nil)

	gotRaw, err := raw.NearestNode(60.0, 10.0)
	require.NoError(t, err)
	gotMerc, err := merc.NearestNode(60.0, 10.0)
	require.NoError(t, err)

	assert.Equal(t, da.Index(0), gotRaw)
	assert.Equal(t, da.Index(1), gotMerc)
}
