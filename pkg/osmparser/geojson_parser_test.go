package osmparser

import (
	"strings"
	"testing"

	"github.com/lintang-b-s/cityroute/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-42.80, -22.91]}, "properties": {"id": 10}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-42.805, -22.915]}, "properties": {"id": 20}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-42.81, -22.92]}, "properties": {"id": 30}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[-42.80, -22.91], [-42.805, -22.915]]},
     "properties": {"from": 10, "to": 20, "length": 750.5}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[-42.805, -22.915], [-42.81, -22.92]]},
     "properties": {"from": 20, "to": 30, "oneway": true}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": []},
     "properties": {"from": 30, "to": 10, "oneway": true}}
  ]
}`

func TestParseGeoJSON(t *testing.T) {
	g, err := ParseGeoJSON(strings.NewReader(testGeoJSON))
	require.NoError(t, err)

	assert.Equal(t, 3, g.NumberOfVertices())
	assert.Equal(t, 4, g.NumberOfEdges())

	lat, lon := g.GetVertexCoordinates(0)
	assert.InDelta(t, -22.91, lat, 1e-9)
	assert.InDelta(t, -42.80, lon, 1e-9)

	e := g.GetEdge(0, 1)
	require.NotNil(t, e)
	assert.InDelta(t, 750.5, e.GetLength(), 1e-9)
	require.Len(t, e.GetGeometry(), 2)
	assert.InDelta(t, -42.80, e.GetGeometry()[0].Lon(), 1e-9)

	back := g.GetEdge(1, 0)
	require.NotNil(t, back)
	assert.InDelta(t, -42.805, back.GetGeometry()[0].Lon(), 1e-9)

	e = g.GetEdge(1, 2)
	require.NotNil(t, e)
	assert.InDelta(t, 750, e.GetLength(), 50)
	assert.Nil(t, g.GetEdge(2, 1))

	e = g.GetEdge(2, 0)
	require.NotNil(t, e)
	assert.False(t, e.HasGeometry())
	assert.Equal(t, pkg.DEFAULT_EDGE_LENGTH, e.GetLength())
}

func TestParseGeoJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "not json",
			data:    `{"type": "Feature`,
			wantErr: ErrMalformedGeoJSON,
		},
		{
			name: "unknown node",
			data: `{"type": "FeatureCollection", "features": [
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-42.80, -22.91]}, "properties": {"id": 1}},
				{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[-42.80, -22.91], [-42.81, -22.92]]},
				 "properties": {"from": 1, "to": 2}}]}`,
			wantErr: ErrUnknownEdgeVertex,
		},
		{
			name: "negative length",
			data: `{"type": "FeatureCollection", "features": [
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-42.80, -22.91]}, "properties": {"id": 1}},
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-42.81, -22.92]}, "properties": {"id": 2}},
				{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[-42.80, -22.91], [-42.81, -22.92]]},
				 "properties": {"from": 1, "to": 2, "length": -3}}]}`,
			wantErr: ErrInvalidEdgeLength,
		},
		{
			name: "no streets",
			data: `{"type": "FeatureCollection", "features": [
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-42.80, -22.91]}, "properties": {"id": 1}}]}`,
			wantErr: ErrEmptyGraph,
		},
		{
			name: "point without id",
			data: `{"type": "FeatureCollection", "features": [
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-42.80, -22.91]}, "properties": {}}]}`,
			wantErr: ErrMalformedGeoJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGeoJSON(strings.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
