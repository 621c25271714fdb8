package osmparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="-22.9100" lon="-42.8100"/>
  <node id="2" lat="-22.9110" lon="-42.8100"/>
  <node id="3" lat="-22.9120" lon="-42.8100"/>
  <node id="4" lat="-22.9120" lon="-42.8110"/>
  <node id="5" lat="-22.9120" lon="-42.8120"/>
  <node id="6" lat="-22.9110" lon="-42.8090"/>
  <way id="100">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="101">
    <nd ref="3"/><nd ref="4"/><nd ref="5"/>
    <tag k="highway" v="primary"/>
    <tag k="oneway" v="yes"/>
  </way>
  <way id="102">
    <nd ref="2"/><nd ref="6"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="103">
    <nd ref="5"/><nd ref="6"/>
    <tag k="building" v="yes"/>
  </way>
  <way id="104">
    <nd ref="4"/><nd ref="6"/>
    <tag k="highway" v="construction"/>
  </way>
  <way id="105">
    <nd ref="5"/><nd ref="6"/>
    <tag k="highway" v="service"/>
    <tag k="oneway" v="-1"/>
  </way>
</osm>
`

func writeTestOSM(t *testing.T, name string, compress bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if !compress {
		_, err = f.WriteString(testOSM)
		require.NoError(t, err)
		return path
	}

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	require.NoError(t, err)
	_, err = bz.Write([]byte(testOSM))
	require.NoError(t, err)
	require.NoError(t, bz.Close())
	return path
}

func TestParseOSMXML(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		compress bool
	}{
		{"plain xml", "marica.osm", false},
		{"bzip2 xml", "marica.osm.bz2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseMapFile(writeTestOSM(t, tt.file, tt.compress), nil)
			require.NoError(t, err)

			// osm 1,2,3,5,6 -> 0,1,2,3,4. node 4 is inside way 101 only
			assert.Equal(t, 5, g.NumberOfVertices())
			assert.Equal(t, 8, g.NumberOfEdges())
			assert.Equal(t, int64(6), g.GetVertex(4).GetOsmId())

			// way 100 is split at node 2, where footway 102 joins
			e := g.GetEdge(0, 1)
			require.NotNil(t, e)
			assert.NotNil(t, g.GetEdge(1, 0))
			assert.InDelta(t, geo.CalculateHaversineDistance(-22.9100, -42.8100, -22.9110, -42.8100)*1000,
				e.GetLength(), 1e-6)
			assert.Nil(t, g.GetEdge(0, 2))

			// oneway primary keeps its inner node as geometry
			e = g.GetEdge(2, 3)
			require.NotNil(t, e)
			require.Len(t, e.GetGeometry(), 3)
			assert.InDelta(t, -42.8110, e.GetGeometry()[1].Lon(), 1e-9)
			assert.InDelta(t, -22.9120, e.GetGeometry()[1].Lat(), 1e-9)
			assert.Nil(t, g.GetEdge(3, 2))

			// oneway=-1 runs against node order, geometry starts at node 6
			e = g.GetEdge(4, 3)
			require.NotNil(t, e)
			assert.InDelta(t, -42.8090, e.GetGeometry()[0].Lon(), 1e-9)
			assert.Nil(t, g.GetEdge(3, 4))

			g.ForEdges(func(e *da.Edge) {
				assert.Greater(t, e.GetLength(), 0.0)
			})
		})
	}
}

func TestParseMapFileUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marica.shp")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := ParseMapFile(path, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseOSMWithoutStreets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.osm")
	data := strings.Replace(testOSM, `k="highway"`, `k="waterway"`, -1)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := ParseMapFile(path, nil)
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestValidateLocation(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Maricá, Rio de Janeiro, Brazil", false},
		{"Niterói", false},
		{"", true},
		{"   ", true},
		{"Maricá,, Brazil", true},
		{"Maricá, ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocation(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLocation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
