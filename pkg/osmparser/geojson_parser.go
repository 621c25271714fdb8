package osmparser

import (
	"fmt"
	"io"
	"os"

	"github.com/lintang-b-s/cityroute/pkg"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func ParseGeoJSONFile(path string) (*da.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseGeoJSON(f)
}

/*
ParseGeoJSON reads a node-link FeatureCollection:
  - Point features are nodes, property "id" (number).
  - LineString features are streets, properties "from", "to" (node ids), optional "length" in meter and
    optional "oneway" (bool). the LineString coordinates are the street geometry from -> to.

missing length is the haversine length of the geometry, or 100m when the geometry has less than 2 points.
*/
func ParseGeoJSON(r io.Reader) (*da.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeoJSON, err)
	}

	b := NewGraphBuilder()
	streets := make([]*geojson.Feature, 0, len(fc.Features))

	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			id, ok := propInt64(f.Properties, "id")
			if !ok {
				return nil, fmt.Errorf("%w: point feature without numeric id", ErrMalformedGeoJSON)
			}
			b.AddVertex(id, g.Lat(), g.Lon())
		case orb.LineString:
			streets = append(streets, f)
		}
	}

	for i, f := range streets {
		fromExt, okFrom := propInt64(f.Properties, "from")
		toExt, okTo := propInt64(f.Properties, "to")
		if !okFrom || !okTo {
			return nil, fmt.Errorf("%w: street %d without from/to", ErrMalformedGeoJSON, i)
		}
		from, ok := b.VertexId(fromExt)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownEdgeVertex, fromExt)
		}
		to, ok := b.VertexId(toExt)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownEdgeVertex, toExt)
		}

		geometry := f.Geometry.(orb.LineString)
		length, ok := propFloat64(f.Properties, "length")
		if !ok {
			length = lineStringLength(geometry)
		} else if length <= 0 {
			return nil, fmt.Errorf("%w: street %d has length %v", ErrInvalidEdgeLength, i, length)
		}

		direction := BIDIRECTIONAL
		if f.Properties.MustBool("oneway", false) {
			direction = FORWARD
		}

		if len(geometry) == 0 {
			geometry = nil
		}
		b.AddStreet(from, to, length, geometry, direction)
	}

	return b.Build()
}

func lineStringLength(ls orb.LineString) float64 {
	if len(ls) < 2 {
		return pkg.DEFAULT_EDGE_LENGTH
	}
	coords := make([]geo.Coordinate, len(ls))
	for i, p := range ls {
		coords[i] = geo.NewCoordinate(p.Lat(), p.Lon())
	}
	return geo.PolylineLengthMeter(coords)
}

func propFloat64(props geojson.Properties, key string) (float64, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func propInt64(props geojson.Properties, key string) (int64, bool) {
	f, ok := propFloat64(props, key)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
