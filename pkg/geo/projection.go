package geo

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

// Projection maps geographic coordinates to a planar system.
type Projection interface {
	Project(lat, lon float64) (x, y float64)
	Unproject(x, y float64) (lat, lon float64)
	Name() string
}

// MercatorProjection is conformal, so around a city one meter east and one meter
// north have the same planar length. Units are meters at the equator.
type MercatorProjection struct {
	proj s2.Projection
}

func NewMercatorProjection() *MercatorProjection {
	return &MercatorProjection{
		proj: s2.NewMercatorProjection(math.Pi * earthRadiusM),
	}
}

func (m *MercatorProjection) Project(lat, lon float64) (float64, float64) {
	p := m.proj.FromLatLng(s2.LatLngFromDegrees(lat, lon))
	return p.X, p.Y
}

func (m *MercatorProjection) Unproject(x, y float64) (float64, float64) {
	ll := m.proj.ToLatLng(r2.Point{X: x, Y: y})
	return ll.Lat.Degrees(), ll.Lng.Degrees()
}

func (m *MercatorProjection) Name() string {
	return "mercator"
}
