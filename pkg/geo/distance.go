package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/cityroute/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func (c Coordinate) IsValid() bool {
	return util.IsFinite(c.Lat) && util.IsFinite(c.Lon) &&
		c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// NewCoordinateFromPair converts a [lat, lon] pair.
func NewCoordinateFromPair(p [2]float64) Coordinate {
	return Coordinate{Lat: p[0], Lon: p[1]}
}

const (
	earthRadiusKM = 6371.0
	earthRadiusM  = 6371008.8
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// CalculateHaversineDistance. calculate haversine distance in km
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// GreatCircleDistanceMeter uses s2 angle between the two points, in meter.
func GreatCircleDistanceMeter(latOne, longOne, latTwo, longTwo float64) float64 {
	a := s2.LatLngFromDegrees(latOne, longOne)
	b := s2.LatLngFromDegrees(latTwo, longTwo)
	return a.Distance(b).Radians() * earthRadiusM
}

// PolylineLengthMeter sums great-circle distances along the coordinates.
func PolylineLengthMeter(coords []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(coords); i++ {
		total += GreatCircleDistanceMeter(coords[i-1].Lat, coords[i-1].Lon, coords[i].Lat, coords[i].Lon)
	}
	return total
}
