package controllers

import (
	"github.com/lintang-b-s/cityroute/pkg/detour"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/http/usecases"
	"github.com/lintang-b-s/cityroute/pkg/routeprovider"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"min=-180,max=180"`
	Mode           string  `json:"mode" validate:"omitempty,oneof=driving walking cycling foot bike bicycling"`
}

type shortestPathResponse struct {
	Eta         float64      `json:"eta"` // minute
	Path        string       `json:"path"`
	Dist        float64      `json:"distance"`
	Coordinates [][2]float64 `json:"coordinates"`
	NodeCount   int          `json:"node_count"`
	Mode        string       `json:"mode"`
}

func NewShortestPathResponse(route *usecases.Route) shortestPathResponse {
	return shortestPathResponse{
		Eta:         route.Eta,
		Path:        route.Polyline,
		Dist:        route.Distance,
		Coordinates: toPairs(route.Path),
		NodeCount:   route.NodeCount,
		Mode:        string(route.Mode),
	}
}

type graphInfoResponse struct {
	City                       string       `json:"city"`
	Algorithm                  string       `json:"algorithm"`
	TimeComplexity             string       `json:"time_complexity"`
	SpaceComplexity            string       `json:"space_complexity"`
	NumberOfNodes              int          `json:"total_nodes"`
	NumberOfEdges              int          `json:"total_edges"`
	NumberOfRandomizedEdges    int          `json:"randomized_edges"`
	RandomizationActive        bool         `json:"randomization_active"`
	MeanRandomFactor           float64      `json:"mean_random_factor"`
	StronglyConnectedComponent int          `json:"strongly_connected_components"`
	Projected                  bool         `json:"projected"`
	Bounds                     [][2]float64 `json:"bounds"` // [[min_lat, min_lon], [max_lat, max_lon]]
}

func NewGraphInfoResponse(info *usecases.GraphInfo) graphInfoResponse {
	return graphInfoResponse{
		City:                       info.CityName,
		Algorithm:                  info.Algorithm,
		TimeComplexity:             info.TimeComplexity,
		SpaceComplexity:            info.SpaceComplexity,
		NumberOfNodes:              info.NumberOfVertices,
		NumberOfEdges:              info.NumberOfEdges,
		NumberOfRandomizedEdges:    info.NumberOfRandomizedEdges,
		RandomizationActive:        info.RandomizationActive,
		MeanRandomFactor:           info.MeanRandomFactor,
		StronglyConnectedComponent: info.StronglyConnectedComponent,
		Projected:                  info.Projected,
		Bounds:                     toPairs(info.Bounds[:]),
	}
}

// waypoints are [lat, lng] pairs
type routeRequest struct {
	Profile   string       `json:"profile" validate:"omitempty,oneof=driving walking cycling car foot bike"`
	Waypoints [][2]float64 `json:"waypoints" validate:"required,dive,latlng"`
}

type detourRequest struct {
	Profile   string       `json:"profile" validate:"omitempty,oneof=driving walking cycling car foot bike"`
	Base      [][2]float64 `json:"base" validate:"required,dive,latlng"`
	Candidate [2]float64   `json:"candidate" validate:"required,latlng"`
}

type rankDetourRequest struct {
	Profile    string       `json:"profile" validate:"omitempty,oneof=driving walking cycling car foot bike"`
	Base       [][2]float64 `json:"base" validate:"required,dive,latlng"`
	Candidates [][2]float64 `json:"candidates" validate:"required,min=1,dive,latlng"`
}

type routeResponse struct {
	Distance float64      `json:"distance"` // meter
	Duration float64      `json:"duration"` // second
	Geometry [][2]float64 `json:"geometry"`
}

func NewRouteResponse(route *routeprovider.Route) routeResponse {
	return routeResponse{
		Distance: route.Distance,
		Duration: route.Duration,
		Geometry: toPairs(route.Geometry),
	}
}

type detourResponse struct {
	DeltaDistance   float64      `json:"delta_distance"`
	DeltaDuration   float64      `json:"delta_duration"`
	PreviewGeometry [][2]float64 `json:"preview_geometry"`
	BaseDistance    float64      `json:"base_distance"`
	BaseDuration    float64      `json:"base_duration"`
}

func NewDetourResponse(res *detour.Result) detourResponse {
	return detourResponse{
		DeltaDistance:   res.DeltaDistance,
		DeltaDuration:   res.DeltaDuration,
		PreviewGeometry: toPairs(res.PreviewGeometry),
		BaseDistance:    res.BaseRoute.Distance,
		BaseDuration:    res.BaseRoute.Duration,
	}
}

type rankedCandidateResponse struct {
	Index     int             `json:"index"`
	Candidate [2]float64      `json:"candidate"`
	Detour    *detourResponse `json:"detour,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func NewRankedCandidatesResponse(ranked []detour.RankedCandidate) []rankedCandidateResponse {
	resp := make([]rankedCandidateResponse, 0, len(ranked))
	for _, r := range ranked {
		item := rankedCandidateResponse{
			Index:     r.Index,
			Candidate: [2]float64{r.Candidate.Lat, r.Candidate.Lon},
		}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			d := NewDetourResponse(r.Result)
			item.Detour = &d
		}
		resp = append(resp, item)
	}
	return resp
}

func toPairs(coords []geo.Coordinate) [][2]float64 {
	pairs := make([][2]float64, 0, len(coords))
	for _, c := range coords {
		pairs = append(pairs, [2]float64{c.Lat, c.Lon})
	}
	return pairs
}

func fromPairs(pairs [][2]float64) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(pairs))
	for _, p := range pairs {
		coords = append(coords, geo.NewCoordinateFromPair(p))
	}
	return coords
}
