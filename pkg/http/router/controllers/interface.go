package controllers

import (
	"context"

	"github.com/lintang-b-s/cityroute/pkg"
	"github.com/lintang-b-s/cityroute/pkg/detour"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/http/usecases"
	"github.com/lintang-b-s/cityroute/pkg/routeprovider"
)

type RoutingService interface {
	ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64, mode pkg.TravelMode) (*usecases.Route, error)
	GraphInfo() (*usecases.GraphInfo, error)
}

type DetourService interface {
	Route(ctx context.Context, profile string, waypoints []geo.Coordinate) (*routeprovider.Route, error)
	EvaluateDetour(ctx context.Context, profile string, base []geo.Coordinate, candidate geo.Coordinate) (*detour.Result, error)
	RankCandidates(ctx context.Context, profile string, base []geo.Coordinate, candidates []geo.Coordinate) ([]detour.RankedCandidate, error)
}
