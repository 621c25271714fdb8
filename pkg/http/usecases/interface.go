package usecases

import (
	"context"

	"github.com/lintang-b-s/cityroute/pkg/detour"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/routeprovider"
)

type DetourEvaluator interface {
	EvaluateDetour(ctx context.Context, profile string, base []geo.Coordinate, candidate geo.Coordinate) (*detour.Result, error)
	RankCandidates(ctx context.Context, profile string, base []geo.Coordinate, candidates []geo.Coordinate) ([]detour.RankedCandidate, error)
}

type RouteProvider interface {
	Route(ctx context.Context, profile string, waypoints []geo.Coordinate) (*routeprovider.Route, error)
}
