package usecases

import (
	"context"
	"errors"

	"github.com/lintang-b-s/cityroute/pkg/detour"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/routeprovider"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"go.uber.org/zap"
)

// DetourService routes through the external collaborator: plain multi-stop routes and detour evaluation.
type DetourService struct {
	log       *zap.Logger
	provider  RouteProvider
	evaluator DetourEvaluator
}

func NewDetourService(log *zap.Logger, provider RouteProvider, evaluator DetourEvaluator) *DetourService {
	return &DetourService{
		log:       log,
		provider:  provider,
		evaluator: evaluator,
	}
}

func (ds *DetourService) Route(ctx context.Context, profile string, waypoints []geo.Coordinate) (*routeprovider.Route, error) {
	if err := routeprovider.ValidateWaypoints(waypoints); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid waypoints")
	}
	route, err := ds.provider.Route(ctx, profile, waypoints)
	if err != nil {
		return nil, wrapProviderError(err, "routing %d waypoints", len(waypoints))
	}
	return route, nil
}

func (ds *DetourService) EvaluateDetour(ctx context.Context, profile string, base []geo.Coordinate,
	candidate geo.Coordinate) (*detour.Result, error) {
	res, err := ds.evaluator.EvaluateDetour(ctx, profile, base, candidate)
	if err != nil {
		return nil, wrapProviderError(err, "evaluating detour via %f,%f", candidate.Lat, candidate.Lon)
	}
	return res, nil
}

func (ds *DetourService) RankCandidates(ctx context.Context, profile string, base []geo.Coordinate,
	candidates []geo.Coordinate) ([]detour.RankedCandidate, error) {
	ranked, err := ds.evaluator.RankCandidates(ctx, profile, base, candidates)
	if err != nil {
		return nil, wrapProviderError(err, "ranking %d candidates", len(candidates))
	}
	return ranked, nil
}

// wrapProviderError tags err with the code the http layer maps to a status.
func wrapProviderError(err error, format string, a ...interface{}) error {
	var code error
	switch {
	case errors.Is(err, detour.ErrInvalidBaseRoute),
		errors.Is(err, detour.ErrInvalidCandidate),
		errors.Is(err, detour.ErrWaypointLimitExceeded),
		errors.Is(err, routeprovider.ErrInvalidWaypoints):
		code = util.ErrBadParamInput
	case errors.Is(err, routeprovider.ErrNetwork),
		errors.Is(err, routeprovider.ErrNoRoute),
		errors.Is(err, routeprovider.ErrMalformedResponse),
		errors.Is(err, context.DeadlineExceeded):
		code = util.ErrBadGateway
	default:
		code = util.ErrInternalServerError
	}
	return util.WrapErrorf(err, code, format, a...)
}
