package detour

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lintang-b-s/cityroute/pkg"
	"github.com/lintang-b-s/cityroute/pkg/concurrent"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/routeprovider"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidBaseRoute      = errors.New("base route needs at least an origin and a destination")
	ErrInvalidCandidate      = errors.New("invalid candidate stop")
	ErrWaypointLimitExceeded = errors.New("detour exceeds the waypoint limit (origin + 5 stops + destination)")
)

const DEFAULT_RANK_WORKERS = 4

type Result struct {
	DeltaDistance   float64          // meter, candidate - base
	DeltaDuration   float64          // second, candidate - base
	PreviewGeometry []geo.Coordinate // candidate route geometry, (lat, lon)
	BaseRoute       *routeprovider.Route
	CandidateRoute  *routeprovider.Route
}

// Evaluator scores inserting a stop before the destination of a route. It keeps no state between calls.
type Evaluator struct {
	provider routeprovider.Provider
	logger   *zap.Logger
	workers  int
}

func NewEvaluator(provider routeprovider.Provider, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		provider: provider,
		logger:   logger,
		workers:  DEFAULT_RANK_WORKERS,
	}
}

// WithCandidate returns base with candidate inserted right before the last waypoint. base is not modified.
func WithCandidate(base []geo.Coordinate, candidate geo.Coordinate) []geo.Coordinate {
	n := len(base)
	out := make([]geo.Coordinate, 0, n+1)
	out = append(out, base[:n-1]...)
	out = append(out, candidate, base[n-1])
	return out
}

func validate(base []geo.Coordinate, candidate geo.Coordinate) error {
	if len(base) < pkg.MIN_WAYPOINTS {
		return fmt.Errorf("%w: got %d waypoints", ErrInvalidBaseRoute, len(base))
	}
	if len(base)+1 > pkg.MAX_WAYPOINTS {
		return fmt.Errorf("%w: base has %d waypoints", ErrWaypointLimitExceeded, len(base))
	}
	if !candidate.IsValid() {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidCandidate, candidate.Lat, candidate.Lon)
	}
	return nil
}

/*
EvaluateDetour. routes base and base-with-candidate concurrently on the external provider.
both calls must succeed, the first failure is returned as is (its routeprovider sentinel stays matchable with errors.Is).
deltas are signed, a candidate on the way can make the route shorter.
*/
func (e *Evaluator) EvaluateDetour(ctx context.Context, profile string, base []geo.Coordinate,
	candidate geo.Coordinate) (*Result, error) {
	if err := validate(base, candidate); err != nil {
		return nil, err
	}
	withCandidate := WithCandidate(base, candidate)

	var baseRoute, candRoute *routeprovider.Route
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := e.provider.Route(gctx, profile, base)
		if err != nil {
			return fmt.Errorf("base route: %w", err)
		}
		baseRoute = r
		return nil
	})
	g.Go(func() error {
		r, err := e.provider.Route(gctx, profile, withCandidate)
		if err != nil {
			return fmt.Errorf("route with candidate: %w", err)
		}
		candRoute = r
		return nil
	})
	if err := g.Wait(); err != nil {
		e.logger.Debug("detour evaluation failed", zap.Error(err))
		return nil, err
	}

	return &Result{
		DeltaDistance:   candRoute.Distance - baseRoute.Distance,
		DeltaDuration:   candRoute.Duration - baseRoute.Duration,
		PreviewGeometry: candRoute.Geometry,
		BaseRoute:       baseRoute,
		CandidateRoute:  candRoute,
	}, nil
}

type RankedCandidate struct {
	Index     int // position in the candidates argument
	Candidate geo.Coordinate
	Result    *Result
	Err       error
}

// RankCandidates evaluates every candidate on the worker pool, cheapest extra duration first.
// candidates that failed keep their error and come last. Only precondition violations fail the whole call.
func (e *Evaluator) RankCandidates(ctx context.Context, profile string, base []geo.Coordinate,
	candidates []geo.Coordinate) ([]RankedCandidate, error) {
	if len(base) < pkg.MIN_WAYPOINTS {
		return nil, fmt.Errorf("%w: got %d waypoints", ErrInvalidBaseRoute, len(base))
	}
	if len(base)+1 > pkg.MAX_WAYPOINTS {
		return nil, fmt.Errorf("%w: base has %d waypoints", ErrWaypointLimitExceeded, len(base))
	}

	jobs := make([]RankedCandidate, len(candidates))
	for i, c := range candidates {
		jobs[i] = RankedCandidate{Index: i, Candidate: c}
	}

	ranked := concurrent.Map(e.workers, jobs, func(job RankedCandidate) RankedCandidate {
		job.Result, job.Err = e.EvaluateDetour(ctx, profile, base, job.Candidate)
		return job
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		if a.Err != nil {
			return a.Index < b.Index
		}
		if a.Result.DeltaDuration != b.Result.DeltaDuration {
			return a.Result.DeltaDuration < b.Result.DeltaDuration
		}
		return a.Index < b.Index
	})
	return ranked, nil
}
