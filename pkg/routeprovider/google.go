package routeprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lintang-b-s/cityroute/pkg/geo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

// DirectionsClient the part of *maps.Client used here.
type DirectionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// GoogleDirectionsClient Google Directions API, intermediate waypoints are passed as via points of one request.
type GoogleDirectionsClient struct {
	client  DirectionsClient
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewGoogleDirectionsClient(apiKey string, timeout time.Duration, ratePerSecond float64,
	logger *zap.Logger) (*GoogleDirectionsClient, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if ratePerSecond >= 1 {
		opts = append(opts, maps.WithRateLimit(int(ratePerSecond)))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return NewGoogleDirectionsClientWithClient(client, timeout, ratePerSecond, logger), nil
}

func NewGoogleDirectionsClientWithClient(client DirectionsClient, timeout time.Duration, ratePerSecond float64,
	logger *zap.Logger) *GoogleDirectionsClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleDirectionsClient{
		client:  client,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

func googleTravelMode(profile string) maps.Mode {
	switch profile {
	case "walking", "foot":
		return maps.TravelModeWalking
	case "cycling", "bike", "bicycling":
		return maps.TravelModeBicycling
	default:
		return maps.TravelModeDriving
	}
}

func latLngString(c geo.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}

func (g *GoogleDirectionsClient) Route(ctx context.Context, profile string, waypoints []geo.Coordinate) (*Route, error) {
	if err := ValidateWaypoints(waypoints); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	dr := &maps.DirectionsRequest{
		Origin:      latLngString(waypoints[0]),
		Destination: latLngString(waypoints[len(waypoints)-1]),
		Mode:        googleTravelMode(profile),
	}
	for _, wp := range waypoints[1 : len(waypoints)-1] {
		dr.Waypoints = append(dr.Waypoints, latLngString(wp))
	}

	routes, _, err := g.client.Directions(ctx, dr)
	if err != nil {
		g.logger.Warn("google directions request failed", zap.Error(err))
		if isGoogleNoRoute(err) {
			return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if len(routes) == 0 {
		return nil, ErrNoRoute
	}

	best := routes[0]
	if len(best.Legs) == 0 {
		return nil, fmt.Errorf("%w: route without legs", ErrMalformedResponse)
	}

	route := &Route{}
	for _, leg := range best.Legs {
		if leg == nil {
			return nil, fmt.Errorf("%w: empty leg", ErrMalformedResponse)
		}
		route.Distance += float64(leg.Distance.Meters)
		route.Duration += leg.Duration.Seconds()
	}

	points, err := best.OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: overview polyline: %v", ErrMalformedResponse, err)
	}
	route.Geometry = make([]geo.Coordinate, 0, len(points))
	for _, p := range points {
		route.Geometry = append(route.Geometry, geo.NewCoordinate(p.Lat, p.Lng))
	}
	return route, nil
}

func isGoogleNoRoute(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "ZERO_RESULTS") || strings.Contains(msg, "NOT_FOUND")
}
