package routeprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/lintang-b-s/cityroute/pkg"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	ErrNetwork           = errors.New("routing service unreachable")
	ErrNoRoute           = errors.New("routing service found no route")
	ErrMalformedResponse = errors.New("malformed routing service response")
	ErrInvalidWaypoints  = errors.New("invalid waypoints")
)

// Route best route of an external routing service over an ordered waypoint list.
type Route struct {
	Distance float64          // meter
	Duration float64          // second
	Geometry []geo.Coordinate // (lat, lon)
}

type Provider interface {
	Route(ctx context.Context, profile string, waypoints []geo.Coordinate) (*Route, error)
}

// ValidateWaypoints origin + at most 5 stops + destination, all finite and in range.
func ValidateWaypoints(waypoints []geo.Coordinate) error {
	if len(waypoints) < pkg.MIN_WAYPOINTS {
		return fmt.Errorf("%w: need at least %d waypoints, got %d", ErrInvalidWaypoints, pkg.MIN_WAYPOINTS, len(waypoints))
	}
	if len(waypoints) > pkg.MAX_WAYPOINTS {
		return fmt.Errorf("%w: at most %d waypoints (origin + 5 stops + destination), got %d", ErrInvalidWaypoints,
			pkg.MAX_WAYPOINTS, len(waypoints))
	}
	for i, wp := range waypoints {
		if !wp.IsValid() {
			return fmt.Errorf("%w: waypoint %d (%v, %v)", ErrInvalidWaypoints, i, wp.Lat, wp.Lon)
		}
	}
	return nil
}

// NewProviderFromViper builds the provider selected by "routing_provider.kind" (osrm or google).
func NewProviderFromViper(logger *zap.Logger) (Provider, error) {
	timeout := viper.GetDuration("routing_provider.timeout")
	ratePerSecond := viper.GetFloat64("routing_provider.rate_per_second")

	switch kind := viper.GetString("routing_provider.kind"); kind {
	case "", "osrm":
		return NewOSRMClient(viper.GetString("routing_provider.osrm_url"), timeout, ratePerSecond,
			viper.GetString("routing_provider.user_agent"), logger), nil
	case "google":
		return NewGoogleDirectionsClient(viper.GetString("routing_provider.google_api_key"), timeout, ratePerSecond, logger)
	default:
		return nil, fmt.Errorf("unknown routing provider %q", kind)
	}
}
