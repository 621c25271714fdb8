package routeprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	OSRM_DEFAULT_URL     = "https://router.project-osrm.org"
	OSRM_DEFAULT_PROFILE = "driving"
)

// OSRMClient OSRM HTTP route service (/route/v1). the public demo server asks for at most 1 request per second.
type OSRMClient struct {
	baseURL    string
	timeout    time.Duration // limiter wait included
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *zap.Logger
}

func NewOSRMClient(baseURL string, timeout time.Duration, ratePerSecond float64, userAgent string,
	logger *zap.Logger) *OSRMClient {
	if baseURL == "" {
		baseURL = OSRM_DEFAULT_URL
	}
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
	return &OSRMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		userAgent:  userAgent,
		logger:     logger,
	}
}

type osrmRoute struct {
	Distance float64           `json:"distance"`
	Duration float64           `json:"duration"`
	Geometry *geojson.Geometry `json:"geometry"`
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

// routeURL OSRM wants lon,lat pairs separated by ';'.
func (c *OSRMClient) routeURL(profile string, waypoints []geo.Coordinate) string {
	coords := make([]string, 0, len(waypoints))
	for _, wp := range waypoints {
		coords = append(coords, strconv.FormatFloat(wp.Lon, 'f', -1, 64)+","+strconv.FormatFloat(wp.Lat, 'f', -1, 64))
	}
	return fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson&steps=false", c.baseURL, profile,
		strings.Join(coords, ";"))
}

func (c *OSRMClient) Route(ctx context.Context, profile string, waypoints []geo.Coordinate) (*Route, error) {
	if err := ValidateWaypoints(waypoints); err != nil {
		return nil, err
	}
	if profile == "" {
		profile = OSRM_DEFAULT_PROFILE
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	url := c.routeURL(profile, waypoints)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("osrm request failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}

	c.logger.Debug("osrm response", zap.String("url", url), zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	var data osrmResponse
	decodeErr := json.Unmarshal(body, &data)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && isOSRMNoRoute(data.Code) {
			return nil, fmt.Errorf("%w: %s", ErrNoRoute, data.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	if isOSRMNoRoute(data.Code) || len(data.Routes) == 0 {
		return nil, ErrNoRoute
	}
	if data.Code != "" && data.Code != "Ok" {
		return nil, fmt.Errorf("%w: code %s: %s", ErrMalformedResponse, data.Code, data.Message)
	}

	best := data.Routes[0]
	if best.Geometry == nil {
		return nil, fmt.Errorf("%w: route without geometry", ErrMalformedResponse)
	}
	line, ok := best.Geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("%w: geometry type %s", ErrMalformedResponse, best.Geometry.Type)
	}

	geometry := make([]geo.Coordinate, 0, len(line))
	for _, p := range line {
		geometry = append(geometry, geo.NewCoordinate(p.Lat(), p.Lon()))
	}

	return &Route{
		Distance: best.Distance,
		Duration: best.Duration,
		Geometry: geometry,
	}, nil
}

func isOSRMNoRoute(code string) bool {
	return code == "NoRoute" || code == "NoSegment"
}
