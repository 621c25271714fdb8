package routeprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osrmOK = `{
  "code": "Ok",
  "routes": [
    {"distance": 1523.4, "duration": 201.7,
     "geometry": {"type": "LineString", "coordinates": [[-42.80, -22.91], [-42.805, -22.915], [-42.81, -22.92]]}},
    {"distance": 9999, "duration": 9999,
     "geometry": {"type": "LineString", "coordinates": [[-42.80, -22.91], [-42.81, -22.92]]}}
  ],
  "waypoints": []
}`

var testWaypoints = []geo.Coordinate{
	geo.NewCoordinate(-22.91, -42.80),
	geo.NewCoordinate(-22.92, -42.81),
}

func TestOSRMRoute(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(osrmOK))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL+"/", time.Second, 0, "cityroute-test/1.0", nil)
	route, err := c.Route(context.Background(), "walking", testWaypoints)
	require.NoError(t, err)

	assert.Equal(t, "/route/v1/walking/-42.8,-22.91;-42.81,-22.92", gotPath)
	assert.Equal(t, "overview=full&geometries=geojson&steps=false", gotQuery)
	assert.Equal(t, "cityroute-test/1.0", gotUA)

	assert.InDelta(t, 1523.4, route.Distance, 1e-9)
	assert.InDelta(t, 201.7, route.Duration, 1e-9)
	assert.Equal(t, []geo.Coordinate{
		{Lat: -22.91, Lon: -42.80},
		{Lat: -22.915, Lon: -42.805},
		{Lat: -22.92, Lon: -42.81},
	}, route.Geometry)
}

func TestOSRMRouteDefaultProfile(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(osrmOK))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL, time.Second, 0, "", nil)
	_, err := c.Route(context.Background(), "", testWaypoints)
	require.NoError(t, err)
	assert.Equal(t, "/route/v1/driving/-42.8,-22.91;-42.81,-22.92", gotPath)
}

func TestOSRMRouteFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"no routes", http.StatusOK, `{"code": "Ok", "routes": []}`, ErrNoRoute},
		{"no route code", http.StatusBadRequest, `{"code": "NoRoute", "message": "Impossible route between points"}`, ErrNoRoute},
		{"no segment code", http.StatusBadRequest, `{"code": "NoSegment", "message": "Could not find a matching segment"}`, ErrNoRoute},
		{"malformed json", http.StatusOK, `{"code": "Ok", "routes": [`, ErrMalformedResponse},
		{"missing geometry", http.StatusOK, `{"code": "Ok", "routes": [{"distance": 1, "duration": 1}]}`, ErrMalformedResponse},
		{"point geometry", http.StatusOK,
			`{"code": "Ok", "routes": [{"distance": 1, "duration": 1, "geometry": {"type": "Point", "coordinates": [1, 2]}}]}`,
			ErrMalformedResponse},
		{"server error", http.StatusInternalServerError, `oops`, ErrNetwork},
		{"too many requests", http.StatusTooManyRequests, `{"code": "TooBig"}`, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewOSRMClient(srv.URL, time.Second, 0, "", nil)
			_, err := c.Route(context.Background(), "driving", testWaypoints)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOSRMRouteNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewOSRMClient(url, time.Second, 0, "", nil)
	_, err := c.Route(context.Background(), "driving", testWaypoints)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestOSRMRouteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewOSRMClient(srv.URL, 50*time.Millisecond, 0, "", nil)
	_, err := c.Route(context.Background(), "driving", testWaypoints)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestOSRMRouteLimiterWaitCountsTowardTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(osrmOK))
	}))
	defer srv.Close()

	// one token per 100s, the second call cannot get one within the timeout
	c := NewOSRMClient(srv.URL, 100*time.Millisecond, 0.01, "", nil)
	_, err := c.Route(context.Background(), "driving", testWaypoints)
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Route(context.Background(), "driving", testWaypoints)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestOSRMRouteInvalidWaypoints(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(osrmOK))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL, time.Second, 0, "", nil)

	tooMany := make([]geo.Coordinate, 8)
	for i := range tooMany {
		tooMany[i] = geo.NewCoordinate(-22.91, -42.80+float64(i)*0.001)
	}

	tests := []struct {
		name      string
		waypoints []geo.Coordinate
	}{
		{"single waypoint", testWaypoints[:1]},
		{"more than seven", tooMany},
		{"out of range", []geo.Coordinate{{Lat: 91, Lon: 0}, {Lat: 0, Lon: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Route(context.Background(), "driving", tt.waypoints)
			assert.ErrorIs(t, err, ErrInvalidWaypoints)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
