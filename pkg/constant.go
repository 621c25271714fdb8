package pkg

const (
	INF_WEIGHT float64 = 1e15

	// edge weight randomization, applied once per graph load
	MIN_RANDOM_FACTOR = 0.8
	MAX_RANDOM_FACTOR = 1.2

	// tolerance (degrees) between consecutive points of a route geometry
	GEOMETRY_DEDUP_EPS = 1e-6

	// origin + 5 stops + destination
	MAX_WAYPOINTS = 7
	MIN_WAYPOINTS = 2

	DEFAULT_EDGE_LENGTH = 100.0 // meter
	MIN_EDGE_LENGTH     = 0.01  // meter, for segments between nodes sharing a location
)

const (
	DEBUG = false
)

type TravelMode string

const (
	DRIVING TravelMode = "driving"
	WALKING TravelMode = "walking"
	CYCLING TravelMode = "cycling"
)

// average city speed in km/h for each travel mode
func GetTravelModeSpeed(mode TravelMode) float64 {
	switch mode {
	case WALKING:
		return 5.0
	case CYCLING:
		return 15.0
	default:
		return 30.0
	}
}

func ParseTravelMode(mode string) TravelMode {
	switch mode {
	case "walking", "foot":
		return WALKING
	case "cycling", "bike", "bicycling":
		return CYCLING
	default:
		return DRIVING
	}
}
