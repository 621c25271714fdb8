package osmparser

import (
	"errors"
)

var (
	ErrEmptyGraph        = errors.New("map data produced a graph without edges")
	ErrInvalidLocation   = errors.New("invalid location name")
	ErrUnsupportedFormat = errors.New("unsupported map file format")
	ErrMalformedGeoJSON  = errors.New("malformed geojson street network")
	ErrUnknownEdgeVertex = errors.New("edge references an unknown node")
	ErrInvalidEdgeLength = errors.New("edge length must be positive")
)

type NodeType uint8

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

// StreetDirection which way a street may be traversed relative to its node order.
type StreetDirection uint8

const (
	BIDIRECTIONAL StreetDirection = iota
	FORWARD
	BACKWARD
)

var (
	// every way with a highway tag is part of the street network (cars, bikes & pedestrians),
	// except these which are not traversable
	skipHighway = map[string]struct{}{
		"proposed":     {},
		"construction": {},
		"abandoned":    {},
		"platform":     {},
		"raceway":      {},
		"razed":        {},
		"disused":      {},
	}

	onewayForward = map[string]struct{}{
		"yes":  {},
		"true": {},
		"1":    {},
	}

	onewayBackward = map[string]struct{}{
		"-1":      {},
		"reverse": {},
	}
)
