package osmparser

import (
	"fmt"
	"strings"

	"github.com/lintang-b-s/cityroute/pkg"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/paulmach/orb"
)

// GraphBuilder assigns dense vertex ids to external (osm / geojson) node ids and collects directed edges.
type GraphBuilder struct {
	vertices  []*da.Vertex
	edges     []*da.Edge
	nodeIDMap map[int64]da.Index
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		vertices:  make([]*da.Vertex, 0),
		edges:     make([]*da.Edge, 0),
		nodeIDMap: make(map[int64]da.Index),
	}
}

// AddVertex returns the id of externalId, creating the vertex on first use.
func (b *GraphBuilder) AddVertex(externalId int64, lat, lon float64) da.Index {
	if id, ok := b.nodeIDMap[externalId]; ok {
		return id
	}
	id := da.Index(len(b.vertices))
	b.nodeIDMap[externalId] = id
	b.vertices = append(b.vertices, da.NewVertexWithOsmId(lat, lon, id, externalId))
	return id
}

func (b *GraphBuilder) VertexId(externalId int64) (da.Index, bool) {
	id, ok := b.nodeIDMap[externalId]
	return id, ok
}

// AddStreet adds the edges of one street segment. geometry is (lng, lat) from -> to,
// the backward edge gets the reversed geometry. parallel streets between the same nodes are all kept.
func (b *GraphBuilder) AddStreet(from, to da.Index, length float64, geometry orb.LineString, direction StreetDirection) {
	length = max(length, pkg.MIN_EDGE_LENGTH)

	switch direction {
	case FORWARD:
		b.edges = append(b.edges, da.NewEdge(from, to, length, geometry))
	case BACKWARD:
		b.edges = append(b.edges, da.NewEdge(to, from, length, reversed(geometry)))
	default:
		b.edges = append(b.edges, da.NewEdge(from, to, length, geometry))
		b.edges = append(b.edges, da.NewEdge(to, from, length, reversed(geometry)))
	}
}

func (b *GraphBuilder) NumberOfVertices() int {
	return len(b.vertices)
}

func (b *GraphBuilder) NumberOfEdges() int {
	return len(b.edges)
}

func (b *GraphBuilder) Build() (*da.Graph, error) {
	if len(b.edges) == 0 {
		return nil, ErrEmptyGraph
	}
	return da.NewGraph(b.vertices, b.edges)
}

func reversed(ls orb.LineString) orb.LineString {
	if len(ls) == 0 {
		return nil
	}
	// Reverse works in place, the forward edge keeps its own copy
	cp := ls.Clone()
	cp.Reverse()
	return cp
}

// ValidateLocation. place names look like "Maricá, Rio de Janeiro, Brazil": comma separated, no empty part.
func ValidateLocation(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidLocation)
	}
	for _, part := range strings.Split(name, ",") {
		if strings.TrimSpace(part) == "" {
			return fmt.Errorf("%w: %q", ErrInvalidLocation, name)
		}
	}
	return nil
}
