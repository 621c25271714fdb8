package datastructure

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/paulmach/orb"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
	INVALID_EDGE_ID   Index = math.MaxUint32
)

var (
	ErrGraphSealed       = errors.New("graph edge weights are already customized")
	ErrInvalidEdgeVertex = errors.New("edge references an unknown vertex")
)

type Vertex struct {
	lat      float64
	lon      float64
	osmId    int64
	firstOut Index // index of the first outEdge of this vertex in the flattened graph.edges array
	id       Index
}

func NewVertex(lat, lon float64, id Index) *Vertex {
	return &Vertex{
		lat: lat,
		lon: lon,
		id:  id,
	}
}

func NewVertexWithOsmId(lat, lon float64, id Index, osmId int64) *Vertex {
	return &Vertex{
		lat:   lat,
		lon:   lon,
		id:    id,
		osmId: osmId,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmId() int64 {
	return v.osmId
}

// Edge is a directed arc tail->head. key tells apart parallel arcs of the same (tail, head) pair.
type Edge struct {
	weight   float64 // traversal cost, meter after randomization
	length   float64 // original length, meter
	factor   float64 // weight = length * factor
	edgeId   Index
	tail     Index
	head     Index
	key      int
	geometry orb.LineString // (lng, lat) vertices
}

func NewEdge(tail, head Index, length float64, geometry orb.LineString) *Edge {
	return &Edge{
		tail:     tail,
		head:     head,
		length:   length,
		weight:   length,
		factor:   1.0,
		geometry: geometry,
	}
}

func (e *Edge) GetWeight() float64 {
	return e.weight
}

func (e *Edge) GetLength() float64 {
	return e.length
}

func (e *Edge) GetFactor() float64 {
	return e.factor
}

func (e *Edge) GetEdgeId() Index {
	return e.edgeId
}

func (e *Edge) GetTail() Index {
	return e.tail
}

func (e *Edge) GetHead() Index {
	return e.head
}

func (e *Edge) GetKey() int {
	return e.key
}

func (e *Edge) HasGeometry() bool {
	return len(e.geometry) > 0
}

// GetGeometry returns the arc shape in (lng, lat) order. Callers must not modify it.
func (e *Edge) GetGeometry() orb.LineString {
	return e.geometry
}

// street network graph, directed multigraph. static (i.e. can't add new edges)
type Graph struct {
	vertices    []*Vertex // len = numberOfVertices+1, the last one is a dummy vertex for firstOut offset
	edges       []*Edge   // sorted by tail, enumeration order kept within a tail
	boundingBox *BoundingBox
	projection  geo.Projection

	customized      bool
	customizedEdges int
}

// NewGraph builds the adjacency arrays. vertices[i] must have id i.
func NewGraph(vertices []*Vertex, edges []*Edge) (*Graph, error) {
	n := len(vertices)
	for i, v := range vertices {
		if v.id != Index(i) {
			return nil, fmt.Errorf("vertex at position %d has id %d", i, v.id)
		}
	}

	sorted := make([]*Edge, len(edges))
	copy(sorted, edges)
	for _, e := range sorted {
		if int(e.tail) >= n || int(e.head) >= n {
			return nil, fmt.Errorf("%w: %d->%d", ErrInvalidEdgeVertex, e.tail, e.head)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].tail < sorted[j].tail
	})

	// parallel-edge keys follow enumeration order per (tail, head)
	keys := make(map[[2]Index]int)
	for i, e := range sorted {
		e.edgeId = Index(i)
		pair := [2]Index{e.tail, e.head}
		e.key = keys[pair]
		keys[pair]++
	}

	vs := make([]*Vertex, n+1)
	copy(vs, vertices)
	vs[n] = &Vertex{id: Index(n)}

	edgeIdx := 0
	for u := 0; u <= n; u++ {
		vs[u].firstOut = Index(edgeIdx)
		for edgeIdx < len(sorted) && int(sorted[edgeIdx].tail) == u {
			edgeIdx++
		}
	}

	g := &Graph{
		vertices: vs,
		edges:    sorted,
	}
	g.boundingBox = g.computeBoundingBox()
	return g, nil
}

func (g *Graph) computeBoundingBox() *BoundingBox {
	if g.NumberOfVertices() == 0 {
		return NewBoundingBox(0, 0, 0, 0)
	}
	minLat, minLon := math.MaxFloat64, math.MaxFloat64
	maxLat, maxLon := -math.MaxFloat64, -math.MaxFloat64
	g.ForVertices(func(v *Vertex) {
		minLat = math.Min(minLat, v.lat)
		minLon = math.Min(minLon, v.lon)
		maxLat = math.Max(maxLat, v.lat)
		maxLon = math.Max(maxLon, v.lon)
	})
	return NewBoundingBox(minLat, minLon, maxLat, maxLon)
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices) - 1
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *Graph) GetVertexCoordinates(u Index) (float64, float64) {
	v := g.vertices[u]
	return v.lat, v.lon
}

func (g *Graph) GetEdgeById(e Index) *Edge {
	return g.edges[e]
}

func (g *Graph) GetOutDegree(u Index) int {
	return int(g.vertices[u+1].firstOut - g.vertices[u].firstOut)
}

func (g *Graph) IsValidVertex(u Index) bool {
	return int(u) < g.NumberOfVertices()
}

// ForOutEdgesOf visits outgoing edges of u in enumeration order.
func (g *Graph) ForOutEdgesOf(u Index, handle func(e *Edge)) {
	for e := g.vertices[u].firstOut; e < g.vertices[u+1].firstOut; e++ {
		handle(g.edges[e])
	}
}

// GetEdge returns the first parallel edge u->v, or nil.
func (g *Graph) GetEdge(u, v Index) *Edge {
	for e := g.vertices[u].firstOut; e < g.vertices[u+1].firstOut; e++ {
		if g.edges[e].head == v {
			return g.edges[e]
		}
	}
	return nil
}

func (g *Graph) ForEdges(handle func(e *Edge)) {
	for _, e := range g.edges {
		handle(e)
	}
}

func (g *Graph) ForVertices(handle func(v *Vertex)) {
	for _, v := range g.vertices[:g.NumberOfVertices()] {
		handle(v)
	}
}

func (g *Graph) GetBoundingBox() *BoundingBox {
	return g.boundingBox
}

// SetProjection attaches a planar projection, load time only.
func (g *Graph) SetProjection(p geo.Projection) {
	g.projection = p
}

func (g *Graph) GetProjection() geo.Projection {
	return g.projection
}

func (g *Graph) IsProjected() bool {
	return g.projection != nil
}

// Customize rewrites every edge weight exactly once. f gets the original length
// and returns the new weight with its factor. After it returns the graph is read-only.
func (g *Graph) Customize(f func(e *Edge) (weight, factor float64, err error)) error {
	if g.customized {
		return ErrGraphSealed
	}

	weights := make([]float64, len(g.edges))
	factors := make([]float64, len(g.edges))
	for i, e := range g.edges {
		w, fc, err := f(e)
		if err != nil {
			return err
		}
		weights[i] = w
		factors[i] = fc
	}

	// all or nothing
	for i, e := range g.edges {
		e.weight = weights[i]
		e.factor = factors[i]
	}
	g.customized = true
	g.customizedEdges = len(g.edges)
	return nil
}

func (g *Graph) IsCustomized() bool {
	return g.customized
}

func (g *Graph) NumberOfCustomizedEdges() int {
	return g.customizedEdges
}
