package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type nodeCoord struct {
	lat float64
	lon float64
}

type node struct {
	id    int64
	coord nodeCoord
}

type osmWay struct {
	id        int64
	nodes     []int64
	direction StreetDirection
}

type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]nodeCoord
	ways            []osmWay
	builder         *GraphBuilder
	logger          *zap.Logger
}

func NewOSMParser(logger *zap.Logger) *OsmParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]nodeCoord),
		ways:            make([]osmWay, 0),
		builder:         NewGraphBuilder(),
		logger:          logger,
	}
}

// ParseMapFile picks the provider from the file extension: .osm.pbf, .osm, .osm.bz2 or .geojson/.json.
func ParseMapFile(mapFile string, logger *zap.Logger) (*da.Graph, error) {
	lower := strings.ToLower(mapFile)
	if strings.HasSuffix(lower, ".geojson") || strings.HasSuffix(lower, ".json") {
		return ParseGeoJSONFile(mapFile)
	}
	return NewOSMParser(logger).Parse(mapFile)
}

// scanner [paulmach/osm] scanner plus the readers underneath it.
type scanner struct {
	osm.Scanner
	closers []io.Closer
}

func (s *scanner) Close() error {
	err := s.Scanner.Close()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if cerr := s.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func openScanner(ctx context.Context, mapFile string) (*scanner, error) {
	lower := strings.ToLower(mapFile)

	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(lower, ".pbf"):
		// must not be parallel, ways are processed in file order
		return &scanner{Scanner: osmpbf.New(ctx, f, 1), closers: []io.Closer{f}}, nil
	case strings.HasSuffix(lower, ".osm.bz2"):
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &scanner{Scanner: osmxml.New(ctx, bz), closers: []io.Closer{f, bz}}, nil
	case strings.HasSuffix(lower, ".osm"), strings.HasSuffix(lower, ".xml"):
		return &scanner{Scanner: osmxml.New(ctx, f), closers: []io.Closer{f}}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mapFile)
	}
}

/*
Parse. two passes over the map file.
first pass keeps the accepted ways and marks their nodes: way endpoints, in-between nodes, and junctions (nodes shared
by more than one way, or repeated in one way).
second pass stores the coordinates of marked nodes.
every way is then split at junctions, each piece becomes one street edge (two when not oneway) whose geometry is all the
nodes of the piece, and whose length is the haversine length of that geometry.
*/
func (p *OsmParser) Parse(mapFile string) (*da.Graph, error) {
	ctx := context.Background()

	sc, err := openScanner(ctx, mapFile)
	if err != nil {
		return nil, err
	}

	countWays := 0
	for sc.Scan() {
		way, ok := sc.Object().(*osm.Way)
		if !ok {
			continue
		}
		if len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++
		p.markWay(way)
	}
	err = sc.Err()
	sc.Close()
	if err != nil {
		return nil, err
	}

	sc, err = openScanner(ctx, mapFile)
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	countNodes := 0
	for sc.Scan() {
		n, ok := sc.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, ok := p.wayNodeMap[int64(n.ID)]; !ok {
			continue
		}
		if (countNodes+1)%500000 == 0 {
			p.logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++
		p.acceptedNodeMap[int64(n.ID)] = nodeCoord{lat: n.Lat, lon: n.Lon}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for _, way := range p.ways {
		p.processWay(way)
	}

	graph, err := p.builder.Build()
	if err != nil {
		return nil, err
	}

	p.logger.Sugar().Infof("number of vertices: %v", graph.NumberOfVertices())
	p.logger.Sugar().Infof("number of edges: %v", graph.NumberOfEdges())
	return graph, nil
}

func (p *OsmParser) markWay(way *osm.Way) {
	nodes := make([]int64, 0, len(way.Nodes))
	for i, wn := range way.Nodes {
		id := int64(wn.ID)
		nodes = append(nodes, id)
		if _, ok := p.wayNodeMap[id]; !ok {
			if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[id] = END_NODE
			} else {
				p.wayNodeMap[id] = BETWEEN_NODE
			}
		} else {
			p.wayNodeMap[id] = JUNCTION_NODE
		}
	}

	p.ways = append(p.ways, osmWay{
		id:        int64(way.ID),
		nodes:     nodes,
		direction: getStreetDirection(way),
	})
}

func (p *OsmParser) processWay(way osmWay) {
	waySegment := []node{}
	for _, id := range way.nodes {
		coord, ok := p.acceptedNodeMap[id]
		if !ok {
			// node missing from the extract, the way is cut here
			p.processSegment(waySegment, way)
			waySegment = []node{}
			continue
		}

		nodeData := node{id: id, coord: coord}
		waySegment = append(waySegment, nodeData)
		if p.isJunctionNode(id) && len(waySegment) > 1 {
			p.processSegment(waySegment, way)
			waySegment = []node{nodeData}
		}
	}
	p.processSegment(waySegment, way)
}

func (p *OsmParser) processSegment(segment []node, way osmWay) {
	if len(segment) < 2 {
		return
	}
	if len(segment) == 2 && segment[0].id == segment[1].id {
		return
	}
	if len(segment) > 2 && segment[0].id == segment[len(segment)-1].id {
		// closed loop without junction, split so both pieces have distinct endpoints
		p.addEdge(segment[0:len(segment)-1], way)
		p.addEdge(segment[len(segment)-2:], way)
		return
	}
	p.addEdge(segment, way)
}

func (p *OsmParser) addEdge(segment []node, way osmWay) {
	from := segment[0]
	to := segment[len(segment)-1]
	if from.id == to.id {
		return
	}

	fromId := p.builder.AddVertex(from.id, from.coord.lat, from.coord.lon)
	toId := p.builder.AddVertex(to.id, to.coord.lat, to.coord.lon)

	edgePoints := make(orb.LineString, 0, len(segment))
	distance := 0.0
	for i := 0; i < len(segment); i++ {
		edgePoints = append(edgePoints, orb.Point{segment[i].coord.lon, segment[i].coord.lat})
		if i > 0 {
			distance += geo.CalculateHaversineDistance(segment[i-1].coord.lat, segment[i-1].coord.lon,
				segment[i].coord.lat, segment[i].coord.lon)
		}
	}

	distanceInMeter := distance * 1000
	p.builder.AddStreet(fromId, toId, distanceInMeter, edgePoints, way.direction)
}

func (p *OsmParser) isJunctionNode(nodeID int64) bool {
	return p.wayNodeMap[nodeID] == JUNCTION_NODE
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway == "" {
		return false
	}
	if _, skip := skipHighway[highway]; skip {
		return false
	}
	if way.Tags.Find("area") == "yes" {
		return false
	}
	return true
}

func getStreetDirection(way *osm.Way) StreetDirection {
	oneway := way.Tags.Find("oneway")
	if _, ok := onewayBackward[oneway]; ok {
		return BACKWARD
	}
	if _, ok := onewayForward[oneway]; ok {
		return FORWARD
	}
	if oneway == "" {
		junction := way.Tags.Find("junction")
		if junction == "roundabout" || junction == "circular" {
			return FORWARD
		}
	}
	return BIDIRECTIONAL
}
