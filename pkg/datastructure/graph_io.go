package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"github.com/paulmach/orb"
)

var ErrMalformedGraphFile = errors.New("malformed graph file")

const maxPreallocatedItems = 1 << 20

// WriteGraph writes vertices and the original (pre-randomization) edge lengths, bzip2 compressed.
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)
	if err := g.Encode(w); err != nil {
		return err
	}
	return w.Flush()
}

// Encode writes the text representation:
//
//	numVertices numEdges
//	id lat lon osmId               (numVertices lines)
//	tail head length k lng lat ... (numEdges lines, k geometry points)
func (g *Graph) Encode(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", g.NumberOfVertices(), g.NumberOfEdges()); err != nil {
		return err
	}

	for vId := 0; vId < g.NumberOfVertices(); vId++ {
		v := g.vertices[vId]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)

		if _, err := fmt.Fprintf(w, "%d %s %s %d\n", v.id, latF, lonF, v.osmId); err != nil {
			return err
		}
	}

	for _, e := range g.edges {
		lengthF := strconv.FormatFloat(e.length, 'f', -1, 64)
		if _, err := fmt.Fprintf(w, "%d %d %s %d", e.tail, e.head, lengthF, len(e.geometry)); err != nil {
			return err
		}
		for _, p := range e.geometry {
			if _, err := fmt.Fprintf(w, " %s %s", strconv.FormatFloat(p.Lon(), 'f', -1, 64),
				strconv.FormatFloat(p.Lat(), 'f', -1, 64)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)

	if err != nil {
		return nil, err
	}
	defer bz.Close()

	return Decode(bufio.NewReader(bz))
}

func Decode(br *bufio.Reader) (*Graph, error) {
	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}

	tokens := util.Fields(line)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("%w: header %q", ErrMalformedGraphFile, line)
	}

	numVertices, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}

	numEdges, err := ParseIndex(tokens[1])
	if err != nil {
		return nil, err
	}

	// the header is not trusted for allocation, a truncated file fails on the missing lines
	vertices := make([]*Vertex, 0, min(int(numVertices), maxPreallocatedItems))
	for i := 0; i < int(numVertices); i++ {
		vertexLine, err := util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex %d of %d: %v", ErrMalformedGraphFile, i, numVertices, err)
		}
		v, err := parseVertex(vertexLine)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, v)
	}

	edges := make([]*Edge, 0, min(int(numEdges), maxPreallocatedItems))
	for i := 0; i < int(numEdges); i++ {
		edgeLine, err := util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("%w: edge %d of %d: %v", ErrMalformedGraphFile, i, numEdges, err)
		}
		e, err := parseEdge(edgeLine)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	return NewGraph(vertices, edges)
}

func parseVertex(line string) (*Vertex, error) {
	tokens := util.Fields(line)
	if len(tokens) != 4 {
		return nil, fmt.Errorf("%w: vertex %q", ErrMalformedGraphFile, line)
	}
	id, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	lat, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return nil, err
	}
	osmId, err := strconv.ParseInt(tokens[3], 10, 64)
	if err != nil {
		return nil, err
	}
	return NewVertexWithOsmId(lat, lon, id, osmId), nil
}

func parseEdge(line string) (*Edge, error) {
	tokens := util.Fields(line)
	if len(tokens) < 4 {
		return nil, fmt.Errorf("%w: edge %q", ErrMalformedGraphFile, line)
	}
	tail, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	head, err := ParseIndex(tokens[1])
	if err != nil {
		return nil, err
	}
	length, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return nil, err
	}
	k, err := strconv.Atoi(tokens[3])
	if err != nil {
		return nil, err
	}
	if len(tokens) != 4+2*k {
		return nil, fmt.Errorf("%w: edge geometry %q", ErrMalformedGraphFile, line)
	}

	var geometry orb.LineString
	if k > 0 {
		geometry = make(orb.LineString, k)
		for i := 0; i < k; i++ {
			lng, err := strconv.ParseFloat(tokens[4+2*i], 64)
			if err != nil {
				return nil, err
			}
			lat, err := strconv.ParseFloat(tokens[5+2*i], 64)
			if err != nil {
				return nil, err
			}
			geometry[i] = orb.Point{lng, lat}
		}
	}
	return NewEdge(tail, head, length, geometry), nil
}

func ParseIndex(s string) (Index, error) {
	val, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return Index(val), nil
}
