package routing

import (
	"github.com/lintang-b-s/cityroute/pkg"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
)

// vertexInfo distance label of a vertex during one query.
type vertexInfo struct {
	dist    float64
	parent  da.Index
	settled bool
}

func newVertexInfos(n int) []vertexInfo {
	infos := make([]vertexInfo, n)
	for i := range infos {
		infos[i] = vertexInfo{dist: pkg.INF_WEIGHT, parent: da.INVALID_VERTEX_ID}
	}
	return infos
}
