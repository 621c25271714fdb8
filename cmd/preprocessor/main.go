package main

import (
	"flag"

	"github.com/lintang-b-s/cityroute/pkg/logger"
	"github.com/lintang-b-s/cityroute/pkg/osmparser"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"go.uber.org/zap"
)

var (
	mapFile = flag.String("f", "./data/marica.osm.pbf", "openstreetmap (.osm.pbf, .osm, .osm.bz2) or node-link geojson file")
	outFile = flag.String("o", "./data/marica.graph", "output graph file (bzip2 text), load it with city.graph_file")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	graph, err := osmparser.ParseMapFile(*mapFile, logger)
	if err != nil {
		logger.Fatal("parsing map file", zap.String("mapFile", *mapFile), zap.Error(err))
	}

	if err := graph.WriteGraph(*outFile); err != nil {
		logger.Fatal("writing graph file", zap.String("graphFile", *outFile), zap.Error(err))
	}

	logger.Sugar().Infof("Preprocessing completed successfully. %d vertices, %d edges written to %s",
		graph.NumberOfVertices(), graph.NumberOfEdges(), *outFile)
}
