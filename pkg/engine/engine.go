package engine

import (
	"fmt"

	"github.com/lintang-b-s/cityroute/pkg"
	"github.com/lintang-b-s/cityroute/pkg/customizer"
	"github.com/lintang-b-s/cityroute/pkg/datastructure"
	"github.com/lintang-b-s/cityroute/pkg/engine/routing"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	"github.com/lintang-b-s/cityroute/pkg/osmparser"
	"github.com/lintang-b-s/cityroute/pkg/spatialindex"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	CityName        string
	MapFile         string
	GraphFile       string // preprocessed graph, used instead of MapFile when set
	Projected       bool
	RandomFactorMin float64
	RandomFactorMax float64
	RandomSeed      uint64 // 0 = seeded from clock
}

func ConfigFromViper() Config {
	return Config{
		CityName:        viper.GetString("city.name"),
		MapFile:         viper.GetString("city.map_file"),
		GraphFile:       viper.GetString("city.graph_file"),
		Projected:       viper.GetBool("graph.projected"),
		RandomFactorMin: viper.GetFloat64("graph.random_factor_min"),
		RandomFactorMax: viper.GetFloat64("graph.random_factor_max"),
		RandomSeed:      viper.GetUint64("graph.random_seed"),
	}
}

// Engine is the loaded city: randomized read-only graph, query algorithms and the nearest node index.
type Engine struct {
	routingEngine *routing.RoutingEngine
	locator       *spatialindex.NodeLocator
	randomization customizer.RandomizationStats
	numberOfSCC   int
	cityName      string
}

func (e *Engine) GetRoutingEngine() *routing.RoutingEngine {
	return e.routingEngine
}

func (e *Engine) GetNodeLocator() *spatialindex.NodeLocator {
	return e.locator
}

func (e *Engine) GetRandomizationStats() customizer.RandomizationStats {
	return e.randomization
}

func (e *Engine) NumberOfStronglyConnectedComponents() int {
	return e.numberOfSCC
}

func (e *Engine) GetCityName() string {
	return e.cityName
}

// NewEngine loads the street graph of the configured city. The returned engine is fully initialized:
// edge weights are randomized and the graph is sealed before any caller can query it.
func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	if err := osmparser.ValidateLocation(cfg.CityName); err != nil {
		return nil, err
	}

	logger.Info("Starting city routing engine...", zap.String("city", cfg.CityName))

	var (
		graph *datastructure.Graph
		err   error
	)
	if cfg.GraphFile != "" {
		logger.Info("Reading graph from ", zap.String("graphFilePath", cfg.GraphFile))
		graph, err = datastructure.ReadGraph(cfg.GraphFile)
	} else {
		logger.Info("Parsing map data from ", zap.String("mapFilePath", cfg.MapFile))
		graph, err = osmparser.ParseMapFile(cfg.MapFile, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("loading street graph of %s: %w", cfg.CityName, err)
	}

	return NewEngineFromGraph(graph, cfg, logger)
}

func NewEngineFromGraph(graph *datastructure.Graph, cfg Config, logger *zap.Logger) (*Engine, error) {
	if graph.NumberOfEdges() == 0 {
		return nil, osmparser.ErrEmptyGraph
	}

	minFactor, maxFactor := cfg.RandomFactorMin, cfg.RandomFactorMax
	if minFactor == 0 && maxFactor == 0 {
		minFactor, maxFactor = pkg.MIN_RANDOM_FACTOR, pkg.MAX_RANDOM_FACTOR
	}
	randomizer, err := customizer.NewWeightRandomizer(customizer.NewSource(cfg.RandomSeed), minFactor, maxFactor, logger)
	if err != nil {
		return nil, err
	}

	stats, err := randomizer.Randomize(graph)
	if err != nil {
		return nil, err
	}

	var projection geo.Projection
	if cfg.Projected {
		projection = geo.NewMercatorProjection()
		graph.SetProjection(projection)
	}

	locator := spatialindex.NewNodeLocator(projection)
	locator.Build(graph, logger)

	_, numberOfSCC := graph.RunKosaraju()

	logger.Info("City routing engine ready",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("strongly_connected_components", numberOfSCC))

	return &Engine{
		routingEngine: routing.NewRoutingEngine(graph, logger),
		locator:       locator,
		randomization: stats,
		numberOfSCC:   numberOfSCC,
		cityName:      cfg.CityName,
	}, nil
}
